package snake

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// ScoreStore persists the best score across games and processes. Store
// failures are never fatal to the simulation: callers log and carry on
// with what they have.
type ScoreStore interface {
	Best() (int, error)
	SetBest(score int) error
}

const (
	tableName = "high_scores"

	// Single-player build keeps one row.
	scoreKey = "serpent"
)

// HighScoreService is the sqlite-backed ScoreStore.
type HighScoreService struct {
	db *sql.DB
}

func NewHighScoreService(path string) (*HighScoreService, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open high score database: %w", err)
	}

	service := &HighScoreService{db: db}
	if err := service.createTable(); err != nil {
		db.Close()
		return nil, err
	}

	return service, nil
}

func (serviceImpl *HighScoreService) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		name TEXT PRIMARY KEY,
		best INTEGER NOT NULL
	);`

	if _, err := serviceImpl.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	return nil
}

// Best returns the persisted high score, zero when none was ever saved.
func (serviceImpl *HighScoreService) Best() (int, error) {
	const selectSQL = `SELECT best FROM ` + tableName + ` WHERE name = ?;`

	var best int
	err := serviceImpl.db.QueryRow(selectSQL, scoreKey).Scan(&best)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to query high score: %w", err)
	}
	return best, nil
}

// SetBest stores a new high score. The stored value never decreases,
// even if a caller hands in a lower score.
func (serviceImpl *HighScoreService) SetBest(score int) error {
	const upsertSQL = `
	INSERT INTO ` + tableName + ` (name, best) VALUES (?, ?)
	ON CONFLICT(name) DO UPDATE SET best = excluded.best
	WHERE excluded.best > best;`

	if _, err := serviceImpl.db.Exec(upsertSQL, scoreKey, score); err != nil {
		return fmt.Errorf("failed to persist high score %d: %w", score, err)
	}
	return nil
}

func (serviceImpl *HighScoreService) Close() error {
	return serviceImpl.db.Close()
}
