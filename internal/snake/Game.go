package snake

import (
	"math/rand"

	"github.com/charmbracelet/log"
)

// State is the lifecycle phase of a game.
type State int

const (
	StateNotStarted State = iota
	StateRunning
	StatePaused
	StateGameOver
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not started"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	}
	return "unknown"
}

// Game owns the authoritative simulation state for one player: the snake,
// the food, the score and the lifecycle phase. All mutation happens
// through Tick and the explicit transitions below; callers that run the
// game from a loop goroutine must route every call through that
// goroutine.
type Game struct {
	grid        Grid
	pendingGrid Grid

	snake  []Cell
	food   Cell
	dir    Direction
	buffer *Buffer

	score     int
	highScore int
	state     State

	store ScoreStore
	rng   *rand.Rand
}

// Snapshot is a read-only copy of the game state handed to renderers.
type Snapshot struct {
	Grid      Grid
	Snake     []Cell
	Food      Cell
	Dir       Direction
	Score     int
	HighScore int
	State     State
}

// NewGame builds a game in its construction shape: a fresh snake heading
// right from the grid center, score zero, high score loaded from the
// store. A nil store or a store read failure falls back to zero and is
// never fatal.
func NewGame(grid Grid, policy Policy, store ScoreStore, seed int64) *Game {
	g := &Game{
		grid:        grid,
		pendingGrid: grid,
		buffer:      NewBuffer(policy),
		store:       store,
		rng:         rand.New(rand.NewSource(seed)),
	}

	if store != nil {
		best, err := store.Best()
		if err != nil {
			log.Warn("high score unavailable, starting from zero", "error", err)
		} else {
			g.highScore = best
		}
	}

	g.spawn()
	return g
}

// spawn lays out the construction-time shape on the current grid.
func (g *Game) spawn() {
	cx, cy := g.grid.Cols/2, g.grid.Rows/2

	g.snake = g.snake[:0]
	for i := 0; i < InitialLength; i++ {
		g.snake = append(g.snake, g.grid.Wrap(Cell{X: cx - i, Y: cy}))
	}

	g.dir = Right
	g.score = 0
	g.buffer.Reset()
	g.placeFood()
}

// placeFood samples uniformly inside the inset margin until it finds a
// cell the snake does not occupy. Degenerate grids where the margin
// leaves no room fall back to the full grid.
func (g *Game) placeFood() {
	minX := int(float64(g.grid.Cols) * foodInsetRatio)
	maxX := g.grid.Cols - minX
	minY := int(float64(g.grid.Rows) * foodInsetRatio)
	maxY := g.grid.Rows - minY

	if maxX <= minX {
		minX, maxX = 0, g.grid.Cols
	}
	if maxY <= minY {
		minY, maxY = 0, g.grid.Rows
	}

	for {
		candidate := Cell{
			X: minX + g.rng.Intn(maxX-minX),
			Y: minY + g.rng.Intn(maxY-minY),
		}
		if !g.occupied(candidate) {
			g.food = candidate
			return
		}
	}
}

func (g *Game) occupied(c Cell) bool {
	for _, cell := range g.snake {
		if cell == c {
			return true
		}
	}
	return false
}

// Steer records a directional intent for a coming tick.
func (g *Game) Steer(d Direction) {
	g.buffer.Push(d, g.dir)
}

// Start begins a game that has not started yet. Start signals in any
// other phase, including the delay window before an automatic reset, are
// ignored.
func (g *Game) Start() bool {
	if g.state != StateNotStarted {
		return false
	}
	g.state = StateRunning
	return true
}

// TogglePause flips between Running and Paused.
func (g *Game) TogglePause() bool {
	switch g.state {
	case StateRunning:
		g.state = StatePaused
		return true
	case StatePaused:
		g.state = StateRunning
		return true
	}
	return false
}

// Resize records new viewport dimensions. The grid change takes effect
// between games; applying it mid-run could strand the snake outside the
// new bounds.
func (g *Game) Resize(width, height int) {
	g.pendingGrid = GridForViewport(width, height)
	if g.state == StateNotStarted {
		g.grid = g.pendingGrid
		g.spawn()
	}
}

// Reset returns a finished game to its construction shape, keeping the
// high score and applying any pending resize. Idempotent: only the
// GameOver phase resets, so a repeated or racing reset is a no-op.
func (g *Game) Reset() bool {
	if g.state != StateGameOver {
		return false
	}
	g.grid = g.pendingGrid
	g.state = StateNotStarted
	g.spawn()
	return true
}

// Tick advances the simulation by exactly one cell. It reports whether
// state changed (false while paused or outside a run) and whether the
// snake died on this tick.
func (g *Game) Tick() (moved, died bool) {
	if g.state != StateRunning {
		return false, false
	}

	g.dir = g.buffer.Next(g.dir)
	head := g.grid.Step(g.snake[0], g.dir)

	// Checked against the full pre-move body: moving into the cell the
	// tail occupies right now is still a collision.
	if g.occupied(head) {
		g.gameOver()
		return true, true
	}

	g.snake = append(g.snake, Cell{})
	copy(g.snake[1:], g.snake)
	g.snake[0] = head

	if head == g.food {
		g.score += FoodPoints
		g.placeFood()
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}

	return true, false
}

func (g *Game) gameOver() {
	g.state = StateGameOver

	if g.score > g.highScore {
		g.highScore = g.score
		if g.store != nil {
			if err := g.store.SetBest(g.score); err != nil {
				log.Warn("could not persist high score", "score", g.score, "error", err)
			}
		}
	}
}

// Snapshot copies the state for rendering.
func (g *Game) Snapshot() Snapshot {
	body := make([]Cell, len(g.snake))
	copy(body, g.snake)

	return Snapshot{
		Grid:      g.grid,
		Snake:     body,
		Food:      g.food,
		Dir:       g.dir,
		Score:     g.score,
		HighScore: g.highScore,
		State:     g.state,
	}
}

// State reports the current lifecycle phase.
func (g *Game) State() State {
	return g.state
}
