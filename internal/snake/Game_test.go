package snake

import (
	"errors"
	"testing"
)

type memStore struct {
	best int
	err  error
}

func (s *memStore) Best() (int, error) {
	return s.best, s.err
}

func (s *memStore) SetBest(score int) error {
	if s.err != nil {
		return s.err
	}
	if score > s.best {
		s.best = score
	}
	return nil
}

func newTestGame(store ScoreStore) *Game {
	return NewGame(Grid{Cols: 20, Rows: 20, TileSize: 1}, PolicyQueued, store, 1)
}

func startedGame(t *testing.T, store ScoreStore) *Game {
	t.Helper()
	g := newTestGame(store)
	if !g.Start() {
		t.Fatal("fresh game refused to start")
	}
	return g
}

func TestNewGameShape(t *testing.T) {
	g := newTestGame(&memStore{best: 70})

	if len(g.snake) != InitialLength {
		t.Fatalf("initial length %d, want %d", len(g.snake), InitialLength)
	}
	if g.dir != Right {
		t.Fatalf("initial direction %v, want %v", g.dir, Right)
	}
	if g.score != 0 {
		t.Fatalf("initial score %d, want 0", g.score)
	}
	if g.highScore != 70 {
		t.Fatalf("high score %d, want 70 from store", g.highScore)
	}
	if g.state != StateNotStarted {
		t.Fatalf("initial state %v, want %v", g.state, StateNotStarted)
	}
	for i := 1; i < len(g.snake); i++ {
		if g.snake[i-1].X-g.snake[i].X != 1 || g.snake[i-1].Y != g.snake[i].Y {
			t.Fatalf("snake not laid out head-right: %v", g.snake)
		}
	}
}

func TestNewGameSurvivesBrokenStore(t *testing.T) {
	g := newTestGame(&memStore{best: 70, err: errors.New("disk gone")})

	if g.highScore != 0 {
		t.Fatalf("high score %d, want 0 fallback on store failure", g.highScore)
	}
}

func TestTickKeepsLengthWithoutFood(t *testing.T) {
	g := startedGame(t, nil)
	g.food = Cell{X: 0, Y: 0} // out of the snake's path

	for i := 0; i < 10; i++ {
		before := len(g.snake)
		moved, died := g.Tick()
		if !moved || died {
			t.Fatalf("tick %d: moved=%v died=%v", i, moved, died)
		}
		if len(g.snake) != before {
			t.Fatalf("tick %d: length changed %d -> %d without food", i, before, len(g.snake))
		}
		head := g.snake[0]
		if head.X < 0 || head.X >= g.grid.Cols || head.Y < 0 || head.Y >= g.grid.Rows {
			t.Fatalf("tick %d: head %v outside grid", i, head)
		}
	}
}

func TestTickEatsFoodAndGrows(t *testing.T) {
	g := startedGame(t, nil)
	g.snake = []Cell{{X: 7, Y: 8}, {X: 6, Y: 8}, {X: 5, Y: 8}, {X: 4, Y: 8}, {X: 3, Y: 8}}
	g.dir = Right
	g.food = Cell{X: 8, Y: 8}

	if _, died := g.Tick(); died {
		t.Fatal("died eating food")
	}

	if g.score != 10 {
		t.Fatalf("score %d, want 10", g.score)
	}
	if len(g.snake) != 6 {
		t.Fatalf("length %d after eating, want 6", len(g.snake))
	}
	if g.snake[0] != (Cell{X: 8, Y: 8}) {
		t.Fatalf("head %v, want (8,8)", g.snake[0])
	}
	if g.occupied(g.food) {
		t.Fatalf("respawned food %v sits on the snake", g.food)
	}
}

func TestScoreStaysMultipleOfTen(t *testing.T) {
	g := startedGame(t, nil)

	for i := 0; i < 5; i++ {
		// Park the food directly ahead of the snake.
		g.food = g.grid.Step(g.snake[0], g.dir)
		g.Tick()
		if g.score%10 != 0 || g.score < 0 {
			t.Fatalf("score %d not a non-negative multiple of 10", g.score)
		}
	}
	if g.score != 50 {
		t.Fatalf("score %d after 5 meals, want 50", g.score)
	}
}

func TestNeckCollisionEndsGame(t *testing.T) {
	g := startedGame(t, nil)
	g.snake = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}
	g.dir = Left // next head (4,5) is the neck

	moved, died := g.Tick()
	if !moved || !died {
		t.Fatalf("moved=%v died=%v, want collision", moved, died)
	}
	if g.state != StateGameOver {
		t.Fatalf("state %v, want %v", g.state, StateGameOver)
	}
}

func TestTailCellCollisionIsStrict(t *testing.T) {
	g := startedGame(t, nil)
	// Square body: the head moving up enters the cell the tail occupies.
	// The tail would vacate this very tick, but the check is against the
	// pre-move body.
	g.snake = []Cell{{X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0, Y: 0}, {X: 1, Y: 0}}
	g.dir = Up

	if _, died := g.Tick(); !died {
		t.Fatal("moving into the current tail cell should collide")
	}
}

func TestToroidalWrapMovement(t *testing.T) {
	g := startedGame(t, nil)
	g.snake = []Cell{{X: 19, Y: 10}, {X: 18, Y: 10}, {X: 17, Y: 10}, {X: 16, Y: 10}, {X: 15, Y: 10}}
	g.dir = Right
	g.food = Cell{X: 5, Y: 5}

	g.Tick()
	if g.snake[0] != (Cell{X: 0, Y: 10}) {
		t.Fatalf("head %v after wrapping, want (0,10)", g.snake[0])
	}
}

func TestPausedTickMutatesNothing(t *testing.T) {
	g := startedGame(t, nil)
	if !g.TogglePause() {
		t.Fatal("could not pause a running game")
	}

	before := g.Snapshot()
	moved, died := g.Tick()
	after := g.Snapshot()

	if moved || died {
		t.Fatalf("paused tick reported moved=%v died=%v", moved, died)
	}
	if before.Score != after.Score || before.Food != after.Food || len(before.Snake) != len(after.Snake) {
		t.Fatal("paused tick mutated state")
	}
	for i := range before.Snake {
		if before.Snake[i] != after.Snake[i] {
			t.Fatal("paused tick moved the snake")
		}
	}

	if !g.TogglePause() {
		t.Fatal("could not resume")
	}
	if moved, _ := g.Tick(); !moved {
		t.Fatal("resumed game did not tick")
	}
}

func TestPauseOnlyTogglesMidRun(t *testing.T) {
	g := newTestGame(nil)
	if g.TogglePause() {
		t.Fatal("paused a game that never started")
	}
	g.Start()
	g.snake = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}
	g.dir = Left
	g.Tick()
	if g.TogglePause() {
		t.Fatal("paused a finished game")
	}
}

func TestGameOverPersistsHighScore(t *testing.T) {
	store := &memStore{best: 10}
	g := startedGame(t, store)
	g.score = 40
	g.snake = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}
	g.dir = Left

	g.Tick()

	if g.highScore != 40 {
		t.Fatalf("high score %d, want 40", g.highScore)
	}
	if store.best != 40 {
		t.Fatalf("persisted best %d, want 40", store.best)
	}
}

func TestGameOverStoreFailureIsNonFatal(t *testing.T) {
	g := startedGame(t, nil)
	g.store = &memStore{err: errors.New("disk gone")}
	g.score = 40
	g.snake = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}
	g.dir = Left

	g.Tick() // must not panic

	if g.highScore != 40 {
		t.Fatalf("in-memory high score %d, want 40 despite store failure", g.highScore)
	}
}

func TestResetRestoresConstructionShape(t *testing.T) {
	store := &memStore{}
	g := startedGame(t, store)
	g.score = 30
	g.snake = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}
	g.dir = Left
	g.Tick()
	g.Steer(Down) // buffered during the game-over window

	if g.Start() {
		t.Fatal("start signal accepted during the game-over window")
	}
	if !g.Reset() {
		t.Fatal("reset refused after game over")
	}
	if g.Reset() {
		t.Fatal("second reset should be a no-op")
	}

	if g.state != StateNotStarted {
		t.Fatalf("state %v after reset, want %v", g.state, StateNotStarted)
	}
	if g.score != 0 || len(g.snake) != InitialLength || g.dir != Right {
		t.Fatalf("reset left score=%d len=%d dir=%v", g.score, len(g.snake), g.dir)
	}
	if g.buffer.Len() != 0 {
		t.Fatal("reset kept buffered input")
	}
	if g.highScore != 30 {
		t.Fatalf("high score %d after reset, want 30 preserved", g.highScore)
	}
	if g.occupied(g.food) {
		t.Fatalf("fresh food %v sits on the snake", g.food)
	}
}

func TestResizeDeferredUntilReset(t *testing.T) {
	g := startedGame(t, nil)
	before := g.grid

	g.Resize(250, 140)
	if g.grid != before {
		t.Fatalf("mid-run resize applied immediately: %+v", g.grid)
	}

	g.snake = []Cell{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}
	g.dir = Left
	g.Tick()
	g.Reset()

	want := GridForViewport(250, 140)
	if g.grid != want {
		t.Fatalf("grid %+v after reset, want %+v", g.grid, want)
	}
}

func TestResizeAppliesImmediatelyBeforeStart(t *testing.T) {
	g := newTestGame(nil)
	g.Resize(250, 140)

	want := GridForViewport(250, 140)
	if g.grid != want {
		t.Fatalf("grid %+v while not started, want %+v", g.grid, want)
	}
	if g.occupied(g.food) || len(g.snake) != InitialLength {
		t.Fatal("respawn after resize broke the construction shape")
	}
}

func TestFoodPlacementMarginAndOccupancy(t *testing.T) {
	g := newTestGame(nil)

	// 15% of 20 is 3: food always lands in [3,17) on both axes.
	for i := 0; i < 200; i++ {
		g.placeFood()
		f := g.food
		if f.X < 3 || f.X >= 17 || f.Y < 3 || f.Y >= 17 {
			t.Fatalf("food %v outside the inset margin", f)
		}
		if g.occupied(f) {
			t.Fatalf("food %v on the snake", f)
		}
	}
}

func TestSteerReversalNeverApplies(t *testing.T) {
	for _, policy := range []Policy{PolicyImmediate, PolicyQueued} {
		g := NewGame(Grid{Cols: 20, Rows: 20, TileSize: 1}, policy, nil, 1)
		g.Start()
		g.food = Cell{X: 0, Y: 0}

		g.Steer(Left) // opposite of the established Right
		g.Tick()

		if g.dir != Right {
			t.Fatalf("%v: direction %v after reversal input, want %v", policy, g.dir, Right)
		}
	}
}
