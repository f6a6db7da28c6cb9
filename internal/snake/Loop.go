package snake

import (
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

// Messages pushed to the UI after each state mutation.

// TickMsg reports one completed simulation step.
type TickMsg struct {
	Snap Snapshot
}

// StatusMsg reports a lifecycle change that moved nothing on the grid:
// start, pause toggle, reset, resize.
type StatusMsg struct {
	Snap Snapshot
}

// GameOverMsg reports a collision ending the run.
type GameOverMsg struct {
	Snap Snapshot
}

type command int

const (
	cmdPress command = iota
	cmdReset
)

type resize struct {
	width, height int
}

// Loop drives one Game from a single goroutine: a fixed-interval ticker
// multiplexed with steering and control channels. Only this goroutine
// touches the Game, so the simulation needs no locks.
type Loop struct {
	game *Game

	interval time.Duration
	restart  time.Duration

	directions chan Direction
	controls   chan command
	resizes    chan resize

	// Updates carries a tea.Msg per redraw; the UI drains it with a
	// blocking Cmd.
	Updates chan tea.Msg

	done     chan struct{}
	stopOnce sync.Once
}

func NewLoop(game *Game) *Loop {
	return &Loop{
		game:       game,
		interval:   TickInterval,
		restart:    RestartDelay,
		directions: make(chan Direction, 10),
		controls:   make(chan command, 4),
		resizes:    make(chan resize, 1),
		Updates:    make(chan tea.Msg, 256),
		done:       make(chan struct{}),
	}
}

// Run blocks until Stop. Ticks while paused or between games
// short-circuit without mutating state or redrawing.
func (l *Loop) Run() {
	log.Debug("game loop started")
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-l.done:
			log.Debug("game loop stopped")
			return

		case d := <-l.directions:
			l.game.Steer(d)

		case c := <-l.controls:
			l.apply(c)

		case r := <-l.resizes:
			l.game.Resize(r.width, r.height)
			l.notify(StatusMsg{Snap: l.game.Snapshot()})

		case <-ticker.C:
			moved, died := l.game.Tick()
			if !moved {
				continue
			}
			l.notify(TickMsg{Snap: l.game.Snapshot()})
			if died {
				l.notify(GameOverMsg{Snap: l.game.Snapshot()})
				time.AfterFunc(l.restart, func() { l.control(cmdReset) })
			}
		}
	}
}

func (l *Loop) apply(c command) {
	switch c {
	case cmdPress:
		// One key both starts and pauses; the game state decides which.
		if !l.game.Start() && !l.game.TogglePause() {
			return
		}
	case cmdReset:
		if !l.game.Reset() {
			return
		}
	}
	l.notify(StatusMsg{Snap: l.game.Snapshot()})
}

// Steer queues a directional intent. Like all input, a full channel
// drops it silently.
func (l *Loop) Steer(d Direction) {
	select {
	case l.directions <- d:
	default:
	}
}

// Press delivers the start-or-pause signal.
func (l *Loop) Press() {
	l.control(cmdPress)
}

// Resize delivers new viewport dimensions. Only the latest matters, so
// a pending one still in the channel is replaced.
func (l *Loop) Resize(width, height int) {
	r := resize{width: width, height: height}
	select {
	case l.resizes <- r:
		return
	case <-l.done:
		return
	default:
	}
	select {
	case <-l.resizes:
	default:
	}
	select {
	case l.resizes <- r:
	default:
	}
}

// Stop terminates the loop. Safe to call more than once.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() { close(l.done) })
}

func (l *Loop) control(c command) {
	select {
	case l.controls <- c:
	case <-l.done:
	}
}

func (l *Loop) notify(msg tea.Msg) {
	select {
	case l.Updates <- msg:
	default:
		log.Debug("update dropped, renderer not draining")
	}
}
