package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/bubbletea"
	"github.com/charmbracelet/wish/logging"

	"github.com/mshel/serpent/internal/snake"
	"github.com/mshel/serpent/internal/ui"
)

type config struct {
	Host          string `env:"SERPENT_HOST" envDefault:"0.0.0.0"`
	Port          string `env:"SERPENT_PORT" envDefault:"2222"`
	HostKeyPath   string `env:"SERPENT_HOST_KEY" envDefault:".ssh/serpent_ed25519"`
	DBPath        string `env:"SERPENT_DB" envDefault:"serpent.db"`
	InputPolicy   string `env:"SERPENT_INPUT_POLICY" envDefault:"queued"`
	MaxConnsPerIP int    `env:"SERPENT_MAX_CONNS_PER_IP" envDefault:"2"`
}

// ipLimiter caps concurrent sessions per client address.
type ipLimiter struct {
	mu    sync.Mutex
	conns map[string]int
	limit int
}

func newIPLimiter(limit int) *ipLimiter {
	return &ipLimiter{conns: make(map[string]int), limit: limit}
}

func (l *ipLimiter) acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.conns[ip] >= l.limit {
		return false
	}
	l.conns[ip]++
	return true
}

func (l *ipLimiter) release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.conns[ip]--
	if l.conns[ip] <= 0 {
		delete(l.conns, ip)
	}
}

func (l *ipLimiter) middleware(next ssh.Handler) ssh.Handler {
	return func(s ssh.Session) {
		ip := sessionIP(s)
		if !l.acquire(ip) {
			log.Warn("connection denied, ip limit exceeded", "ip", ip, "limit", l.limit)
			fmt.Fprintf(s, "Too many active connections from your IP. Please try again later.\r\n")
			s.Close()
			return
		}
		defer l.release(ip)

		log.Info("connection accepted", "ip", ip)
		next(s)
		log.Info("connection closed", "ip", ip)
	}
}

func sessionIP(s ssh.Session) string {
	if addr, ok := s.RemoteAddr().(*net.TCPAddr); ok {
		return addr.IP.String()
	}
	return s.RemoteAddr().String()
}

// app carries the collaborators shared by all sessions; each session
// still gets its own game and loop.
type app struct {
	store  snake.ScoreStore
	policy snake.Policy
}

func (a *app) viewHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, _ := sshSession.Pty()

	grid := snake.GridForViewport(pty.Window.Width, pty.Window.Height)
	game := snake.NewGame(grid, a.policy, a.store, time.Now().UnixNano())
	loop := snake.NewLoop(game)
	go loop.Run()
	go func() {
		<-sshSession.Context().Done()
		loop.Stop()
	}()

	controllerModel := ui.NewControllerModel(loop, pty.Window.Width, pty.Window.Height)
	return controllerModel, []tea.ProgramOption{tea.WithAltScreen()}
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatal("could not parse environment", "error", err)
	}

	policy, err := snake.ParsePolicy(cfg.InputPolicy)
	if err != nil {
		log.Fatal("bad SERPENT_INPUT_POLICY", "error", err)
	}

	var store snake.ScoreStore
	service, serviceErr := snake.NewHighScoreService(cfg.DBPath)
	if serviceErr != nil {
		log.Warn("high score persistence disabled", "error", serviceErr)
	} else {
		store = service
		defer service.Close()
	}

	sessions := &app{store: store, policy: policy}
	limiter := newIPLimiter(cfg.MaxConnsPerIP)

	sshServer, serverCreateErr := wish.NewServer(
		wish.WithAddress(cfg.Host+":"+cfg.Port),
		wish.WithHostKeyPath(cfg.HostKeyPath),
		wish.WithMiddleware(
			bubbletea.Middleware(sessions.viewHandler),
			logging.Middleware(),
			activeterm.Middleware(),
			limiter.middleware,
		),
	)
	if serverCreateErr != nil {
		log.Fatal("failed to create ssh server", "error", serverCreateErr)
	}

	serverDoneChannel := make(chan os.Signal, 1)
	signal.Notify(serverDoneChannel, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting ssh server", "host", cfg.Host, "port", cfg.Port, "policy", policy)
	go func() {
		if err := sshServer.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Error("could not start server", "error", err)
			serverDoneChannel <- nil
		}
	}()

	<-serverDoneChannel

	log.Info("stopping ssh server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sshServer.Shutdown(ctx); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
		log.Error("could not stop server", "error", err)
	}
}
