package main

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/mshel/serpent/internal/snake"
	"github.com/mshel/serpent/internal/ui"
)

type config struct {
	DBPath      string `env:"SERPENT_DB" envDefault:"serpent.db"`
	InputPolicy string `env:"SERPENT_INPUT_POLICY" envDefault:"queued"`
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

	// Placeholder grid; the first WindowSizeMsg resizes it before play.
	game := snake.NewGame(snake.GridForViewport(80, 24), policy, store, time.Now().UnixNano())
	loop := snake.NewLoop(game)
	go loop.Run()
	defer loop.Stop()

	p := tea.NewProgram(ui.NewControllerModel(loop, 80, 24), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error("error running serpent", "error", err)
		loop.Stop()
		os.Exit(1)
	}
}
