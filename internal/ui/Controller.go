package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mshel/serpent/internal/snake"
)

type Screen int

const (
	IntroScreen Screen = iota
	GameScreen
)

// IntroSubmitMsg carries the intro menu choice: 0 to play, 1 to quit.
type IntroSubmitMsg int

// ControllerModel multiplexes the screens of one session and owns the
// session's game loop handle.
type ControllerModel struct {
	CurrentScreen Screen

	IntroModel tea.Model
	GameModel  tea.Model

	loop *snake.Loop

	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(loop *snake.Loop, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),
		GameModel:  NewGameModel(loop, screenWidth, screenHeight),

		loop:         loop,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case GameScreen:
		return m.GameModel.View()
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	var cmds []tea.Cmd

	// Global key check before delegation.
	if key, ok := msg.(tea.KeyMsg); ok {
		if key.String() == "ctrl+c" || key.String() == "q" {
			m.loop.Stop()
			return m, tea.Quit
		}
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Grid changes are deferred inside the simulation until the next
		// game; the screens just need fresh dimensions.
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		// The board gets the map share of the window, minus its border.
		boardWidth := int(float64(msg.Width)*mapViewPercentage) - 2
		boardHeight := msg.Height - 2
		m.loop.Resize(boardWidth, boardHeight)
		m.IntroModel, cmd = m.IntroModel.Update(msg)
		cmds = append(cmds, cmd)
		m.GameModel, cmd = m.GameModel.Update(msg)
		cmds = append(cmds, cmd)

	case IntroSubmitMsg:
		if msg == 1 {
			m.loop.Stop()
			return m, tea.Quit
		}
		m.CurrentScreen = GameScreen
		return m, m.GameModel.Init()

	default:
		switch m.CurrentScreen {
		case IntroScreen:
			m.IntroModel, cmd = m.IntroModel.Update(msg)
			cmds = append(cmds, cmd)
		case GameScreen:
			m.GameModel, cmd = m.GameModel.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}
