package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mshel/serpent/internal/snake"
)

// --- Styling Definitions ---

var (
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240"))

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2)

	voidStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("235"))
	foodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	headStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("48")).Bold(true)

	// Body segments fade with depth, capped at four tiers.
	bodyStyles = [4]lipgloss.Style{
		lipgloss.NewStyle().Foreground(lipgloss.Color("48")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
		lipgloss.NewStyle().Foreground(lipgloss.Color("30")),
	}

	headRunes = map[snake.Direction]string{
		snake.Up:    "▲",
		snake.Down:  "▼",
		snake.Left:  "◀",
		snake.Right: "▶",
	}

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")).
			Padding(1, 4).
			Align(lipgloss.Center)
)

const (
	mapViewPercentage = 0.70

	bodyRune = "○"
	foodRune = "●"
	voidRune = "·"
)

// --- Key Bindings ---

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Press key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Press, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Press, k.Quit},
	}
}

var defaultKeyMap = keyMap{
	Up:    key.NewBinding(key.WithKeys("up", "w"), key.WithHelp("↑/w", "up")),
	Down:  key.NewBinding(key.WithKeys("down", "s"), key.WithHelp("↓/s", "down")),
	Left:  key.NewBinding(key.WithKeys("left", "a"), key.WithHelp("←/a", "left")),
	Right: key.NewBinding(key.WithKeys("right", "d"), key.WithHelp("→/d", "right")),
	Press: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "start/pause")),
	Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// GameViewModel renders snapshots pushed by the game loop and translates
// key presses into loop commands. It never touches simulation state
// directly.
type GameViewModel struct {
	loop *snake.Loop

	snap      snake.Snapshot
	haveSnap  bool
	TickCount int

	keys keyMap
	help help.Model

	ScreenWidth  int
	ScreenHeight int
}

func NewGameModel(loop *snake.Loop, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		loop:         loop,
		keys:         defaultKeyMap,
		help:         help.New(),
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m GameViewModel) Init() tea.Cmd {
	return m.listenForGameUpdates()
}

// listenForGameUpdates blocks on the loop's update channel; one redraw
// message is delivered per state mutation.
func (m GameViewModel) listenForGameUpdates() tea.Cmd {
	updates := m.loop.Updates
	return func() tea.Msg {
		return <-updates
	}
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth, m.ScreenHeight = msg.Width, msg.Height
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Up):
			m.loop.Steer(snake.Up)
		case key.Matches(msg, m.keys.Down):
			m.loop.Steer(snake.Down)
		case key.Matches(msg, m.keys.Left):
			m.loop.Steer(snake.Left)
		case key.Matches(msg, m.keys.Right):
			m.loop.Steer(snake.Right)
		case key.Matches(msg, m.keys.Press):
			m.loop.Press()
		}

	case snake.TickMsg:
		m.snap = msg.Snap
		m.haveSnap = true
		m.TickCount++
		return m, m.listenForGameUpdates()

	case snake.StatusMsg:
		m.snap = msg.Snap
		m.haveSnap = true
		return m, m.listenForGameUpdates()

	case snake.GameOverMsg:
		m.snap = msg.Snap
		m.haveSnap = true
		return m, m.listenForGameUpdates()
	}

	return m, nil
}

func (m GameViewModel) View() string {
	if !m.haveSnap {
		return "Game Loading..."
	}

	if m.snap.State == snake.StateGameOver {
		return m.renderGameOver()
	}

	board := boardStyle.Render(m.renderBoard())
	panel := statusPanelStyle.Render(m.renderStatusPanel())

	content := lipgloss.JoinHorizontal(lipgloss.Top, board, panel)

	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		content,
	)
}

// renderBoard draws the grid one rune per cell.
func (m GameViewModel) renderBoard() string {
	segments := make(map[snake.Cell]int, len(m.snap.Snake))
	for i, cell := range m.snap.Snake {
		segments[cell] = i
	}

	var board strings.Builder
	for row := 0; row < m.snap.Grid.Rows; row++ {
		if row > 0 {
			board.WriteString("\n")
		}
		for col := 0; col < m.snap.Grid.Cols; col++ {
			cell := snake.Cell{X: col, Y: row}

			if depth, ok := segments[cell]; ok {
				if depth == 0 {
					board.WriteString(headStyle.Render(headRunes[m.snap.Dir]))
				} else {
					tier := min(depth-1, len(bodyStyles)-1)
					board.WriteString(bodyStyles[tier].Render(bodyRune))
				}
				continue
			}

			if cell == m.snap.Food {
				board.WriteString(foodStyle.Render(foodRune))
				continue
			}

			board.WriteString(voidStyle.Render(voidRune))
		}
	}

	return board.String()
}

func (m GameViewModel) renderStatusPanel() string {
	var panel strings.Builder

	panel.WriteString(lipgloss.NewStyle().Bold(true).Render("--- Serpent ---") + "\n")
	panel.WriteString(fmt.Sprintf("Score: %d\n", m.snap.Score))
	panel.WriteString(fmt.Sprintf("Best: %d\n", m.snap.HighScore))
	panel.WriteString(fmt.Sprintf("Length: %d\n", len(m.snap.Snake)))
	panel.WriteString(fmt.Sprintf("Game Tick: %d\n", m.TickCount))

	panel.WriteString("\n")
	switch m.snap.State {
	case snake.StateNotStarted:
		panel.WriteString(lipgloss.NewStyle().Bold(true).Render("Press space to start") + "\n")
	case snake.StatePaused:
		panel.WriteString(lipgloss.NewStyle().Bold(true).Render("PAUSED") + "\n")
	}

	panel.WriteString("\n" + m.help.View(m.keys))

	return panel.String()
}

func (m GameViewModel) renderGameOver() string {
	title := gameOverStyle.Render("💀 G A M E   O V E R 💀")

	stats := fmt.Sprintf("\nScore: %d\nBest: %d\n\n", m.snap.Score, m.snap.HighScore)
	hint := lipgloss.NewStyle().Faint(true).Render("a new game starts shortly...")

	content := lipgloss.JoinVertical(lipgloss.Center, title, stats, hint)

	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(content),
	)
}
