package internal

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/style"
	"github.com/muesli/reflow/wordwrap"
)

// LogsCancelledMsg closes the logs overlay.
type LogsCancelledMsg struct{}

// logsScreenKeyMap defines key bindings for the logs screen help display
type logsScreenKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Refresh key.Binding
	Back    key.Binding
}

func (k logsScreenKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Refresh, k.Back}
}

func (k logsScreenKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down, k.Refresh, k.Back}}
}

// LogsScreen shows the in-memory log buffer.
type LogsScreen struct {
	viewport      viewport.Model
	width, height int
	model         *Model
	help          help.Model
	keys          logsScreenKeyMap
	debugBuffer   *DebugBuffer
}

// NewLogsScreen creates a new logs screen
func NewLogsScreen(debugBuffer *DebugBuffer, m *Model) *LogsScreen {
	keys := logsScreenKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
	}

	s := &LogsScreen{
		viewport:    viewport.New(max(m.width-10, 0), max(m.height-10, 0)),
		width:       m.width,
		height:      m.height,
		model:       m,
		help:        help.New(),
		keys:        keys,
		debugBuffer: debugBuffer,
	}
	s.RefreshContent()
	return s
}

// Init implements tea.Model
func (s *LogsScreen) Init() tea.Cmd {
	return nil
}

// Update implements ScreenModel
func (s *LogsScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		return s.handleKeys(msg)
	}

	// Delegate to viewport for scrolling
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

// View implements tea.Model
func (s *LogsScreen) View() string {
	return style.RenderSubscreen(s.width, s.height, "Logs",
		lipgloss.JoinVertical(
			lipgloss.Left,
			s.viewport.View(),
			" ",
			lipgloss.JoinHorizontal(
				lipgloss.Left,
				s.help.View(s.keys),
				"  ",
				fmt.Sprintf("%3.f%%", s.viewport.ScrollPercent()*100),
			),
		),
	)
}

// SetSize updates dimensions
func (s *LogsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.Width = max(width-10, 0)
	s.viewport.Height = max(height-10, 0)
}

// handleKeys handles keyboard input
func (s *LogsScreen) handleKeys(msg tea.KeyMsg) (ScreenModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return s, func() tea.Msg { return LogsCancelledMsg{} }
	case "r":
		s.RefreshContent()
		return s, nil
	}

	// Pass all other keys to viewport for scrolling
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return s, cmd
}

// RefreshContent reloads the buffer and scrolls to the newest entry.
func (s *LogsScreen) RefreshContent() {
	content := "No log entries yet."
	if s.debugBuffer != nil && s.debugBuffer.Len() > 0 {
		content = wordwrap.String(s.debugBuffer.String(), max(s.viewport.Width, 20))
	}
	s.viewport.SetContent(content)
	s.viewport.GotoBottom()
}
