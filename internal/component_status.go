package internal

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/style"
)

// StatusBar renders the status message and the busy spinner. It holds no
// state of its own beyond the spinner animation.
type StatusBar struct {
	spinner  spinner.Model
	spinning bool
}

func NewStatusBar() *StatusBar {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(style.ColorSpinner)

	return &StatusBar{spinner: s}
}

// Start begins animating. Calling it while already spinning is a no-op so
// only one tick chain is ever alive.
func (s *StatusBar) Start() tea.Cmd {
	if s.spinning {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

// Stop ends the animation; the pending tick is dropped when it arrives.
func (s *StatusBar) Stop() {
	s.spinning = false
}

func (s *StatusBar) Update(msg spinner.TickMsg) tea.Cmd {
	if !s.spinning {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders one line: the spinner when busy, then the message.
func (s *StatusBar) View(message string, busy bool) string {
	indicator := "  "
	if busy {
		indicator = s.spinner.View() + " "
	}
	if message == "" && busy {
		message = "Loading..."
	}
	return style.StatusStyle.Render(indicator + message)
}
