package internal

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/jhalter/articles-client/internal/style"
	"github.com/muesli/reflow/wordwrap"
)

const modalWidth = 56

// ModalKind selects what finishing the dialog does.
type ModalKind int

const (
	ModalError ModalKind = iota
	ModalConfirmDelete
)

// DeleteConfirmedMsg is sent when the user chose Delete on a confirm-delete
// dialog.
type DeleteConfirmedMsg struct {
	ID int
}

// ModalDismissedMsg is sent for every other way a dialog closes.
type ModalDismissedMsg struct{}

// ModalScreen is either a confirm-delete dialog for one article or an error
// notice with a single Close button.
type ModalScreen struct {
	form *huh.Form

	width, height int
	model         *Model

	kind      ModalKind
	articleID int
	title     string
	body      string

	// Bound to the Delete/Keep toggle. Starts on Keep.
	confirmed bool
}

// NewConfirmDeleteModal asks before deleting a. The article is captured by
// ID so a list refresh under the dialog can't retarget it.
func NewConfirmDeleteModal(a api.Article, m *Model) *ModalScreen {
	name := fmt.Sprintf("#%d", a.ID)
	if a.Title != "" {
		name = fmt.Sprintf("#%d %q", a.ID, a.Title)
	}
	if a.Topic != "" {
		name += " (" + a.Topic + ")"
	}

	s := &ModalScreen{
		kind:      ModalConfirmDelete,
		articleID: a.ID,
		title:     "Delete Article",
		body:      fmt.Sprintf("Delete %s? This cannot be undone.", name),
		width:     m.width,
		height:    m.height,
		model:     m,
	}
	s.form = newModalForm(huh.NewConfirm().
		Key("confirm").
		Affirmative("Delete").
		Negative("Keep").
		Value(&s.confirmed))
	return s
}

// NewErrorModal shows text until the user closes it.
func NewErrorModal(text string, m *Model) *ModalScreen {
	s := &ModalScreen{
		kind:   ModalError,
		title:  "Error",
		body:   text,
		width:  m.width,
		height: m.height,
		model:  m,
	}
	s.form = newModalForm(huh.NewConfirm().
		Key("confirm").
		Affirmative("Close").
		Negative(""))
	return s
}

func newModalForm(field *huh.Confirm) *huh.Form {
	keyMap := huh.NewDefaultKeyMap()
	keyMap.Confirm.Toggle.SetKeys("left", "right", "h", "l", "tab")

	theme := huh.ThemeCharm()
	theme.Focused.Base = theme.Focused.Base.
		UnsetBorderLeft().
		UnsetBorderStyle()

	return huh.NewForm(huh.NewGroup(field)).
		WithWidth(modalWidth).
		WithShowHelp(false).
		WithShowErrors(false).
		WithKeyMap(keyMap).
		WithTheme(theme)
}

func (s *ModalScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements ScreenModel
func (s *ModalScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "esc" {
			return s, dismissModal
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		return s, s.result()
	}
	return s, cmd
}

func dismissModal() tea.Msg { return ModalDismissedMsg{} }

// result maps the final toggle position to the message for the model. Only
// a confirm-delete dialog left on Delete produces a deletion.
func (s *ModalScreen) result() tea.Cmd {
	if s.kind != ModalConfirmDelete || !s.confirmed || s.articleID == 0 {
		return dismissModal
	}
	id := s.articleID
	return func() tea.Msg { return DeleteConfirmedMsg{ID: id} }
}

// View renders the modal screen
func (s *ModalScreen) View() string {
	palette := style.HeaderPalette
	if s.kind == ModalConfirmDelete {
		palette = style.DangerPalette
	}

	title := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Render(style.Gradient(s.title, palette))

	body := lipgloss.NewStyle().
		Padding(1).
		Render(wordwrap.String(s.body, modalWidth))

	buttons := lipgloss.NewStyle().
		Width(modalWidth - 6).
		Align(lipgloss.Center).
		Render(s.form.View())

	return lipgloss.Place(s.width, s.height,
		lipgloss.Center, lipgloss.Center,
		style.DialogBoxStyle.Render(lipgloss.JoinVertical(
			lipgloss.Center,
			title,
			body,
			buttons,
		)),
		lipgloss.WithWhitespaceChars(style.Background1),
		lipgloss.WithWhitespaceForeground(style.Subtle),
	)
}

// SetSize updates the screen dimensions
func (s *ModalScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
