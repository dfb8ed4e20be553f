package internal

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/jhalter/articles-client/internal/style"
)

// loginKeyMap defines the keybindings for the login screen
type loginKeyMap struct {
	Tab   key.Binding
	Enter key.Binding
}

func (k loginKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter}
}

func (k loginKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Enter}}
}

func newLoginKeyMap() loginKeyMap {
	return loginKeyMap{
		Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "login")),
	}
}

// LoginScreen holds the credential form. It never talks to the network; it
// emits LoginSubmittedMsg and the model does the rest.
type LoginScreen struct {
	form          *huh.Form
	width, height int
	model         *Model
	help          help.Model
	keys          loginKeyMap

	// Form field values (bound to form inputs)
	username string
	password string
}

// enterSubmitsKeyMap creates a keymap where Enter submits the form immediately
// instead of tabbing through fields.
func enterSubmitsKeyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Input.Next = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next"))
	km.Confirm.Next = key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next"))
	km.Input.Submit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	km.Confirm.Submit = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit"))
	return km
}

func requireValue(name string) func(string) error {
	return func(str string) error {
		if api.Blank(str) {
			return errors.New(name + " is required")
		}
		return nil
	}
}

func buildLoginForm(username, password *string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("username").
				Title("Username").
				Placeholder("Enter username").
				Value(username).
				Validate(requireValue("username")),

			huh.NewInput().
				Key("password").
				Title("Password").
				Placeholder("Enter password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(requireValue("password")),
		),
	).
		WithWidth(40).
		WithShowHelp(false).
		WithShowErrors(true).
		WithKeyMap(enterSubmitsKeyMap())
}

// NewLoginScreen creates the login screen, pre-filling the username.
func NewLoginScreen(username string, m *Model) (*LoginScreen, tea.Cmd) {
	screen := &LoginScreen{
		width:    m.contentWidth(),
		height:   m.contentHeight(),
		model:    m,
		help:     help.New(),
		keys:     newLoginKeyMap(),
		username: username,
	}

	screen.form = buildLoginForm(&screen.username, &screen.password)

	return screen, screen.form.Init()
}

// Init implements tea.Model
func (s *LoginScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements ScreenModel
func (s *LoginScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			// First update the form to commit the current field's value
			form, _ := s.form.Update(msg)
			if f, ok := form.(*huh.Form); ok {
				s.form = f
			}
			if !api.Blank(s.username) && s.password == "" {
				return s, s.form.NextField()
			}
			// Then submit the form immediately
			s.form.NextGroup()
			if s.form.State == huh.StateCompleted {
				return s, s.handleSubmit()
			}
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		return s, s.handleSubmit()
	}

	return s, cmd
}

// handleSubmit emits the credentials and resets the form for the next
// attempt, keeping the username and dropping the password.
func (s *LoginScreen) handleSubmit() tea.Cmd {
	username := strings.TrimSpace(s.username)
	password := s.password

	s.username = username
	s.password = ""
	s.form = buildLoginForm(&s.username, &s.password)

	if api.Blank(username) || api.Blank(password) {
		return s.form.Init()
	}

	return tea.Batch(
		s.form.Init(),
		func() tea.Msg {
			return LoginSubmittedMsg{Username: username, Password: password}
		},
	)
}

// View implements tea.Model
func (s *LoginScreen) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		s.form.View(),
		"",
		s.help.View(s.keys),
	)

	return style.RenderSubscreen(s.width, s.height, "Login", content)
}

// SetSize updates the screen dimensions
func (s *LoginScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
