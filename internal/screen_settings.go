package internal

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/style"
)

// settingsKeyMap defines the keybindings for the settings screen
type settingsKeyMap struct {
	Tab    key.Binding
	Enter  key.Binding
	Escape key.Binding
}

func (k settingsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Enter, k.Escape}
}

func (k settingsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Tab, k.Enter, k.Escape}}
}

func newSettingsKeyMap() settingsKeyMap {
	return settingsKeyMap{
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Escape: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	}
}

// Messages sent from SettingsScreen to parent
type SettingsSavedMsg struct {
	BaseURL        string
	Username       string
	RequestTimeout time.Duration
	EnableSounds   bool
	ConfirmDelete  bool
}

type SettingsCancelledMsg struct{}

// SettingsScreen edits the persisted preferences.
type SettingsScreen struct {
	form          *huh.Form
	width, height int
	model         *Model
	help          help.Model
	keys          settingsKeyMap

	// Form field values (bound to form inputs)
	baseURL        string
	username       string
	requestTimeout string
	enableSounds   bool
	confirmDelete  bool
}

func validateBaseURL(str string) error {
	u, err := url.Parse(strings.TrimSpace(str))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("enter an http(s) URL")
	}
	return nil
}

// parseTimeout accepts a Go duration. Blank means no timeout.
func parseTimeout(str string) (time.Duration, error) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(str)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("enter a duration like 10s, or leave blank")
	}
	return d, nil
}

func validateTimeout(str string) error {
	_, err := parseTimeout(str)
	return err
}

// buildSettingsForm creates a Huh form for editing settings
func buildSettingsForm(baseURL, username, requestTimeout *string, enableSounds, confirmDelete *bool) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("baseURL").
				Title("Server URL").
				Placeholder("http://localhost:9000").
				Value(baseURL).
				Validate(validateBaseURL),

			huh.NewInput().
				Key("username").
				Title("Default Username").
				Placeholder("Username").
				Value(username),

			huh.NewInput().
				Key("requestTimeout").
				Title("Request Timeout").
				Placeholder("none").
				Value(requestTimeout).
				Validate(validateTimeout),

			huh.NewConfirm().
				Key("confirmDelete").
				Title("Confirm Deletes").
				Affirmative("On").
				Negative("Off").
				Value(confirmDelete),

			huh.NewConfirm().
				Key("enableSounds").
				Title("Sounds").
				Affirmative("On").
				Negative("Off").
				Value(enableSounds),
		),
	).
		WithWidth(50).
		WithShowHelp(false).
		WithShowErrors(true).
		WithKeyMap(enterSubmitsKeyMap())
}

// NewSettingsScreen creates a new settings screen with current settings values
func NewSettingsScreen(prefs *Settings, m *Model) (*SettingsScreen, tea.Cmd) {
	screen := &SettingsScreen{
		width:         m.width,
		height:        m.height,
		model:         m,
		help:          help.New(),
		keys:          newSettingsKeyMap(),
		baseURL:       prefs.BaseURL,
		username:      prefs.Username,
		enableSounds:  prefs.EnableSounds,
		confirmDelete: prefs.ConfirmDelete,
	}
	if prefs.RequestTimeout > 0 {
		screen.requestTimeout = prefs.RequestTimeout.String()
	}

	screen.form = buildSettingsForm(&screen.baseURL, &screen.username, &screen.requestTimeout, &screen.enableSounds, &screen.confirmDelete)

	return screen, screen.form.Init()
}

// Init implements tea.Model
func (s *SettingsScreen) Init() tea.Cmd {
	return s.form.Init()
}

// Update implements ScreenModel
func (s *SettingsScreen) Update(msg tea.Msg) (ScreenModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.SetSize(msg.Width, msg.Height)
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return SettingsCancelledMsg{} }
		case "enter":
			// First update the form to commit the current field's value
			form, _ := s.form.Update(msg)
			if f, ok := form.(*huh.Form); ok {
				s.form = f
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

// handleSubmit validates the whole form and emits the new values. Invalid
// input reopens the form with the field errors shown.
func (s *SettingsScreen) handleSubmit() tea.Cmd {
	timeout, err := parseTimeout(s.requestTimeout)
	if err == nil {
		err = validateBaseURL(s.baseURL)
	}
	if err != nil {
		s.form = buildSettingsForm(&s.baseURL, &s.username, &s.requestTimeout, &s.enableSounds, &s.confirmDelete)
		return s.form.Init()
	}

	msg := SettingsSavedMsg{
		BaseURL:        strings.TrimRight(strings.TrimSpace(s.baseURL), "/"),
		Username:       strings.TrimSpace(s.username),
		RequestTimeout: timeout,
		EnableSounds:   s.enableSounds,
		ConfirmDelete:  s.confirmDelete,
	}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (s *SettingsScreen) View() string {
	content := lipgloss.JoinVertical(
		lipgloss.Left,
		s.form.View(),
		"",
		s.help.View(s.keys),
	)
	return style.RenderSubscreen(s.width, s.height, "Settings", content)
}

// SetSize updates the screen dimensions
func (s *SettingsScreen) SetSize(width, height int) {
	s.width = width
	s.height = height
}
