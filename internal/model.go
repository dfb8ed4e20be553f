package internal

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/jhalter/articles-client/internal/articles"
	"github.com/jhalter/articles-client/internal/session"
	"github.com/jhalter/articles-client/internal/style"
)

// Screen types
type Screen int

// ScreenModel is the interface that all screens must implement
type ScreenModel interface {
	Update(tea.Msg) (ScreenModel, tea.Cmd)
	View() string
}

const (
	ScreenLogin Screen = iota
	ScreenArticles
	ScreenSettings
	ScreenLogs
	ScreenModal
)

// Route returns the path the screen is reachable at.
func (s Screen) Route() string {
	switch s {
	case ScreenArticles:
		return "/articles"
	case ScreenSettings:
		return "/settings"
	case ScreenLogs:
		return "/logs"
	}
	return "/"
}

// Model is the controller. It owns the session, the article collection and
// all transient UI state, and is the only component that issues requests.
type Model struct {
	program *tea.Program
	ctx     context.Context
	cancel  context.CancelFunc

	// Configuration
	cfgPath     string
	prefs       *Settings
	logger      *slog.Logger
	debugBuffer *DebugBuffer
	soundPlayer *SoundPlayer

	msgHandlers map[reflect.Type]msgHandler

	// Screen state
	screenHistory []Screen // Stack of screens, current screen is last element

	width  int
	height int

	client  *api.Client
	session *session.Session

	// UI state
	message   string
	articles  articles.Collection
	selection articles.Selection
	loading   bool
	status    *StatusBar

	// Screens
	loginScreen    *LoginScreen
	articlesScreen *ArticlesScreen
	settingsScreen *SettingsScreen
	logsScreen     *LogsScreen
	modalScreen    *ModalScreen
}

// CurrentScreen returns the current screen, or ScreenLogin if history is empty
func (m *Model) CurrentScreen() Screen {
	if len(m.screenHistory) == 0 {
		return ScreenLogin
	}
	return m.screenHistory[len(m.screenHistory)-1]
}

// PushScreen adds a new screen to history (modal/overlay pattern)
func (m *Model) PushScreen(screen Screen) {
	m.screenHistory = append(m.screenHistory, screen)
}

// PopScreen removes current screen and returns to previous
// Returns the screen we're now on
func (m *Model) PopScreen() Screen {
	if len(m.screenHistory) <= 1 {
		m.screenHistory = []Screen{ScreenLogin}
		return ScreenLogin
	}
	m.screenHistory = m.screenHistory[:len(m.screenHistory)-1]
	return m.screenHistory[len(m.screenHistory)-1]
}

// NavigateTo clears history and jumps to a screen (hard navigation)
// Used for login, logout and redirects
func (m *Model) NavigateTo(screen Screen) {
	m.screenHistory = []Screen{screen}
}

// currentScreen returns the current screen as a ScreenModel interface
func (m *Model) currentScreen() ScreenModel {
	switch m.CurrentScreen() {
	case ScreenLogin:
		return m.loginScreen
	case ScreenArticles:
		return m.articlesScreen
	case ScreenSettings:
		return m.settingsScreen
	case ScreenLogs:
		return m.logsScreen
	case ScreenModal:
		return m.modalScreen
	}
	return nil
}

func NewModel(cfgPath string, prefs *Settings, sess *session.Session, logger *slog.Logger, db *DebugBuffer) *Model {
	soundPlayer, err := NewSoundPlayer(prefs.EnableSounds)
	if err != nil {
		logger.Error("Failed to initialize sound player", "err", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Model{
		ctx:           ctx,
		cancel:        cancel,
		msgHandlers:   make(map[reflect.Type]msgHandler),
		cfgPath:       cfgPath,
		prefs:         prefs,
		logger:        logger,
		debugBuffer:   db,
		soundPlayer:   soundPlayer,
		client:        newAPIClient(prefs, logger),
		session:       sess,
		status:        NewStatusBar(),
		screenHistory: []Screen{ScreenLogin},
	}
}

func newAPIClient(prefs *Settings, logger *slog.Logger) *api.Client {
	return api.NewClient(prefs.BaseURL,
		api.WithTimeout(prefs.RequestTimeout),
		api.WithLogger(logger),
	)
}

func (m *Model) Init() tea.Cmd {
	var cmds []tea.Cmd

	var cmd tea.Cmd
	m.loginScreen, cmd = NewLoginScreen(m.prefs.Username, m)
	cmds = append(cmds, cmd)
	m.articlesScreen = NewArticlesScreen(m.prefs.Topics, m)

	m.registerHandler(tea.WindowSizeMsg{}, m.handleWindowResize)
	m.registerHandler(spinner.TickMsg{}, m.handleSpinnerTickMsg)

	m.registerHandler(loginResultMsg{}, m.handleLoginResultMsg)
	m.registerHandler(articlesResultMsg{}, m.handleArticlesResultMsg)
	m.registerHandler(articleCreatedMsg{}, m.handleArticleCreatedMsg)
	m.registerHandler(articleUpdatedMsg{}, m.handleArticleUpdatedMsg)
	m.registerHandler(articleDeletedMsg{}, m.handleArticleDeletedMsg)

	m.registerHandler(LoginSubmittedMsg{}, m.handleLoginSubmittedMsg)
	m.registerHandler(ArticleSubmittedMsg{}, m.handleArticleSubmittedMsg)
	m.registerHandler(ArticleSelectedMsg{}, m.handleArticleSelectedMsg)
	m.registerHandler(ArticleEditCancelledMsg{}, m.handleArticleEditCancelledMsg)
	m.registerHandler(ArticleDeleteRequestedMsg{}, m.handleArticleDeleteRequestedMsg)
	m.registerHandler(ArticlesRefreshMsg{}, m.handleArticlesRefreshMsg)

	m.registerHandler(SettingsSavedMsg{}, m.handleSettingsSavedMsg)
	m.registerHandler(SettingsCancelledMsg{}, m.handleSettingsCancelledMsg)
	m.registerHandler(LogsCancelledMsg{}, m.handleLogsCancelledMsg)
	m.registerHandler(DeleteConfirmedMsg{}, m.handleDeleteConfirmedMsg)
	m.registerHandler(ModalDismissedMsg{}, m.handleModalDismissedMsg)

	// A token that survived a restart resumes the session.
	if m.session.LoggedIn() {
		cmds = append(cmds, m.showArticles())
	}

	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); !ok {
		m.logger.Debug("Update UI", "tea.Msg", fmt.Sprintf("%T", msg), "route", m.CurrentScreen().Route())
	}

	// Handle global keybindings
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+q", "ctrl+c":
			m.cancel()
			return m, tea.Quit
		case "ctrl+l":
			if m.CurrentScreen() != ScreenLogs {
				m.logsScreen = NewLogsScreen(m.debugBuffer, m)
				m.PushScreen(ScreenLogs)
			}
			return m, nil
		case "ctrl+s":
			if m.CurrentScreen() != ScreenSettings {
				var cmd tea.Cmd
				m.settingsScreen, cmd = NewSettingsScreen(m.prefs, m)
				m.PushScreen(ScreenSettings)
				return m, cmd
			}
			return m, nil
		case "ctrl+o":
			return m, m.logout()
		case "f1":
			m.NavigateTo(ScreenLogin)
			return m, nil
		case "f2":
			return m, m.showArticles()
		}
	}

	// Check if we have a registered handler for this message type
	msgType := reflect.TypeOf(msg)
	if handler, ok := m.msgHandlers[msgType]; ok {
		return handler(msg)
	}

	if screen := m.currentScreen(); screen != nil {
		_, cmd := screen.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) View() string {
	screen := m.currentScreen()
	if screen == nil {
		return ""
	}

	switch m.CurrentScreen() {
	case ScreenLogin, ScreenArticles:
	default:
		// Overlays take the whole terminal.
		return screen.View()
	}

	content := screen.View()
	if m.loading {
		content = style.BusyStyle.Render(content)
	}

	return style.AppStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.status.View(m.message, m.loading),
		content,
	))
}

// renderHeader draws the title and the navigation links, marking the active route.
func (m *Model) renderHeader() string {
	title := style.Gradient("Articles", style.HeaderPalette)

	link := func(key, label string, active bool) string {
		text := style.HotkeyStyle.Render("("+key+")") + " " + label
		if active {
			return style.ActiveLinkStyle.Render(text)
		}
		return style.LinkStyle.Render(text)
	}

	current := m.CurrentScreen()
	nav := lipgloss.JoinHorizontal(
		lipgloss.Top,
		link("F1", "Login", current == ScreenLogin),
		link("F2", "Articles", current == ScreenArticles),
		link("^O", "Logout", false),
		link("^S", "Settings", false),
		link("^L", "Logs", false),
	)

	return lipgloss.JoinVertical(lipgloss.Left, title, nav)
}

// contentHeight is the room left for a screen below the header and status bar.
func (m *Model) contentHeight() int {
	_, v := style.AppStyle.GetFrameSize()
	h := m.height - v - 4
	if h < 0 {
		return 0
	}
	return h
}

func (m *Model) contentWidth() int {
	h, _ := style.AppStyle.GetFrameSize()
	w := m.width - h
	if w < 0 {
		return 0
	}
	return w
}

func (m *Model) Start() error {
	defer m.cancel()
	defer m.soundPlayer.Close()

	m.program = tea.NewProgram(m, tea.WithAltScreen())

	_, err := m.program.Run()
	return err
}

func (m *Model) savePreferences() error {
	return writeSettings(m.cfgPath, m.prefs)
}
