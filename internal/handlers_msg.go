package internal

import (
	"fmt"
	"reflect"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jhalter/articles-client/internal/api"
)

type msgHandler = func(msg tea.Msg) (tea.Model, tea.Cmd)

// registerHandler registers a message handler for the given message type.
// The msgType parameter should be a zero-value instance of the message type.
func (m *Model) registerHandler(msgType tea.Msg, handler msgHandler) {
	t := reflect.TypeOf(msgType)
	m.msgHandlers[t] = handler
}

func (m *Model) handleWindowResize(msg tea.Msg) (tea.Model, tea.Cmd) {
	windowMsg := msg.(tea.WindowSizeMsg)
	m.width = windowMsg.Width
	m.height = windowMsg.Height
	m.resizeAllScreens(windowMsg.Width, windowMsg.Height)
	return m, nil
}

func (m *Model) resizeAllScreens(w, h int) {
	if m.loginScreen != nil {
		m.loginScreen.SetSize(m.contentWidth(), m.contentHeight())
	}
	if m.articlesScreen != nil {
		m.articlesScreen.SetSize(m.contentWidth(), m.contentHeight())
	}
	if m.settingsScreen != nil {
		m.settingsScreen.SetSize(w, h)
	}
	if m.logsScreen != nil {
		m.logsScreen.SetSize(w, h)
	}
	if m.modalScreen != nil {
		m.modalScreen.SetSize(w, h)
	}
}

func (m *Model) handleSpinnerTickMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.status.Update(msg.(spinner.TickMsg))
}

func (m *Model) handleLoginSubmittedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	submitted := msg.(LoginSubmittedMsg)
	return m, m.login(api.Credentials{
		Username: submitted.Username,
		Password: submitted.Password,
	})
}

func (m *Model) handleLoginResultMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	result := msg.(loginResultMsg)
	m.stopLoading()

	// Bad credentials stay on the login view with the server's reason.
	if result.err != nil {
		m.logger.Error("Login failed", "err", result.err)
		m.message = failureMessage("Login failed", result.err)
		m.soundPlayer.PlayAsync(SoundError)
		return m, nil
	}

	if err := m.session.SetToken(result.res.Token); err != nil {
		m.logger.Error("Failed to store session token", "err", err)
		return m, m.showError(fmt.Sprintf("Could not store the session token: %v", err))
	}

	m.logger.Info("Logged in", "baseURL", m.client.BaseURL())
	m.message = result.res.Message
	m.soundPlayer.PlayAsync(SoundLoggedIn)

	// Entering the articles view fetches the list on the next turn of the
	// loop, so the welcome message is what the user sees first.
	m.NavigateTo(ScreenArticles)
	return m, func() tea.Msg { return ArticlesRefreshMsg{} }
}

func (m *Model) handleArticlesResultMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	result := msg.(articlesResultMsg)
	m.stopLoading()

	if result.err != nil {
		m.logger.Error("Failed to fetch articles", "err", result.err)
		if !m.handleAuthFailure(result.err) {
			m.message = failureMessage("Could not load articles", result.err)
			m.redirectToLogin()
		}
		return m, nil
	}

	m.articles.Replace(result.res.Articles)
	m.message = result.res.Message

	// The article being edited may be gone from the fresh list.
	if _, ok := m.currentArticle(); !ok && m.selection.Editing() {
		return m, m.selectArticle(0)
	}
	m.syncArticles()
	return m, nil
}

func (m *Model) handleArticleCreatedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	result := msg.(articleCreatedMsg)
	m.stopLoading()

	if result.err != nil {
		m.logger.Error("Failed to create article", "err", result.err)
		if !m.handleAuthFailure(result.err) {
			m.message = failureMessage("Could not create article", result.err)
			m.soundPlayer.PlayAsync(SoundError)
		}
		return m, nil
	}

	m.articles.Append(result.res.Article)
	m.message = result.res.Message
	m.soundPlayer.PlayAsync(SoundArticleSaved)
	m.syncArticles()
	return m, nil
}

func (m *Model) handleArticleUpdatedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	result := msg.(articleUpdatedMsg)
	m.stopLoading()

	if result.err != nil {
		m.logger.Error("Failed to update article", "id", result.id, "err", result.err)
		if !m.handleAuthFailure(result.err) {
			m.message = failureMessage("Could not update article", result.err)
			m.soundPlayer.PlayAsync(SoundError)
		}
		return m, nil
	}

	if !m.articles.Merge(result.id, result.res.Article) {
		m.logger.Debug("Updated article not in collection", "id", result.id)
	}
	m.message = result.res.Message
	m.soundPlayer.PlayAsync(SoundArticleSaved)
	m.syncArticles()
	return m, nil
}

func (m *Model) handleArticleDeletedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	result := msg.(articleDeletedMsg)
	m.stopLoading()

	if result.err != nil {
		m.logger.Error("Failed to delete article", "id", result.id, "err", result.err)
		if !m.handleAuthFailure(result.err) {
			m.message = failureMessage("Could not delete article", result.err)
			m.soundPlayer.PlayAsync(SoundError)
		}
		return m, nil
	}

	m.articles.Remove(result.id)
	m.message = result.res.Message
	m.soundPlayer.PlayAsync(SoundArticleDeleted)

	if m.selection.Is(result.id) {
		return m, m.selectArticle(0)
	}
	m.syncArticles()
	return m, nil
}

func (m *Model) handleArticleSubmittedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	submitted := msg.(ArticleSubmittedMsg)

	var request tea.Cmd
	if submitted.ID != 0 {
		request = m.updateArticle(submitted.ID, submitted.Fields)
	} else {
		request = m.createArticle(submitted.Fields)
	}

	reseed := m.selectArticle(0)
	m.articlesScreen.FocusList()
	return m, tea.Batch(request, reseed)
}

func (m *Model) handleArticleSelectedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	selected := msg.(ArticleSelectedMsg)
	cmd := m.selectArticle(selected.ID)
	return m, tea.Batch(cmd, m.articlesScreen.FocusForm())
}

func (m *Model) handleArticleEditCancelledMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.selectArticle(0)
	m.articlesScreen.FocusList()
	return m, cmd
}

func (m *Model) handleArticleDeleteRequestedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	requested := msg.(ArticleDeleteRequestedMsg)

	if !m.prefs.ConfirmDelete {
		return m, m.deleteArticle(requested.ID)
	}

	a, ok := m.articles.Find(requested.ID)
	if !ok {
		a = api.Article{ID: requested.ID}
	}
	m.modalScreen = NewConfirmDeleteModal(a, m)
	m.PushScreen(ScreenModal)
	return m, m.modalScreen.Init()
}

func (m *Model) handleArticlesRefreshMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, m.getArticles()
}

func (m *Model) handleSettingsSavedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	settingsMsg := msg.(SettingsSavedMsg)

	m.prefs.BaseURL = settingsMsg.BaseURL
	m.prefs.Username = settingsMsg.Username
	m.prefs.RequestTimeout = settingsMsg.RequestTimeout
	m.prefs.EnableSounds = settingsMsg.EnableSounds
	m.prefs.ConfirmDelete = settingsMsg.ConfirmDelete

	m.client = newAPIClient(m.prefs, m.logger)
	m.soundPlayer.SetEnabled(m.prefs.EnableSounds)

	m.PopScreen()

	if err := m.savePreferences(); err != nil {
		m.logger.Error("Failed to save preferences", "err", err)
		return m, m.showError(fmt.Sprintf("Could not save settings: %v", err))
	}
	return m, nil
}

func (m *Model) handleSettingsCancelledMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.PopScreen()
	return m, nil
}

func (m *Model) handleLogsCancelledMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.PopScreen()
	return m, nil
}

// showError pushes an error modal over the current screen.
func (m *Model) showError(text string) tea.Cmd {
	m.soundPlayer.PlayAsync(SoundError)
	m.modalScreen = NewErrorModal(text, m)
	m.PushScreen(ScreenModal)
	return m.modalScreen.Init()
}

func (m *Model) handleModalDismissedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.PopScreen()
	return m, nil
}

func (m *Model) handleDeleteConfirmedMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	confirmed := msg.(DeleteConfirmedMsg)
	m.PopScreen()
	return m, m.deleteArticle(confirmed.ID)
}
