package internal

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jhalter/articles-client/internal/api"
)

const farewellMessage = "Goodbye!"

// Every request follows the same contract: clear the message, raise the
// loading flag, send, then apply the result and lower the flag in the
// result handler, on success and failure alike.

func (m *Model) startLoading() tea.Cmd {
	m.message = ""
	m.loading = true
	return m.status.Start()
}

func (m *Model) stopLoading() {
	m.loading = false
	m.status.Stop()
}

// failureMessage prefers the text the server sent with the error.
func failureMessage(action string, err error) string {
	if msg := api.ServerMessage(err); msg != "" {
		return fmt.Sprintf("%s: %s", action, msg)
	}
	return action
}

func (m *Model) login(creds api.Credentials) tea.Cmd {
	spin := m.startLoading()
	client, ctx := m.client, m.ctx
	return tea.Batch(spin, func() tea.Msg {
		res, err := client.Login(ctx, creds)
		return loginResultMsg{res: res, err: err}
	})
}

// logout drops the token if there is one and always lands on the login view.
func (m *Model) logout() tea.Cmd {
	had, err := m.session.Clear()
	if err != nil {
		m.logger.Error("Failed to clear session", "err", err)
	}
	if had {
		m.message = farewellMessage
		m.soundPlayer.PlayAsync(SoundLoggedOut)
	}
	cmd := m.selectArticle(0)
	m.redirectToLogin()
	return cmd
}

func (m *Model) redirectToLogin() {
	m.NavigateTo(ScreenLogin)
	m.articlesScreen.FocusList()
}

// showArticles navigates to the articles view and fetches the list. Without
// a token it redirects to the login view instead.
func (m *Model) showArticles() tea.Cmd {
	if !m.session.LoggedIn() {
		m.redirectToLogin()
		return nil
	}
	m.NavigateTo(ScreenArticles)
	return m.getArticles()
}

func (m *Model) getArticles() tea.Cmd {
	token, ok := m.session.Token()
	if !ok {
		m.redirectToLogin()
		return nil
	}

	spin := m.startLoading()
	client, ctx := m.client, m.ctx
	return tea.Batch(spin, func() tea.Msg {
		res, err := client.GetArticles(ctx, token)
		return articlesResultMsg{res: res, err: err}
	})
}

func (m *Model) createArticle(fields api.ArticleFields) tea.Cmd {
	token, ok := m.session.Token()
	if !ok {
		m.redirectToLogin()
		return nil
	}

	spin := m.startLoading()
	client, ctx := m.client, m.ctx
	return tea.Batch(spin, func() tea.Msg {
		res, err := client.PostArticle(ctx, token, fields)
		return articleCreatedMsg{res: res, err: err}
	})
}

func (m *Model) updateArticle(id int, fields api.ArticleFields) tea.Cmd {
	token, ok := m.session.Token()
	if !ok {
		m.redirectToLogin()
		return nil
	}

	spin := m.startLoading()
	client, ctx := m.client, m.ctx
	return tea.Batch(spin, func() tea.Msg {
		res, err := client.UpdateArticle(ctx, token, id, fields)
		return articleUpdatedMsg{id: id, res: res, err: err}
	})
}

func (m *Model) deleteArticle(id int) tea.Cmd {
	token, ok := m.session.Token()
	if !ok {
		m.redirectToLogin()
		return nil
	}

	spin := m.startLoading()
	client, ctx := m.client, m.ctx
	return tea.Batch(spin, func() tea.Msg {
		res, err := client.DeleteArticle(ctx, token, id)
		return articleDeletedMsg{id: id, res: res, err: err}
	})
}

// selectArticle moves the selection state machine. Id 0, or an id that is
// not in the collection, means create mode. The form is re-seeded either way,
// discarding any draft.
func (m *Model) selectArticle(id int) tea.Cmd {
	current, ok := m.articles.Find(id)
	if id == 0 || !ok {
		m.selection.Clear()
		m.articlesScreen.SetArticles(m.articles.All(), 0)
		return m.articlesScreen.form.Seed(nil)
	}

	m.selection.Select(id)
	m.articlesScreen.SetArticles(m.articles.All(), id)
	return m.articlesScreen.form.Seed(&current)
}

// currentArticle returns the article being edited, if any.
func (m *Model) currentArticle() (api.Article, bool) {
	id, ok := m.selection.Current()
	if !ok {
		return api.Article{}, false
	}
	return m.articles.Find(id)
}

// syncArticles pushes the collection to the list after it changed.
func (m *Model) syncArticles() {
	id, _ := m.selection.Current()
	m.articlesScreen.SetArticles(m.articles.All(), id)
}

// handleAuthFailure drops a token the server no longer accepts and sends the
// user back to the login view. It reports whether err was such a failure.
func (m *Model) handleAuthFailure(err error) bool {
	if !errors.Is(err, api.ErrUnauthorized) {
		return false
	}
	if _, clearErr := m.session.Clear(); clearErr != nil {
		m.logger.Error("Failed to clear session", "err", clearErr)
	}
	m.message = failureMessage("Please log in again", err)
	m.redirectToLogin()
	return true
}
