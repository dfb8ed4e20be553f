package internal

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/jhalter/articles-client/internal/api/apitest"
	"github.com/jhalter/articles-client/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUser     = "bob"
	testPassword = "1234"
	testToken    = "abc123"
)

func seedArticles() []api.Article {
	return []api.Article{
		{ID: 1, Title: "Closures", Text: "Functions that capture scope", Topic: "JavaScript"},
		{ID: 2, Title: "Hooks", Text: "useState and friends", Topic: "React"},
		{ID: 3, Title: "Streams", Text: "Backpressure explained", Topic: "Node"},
	}
}

type testEnv struct {
	model *Model
	srv   *apitest.Server
	store *session.MemoryStore
}

func newTestEnv(t *testing.T, loggedIn bool, mutate ...func(*Settings)) *testEnv {
	t.Helper()

	srv := apitest.NewServer(testUser, testPassword, testToken, seedArticles()...)
	t.Cleanup(srv.Close)

	prefs := DefaultSettings()
	prefs.BaseURL = srv.URL
	prefs.StatePath = filepath.Join(t.TempDir(), "state.yaml")
	for _, fn := range mutate {
		fn(prefs)
	}

	store := session.NewMemoryStore()
	if loggedIn {
		require.NoError(t, store.Set(session.TokenKey, testToken))
	}

	m := NewModel(
		filepath.Join(t.TempDir(), "config.yaml"),
		prefs,
		session.New(store),
		slog.New(slog.DiscardHandler),
		&DebugBuffer{},
	)
	t.Cleanup(m.cancel)

	env := &testEnv{model: m, srv: srv, store: store}
	env.run(t, m.Init())
	return env
}

// appMsg reports whether msg is one the model produces for itself. Anything
// else (spinner ticks, cursor blinks) is dropped so tests stay deterministic.
func appMsg(msg tea.Msg) bool {
	switch msg.(type) {
	case loginResultMsg, articlesResultMsg, articleCreatedMsg, articleUpdatedMsg, articleDeletedMsg,
		LoginSubmittedMsg, ArticleSubmittedMsg, ArticleSelectedMsg, ArticleEditCancelledMsg,
		ArticleDeleteRequestedMsg, ArticlesRefreshMsg,
		DeleteConfirmedMsg, ModalDismissedMsg,
		SettingsSavedMsg, SettingsCancelledMsg, LogsCancelledMsg:
		return true
	}
	return false
}

// collect runs cmd, flattening batches, and returns the messages produced
// before the deadline.
func collect(cmd tea.Cmd, deadline time.Time) []tea.Msg {
	if cmd == nil {
		return nil
	}

	ch := make(chan tea.Msg, 1)
	go func() { ch <- cmd() }()

	select {
	case msg := <-ch:
		if batch, ok := msg.(tea.BatchMsg); ok {
			var out []tea.Msg
			for _, c := range batch {
				out = append(out, collect(c, deadline)...)
			}
			return out
		}
		if msg == nil {
			return nil
		}
		return []tea.Msg{msg}
	case <-time.After(time.Until(deadline)):
		return nil
	}
}

// run drives the update loop until cmd and everything it leads to settles.
func (e *testEnv) run(t *testing.T, cmd tea.Cmd) {
	t.Helper()

	pending := []tea.Cmd{cmd}
	for round := 0; len(pending) > 0; round++ {
		require.Less(t, round, 20, "update loop did not settle")

		var msgs []tea.Msg
		for _, c := range pending {
			msgs = append(msgs, collect(c, time.Now().Add(2*time.Second))...)
		}

		pending = nil
		for _, msg := range msgs {
			if !appMsg(msg) {
				continue
			}
			_, next := e.model.Update(msg)
			if next != nil {
				pending = append(pending, next)
			}
		}
	}
}

// send delivers msg to the model and runs whatever follows.
func (e *testEnv) send(t *testing.T, msg tea.Msg) {
	t.Helper()
	_, cmd := e.model.Update(msg)
	e.run(t, cmd)
}

func articleIDs(as []api.Article) []int {
	ids := make([]int, len(as))
	for i, a := range as {
		ids[i] = a.ID
	}
	return ids
}

func TestLoginSuccess(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model

	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.Equal(t, "/", m.CurrentScreen().Route())

	// Stop right after the login response is applied.
	_, cmd := m.Update(LoginSubmittedMsg{Username: testUser, Password: testPassword})
	assert.True(t, m.loading)
	assert.Empty(t, m.message)

	msgs := collect(cmd, time.Now().Add(2*time.Second))
	var result tea.Msg
	for _, msg := range msgs {
		if _, ok := msg.(loginResultMsg); ok {
			result = msg
		}
	}
	require.NotNil(t, result)

	_, next := m.Update(result)
	token, ok := env.store.Get(session.TokenKey)
	assert.True(t, ok)
	assert.Equal(t, testToken, token)
	assert.Equal(t, "Welcome, bob!", m.message)
	assert.False(t, m.loading)
	assert.Equal(t, ScreenArticles, m.CurrentScreen())
	assert.Equal(t, "/articles", m.CurrentScreen().Route())

	// The articles view then loads the list.
	env.run(t, next)
	assert.Equal(t, []int{1, 2, 3}, articleIDs(m.articles.All()))
	assert.Equal(t, "Here are your articles", m.message)
	assert.False(t, m.loading)
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model

	env.send(t, LoginSubmittedMsg{Username: testUser, Password: "wrong"})

	assert.False(t, m.session.LoggedIn())
	assert.Equal(t, "Login failed: Invalid credentials", m.message)
	assert.False(t, m.loading)
	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.Zero(t, env.srv.Count(apitest.RouteList))
}

func TestResumeSessionOnStart(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	assert.Equal(t, ScreenArticles, m.CurrentScreen())
	assert.Equal(t, 3, m.articles.Len())
	assert.Equal(t, 1, env.srv.Count(apitest.RouteList))
}

func TestLogout(t *testing.T) {
	t.Run("with token", func(t *testing.T) {
		env := newTestEnv(t, true)
		m := env.model
		env.send(t, ArticleSelectedMsg{ID: 2})

		env.run(t, m.logout())

		_, ok := env.store.Get(session.TokenKey)
		assert.False(t, ok)
		assert.Equal(t, "Goodbye!", m.message)
		assert.Equal(t, ScreenLogin, m.CurrentScreen())
		assert.False(t, m.selection.Editing())
	})

	t.Run("without token", func(t *testing.T) {
		env := newTestEnv(t, false)
		m := env.model

		env.run(t, m.logout())

		assert.Empty(t, m.message)
		assert.Equal(t, ScreenLogin, m.CurrentScreen())
	})
}

func TestShowArticlesWithoutTokenRedirects(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model

	env.run(t, m.showArticles())

	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.Zero(t, env.srv.Count(apitest.RouteList))
	assert.False(t, m.loading)
}

func TestGetArticlesUnauthorized(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.srv.ExpireToken()
	env.send(t, ArticlesRefreshMsg{})

	assert.False(t, m.loading)
	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.False(t, m.session.LoggedIn())
	assert.Equal(t, "Please log in again: Token expired", m.message)
}

func TestGetArticlesServerError(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.srv.Fail(apitest.RouteList, 500)
	env.send(t, ArticlesRefreshMsg{})

	assert.False(t, m.loading)
	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.True(t, m.session.LoggedIn())
	assert.Equal(t, "Could not load articles: Something went wrong", m.message)
	assert.Equal(t, 3, m.articles.Len())
}

func TestCreateArticle(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	form := m.articlesScreen.form
	form.SetField(FieldTitle, "Generators")
	form.SetField(FieldText, "function* and yield")
	form.SetField(FieldTopic, "JavaScript")
	require.True(t, form.CanSubmit())

	env.run(t, form.Submit())

	all := m.articles.All()
	require.Len(t, all, 4)
	assert.Equal(t, api.Article{ID: 4, Title: "Generators", Text: "function* and yield", Topic: "JavaScript"}, all[3])
	assert.Equal(t, "Well done. Great article about JavaScript!", m.message)
	assert.False(t, m.loading)
	assert.False(t, m.selection.Editing())

	// The draft is cleared after submitting.
	assert.Equal(t, api.ArticleFields{}, form.Draft())
}

func TestCreateArticleIncompleteDraft(t *testing.T) {
	env := newTestEnv(t, true)
	form := env.model.articlesScreen.form

	form.SetField(FieldTitle, "Only a title")
	assert.False(t, form.CanSubmit())
	assert.Nil(t, form.Submit())
	assert.Zero(t, env.srv.Count(apitest.RouteCreate))
}

func TestSelectAndUpdateArticle(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.send(t, ArticleSelectedMsg{ID: 2})

	id, ok := m.selection.Current()
	require.True(t, ok)
	assert.Equal(t, 2, id)
	assert.True(t, m.articlesScreen.FormFocused())

	form := m.articlesScreen.form
	editing, ok := form.Editing()
	assert.True(t, ok)
	assert.Equal(t, 2, editing)
	assert.Equal(t, api.ArticleFields{Title: "Hooks", Text: "useState and friends", Topic: "React"}, form.Draft())

	// Editing the draft does not touch the collection.
	form.SetField(FieldTitle, "Hooks in depth")
	found, _ := m.articles.Find(2)
	assert.Equal(t, "Hooks", found.Title)

	env.run(t, form.Submit())

	assert.Equal(t, []int{1, 2, 3}, articleIDs(m.articles.All()))
	found, _ = m.articles.Find(2)
	assert.Equal(t, "Hooks in depth", found.Title)
	assert.Equal(t, "Nice update to article 2!", m.message)
	assert.False(t, m.selection.Editing())
	assert.False(t, m.articlesScreen.FormFocused())
}

func TestSelectUnknownArticleIsCreateMode(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.send(t, ArticleSelectedMsg{ID: 42})

	assert.False(t, m.selection.Editing())
	_, editing := m.articlesScreen.form.Editing()
	assert.False(t, editing)
}

func TestCancelEdit(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model
	before := env.srv.Count(apitest.RouteList)

	env.send(t, ArticleSelectedMsg{ID: 1})
	m.articlesScreen.form.SetField(FieldText, "scribbles")
	env.send(t, ArticleEditCancelledMsg{})

	assert.False(t, m.selection.Editing())
	assert.Equal(t, api.ArticleFields{}, m.articlesScreen.form.Draft())
	found, _ := m.articles.Find(1)
	assert.Equal(t, "Functions that capture scope", found.Text)
	assert.Equal(t, before, env.srv.Count(apitest.RouteList))
	assert.Zero(t, env.srv.Count(apitest.RouteUpdate))
}

func TestDeleteArticle(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.send(t, ArticleDeleteRequestedMsg{ID: 2})

	assert.Equal(t, []int{1, 3}, articleIDs(m.articles.All()))
	assert.Equal(t, "Article 2 was deleted", m.message)
	assert.False(t, m.loading)
	assert.Equal(t, []int{1, 3}, articleIDs(env.srv.Articles()))
}

func TestDeleteSelectedArticleClearsSelection(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.send(t, ArticleSelectedMsg{ID: 3})
	env.send(t, ArticleDeleteRequestedMsg{ID: 3})

	assert.Equal(t, []int{1, 2}, articleIDs(m.articles.All()))
	assert.False(t, m.selection.Editing())
	assert.Equal(t, api.ArticleFields{}, m.articlesScreen.form.Draft())
}

func TestDeleteWithConfirmation(t *testing.T) {
	env := newTestEnv(t, true, func(s *Settings) { s.ConfirmDelete = true })
	m := env.model

	env.send(t, ArticleDeleteRequestedMsg{ID: 1})
	assert.Equal(t, ScreenModal, m.CurrentScreen())
	assert.Zero(t, env.srv.Count(apitest.RouteDelete))

	t.Run("keep leaves the article", func(t *testing.T) {
		env.send(t, ModalDismissedMsg{})
		assert.Equal(t, ScreenArticles, m.CurrentScreen())
		assert.Equal(t, 3, m.articles.Len())
		assert.Zero(t, env.srv.Count(apitest.RouteDelete))
	})

	t.Run("confirm deletes", func(t *testing.T) {
		env.send(t, ArticleDeleteRequestedMsg{ID: 1})
		require.Equal(t, 1, m.modalScreen.articleID)
		env.send(t, DeleteConfirmedMsg{ID: 1})
		assert.Equal(t, ScreenArticles, m.CurrentScreen())
		assert.Equal(t, []int{2, 3}, articleIDs(m.articles.All()))
	})
}

func TestMutationFailureKeepsCollection(t *testing.T) {
	tests := []struct {
		name    string
		route   string
		msg     tea.Msg
		message string
	}{
		{
			name:    "create",
			route:   apitest.RouteCreate,
			msg:     ArticleSubmittedMsg{Fields: api.ArticleFields{Title: "T", Text: "X", Topic: "Node"}},
			message: "Could not create article: Something went wrong",
		},
		{
			name:    "update",
			route:   apitest.RouteUpdate,
			msg:     ArticleSubmittedMsg{ID: 1, Fields: api.ArticleFields{Title: "T", Text: "X", Topic: "Node"}},
			message: "Could not update article: Something went wrong",
		},
		{
			name:    "delete",
			route:   apitest.RouteDelete,
			msg:     ArticleDeleteRequestedMsg{ID: 1},
			message: "Could not delete article: Something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, true)
			m := env.model
			before := m.articles.All()

			env.srv.Fail(tt.route, 500)
			env.send(t, tt.msg)

			assert.Equal(t, before, m.articles.All())
			assert.Equal(t, tt.message, m.message)
			assert.False(t, m.loading)
			assert.Equal(t, ScreenArticles, m.CurrentScreen())
			assert.True(t, m.session.LoggedIn())
		})
	}
}

func TestMutationUnauthorizedRedirects(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.srv.ExpireToken()
	env.send(t, ArticleDeleteRequestedMsg{ID: 1})

	assert.Equal(t, 3, m.articles.Len())
	assert.False(t, m.session.LoggedIn())
	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.False(t, m.loading)
}

func TestSettingsSaved(t *testing.T) {
	env := newTestEnv(t, false)
	m := env.model

	m.PushScreen(ScreenSettings)
	env.send(t, SettingsSavedMsg{
		BaseURL:        env.srv.URL,
		Username:       "alice",
		RequestTimeout: 5 * time.Second,
		ConfirmDelete:  true,
	})

	assert.Equal(t, ScreenLogin, m.CurrentScreen())
	assert.Equal(t, "alice", m.prefs.Username)
	assert.True(t, m.prefs.ConfirmDelete)

	saved, err := ReadSettings(m.cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, 5*time.Second, saved.RequestTimeout)
	assert.True(t, saved.ConfirmDelete)
}

func TestScreenHistory(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	m.PushScreen(ScreenLogs)
	assert.Equal(t, ScreenLogs, m.CurrentScreen())
	assert.Equal(t, ScreenArticles, m.PopScreen())
	assert.Equal(t, ScreenLogin, m.PopScreen())
	assert.Equal(t, ScreenLogin, m.CurrentScreen())
}

func TestView(t *testing.T) {
	env := newTestEnv(t, true)
	m := env.model

	env.send(t, tea.WindowSizeMsg{Width: 140, Height: 40})

	view := m.View()
	assert.Contains(t, view, "Here are your articles")
	assert.Contains(t, view, "Closures")
	assert.Contains(t, view, "Create Article")

	m.PushScreen(ScreenLogs)
	m.logsScreen = NewLogsScreen(m.debugBuffer, m)
	assert.Contains(t, m.View(), "Logs")
}

func collectNow(cmd tea.Cmd) []tea.Msg {
	return collect(cmd, time.Now().Add(2*time.Second))
}
