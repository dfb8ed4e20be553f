package internal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jhalter/articles-client/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirmDeleteModal(t *testing.T) {
	env := newTestEnv(t, true)
	article := api.Article{ID: 7, Title: "Hooks in depth", Topic: "React"}

	t.Run("names the article", func(t *testing.T) {
		s := NewConfirmDeleteModal(article, env.model)
		assert.Equal(t, `Delete #7 "Hooks in depth" (React)? This cannot be undone.`, s.body)
		assert.Contains(t, s.View(), "Hooks in depth")
	})

	t.Run("defaults to keep", func(t *testing.T) {
		s := NewConfirmDeleteModal(article, env.model)
		assert.Equal(t, ModalDismissedMsg{}, s.result()())
	})

	t.Run("delete confirms the captured id", func(t *testing.T) {
		s := NewConfirmDeleteModal(article, env.model)
		s.confirmed = true
		assert.Equal(t, DeleteConfirmedMsg{ID: 7}, s.result()())
	})

	t.Run("esc dismisses", func(t *testing.T) {
		s := NewConfirmDeleteModal(article, env.model)
		s.confirmed = true
		_, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		assert.Equal(t, ModalDismissedMsg{}, cmd())
	})

	t.Run("unknown article falls back to its id", func(t *testing.T) {
		s := NewConfirmDeleteModal(api.Article{ID: 9}, env.model)
		assert.Equal(t, "Delete #9? This cannot be undone.", s.body)
	})
}

func TestErrorModalNeverDeletes(t *testing.T) {
	env := newTestEnv(t, true)

	s := NewErrorModal("Could not save settings: disk full", env.model)
	s.confirmed = true
	assert.Equal(t, ModalDismissedMsg{}, s.result()())
	assert.Contains(t, s.View(), "disk full")
}

func TestConfirmDeleteModalFromList(t *testing.T) {
	env := newTestEnv(t, true, func(s *Settings) { s.ConfirmDelete = true })
	m := env.model

	env.send(t, ArticleDeleteRequestedMsg{ID: 2})
	require.Equal(t, ScreenModal, m.CurrentScreen())

	a, ok := m.articles.Find(2)
	require.True(t, ok)
	assert.Contains(t, m.modalScreen.body, a.Title)
	assert.Equal(t, 2, m.modalScreen.articleID)
}
