package internal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loginMsgs(cmd tea.Cmd) []LoginSubmittedMsg {
	var out []LoginSubmittedMsg
	for _, msg := range collectNow(cmd) {
		if m, ok := msg.(LoginSubmittedMsg); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestLoginScreenSubmit(t *testing.T) {
	env := newTestEnv(t, false, func(s *Settings) { s.Username = "bob" })
	s := env.model.loginScreen
	assert.Equal(t, "bob", s.username)

	s.username = "  bob "
	s.password = "1234"
	msgs := loginMsgs(s.handleSubmit())
	require.Len(t, msgs, 1)
	assert.Equal(t, LoginSubmittedMsg{Username: "bob", Password: "1234"}, msgs[0])

	// The password is not kept for the next attempt.
	assert.Equal(t, "bob", s.username)
	assert.Empty(t, s.password)
}

func TestLoginScreenRejectsBlankFields(t *testing.T) {
	env := newTestEnv(t, false)
	s := env.model.loginScreen

	s.username = "bob"
	s.password = ""
	assert.Empty(t, loginMsgs(s.handleSubmit()))

	s.username = " "
	s.password = "1234"
	assert.Empty(t, loginMsgs(s.handleSubmit()))
}
