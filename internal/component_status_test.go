package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusBar(t *testing.T) {
	s := NewStatusBar()

	assert.Contains(t, s.View("Welcome, bob!", false), "Welcome, bob!")
	assert.Contains(t, s.View("", true), "Loading...")

	assert.NotNil(t, s.Start())
	assert.Nil(t, s.Start(), "a second start must not spawn another tick chain")

	s.Stop()
	assert.NotNil(t, s.Start())
}
