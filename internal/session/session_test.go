package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionLifecycle(t *testing.T) {
	s := New(NewMemoryStore())

	_, ok := s.Token()
	assert.False(t, ok)
	assert.False(t, s.LoggedIn())

	require.NoError(t, s.SetToken("abc123"))
	token, ok := s.Token()
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	had, err := s.Clear()
	require.NoError(t, err)
	assert.True(t, had)
	assert.False(t, s.LoggedIn())

	had, err = s.Clear()
	require.NoError(t, err)
	assert.False(t, had)
}

func TestEmptyTokenIsAbsent(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set(TokenKey, ""))
	assert.False(t, New(store).LoggedIn())
}

func TestFileStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, New(store).SetToken("abc123"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)
	token, ok := New(reopened).Token()
	assert.True(t, ok)
	assert.Equal(t, "abc123", token)

	had, err := New(reopened).Clear()
	require.NoError(t, err)
	assert.True(t, had)

	again, err := OpenFileStore(path)
	require.NoError(t, err)
	assert.False(t, New(again).LoggedIn())
}

func TestFileStoreRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := OpenFileStore(path)
	assert.Error(t, err)
}

func TestFileStoreEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", "v"))
	v, ok := store.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileStoreFailedWriteKeepsState(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	path := filepath.Join(dir, "state.yaml")

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	sess := New(store)

	// The state directory cannot be created once a file sits in its place.
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o600))

	require.Error(t, sess.SetToken("abc123"))
	assert.False(t, sess.LoggedIn())

	require.NoError(t, os.Remove(dir))
	require.NoError(t, sess.SetToken("abc123"))
	require.True(t, sess.LoggedIn())

	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("x"), 0o600))

	_, err = sess.Clear()
	require.Error(t, err)
	token, ok := sess.Token()
	assert.True(t, ok, "a token that could not be removed from disk stays in memory")
	assert.Equal(t, "abc123", token)
}
