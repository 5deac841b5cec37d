package tokenstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stainley/CareerLaunch/pkg/tokenstore"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	t.Run("empty store has no token", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()

		token, ok := store.Get()
		assert.False(t, ok)
		assert.False(t, token.Valid())
	})

	t.Run("set then get round-trips the pair", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()

		err := store.Set(tokenstore.Token{AccessToken: "T1", IdentityToken: "ID1"})
		require.NoError(t, err)

		token, ok := store.Get()
		require.True(t, ok)
		assert.Equal(t, "T1", token.AccessToken)
		assert.Equal(t, "ID1", token.IdentityToken)
	})

	t.Run("rejects empty access token", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()

		err := store.Set(tokenstore.Token{IdentityToken: "ID1"})
		assert.ErrorIs(t, err, tokenstore.ErrEmptyAccessToken)
	})

	t.Run("clear removes both fields", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()

		require.NoError(t, store.Set(tokenstore.Token{AccessToken: "T1", IdentityToken: "ID1"}))
		require.NoError(t, store.Clear())

		token, ok := store.Get()
		assert.False(t, ok)
		assert.Empty(t, token.AccessToken)
		assert.Empty(t, token.IdentityToken)
	})

	t.Run("clear on empty store is a no-op", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()
		assert.NoError(t, store.Clear())
	})

	t.Run("second set replaces the first pair", func(t *testing.T) {
		t.Parallel()
		store := tokenstore.NewMemoryStore()

		require.NoError(t, store.Set(tokenstore.Token{AccessToken: "T1", IdentityToken: "ID1"}))
		require.NoError(t, store.Set(tokenstore.Token{AccessToken: "T2"}))

		token, ok := store.Get()
		require.True(t, ok)
		assert.Equal(t, "T2", token.AccessToken)
		assert.Empty(t, token.IdentityToken, "stale identity token must not survive a replace")
	})
}

func TestFileStore(t *testing.T) {
	t.Parallel()

	newStore := func(t *testing.T) *tokenstore.FileStore {
		t.Helper()
		store, err := tokenstore.NewFileStore(filepath.Join(t.TempDir(), "tokens.json"))
		require.NoError(t, err)
		return store
	}

	t.Run("persists across instances", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "tokens.json")

		first, err := tokenstore.NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, first.Set(tokenstore.Token{AccessToken: "T1", IdentityToken: "ID1"}))

		second, err := tokenstore.NewFileStore(path)
		require.NoError(t, err)

		token, ok := second.Get()
		require.True(t, ok)
		assert.Equal(t, "T1", token.AccessToken)
		assert.Equal(t, "ID1", token.IdentityToken)
	})

	t.Run("clear deletes the backing file", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "tokens.json")

		store, err := tokenstore.NewFileStore(path)
		require.NoError(t, err)
		require.NoError(t, store.Set(tokenstore.Token{AccessToken: "T1"}))
		require.NoError(t, store.Clear())

		_, ok := store.Get()
		assert.False(t, ok)
		_, statErr := os.Stat(path)
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})

	t.Run("corrupt file reads as no token", func(t *testing.T) {
		t.Parallel()
		path := filepath.Join(t.TempDir(), "tokens.json")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

		store, err := tokenstore.NewFileStore(path)
		require.NoError(t, err)

		_, ok := store.Get()
		assert.False(t, ok)
	})

	t.Run("rejects empty access token", func(t *testing.T) {
		t.Parallel()
		store := newStore(t)
		assert.ErrorIs(t, store.Set(tokenstore.Token{}), tokenstore.ErrEmptyAccessToken)
	})
}
