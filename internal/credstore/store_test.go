package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_roundTrip(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("my-bearer-token"))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "my-bearer-token", tok)
}

func TestStore_emptyReturnsErrNoToken(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Equal(t, "", store.Token())
}

func TestStore_deleteClears(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("tok"))
	require.NoError(t, store.Delete())

	_, err = store.Load()
	assert.ErrorIs(t, err, ErrNoToken)

	// Deleting again is a no-op
	assert.NoError(t, store.Delete())
}

func TestStore_overwrite(t *testing.T) {
	store, err := New(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save("first"))
	require.NoError(t, store.Save("second"))

	tok, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", tok)
}

func TestStore_tokenEncryptedAtRest(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, store.Save("super-secret-token"))

	raw, err := os.ReadFile(filepath.Join(dir, "token.bin"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "super-secret-token")
}
