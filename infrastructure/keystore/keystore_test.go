package keystore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()

	value, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set("k", []byte("v1")))
	value, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v1"), value)

	// Overwrite is last-writer-wins.
	require.NoError(t, store.Set("k", []byte("v2")))
	value, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, store.Delete("k"))
	value, err = store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, value)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Set("k", []byte("abc")))

	value, err := store.Get("k")
	require.NoError(t, err)
	value[0] = 'x'

	again, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("durable")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("durable"), value)

	missing, err := reopened.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestSQLiteStore_OverwriteAndDelete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("k", []byte("v1")))
	require.NoError(t, store.Set("k", []byte("v2")))

	value, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), value)

	require.NoError(t, store.Delete("k"))
	value, err = store.Get("k")
	require.NoError(t, err)
	assert.Nil(t, value)
}
