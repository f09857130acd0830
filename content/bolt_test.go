package content

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestBoltStore(t *testing.T) *BoltStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "content.db")
	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBoltStore_PutGet(t *testing.T) {
	store := openTestBoltStore(t)

	payload := []byte("hello workspace snapshot")
	hash, err := store.Put(payload)
	require.NoError(t, err)
	assert.Equal(t, HashBytes(payload), hash)

	got, err := store.Get(hash)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestBoltStore_GetMissing(t *testing.T) {
	store := openTestBoltStore(t)

	_, err := store.Get(HashBytes([]byte("never stored")))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBoltStore_PutIdempotent(t *testing.T) {
	store := openTestBoltStore(t)

	payload := []byte("repeated content")
	hash1, err := store.Put(payload)
	require.NoError(t, err)
	hash2, err := store.Put(payload)
	require.NoError(t, err)

	assert.Equal(t, hash1, hash2)
}
