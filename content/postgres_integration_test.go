package content

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPostgresStore_PutGet exercises PostgresStore against a real database. It is
// skipped unless CONTENT_STORE_TEST_DSN is set, since it needs a running Postgres with
// the content_store table already migrated.
func TestPostgresStore_PutGet(t *testing.T) {
	dsn := os.Getenv("CONTENT_STORE_TEST_DSN")
	if dsn == "" {
		t.Skip("CONTENT_STORE_TEST_DSN not set, skipping postgres integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	store, err := OpenPostgresStore(ctx, pool)
	require.NoError(t, err)

	payload := []byte("hello postgres content store")
	hash, err := store.PutContext(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, HashBytes(payload), hash)

	got, err := store.GetContext(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	_, err = store.GetContext(ctx, HashBytes([]byte("never stored")))
	assert.ErrorIs(t, err, ErrNotFound)
}
