package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore is a Store backed by a Postgres connection pool using the pgx driver
// directly (no ORM): a content-addressed blob table benefits from neither row mapping
// nor schema migrations, just two prepared statements.
//
// PostgresStore does not create or migrate its table; the caller is expected to have
// already run:
//
//	CREATE TABLE content_store (hash bytea PRIMARY KEY, bytes bytea NOT NULL);
//
// Schema migration gating (advisory locks, etc.) is a detail of the deployment's
// migration tooling, not of this package.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// OpenPostgresStore creates a PostgresStore from an already-configured pool. Building
// the pool itself from a PgPoolConfig is the caller's responsibility (package config).
func OpenPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("content: ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Close closes the underlying connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Put implements Store using a context.Background() deadline; callers needing a
// bounded deadline should use PutContext.
func (s *PostgresStore) Put(data []byte) (Hash, error) {
	return s.PutContext(context.Background(), data)
}

// PutContext is Put with an explicit context.
func (s *PostgresStore) PutContext(ctx context.Context, data []byte) (Hash, error) {
	hash := HashBytes(data)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO content_store (hash, bytes) VALUES ($1, $2) ON CONFLICT (hash) DO NOTHING`,
		hash[:], data,
	)
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return hash, nil
}

// Get implements Store using context.Background(); callers needing a bounded
// deadline should use GetContext.
func (s *PostgresStore) Get(hash Hash) ([]byte, error) {
	return s.GetContext(context.Background(), hash)
}

// GetContext is Get with an explicit context.
func (s *PostgresStore) GetContext(ctx context.Context, hash Hash) ([]byte, error) {
	var data []byte
	err := s.pool.QueryRow(ctx,
		`SELECT bytes FROM content_store WHERE hash = $1`, hash[:],
	).Scan(&data)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	return data, nil
}
