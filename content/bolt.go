package content

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

var contentBucket = []byte("content")

// BoltStore is a Store backed by a local bbolt file. It is the default backend for
// single-process development and for tests; production deployments use PostgresStore.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates a bbolt-backed content store at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("content: open bolt store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, createErr := tx.CreateBucketIfNotExists(contentBucket)
		return createErr
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("content: create content bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close releases the underlying bbolt file handle.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Put implements Store.
func (s *BoltStore) Put(data []byte) (Hash, error) {
	hash := HashBytes(data)

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(contentBucket)
		// Append-only: a payload already present under this hash is byte-identical
		// by construction, so re-writing it is harmless and keeps Put idempotent.
		return b.Put(hash[:], data)
	})
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %w", ErrStoreWrite, err)
	}
	return hash, nil
}

// Get implements Store.
func (s *BoltStore) Get(hash Hash) ([]byte, error) {
	var data []byte

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(contentBucket)
		v := b.Get(hash[:])
		if v == nil {
			return ErrNotFound
		}
		data = make([]byte, len(v))
		copy(data, v)
		return nil
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreRead, err)
	}
	return data, nil
}
