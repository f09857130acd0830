// Package content implements the content-addressed blob store that backs the
// workspace snapshot graph (spec component A). The store is assumed append-only and
// globally addressable: hash collisions are treated as impossible, and there is no
// TTL or eviction.
package content

import (
	"crypto/sha256"
	"errors"
	"fmt"
)

// Hash is a content hash: the SHA-256 digest of the stored payload.
type Hash [sha256.Size]byte

// HashBytes computes the content hash of a payload without storing it.
func HashBytes(data []byte) Hash {
	return sha256.Sum256(data)
}

// String renders the hash as lowercase hex. The Postgres and bbolt backends key their
// rows and buckets by the raw digest bytes, not by this form.
func (h Hash) String() string {
	return fmt.Sprintf("%x", [sha256.Size]byte(h))
}

// ErrStoreWrite is returned when a Put fails to persist its payload.
var ErrStoreWrite = errors.New("content: store write failed")

// ErrStoreRead is returned when a Get fails for a reason other than a simple miss.
var ErrStoreRead = errors.New("content: store read failed")

// ErrNotFound is returned by Get when no payload exists for the given hash. It is
// deliberately distinct from ErrStoreRead: a miss is an ordinary outcome callers must
// handle, not an I/O failure.
var ErrNotFound = errors.New("content: hash not found")

// Store is the single trait every content-store backend implements. Put is
// content-addressed: callers never choose the key, so a caller can retry Put freely
// and the hash alone determines idempotency.
type Store interface {
	// Put persists data and returns its content hash.
	Put(data []byte) (Hash, error)
	// Get retrieves the payload for hash, or ErrNotFound if it does not exist.
	Get(hash Hash) ([]byte, error)
}
