// Package merkle computes the whole-subtree hash a snapshot graph node carries,
// combining the node's own content hash with the hashes of its children in a fixed,
// deterministic order (ordered children first, then remaining children sorted by id).
//
// The package is deliberately graph-agnostic: it knows nothing about NodeIndex, edges,
// or traversal order. The snapshot package walks the graph and feeds this package the
// already-ordered sequence of child hashes plus edge-kind-specific bytes; merkle only
// owns the hash combination itself, so the traversal algorithm (post-order DFS,
// touched-set propagation) stays in one place.
package merkle

import "crypto/sha256"

// Hash is a node's merkle tree hash: the SHA-256 digest combining its own node hash
// with its children's merkle tree hashes and the edges connecting them.
type Hash [sha256.Size]byte

// Hasher accumulates one node's merkle tree hash. New returns a fresh Hasher; the
// zero value is equivalent. A Hasher is single-use: call Finalize once and discard it.
type Hasher struct {
	buf []byte
}

// New starts a fresh Hasher.
func New() *Hasher {
	return &Hasher{}
}

// AbsorbNodeHash absorbs the node's own content hash, excluding children. Must be
// called exactly once, before any AbsorbChild call.
func (h *Hasher) AbsorbNodeHash(nodeHash [32]byte) *Hasher {
	h.write(nodeHash[:])
	return h
}

// AbsorbChild absorbs one child's current merkle tree hash followed by the
// edge-kind-specific bytes of every edge from this node to that child. Callers must
// present children in the fixed order: ordered children (in ordering-node order)
// first, then the remaining children sorted ascending by target node id.
func (h *Hasher) AbsorbChild(childHash Hash, edgeBytes [][]byte) *Hasher {
	h.write(childHash[:])
	for _, b := range edgeBytes {
		h.write(b)
	}
	return h
}

// Finalize produces the combined hash.
func (h *Hasher) Finalize() Hash {
	return sha256.Sum256(h.buf)
}

func (h *Hasher) write(b []byte) {
	var lenBuf [8]byte
	n := len(b)
	for i := 0; i < 8; i++ {
		lenBuf[7-i] = byte(n)
		n >>= 8
	}
	h.buf = append(h.buf, lenBuf[:]...)
	h.buf = append(h.buf, b...)
}
