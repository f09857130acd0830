package idgen

import "crypto/rand"

// newEntropySource returns the randomness source backing each Generator's monotonic
// ULID reader. crypto/rand keeps minted IDs unguessable across processes; the
// monotonic wrapper on top makes same-millisecond IDs sort in mint order.
func newEntropySource() *randReader {
	return &randReader{}
}

type randReader struct{}

func (randReader) Read(p []byte) (int, error) {
	return rand.Read(p)
}
