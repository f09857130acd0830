// Package idgen produces monotonic, lexicographically-sortable 128-bit identifiers.
//
// Each snapshot graph owns exactly one Generator behind a mutex; there is no global
// singleton. IDs are ULIDs: a 48-bit millisecond
// timestamp followed by 80 bits of monotonically-increasing randomness, so that two
// IDs minted in the same millisecond from the same Generator still sort in mint order.
package idgen

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid"
)

// ErrMutexPoison is returned when a prior panic left the Generator's lock unusable.
// The caller should treat this as a hard error and let its supervisor restart.
var ErrMutexPoison = errors.New("idgen: generator mutex poisoned")

// ID is a process-globally-unique, monotonic, lexicographically-sortable identifier.
type ID [16]byte

// String renders the ID in Crockford base32, the same encoding that makes the
// underlying bytes lexicographically sortable as text.
func (id ID) String() string {
	return ulid.ULID(id).String()
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == ID{}
}

// ParseID parses the Crockford base32 form String produces back into an ID.
func ParseID(s string) (ID, error) {
	u, err := ulid.ParseStrict(s)
	if err != nil {
		return ID{}, fmt.Errorf("idgen: parse id %q: %w", s, err)
	}
	return ID(u), nil
}

// Compare orders two IDs the same way their byte and string representations sort.
func (id ID) Compare(other ID) int {
	return ulid.ULID(id).Compare(ulid.ULID(other))
}

// Generator mints monotonic IDs. The zero value is not usable; use New.
type Generator struct {
	mu       sync.Mutex
	entropy  io.Reader
	poisoned bool
}

// New creates a Generator whose monotonic entropy is drawn from crypto/rand.
func New() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(newEntropySource(), 0),
	}
}

// NewID mints a fresh monotonic ID. It returns ErrMutexPoison if a previous call
// panicked while holding the lock.
func (g *Generator) NewID() (id ID, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.mu.Lock()
			g.poisoned = true
			g.mu.Unlock()
			err = fmt.Errorf("idgen: %w: %v", ErrMutexPoison, r)
		}
	}()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.poisoned {
		return ID{}, ErrMutexPoison
	}

	u, genErr := ulid.New(ulid.Timestamp(time.Now()), g.entropy)
	if genErr != nil {
		return ID{}, fmt.Errorf("idgen: mint id: %w", genErr)
	}
	return ID(u), nil
}

// MustNewID mints a fresh ID, panicking on failure. Reserved for paths (such as graph
// construction in tests) where the caller has already established the generator is
// healthy.
func (g *Generator) MustNewID() ID {
	id, err := g.NewID()
	if err != nil {
		panic(err)
	}
	return id
}
