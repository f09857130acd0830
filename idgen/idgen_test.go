package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID_Monotonic(t *testing.T) {
	gen := New()

	var prev ID
	for i := 0; i < 256; i++ {
		id, err := gen.NewID()
		require.NoError(t, err)

		if i > 0 {
			assert.Equal(t, -1, prev.Compare(id), "ids must be strictly increasing")
		}
		prev = id
	}
}

func TestID_StringIsSortable(t *testing.T) {
	gen := New()

	a, err := gen.NewID()
	require.NoError(t, err)
	b, err := gen.NewID()
	require.NoError(t, err)

	assert.Less(t, a.String(), b.String())
}

func TestID_IsZero(t *testing.T) {
	var id ID
	assert.True(t, id.IsZero())

	gen := New()
	minted, err := gen.NewID()
	require.NoError(t, err)
	assert.False(t, minted.IsZero())
}

func TestParseID_RoundTrip(t *testing.T) {
	gen := New()
	id, err := gen.NewID()
	require.NoError(t, err)

	parsed, err := ParseID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseID("not a ulid")
	require.Error(t, err)
}

func TestGenerator_PoisonedAfterPanic(t *testing.T) {
	gen := New()
	gen.poisoned = true

	_, err := gen.NewID()
	require.ErrorIs(t, err, ErrMutexPoison)
}
