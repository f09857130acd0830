package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systeminit/si-sub002/request"
)

func encode(t *testing.T, r request.Request) []byte {
	t.Helper()
	data, err := request.Encode(r)
	require.NoError(t, err)
	return data
}

// S6: three messages arrive FIFO with pending=2 on the first, giving a window of 3;
// all three decode; the compressor folds them to one NewChangeSet; three deletes are
// observed in FIFO sequence order; exactly one item is yielded.
func TestCompressingStream_S6_FullWindow(t *testing.T) {
	transport := NewFakeTransport()
	transport.SetPending(2)
	transport.Enqueue("1-0", encode(t, request.NewNewChangeSet("base", "new", "to-addr")))
	transport.Enqueue("2-0", encode(t, request.NewUpdate("to-addr", "to-addr-2", "batch-1")))
	transport.Enqueue("3-0", encode(t, request.NewUpdate("to-addr-2", "to-addr-3", "batch-2")))

	cs := New(transport, "change-set-1")

	item, err := cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Err)
	assert.Equal(t, request.KindNewChangeSet, item.Compressed.Kind)
	assert.Equal(t, []string{"batch-1", "batch-2"}, item.Compressed.ChangeBatchAddresses)
	assert.Equal(t, []string{"1-0", "2-0", "3-0"}, transport.Deleted())

	// The yielded local message carries the serialized form of the same request.
	decoded, derr := request.DecodeCompressed(item.Payload)
	require.NoError(t, derr)
	assert.Equal(t, item.Compressed, decoded)

	// Then the fourth arrives alone with pending=0: window of 1, one delete, one yield.
	transport.SetPending(0)
	transport.Enqueue("4-0", encode(t, request.NewRebuild()))

	item, err = cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Err)
	assert.Equal(t, request.KindRebuild, item.Compressed.Kind)
	assert.Equal(t, []string{"1-0", "2-0", "3-0", "4-0"}, transport.Deleted())
}

func TestCompressingStream_ReadWindowCeiling(t *testing.T) {
	transport := NewFakeTransport()
	transport.SetPending(3)
	transport.Enqueue("1-0", encode(t, request.NewRebuild()))
	transport.Enqueue("2-0", encode(t, request.NewRebuild()))
	transport.Enqueue("3-0", encode(t, request.NewRebuild()))
	transport.Enqueue("4-0", encode(t, request.NewRebuild()))

	cs := New(transport, "change-set-1")
	cs.SetReadWindowCeiling(2)

	item, err := cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Err)
	// Only the capped window was consumed and deleted; the rest stays queued.
	assert.Equal(t, []string{"1-0", "2-0"}, transport.Deleted())
}

func TestCompressingStream_EmptySubscription_Closes(t *testing.T) {
	transport := NewFakeTransport()
	cs := New(transport, "change-set-1")

	item, err := cs.Next(context.Background())
	assert.Nil(t, item)
	require.ErrorIs(t, err, ErrStreamClosed)
}

func TestCompressingStream_FirstMessageParseFailure_DeletesAndRestarts(t *testing.T) {
	transport := NewFakeTransport()
	transport.SetPending(0)
	transport.Enqueue("1-0", []byte("not json"))
	transport.Enqueue("2-0", encode(t, request.NewRebuild()))

	cs := New(transport, "change-set-1")

	item, err := cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NotNil(t, item.Err)
	assert.Equal(t, FailureModeParse, item.Err.Mode)
	assert.True(t, item.Err.Continues)
	assert.Equal(t, []string{"1-0"}, transport.Deleted())

	item, err = cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Err)
	assert.Equal(t, request.KindRebuild, item.Compressed.Kind)
}

func TestCompressingStream_ReadErrorMidWindow_SurfacesAndCompressesAccumulated(t *testing.T) {
	transport := NewFakeTransport()
	transport.SetPending(1)
	transport.Enqueue("1-0", encode(t, request.NewRebuild()))

	cs := New(transport, "change-set-1")

	// Prime the window: read the first message, then fail the second read.
	// We can't intercept mid-Next, so configure the read error to trigger once the
	// single enqueued message has been drained.
	transport.SetReadError(errors.New("boom"))

	item, err := cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NotNil(t, item.Err)
	assert.Equal(t, FailureModeRead, item.Err.Mode)
	assert.True(t, item.Err.Continues)

	// The accumulated single Rebuild request still compresses and its message still
	// gets deleted, on the following Next call.
	transport.SetReadError(nil)
	item, err = cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Err)
	assert.Equal(t, request.KindRebuild, item.Compressed.Kind)
	assert.Equal(t, []string{"1-0"}, transport.Deleted())
}

func TestCompressingStream_DeleteFailure_SurfacesAndContinues(t *testing.T) {
	transport := NewFakeTransport()
	transport.SetPending(0)
	transport.Enqueue("1-0", encode(t, request.NewRebuild()))
	transport.SetDeleteError("1-0", errors.New("delete failed"))

	cs := New(transport, "change-set-1")

	item, err := cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	require.NotNil(t, item.Err)
	assert.Equal(t, FailureModeDelete, item.Err.Mode)
	assert.True(t, item.Err.Continues)

	transport.SetDeleteError("1-0", nil)
	transport.SetPending(0)
	transport.Enqueue("2-0", encode(t, request.NewRebuild()))

	item, err = cs.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Nil(t, item.Err)
}
