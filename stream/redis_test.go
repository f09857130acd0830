package stream

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systeminit/si-sub002/request"
)

func newRedisTransport(t *testing.T) *RedisTransport {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	require.NoError(t, client.XGroupCreateMkStream(ctx, "edda.requests.cs-1", "edda", "0").Err())

	return NewRedisTransport(client, "edda.requests.cs-1", "edda", "edda-0", 0)
}

func TestRedisTransport_ReadPendingDelete(t *testing.T) {
	transport := newRedisTransport(t)
	ctx := context.Background()

	payload1 := encode(t, request.NewRebuild())
	payload2 := encode(t, request.NewRebuild())
	seq1, err := transport.Publish(ctx, payload1)
	require.NoError(t, err)
	seq2, err := transport.Publish(ctx, payload2)
	require.NoError(t, err)

	msg, err := transport.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq1, msg.Sequence)
	assert.Equal(t, payload1, msg.Payload)

	// One entry delivered and one still queued: the read window sees exactly the
	// queued one.
	pending, err := transport.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending)

	msg, err = transport.ReadMessage(ctx)
	require.NoError(t, err)
	assert.Equal(t, seq2, msg.Sequence)

	require.NoError(t, transport.DeleteMessage(ctx, seq1))
	require.NoError(t, transport.DeleteMessage(ctx, seq2))

	// Idempotent on absent sequences.
	require.NoError(t, transport.DeleteMessage(ctx, seq1))

	pending, err = transport.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)

	_, err = transport.ReadMessage(ctx)
	assert.ErrorIs(t, err, ErrSubscriptionEnded)
}

func TestRedisTransport_DrivesCompressingStream(t *testing.T) {
	transport := newRedisTransport(t)
	ctx := context.Background()

	_, err := transport.Publish(ctx, encode(t, request.NewNewChangeSet("base", "new", "to-addr")))
	require.NoError(t, err)
	_, err = transport.Publish(ctx, encode(t, request.NewUpdate("to-addr", "to-addr-2", "batch-1")))
	require.NoError(t, err)

	cs := New(transport, "cs-1")

	item, err := cs.Next(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	require.Nil(t, item.Err)
	assert.Equal(t, request.KindNewChangeSet, item.Compressed.Kind)
	assert.Equal(t, []string{"batch-1"}, item.Compressed.ChangeBatchAddresses)

	// Both source entries were acknowledged and removed.
	pending, err := transport.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), pending)
}
