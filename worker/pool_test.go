package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/systeminit/si-sub002/request"
	"github.com/systeminit/si-sub002/stream"
)

type recordingHandler struct {
	mu    sync.Mutex
	items []*stream.Item
}

func (h *recordingHandler) Handle(ctx context.Context, item *stream.Item) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.items = append(h.items, item)
	return nil
}

func (h *recordingHandler) snapshot() []*stream.Item {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]*stream.Item(nil), h.items...)
}

func encode(t *testing.T, r request.Request) []byte {
	t.Helper()
	data, err := request.Encode(r)
	require.NoError(t, err)
	return data
}

func TestPool_DrivesOneStreamPerChangeSet(t *testing.T) {
	transports := map[string]*stream.FakeTransport{
		"cs-1": stream.NewFakeTransport(),
		"cs-2": stream.NewFakeTransport(),
	}

	transports["cs-1"].SetPending(1)
	transports["cs-1"].Enqueue("1-0", encode(t, request.NewUpdate("a", "b", "batch-1")))
	transports["cs-1"].Enqueue("2-0", encode(t, request.NewUpdate("b", "c", "batch-2")))
	transports["cs-2"].Enqueue("1-0", encode(t, request.NewRebuild()))

	handler := &recordingHandler{}
	pool := NewPool(
		func(changeSetID string) stream.Transport { return transports[changeSetID] },
		handler,
		nil,
		Config{ChangeSetIDs: []string{"cs-1", "cs-2"}, RetryDelay: 10 * time.Millisecond},
	)

	pool.Start()
	pool.Wait()

	items := handler.snapshot()
	require.Len(t, items, 2)

	bySubject := make(map[string]*stream.Item, len(items))
	for _, item := range items {
		bySubject[item.Subject] = item
	}

	require.Contains(t, bySubject, "cs-1")
	assert.Equal(t, request.KindUpdate, bySubject["cs-1"].Compressed.Kind)
	assert.Equal(t, []string{"batch-1", "batch-2"}, bySubject["cs-1"].Compressed.ChangeBatchAddresses)
	assert.Equal(t, []string{"1-0", "2-0"}, transports["cs-1"].Deleted())
	assert.NotEmpty(t, bySubject["cs-1"].Payload)

	require.Contains(t, bySubject, "cs-2")
	assert.Equal(t, request.KindRebuild, bySubject["cs-2"].Compressed.Kind)
}

func TestPool_HandlerErrorDoesNotStopWorker(t *testing.T) {
	transport := stream.NewFakeTransport()
	transport.Enqueue("1-0", encode(t, request.NewRebuild()))
	transport.Enqueue("2-0", encode(t, request.NewRebuild()))

	var mu sync.Mutex
	var calls int
	handler := HandlerFunc(func(ctx context.Context, item *stream.Item) error {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls == 1 {
			return assert.AnError
		}
		return nil
	})

	pool := NewPool(
		func(string) stream.Transport { return transport },
		handler,
		nil,
		Config{ChangeSetIDs: []string{"cs-1"}, RetryDelay: time.Millisecond},
	)

	pool.Start()
	pool.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, calls)
}
