package stream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// payloadField is the Redis Stream entry field holding the request's encoded bytes;
// each entry carries exactly one encoded request under it.
const payloadField = "payload"

// RedisTransport implements Transport over a Redis Stream consumer group. Streams
// rather than lists because the pipeline needs what lists cannot give it: a stable
// per-message sequence number (the entry ID) and an idempotent delete-by-sequence.
type RedisTransport struct {
	client   *redis.Client
	stream   string
	group    string
	consumer string
	block    time.Duration
}

// NewRedisTransport builds a RedisTransport over an existing stream/group; the group
// must already exist (created with XGroupCreateMkStream by the deployment's setup
// step, not by this constructor). block is how long ReadMessage waits for a new entry
// before treating the subscription as drained; block <= 0 reads non-blocking, the
// configuration tests use to drive a stream to its end deterministically.
func NewRedisTransport(client *redis.Client, streamKey, group, consumer string, block time.Duration) *RedisTransport {
	return &RedisTransport{client: client, stream: streamKey, group: group, consumer: consumer, block: block}
}

func (t *RedisTransport) ReadMessage(ctx context.Context) (Message, error) {
	block := t.block
	if block <= 0 {
		block = -1 // no BLOCK argument: return redis.Nil immediately when empty
	}
	res, err := t.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    t.group,
		Consumer: t.consumer,
		Streams:  []string{t.stream, ">"},
		Count:    1,
		Block:    block,
	}).Result()
	if errors.Is(err, redis.Nil) {
		return Message{}, ErrSubscriptionEnded
	}
	if err != nil {
		return Message{}, fmt.Errorf("stream: redis read: %w", err)
	}
	if len(res) == 0 || len(res[0].Messages) == 0 {
		return Message{}, ErrSubscriptionEnded
	}

	entry := res[0].Messages[0]
	payload, ok := entry.Values[payloadField].(string)
	if !ok {
		return Message{}, fmt.Errorf("stream: redis entry %s missing %q field", entry.ID, payloadField)
	}
	return Message{Sequence: entry.ID, Payload: []byte(payload)}, nil
}

// Pending reports the number of entries queued behind the read cursor: stream length
// minus the entries already delivered to this group but not yet deleted. XPENDING
// alone would count the just-delivered message itself, inflating the read window by
// the current batch size.
func (t *RedisTransport) Pending(ctx context.Context) (int64, error) {
	length, err := t.client.XLen(ctx, t.stream).Result()
	if err != nil {
		return 0, fmt.Errorf("stream: redis len: %w", err)
	}
	info, err := t.client.XPending(ctx, t.stream, t.group).Result()
	if err != nil {
		return 0, fmt.Errorf("stream: redis pending: %w", err)
	}
	remaining := length - info.Count
	if remaining < 0 {
		remaining = 0
	}
	return remaining, nil
}

// DeleteMessage acknowledges and removes one entry. XACK keeps the group's pending
// list from growing without bound; XDEL removes the entry from the stream itself.
// Either call finding the sequence already gone is success, which is what makes
// at-least-once deletion safe.
func (t *RedisTransport) DeleteMessage(ctx context.Context, sequence string) error {
	if err := t.client.XAck(ctx, t.stream, t.group, sequence).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("stream: redis ack: %w", err)
	}
	if err := t.client.XDel(ctx, t.stream, sequence).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("stream: redis delete: %w", err)
	}
	return nil
}

// Publish writes payload to the stream under the payload field, the producer side of
// this transport (used by tests and by external callers enqueuing requests).
func (t *RedisTransport) Publish(ctx context.Context, payload []byte) (string, error) {
	id, err := t.client.XAdd(ctx, &redis.XAddArgs{
		Stream: t.stream,
		Values: map[string]interface{}{payloadField: payload},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("stream: redis publish: %w", err)
	}
	return id, nil
}
