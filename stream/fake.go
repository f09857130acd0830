package stream

import (
	"context"
	"sync"
)

// FakeTransport is a hand-rolled Transport test double: it records every successful
// delete and lets a test pre-seed errors per sequence number rather than hitting a
// real broker.
type FakeTransport struct {
	mu sync.Mutex

	messages []Message
	pending  int64

	readErr    error
	deleteErrs map[string]error

	deleted []string
}

func NewFakeTransport() *FakeTransport {
	return &FakeTransport{deleteErrs: make(map[string]error)}
}

// Enqueue appends a message the next ReadMessage calls will return, FIFO.
func (f *FakeTransport) Enqueue(sequence string, payload []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, Message{Sequence: sequence, Payload: payload})
}

// SetPending sets the value Pending reports until changed again.
func (f *FakeTransport) SetPending(n int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = n
}

// SetReadError makes ReadMessage return err, instead of ErrSubscriptionEnded, once
// the queue is empty (until cleared with nil). Queued messages are still returned
// first.
func (f *FakeTransport) SetReadError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readErr = err
}

// SetDeleteError makes DeleteMessage(sequence) return err exactly as configured,
// until cleared with a nil err.
func (f *FakeTransport) SetDeleteError(sequence string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.deleteErrs, sequence)
		return
	}
	f.deleteErrs[sequence] = err
}

func (f *FakeTransport) ReadMessage(ctx context.Context) (Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.messages) > 0 {
		msg := f.messages[0]
		f.messages = f.messages[1:]
		return msg, nil
	}
	if f.readErr != nil {
		return Message{}, f.readErr
	}
	return Message{}, ErrSubscriptionEnded
}

func (f *FakeTransport) Pending(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, nil
}

func (f *FakeTransport) DeleteMessage(ctx context.Context, sequence string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.deleteErrs[sequence]; ok {
		return err
	}
	f.deleted = append(f.deleted, sequence)
	return nil
}

// Deleted returns the sequence numbers successfully deleted so far, in call order.
func (f *FakeTransport) Deleted() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}
