// Package stream drives the Compressor over a durable FIFO subscription: one
// CompressingStream per change set, batching its pending read window into a single
// compressed request and deleting the source messages it consumed. The stream is an
// explicit state machine advanced by Next, one blocking pull per state transition,
// with no internal locks or goroutines.
package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/systeminit/si-sub002/compressor"
	"github.com/systeminit/si-sub002/request"
)

// ErrSubscriptionEnded is returned by ReadMessage when the transport has nothing to
// deliver: RedisTransport returns it when a read finds no new entry within its block
// time, FakeTransport when its queue is empty. CompressingStream treats it as
// end-of-stream and closes.
var ErrSubscriptionEnded = errors.New("stream: subscription ended")

// ErrStreamClosed is returned by Next once the stream has transitioned to its closed
// state; no further items will ever be yielded.
var ErrStreamClosed = errors.New("stream: closed")

// Message is one transport entry: an opaque payload and the sequence number its
// source uses to address it for deletion.
type Message struct {
	Sequence string
	Payload  []byte
}

// Transport abstracts the durable FIFO subscription CompressingStream consumes; a
// real Redis Streams implementation and an in-memory fake both satisfy it.
type Transport interface {
	// ReadMessage blocks for the next message. It returns ErrSubscriptionEnded when
	// the subscription has nothing to deliver.
	ReadMessage(ctx context.Context) (Message, error)

	// Pending reports how many messages are queued behind the read cursor at the
	// moment of the call, used to size the read window.
	Pending(ctx context.Context) (int64, error)

	// DeleteMessage removes a message by sequence number. Deleting an already-absent
	// sequence is not an error; at-least-once deletion relies on this idempotence.
	DeleteMessage(ctx context.Context, sequence string) error
}

// FailureMode names which state-machine step produced a StreamError.
type FailureMode int

const (
	FailureModeParse FailureMode = iota
	FailureModeRead
	FailureModeCompress
	FailureModeDelete
	FailureModeSerialize
)

func (m FailureMode) String() string {
	switch m {
	case FailureModeParse:
		return "parse"
	case FailureModeRead:
		return "read"
	case FailureModeCompress:
		return "compress"
	case FailureModeDelete:
		return "delete"
	case FailureModeSerialize:
		return "serialize"
	default:
		return "unknown"
	}
}

// StreamError annotates a recoverable failure with whether the stream continues
// (restarts at ReadFirstMessage, or moves on to its next internal state) or is about
// to close.
type StreamError struct {
	Mode      FailureMode
	Continues bool
	Err       error
}

func (e *StreamError) Error() string {
	verb := "closes"
	if e.Continues {
		verb = "continues"
	}
	return fmt.Sprintf("stream: %s failure, stream %s: %v", e.Mode, verb, e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }

// Item is one unit Next yields: either a successfully compressed request or a
// recoverable failure surfaced for logging/metrics. On success, Payload carries the
// serialized compressed request, ready to publish as a local message under Subject;
// Compressed is the decoded form for consumers that dispatch in-process.
type Item struct {
	Subject    string
	Payload    []byte
	Compressed request.CompressedRequest
	Err        *StreamError
}

type state int

const (
	stateReadFirst state = iota
	stateReadWindow
	stateCompress
	stateDelete
	stateYield
	stateClosed
)

// CompressingStream is the per-change-set state machine described in package doc.
// Not safe for concurrent use: exactly one goroutine should call Next at a time,
// matching the single-threaded cooperative design; no internal locks.
type CompressingStream struct {
	transport     Transport
	subject       string
	windowCeiling int

	state    state
	window   int
	requests []request.Request
	toDelete []string
	closing  bool

	compressed  request.CompressedRequest
	pendingItem *Item
}

// New constructs a CompressingStream over transport. subject identifies the change
// set and is stamped onto every yielded Item.
func New(transport Transport, subject string) *CompressingStream {
	return &CompressingStream{transport: transport, subject: subject, state: stateReadFirst}
}

// SetReadWindowCeiling caps the read window regardless of how many messages the
// transport reports pending, bounding the worst-case batch one compression folds.
// Zero or negative means uncapped. Messages beyond the cap stay in the stream for the
// next window.
func (s *CompressingStream) SetReadWindowCeiling(n int) {
	s.windowCeiling = n
}

// Next runs the state machine forward until it has an Item to yield or the stream
// closes. Internal transitions that produce nothing observable (message drops,
// silent request skips) are taken without returning control to the caller.
func (s *CompressingStream) Next(ctx context.Context) (*Item, error) {
	for {
		if s.state == stateClosed {
			return nil, ErrStreamClosed
		}

		item, closedNow, err := s.step(ctx)
		if err != nil {
			return nil, err
		}
		if closedNow {
			s.state = stateClosed
			return nil, ErrStreamClosed
		}
		if item != nil {
			return item, nil
		}
	}
}

func (s *CompressingStream) step(ctx context.Context) (*Item, bool, error) {
	switch s.state {
	case stateReadFirst:
		return s.stepReadFirst(ctx)
	case stateReadWindow:
		return s.stepReadWindow(ctx)
	case stateCompress:
		return s.stepCompress()
	case stateDelete:
		return s.stepDelete(ctx)
	case stateYield:
		return s.stepYield()
	default:
		return nil, true, nil
	}
}

// stepReadFirst implements ReadFirstMessage + ParseFirstRequest.
func (s *CompressingStream) stepReadFirst(ctx context.Context) (*Item, bool, error) {
	msg, err := s.transport.ReadMessage(ctx)
	if errors.Is(err, ErrSubscriptionEnded) {
		return nil, true, nil
	}
	if err != nil {
		// Transport error reading the first message: restart, nothing to yield.
		return nil, false, nil
	}

	pending, perr := s.transport.Pending(ctx)
	if perr != nil {
		// Info-parse/lookup failure: the message cannot be acknowledged by
		// sequence without a trustworthy window, so drop it and restart.
		return nil, false, nil
	}

	s.window = int(pending) + 1
	if s.windowCeiling > 0 && s.window > s.windowCeiling {
		s.window = s.windowCeiling
	}
	s.requests = s.requests[:0]
	s.toDelete = []string{msg.Sequence}
	s.closing = false

	req, derr := request.Decode(msg.Payload)
	if derr != nil {
		s.deleteAll(ctx)
		s.state = stateReadFirst
		return &Item{Subject: s.subject, Err: &StreamError{Mode: FailureModeParse, Continues: true, Err: derr}}, false, nil
	}

	s.requests = append(s.requests, req)
	if len(s.requests) >= s.window {
		s.state = stateCompress
	} else {
		s.state = stateReadWindow
	}
	return nil, false, nil
}

// stepReadWindow implements ReadNextMessageInWindow + ParseNextRequestInWindow.
func (s *CompressingStream) stepReadWindow(ctx context.Context) (*Item, bool, error) {
	msg, err := s.transport.ReadMessage(ctx)
	if errors.Is(err, ErrSubscriptionEnded) {
		s.closing = true
		s.state = stateCompress
		return nil, false, nil
	}
	if err != nil {
		s.state = stateCompress
		return &Item{Subject: s.subject, Err: &StreamError{Mode: FailureModeRead, Continues: true, Err: err}}, false, nil
	}

	s.toDelete = append(s.toDelete, msg.Sequence)

	req, derr := request.Decode(msg.Payload)
	if derr != nil {
		// Skip the request but keep its sequence queued for deletion; no item is
		// surfaced for a lone decode failure mid-window.
		s.state = stateCompress
		return nil, false, nil
	}

	s.requests = append(s.requests, req)
	if len(s.requests) >= s.window {
		s.state = stateCompress
	}
	return nil, false, nil
}

// stepCompress implements CompressRequests.
func (s *CompressingStream) stepCompress() (*Item, bool, error) {
	compressed, err := compressor.Compress(s.requests)
	if err != nil {
		s.pendingItem = &Item{Subject: s.subject, Err: &StreamError{Mode: FailureModeCompress, Continues: !s.closing, Err: err}}
	} else {
		s.compressed = compressed
		s.pendingItem = nil
	}
	s.state = stateDelete
	return nil, false, nil
}

// stepDelete implements DeleteStreamMessage, one sequence number per call.
func (s *CompressingStream) stepDelete(ctx context.Context) (*Item, bool, error) {
	if len(s.toDelete) == 0 {
		if s.pendingItem != nil {
			item := s.pendingItem
			s.pendingItem = nil
			s.state = nextAfterFailure(s.closing)
			return item, false, nil
		}
		s.state = stateYield
		return nil, false, nil
	}

	seq := s.toDelete[0]
	s.toDelete = s.toDelete[1:]
	if err := s.transport.DeleteMessage(ctx, seq); err != nil {
		return &Item{Subject: s.subject, Err: &StreamError{Mode: FailureModeDelete, Continues: true, Err: err}}, false, nil
	}
	return nil, false, nil
}

// stepYield implements YieldItem: serialize the compressed request and yield it as a
// local message under the stream's subject.
func (s *CompressingStream) stepYield() (*Item, bool, error) {
	s.state = nextAfterFailure(s.closing)

	payload, err := request.EncodeCompressed(s.compressed)
	if err != nil {
		return &Item{Subject: s.subject, Err: &StreamError{Mode: FailureModeSerialize, Continues: !s.closing, Err: err}}, false, nil
	}
	return &Item{Subject: s.subject, Payload: payload, Compressed: s.compressed}, false, nil
}

func (s *CompressingStream) deleteAll(ctx context.Context) {
	for _, seq := range s.toDelete {
		_ = s.transport.DeleteMessage(ctx, seq)
	}
	s.toDelete = s.toDelete[:0]
}

func nextAfterFailure(closing bool) state {
	if closing {
		return stateClosed
	}
	return stateReadFirst
}
