// Package worker drives the request-compression pipeline: one worker per change set,
// each pulling its CompressingStream to completion and handing every compressed
// request to a downstream handler. The pool owns worker lifecycle only; batching,
// deletion, and error recovery all live in the stream package.
package worker

import (
	"context"
	"errors"
	"time"

	"github.com/systeminit/si-sub002/common"
	"github.com/systeminit/si-sub002/metrics"
	"github.com/systeminit/si-sub002/stream"
)

// Handler consumes the compressed requests a worker's stream yields. Implementations
// are typically the downstream index-update dispatcher; tests use a recording fake.
type Handler interface {
	Handle(ctx context.Context, item *stream.Item) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, item *stream.Item) error

func (f HandlerFunc) Handle(ctx context.Context, item *stream.Item) error {
	return f(ctx, item)
}

// TransportFactory builds the per-change-set transport a worker's stream consumes.
type TransportFactory func(changeSetID string) stream.Transport

// Config configures the worker pool.
type Config struct {
	// ChangeSetIDs names the change sets to drive, one worker each.
	ChangeSetIDs []string

	// RetryDelay is how long a worker backs off after a handler failure before
	// pulling the next item.
	RetryDelay time.Duration

	// ReadWindowCeiling caps every stream's read window; zero means uncapped.
	ReadWindowCeiling int
}

// DefaultConfig returns the default pool configuration.
func DefaultConfig() Config {
	return Config{
		RetryDelay: 1 * time.Second,
	}
}

// Pool manages one worker per change set.
type Pool struct {
	workers  []*Worker
	stopChan chan struct{}
	doneChan chan struct{}
	logger   *common.ContextLogger
}

// Worker drives one change set's CompressingStream until the subscription closes or
// the pool stops.
type Worker struct {
	changeSetID string
	stream      *stream.CompressingStream
	handler     Handler
	retryDelay  time.Duration
	stopChan    chan struct{}
	doneChan    chan struct{}
	logger      *common.ContextLogger
	metrics     *metrics.Metrics
}

// NewPool creates a pool with one worker per configured change set. m may be nil to
// skip metrics recording.
func NewPool(transports TransportFactory, handler Handler, m *metrics.Metrics, config Config) *Pool {
	if config.RetryDelay <= 0 {
		config.RetryDelay = DefaultConfig().RetryDelay
	}

	pool := &Pool{
		stopChan: make(chan struct{}),
		doneChan: make(chan struct{}),
		logger:   common.ServiceLogger("edda-compressor", ""),
	}

	for _, changeSetID := range config.ChangeSetIDs {
		cs := stream.New(transports(changeSetID), changeSetID)
		if config.ReadWindowCeiling > 0 {
			cs.SetReadWindowCeiling(config.ReadWindowCeiling)
		}
		pool.workers = append(pool.workers, &Worker{
			changeSetID: changeSetID,
			stream:      cs,
			handler:     handler,
			retryDelay:  config.RetryDelay,
			stopChan:    pool.stopChan,
			doneChan:    make(chan struct{}),
			logger:      pool.logger.WithField("change_set_id", changeSetID),
			metrics:     m,
		})
	}

	return pool
}

// Start launches every worker. It returns immediately; use Wait to block until all
// workers have drained their subscriptions.
func (p *Pool) Start() {
	p.logger.WithField("workers", len(p.workers)).Info("Starting compression worker pool")

	go func() {
		defer close(p.doneChan)
		for _, w := range p.workers {
			go w.run()
		}
		for _, w := range p.workers {
			<-w.doneChan
		}
	}()
}

// Stop signals every worker to exit after its current state transition and blocks
// until all have exited. Safe to call once; a second call panics on the closed
// channel.
func (p *Pool) Stop() {
	p.logger.Info("Stopping compression worker pool")
	close(p.stopChan)
	<-p.doneChan
	p.logger.Info("Compression worker pool stopped")
}

// Wait blocks until every worker has exited on its own (subscription closed).
func (p *Pool) Wait() {
	<-p.doneChan
}

func (w *Worker) run() {
	defer close(w.doneChan)
	w.logger.Info("Worker started")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-w.stopChan
		cancel()
	}()

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Worker stopped")
			return
		default:
		}

		item, err := w.stream.Next(ctx)
		if errors.Is(err, stream.ErrStreamClosed) {
			w.logger.Info("Subscription closed, worker exiting")
			return
		}
		if err != nil {
			// Context cancellation surfaces here on Stop; anything else is a bug in
			// the state machine, which never errors on conditions it can recover from.
			if ctx.Err() != nil {
				w.logger.Info("Worker stopped")
				return
			}
			w.logger.WithError(err).Error("Stream failed")
			return
		}

		w.process(ctx, item)
	}
}

func (w *Worker) process(ctx context.Context, item *stream.Item) {
	if item.Err != nil {
		w.logger.WithError(item.Err).WithFields(map[string]interface{}{
			"mode":      item.Err.Mode.String(),
			"continues": item.Err.Continues,
		}).Warn("Stream yielded a recoverable failure")
		if w.metrics != nil {
			w.metrics.RecordStreamError(w.changeSetID, item.Err.Mode.String(), item.Err.Continues)
		}
		return
	}

	if w.metrics != nil {
		w.metrics.RecordStreamItem(w.changeSetID, string(item.Compressed.Kind))
	}

	err := common.LogOperation(w.logger, "worker.handle_compressed", func() error {
		return w.handler.Handle(ctx, item)
	})
	if err != nil {
		// The stream already deleted the source messages, so the item cannot be
		// replayed from the transport; surface the failure and back off.
		w.logger.WithError(err).Error("Handler failed for compressed request")
		select {
		case <-w.stopChan:
		case <-time.After(w.retryDelay):
		}
	}
}
