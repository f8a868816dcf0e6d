// Package async provides a sink wrapper with a bounded queue so that
// recording an event never waits on the network.
// When the queue is full the oldest queued event is dropped.
package async

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/metrics"
)

// ErrClosed is returned by Write after Close.
var ErrClosed = errors.New("async sink is closed")

// Option configures the async sink.
type Option func(*config)

type config struct {
	queueSize    int
	writeTimeout time.Duration
	logger       log.Logger
	metrics      *metrics.Metrics
	onDropped    func(count int)
}

// WithQueueSize sets the maximum number of queued events (default: 100).
func WithQueueSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithWriteTimeout bounds each write to the inner sink (default: 30s).
func WithWriteTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.writeTimeout = d
		}
	}
}

// WithLogger sets the logger used to report inner sink failures.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics counts dropped events.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithOnDropped sets a callback invoked when events are dropped due to queue overflow.
func WithOnDropped(fn func(count int)) Option {
	return func(c *config) {
		c.onDropped = fn
	}
}

type asyncSink struct {
	inner        raven.Sink
	queue        chan raven.ErrorEvent
	done         chan struct{}
	pending      atomic.Int64 // queued or in-flight events
	loop         sync.WaitGroup
	closeOnce    sync.Once
	closeMu      sync.RWMutex
	closed       bool
	closeErr     error
	writeTimeout time.Duration
	logger       log.Logger
	metrics      *metrics.Metrics
	onDropped    func(count int)
}

// New wraps inner with a bounded queue drained by one background goroutine.
func New(inner raven.Sink, opts ...Option) raven.Sink {
	cfg := &config{
		queueSize:    100,
		writeTimeout: 30 * time.Second,
		logger:       log.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	s := &asyncSink{
		inner:        inner,
		queue:        make(chan raven.ErrorEvent, cfg.queueSize),
		done:         make(chan struct{}),
		writeTimeout: cfg.writeTimeout,
		logger:       log.With(cfg.logger, "component", "async"),
		metrics:      cfg.metrics,
		onDropped:    cfg.onDropped,
	}

	s.loop.Add(1)
	go s.processLoop()

	return s
}

func (s *asyncSink) processLoop() {
	defer s.loop.Done()
	for {
		select {
		case event := <-s.queue:
			s.deliver(event)
		case <-s.done:
			for {
				select {
				case event := <-s.queue:
					s.deliver(event)
				default:
					return
				}
			}
		}
	}
}

func (s *asyncSink) deliver(event raven.ErrorEvent) {
	defer s.pending.Add(-1)

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	if err := s.inner.Write(ctx, event); err != nil {
		level.Warn(s.logger).Log("msg", "error delivering event", "event_id", event.EventID, "err", err)
	}
}

// Write enqueues an event and returns immediately.
func (s *asyncSink) Write(ctx context.Context, event raven.ErrorEvent) error {
	s.closeMu.RLock()
	defer s.closeMu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	s.pending.Add(1)
	select {
	case s.queue <- event:
		return nil
	default:
	}

	// Queue full: drop the oldest, then retry once.
	select {
	case <-s.queue:
		s.pending.Add(-1)
		s.dropped(1)
	default:
	}
	select {
	case s.queue <- event:
	default:
		s.pending.Add(-1)
		s.dropped(1)
	}
	return nil
}

func (s *asyncSink) dropped(n int) {
	s.metrics.Dropped(n)
	level.Warn(s.logger).Log("msg", "queue full, event dropped", "count", n)
	if s.onDropped != nil {
		s.onDropped(n)
	}
}

// Flush blocks until every queued event has been handed to the inner sink,
// then flushes the inner sink.
func (s *asyncSink) Flush(ctx context.Context) error {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	for s.pending.Load() > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return s.inner.Flush(ctx)
}

// Close drains the queue, stops the background goroutine and closes the inner sink.
func (s *asyncSink) Close() error {
	s.closeOnce.Do(func() {
		s.closeMu.Lock()
		s.closed = true
		s.closeMu.Unlock()

		close(s.done)
		s.loop.Wait()
		s.closeErr = s.inner.Close()
	})

	return s.closeErr
}
