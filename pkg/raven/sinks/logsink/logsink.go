// Package logsink provides a sink that writes events as structured log
// lines. Useful in development and as a local copy next to the HTTP sink.
package logsink

import (
	"context"
	"strings"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// Option configures the log sink.
type Option func(*config)

type config struct {
	verbose bool
}

// WithVerbose includes the stack trace, tags and metadata in each line.
func WithVerbose() Option {
	return func(c *config) {
		c.verbose = true
	}
}

type logSink struct {
	logger  log.Logger
	verbose bool
}

// New creates a sink that logs every event through logger.
func New(logger log.Logger, opts ...Option) raven.Sink {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &logSink{logger: logger, verbose: cfg.verbose}
}

// Write logs the event at the level matching its severity.
func (s *logSink) Write(ctx context.Context, event raven.ErrorEvent) error {
	kv := []any{
		"msg", event.Message,
		"event_id", event.EventID,
		"event_ts", event.Timestamp.Format(time.RFC3339),
		"error_type", event.ErrorType,
		"fingerprint", event.Fingerprint,
	}
	if event.Culprit != "" {
		kv = append(kv, "culprit", event.Culprit)
	}
	if event.Release != "" {
		kv = append(kv, "release", event.Release)
	}
	if event.Environment != "" {
		kv = append(kv, "environment", event.Environment)
	}

	if s.verbose {
		for k, v := range event.Tags {
			kv = append(kv, "tag."+k, v)
		}
		for k, v := range event.Metadata {
			kv = append(kv, "meta."+k, v)
		}
		if event.StackTrace != "" {
			kv = append(kv, "stack", strings.TrimSpace(event.StackTrace))
		}
	}

	return leveled(s.logger, event.Level).Log(kv...)
}

func leveled(logger log.Logger, l raven.Level) log.Logger {
	switch l {
	case raven.LevelDebug:
		return level.Debug(logger)
	case raven.LevelInfo:
		return level.Info(logger)
	case raven.LevelWarning:
		return level.Warn(logger)
	default:
		return level.Error(logger)
	}
}

// Flush is a no-op for the log sink.
func (s *logSink) Flush(ctx context.Context) error {
	return nil
}

// Close is a no-op for the log sink.
func (s *logSink) Close() error {
	return nil
}
