// collector.go provides the central Collector interface and default implementation.

package raven

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Collector records error events to a configured sink.
type Collector interface {
	// Record captures an error event. Blocks until the sink accepts it.
	// Applies defaults, scrubbing and fingerprinting before delegating to the sink.
	Record(ctx context.Context, event ErrorEvent) error

	// Flush ensures any buffered events are delivered.
	Flush(ctx context.Context) error

	// Close releases resources held by the collector.
	Close() error
}

// CollectorOption configures a Collector.
type CollectorOption func(*collectorConfig)

type collectorConfig struct {
	sink        Sink
	scrubber    *Scrubber
	release     string
	environment string
	serverName  string
	startTime   time.Time
	systemState bool
}

// WithSink sets the sink for the collector.
func WithSink(sink Sink) CollectorOption {
	return func(c *collectorConfig) {
		c.sink = sink
	}
}

// WithScrubber configures the collector with a custom scrubber.
func WithScrubber(s *Scrubber) CollectorOption {
	return func(c *collectorConfig) {
		c.scrubber = s
	}
}

// WithDefaultScrubbing enables scrubbing with the default filter chain and config.
func WithDefaultScrubbing() CollectorOption {
	return func(c *collectorConfig) {
		c.scrubber = NewScrubber(DefaultScrubberConfig())
	}
}

// WithRelease sets the release recorded on events that carry none.
func WithRelease(release string) CollectorOption {
	return func(c *collectorConfig) {
		c.release = release
	}
}

// WithEnvironment sets the environment recorded on events that carry none.
func WithEnvironment(env string) CollectorOption {
	return func(c *collectorConfig) {
		c.environment = env
	}
}

// WithServerName sets the server name recorded on events that carry none.
func WithServerName(name string) CollectorOption {
	return func(c *collectorConfig) {
		c.serverName = name
	}
}

// WithSystemState attaches a SystemState snapshot to every event that has
// none. startTime is the process start used for uptime.
func WithSystemState(startTime time.Time) CollectorOption {
	return func(c *collectorConfig) {
		c.systemState = true
		c.startTime = startTime
	}
}

// defaultCollector is the standard Collector implementation.
type defaultCollector struct {
	cfg collectorConfig
}

// NewCollector creates a new Collector with the given options.
func NewCollector(opts ...CollectorOption) Collector {
	cfg := collectorConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.sink == nil {
		cfg.sink = discardSink{}
	}

	return &defaultCollector{cfg: cfg}
}

// Record fills defaults, scrubs, fingerprints and writes the event.
func (c *defaultCollector) Record(ctx context.Context, event ErrorEvent) error {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Level == "" {
		event.Level = LevelError
	}
	if event.Release == "" {
		event.Release = c.cfg.release
	}
	if event.Environment == "" {
		event.Environment = c.cfg.environment
	}
	if event.ServerName == "" {
		event.ServerName = c.cfg.serverName
	}
	if event.SystemState == nil && c.cfg.systemState {
		event.SystemState = CaptureSystemState(c.cfg.startTime)
	}

	if ctxTags, ok := TagsFromContext(ctx); ok {
		for k, v := range event.Tags {
			ctxTags[k] = v
		}
		event.Tags = ctxTags
	}

	if s := c.cfg.scrubber; s != nil {
		event.Message = s.ScrubMessage(event.Message)
		event.StackTrace = s.ScrubStackTrace(event.StackTrace)
		event.Tags = s.ScrubTags(event.Tags)
		event.Metadata = s.ScrubMetadata(event.Metadata)
	}

	if event.Fingerprint == "" {
		event.Fingerprint = Fingerprint(event)
	}

	return c.cfg.sink.Write(ctx, event)
}

// Flush delegates to the sink.
func (c *defaultCollector) Flush(ctx context.Context) error {
	return c.cfg.sink.Flush(ctx)
}

// Close delegates to the sink.
func (c *defaultCollector) Close() error {
	return c.cfg.sink.Close()
}

// discardSink drops events when no sink is configured.
type discardSink struct{}

func (discardSink) Write(ctx context.Context, event ErrorEvent) error { return nil }
func (discardSink) Flush(ctx context.Context) error                  { return nil }
func (discardSink) Close() error                                     { return nil }
