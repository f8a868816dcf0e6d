package httpsink

import (
	"net/http"
	"os"
	"time"

	"github.com/go-kit/log"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/metrics"
)

// Environment variables consulted when the matching option is not set.
const (
	EnvDSN         = "SENTRY_DSN"
	EnvRelease     = "SENTRY_RELEASE"
	EnvEnvironment = "SENTRY_ENVIRONMENT"
)

// Option configures the HTTP sink.
type Option func(*config)

type config struct {
	dsn           string
	clientName    string
	clientVersion string
	release       string
	environment   string
	compress      bool
	httpClient    *http.Client
	timeout       time.Duration
	logger        log.Logger
	metrics       *metrics.Metrics
	scrubber      *raven.Scrubber
	clock         func() time.Time
}

// WithDSN sets the connection string (defaults to $SENTRY_DSN).
func WithDSN(dsn string) Option {
	return func(c *config) {
		c.dsn = dsn
	}
}

// WithClient sets the client name and version reported to the endpoint.
func WithClient(name, version string) Option {
	return func(c *config) {
		if name != "" {
			c.clientName = name
		}
		if version != "" {
			c.clientVersion = version
		}
	}
}

// WithRelease sets the release for events that carry none (defaults to $SENTRY_RELEASE).
func WithRelease(release string) Option {
	return func(c *config) {
		c.release = release
	}
}

// WithEnvironment sets the environment for events that carry none
// (defaults to $SENTRY_ENVIRONMENT).
func WithEnvironment(env string) Option {
	return func(c *config) {
		c.environment = env
	}
}

// WithCompression sends gzip + base64 encoded bodies instead of raw JSON.
func WithCompression(enabled bool) Option {
	return func(c *config) {
		c.compress = enabled
	}
}

// WithHTTPClient sets the client used for requests (default: http.DefaultClient).
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout bounds each send (default: 10s). Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d >= 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger (default: no-op).
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records delivery counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *config) {
		c.metrics = m
	}
}

// WithScrubber replaces the scrubber applied to the serialized body
// (default: raven.NewScrubber(raven.DefaultScrubberConfig())).
func WithScrubber(s *raven.Scrubber) Option {
	return func(c *config) {
		if s != nil {
			c.scrubber = s
		}
	}
}

// WithClock sets the time source for the auth header timestamp.
func WithClock(clock func() time.Time) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func newConfig(opts []Option) *config {
	cfg := &config{
		clientName:    raven.ClientName,
		clientVersion: raven.ClientVersion,
		httpClient:    http.DefaultClient,
		timeout:       10 * time.Second,
		logger:        log.NewNopLogger(),
		clock:         time.Now,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.dsn == "" {
		cfg.dsn = os.Getenv(EnvDSN)
	}
	if cfg.release == "" {
		cfg.release = os.Getenv(EnvRelease)
	}
	if cfg.environment == "" {
		cfg.environment = os.Getenv(EnvEnvironment)
	}
	if cfg.scrubber == nil {
		cfg.scrubber = raven.NewScrubber(raven.DefaultScrubberConfig())
	}
	return cfg
}
