// Package httpsink delivers events to a Sentry-protocol store endpoint.
//
// For each event the sink serializes a sentry-go Event, scrubs the whole
// body, optionally gzip + base64 encodes it and POSTs it to the DSN's store
// URI with a freshly built X-Sentry-Auth header. There is no retry: a failed
// send returns an error and the sink stays usable for the next event.
package httpsink

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	json "github.com/goccy/go-json"

	"github.com/strongdm/raven-observe/pkg/raven"
	"github.com/strongdm/raven-observe/pkg/raven/metrics"
)

const (
	contentTypeJSON       = "application/json"
	contentTypeCompressed = "application/octet-stream"

	// maxResponseBody bounds how much of a response is read.
	maxResponseBody = 64 << 10
)

// StatusError is returned when the endpoint answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	// Reason is the X-Sentry-Error header, if present.
	Reason string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("httpsink: unexpected status %d: %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("httpsink: unexpected status %d", e.StatusCode)
}

// httpSink posts events to the store endpoint.
type httpSink struct {
	dsn           *raven.Dsn
	clientName    string
	clientVersion string
	release       string
	environment   string
	compress      bool
	client        *http.Client
	timeout       time.Duration
	logger        log.Logger
	metrics       *metrics.Metrics
	scrubber      *raven.Scrubber
	clock         func() time.Time
}

// New creates an HTTP sink. The DSN is parsed here; an invalid DSN is
// returned as *raven.InvalidDsnError and no sink is created.
func New(opts ...Option) (raven.Sink, error) {
	cfg := newConfig(opts)

	dsn, err := raven.ParseDsn(cfg.dsn)
	if err != nil {
		return nil, err
	}

	logger := log.With(cfg.logger, "component", "httpsink", "project", dsn.ProjectID)
	level.Debug(logger).Log("msg", "sink configured", "dsn", dsn.String(), "compress", cfg.compress)

	return &httpSink{
		dsn:           dsn,
		clientName:    cfg.clientName,
		clientVersion: cfg.clientVersion,
		release:       cfg.release,
		environment:   cfg.environment,
		compress:      cfg.compress,
		client:        cfg.httpClient,
		timeout:       cfg.timeout,
		logger:        logger,
		metrics:       cfg.metrics,
		scrubber:      cfg.scrubber,
		clock:         cfg.clock,
	}, nil
}

// Write sends one event. Errors abort only this send.
func (s *httpSink) Write(ctx context.Context, event raven.ErrorEvent) error {
	body, contentType, err := s.encode(event)
	if err != nil {
		s.metrics.Failed("encode")
		level.Error(s.logger).Log("msg", "error encoding event", "event_id", event.EventID, "err", err)
		return err
	}

	auth, err := raven.BuildAuthHeader(s.dsn, s.clientName, s.clientVersion, s.clock())
	if err != nil {
		s.metrics.Failed("auth")
		return err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.dsn.URI, bytes.NewReader(body))
	if err != nil {
		s.metrics.Failed("request")
		return fmt.Errorf("httpsink: build request: %w", err)
	}
	req.Header.Set(raven.AuthHeaderName, auth)
	req.Header.Set("User-Agent", s.clientName+"/"+s.clientVersion)
	req.Header.Set("Content-Type", contentType)

	res, err := s.client.Do(req)
	if err != nil {
		s.metrics.Failed("transport")
		level.Warn(s.logger).Log("msg", "error sending event", "event_id", event.EventID, "err", err)
		return fmt.Errorf("httpsink: send event %s: %w", event.EventID, err)
	}
	defer res.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, maxResponseBody))

	if res.StatusCode < 200 || res.StatusCode > 299 {
		s.metrics.Failed("status")
		statusErr := &StatusError{StatusCode: res.StatusCode, Reason: res.Header.Get("X-Sentry-Error")}
		level.Warn(s.logger).Log("msg", "event rejected", "event_id", event.EventID, "status", res.StatusCode, "reason", statusErr.Reason)
		return statusErr
	}

	s.metrics.Sent(len(body))
	level.Debug(s.logger).Log("msg", "event sent", "event_id", event.EventID, "status", res.StatusCode, "bytes", len(body))
	return nil
}

// encode serializes, scrubs and optionally compresses the event.
func (s *httpSink) encode(event raven.ErrorEvent) ([]byte, string, error) {
	payload, err := json.Marshal(s.toSentryEvent(event))
	if err != nil {
		return nil, "", fmt.Errorf("httpsink: marshal event: %w", err)
	}

	text := s.scrubber.Scrub(string(payload))
	if !s.compress {
		return []byte(text), contentTypeJSON, nil
	}

	encoded, err := raven.CompressEncode(text)
	if err != nil {
		return nil, "", err
	}
	return []byte(encoded), contentTypeCompressed, nil
}

// toSentryEvent maps the event onto the wire model. Free-text fields are
// scrubbed here as well as in encode: JSON escapes such as \n put a word
// character in front of the digits that follow, which hides them from the
// word-boundary patterns on the serialized body.
func (s *httpSink) toSentryEvent(event raven.ErrorEvent) *sentry.Event {
	clean := s.scrubber.Scrub
	ev := sentry.NewEvent()
	ev.EventID = sentry.EventID(strings.ReplaceAll(event.EventID, "-", ""))
	ev.Timestamp = event.Timestamp
	ev.Level = sentry.Level(event.Level)
	ev.Platform = "go"
	ev.Logger = event.Logger
	ev.Message = clean(event.Message)
	ev.Transaction = event.Culprit
	ev.ServerName = event.ServerName
	ev.Sdk = sentry.SdkInfo{Name: s.clientName, Version: s.clientVersion}

	ev.Release = event.Release
	if ev.Release == "" {
		ev.Release = s.release
	}
	ev.Environment = event.Environment
	if ev.Environment == "" {
		ev.Environment = s.environment
	}

	if event.Fingerprint != "" {
		ev.Fingerprint = []string{event.Fingerprint}
	}
	if event.ErrorType != "" || event.Message != "" {
		ev.Exception = []sentry.Exception{{
			Type:  event.ErrorType,
			Value: ev.Message,
		}}
	}

	for k, v := range event.Tags {
		ev.Tags[k] = clean(v)
	}
	for k, v := range event.Metadata {
		ev.Extra[k] = clean(v)
	}
	if event.StackTrace != "" {
		ev.Extra["stack_trace"] = clean(event.StackTrace)
	}
	if st := event.SystemState; st != nil {
		// Numbers are sent as strings so lexical redaction always leaves valid JSON.
		ev.Contexts["runtime_state"] = sentry.Context{
			"memory_bytes":    strconv.FormatInt(st.MemoryBytes, 10),
			"goroutine_count": strconv.Itoa(st.GoroutineCount),
			"uptime_ms":       strconv.FormatInt(st.UptimeMs, 10),
			"host_name":       st.HostName,
		}
	}
	return ev
}

// Flush is a no-op: writes are synchronous.
func (s *httpSink) Flush(ctx context.Context) error {
	return nil
}

// Close releases idle connections.
func (s *httpSink) Close() error {
	s.client.CloseIdleConnections()
	return nil
}
