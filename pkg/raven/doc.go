// Package raven turns Go errors and panics into structured events, redacts
// PII from them and ships them to a Sentry-protocol collection endpoint
// identified by a DSN.
//
// # Core Components
//
//   - Dsn: parsed connection string (ParseDsn)
//   - Filter / Scrubber: lexical redaction of card numbers, phone numbers and SSNs
//   - BuildAuthHeader: the X-Sentry-Auth value for one request
//   - CompressEncode: optional gzip + base64 body encoding
//   - Collector / Sink: event recording pipeline (see sinks/httpsink for delivery)
//
// # Quick Start
//
//	sink, err := httpsink.New(httpsink.WithDSN(os.Getenv("SENTRY_DSN")))
//	if err != nil {
//	    return err // *raven.InvalidDsnError
//	}
//	collector := raven.NewCollector(
//	    raven.WithSink(sink),
//	    raven.WithDefaultScrubbing(),
//	)
//	defer collector.Close()
//	defer raven.Recover(ctx, collector)
//
// Everything in this package except the Collector is a pure function or an
// immutable value and may be shared freely between goroutines.
package raven
