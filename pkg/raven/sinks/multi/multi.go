// Package multi provides a sink that fans out to multiple sinks.
// All sinks receive all events; errors are aggregated.
package multi

import (
	"context"
	"errors"
	"fmt"

	"github.com/strongdm/raven-observe/pkg/raven"
)

// Named pairs a sink with a label used in aggregated errors.
type Named struct {
	Name string
	Sink raven.Sink
}

type multiSink struct {
	sinks []Named
}

// New creates a sink that writes to every given sink. Sinks are labelled
// by position in errors.
func New(sinks ...raven.Sink) raven.Sink {
	named := make([]Named, len(sinks))
	for i, s := range sinks {
		named[i] = Named{Name: fmt.Sprintf("sink[%d]", i), Sink: s}
	}
	return &multiSink{sinks: named}
}

// NewNamed creates a fan-out sink whose errors carry the given names.
func NewNamed(sinks ...Named) raven.Sink {
	return &multiSink{sinks: append([]Named(nil), sinks...)}
}

// Write sends the event to every sink, even if some fail.
func (m *multiSink) Write(ctx context.Context, event raven.ErrorEvent) error {
	return m.each(func(s raven.Sink) error { return s.Write(ctx, event) })
}

// Flush flushes every sink.
func (m *multiSink) Flush(ctx context.Context) error {
	return m.each(func(s raven.Sink) error { return s.Flush(ctx) })
}

// Close closes every sink.
func (m *multiSink) Close() error {
	return m.each(func(s raven.Sink) error { return s.Close() })
}

func (m *multiSink) each(fn func(raven.Sink) error) error {
	var errs []error
	for _, n := range m.sinks {
		if err := fn(n.Sink); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", n.Name, err))
		}
	}
	return errors.Join(errs...)
}
