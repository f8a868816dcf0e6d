// sink.go defines the Sink interface for event destinations.

package raven

import "context"

// Sink is the destination for error events.
// Implementations must be safe for concurrent use.
type Sink interface {
	// Write delivers an event. Called after scrubbing and fingerprinting.
	Write(ctx context.Context, event ErrorEvent) error

	// Flush ensures any buffered events are delivered.
	// For synchronous sinks, this may be a no-op.
	Flush(ctx context.Context) error

	// Close releases resources held by the sink.
	Close() error
}
