// event.go defines the structured error event produced from a Go error or panic.

package raven

import "time"

// Level is the severity of an event, using the collector's level names.
type Level string

const (
	LevelFatal   Level = "fatal"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
	LevelDebug   Level = "debug"
)

// SystemState captures process metrics at the time of an error.
type SystemState struct {
	// MemoryBytes is the current heap allocation in bytes.
	MemoryBytes int64

	// GoroutineCount is the number of active goroutines.
	GoroutineCount int

	// UptimeMs is the process uptime in milliseconds.
	UptimeMs int64

	// HostName is the hostname of the machine where the error occurred.
	HostName string
}

// ErrorEvent is the canonical error representation.
// The collector fills identity fields and scrubs content before passing it to sinks.
type ErrorEvent struct {
	// Identity fields

	// EventID is a unique identifier for this event (UUID).
	EventID string

	// Timestamp is when the error occurred.
	Timestamp time.Time

	// Fingerprint groups similar errors.
	Fingerprint string

	// Error details

	// Level is the event severity.
	Level Level

	// ErrorType is the error's type name, e.g. "*fs.PathError" or "panic".
	ErrorType string

	// Message is the human-readable error message.
	Message string

	// StackTrace is the optional scrubbed stack trace.
	StackTrace string

	// Culprit names the function or route responsible, if known.
	Culprit string

	// Logger names the component that reported the event.
	Logger string

	// Environment

	// Release is the application version.
	Release string

	// Environment is the deployment environment (production, staging, ...).
	Environment string

	// ServerName identifies the host.
	ServerName string

	// SystemState captures process metrics at error time.
	SystemState *SystemState

	// Tags are indexed key-value pairs, scrubbed.
	Tags map[string]string

	// Metadata contains scrubbed key-value pairs for additional context.
	Metadata map[string]string
}
