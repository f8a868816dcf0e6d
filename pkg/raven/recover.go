// recover.go turns Go errors and recovered panics into events.

package raven

import (
	"context"
	"fmt"
	"runtime/debug"
)

// CaptureError records err as an event at LevelError and returns the
// collector's error. A nil err records nothing.
//
//	if err := db.Ping(ctx); err != nil {
//	    _ = raven.CaptureError(ctx, collector, err)
//	}
func CaptureError(ctx context.Context, collector Collector, err error) error {
	if err == nil {
		return nil
	}
	return collector.Record(ctx, EventFromError(err, LevelError))
}

// EventFromError builds an event from err with the current stack.
func EventFromError(err error, level Level) ErrorEvent {
	return ErrorEvent{
		Level:      level,
		ErrorType:  fmt.Sprintf("%T", err),
		Message:    err.Error(),
		StackTrace: string(debug.Stack()),
	}
}

// Recover captures a panic, records it at LevelFatal and returns the
// recovered value. Recover does not re-panic.
//
// Use in defer:
//
//	func handler(ctx context.Context) {
//	    defer raven.Recover(ctx, collector)
//	    // code that might panic
//	}
func Recover(ctx context.Context, collector Collector) any {
	r := recover()
	if r == nil {
		return nil
	}

	event := ErrorEvent{
		Level:      LevelFatal,
		ErrorType:  "panic",
		Message:    formatRecovered(r),
		StackTrace: string(debug.Stack()),
	}
	if err, ok := r.(error); ok {
		event.ErrorType = fmt.Sprintf("panic(%T)", err)
	}

	// Recording failures must not affect the caller.
	_ = collector.Record(ctx, event)

	return r
}

// formatRecovered formats a recovered panic value as a string.
func formatRecovered(recovered any) string {
	if err, ok := recovered.(error); ok {
		return err.Error()
	}
	return fmt.Sprintf("%v", recovered)
}
