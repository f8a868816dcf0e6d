// system.go records a process snapshot for an event.

package raven

import (
	"os"
	"runtime"
	"time"
)

// CaptureSystemState reports heap usage, goroutines, uptime and host name.
// Uptime is measured from startTime and is never negative.
func CaptureSystemState(startTime time.Time) *SystemState {
	return snapshotAt(time.Now(), startTime)
}

func snapshotAt(now, startTime time.Time) *SystemState {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	state := &SystemState{
		MemoryBytes:    int64(ms.HeapAlloc),
		GoroutineCount: runtime.NumGoroutine(),
		UptimeMs:       max(now.Sub(startTime).Milliseconds(), 0),
	}
	if host, err := os.Hostname(); err == nil {
		state.HostName = host
	}
	return state
}
