package raven

import (
	"testing"
	"time"
)

func TestCaptureSystemState(t *testing.T) {
	state := CaptureSystemState(time.Now().Add(-2 * time.Second))

	if state.MemoryBytes <= 0 {
		t.Errorf("MemoryBytes = %d, want > 0", state.MemoryBytes)
	}
	if state.GoroutineCount <= 0 {
		t.Errorf("GoroutineCount = %d, want > 0", state.GoroutineCount)
	}
	if state.UptimeMs < 2000 {
		t.Errorf("UptimeMs = %d, want >= 2000", state.UptimeMs)
	}
}

func TestCaptureSystemState_FutureStart(t *testing.T) {
	state := CaptureSystemState(time.Now().Add(time.Hour))
	if state.UptimeMs != 0 {
		t.Errorf("UptimeMs = %d, want 0", state.UptimeMs)
	}
}

func TestSnapshotAt_Uptime(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := snapshotAt(start.Add(1500*time.Millisecond), start).UptimeMs; got != 1500 {
		t.Errorf("UptimeMs = %d, want 1500", got)
	}
	if got := snapshotAt(start.Add(-time.Minute), start).UptimeMs; got != 0 {
		t.Errorf("UptimeMs = %d, want 0 for a start in the future", got)
	}
}
