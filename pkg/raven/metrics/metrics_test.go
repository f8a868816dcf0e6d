package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(nil)

	m.Sent(120)
	m.Sent(30)
	m.Failed("status")
	m.Failed("status")
	m.Failed("transport")
	m.Dropped(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsSent))
	assert.Equal(t, 150.0, testutil.ToFloat64(m.PayloadBytes))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.EventsFailed.WithLabelValues("status")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EventsFailed.WithLabelValues("transport")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.EventsDropped))
}

func TestMetrics_Register(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Sent(1)
	m.Failed("encode")
	m.Dropped(1)

	families, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"raven_events_sent_total",
		"raven_events_failed_total",
		"raven_events_dropped_total",
		"raven_payload_bytes_total",
	} {
		assert.True(t, names[want], "missing %s", want)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Sent(1)
		m.Failed("x")
		m.Dropped(1)
	})
}
