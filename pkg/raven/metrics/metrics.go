// Package metrics provides Prometheus counters for event delivery.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the delivery counters shared by the sinks.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// EventsSent counts events accepted by the remote endpoint.
	EventsSent prometheus.Counter
	// EventsFailed counts events whose delivery failed, by reason.
	EventsFailed *prometheus.CounterVec
	// EventsDropped counts events dropped by a full async queue.
	EventsDropped prometheus.Counter
	// PayloadBytes counts request body bytes sent.
	PayloadBytes prometheus.Counter
}

// New creates the counters and registers them with reg. A nil reg leaves
// them unregistered, which is convenient in tests.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		EventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raven_events_sent_total",
			Help: "The number of events accepted by the collection endpoint",
		}),
		EventsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raven_events_failed_total",
			Help: "The number of events that could not be delivered",
		}, []string{"reason"}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raven_events_dropped_total",
			Help: "The number of events dropped because the async queue was full",
		}),
		PayloadBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raven_payload_bytes_total",
			Help: "The number of request body bytes sent to the collection endpoint",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.EventsSent, m.EventsFailed, m.EventsDropped, m.PayloadBytes)
	}
	return m
}

// Sent records a delivered event of n body bytes.
func (m *Metrics) Sent(n int) {
	if m == nil {
		return
	}
	m.EventsSent.Inc()
	m.PayloadBytes.Add(float64(n))
}

// Failed records a failed delivery.
func (m *Metrics) Failed(reason string) {
	if m == nil {
		return
	}
	m.EventsFailed.WithLabelValues(reason).Inc()
}

// Dropped records n dropped events.
func (m *Metrics) Dropped(n int) {
	if m == nil {
		return
	}
	m.EventsDropped.Add(float64(n))
}
