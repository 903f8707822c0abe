package persist

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Flush triggers.
const (
	TriggerImmediate = "immediate"
	TriggerTimer     = "timer"
	TriggerManual    = "manual"
	TriggerClose     = "close"
)

// Metrics counts persistence activity. A nil *Metrics records nothing.
type Metrics struct {
	flushes       *prometheus.CounterVec
	parseFailures *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
}

// NewMetrics registers the persistence collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		flushes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "require_persist_flush_total",
			Help: "Physical writes by key and trigger",
		}, []string{"key", "trigger"}),
		parseFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "require_persist_parse_failures_total",
			Help: "Stored values that could not be decoded",
		}, []string{"key"}),
		writeFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "require_persist_write_failures_total",
			Help: "Failed writes by key",
		}, []string{"key"}),
	}
}

func (m *Metrics) flushed(key, trigger string) {
	if m != nil {
		m.flushes.WithLabelValues(key, trigger).Inc()
	}
}

func (m *Metrics) parseFailed(key string) {
	if m != nil {
		m.parseFailures.WithLabelValues(key).Inc()
	}
}

func (m *Metrics) writeFailed(key string) {
	if m != nil {
		m.writeFailures.WithLabelValues(key).Inc()
	}
}
