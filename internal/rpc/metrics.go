package rpc

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics records per-procedure call counts and latency.
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers the RPC collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		calls: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "infinityx",
			Subsystem: "rpc",
			Name:      "calls_total",
			Help:      "Procedure calls by path and result code.",
		}, []string{"path", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "infinityx",
			Subsystem: "rpc",
			Name:      "call_duration_seconds",
			Help:      "Procedure latency by path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

func (m *Metrics) observe(path, code string, d time.Duration) {
	m.calls.WithLabelValues(path, code).Inc()
	m.duration.WithLabelValues(path).Observe(d.Seconds())
}
