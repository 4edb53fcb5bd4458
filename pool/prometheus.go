package pool

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusMetrics is a MetricsPolicy implementation backed by
// Prometheus collectors, for pools that should show up on an existing
// scrape endpoint.
type PrometheusMetrics struct {
	queued   prometheus.Gauge
	executed prometheus.Counter
	panicked prometheus.Counter
}

// NewPrometheusMetrics registers the pool collectors with reg under
// the given namespace and returns the policy. It panics if a collector
// with the same name is already registered.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) *PrometheusMetrics {
	factory := promauto.With(reg)
	return &PrometheusMetrics{
		queued: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "queued_jobs",
			Help:      "Number of jobs currently waiting in the queue.",
		}),
		executed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "executed_jobs_total",
			Help:      "Total number of jobs run to completion.",
		}),
		panicked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pool",
			Name:      "panicked_jobs_total",
			Help:      "Total number of jobs that panicked.",
		}),
	}
}

func (m *PrometheusMetrics) IncQueued()   { m.queued.Inc() }
func (m *PrometheusMetrics) DecQueued()   { m.queued.Dec() }
func (m *PrometheusMetrics) IncExecuted() { m.executed.Inc() }
func (m *PrometheusMetrics) IncPanicked() { m.panicked.Inc() }
