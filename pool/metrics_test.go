package pool

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestAtomicMetricsCounters(t *testing.T) {
	m := &AtomicMetrics{}

	m.IncQueued()
	m.IncQueued()
	m.DecQueued()
	m.IncExecuted()
	m.IncPanicked()

	if got := m.Queued(); got != 1 {
		t.Fatalf("Queued = %d; want 1", got)
	}
	if got := m.Executed(); got != 1 {
		t.Fatalf("Executed = %d; want 1", got)
	}
	if got := m.Panicked(); got != 1 {
		t.Fatalf("Panicked = %d; want 1", got)
	}
}

func TestPrometheusMetricsCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg, "test")

	m.IncQueued()
	m.IncQueued()
	m.DecQueued()
	m.IncExecuted()
	m.IncPanicked()

	if got := testutil.ToFloat64(m.queued); got != 1 {
		t.Fatalf("queued gauge = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.executed); got != 1 {
		t.Fatalf("executed counter = %v; want 1", got)
	}
	if got := testutil.ToFloat64(m.panicked); got != 1 {
		t.Fatalf("panicked counter = %v; want 1", got)
	}
}
