package pool

import (
	"sync/atomic"
)

// MetricsPolicy defines hooks used by the pool to report queueing and
// execution activity.
//
// Implementations must be safe for concurrent use. All methods are
// expected to be lightweight and non-blocking.
type MetricsPolicy interface {

	// IncQueued increments the queued jobs counter.
	IncQueued()

	// DecQueued decrements the queued counter when a worker takes a
	// job off the queue.
	DecQueued()

	// IncExecuted increments the executed jobs counter.
	IncExecuted()

	// IncPanicked increments the counter of jobs that panicked.
	IncPanicked()
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	// executed is the total number of jobs run to completion.
	executed atomic.Uint64

	_ [56]byte // padding to avoid false sharing

	// queued is the current number of jobs enqueued.
	queued atomic.Int64

	_ [56]byte

	// panicked is the total number of jobs that panicked.
	panicked atomic.Uint64
}

// Executed returns the total number of executed jobs.
func (m *AtomicMetrics) Executed() uint64 {
	return m.executed.Load()
}

// Queued returns the current number of queued jobs.
func (m *AtomicMetrics) Queued() int64 {
	return m.queued.Load()
}

// Panicked returns the total number of jobs that panicked.
func (m *AtomicMetrics) Panicked() uint64 {
	return m.panicked.Load()
}

func (m *AtomicMetrics) IncQueued()   { m.queued.Add(1) }
func (m *AtomicMetrics) DecQueued()   { m.queued.Add(-1) }
func (m *AtomicMetrics) IncExecuted() { m.executed.Add(1) }
func (m *AtomicMetrics) IncPanicked() { m.panicked.Add(1) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards all
// metric updates. It is the default when no policy is configured.
type NoopMetrics struct{}

func (m *NoopMetrics) IncQueued()   {}
func (m *NoopMetrics) DecQueued()   {}
func (m *NoopMetrics) IncExecuted() {}
func (m *NoopMetrics) IncPanicked() {}
