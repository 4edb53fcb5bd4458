package pool

import "errors"

var (
	// ErrInvalidPoolSize is returned by New when the requested worker
	// count is less than one. A pool with no workers could accept jobs
	// it can never run, so this is treated as a programming error.
	ErrInvalidPoolSize = errors.New("pool: size must be at least 1")

	// ErrPoolClosed is returned by Submit once shutdown has begun.
	ErrPoolClosed = errors.New("pool: pool is closed")

	// ErrQueueClosed is returned when a job is pushed onto a queue
	// whose receiving side has been closed.
	ErrQueueClosed = errors.New("queue: queue is closed")

	// ErrNilJob is returned when a submitted Job is nil.
	ErrNilJob = errors.New("pool: job is nil")
)

// PanicHandler is called after a job panic has been recovered.
//
// workerID is the ordinal index of the worker that ran the job and v
// is the recovered value. The handler runs on the terminating worker's
// goroutine and must not block for long. If no handler is registered,
// the panic is only logged.
type PanicHandler func(workerID int, v any)
