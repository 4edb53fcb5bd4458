package pool

import (
	"context"
	"sync"
	"sync/atomic"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Pool owns a fixed set of workers and the submission side of the job
// queue. The worker count never changes after construction.
type Pool struct {
	queue   *jobQueue
	workers []*worker
	opts    options

	live   atomic.Int32 // workers whose loop is still running
	active atomic.Int32 // jobs currently executing

	closed   chan struct{} // signals no more submissions
	stopOnce sync.Once
}

// New constructs a pool with exactly size workers, all spawned before
// New returns. It fails with ErrInvalidPoolSize if size < 1.
func New(size int, opts ...Option) (*Pool, error) {
	if size < 1 {
		return nil, ErrInvalidPoolSize
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool{
		queue:  newJobQueue(o.queueCapacity),
		opts:   o,
		closed: make(chan struct{}),
	}
	p.workers = make([]*worker, size)
	for i := range p.workers {
		w := &worker{id: i, pool: p, done: make(chan struct{})}
		p.workers[i] = w
		p.live.Add(1)
		go w.run()
	}

	lg.FromContext(o.baseCtx).Info("pool started", lg.Int("workers", size))
	return p, nil
}

// Submit enqueues a job for execution by some worker. It returns as
// soon as the job is on the queue and never waits for execution; the
// job's outcome is not reported back.
//
// Once shutdown has begun, Submit fails with ErrPoolClosed and the job
// is not enqueued. Submit is safe for concurrent use.
func (p *Pool) Submit(j Job) error {
	if j == nil {
		return ErrNilJob
	}
	select {
	case <-p.closed:
		return ErrPoolClosed
	default:
	}
	if err := p.queue.push(j); err != nil {
		// Shutdown won the race between the check above and the push.
		return ErrPoolClosed
	}
	p.opts.metrics.IncQueued()
	return nil
}

// SubmitFunc enqueues a plain function as a job.
func (p *Pool) SubmitFunc(f func()) error {
	if f == nil {
		return ErrNilJob
	}
	return p.Submit(JobFunc(f))
}

// Shutdown closes the queue and joins the workers in index order.
//
// Jobs already enqueued are drained and executed before the workers
// exit; by the time Shutdown returns nil, no job is in flight. If ctx
// expires first, Shutdown returns ctx.Err() with workers still
// draining in the background. Subsequent calls wait again, so a timed
// Shutdown can be retried.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.closed) // reject new jobs
		p.queue.close() // let workers drain and observe end-of-stream
	})

	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	lg.FromContext(p.opts.baseCtx).Info("pool stopped",
		lg.Int("workers", len(p.workers)))
	return nil
}

// Close shuts the pool down, waiting however long the drain takes.
func (p *Pool) Close() { _ = p.Shutdown(context.Background()) }

// WorkerCount returns the fixed number of workers the pool was
// constructed with.
func (p *Pool) WorkerCount() int { return len(p.workers) }

// LiveWorkers returns the number of workers whose loop is still
// running. It drops below WorkerCount only after a job panic or during
// shutdown.
func (p *Pool) LiveWorkers() int32 { return p.live.Load() }

// ActiveJobs returns the number of jobs currently executing.
func (p *Pool) ActiveJobs() int32 { return p.active.Load() }

// QueueLength returns the number of jobs waiting in the queue.
func (p *Pool) QueueLength() int { return p.queue.len() }
