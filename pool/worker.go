package pool

import (
	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is a long-lived goroutine that repeatedly takes one job from
// the queue and runs it to completion. The id is used only for
// diagnostics.
type worker struct {
	id   int
	pool *Pool
	done chan struct{} // closed when the loop has exited
}

func (w *worker) run() {
	defer close(w.done)
	defer w.pool.live.Add(-1)

	for {
		job, ok := w.pool.queue.pop()
		if !ok {
			// queue closed and drained
			return
		}
		w.pool.opts.metrics.DecQueued()
		if !w.invoke(job) {
			// The job panicked. This worker is done; the pool keeps
			// serving with the remaining workers and no replacement
			// is spawned.
			return
		}
	}
}

// invoke runs a single job, containing any panic to this worker.
// It reports false when the job panicked.
func (w *worker) invoke(job Job) (ok bool) {
	p := w.pool
	p.active.Add(1)
	defer p.active.Add(-1)
	defer func() {
		if r := recover(); r != nil {
			p.opts.metrics.IncPanicked()
			lg.FromContext(p.opts.baseCtx).Error("job panicked; worker exiting",
				lg.Int("worker", w.id),
				lg.Any("panic", r),
			)
			if p.opts.onPanic != nil {
				p.opts.onPanic(w.id, r)
			}
			ok = false
		}
	}()

	job.Run()
	p.opts.metrics.IncExecuted()
	return true
}
