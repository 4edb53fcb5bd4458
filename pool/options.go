package pool

import "context"

// Option configures a Pool at construction time.
type Option func(*options)

type options struct {
	metrics       MetricsPolicy
	onPanic       PanicHandler
	queueCapacity int
	baseCtx       context.Context
}

func defaultOptions() options {
	return options{
		metrics:       &NoopMetrics{},
		queueCapacity: defaultQueueCapacity,
		baseCtx:       context.Background(),
	}
}

// WithMetrics sets the metrics policy used to report queueing and
// execution activity. Defaults to NoopMetrics.
func WithMetrics(m MetricsPolicy) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithPanicHandler registers a handler invoked after a job panic has
// been recovered, in addition to the log entry the pool writes itself.
func WithPanicHandler(h PanicHandler) Option {
	return func(o *options) {
		o.onPanic = h
	}
}

// WithQueueCapacity sets the initial capacity of the job queue.
// The queue grows past this size as needed; a larger hint only avoids
// early reallocation under bursty submission.
func WithQueueCapacity(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.queueCapacity = n
		}
	}
}

// WithBaseContext sets the context the pool logs against for events
// not tied to any single job, such as startup and worker termination.
func WithBaseContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.baseCtx = ctx
		}
	}
}
