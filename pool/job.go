package pool

// Job represents a single unit of work submitted to the pool.
//
// Run is invoked at most once, on an arbitrary worker goroutine,
// possibly long after submission. A Job must therefore own (or hold an
// unrestricted handle to) everything it touches. The pool never
// inspects a Job beyond calling Run.
type Job interface {
	Run()
}

// JobFunc adapts a plain function to the Job interface.
type JobFunc func()

// Run invokes f.
func (f JobFunc) Run() { f() }
