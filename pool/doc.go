// Package pool provides a fixed-capacity worker pool for dispatching
// connection-handling jobs in a network server.
//
// Design
//
// The pool is composed of three small pieces:
//
//   1. Job
//      A type-erased, run-once unit of work. Ownership of a Job moves
//      to the pool at Submit time; the executing worker is its sole
//      owner for the duration of Run.
//
//   2. jobQueue
//      A single FIFO hand-off shared by all workers. The queue is
//      unbounded on the producer side, so Submit never stalls behind
//      slow workers, and it carries an explicit closed state so an
//      idle worker can tell "empty for now" apart from "finished".
//
//   3. Workers
//      Exactly N long-lived goroutines, fixed at construction. Each
//      worker executes one job at a time, competing with its peers for
//      the head of the queue. Load balancing falls out of whichever
//      idle worker wins the next receive.
//
// Shutdown
//
// Shutdown closes the queue and then joins every worker in index
// order. Jobs enqueued before the close are drained and executed;
// submissions after the close fail with ErrPoolClosed. By the time
// Shutdown returns, no job is in flight.
//
// Failure model
//
// A panic inside a job is recovered and terminates that one worker.
// The pool keeps running with reduced capacity; no replacement worker
// is spawned. The submitter of the panicking job is not notified.
package pool
