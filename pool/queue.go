package pool

import "sync"

const defaultQueueCapacity = 64

// jobQueue is the FIFO hand-off between submitters and workers.
//
// It supports many concurrent producers and many concurrent consumers.
// The queue is unbounded: push grows the buffer instead of blocking or
// dropping, so producers are never throttled by queue depth. Closing
// is independent of emptiness; after close, push fails and pop keeps
// delivering until the backlog is drained, then reports end-of-stream.
type jobQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond

	buf        []Job // circular buffer
	head, tail int   // read/write indices
	size       int   // number of jobs currently buffered
	closed     bool
}

// newJobQueue creates a queue with the given initial capacity.
// The capacity is only a sizing hint; the buffer grows as needed.
func newJobQueue(capacity int) *jobQueue {
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	q := &jobQueue{buf: make([]Job, capacity)}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// push appends a job at the tail of the queue and wakes one waiting
// consumer. It returns ErrQueueClosed once close has been called.
func (q *jobQueue) push(j Job) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrQueueClosed
	}
	if q.size == len(q.buf) {
		q.grow()
	}
	q.buf[q.tail] = j
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.size++
	q.mu.Unlock()

	q.notEmpty.Signal()
	return nil
}

// pop removes and returns the oldest job, blocking while the queue is
// open and empty. The boolean result is false only when the queue is
// closed and fully drained; consumers treat that as end-of-stream.
func (q *jobQueue) pop() (Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.size == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.size == 0 {
		return nil, false
	}

	j := q.buf[q.head]
	q.buf[q.head] = nil
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.size--
	return j, true
}

// close marks the queue closed and wakes every waiting consumer so
// they can drain the backlog and observe end-of-stream. Idempotent.
func (q *jobQueue) close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	q.mu.Unlock()

	q.notEmpty.Broadcast()
}

// len returns the number of jobs currently waiting in the queue.
func (q *jobQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// grow doubles the buffer, unrolling the circular layout so the oldest
// job lands at index zero. Caller must hold q.mu.
func (q *jobQueue) grow() {
	next := make([]Job, len(q.buf)*2)
	n := copy(next, q.buf[q.head:])
	copy(next[n:], q.buf[:q.head])
	q.buf = next
	q.head = 0
	q.tail = q.size
}
