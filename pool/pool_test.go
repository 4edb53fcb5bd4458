package pool

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		if _, err := New(size); !errors.Is(err, ErrInvalidPoolSize) {
			t.Fatalf("New(%d) err = %v; want ErrInvalidPoolSize", size, err)
		}
	}
}

func TestNewSpawnsExactlyNWorkers(t *testing.T) {
	p, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if got := p.WorkerCount(); got != 3 {
		t.Fatalf("WorkerCount = %d; want 3", got)
	}
	if got := p.LiveWorkers(); got != 3 {
		t.Fatalf("LiveWorkers = %d; want 3", got)
	}
}

func TestEachJobRunsExactlyOnce(t *testing.T) {
	const jobs = 100

	p, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var counter atomic.Int64
	for i := 0; i < jobs; i++ {
		if err := p.SubmitFunc(func() { counter.Add(1) }); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	p.Close()

	if got := counter.Load(); got != jobs {
		t.Fatalf("executed %d jobs; want %d", got, jobs)
	}
}

func TestEveryJobIndexObservedOnce(t *testing.T) {
	p, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var mu sync.Mutex
	seen := make(map[int]int)
	for i := 0; i < 8; i++ {
		if err := p.SubmitFunc(func() {
			mu.Lock()
			seen[i]++
			mu.Unlock()
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 8 {
		t.Fatalf("observed %d distinct indices; want 8", len(seen))
	}
	for i, n := range seen {
		if n != 1 {
			t.Fatalf("index %d ran %d times; want 1", i, n)
		}
	}
}

func TestBoundedConcurrency(t *testing.T) {
	const workers = 2

	p, err := New(workers)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	started := make(chan int, workers+1)
	release := make(chan struct{})

	for i := 0; i < workers; i++ {
		_ = p.SubmitFunc(func() {
			started <- i
			<-release
		})
	}
	for i := 0; i < workers; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("blocker job did not start")
		}
	}

	// All workers are busy; one more job must wait.
	extraStarted := make(chan struct{})
	_ = p.SubmitFunc(func() {
		close(extraStarted)
		<-release
	})

	select {
	case <-extraStarted:
		t.Fatal("extra job started while all workers were busy")
	case <-time.After(100 * time.Millisecond):
	}
	if got := p.ActiveJobs(); got != workers {
		t.Fatalf("ActiveJobs = %d; want %d", got, workers)
	}

	close(release)
	select {
	case <-extraStarted:
	case <-time.After(time.Second):
		t.Fatal("extra job did not start after a worker freed up")
	}
}

func TestSubmissionOrderIsDeliveryOrder(t *testing.T) {
	// One worker makes execution order equal to delivery order.
	p, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var mu sync.Mutex
	var order []int
	for i := 0; i < 10; i++ {
		if err := p.SubmitFunc(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	p.Close()

	mu.Lock()
	defer mu.Unlock()
	for i, got := range order {
		if got != i {
			t.Fatalf("order[%d] = %d; want %d (full order %v)", i, got, i, order)
		}
	}
}

func TestShutdownDrainsQueuedJobs(t *testing.T) {
	const jobs = 50

	p, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var counter atomic.Int64
	for i := 0; i < jobs; i++ {
		if err := p.SubmitFunc(func() {
			time.Sleep(time.Millisecond)
			counter.Add(1)
		}); err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}

	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if got := counter.Load(); got != jobs {
		t.Fatalf("jobs completed at teardown = %d; want %d", got, jobs)
	}
	if got := p.ActiveJobs(); got != 0 {
		t.Fatalf("ActiveJobs after teardown = %d; want 0", got)
	}
}

func TestSubmitAfterShutdown(t *testing.T) {
	p, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Close()

	if err := p.SubmitFunc(func() {}); !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("Submit after shutdown err = %v; want ErrPoolClosed", err)
	}
}

func TestSubmitNilJob(t *testing.T) {
	p, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if err := p.Submit(nil); !errors.Is(err, ErrNilJob) {
		t.Fatalf("Submit(nil) err = %v; want ErrNilJob", err)
	}
	if err := p.SubmitFunc(nil); !errors.Is(err, ErrNilJob) {
		t.Fatalf("SubmitFunc(nil) err = %v; want ErrNilJob", err)
	}
}

func TestShutdownTimeout(t *testing.T) {
	p, err := New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	started := make(chan struct{})
	_ = p.SubmitFunc(func() {
		close(started)
		time.Sleep(300 * time.Millisecond)
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Shutdown(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Shutdown err = %v; want deadline exceeded", err)
	}

	// A second, unbounded Shutdown completes the join.
	if err := p.Shutdown(context.Background()); err != nil {
		t.Fatalf("second Shutdown err = %v; want nil", err)
	}
}

func TestPanicTerminatesOnlyOneWorker(t *testing.T) {
	panicked := make(chan int, 1)
	p, err := New(2, WithPanicHandler(func(workerID int, _ any) {
		panicked <- workerID
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	_ = p.SubmitFunc(func() { panic("boom") })

	select {
	case <-panicked:
	case <-time.After(time.Second):
		t.Fatal("panic handler was not called")
	}

	// The terminating worker decrements live after the handler runs.
	deadline := time.Now().Add(time.Second)
	for p.LiveWorkers() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("LiveWorkers = %d; want 1", p.LiveWorkers())
		}
		time.Sleep(time.Millisecond)
	}

	// The surviving worker still executes new work.
	done := make(chan struct{})
	if err := p.SubmitFunc(func() { close(done) }); err != nil {
		t.Fatalf("submit after panic: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on surviving worker")
	}
}

func TestConcurrentNotSerialExecution(t *testing.T) {
	const sleep = 150 * time.Millisecond

	p, err := New(2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	start := time.Now()
	cDone := make(chan struct{})

	_ = p.SubmitFunc(func() { time.Sleep(sleep) }) // A
	_ = p.SubmitFunc(func() { time.Sleep(sleep) }) // B
	_ = p.SubmitFunc(func() { close(cDone) })      // C

	select {
	case <-cDone:
	case <-time.After(2 * sleep):
		t.Fatal("third job did not complete in time")
	}

	// C runs as soon as A or B finishes. Serial execution would hold
	// it back until both had run.
	if elapsed := time.Since(start); elapsed >= 2*sleep {
		t.Fatalf("third job completed after %v; want < %v", elapsed, 2*sleep)
	}
}

func TestMetricsPolicyIsReported(t *testing.T) {
	m := &AtomicMetrics{}
	p, err := New(2, WithMetrics(m))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i := 0; i < 10; i++ {
		_ = p.SubmitFunc(func() {})
	}
	p.Close()

	if got := m.Executed(); got != 10 {
		t.Fatalf("Executed = %d; want 10", got)
	}
	if got := m.Queued(); got != 0 {
		t.Fatalf("Queued after drain = %d; want 0", got)
	}
	if got := m.Panicked(); got != 0 {
		t.Fatalf("Panicked = %d; want 0", got)
	}
}

func TestConcurrentSubmitters(t *testing.T) {
	const producers = 8
	const perProducer = 200

	p, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	var counter atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < producers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				if err := p.SubmitFunc(func() { counter.Add(1) }); err != nil {
					t.Errorf("submit: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
	p.Close()

	if got := counter.Load(); got != producers*perProducer {
		t.Fatalf("executed %d jobs; want %d", got, producers*perProducer)
	}
}

func BenchmarkSubmit(b *testing.B) {
	p, err := New(4)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer p.Close()

	job := JobFunc(func() {})
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = p.Submit(job)
	}
}
