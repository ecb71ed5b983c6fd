package jobqueue

import (
	"context"
	"testing"
	"time"
)

func TestNewQueueClampsWorkers(t *testing.T) {
	tests := []struct {
		workers int
		want    int
	}{
		{workers: 5, want: 5},
		{workers: 1, want: 1},
		{workers: 0, want: 1},
		{workers: -3, want: 1},
	}

	for _, tt := range tests {
		queue := NewQueue(tt.workers)
		if queue.workers != tt.want {
			t.Fatalf("NewQueue(%d).workers = %d, want %d", tt.workers, queue.workers, tt.want)
		}
	}
}

func TestRegisterProcessor(t *testing.T) {
	queue := NewQueue(1)
	queue.Register(JobTypeBillingResync, func(ctx context.Context, job *Job) error {
		return nil
	})

	queue.mu.Lock()
	_, ok := queue.processors[JobTypeBillingResync]
	queue.mu.Unlock()
	if !ok {
		t.Fatal("expected processor to be registered")
	}
}

func TestStopWithoutStart(t *testing.T) {
	queue := NewQueue(1)
	// Must not block or panic when the queue never ran.
	queue.Stop()
}

func TestStopWithWorkerContendingForLock(t *testing.T) {
	queue := NewQueue(1)
	queue.running = true

	// A worker that popped a job right before shutdown still needs q.mu to
	// look up its processor. Stop must not hold the lock while waiting for
	// such a worker to finish.
	release := make(chan struct{})
	queue.wg.Add(1)
	go func() {
		defer queue.wg.Done()
		<-release
		queue.mu.Lock()
		queue.mu.Unlock()
	}()

	done := make(chan struct{})
	go func() {
		queue.Stop()
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return with a worker waiting on the queue lock")
	}
}
