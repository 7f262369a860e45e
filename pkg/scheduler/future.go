package scheduler

import (
	"context"
	"sync"
	"time"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

// Future is the handle of a submitted task. The worker running the task is
// its only writer; any number of goroutines may wait on it.
type Future[T any] struct {
	mu      sync.Mutex
	info    TaskInfo
	result  Result[T]
	done    chan struct{}
	cancel  context.CancelFunc
	unqueue func() bool
	notify  func(TaskInfo)
}

func newFuture[T any](info TaskInfo, cancel context.CancelFunc, notify func(TaskInfo)) *Future[T] {
	info.State = StatePending
	return &Future[T]{
		info:   info,
		result: Result[T]{State: StatePending},
		done:   make(chan struct{}),
		cancel: cancel,
		notify: notify,
	}
}

func (f *Future[T]) ID() string {
	return f.info.ID
}

func (f *Future[T]) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info.State
}

func (f *Future[T]) Info() TaskInfo {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.info
}

// Done is closed when the task reaches a terminal state.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Result returns the current outcome without blocking. State is pending or
// running until the task is done.
func (f *Future[T]) Result() Result[T] {
	f.mu.Lock()
	defer f.mu.Unlock()
	r := f.result
	r.State = f.info.State
	return r
}

// Get blocks until the task is terminal or ctx is done. A failed task yields
// a TaskFailedError, a cancelled one a CancelledError and an expired ctx a
// TimeoutError.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		r := f.Result()
		return r.Data, r.Err
	default:
	}

	select {
	case <-f.done:
		r := f.Result()
		return r.Data, r.Err
	case <-ctx.Done():
		var zero T
		return zero, waitError(ctx)
	}
}

func (f *Future[T]) GetTimeout(timeout time.Duration) (T, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return f.Get(ctx)
}

// Cancel marks the task cancelled. A queued task is removed from the queue and
// a running one has its context cancelled; work ignoring ctx keeps running but
// its outcome is discarded. Returns false if the task was already terminal.
func (f *Future[T]) Cancel() bool {
	f.mu.Lock()
	if f.info.State.Terminal() {
		f.mu.Unlock()
		return false
	}
	f.info.State = StateCancelled
	f.info.CompletedAt = time.Now()
	f.result.Err = srvErrors.NewCancelledError(f.info.ID)
	f.info.Err = f.result.Err
	close(f.done)
	f.emit()
	f.mu.Unlock()

	f.cancel()
	if f.unqueue != nil {
		f.unqueue()
	}
	return true
}

// start moves the task from pending to running. It fails if the task was
// cancelled while queued.
func (f *Future[T]) start() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.info.State != StatePending {
		return false
	}
	f.info.State = StateRunning
	f.info.StartedAt = time.Now()
	f.emit()
	return true
}

func (f *Future[T]) finish(v T, err error) {
	defer f.cancel()

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.info.State.Terminal() {
		return
	}
	f.info.CompletedAt = time.Now()
	if err != nil {
		f.info.State = StateFailed
		f.result.Err = srvErrors.NewTaskFailedError(f.info.ID, err)
		f.info.Err = f.result.Err
	} else {
		f.info.State = StateCompleted
		f.result.Data = v
		f.info.Result = v
	}
	close(f.done)
	f.emit()
}

// emit must be called with mu held so observers see transitions in order.
func (f *Future[T]) emit() {
	if f.notify != nil {
		f.notify(f.info)
	}
}
