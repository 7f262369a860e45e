package scheduler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

type worker struct {
	id     int
	queue  *taskQueue
	active *atomic.Int64
	wg     *sync.WaitGroup
}

func newWorker(id int, queue *taskQueue, active *atomic.Int64, wg *sync.WaitGroup) worker {
	return worker{id: id, queue: queue, active: active, wg: wg}
}

// Run serves tasks until the queue is closed and drained.
func (w worker) Run() {
	defer w.wg.Done()
	for {
		t, err := w.queue.pop(context.Background())
		if err != nil {
			zap.S().Named("scheduler").Debugw("worker stopped", "worker", w.id)
			return
		}
		w.active.Add(1)
		w.Work(t)
		w.active.Add(-1)
	}
}

func (w worker) Work(t *task) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.S().Named("scheduler").Errorw("task bookkeeping panicked", "worker", w.id, "task", t.id, "panic", rec)
		}
	}()
	t.run()
}

// runWork executes w on behalf of f. Errors and panics of the work end up on
// the future and never reach the worker loop.
func runWork[T any](ctx context.Context, f *Future[T], w Work[T]) {
	if !f.start() {
		return
	}

	var (
		v   T
		err error
	)
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("worker panicked: %v", rec)
			}
		}()
		v, err = w(ctx)
	}()

	f.finish(v, err)
}
