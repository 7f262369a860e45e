package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

type canceller interface {
	Cancel() bool
}

type Scheduler struct {
	cfg       Config
	queue     *taskQueue
	observers []Observer

	mu    sync.Mutex
	stage Stage
	// live holds every pending or running task whose pending transition has
	// been published.
	live   map[string]canceller
	forced bool

	mainCtx      context.Context
	mainCancel   context.CancelFunc
	repeatCtx    context.Context
	repeatCancel context.CancelFunc
	terminated   chan struct{}
	wg           sync.WaitGroup
	once         sync.Once

	active    atomic.Int64
	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	cancelled atomic.Int64
}

// NewScheduler starts cfg.PoolSize workers sharing one bounded queue.
func NewScheduler(cfg Config, opts ...Option) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	repeatCtx, repeatCancel := context.WithCancel(ctx)
	s := &Scheduler{
		cfg:          cfg,
		queue:        newTaskQueue(cfg.QueueCapacity, cfg.OnFull),
		stage:        StageRunning,
		live:         make(map[string]canceller),
		mainCtx:      ctx,
		mainCancel:   cancel,
		repeatCtx:    repeatCtx,
		repeatCancel: repeatCancel,
		terminated:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.wg.Add(cfg.PoolSize)
	for i := range cfg.PoolSize {
		go newWorker(i, s.queue, &s.active, &s.wg).Run()
	}
	go s.run()

	zap.S().Named("scheduler").Infow("scheduler started", "pool_size", cfg.PoolSize, "queue_capacity", cfg.QueueCapacity, "on_full", cfg.OnFull)
	return s, nil
}

// Submit queues a computation for immediate execution.
func Submit[T any](ctx context.Context, s *Scheduler, w Work[T], opts ...SubmitOption) (*Future[T], error) {
	return submit(ctx, s, w, newTaskOptions(KindComputation, TriggerImmediate, 0, opts))
}

// SubmitAfter queues a computation that becomes eligible after delay.
func SubmitAfter[T any](ctx context.Context, s *Scheduler, delay time.Duration, w Work[T], opts ...SubmitOption) (*Future[T], error) {
	return submit(ctx, s, w, newTaskOptions(KindComputation, TriggerDelayed, delay, opts))
}

// Execute queues a fire-and-forget action.
func (s *Scheduler) Execute(ctx context.Context, a Action, opts ...SubmitOption) (*Future[struct{}], error) {
	return submit(ctx, s, a.work(), newTaskOptions(KindAction, TriggerImmediate, 0, opts))
}

func (s *Scheduler) ScheduleAfter(ctx context.Context, delay time.Duration, a Action, opts ...SubmitOption) (*Future[struct{}], error) {
	return submit(ctx, s, a.work(), newTaskOptions(KindAction, TriggerDelayed, delay, opts))
}

// submit enqueues w. ctx only bounds the wait for room in the queue; the task
// itself runs with a context derived from the scheduler.
func submit[T any](ctx context.Context, s *Scheduler, w Work[T], o taskOptions) (*Future[T], error) {
	if o.delay < 0 {
		o.delay = 0
	}

	now := time.Now()
	id := uuid.NewString()
	taskCtx, cancel := context.WithCancel(s.mainCtx)
	f := newFuture[T](TaskInfo{
		ID:          id,
		Name:        o.name,
		Kind:        o.kind,
		Trigger:     o.trigger,
		RepeatingID: o.repeatingID,
		EnqueuedAt:  now,
		ReleaseAt:   now.Add(o.delay),
	}, cancel, s.observe)

	t := &task{id: id, releaseAt: now.Add(o.delay), index: -1}
	t.run = func() { runWork(taskCtx, f, w) }
	f.unqueue = func() bool { return s.queue.remove(t) }

	s.mu.Lock()
	if s.stage != StageRunning {
		s.mu.Unlock()
		cancel()
		return nil, srvErrors.NewQueueClosedError()
	}
	s.mu.Unlock()

	// Hold the future until the pending transition is published so a worker
	// cannot report it running first. A submission rejected by the queue never
	// becomes live, so it emits nothing.
	f.mu.Lock()
	if err := s.queue.push(ctx, t); err != nil {
		f.mu.Unlock()
		cancel()
		return nil, err
	}
	s.submitted.Add(1)
	f.emit()

	s.mu.Lock()
	forced := s.forced
	if !forced {
		s.live[id] = f
	}
	s.mu.Unlock()
	f.mu.Unlock()

	// Accepted after ShutdownForce collected the live set.
	if forced {
		f.Cancel()
	}

	return f, nil
}

// ShutdownGraceful stops accepting work. Queued and running tasks are
// allowed to finish; fixed-rate schedules stop firing.
func (s *Scheduler) ShutdownGraceful() {
	if s.beginShutdown() {
		zap.S().Named("scheduler").Infow("graceful shutdown requested", "queued", s.queue.Len(), "active", s.active.Load())
	}
}

// ShutdownForce stops accepting work, cancels every queued task and requests
// interruption of running ones. It returns the ids of tasks that never ran.
func (s *Scheduler) ShutdownForce() []string {
	s.beginShutdown()
	s.mu.Lock()
	s.forced = true
	s.mu.Unlock()

	drained := s.queue.drain()
	ids := make([]string, 0, len(drained))
	for _, t := range drained {
		ids = append(ids, t.id)
	}

	s.mu.Lock()
	live := make([]canceller, 0, len(s.live))
	for _, c := range s.live {
		live = append(live, c)
	}
	s.mu.Unlock()

	for _, c := range live {
		c.Cancel()
	}
	s.mainCancel()

	zap.S().Named("scheduler").Infow("forced shutdown requested", "discarded", len(ids), "interrupted", len(live)-len(ids))
	return ids
}

// AwaitTermination waits up to timeout for the scheduler to terminate. It does
// not start a shutdown.
func (s *Scheduler) AwaitTermination(timeout time.Duration) bool {
	select {
	case <-s.terminated:
		return true
	default:
	}
	if timeout <= 0 {
		return false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.terminated:
		return true
	case <-timer.C:
		return false
	}
}

// Terminated is closed once every worker has returned.
func (s *Scheduler) Terminated() <-chan struct{} {
	return s.terminated
}

// Close cancels all work and waits for the workers. It is idempotent.
func (s *Scheduler) Close() {
	s.once.Do(func() {
		s.ShutdownForce()
		<-s.terminated
	})
}

func (s *Scheduler) Stage() Stage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stage
}

func (s *Scheduler) Stats() Stats {
	return Stats{
		Stage:         s.Stage(),
		PoolSize:      s.cfg.PoolSize,
		QueueCapacity: s.cfg.QueueCapacity,
		Queued:        s.queue.Len(),
		Active:        int(s.active.Load()),
		Submitted:     s.submitted.Load(),
		Completed:     s.completed.Load(),
		Failed:        s.failed.Load(),
		Cancelled:     s.cancelled.Load(),
	}
}

func (s *Scheduler) beginShutdown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stage != StageRunning {
		return false
	}
	s.stage = StageShuttingDown
	s.queue.close()
	s.repeatCancel()
	return true
}

// run waits for the workers to drain the queue and marks the scheduler
// terminated.
func (s *Scheduler) run() {
	s.wg.Wait()

	s.mu.Lock()
	s.stage = StageTerminated
	s.mu.Unlock()
	s.mainCancel()
	close(s.terminated)

	zap.S().Named("scheduler").Infow("scheduler terminated", "completed", s.completed.Load(), "failed", s.failed.Load(), "cancelled", s.cancelled.Load())
}

func (s *Scheduler) observe(info TaskInfo) {
	switch info.State {
	case StateCompleted:
		s.completed.Add(1)
	case StateFailed:
		s.failed.Add(1)
	case StateCancelled:
		s.cancelled.Add(1)
	}
	if info.State.Terminal() {
		s.forget(info.ID)
	}

	for _, o := range s.observers {
		o.Observe(info)
	}
}

func (s *Scheduler) forget(id string) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}
