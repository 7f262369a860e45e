package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

// RepeatingFuture is the handle of a fixed-rate schedule. At most one
// instance of the schedule is queued or running at any time.
type RepeatingFuture struct {
	id       string
	interval time.Duration

	mu        sync.Mutex
	runs      int
	current   *Future[struct{}]
	err       error
	cancelled bool

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// ScheduleAtFixedRate runs action every interval, starting after
// initialDelay. Ticks are aligned on start + k*interval. When an instance
// overruns, the ticks it covered are skipped rather than queued.
//
// The schedule ends when it is cancelled, when an instance fails or is
// cancelled, or when the scheduler shuts down.
func (s *Scheduler) ScheduleAtFixedRate(initialDelay, interval time.Duration, action Action, opts ...SubmitOption) (*RepeatingFuture, error) {
	if interval <= 0 {
		return nil, srvErrors.NewInvalidConfigurationError("interval", "must be greater than 0")
	}
	if initialDelay < 0 {
		initialDelay = 0
	}
	if s.Stage() != StageRunning {
		return nil, srvErrors.NewQueueClosedError()
	}

	ctx, cancel := context.WithCancel(s.repeatCtx)
	r := &RepeatingFuture{
		id:       uuid.NewString(),
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	o := newTaskOptions(KindAction, TriggerFixedRate, 0, opts)
	o.repeatingID = r.id
	go r.loop(s, action, o, time.Now().Add(initialDelay))

	zap.S().Named("scheduler").Debugw("fixed-rate schedule created", "schedule", r.id, "interval", interval, "initial_delay", initialDelay)
	return r, nil
}

func (r *RepeatingFuture) ID() string {
	return r.id
}

func (r *RepeatingFuture) Interval() time.Duration {
	return r.interval
}

// Cancel prevents any further instance from being queued and interrupts the
// instance in flight, if any.
func (r *RepeatingFuture) Cancel() {
	r.mu.Lock()
	select {
	case <-r.done:
		r.mu.Unlock()
		return
	default:
	}
	r.cancelled = true
	current := r.current
	r.mu.Unlock()

	r.cancel()
	if current != nil {
		current.Cancel()
	}
}

// Done is closed once the schedule has ended.
func (r *RepeatingFuture) Done() <-chan struct{} {
	return r.done
}

// Err tells why the schedule ended: CancelledError, TaskFailedError or
// QueueClosedError. It is nil while the schedule is active.
func (r *RepeatingFuture) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Runs returns the number of instances queued so far.
func (r *RepeatingFuture) Runs() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runs
}

// Wait blocks until the schedule ends or ctx is done.
func (r *RepeatingFuture) Wait(ctx context.Context) error {
	select {
	case <-r.done:
		return r.Err()
	case <-ctx.Done():
		return waitError(ctx)
	}
}

func (r *RepeatingFuture) loop(s *Scheduler, action Action, o taskOptions, start time.Time) {
	defer close(r.done)

	log := zap.S().Named("scheduler")
	next := start
	for {
		if err := r.sleepUntil(next); err != nil {
			r.end(err)
			return
		}

		f, err := submit(r.ctx, s, action.work(), o)
		switch {
		case err == nil:
		case srvErrors.IsQueueFullError(err):
			log.Warnw("queue full, skipping fixed-rate tick", "schedule", r.id)
			next = r.nextTick(next)
			continue
		case srvErrors.IsQueueClosedError(err):
			r.end(err)
			return
		default:
			r.end(r.stopReason())
			return
		}

		r.mu.Lock()
		r.runs++
		r.current = f
		cancelled := r.cancelled
		r.mu.Unlock()
		if cancelled {
			f.Cancel()
		}

		<-f.Done()
		if res := f.Result(); res.State != StateCompleted {
			switch {
			case r.isCancelled():
				r.end(srvErrors.NewCancelledError(r.id))
			case res.State == StateCancelled && r.ctx.Err() != nil:
				r.end(srvErrors.NewQueueClosedError())
			default:
				log.Warnw("fixed-rate instance did not complete, stopping schedule", "schedule", r.id, "state", res.State, "error", res.Err)
				r.end(res.Err)
			}
			return
		}
		next = r.nextTick(next)
	}
}

// nextTick returns the first tick after last that is not already in the past.
func (r *RepeatingFuture) nextTick(last time.Time) time.Time {
	next := last.Add(r.interval)
	if now := time.Now(); next.Before(now) {
		missed := (now.Sub(next) + r.interval - 1) / r.interval
		next = next.Add(missed * r.interval)
	}
	return next
}

func (r *RepeatingFuture) sleepUntil(t time.Time) error {
	if r.ctx.Err() != nil {
		return r.stopReason()
	}
	timer := time.NewTimer(time.Until(t))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-r.ctx.Done():
		return r.stopReason()
	}
}

func (r *RepeatingFuture) stopReason() error {
	if r.isCancelled() {
		return srvErrors.NewCancelledError(r.id)
	}
	return srvErrors.NewQueueClosedError()
}

func (r *RepeatingFuture) isCancelled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancelled
}

func (r *RepeatingFuture) end(err error) {
	r.mu.Lock()
	r.err = err
	r.current = nil
	r.mu.Unlock()
	r.cancel()
}
