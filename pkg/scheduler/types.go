package scheduler

import (
	"context"
	"time"

	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

// Work is a computation producing a value or failing.
type Work[T any] func(ctx context.Context) (T, error)

// Action is a side-effecting unit of work with no result.
type Action func(ctx context.Context) error

func (a Action) work() Work[struct{}] {
	return func(ctx context.Context) (struct{}, error) {
		return struct{}{}, a(ctx)
	}
}

// State of a task as seen through its Future.
type State string

const (
	StatePending   State = "pending"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed || s == StateCancelled
}

type Kind string

const (
	KindAction      Kind = "action"
	KindComputation Kind = "computation"
)

// Trigger tells how a task reached the queue.
type Trigger string

const (
	TriggerImmediate Trigger = "immediate"
	TriggerDelayed   Trigger = "delayed"
	TriggerFixedRate Trigger = "fixed-rate"
)

// Stage of the scheduler lifecycle. Transitions only go forward.
type Stage string

const (
	StageRunning      Stage = "running"
	StageShuttingDown Stage = "shutting-down"
	StageTerminated   Stage = "terminated"
)

// OnFullPolicy decides what enqueue does when the queue is at capacity.
type OnFullPolicy string

const (
	OnFullBlock  OnFullPolicy = "block"
	OnFullReject OnFullPolicy = "reject"
)

func ParseOnFullPolicy(s string) (OnFullPolicy, error) {
	switch s {
	case "block":
		return OnFullBlock, nil
	case "reject", "rejectWithError":
		return OnFullReject, nil
	default:
		return "", srvErrors.NewInvalidConfigurationError("onFull", "must be block or reject, got "+s)
	}
}

type Result[T any] struct {
	Data  T
	Err   error
	State State
}

// TaskInfo is a snapshot of a task. It is handed to observers on every
// state transition.
type TaskInfo struct {
	ID          string
	Name        string
	Kind        Kind
	Trigger     Trigger
	RepeatingID string
	State       State
	Err         error
	// Result holds the value of a completed task.
	Result      any
	EnqueuedAt  time.Time
	ReleaseAt   time.Time
	StartedAt   time.Time
	CompletedAt time.Time
}

// Observer receives task transitions: pending once enqueued, running, then
// exactly one terminal state. Observe is called while the task is locked so
// it must not block nor call back into the Future.
type Observer interface {
	Observe(info TaskInfo)
}

type ObserverFunc func(info TaskInfo)

func (f ObserverFunc) Observe(info TaskInfo) { f(info) }

type Config struct {
	PoolSize      int
	QueueCapacity int
	OnFull        OnFullPolicy
}

func (c Config) Validate() error {
	if c.PoolSize <= 0 {
		return srvErrors.NewInvalidConfigurationError("poolSize", "must be greater than 0")
	}
	if c.QueueCapacity <= 0 {
		return srvErrors.NewInvalidConfigurationError("queueCapacity", "must be greater than 0")
	}
	switch c.OnFull {
	case OnFullBlock, OnFullReject:
	default:
		return srvErrors.NewInvalidConfigurationError("onFull", "must be block or reject")
	}
	return nil
}

type Stats struct {
	Stage         Stage
	PoolSize      int
	QueueCapacity int
	Queued        int
	Active        int
	Submitted     int64
	Completed     int64
	Failed        int64
	Cancelled     int64
}
