package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/store"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

const journalWriteTimeout = 5 * time.Second

// Journal records task transitions in the store. It is registered as a
// scheduler observer: Observe only queues the transition and a single writer
// goroutine saves them in order.
type Journal struct {
	store       *store.Store
	events      chan scheduler.TaskInfo
	done        chan struct{}
	stopped     chan struct{}
	startOnce   sync.Once
	stopOnce    sync.Once
	mu          sync.Mutex
	subscribers []func(models.TaskRun)
}

func NewJournal(st *store.Store, buffer int) *Journal {
	return &Journal{
		store:   st,
		events:  make(chan scheduler.TaskInfo, buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Observe queues a transition. It blocks while the buffer is full and drops
// the transition once the journal is stopped.
func (j *Journal) Observe(info scheduler.TaskInfo) {
	select {
	case <-j.done:
		zap.S().Named("journal").Warnw("journal stopped, dropping transition", "task_id", info.ID, "state", info.State)
		return
	default:
	}

	select {
	case j.events <- info:
	case <-j.done:
	}
}

// Subscribe registers fn to be called from the writer goroutine after each
// run is saved, whether or not the save succeeded.
func (j *Journal) Subscribe(fn func(models.TaskRun)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.subscribers = append(j.subscribers, fn)
}

func (j *Journal) Start() {
	j.startOnce.Do(func() {
		go j.run()
	})
}

// Stop writes the queued transitions and stops the writer. It returns
// ctx.Err() if the writer did not finish in time.
func (j *Journal) Stop(ctx context.Context) error {
	j.Start()
	j.stopOnce.Do(func() {
		close(j.done)
	})

	select {
	case <-j.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (j *Journal) run() {
	defer close(j.stopped)

	logger := zap.S().Named("journal")
	logger.Debug("journal writer started")

	for {
		select {
		case info := <-j.events:
			j.write(info)
		case <-j.done:
			for {
				select {
				case info := <-j.events:
					j.write(info)
				default:
					logger.Debug("journal writer stopped")
					return
				}
			}
		}
	}
}

func (j *Journal) write(info scheduler.TaskInfo) {
	run := newTaskRun(info)

	ctx, cancel := context.WithTimeout(context.Background(), journalWriteTimeout)
	defer cancel()

	if err := j.store.Tasks().Save(ctx, run); err != nil {
		zap.S().Named("journal").Errorw("failed to save task run", "task_id", run.ID, "state", run.State, "error", err)
	}

	j.mu.Lock()
	subscribers := j.subscribers
	j.mu.Unlock()

	for _, fn := range subscribers {
		fn(run)
	}
}
