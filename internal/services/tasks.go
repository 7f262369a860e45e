package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/store"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

// liveTask is satisfied by every *scheduler.Future regardless of its value
// type.
type liveTask interface {
	Info() scheduler.TaskInfo
	Done() <-chan struct{}
	Cancel() bool
}

// TaskService submits catalogue jobs to the scheduler and answers queries
// about them. Tasks still held by the scheduler are answered from their
// futures; finished tasks from the journal.
type TaskService struct {
	scheduler *scheduler.Scheduler
	store     *store.Store
	catalogue *Catalogue
	mu        sync.Mutex
	live      map[string]liveTask
	// persisted holds ids whose terminal row was written before the
	// submitter registered the future.
	persisted map[string]struct{}
	schedules map[string]*scheduleEntry
}

func NewTaskService(s *scheduler.Scheduler, st *store.Store, catalogue *Catalogue, journal *Journal) *TaskService {
	srv := &TaskService{
		scheduler: s,
		store:     st,
		catalogue: catalogue,
		live:      make(map[string]liveTask),
		persisted: make(map[string]struct{}),
		schedules: make(map[string]*scheduleEntry),
	}
	journal.Subscribe(srv.onPersisted)
	return srv
}

type SubmitParams struct {
	Job   models.JobRequest
	Delay time.Duration
}

// Submit builds the job and enqueues it, after Delay when set. ctx bounds the
// wait for room in the queue under the block policy.
func (s *TaskService) Submit(ctx context.Context, params SubmitParams) (*models.TaskRun, error) {
	if params.Delay < 0 {
		return nil, srvErrors.NewInvalidArgumentError("delay must not be negative")
	}

	job, work, err := s.catalogue.Build(params.Job)
	if err != nil {
		return nil, err
	}

	name := scheduler.WithName(params.Job.Job)

	var task liveTask
	switch {
	case job.Kind == scheduler.KindAction && params.Delay > 0:
		task, err = s.scheduler.ScheduleAfter(ctx, params.Delay, actionOf(work), name)
	case job.Kind == scheduler.KindAction:
		task, err = s.scheduler.Execute(ctx, actionOf(work), name)
	case params.Delay > 0:
		task, err = scheduler.SubmitAfter(ctx, s.scheduler, params.Delay, work, name)
	default:
		task, err = scheduler.Submit(ctx, s.scheduler, work, name)
	}
	if err != nil {
		return nil, err
	}

	s.register(task)

	zap.S().Named("task_service").Infow("task submitted", "task_id", task.Info().ID, "job", params.Job.Job, "delay", params.Delay)

	run := newTaskRun(task.Info())
	return &run, nil
}

// Get returns the latest state of a task. When wait is positive and the
// task is still held by the scheduler, Get waits up to wait for it to finish.
func (s *TaskService) Get(ctx context.Context, id string, wait time.Duration) (*models.TaskRun, error) {
	task, ok := s.lookup(id)
	if !ok {
		return s.store.Tasks().Get(ctx, id)
	}

	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-task.Done():
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	run := newTaskRun(task.Info())
	return &run, nil
}

type TaskListParams struct {
	States      []string
	Kinds       []string
	Names       []string
	RepeatingID string
	Sort        []store.SortParam
	Limit       uint64
	Offset      uint64
}

type TaskListResult struct {
	Runs  []models.TaskRun
	Total int
}

// List queries the journal.
func (s *TaskService) List(ctx context.Context, params TaskListParams) (*TaskListResult, error) {
	filters := []store.ListOption{
		store.ByStates(params.States...),
		store.ByKinds(params.Kinds...),
		store.ByNames(params.Names...),
		store.ByRepeatingID(params.RepeatingID),
	}

	opts := append([]store.ListOption{}, filters...)
	if len(params.Sort) > 0 {
		opts = append(opts, store.WithSort(params.Sort))
	} else {
		opts = append(opts, store.WithDefaultSort())
	}
	if params.Limit > 0 {
		opts = append(opts, store.WithLimit(params.Limit))
	}
	if params.Offset > 0 {
		opts = append(opts, store.WithOffset(params.Offset))
	}

	runs, err := s.store.Tasks().List(ctx, opts...)
	if err != nil {
		return nil, err
	}

	// Get total count without pagination
	total, err := s.store.Tasks().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	return &TaskListResult{Runs: runs, Total: total}, nil
}

// Cancel cancels a task still held by the scheduler. It returns false when
// the task already finished.
func (s *TaskService) Cancel(ctx context.Context, id string) (bool, error) {
	task, ok := s.lookup(id)
	if !ok {
		// finished, or an instance of a schedule
		run, err := s.store.Tasks().Get(ctx, id)
		if err != nil {
			return false, err
		}
		if run.RepeatingID != "" && !run.Terminal() {
			return false, srvErrors.NewInvalidArgumentError("task %s belongs to schedule %s, cancel the schedule instead", id, run.RepeatingID)
		}
		return false, nil
	}

	cancelled := task.Cancel()
	zap.S().Named("task_service").Infow("task cancel requested", "task_id", id, "cancelled", cancelled)
	return cancelled, nil
}

// Jobs lists the names of the catalogue jobs.
func (s *TaskService) Jobs() []string {
	return s.catalogue.Names()
}

func (s *TaskService) register(task liveTask) {
	id := task.Info().ID

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, done := s.persisted[id]; done {
		delete(s.persisted, id)
		return
	}
	s.live[id] = task
}

func (s *TaskService) lookup(id string) (liveTask, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.live[id]
	return task, ok
}

// onPersisted releases the future of a task once its terminal state is in
// the journal. Schedule instances are never registered.
func (s *TaskService) onPersisted(run models.TaskRun) {
	if !run.Terminal() || run.RepeatingID != "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.live[run.ID]; ok {
		delete(s.live, run.ID)
		return
	}
	s.persisted[run.ID] = struct{}{}
}

func actionOf(work scheduler.Work[any]) scheduler.Action {
	return func(ctx context.Context) error {
		_, err := work(ctx)
		return err
	}
}
