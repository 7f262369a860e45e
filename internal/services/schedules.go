package services

import (
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/models"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

type scheduleEntry struct {
	handle       *scheduler.RepeatingFuture
	job          string
	initialDelay time.Duration
	createdAt    time.Time
}

type ScheduleParams struct {
	Job          models.JobRequest
	InitialDelay time.Duration
	Interval     time.Duration
}

// CreateSchedule runs the job at a fixed rate. The work is built once and
// shared by every instance of the schedule.
func (s *TaskService) CreateSchedule(params ScheduleParams) (*models.Schedule, error) {
	if params.InitialDelay < 0 {
		return nil, srvErrors.NewInvalidArgumentError("initial delay must not be negative")
	}
	if params.Interval <= 0 {
		return nil, srvErrors.NewInvalidArgumentError("interval must be greater than zero")
	}

	_, work, err := s.catalogue.Build(params.Job)
	if err != nil {
		return nil, err
	}

	handle, err := s.scheduler.ScheduleAtFixedRate(params.InitialDelay, params.Interval, actionOf(work), scheduler.WithName(params.Job.Job))
	if err != nil {
		return nil, err
	}

	entry := &scheduleEntry{
		handle:       handle,
		job:          params.Job.Job,
		initialDelay: params.InitialDelay,
		createdAt:    time.Now(),
	}

	s.mu.Lock()
	s.schedules[handle.ID()] = entry
	s.mu.Unlock()

	zap.S().Named("task_service").Infow("schedule created", "schedule_id", handle.ID(), "job", params.Job.Job, "interval", params.Interval)

	sch := entry.toModel()
	return &sch, nil
}

func (s *TaskService) GetSchedule(id string) (*models.Schedule, error) {
	s.mu.Lock()
	entry, ok := s.schedules[id]
	s.mu.Unlock()
	if !ok {
		return nil, srvErrors.NewScheduleNotFoundError(id)
	}
	sch := entry.toModel()
	return &sch, nil
}

// ListSchedules returns every schedule created since start, oldest first.
func (s *TaskService) ListSchedules() []models.Schedule {
	s.mu.Lock()
	entries := make([]*scheduleEntry, 0, len(s.schedules))
	for _, e := range s.schedules {
		entries = append(entries, e)
	}
	s.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool { return entries[i].createdAt.Before(entries[j].createdAt) })

	schedules := make([]models.Schedule, 0, len(entries))
	for _, e := range entries {
		schedules = append(schedules, e.toModel())
	}
	return schedules
}

// CancelSchedule stops the schedule and cancels its in-flight instance.
func (s *TaskService) CancelSchedule(id string) (*models.Schedule, error) {
	s.mu.Lock()
	entry, ok := s.schedules[id]
	s.mu.Unlock()
	if !ok {
		return nil, srvErrors.NewScheduleNotFoundError(id)
	}

	entry.handle.Cancel()
	<-entry.handle.Done()

	zap.S().Named("task_service").Infow("schedule cancelled", "schedule_id", id, "runs", entry.handle.Runs())

	sch := entry.toModel()
	return &sch, nil
}

func (e *scheduleEntry) toModel() models.Schedule {
	sch := models.Schedule{
		ID:           e.handle.ID(),
		Job:          e.job,
		InitialDelay: e.initialDelay,
		Interval:     e.handle.Interval(),
		Runs:         e.handle.Runs(),
		State:        models.ScheduleStateActive,
	}

	select {
	case <-e.handle.Done():
	default:
		return sch
	}

	err := e.handle.Err()
	switch {
	case srvErrors.IsCancelledError(err):
		sch.State = models.ScheduleStateCancelled
	case srvErrors.IsQueueClosedError(err):
		sch.State = models.ScheduleStateStopped
	default:
		sch.State = models.ScheduleStateFailed
	}
	if err != nil {
		sch.Error = err.Error()
	}
	return sch
}
