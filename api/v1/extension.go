package v1

import (
	"time"

	"github.com/kubev2v/task-executor/internal/models"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

func (p *PoolStatus) FromModel(m models.PoolStatus) {
	p.Stage = m.Stage
	p.PoolSize = m.PoolSize
	p.QueueCapacity = m.QueueCapacity
	p.Queued = m.Queued
	p.Active = m.Active
	p.Submitted = m.Submitted
	p.Completed = m.Completed
	p.Failed = m.Failed
	p.Cancelled = m.Cancelled
}

// NewTaskFromModel converts a models.TaskRun to an API Task.
func NewTaskFromModel(run models.TaskRun) Task {
	t := Task{
		Id:          run.ID,
		Name:        run.Name,
		Kind:        run.Kind,
		Trigger:     run.Trigger,
		State:       run.State,
		EnqueuedAt:  run.EnqueuedAt,
		ReleaseAt:   run.ReleaseAt,
		StartedAt:   run.StartedAt,
		CompletedAt: run.CompletedAt,
	}

	if run.RepeatingID != "" {
		t.ScheduleId = &run.RepeatingID
	}
	if run.Result != "" {
		t.Result = &run.Result
	}
	if run.Error != "" {
		t.Error = &run.Error
	}
	if run.StartedAt != nil && run.CompletedAt != nil {
		ms := run.Duration().Milliseconds()
		t.DurationMs = &ms
	}

	return t
}

func NewScheduleFromModel(s models.Schedule) Schedule {
	sch := Schedule{
		Id:           s.ID,
		Job:          s.Job,
		InitialDelay: s.InitialDelay.String(),
		Interval:     s.Interval.String(),
		Runs:         s.Runs,
		State:        string(s.State),
	}
	if s.Error != "" {
		sch.Error = &s.Error
	}
	return sch
}

func NewBatchFromModel(b models.BatchResult) BatchResponse {
	resp := BatchResponse{
		Mode:     string(b.Mode),
		Outcomes: make([]BatchOutcome, 0, len(b.Outcomes)),
	}
	if b.Winner >= 0 {
		winner := b.Winner
		resp.Winner = &winner
	}
	for _, o := range b.Outcomes {
		out := BatchOutcome{TaskId: o.TaskID, State: o.State}
		if o.Result != "" {
			result := o.Result
			out.Result = &result
		}
		if o.Error != "" {
			e := o.Error
			out.Error = &e
		}
		resp.Outcomes = append(resp.Outcomes, out)
	}
	return resp
}

func (r JobRequest) ToModel() models.JobRequest {
	return models.JobRequest{Job: r.Job, Params: r.Params}
}

// ParseDuration parses an optional Go duration. The empty string is zero.
func ParseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, srvErrors.NewInvalidArgumentError("%s %q is not a duration", field, value)
	}
	return d, nil
}

func (r CreateTaskRequest) Validate() error {
	if r.Job == "" {
		return srvErrors.NewInvalidArgumentError("job is required")
	}
	return nil
}

func (r CreateScheduleRequest) Validate() error {
	if r.Job == "" {
		return srvErrors.NewInvalidArgumentError("job is required")
	}
	if r.Interval == "" {
		return srvErrors.NewInvalidArgumentError("interval is required")
	}
	return nil
}

// Validate checks the mode and that every job is named.
func (r BatchRequest) Validate() error {
	switch r.Mode {
	case BatchRequestModeAny, BatchRequestModeAll:
	default:
		return srvErrors.NewInvalidArgumentError("mode %q is not one of any, all", r.Mode)
	}
	if len(r.Jobs) == 0 {
		return srvErrors.NewInvalidArgumentError("jobs must not be empty")
	}
	for i, j := range r.Jobs {
		if j.Job == "" {
			return srvErrors.NewInvalidArgumentError("jobs[%d].job is required", i)
		}
	}
	return nil
}
