package services

import (
	"fmt"
	"time"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

func newTaskRun(info scheduler.TaskInfo) models.TaskRun {
	run := models.TaskRun{
		ID:          info.ID,
		Name:        info.Name,
		Kind:        string(info.Kind),
		Trigger:     string(info.Trigger),
		RepeatingID: info.RepeatingID,
		State:       string(info.State),
		EnqueuedAt:  info.EnqueuedAt,
		ReleaseAt:   info.ReleaseAt,
		StartedAt:   timePtr(info.StartedAt),
		CompletedAt: timePtr(info.CompletedAt),
	}
	if info.Err != nil {
		run.Error = info.Err.Error()
	}
	if info.State == scheduler.StateCompleted && info.Kind == scheduler.KindComputation && info.Result != nil {
		run.Result = fmt.Sprintf("%v", info.Result)
	}
	return run
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
