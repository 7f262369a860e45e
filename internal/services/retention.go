package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/store"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

const (
	PruneJobName = "prune-journal"

	paramRetention = "retention"
)

// RegisterPruneJob adds the prune-journal action to c. The job deletes
// finished runs completed more than "retention" ago.
func RegisterPruneJob(c *Catalogue, st *store.Store) {
	c.Register(PruneJobName, Job{
		Kind: scheduler.KindAction,
		Build: func(params map[string]string) (scheduler.Work[any], error) {
			retention, err := durationParam(params, paramRetention, 0)
			if err != nil {
				return nil, err
			}
			if retention == 0 {
				return nil, srvErrors.NewInvalidArgumentError("%s must be greater than zero", paramRetention)
			}
			return func(ctx context.Context) (any, error) {
				deleted, err := st.Tasks().DeleteFinishedBefore(ctx, time.Now().Add(-retention))
				if err != nil {
					return nil, err
				}
				if deleted > 0 {
					zap.S().Named("journal").Infow("pruned finished task runs", "deleted", deleted, "retention", retention)
				}
				return nil, nil
			}, nil
		},
	})
}

// StartPruning schedules prune-journal every interval.
func (s *TaskService) StartPruning(retention, interval time.Duration) (*models.Schedule, error) {
	return s.CreateSchedule(ScheduleParams{
		Job: models.JobRequest{
			Job:    PruneJobName,
			Params: map[string]string{paramRetention: retention.String()},
		},
		Interval: interval,
	})
}
