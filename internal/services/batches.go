package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/models"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

type BatchParams struct {
	Mode    models.BatchMode
	Jobs    []models.JobRequest
	Timeout time.Duration
}

// RunBatch submits every job and waits for the first one (any) or for all of
// them (all). A batch never cancels its tasks: when the wait times out the
// tasks keep running and can be looked up by id.
func (s *TaskService) RunBatch(ctx context.Context, params BatchParams) (*models.BatchResult, error) {
	if len(params.Jobs) == 0 {
		return nil, srvErrors.NewInvalidArgumentError("a batch needs at least one job")
	}
	if params.Mode != models.BatchModeAny && params.Mode != models.BatchModeAll {
		return nil, srvErrors.NewInvalidArgumentError("unknown batch mode %q", params.Mode)
	}
	if params.Timeout < 0 {
		return nil, srvErrors.NewInvalidArgumentError("timeout must not be negative")
	}

	works := make([]scheduler.Work[any], 0, len(params.Jobs))
	for _, req := range params.Jobs {
		_, work, err := s.catalogue.Build(req)
		if err != nil {
			return nil, err
		}
		works = append(works, work)
	}

	futures := make([]*scheduler.Future[any], 0, len(works))
	for i, work := range works {
		f, err := scheduler.Submit(ctx, s.scheduler, work, scheduler.WithName(params.Jobs[i].Job))
		if err != nil {
			for _, submitted := range futures {
				submitted.Cancel()
			}
			return nil, fmt.Errorf("failed to submit job %d of the batch: %w", i, err)
		}
		s.register(f)
		futures = append(futures, f)
	}

	zap.S().Named("task_service").Infow("batch submitted", "mode", params.Mode, "tasks", len(futures))

	if params.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, params.Timeout)
		defer cancel()
	}

	result := &models.BatchResult{Mode: params.Mode, Winner: -1}

	switch params.Mode {
	case models.BatchModeAny:
		idx, res, err := scheduler.WaitAny(ctx, futures...)
		if err != nil {
			return nil, err
		}
		result.Winner = idx
		result.Outcomes = []models.BatchOutcome{newBatchOutcome(futures[idx].ID(), res)}
	case models.BatchModeAll:
		results, err := scheduler.WaitAll(ctx, futures...)
		if err != nil {
			return nil, err
		}
		result.Outcomes = make([]models.BatchOutcome, 0, len(results))
		for i, res := range results {
			result.Outcomes = append(result.Outcomes, newBatchOutcome(futures[i].ID(), res))
		}
	}

	return result, nil
}

func newBatchOutcome(id string, res scheduler.Result[any]) models.BatchOutcome {
	out := models.BatchOutcome{TaskID: id, State: string(res.State)}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	if res.State == scheduler.StateCompleted && res.Data != nil {
		out.Result = fmt.Sprintf("%v", res.Data)
	}
	return out
}
