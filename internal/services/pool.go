package services

import (
	"go.uber.org/zap"

	"github.com/kubev2v/task-executor/internal/models"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
	"github.com/kubev2v/task-executor/pkg/scheduler"
)

type PoolService struct {
	scheduler *scheduler.Scheduler
}

func NewPoolService(s *scheduler.Scheduler) *PoolService {
	return &PoolService{scheduler: s}
}

func (p *PoolService) Status() models.PoolStatus {
	st := p.scheduler.Stats()
	return models.PoolStatus{
		Stage:         string(st.Stage),
		PoolSize:      st.PoolSize,
		QueueCapacity: st.QueueCapacity,
		Queued:        st.Queued,
		Active:        st.Active,
		Submitted:     st.Submitted,
		Completed:     st.Completed,
		Failed:        st.Failed,
		Cancelled:     st.Cancelled,
	}
}

// Shutdown starts a graceful or forced shutdown and returns immediately.
// Repeated calls are accepted; a forced shutdown after a graceful one
// cancels what is left.
func (p *PoolService) Shutdown(mode models.ShutdownMode) (*models.ShutdownResult, error) {
	result := &models.ShutdownResult{Mode: mode, Discarded: []string{}}

	switch mode {
	case models.ShutdownModeGraceful:
		p.scheduler.ShutdownGraceful()
	case models.ShutdownModeForce:
		result.Discarded = p.scheduler.ShutdownForce()
	default:
		return nil, srvErrors.NewInvalidArgumentError("unknown shutdown mode %q", mode)
	}

	zap.S().Named("pool_service").Infow("shutdown requested", "mode", mode, "discarded", len(result.Discarded))
	return result, nil
}
