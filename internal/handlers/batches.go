package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/services"
)

// RunBatch submits several jobs and waits for the first (any) or all of them
// (POST /batches)
func (h *Handler) RunBatch(c *gin.Context) {
	var req v1.RunBatchJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	timeout, err := v1.ParseDuration("timeout", req.Timeout)
	if err != nil {
		badRequest(c, err)
		return
	}

	jobs := make([]models.JobRequest, 0, len(req.Jobs))
	for _, j := range req.Jobs {
		jobs = append(jobs, j.ToModel())
	}

	result, err := h.taskSrv.RunBatch(c.Request.Context(), services.BatchParams{
		Mode:    models.BatchMode(req.Mode),
		Jobs:    jobs,
		Timeout: timeout,
	})
	if err != nil {
		respondError(c, "batch_handler", "failed to run batch", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewBatchFromModel(*result))
}
