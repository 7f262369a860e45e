package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/internal/models"
)

// GetPool returns the pool statistics
// (GET /pool)
func (h *Handler) GetPool(c *gin.Context) {
	var status v1.PoolStatus
	status.FromModel(h.poolSrv.Status())
	c.JSON(http.StatusOK, status)
}

// ShutdownPool starts a graceful (default) or forced shutdown
// (POST /pool/shutdown)
func (h *Handler) ShutdownPool(c *gin.Context, params v1.ShutdownPoolParams) {
	mode := models.ShutdownModeGraceful
	if params.Mode != nil {
		mode = models.ShutdownMode(*params.Mode)
	}

	result, err := h.poolSrv.Shutdown(mode)
	if err != nil {
		respondError(c, "pool_handler", "failed to shut down the pool", err)
		return
	}

	c.JSON(http.StatusAccepted, v1.ShutdownResponse{
		Mode:      string(result.Mode),
		Discarded: result.Discarded,
	})
}
