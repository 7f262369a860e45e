package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/internal/services"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

type Handler struct {
	taskSrv   *services.TaskService
	poolSrv   *services.PoolService
	reportSrv *services.ReportService
}

func New(taskSrv *services.TaskService, poolSrv *services.PoolService, reportSrv *services.ReportService) *Handler {
	return &Handler{
		taskSrv:   taskSrv,
		poolSrv:   poolSrv,
		reportSrv: reportSrv,
	}
}

// RegisterHandlers is the registerHandlerFn handed to server.NewServer.
func RegisterHandlers(h *Handler) func(*gin.RouterGroup) {
	return func(router *gin.RouterGroup) {
		v1.RegisterHandlersWithOptions(router, h, v1.GinServerOptions{
			ErrorHandler: bindError,
		})
	}
}

// bindError answers path and query parameters the generated wrapper could
// not bind.
func bindError(c *gin.Context, err error, status int) {
	c.JSON(status, v1.ErrorResponse{Error: err.Error()})
}

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case srvErrors.IsResourceNotFoundError(err):
		return http.StatusNotFound
	case srvErrors.IsInvalidArgumentError(err),
		srvErrors.IsUnknownJobError(err),
		srvErrors.IsInvalidConfigurationError(err):
		return http.StatusBadRequest
	case srvErrors.IsQueueFullError(err):
		return http.StatusTooManyRequests
	case srvErrors.IsQueueClosedError(err):
		return http.StatusServiceUnavailable
	case srvErrors.IsTimeoutError(err), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a JSON error. Unexpected errors are logged and
// answered with msg instead of the error text.
func respondError(c *gin.Context, logger string, msg string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		zap.S().Named(logger).Errorw(msg, "error", err)
		c.JSON(status, v1.ErrorResponse{Error: msg})
		return
	}
	c.JSON(status, v1.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, v1.ErrorResponse{Error: err.Error()})
}
