package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/services"
)

// ListSchedules returns every fixed-rate schedule
// (GET /schedules)
func (h *Handler) ListSchedules(c *gin.Context) {
	schedules := h.taskSrv.ListSchedules()

	resp := v1.ScheduleList{Schedules: make([]v1.Schedule, 0, len(schedules))}
	for _, s := range schedules {
		resp.Schedules = append(resp.Schedules, v1.NewScheduleFromModel(s))
	}

	c.JSON(http.StatusOK, resp)
}

// CreateSchedule starts a fixed-rate schedule of a catalogue job
// (POST /schedules)
func (h *Handler) CreateSchedule(c *gin.Context) {
	var req v1.CreateScheduleJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	initialDelay, err := v1.ParseDuration("initialDelay", req.InitialDelay)
	if err != nil {
		badRequest(c, err)
		return
	}
	interval, err := v1.ParseDuration("interval", req.Interval)
	if err != nil {
		badRequest(c, err)
		return
	}

	schedule, err := h.taskSrv.CreateSchedule(services.ScheduleParams{
		Job:          models.JobRequest{Job: req.Job, Params: req.Params},
		InitialDelay: initialDelay,
		Interval:     interval,
	})
	if err != nil {
		respondError(c, "schedule_handler", "failed to create schedule", err)
		return
	}

	c.JSON(http.StatusCreated, v1.NewScheduleFromModel(*schedule))
}

// GetSchedule returns a schedule
// (GET /schedules/{id})
func (h *Handler) GetSchedule(c *gin.Context, id string) {
	schedule, err := h.taskSrv.GetSchedule(id)
	if err != nil {
		respondError(c, "schedule_handler", "failed to get schedule", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewScheduleFromModel(*schedule))
}

// CancelSchedule stops a schedule from firing again
// (DELETE /schedules/{id})
func (h *Handler) CancelSchedule(c *gin.Context, id string) {
	schedule, err := h.taskSrv.CancelSchedule(id)
	if err != nil {
		respondError(c, "schedule_handler", "failed to cancel schedule", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewScheduleFromModel(*schedule))
}
