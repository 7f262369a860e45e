package handlers

import (
	"bytes"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	v1 "github.com/kubev2v/task-executor/api/v1"
	"github.com/kubev2v/task-executor/internal/models"
	"github.com/kubev2v/task-executor/internal/services"
	"github.com/kubev2v/task-executor/internal/store"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*pageSize well inside the journal's BIGINT offset.
	maxPage = math.MaxInt32

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// ListJobs returns the names of the jobs that can be submitted
// (GET /jobs)
func (h *Handler) ListJobs(c *gin.Context) {
	c.JSON(http.StatusOK, v1.JobList{Jobs: h.taskSrv.Jobs()})
}

// ListTasks returns the task journal with filtering and pagination
// (GET /tasks)
func (h *Handler) ListTasks(c *gin.Context, params v1.ListTasksParams) {
	page := 1
	if params.Page > 0 {
		page = params.Page
	}
	if page > maxPage {
		badRequest(c, srvErrors.NewInvalidArgumentError("page must not exceed %d", maxPage))
		return
	}
	pageSize := defaultPageSize
	if params.PageSize > 0 {
		pageSize = min(params.PageSize, maxPageSize)
	}

	svcParams := listParams(params.State, params.Kind, params.Name, params.ScheduleId, params.Sort)
	svcParams.Limit = uint64(pageSize)
	svcParams.Offset = uint64(page-1) * uint64(pageSize)

	result, err := h.taskSrv.List(c.Request.Context(), svcParams)
	if err != nil {
		respondError(c, "task_handler", "failed to list tasks", err)
		return
	}

	pageCount := (result.Total + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}

	tasks := make([]v1.Task, 0, len(result.Runs))
	for _, run := range result.Runs {
		tasks = append(tasks, v1.NewTaskFromModel(run))
	}

	c.JSON(http.StatusOK, v1.TaskListResponse{
		Page:      page,
		PageCount: pageCount,
		Total:     result.Total,
		Tasks:     tasks,
	})
}

// CreateTask submits a catalogue job, optionally delayed
// (POST /tasks)
func (h *Handler) CreateTask(c *gin.Context) {
	var req v1.CreateTaskJSONRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := req.Validate(); err != nil {
		badRequest(c, err)
		return
	}

	delay, err := v1.ParseDuration("delay", req.Delay)
	if err != nil {
		badRequest(c, err)
		return
	}

	run, err := h.taskSrv.Submit(c.Request.Context(), services.SubmitParams{
		Job:   models.JobRequest{Job: req.Job, Params: req.Params},
		Delay: delay,
	})
	if err != nil {
		respondError(c, "task_handler", "failed to submit task", err)
		return
	}

	c.JSON(http.StatusAccepted, v1.NewTaskFromModel(*run))
}

// ExportTasks returns the task journal as an XLSX workbook
// (GET /tasks/export)
func (h *Handler) ExportTasks(c *gin.Context, params v1.ExportTasksParams) {
	var buf bytes.Buffer
	filter := listParams(params.State, params.Kind, params.Name, params.ScheduleId, params.Sort)
	if err := h.reportSrv.Export(c.Request.Context(), &buf, filter); err != nil {
		respondError(c, "task_handler", "failed to export tasks", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="tasks.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// GetTask returns a task, waiting for it to finish when wait is set
// (GET /tasks/{id})
func (h *Handler) GetTask(c *gin.Context, id string, params v1.GetTaskParams) {
	wait, err := v1.ParseDuration("wait", params.Wait)
	if err != nil {
		badRequest(c, err)
		return
	}

	run, err := h.taskSrv.Get(c.Request.Context(), id, wait)
	if err != nil {
		respondError(c, "task_handler", "failed to get task", err)
		return
	}

	c.JSON(http.StatusOK, v1.NewTaskFromModel(*run))
}

// CancelTask cancels a queued or running task
// (DELETE /tasks/{id})
func (h *Handler) CancelTask(c *gin.Context, id string) {
	cancelled, err := h.taskSrv.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, "task_handler", "failed to cancel task", err)
		return
	}

	c.JSON(http.StatusOK, v1.CancelResponse{Id: id, Cancelled: cancelled})
}

func listParams(states, kinds, names []string, scheduleID string, sort []string) services.TaskListParams {
	return services.TaskListParams{
		States:      states,
		Kinds:       kinds,
		Names:       names,
		RepeatingID: scheduleID,
		Sort:        parseSort(sort),
	}
}

// parseSort converts "field" and "field:desc" entries, comma separated or
// repeated, to journal sort params.
func parseSort(values []string) []store.SortParam {
	var result []store.SortParam
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			field, dir, _ := strings.Cut(strings.TrimSpace(part), ":")
			if field == "" {
				continue
			}
			result = append(result, store.SortParam{Field: field, Desc: strings.EqualFold(dir, "desc")})
		}
	}
	return result
}
