package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	v1 "github.com/kubev2v/task-executor/api/v1"
)

const apiV1Path = "/api/v1"

// ExecutorSvc is an HTTP client for the executor API.
type ExecutorSvc struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewExecutorService(baseURL string) *ExecutorSvc {
	return &ExecutorSvc{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// WithToken returns a client that sends token as a bearer token.
func (s *ExecutorSvc) WithToken(token string) *ExecutorSvc {
	return &ExecutorSvc{baseURL: s.baseURL, token: token, client: s.client}
}

// Health returns the status code of /health.
func (s *ExecutorSvc) Health() (int, error) {
	return s.do(http.MethodGet, "/health", nil, nil)
}

func (s *ExecutorSvc) Pool() (*v1.PoolStatus, int, error) {
	var out v1.PoolStatus
	code, err := s.do(http.MethodGet, apiV1Path+"/pool", nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) Shutdown(mode string) (*v1.ShutdownResponse, int, error) {
	var out v1.ShutdownResponse
	code, err := s.do(http.MethodPost, apiV1Path+"/pool/shutdown?mode="+url.QueryEscape(mode), nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) SubmitTask(req v1.CreateTaskRequest) (*v1.Task, int, error) {
	var out v1.Task
	code, err := s.do(http.MethodPost, apiV1Path+"/tasks", req, &out)
	return &out, code, err
}

func (s *ExecutorSvc) GetTask(id string, wait time.Duration) (*v1.Task, int, error) {
	var out v1.Task
	path := fmt.Sprintf("%s/tasks/%s?wait=%s", apiV1Path, url.PathEscape(id), wait)
	code, err := s.do(http.MethodGet, path, nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) CancelTask(id string) (*v1.CancelResponse, int, error) {
	var out v1.CancelResponse
	code, err := s.do(http.MethodDelete, apiV1Path+"/tasks/"+url.PathEscape(id), nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) ListTasks(query url.Values) (*v1.TaskListResponse, int, error) {
	var out v1.TaskListResponse
	code, err := s.do(http.MethodGet, apiV1Path+"/tasks?"+query.Encode(), nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) CreateSchedule(req v1.CreateScheduleRequest) (*v1.Schedule, int, error) {
	var out v1.Schedule
	code, err := s.do(http.MethodPost, apiV1Path+"/schedules", req, &out)
	return &out, code, err
}

func (s *ExecutorSvc) GetSchedule(id string) (*v1.Schedule, int, error) {
	var out v1.Schedule
	code, err := s.do(http.MethodGet, apiV1Path+"/schedules/"+url.PathEscape(id), nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) CancelSchedule(id string) (*v1.Schedule, int, error) {
	var out v1.Schedule
	code, err := s.do(http.MethodDelete, apiV1Path+"/schedules/"+url.PathEscape(id), nil, &out)
	return &out, code, err
}

func (s *ExecutorSvc) RunBatch(req v1.BatchRequest) (*v1.BatchResponse, int, error) {
	var out v1.BatchResponse
	code, err := s.do(http.MethodPost, apiV1Path+"/batches", req, &out)
	return &out, code, err
}

// do sends the request and decodes a 2xx JSON body into out.
func (s *ExecutorSvc) do(method, path string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, s.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	zap.S().Named("e2e").Debugw("api call", "method", method, "path", path, "status", resp.StatusCode)

	if out == nil || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode, nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return resp.StatusCode, fmt.Errorf("decoding response: %w", err)
	}
	return resp.StatusCode, nil
}
