// Package handlers implements the HTTP API layer for the task executor.
//
// Handlers delegate to the services layer and focus on request validation,
// response formatting and HTTP semantics.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                     HTTP Request (Gin)                          │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Handler (this package)                     │
//	│  - Request binding and duration parsing                         │
//	│  - Error mapping to HTTP status codes                           │
//	│  - Model-to-API conversion                                      │
//	└─────────────────────────────────────────────────────────────────┘
//	                              │
//	                              ▼
//	┌─────────────────────────────────────────────────────────────────┐
//	│                      Services Layer                             │
//	│  TaskService │ PoolService │ ReportService                      │
//	└─────────────────────────────────────────────────────────────────┘
//
// The Handler implements v1.ServerInterface, generated with oapi-codegen from
// api/v1/openapi.yaml into api/v1/spec.gen.go. The generated wrapper binds
// path and query parameters with oapi-codegen/runtime; bind failures are
// answered with a 400 ErrorResponse. Handlers decode and validate JSON
// bodies themselves. The Handler is mounted on the /api/v1 group with:
//
//	server.NewServer(cfg, registry, handlers.RegisterHandlers(h))
//
// # API Endpoints
//
// Pool Endpoints (pool.go):
//
//	┌────────┬────────────────┬──────────────────────────────────────────┐
//	│ Method │ Endpoint       │ Description                              │
//	├────────┼────────────────┼──────────────────────────────────────────┤
//	│ GET    │ /pool          │ Stage, size, queue and task counters     │
//	│ POST   │ /pool/shutdown │ ?mode=graceful (default) or force        │
//	└────────┴────────────────┴──────────────────────────────────────────┘
//
// Task Endpoints (tasks.go):
//
//	┌────────┬───────────────┬───────────────────────────────────────────┐
//	│ Method │ Endpoint      │ Description                               │
//	├────────┼───────────────┼───────────────────────────────────────────┤
//	│ GET    │ /jobs         │ Names of the submittable jobs             │
//	│ GET    │ /tasks        │ Journal with filtering/pagination         │
//	│ POST   │ /tasks        │ Submit a job, optionally delayed          │
//	│ GET    │ /tasks/export │ Journal as an XLSX workbook               │
//	│ GET    │ /tasks/{id}   │ Task state, ?wait=2s waits for the end    │
//	│ DELETE │ /tasks/{id}   │ Cancel a queued or running task           │
//	└────────┴───────────────┴───────────────────────────────────────────┘
//
// Schedule Endpoints (schedules.go):
//
//	┌────────┬─────────────────┬─────────────────────────────────────────┐
//	│ Method │ Endpoint        │ Description                             │
//	├────────┼─────────────────┼─────────────────────────────────────────┤
//	│ GET    │ /schedules      │ List fixed-rate schedules               │
//	│ POST   │ /schedules      │ Start a fixed-rate schedule             │
//	│ GET    │ /schedules/{id} │ Schedule state and run count            │
//	│ DELETE │ /schedules/{id} │ Stop a schedule                         │
//	└────────┴─────────────────┴─────────────────────────────────────────┘
//
// Batch Endpoints (batches.go):
//
//	┌────────┬──────────┬────────────────────────────────────────────────┐
//	│ Method │ Endpoint │ Description                                    │
//	├────────┼──────────┼────────────────────────────────────────────────┤
//	│ POST   │ /batches │ Run jobs, wait for the first (any) or all      │
//	└────────┴──────────┴────────────────────────────────────────────────┘
//
// # Task Handler
//
// POST /tasks:
//
//	{
//	    "job": "sleep",
//	    "params": { "duration": "2s", "retries": "3" },
//	    "delay": "10s"
//	}
//
// Response: 202 Accepted with the pending task.
//
// GET /tasks query parameters:
//
//	┌────────────┬──────────┬─────────────────────────────────────────────┐
//	│ Parameter  │ Type     │ Description                                 │
//	├────────────┼──────────┼─────────────────────────────────────────────┤
//	│ state      │ []string │ Filter by state (OR logic)                  │
//	│ kind       │ []string │ Filter by kind: action, computation         │
//	│ name       │ []string │ Filter by job name                          │
//	│ scheduleId │ string   │ Instances of one schedule                   │
//	│ sort       │ []string │ "field" or "field:desc"                     │
//	│ page       │ int      │ Page number (default: 1, max: 2^31-1)       │
//	│ pageSize   │ int      │ Items per page (default: 20, max: 100)      │
//	└────────────┴──────────┴─────────────────────────────────────────────┘
//
// Valid sort fields: name, state, kind, enqueuedAt, startedAt, completedAt.
// Sort entries may be repeated or comma separated.
//
// # Error Handling
//
// Errors are answered as { "error": "message" }:
//
//	┌─────────────────────────────┬────────┬──────────────────────────────┐
//	│ Error Type                  │ Status │ When                         │
//	├─────────────────────────────┼────────┼──────────────────────────────┤
//	│ Binding / InvalidArgument   │ 400    │ Bad body, duration or mode   │
//	│ UnknownJobError             │ 400    │ Job not in the catalogue     │
//	│ ResourceNotFoundError       │ 404    │ Unknown task or schedule     │
//	│ QueueFullError              │ 429    │ Queue full, reject policy    │
//	│ QueueClosedError            │ 503    │ Pool is shutting down        │
//	│ TimeoutError                │ 504    │ Batch timeout elapsed        │
//	│ Internal error              │ 500    │ Unexpected service errors    │
//	└─────────────────────────────┴────────┴──────────────────────────────┘
package handlers
