// Package services implements the business logic layer of the task executor.
//
// Services sit between the HTTP handlers and the scheduler/store. They turn
// named job requests into scheduler work, keep track of live futures and
// schedules, and answer for finished tasks from the journal.
//
// # Service Dependency Graph
//
//	Handlers (HTTP endpoints)
//	    │
//	    ▼
//	Services Layer
//	    ├── TaskService ────► Scheduler, Catalogue, Journal, Store
//	    ├── PoolService ────► Scheduler
//	    └── ReportService ──► Store
//
//	Scheduler ──observer──► Journal ──► Store (task_runs)
//
// # Catalogue
//
// Jobs are submitted by name. The catalogue maps a name to a kind (action or
// computation) and a builder that turns the request parameters into a
// scheduler.Work. Built-in jobs:
//
//	┌───────────────┬─────────────┬───────────────────────────────────────┐
//	│ Job           │ Kind        │ Parameters                            │
//	├───────────────┼─────────────┼───────────────────────────────────────┤
//	│ sleep         │ action      │ duration (default 1s)                 │
//	│ echo          │ computation │ message                               │
//	│ fail          │ computation │ message                               │
//	│ flaky         │ computation │ failures (default 1), message         │
//	│ prune-journal │ action      │ retention (registered by the command) │
//	└───────────────┴─────────────┴───────────────────────────────────────┘
//
// Every job also accepts "retries" and "backoff": the work is then wrapped in
// scheduler.Retry with an exponential back-off starting at "backoff".
//
// # Journal
//
// Journal is a scheduler.Observer. Observe pushes every transition onto a
// buffered channel; a single goroutine writes them to the task_runs table in
// order. When the buffer is full Observe blocks, which slows the workers down
// rather than losing transitions. Stop drains the buffer.
//
// Subscribers are called after each write. TaskService subscribes to drop a
// finished task from its live set once its terminal row is stored.
//
// # TaskService
//
// Submission:
//
//	delay == 0, action       → Scheduler.Execute
//	delay == 0, computation  → scheduler.Submit
//	delay  > 0, action       → Scheduler.ScheduleAfter
//	delay  > 0, computation  → scheduler.SubmitAfter
//
// Lookups go to the live future first, then to the journal. Get can wait for
// a live task to finish. Cancel is a no-op for finished tasks and refused for
// an instance of a schedule (cancel the schedule instead).
//
// Schedules are fixed-rate repeating futures kept in memory; their instances
// are journaled with the schedule id as repeating_id. A schedule ends as:
//
//	cancelled  CancelSchedule was called
//	failed     an instance failed
//	stopped    the pool shut down
//
// Batches submit several jobs and wait for the first (mode "any", WaitAny)
// or for all of them (mode "all", WaitAll). A batch timeout only bounds the
// wait; the tasks keep running.
//
// # PoolService
//
// Status reports scheduler.Stats. Shutdown starts a graceful or forced
// shutdown and returns at once; a forced shutdown returns the ids of the
// discarded queued tasks.
//
// # ReportService
//
// Export writes the journal as an XLSX workbook with a "Tasks" sheet (one row
// per run, same filters as the list endpoint) and a "Summary" sheet (count
// per state).
package services
