// Package store implements the data access layer for the task executor.
//
// The store keeps a journal of task runs in DuckDB. Every state transition of
// a task rewrites its row, so the journal holds the latest known state of
// every task the scheduler has seen, including tasks that finished long ago.
//
// # Architecture Overview
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Store (facade)                          │
//	├─────────────────────────────────────────────────────────────────┤
//	│                          TaskStore                              │
//	│                              ▼                                  │
//	│                          task_runs                              │
//	├─────────────────────────────────────────────────────────────────┤
//	│                 QueryInterceptor (debug logging)                │
//	│                              ▼                                  │
//	│                     *sql.DB (duckdb driver)                     │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Data Sources
//
// Tables created by LOCAL MIGRATIONS (internal/store/migrations/sql/):
//
//	┌────────────────────┬─────────────────────────────────────────────┐
//	│  Table             │  Purpose                                    │
//	├────────────────────┼─────────────────────────────────────────────┤
//	│  task_runs         │  One row per task, latest state             │
//	│  schema_migrations │  Migration version tracking                 │
//	└────────────────────┴─────────────────────────────────────────────┘
//
// # Initialization Flow
//
//	db, _ := NewDB(path)        → ":memory:" opens an in-memory database
//	s := NewStore(db)
//	    └── Initializes all sub-stores with QueryInterceptor
//	s.Migrate(ctx)
//	    └── migrations.Run()    → Creates task_runs
//
// # TaskStore
//
// Schema:
//
//	task_runs (
//	    id VARCHAR PRIMARY KEY,
//	    name VARCHAR,            -- catalogue job name
//	    kind VARCHAR,            -- action | computation
//	    trigger_type VARCHAR,    -- immediate | delayed | fixed-rate
//	    repeating_id VARCHAR,    -- schedule id of fixed-rate instances
//	    state VARCHAR,           -- pending | running | completed | failed | cancelled
//	    error_message VARCHAR,
//	    result VARCHAR,          -- formatted value of a completed computation
//	    enqueued_at TIMESTAMP,
//	    release_at TIMESTAMP,
//	    started_at TIMESTAMP,
//	    completed_at TIMESTAMP
//	)
//
// Methods:
//   - Save(ctx, run) → error (uses UPSERT, keeps identity columns)
//   - Get(ctx, id) → *models.TaskRun or ResourceNotFoundError
//   - List(ctx, opts...) / Count(ctx, opts...)
//   - CountByState(ctx) → map[state]count
//   - DeleteFinishedBefore(ctx, t) → number of pruned terminal runs
//
// List Options:
//
// TaskStore.List uses the functional options pattern. Each ListOption is a
// function that modifies the SQL query builder:
//
//	runs, err := store.Tasks().List(ctx,
//	    store.ByStates("failed", "cancelled"),
//	    store.ByRepeatingID(scheduleID),
//	    store.WithSort([]store.SortParam{{Field: "enqueuedAt", Desc: true}}),
//	    store.WithLimit(50),
//	    store.WithOffset(0),
//	)
//
// Filtering options (ByStates, ByKinds, ByNames, ByRepeatingID) are no-ops
// when given no value. Multiple values use OR logic.
//
// Sort Field Mapping:
//
//	┌──────────────┬─────────────────┐
//	│  API Field   │  Column         │
//	├──────────────┼─────────────────┤
//	│  name        │  name           │
//	│  state       │  state          │
//	│  kind        │  kind           │
//	│  enqueuedAt  │  enqueued_at    │
//	│  startedAt   │  started_at     │
//	│  completedAt │  completed_at   │
//	└──────────────┴─────────────────┘
//
// id is always appended as tie-breaker.
//
// # QueryInterceptor
//
// All database operations are wrapped with a QueryInterceptor that logs the
// statement, its arguments and its duration at debug level.
//
// Logged operations:
//   - QueryRowContext
//   - QueryContext
//   - ExecContext
package store
