package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/task-executor/internal/models"
	srvErrors "github.com/kubev2v/task-executor/pkg/errors"
)

// TaskStore persists the journal of task runs.
type TaskStore struct {
	db QueryInterceptor
}

func NewTaskStore(db QueryInterceptor) *TaskStore {
	return &TaskStore{db: db}
}

// Save inserts the run or updates its state, error, result and timestamps.
func (s *TaskStore) Save(ctx context.Context, run models.TaskRun) error {
	_, err := s.db.ExecContext(ctx, queryUpsertTaskRun,
		run.ID,
		run.Name,
		run.Kind,
		run.Trigger,
		run.RepeatingID,
		run.State,
		run.Error,
		run.Result,
		run.EnqueuedAt,
		run.ReleaseAt,
		nullTime(run.StartedAt),
		nullTime(run.CompletedAt),
	)
	return err
}

func (s *TaskStore) Get(ctx context.Context, id string) (*models.TaskRun, error) {
	query, args, err := sq.Select(taskRunColumns...).From("task_runs").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	run, err := scanTaskRun(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, srvErrors.NewTaskNotFoundError(id)
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *TaskStore) List(ctx context.Context, opts ...ListOption) ([]models.TaskRun, error) {
	builder := sq.Select(taskRunColumns...).From("task_runs")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.TaskRun
	for rows.Next() {
		run, err := scanTaskRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}

	return runs, rows.Err()
}

func (s *TaskStore) Count(ctx context.Context, opts ...ListOption) (int, error) {
	builder := sq.Select("COUNT(*)").From("task_runs")

	for _, opt := range opts {
		builder = opt(builder)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// CountByState returns the number of runs per state.
func (s *TaskStore) CountByState(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, queryCountByState)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			state string
			n     int
		)
		if err := rows.Scan(&state, &n); err != nil {
			return nil, err
		}
		counts[state] = n
	}
	return counts, rows.Err()
}

// DeleteFinishedBefore removes terminal runs completed before t and returns
// the number of deleted rows.
func (s *TaskStore) DeleteFinishedBefore(ctx context.Context, t time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, queryDeleteFinishedBefore, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTaskRun(row rowScanner) (*models.TaskRun, error) {
	var (
		run         models.TaskRun
		startedAt   sql.NullTime
		completedAt sql.NullTime
		result      sql.NullString
	)
	err := row.Scan(
		&run.ID,
		&run.Name,
		&run.Kind,
		&run.Trigger,
		&run.RepeatingID,
		&run.State,
		&run.Error,
		&result,
		&run.EnqueuedAt,
		&run.ReleaseAt,
		&startedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}
	run.Result = result.String
	if startedAt.Valid {
		run.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		run.CompletedAt = &completedAt.Time
	}
	return &run, nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

type ListOption func(sq.SelectBuilder) sq.SelectBuilder

func ByStates(states ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(states) == 0 {
			return b
		}
		return b.Where(sq.Eq{"state": states})
	}
}

func ByKinds(kinds ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(kinds) == 0 {
			return b
		}
		return b.Where(sq.Eq{"kind": kinds})
	}
}

func ByNames(names ...string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if len(names) == 0 {
			return b
		}
		return b.Where(sq.Eq{"name": names})
	}
}

func ByRepeatingID(id string) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		if id == "" {
			return b
		}
		return b.Where(sq.Eq{"repeating_id": id})
	}
}

func WithLimit(limit uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Limit(limit)
	}
}

func WithOffset(offset uint64) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.Offset(offset)
	}
}

type SortParam struct {
	Field string
	Desc  bool
}

var apiFieldToDBColumn = map[string]string{
	"name":        "name",
	"state":       "state",
	"kind":        "kind",
	"enqueuedAt":  "enqueued_at",
	"startedAt":   "started_at",
	"completedAt": "completed_at",
}

// WithDefaultSort orders runs by enqueue time, oldest first.
func WithDefaultSort() ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		return b.OrderBy("enqueued_at", "id")
	}
}

// WithSort applies multi-field sorting. Unknown fields are ignored and id is
// always appended as a tie-breaker.
func WithSort(sorts []SortParam) ListOption {
	return func(b sq.SelectBuilder) sq.SelectBuilder {
		var orderClauses []string
		for _, s := range sorts {
			col, ok := apiFieldToDBColumn[s.Field]
			if !ok {
				continue
			}
			if s.Desc {
				orderClauses = append(orderClauses, col+" DESC")
			} else {
				orderClauses = append(orderClauses, col+" ASC")
			}
		}
		if len(orderClauses) == 0 {
			return b.OrderBy("enqueued_at", "id")
		}
		return b.OrderBy(append(orderClauses, "id")...)
	}
}
