package store

// Task run queries
const (
	queryUpsertTaskRun = `
		INSERT INTO task_runs (
			id, name, kind, trigger_type, repeating_id, state, error_message, result,
			enqueued_at, release_at, started_at, completed_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			state = EXCLUDED.state,
			error_message = EXCLUDED.error_message,
			result = EXCLUDED.result,
			started_at = EXCLUDED.started_at,
			completed_at = EXCLUDED.completed_at`

	queryDeleteFinishedBefore = `
		DELETE FROM task_runs
		WHERE state IN ('completed', 'failed', 'cancelled') AND completed_at < ?`

	queryCountByState = `SELECT state, COUNT(*) FROM task_runs GROUP BY state`
)

var taskRunColumns = []string{
	"id",
	"name",
	"kind",
	"trigger_type",
	"repeating_id",
	"state",
	"error_message",
	"result",
	"enqueued_at",
	"release_at",
	"started_at",
	"completed_at",
}
