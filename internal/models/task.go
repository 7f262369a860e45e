package models

import "time"

// TaskRun is the journal record of one task. It is rewritten on every
// transition of the task.
type TaskRun struct {
	ID          string
	Name        string
	Kind        string
	Trigger     string
	RepeatingID string
	State       string
	Error       string
	Result      string
	EnqueuedAt  time.Time
	ReleaseAt   time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
}

func (t TaskRun) Terminal() bool {
	switch t.State {
	case "completed", "failed", "cancelled":
		return true
	}
	return false
}

// Duration is the running time of a finished task, zero otherwise.
func (t TaskRun) Duration() time.Duration {
	if t.StartedAt == nil || t.CompletedAt == nil {
		return 0
	}
	return t.CompletedAt.Sub(*t.StartedAt)
}
