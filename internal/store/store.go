package store

import (
	"context"
	"database/sql"

	"github.com/kubev2v/task-executor/internal/store/migrations"
)

// Store provides access to all storage repositories.
type Store struct {
	db    *sql.DB
	tasks *TaskStore
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:    db,
		tasks: NewTaskStore(NewQueryInterceptor(db)),
	}
}

func (s *Store) Tasks() *TaskStore {
	return s.tasks
}

// Migrate applies the schema migrations.
func (s *Store) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, s.db)
}

func (s *Store) Close() error {
	return s.db.Close()
}
