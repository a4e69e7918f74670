// Package store persists task-run rows. All lifecycle writes go through one
// upsert path whose per-transition column lists live in reconcile.go; the
// database's unique (task_id, run_id) constraint is the only serialization
// point, so concurrent and out-of-order writers stay safe without locks.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the SQL placeholder style. The store itself is portable
// across sqlite and Postgres; everything else in the generated SQL is common
// to both.
type Dialect int

const (
	DialectSQLite Dialect = iota
	DialectPostgres
)

func (d Dialect) placeholder(i int) string {
	if d == DialectPostgres {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// Store writes and reads task-run rows. Safe for concurrent use.
type Store struct {
	db      *sql.DB
	dialect Dialect
}

// New creates a store over db.
func New(db *sql.DB, dialect Dialect) *Store {
	return &Store{db: db, dialect: dialect}
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS tasks (
    task_id          TEXT    NOT NULL,
    run_id           INTEGER NOT NULL,
    state            TEXT    NOT NULL,
    created          TIMESTAMP NULL,
    scheduled        TIMESTAMP NULL,
    started          TIMESTAMP NULL,
    resolved         TIMESTAMP NULL,
    source           TEXT    NULL,
    owner            TEXT    NULL,
    project          TEXT    NULL,
    revision         TEXT    NULL,
    push_id          TEXT    NULL,
    scheduler        TEXT    NULL,
    provisioner      TEXT    NULL,
    worker_type      TEXT    NULL,
    worker_id        TEXT    NULL,
    worker_group     TEXT    NULL,
    platform         TEXT    NULL,
    job_kind         TEXT    NULL,
    exception_reason TEXT    NULL,
    duration         BIGINT  NULL,
    CONSTRAINT dup_task_run UNIQUE (task_id, run_id)
);
`

// EnsureSchema applies the tasks table schema if it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("nil db")
	}
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
