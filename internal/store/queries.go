package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by GetRun when no row exists for the key.
var ErrNotFound = errors.New("task run not found")

func (s *Store) selectSQL(where string, order string, limit bool) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(" FROM tasks WHERE ")
	b.WriteString(where)
	if order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	if limit {
		b.WriteString(" LIMIT ")
		b.WriteString(s.dialect.placeholder(2))
	}
	return b.String()
}

// GetRun fetches one row by key.
func (s *Store) GetRun(ctx context.Context, taskID string, runID int) (*Row, error) {
	q := "SELECT " + strings.Join(columns, ", ") + " FROM tasks WHERE task_id = " +
		s.dialect.placeholder(1) + " AND run_id = " + s.dialect.placeholder(2)
	row, err := scanRow(s.db.QueryRowContext(ctx, q, taskID, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s run %d", ErrNotFound, taskID, runID)
	}
	if err != nil {
		return nil, err
	}
	return row, nil
}

// DistinctWorkers lists the distinct worker ids seen for a worker group,
// most recently started first, bounded by limit.
func (s *Store) DistinctWorkers(ctx context.Context, workerGroup string, limit int) ([]string, error) {
	q := "SELECT worker_id, MAX(started) AS last_started FROM tasks WHERE worker_group = " +
		s.dialect.placeholder(1) +
		" AND worker_id IS NOT NULL GROUP BY worker_id ORDER BY last_started DESC LIMIT " +
		s.dialect.placeholder(2)
	rows, err := s.db.QueryContext(ctx, q, workerGroup, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []string
	for rows.Next() {
		var id string
		var lastStarted sql.NullTime
		if err := rows.Scan(&id, &lastStarted); err != nil {
			return nil, err
		}
		workers = append(workers, id)
	}
	return workers, rows.Err()
}

// WorkerRuns fetches up to limit of the most recently started runs executed
// by one worker id.
func (s *Store) WorkerRuns(ctx context.Context, workerID string, limit int) ([]*Row, error) {
	q := s.selectSQL("worker_id = "+s.dialect.placeholder(1), "started DESC", true)
	rows, err := s.db.QueryContext(ctx, q, workerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Row
	for rows.Next() {
		r, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
