package store

import (
	"context"
	"fmt"
	"strings"
)

// Transition names one lifecycle write path. Each transition owns the list
// of columns it is authoritative for; on key conflict only those columns are
// overwritten, so partial information arriving in separate messages merges
// into one row instead of clobbering it.
type Transition int

const (
	// TransitionPending inserts a new run and ignores duplicates: a stale
	// pending message must never regress an already-advanced run.
	TransitionPending Transition = iota
	TransitionRunning
	TransitionCompleted
	TransitionException
	// TransitionRetryClosure records the terminal state of a run that was
	// superseded by an automatic retry; no explicit resolution event exists
	// for such runs.
	TransitionRetryClosure
)

func (t Transition) String() string {
	switch t {
	case TransitionPending:
		return "pending"
	case TransitionRunning:
		return "running"
	case TransitionCompleted:
		return "completed"
	case TransitionException:
		return "exception"
	case TransitionRetryClosure:
		return "retry-closure"
	}
	return fmt.Sprintf("transition(%d)", int(t))
}

// writeSpecs maps each transition to the columns its conflict update may
// touch. A nil list means insert-if-absent. Keeping all five write paths in
// one table stops them from silently diverging.
var writeSpecs = map[Transition][]string{
	TransitionPending: nil,
	TransitionRunning: {
		"state", "scheduled", "started", "worker_id", "worker_group",
	},
	TransitionCompleted: {
		"state", "scheduled", "started", "worker_id", "worker_group",
		"resolved", "duration",
	},
	TransitionException: {
		"state", "scheduled", "started", "worker_id", "worker_group",
		"resolved", "exception_reason", "duration",
	},
	TransitionRetryClosure: {
		"state", "scheduled", "started", "worker_id", "worker_group",
		"resolved", "exception_reason", "duration",
	},
}

// Upsert applies one lifecycle write for row's (task_id, run_id) key. The
// duration column is always recomputed here from the row's timestamps:
// resolved minus started, falling back to scheduled when the run never
// started. Rows without a resolved timestamp carry no duration.
func (s *Store) Upsert(ctx context.Context, tr Transition, row Row) error {
	spec, ok := writeSpecs[tr]
	if !ok {
		return fmt.Errorf("no write spec for %s", tr)
	}
	row.Duration = computeDuration(row)

	var b strings.Builder
	b.WriteString("INSERT INTO tasks (")
	b.WriteString(strings.Join(columns, ", "))
	b.WriteString(") VALUES (")
	for i := range columns {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(s.dialect.placeholder(i + 1))
	}
	b.WriteString(")")
	if spec == nil {
		b.WriteString(" ON CONFLICT (task_id, run_id) DO NOTHING")
	} else {
		b.WriteString(" ON CONFLICT (task_id, run_id) DO UPDATE SET ")
		for i, col := range spec {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(col)
			b.WriteString(" = excluded.")
			b.WriteString(col)
		}
	}

	if _, err := s.db.ExecContext(ctx, b.String(), insertArgs(row)...); err != nil {
		return fmt.Errorf("%s write for %s run %d: %w", tr, row.TaskID, row.RunID, err)
	}
	return nil
}

func computeDuration(row Row) *int64 {
	if row.Resolved == nil {
		return nil
	}
	start := row.Started
	if start == nil {
		start = row.Scheduled
	}
	if start == nil {
		return nil
	}
	d := row.Resolved.Sub(*start).Milliseconds()
	return &d
}
