package store

import (
	"context"
	"testing"
	"time"
)

func seedWorkerRuns(t *testing.T, st *Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	runs := []struct {
		taskID  string
		worker  string
		started time.Time
	}{
		{"task-a", "worker-1", base},
		{"task-b", "worker-2", base.Add(1 * time.Minute)},
		{"task-c", "worker-1", base.Add(2 * time.Minute)},
		{"task-d", "worker-3", base.Add(3 * time.Minute)},
	}
	for _, r := range runs {
		started := r.started
		row := Row{
			TaskID:      r.taskID,
			RunID:       0,
			State:       "running",
			Started:     &started,
			WorkerID:    str(r.worker),
			WorkerGroup: str("group-a"),
		}
		if err := st.Upsert(ctx, TransitionRunning, row); err != nil {
			t.Fatalf("seed %s: %v", r.taskID, err)
		}
	}
}

func TestDistinctWorkers(t *testing.T) {
	st := openTestStore(t)
	seedWorkerRuns(t, st)

	workers, err := st.DistinctWorkers(context.Background(), "group-a", 10)
	if err != nil {
		t.Fatalf("DistinctWorkers: %v", err)
	}
	want := []string{"worker-3", "worker-1", "worker-2"}
	if len(workers) != len(want) {
		t.Fatalf("workers = %v, want %v", workers, want)
	}
	for i := range want {
		if workers[i] != want[i] {
			t.Fatalf("workers = %v, want %v", workers, want)
		}
	}
}

func TestDistinctWorkers_Limit(t *testing.T) {
	st := openTestStore(t)
	seedWorkerRuns(t, st)

	workers, err := st.DistinctWorkers(context.Background(), "group-a", 1)
	if err != nil {
		t.Fatalf("DistinctWorkers: %v", err)
	}
	if len(workers) != 1 || workers[0] != "worker-3" {
		t.Fatalf("workers = %v, want [worker-3]", workers)
	}
}

func TestDistinctWorkers_UnknownGroup(t *testing.T) {
	st := openTestStore(t)
	seedWorkerRuns(t, st)

	workers, err := st.DistinctWorkers(context.Background(), "no-such-group", 10)
	if err != nil {
		t.Fatalf("DistinctWorkers: %v", err)
	}
	if len(workers) != 0 {
		t.Fatalf("workers = %v, want empty", workers)
	}
}

func TestWorkerRuns(t *testing.T) {
	st := openTestStore(t)
	seedWorkerRuns(t, st)

	rows, err := st.WorkerRuns(context.Background(), "worker-1", 10)
	if err != nil {
		t.Fatalf("WorkerRuns: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	// Most recent start first.
	if rows[0].TaskID != "task-c" || rows[1].TaskID != "task-a" {
		t.Fatalf("order = [%s %s], want [task-c task-a]", rows[0].TaskID, rows[1].TaskID)
	}
}
