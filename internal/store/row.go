package store

import (
	"database/sql"
	"time"
)

// Row is one persisted task run, keyed by (TaskID, RunID). Pointer fields
// are NULL until the event carrying them arrives; Duration is milliseconds
// and is always computed at write time from the timestamps.
type Row struct {
	TaskID string
	RunID  int
	State  string

	Created   *time.Time
	Scheduled *time.Time
	Started   *time.Time
	Resolved  *time.Time

	Source   *string
	Owner    *string
	Project  *string
	Revision *string
	PushID   *string

	Scheduler   *string
	Provisioner *string
	WorkerType  *string
	WorkerID    *string
	WorkerGroup *string

	Platform        *string
	JobKind         *string
	ExceptionReason *string
	Duration        *int64
}

// columns is the canonical column order for inserts and row scans. The
// per-transition update lists in reconcile.go reference these names.
var columns = []string{
	"task_id", "run_id", "state",
	"created", "scheduled", "started", "resolved",
	"source", "owner", "project", "revision", "push_id",
	"scheduler", "provisioner", "worker_type", "worker_id", "worker_group",
	"platform", "job_kind", "exception_reason", "duration",
}

func insertArgs(r Row) []any {
	return []any{
		r.TaskID, r.RunID, r.State,
		nullTime(r.Created), nullTime(r.Scheduled), nullTime(r.Started), nullTime(r.Resolved),
		nullStr(r.Source), nullStr(r.Owner), nullStr(r.Project), nullStr(r.Revision), nullStr(r.PushID),
		nullStr(r.Scheduler), nullStr(r.Provisioner), nullStr(r.WorkerType), nullStr(r.WorkerID), nullStr(r.WorkerGroup),
		nullStr(r.Platform), nullStr(r.JobKind), nullStr(r.ExceptionReason), nullInt(r.Duration),
	}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullStr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullInt(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRow(sc scanner) (*Row, error) {
	var (
		r                                     Row
		created, scheduled, started, resolved sql.NullTime
		source, owner, project, revision      sql.NullString
		pushID, schedulerID, provisioner      sql.NullString
		workerType, workerID, workerGroup     sql.NullString
		platform, jobKind, exceptionReason    sql.NullString
		duration                              sql.NullInt64
	)
	err := sc.Scan(
		&r.TaskID, &r.RunID, &r.State,
		&created, &scheduled, &started, &resolved,
		&source, &owner, &project, &revision, &pushID,
		&schedulerID, &provisioner, &workerType, &workerID, &workerGroup,
		&platform, &jobKind, &exceptionReason, &duration,
	)
	if err != nil {
		return nil, err
	}
	r.Created = timePtr(created)
	r.Scheduled = timePtr(scheduled)
	r.Started = timePtr(started)
	r.Resolved = timePtr(resolved)
	r.Source = strPtr(source)
	r.Owner = strPtr(owner)
	r.Project = strPtr(project)
	r.Revision = strPtr(revision)
	r.PushID = strPtr(pushID)
	r.Scheduler = strPtr(schedulerID)
	r.Provisioner = strPtr(provisioner)
	r.WorkerType = strPtr(workerType)
	r.WorkerID = strPtr(workerID)
	r.WorkerGroup = strPtr(workerGroup)
	r.Platform = strPtr(platform)
	r.JobKind = strPtr(jobKind)
	r.ExceptionReason = strPtr(exceptionReason)
	if duration.Valid {
		d := duration.Int64
		r.Duration = &d
	}
	return &r, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func strPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
