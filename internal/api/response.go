package api

import (
	"time"

	"github.com/mohans/taskwatch/internal/store"
)

type workerRef struct {
	WorkerID string `json:"workerId"`
}

type listWorkerGroupResponse struct {
	WorkerGroup string      `json:"workerGroup"`
	Workers     []workerRef `json:"workers"`
}

type describeWorkerResponse struct {
	WorkerGroup string    `json:"workerGroup"`
	WorkerID    string    `json:"workerId"`
	Tasks       []taskRun `json:"tasks"`
}

// taskRun is the wire shape of one stored run. Column-to-field mapping is
// spelled out in taskRunFromRow rather than derived by renaming keys.
type taskRun struct {
	TaskID          string     `json:"taskId"`
	RunID           int        `json:"runId"`
	State           string     `json:"state"`
	Created         *time.Time `json:"created,omitempty"`
	Scheduled       *time.Time `json:"scheduled,omitempty"`
	Started         *time.Time `json:"started,omitempty"`
	Resolved        *time.Time `json:"resolved,omitempty"`
	Source          *string    `json:"source,omitempty"`
	Owner           *string    `json:"owner,omitempty"`
	Project         *string    `json:"project,omitempty"`
	Revision        *string    `json:"revision,omitempty"`
	PushID          *string    `json:"pushId,omitempty"`
	Scheduler       *string    `json:"scheduler,omitempty"`
	Provisioner     *string    `json:"provisioner,omitempty"`
	WorkerType      *string    `json:"workerType,omitempty"`
	WorkerID        *string    `json:"workerId,omitempty"`
	WorkerGroup     *string    `json:"workerGroup,omitempty"`
	Platform        *string    `json:"platform,omitempty"`
	JobKind         *string    `json:"jobKind,omitempty"`
	ExceptionReason *string    `json:"exceptionReason,omitempty"`
	Duration        *int64     `json:"duration,omitempty"`
}

func taskRunFromRow(r *store.Row) taskRun {
	return taskRun{
		TaskID:          r.TaskID,
		RunID:           r.RunID,
		State:           r.State,
		Created:         r.Created,
		Scheduled:       r.Scheduled,
		Started:         r.Started,
		Resolved:        r.Resolved,
		Source:          r.Source,
		Owner:           r.Owner,
		Project:         r.Project,
		Revision:        r.Revision,
		PushID:          r.PushID,
		Scheduler:       r.Scheduler,
		Provisioner:     r.Provisioner,
		WorkerType:      r.WorkerType,
		WorkerID:        r.WorkerID,
		WorkerGroup:     r.WorkerGroup,
		Platform:        r.Platform,
		JobKind:         r.JobKind,
		ExceptionReason: r.ExceptionReason,
		Duration:        r.Duration,
	}
}
