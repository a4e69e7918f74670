// Package taskdef retrieves and memoizes immutable task definitions from the
// queue service.
package taskdef

import (
	"context"
	"time"
)

// Definition is a task's immutable definition as returned by the queue.
// Only the fields this service reads are typed; the payload block stays
// free-form because its contents depend on the worker implementation.
type Definition struct {
	Created       time.Time      `json:"created"`
	SchedulerID   string         `json:"schedulerId"`
	ProvisionerID string         `json:"provisionerId"`
	WorkerType    string         `json:"workerType"`
	Routes        []string       `json:"routes"`
	Metadata      Metadata       `json:"metadata"`
	Extra         Extra          `json:"extra"`
	Payload       map[string]any `json:"payload"`
}

// Metadata is the human-facing task metadata block.
type Metadata struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Owner       string `json:"owner"`
	Source      string `json:"source"`
}

// Extra carries the CI classification hints attached to a task. Absent for
// tasks that do not report to the CI dashboard.
type Extra struct {
	Treeherder *Treeherder `json:"treeherder,omitempty"`
}

// Treeherder is the classification block used to derive platform and job
// kind labels.
type Treeherder struct {
	JobKind    string          `json:"jobKind,omitempty"`
	Machine    Machine         `json:"machine"`
	Collection map[string]bool `json:"collection,omitempty"`
}

// Machine names the base platform a task runs on.
type Machine struct {
	Platform string `json:"platform"`
}

// Fetcher retrieves a task definition by id.
type Fetcher interface {
	FetchTask(ctx context.Context, taskID string) (*Definition, error)
}
