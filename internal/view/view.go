// Package view assembles one lifecycle event and its task definition into a
// normalized description of the run the event refers to.
package view

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mohans/taskwatch/internal/events"
	"github.com/mohans/taskwatch/internal/provenance"
	"github.com/mohans/taskwatch/internal/taskdef"
)

// TaskRun is the observable state of one run at the moment an event was
// published: identity, the run's own status block, derived provenance, and
// CI classification labels. Platform and JobKind are empty when the task
// carries no classification block.
type TaskRun struct {
	TaskID     string
	RunID      int
	Definition *taskdef.Definition
	Status     events.Status
	CurrentRun *events.RunInfo
	Source     provenance.Provenance
	Platform   string
	JobKind    string
}

// New builds the view for the run msg.Payload.RunID points at. The status
// block must carry that run.
func New(msg events.Message, def *taskdef.Definition) (*TaskRun, error) {
	run := msg.Payload.Run()
	if run == nil {
		return nil, fmt.Errorf("task %s: status carries no run %d",
			msg.Payload.Status.TaskID, msg.Payload.RunID)
	}
	t := &TaskRun{
		TaskID:     msg.Payload.Status.TaskID,
		RunID:      msg.Payload.RunID,
		Definition: def,
		Status:     msg.Payload.Status,
		CurrentRun: run,
		Source:     provenance.Resolve(def),
	}
	if def != nil && def.Extra.Treeherder != nil {
		th := def.Extra.Treeherder
		t.JobKind = th.JobKind
		t.Platform = platformLabel(th)
	}
	return t, nil
}

// RunAt returns the status block's run at index i, or nil when absent. Used
// when closing out the run a retry superseded.
func (t *TaskRun) RunAt(i int) *events.RunInfo {
	if i < 0 || i >= len(t.Status.Runs) {
		return nil
	}
	return &t.Status.Runs[i]
}

// platformLabel renders the platform string: the base machine platform,
// followed by the sorted names of the truthy collection keys.
func platformLabel(th *taskdef.Treeherder) string {
	base := th.Machine.Platform
	var keys []string
	for k, v := range th.Collection {
		if v {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return base
	}
	sort.Strings(keys)
	return base + " " + strings.Join(keys, " ")
}
