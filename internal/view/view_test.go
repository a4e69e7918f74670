package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mohans/taskwatch/internal/events"
	"github.com/mohans/taskwatch/internal/taskdef"
)

func msgWithRuns(taskID string, runID int, runs ...events.RunInfo) events.Message {
	return events.Message{Payload: events.Payload{
		RunID:  runID,
		Status: events.Status{TaskID: taskID, Runs: runs},
	}}
}

func TestNew_ExtractsIdentityAndRun(t *testing.T) {
	scheduled := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	msg := msgWithRuns("task-1", 1,
		events.RunInfo{RunID: 0, State: "exception"},
		events.RunInfo{RunID: 1, State: "pending", Scheduled: &scheduled},
	)
	v, err := New(msg, &taskdef.Definition{})
	require.NoError(t, err)
	require.Equal(t, "task-1", v.TaskID)
	require.Equal(t, 1, v.RunID)
	require.Equal(t, "pending", v.CurrentRun.State)
	require.Equal(t, &scheduled, v.CurrentRun.Scheduled)
}

func TestNew_MissingRunIsError(t *testing.T) {
	msg := msgWithRuns("task-1", 2, events.RunInfo{RunID: 0, State: "pending"})
	_, err := New(msg, &taskdef.Definition{})
	require.Error(t, err)
}

func TestPlatformLabel_SortedTruthyCollectionKeys(t *testing.T) {
	def := &taskdef.Definition{
		Extra: taskdef.Extra{Treeherder: &taskdef.Treeherder{
			JobKind: "build",
			Machine: taskdef.Machine{Platform: "linux64"},
			Collection: map[string]bool{
				"opt":   true,
				"asan":  true,
				"debug": false,
			},
		}},
	}
	v, err := New(msgWithRuns("task-1", 0, events.RunInfo{State: "pending"}), def)
	require.NoError(t, err)
	require.Equal(t, "linux64 asan opt", v.Platform)
	require.Equal(t, "build", v.JobKind)
}

func TestPlatformLabel_NoCollection(t *testing.T) {
	def := &taskdef.Definition{
		Extra: taskdef.Extra{Treeherder: &taskdef.Treeherder{
			Machine: taskdef.Machine{Platform: "windows11-64"},
		}},
	}
	v, err := New(msgWithRuns("task-1", 0, events.RunInfo{State: "pending"}), def)
	require.NoError(t, err)
	require.Equal(t, "windows11-64", v.Platform)
}

func TestPlatformLabel_NoClassificationBlock(t *testing.T) {
	v, err := New(msgWithRuns("task-1", 0, events.RunInfo{State: "pending"}), &taskdef.Definition{})
	require.NoError(t, err)
	require.Empty(t, v.Platform)
	require.Empty(t, v.JobKind)
}

func TestRunAt_Bounds(t *testing.T) {
	v, err := New(msgWithRuns("task-1", 1,
		events.RunInfo{RunID: 0, State: "exception"},
		events.RunInfo{RunID: 1, State: "pending"},
	), &taskdef.Definition{})
	require.NoError(t, err)
	require.NotNil(t, v.RunAt(0))
	require.Equal(t, "exception", v.RunAt(0).State)
	require.Nil(t, v.RunAt(-1))
	require.Nil(t, v.RunAt(2))
}
