package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// Message is the pulse-style payload carried by every lifecycle event.
type Message struct {
	Payload Payload `json:"payload"`
}

// Payload holds the task status snapshot published with the event plus the
// run index the event refers to.
type Payload struct {
	Status Status `json:"status"`
	RunID  int    `json:"runId"`
}

// Status is the task status block embedded in the event payload.
type Status struct {
	TaskID string    `json:"taskId"`
	Runs   []RunInfo `json:"runs"`
}

// RunInfo describes one execution attempt as reported by the queue. All
// timestamps are optional; they appear as the run advances.
type RunInfo struct {
	RunID          int        `json:"runId"`
	State          string     `json:"state"`
	ReasonCreated  string     `json:"reasonCreated,omitempty"`
	ReasonResolved string     `json:"reasonResolved,omitempty"`
	WorkerGroup    string     `json:"workerGroup,omitempty"`
	WorkerID       string     `json:"workerId,omitempty"`
	Scheduled      *time.Time `json:"scheduled,omitempty"`
	Started        *time.Time `json:"started,omitempty"`
	Resolved       *time.Time `json:"resolved,omitempty"`
}

// Run returns the run the payload's runId points at, or nil when the status
// block does not carry that run.
func (p Payload) Run() *RunInfo {
	if p.RunID < 0 || p.RunID >= len(p.Status.Runs) {
		return nil
	}
	return &p.Status.Runs[p.RunID]
}

// Decode unmarshals a raw bus payload into a Message and validates that it
// carries a task identity.
func Decode(raw []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, fmt.Errorf("decode event payload: %w", err)
	}
	if m.Payload.Status.TaskID == "" {
		return Message{}, fmt.Errorf("decode event payload: missing taskId")
	}
	return m, nil
}
