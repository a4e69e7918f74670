// Package events defines the task lifecycle events carried on the bus: the
// kind enumeration, the pulse-style message payload, and a publisher for
// putting events back onto the bus.
package events

import (
	"errors"
	"fmt"
)

// Kind identifies one of the five task lifecycle events delivered on the bus.
type Kind string

const (
	KindPending   Kind = "pending"
	KindRunning   Kind = "running"
	KindCompleted Kind = "completed"
	KindFailed    Kind = "failed"
	KindException Kind = "exception"
)

// Task types used on the bus. Each lifecycle kind maps to exactly one type.
const (
	typePrefix = "task-event:"

	TypePending   = typePrefix + "pending"
	TypeRunning   = typePrefix + "running"
	TypeCompleted = typePrefix + "completed"
	TypeFailed    = typePrefix + "failed"
	TypeException = typePrefix + "exception"
)

// ErrUnknownKind marks a message whose task type matches no lifecycle event.
// The message is dropped; the consumer keeps running.
var ErrUnknownKind = errors.New("unknown task event kind")

var kindByType = map[string]Kind{
	TypePending:   KindPending,
	TypeRunning:   KindRunning,
	TypeCompleted: KindCompleted,
	TypeFailed:    KindFailed,
	TypeException: KindException,
}

// KindFromTaskType classifies an inbound bus task type.
func KindFromTaskType(taskType string) (Kind, error) {
	k, ok := kindByType[taskType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, taskType)
	}
	return k, nil
}

// TaskType returns the bus task type for a kind.
func (k Kind) TaskType() string {
	return typePrefix + string(k)
}

// Types lists every task type the consumer subscribes to.
func Types() []string {
	return []string{TypePending, TypeRunning, TypeCompleted, TypeFailed, TypeException}
}
