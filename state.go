// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

// TaskState represents the lifecycle state of a Task.
type TaskState string

// Task lifecycle states.
const (
	// TaskStateSubmitted indicates the task has been received and not yet
	// started.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is actively being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateInputRequired indicates the task is paused waiting for
	// additional input from the caller.
	TaskStateInputRequired TaskState = "input-required"

	// TaskStateCompleted indicates the task finished successfully. Terminal.
	TaskStateCompleted TaskState = "completed"

	// TaskStateCanceled indicates the task was canceled. Terminal.
	TaskStateCanceled TaskState = "canceled"

	// TaskStateFailed indicates the task's work failed. Terminal.
	TaskStateFailed TaskState = "failed"

	// TaskStateRejected indicates the agent refused the task. Terminal.
	TaskStateRejected TaskState = "rejected"

	// TaskStateAuthRequired indicates the task is paused waiting for
	// authentication.
	TaskStateAuthRequired TaskState = "auth-required"

	// TaskStateUnknown indicates a state outside the known set, reported by
	// a remote party. It is a valid observation but never a transition
	// target chosen by this engine.
	TaskStateUnknown TaskState = "unknown"
)

// TaskStates returns all known task states.
func TaskStates() []TaskState {
	return []TaskState{
		TaskStateSubmitted,
		TaskStateWorking,
		TaskStateInputRequired,
		TaskStateCompleted,
		TaskStateCanceled,
		TaskStateFailed,
		TaskStateRejected,
		TaskStateAuthRequired,
		TaskStateUnknown,
	}
}

// Validate ensures the TaskState is one of the known states.
func (s TaskState) Validate() error {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateInputRequired,
		TaskStateCompleted, TaskStateCanceled, TaskStateFailed,
		TaskStateRejected, TaskStateAuthRequired, TaskStateUnknown:
		return nil
	default:
		return NewValidationError(FieldViolation{
			Field:       "state",
			Description: "unknown task state: " + string(s),
		})
	}
}

// Terminal reports whether the state admits no further transitions.
func (s TaskState) Terminal() bool {
	switch s {
	case TaskStateCompleted, TaskStateCanceled, TaskStateFailed, TaskStateRejected:
		return true
	default:
		return false
	}
}

// Interruptible reports whether the state hands control back to the caller
// while the task stays live.
func (s TaskState) Interruptible() bool {
	return s == TaskStateInputRequired || s == TaskStateAuthRequired
}

// transitions is the task lifecycle transition table. A state maps to the
// set of states reachable from it. Terminal states have no entry.
var transitions = map[TaskState]map[TaskState]bool{
	TaskStateSubmitted: {
		TaskStateWorking:       true,
		TaskStateInputRequired: true,
		TaskStateCanceled:      true,
		TaskStateRejected:      true,
		TaskStateFailed:        true,
	},
	TaskStateWorking: {
		TaskStateWorking:       true,
		TaskStateInputRequired: true,
		TaskStateCompleted:     true,
		TaskStateCanceled:      true,
		TaskStateFailed:        true,
	},
	TaskStateInputRequired: {
		TaskStateWorking:  true,
		TaskStateCanceled: true,
		TaskStateFailed:   true,
	},
	TaskStateAuthRequired: {
		TaskStateWorking:  true,
		TaskStateCanceled: true,
		TaskStateFailed:   true,
	},
}

// CanTransition reports whether a task may move from one state to another.
// A transition to the current state is always allowed; it is treated as an
// idempotent re-delivery, not a state change.
func CanTransition(from, to TaskState) bool {
	if from == to {
		return true
	}
	return transitions[from][to]
}

// AllowedTransitions returns the states reachable from the given state,
// excluding the idempotent self-transition. The returned map must not be
// mutated.
func AllowedTransitions(from TaskState) map[TaskState]bool {
	return transitions[from]
}
