// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle status of a task at a point in time.
type TaskStatus struct {
	// State is the lifecycle state.
	State TaskState `json:"state"`

	// Message optionally explains the status, e.g. a failure reason.
	Message *Message `json:"message,omitzero"`

	// Timestamp is the RFC 3339 time the status was recorded.
	Timestamp string `json:"timestamp,omitzero"`
}

// Validate ensures the TaskStatus is well formed.
func (s TaskStatus) Validate() error {
	ve := &ValidationError{}
	ve.Merge("state", s.State.Validate())
	if s.Message != nil {
		ve.Merge("message", s.Message.Validate())
	}
	if s.Timestamp != "" {
		if _, err := time.Parse(time.RFC3339, s.Timestamp); err != nil {
			ve.Add("timestamp", "timestamp must be RFC 3339: %s", err.Error())
		}
	}
	return ve.Err()
}

// NewTaskStatus creates a TaskStatus for the given state stamped with the
// current time.
func NewTaskStatus(state TaskState) TaskStatus {
	return TaskStatus{
		State:     state,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Task is a unit of requested work: an id, a lifecycle status, the message
// history, and accumulated artifacts. ID and ContextID never change after
// creation; Status only moves along the transition table.
type Task struct {
	// ID uniquely identifies the task.
	ID string `json:"id"`

	// ContextID groups the task with related tasks and messages. Advisory.
	ContextID string `json:"contextId"`

	// Status is the current lifecycle status.
	Status TaskStatus `json:"status"`

	// History is the append-only ordered sequence of messages.
	History []*Message `json:"history,omitzero"`

	// Artifacts are the task outputs accumulated so far.
	Artifacts []*Artifact `json:"artifacts,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// EventKind implements [Event]. A full Task snapshot is a valid stream
// payload.
func (t *Task) EventKind() EventKind { return EventKindTask }

// Validate ensures the Task is well formed.
func (t *Task) Validate() error {
	ve := &ValidationError{}
	if t.ID == "" {
		ve.Add("id", "task id cannot be empty")
	}
	if t.ContextID == "" {
		ve.Add("contextId", "task context id cannot be empty")
	}
	ve.Merge("status", t.Status.Validate())
	for i, msg := range t.History {
		if msg == nil {
			ve.Add("history", "history message %d cannot be nil", i)
			continue
		}
		ve.Merge("history", msg.Validate())
	}
	for i, artifact := range t.Artifacts {
		if artifact == nil {
			ve.Add("artifacts", "artifact %d cannot be nil", i)
			continue
		}
		ve.Merge("artifacts", artifact.Validate())
	}
	return ve.Err()
}

// Terminal reports whether the task is in a terminal state.
func (t *Task) Terminal() bool {
	return t.Status.State.Terminal()
}

// ApplyStatus advances the task to a new status. It fails with
// [InvalidTransitionError] and leaves the task unchanged if the new state
// is not reachable from the current one. Re-applying the current state is
// an idempotent no-op: the status message is not appended to history a
// second time. On a real transition the status is overwritten and the new
// status message, if any, is appended to history; a message id the history
// already holds is never appended again.
func (t *Task) ApplyStatus(status TaskStatus) error {
	from := t.Status.State
	if !CanTransition(from, status.State) {
		return &InvalidTransitionError{TaskID: t.ID, From: from, To: status.State}
	}

	if from == status.State && sameStatusMessage(t.Status.Message, status.Message) {
		// At-least-once delivery: a repeat of the current state with the
		// same message is accepted without mutating the task.
		return nil
	}
	if from == status.State && !transitions[from][status.State] {
		// States without an explicit self-edge never re-enter themselves;
		// treat the repeat as a duplicate regardless of its message.
		return nil
	}

	if status.Message != nil && !t.historyHas(status.Message.MessageID) {
		t.History = append(t.History, status.Message)
	}
	t.Status = TaskStatus{
		State:     status.State,
		Timestamp: status.Timestamp,
	}
	if t.Status.Timestamp == "" {
		t.Status.Timestamp = time.Now().UTC().Format(time.RFC3339)
	}
	t.Status.Message = status.Message
	return nil
}

// historyHas reports whether a message id is already recorded in history.
func (t *Task) historyHas(messageID string) bool {
	for _, m := range t.History {
		if m.MessageID == messageID {
			return true
		}
	}
	return false
}

// sameStatusMessage reports whether two status messages are the same
// delivery. Messages are immutable, so identity is the message id.
func sameStatusMessage(a, b *Message) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.MessageID == b.MessageID
}

// Artifact returns the stored artifact with the given id, or nil.
func (t *Task) Artifact(artifactID string) *Artifact {
	for _, a := range t.Artifacts {
		if a.ArtifactID == artifactID {
			return a
		}
	}
	return nil
}

// Clone returns a deep-enough copy of the task for torn-free reads:
// history, artifacts and their part slices are copied; messages and parts
// are immutable once received and are shared.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	clone.History = append([]*Message(nil), t.History...)
	clone.Artifacts = make([]*Artifact, len(t.Artifacts))
	for i, a := range t.Artifacts {
		clone.Artifacts[i] = a.Clone()
	}
	if t.Metadata != nil {
		clone.Metadata = make(map[string]any, len(t.Metadata))
		for k, v := range t.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// TrimHistory returns a copy of the task whose history is capped to the
// last historyLength messages. A nil cap returns the task as is; a zero cap
// omits history entirely. The stored task is never mutated.
func (t *Task) TrimHistory(historyLength *int) *Task {
	if historyLength == nil {
		return t
	}
	clone := t.Clone()
	n := *historyLength
	switch {
	case n <= 0:
		clone.History = nil
	case n < len(clone.History):
		clone.History = clone.History[len(clone.History)-n:]
	}
	return clone
}

// NewTask creates a task in the submitted state from its first message.
// Task and context ids are taken from the message when present, generated
// otherwise, and the message becomes the first history entry.
func NewTask(message *Message) (*Task, error) {
	if message == nil {
		return nil, NewValidationError(FieldViolation{Field: "message", Description: "message cannot be nil"})
	}
	if err := message.Validate(); err != nil {
		ve := &ValidationError{}
		return nil, ve.Merge("message", err)
	}

	taskID := message.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}
	contextID := message.ContextID
	if contextID == "" {
		contextID = uuid.NewString()
	}

	// The stored history entry carries the resolved ids.
	msg := *message
	msg.TaskID = taskID
	msg.ContextID = contextID

	return &Task{
		ID:        taskID,
		ContextID: contextID,
		Status:    NewTaskStatus(TaskStateSubmitted),
		History:   []*Message{&msg},
	}, nil
}
