// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// EventKind discriminates the stream payload union on the wire.
type EventKind string

// Stream payload kinds.
const (
	EventKindMessage        EventKind = "message"
	EventKindTask           EventKind = "task"
	EventKindStatusUpdate   EventKind = "status-update"
	EventKindArtifactUpdate EventKind = "artifact-update"
)

// Event is one payload of a task's event stream: a final [Message], a full
// [Task] snapshot, a [TaskStatusUpdateEvent], or a
// [TaskArtifactUpdateEvent].
type Event interface {
	// EventKind returns the wire discriminant of the event.
	EventKind() EventKind

	// Validate ensures the event is well formed.
	Validate() error
}

var (
	_ Event = (*Message)(nil)
	_ Event = (*Task)(nil)
	_ Event = (*TaskStatusUpdateEvent)(nil)
	_ Event = (*TaskArtifactUpdateEvent)(nil)
)

// TaskStatusUpdateEvent announces a task status change on a stream.
type TaskStatusUpdateEvent struct {
	// TaskID is the task the update belongs to.
	TaskID string `json:"taskId"`

	// ContextID is the task's context id.
	ContextID string `json:"contextId"`

	// Status is the new task status.
	Status TaskStatus `json:"status"`

	// Final marks the end of the task's event stream. No event for this
	// subscription is valid after a final status update.
	Final bool `json:"final"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// EventKind returns the wire discriminant of the event.
func (e *TaskStatusUpdateEvent) EventKind() EventKind { return EventKindStatusUpdate }

// Validate ensures the TaskStatusUpdateEvent is well formed.
func (e *TaskStatusUpdateEvent) Validate() error {
	ve := &ValidationError{}
	if e.TaskID == "" {
		ve.Add("taskId", "task id cannot be empty")
	}
	if e.ContextID == "" {
		ve.Add("contextId", "context id cannot be empty")
	}
	ve.Merge("status", e.Status.Validate())
	return ve.Err()
}

// TaskArtifactUpdateEvent delivers an artifact, or a chunk of one, on a
// stream.
type TaskArtifactUpdateEvent struct {
	// TaskID is the task the artifact belongs to.
	TaskID string `json:"taskId"`

	// ContextID is the task's context id.
	ContextID string `json:"contextId"`

	// Artifact carries the parts of this chunk.
	Artifact *Artifact `json:"artifact"`

	// Append concatenates the chunk's parts onto the stored artifact with
	// the same artifact id instead of replacing it.
	Append bool `json:"append,omitzero"`

	// LastChunk seals the artifact; further chunks for the same artifact
	// id are a protocol violation.
	LastChunk bool `json:"lastChunk,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// EventKind returns the wire discriminant of the event.
func (e *TaskArtifactUpdateEvent) EventKind() EventKind { return EventKindArtifactUpdate }

// Validate ensures the TaskArtifactUpdateEvent is well formed.
func (e *TaskArtifactUpdateEvent) Validate() error {
	ve := &ValidationError{}
	if e.TaskID == "" {
		ve.Add("taskId", "task id cannot be empty")
	}
	if e.ContextID == "" {
		ve.Add("contextId", "context id cannot be empty")
	}
	if e.Artifact == nil {
		ve.Add("artifact", "artifact cannot be nil")
	} else {
		ve.Merge("artifact", e.Artifact.Validate())
	}
	return ve.Err()
}

// IsFinalEvent reports whether an event terminates its stream: a status
// update marked final, a task snapshot in a terminal state, or a direct
// message reply.
func IsFinalEvent(event Event) bool {
	switch e := event.(type) {
	case *TaskStatusUpdateEvent:
		return e.Final
	case *Task:
		return e.Terminal()
	case *Message:
		return true
	default:
		return false
	}
}

// eventEnvelope is the tagged wire layout of the event union.
type eventEnvelope struct {
	Kind EventKind `json:"kind"`
}

// MarshalEvent encodes an Event with its kind discriminant.
func MarshalEvent(event Event) ([]byte, error) {
	if event == nil {
		return nil, fmt.Errorf("event cannot be nil")
	}

	switch e := event.(type) {
	case *Message:
		return json.Marshal(struct {
			Kind EventKind `json:"kind"`
			*Message
		}{EventKindMessage, e})
	case *Task:
		return json.Marshal(struct {
			Kind EventKind `json:"kind"`
			*Task
		}{EventKindTask, e})
	case *TaskStatusUpdateEvent:
		return json.Marshal(struct {
			Kind EventKind `json:"kind"`
			*TaskStatusUpdateEvent
		}{EventKindStatusUpdate, e})
	case *TaskArtifactUpdateEvent:
		return json.Marshal(struct {
			Kind EventKind `json:"kind"`
			*TaskArtifactUpdateEvent
		}{EventKindArtifactUpdate, e})
	default:
		return nil, fmt.Errorf("unknown event type: %T", event)
	}
}

// UnmarshalEvent decodes an Event, dispatching on the "kind" discriminant.
func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, NewValidationError(FieldViolation{Field: "", Description: "malformed event: " + err.Error()})
	}

	switch env.Kind {
	case EventKindMessage:
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, NewValidationError(FieldViolation{Field: "", Description: err.Error()})
		}
		return &m, nil
	case EventKindTask:
		var t Task
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, NewValidationError(FieldViolation{Field: "", Description: err.Error()})
		}
		return &t, nil
	case EventKindStatusUpdate:
		var e TaskStatusUpdateEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, NewValidationError(FieldViolation{Field: "", Description: err.Error()})
		}
		return &e, nil
	case EventKindArtifactUpdate:
		var e TaskArtifactUpdateEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, NewValidationError(FieldViolation{Field: "", Description: err.Error()})
		}
		return &e, nil
	case "":
		return nil, NewValidationError(FieldViolation{Field: "kind", Description: "event kind is required"})
	default:
		return nil, NewValidationError(FieldViolation{Field: "kind", Description: fmt.Sprintf("unknown event kind: %q", env.Kind)})
	}
}

// RevalidateEvent decodes and validates raw event JSON. Stream producers
// run outbound events through it so a malformed payload never reaches a
// subscriber.
func RevalidateEvent(data []byte) error {
	event, err := UnmarshalEvent(data)
	if err != nil {
		return err
	}
	return event.Validate()
}

// EventList is a slice of Events with union-aware JSON encoding.
type EventList []Event

// MarshalJSON implements [json.Marshaler].
func (el EventList) MarshalJSON() ([]byte, error) {
	raw := make([]jsontext.Value, len(el))
	for i, event := range el {
		data, err := MarshalEvent(event)
		if err != nil {
			return nil, fmt.Errorf("marshal event %d: %w", i, err)
		}
		raw[i] = data
	}
	return json.Marshal(raw)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (el *EventList) UnmarshalJSON(data []byte) error {
	var raw []jsontext.Value
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	events := make(EventList, len(raw))
	for i, r := range raw {
		event, err := UnmarshalEvent(r)
		if err != nil {
			ve := &ValidationError{}
			return ve.Merge(fmt.Sprintf("events[%d]", i), err)
		}
		events[i] = event
	}
	*el = events
	return nil
}
