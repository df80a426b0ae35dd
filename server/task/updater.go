// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/agentwire/a2a"
)

// Updater is the producer-side helper agents use to publish task events.
// It stamps events with the task and context ids, refuses updates after a
// terminal state has been published, and hands everything to the task's
// event queue.
type Updater struct {
	taskID    string
	contextID string
	queue     EventPublisher

	mu       sync.Mutex
	terminal bool
}

// EventPublisher accepts events for a task's stream. [event.Queue]
// implements it.
type EventPublisher interface {
	Enqueue(ctx context.Context, event a2a.Event) error
}

// NewUpdater creates an Updater publishing into the given queue.
func NewUpdater(taskID, contextID string, queue EventPublisher) (*Updater, error) {
	if taskID == "" {
		return nil, errors.New("task id cannot be empty")
	}
	if contextID == "" {
		return nil, errors.New("context id cannot be empty")
	}
	if queue == nil {
		return nil, errors.New("queue cannot be nil")
	}
	return &Updater{taskID: taskID, contextID: contextID, queue: queue}, nil
}

// TaskID returns the task this updater publishes for.
func (u *Updater) TaskID() string { return u.taskID }

// ContextID returns the context the task belongs to.
func (u *Updater) ContextID() string { return u.contextID }

// Terminal reports whether a terminal status has been published.
func (u *Updater) Terminal() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.terminal
}

// UpdateStatus publishes a status update. The final flag is set for
// terminal states; once a terminal status is published any further update
// fails.
func (u *Updater) UpdateStatus(ctx context.Context, state a2a.TaskState, message *a2a.Message) error {
	u.mu.Lock()
	if u.terminal {
		u.mu.Unlock()
		return fmt.Errorf("task %s already reached a terminal state", u.taskID)
	}
	final := state.Terminal()
	if final {
		u.terminal = true
	}
	u.mu.Unlock()

	status := a2a.NewTaskStatus(state)
	status.Message = message

	err := u.queue.Enqueue(ctx, &a2a.TaskStatusUpdateEvent{
		TaskID:    u.taskID,
		ContextID: u.contextID,
		Status:    status,
		Final:     final,
	})
	if err != nil {
		return fmt.Errorf("publishing status update for task %s: %w", u.taskID, err)
	}
	return nil
}

// AddArtifact publishes a whole artifact, replacing any prior artifact with
// the same id.
func (u *Updater) AddArtifact(ctx context.Context, artifact *a2a.Artifact) error {
	return u.publishArtifact(ctx, artifact, false, false)
}

// AppendArtifact publishes an artifact chunk that concatenates onto a
// previously published artifact. lastChunk seals the artifact.
func (u *Updater) AppendArtifact(ctx context.Context, artifact *a2a.Artifact, lastChunk bool) error {
	return u.publishArtifact(ctx, artifact, true, lastChunk)
}

func (u *Updater) publishArtifact(ctx context.Context, artifact *a2a.Artifact, appendChunk, lastChunk bool) error {
	if artifact == nil {
		return errors.New("artifact cannot be nil")
	}
	u.mu.Lock()
	terminal := u.terminal
	u.mu.Unlock()
	if terminal {
		return fmt.Errorf("task %s already reached a terminal state", u.taskID)
	}

	err := u.queue.Enqueue(ctx, &a2a.TaskArtifactUpdateEvent{
		TaskID:    u.taskID,
		ContextID: u.contextID,
		Artifact:  artifact,
		Append:    appendChunk,
		LastChunk: lastChunk,
	})
	if err != nil {
		return fmt.Errorf("publishing artifact update for task %s: %w", u.taskID, err)
	}
	return nil
}

// StartWork marks the task as actively being worked.
func (u *Updater) StartWork(ctx context.Context) error {
	return u.UpdateStatus(ctx, a2a.TaskStateWorking, nil)
}

// Progress publishes a working update carrying a progress message.
func (u *Updater) Progress(ctx context.Context, text string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateWorking, u.message(text))
}

// Complete marks the task as completed.
func (u *Updater) Complete(ctx context.Context) error {
	return u.UpdateStatus(ctx, a2a.TaskStateCompleted, nil)
}

// Failed marks the task as failed with a reason.
func (u *Updater) Failed(ctx context.Context, reason string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateFailed, u.message(reason))
}

// Reject marks the task as rejected before any work started.
func (u *Updater) Reject(ctx context.Context, reason string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateRejected, u.message(reason))
}

// Cancel marks the task as canceled.
func (u *Updater) Cancel(ctx context.Context) error {
	return u.UpdateStatus(ctx, a2a.TaskStateCanceled, nil)
}

// RequireInput pauses the task pending user input.
func (u *Updater) RequireInput(ctx context.Context, prompt string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateInputRequired, u.message(prompt))
}

// RequireAuth pauses the task pending out-of-band authentication.
func (u *Updater) RequireAuth(ctx context.Context, prompt string) error {
	return u.UpdateStatus(ctx, a2a.TaskStateAuthRequired, u.message(prompt))
}

// NewAgentMessage creates an agent message bound to this task. Publishing
// it ends the stream.
func (u *Updater) NewAgentMessage(parts ...a2a.Part) *a2a.Message {
	msg := a2a.NewAgentMessage(parts...)
	msg.TaskID = u.taskID
	msg.ContextID = u.contextID
	return msg
}

// NewArtifact creates an artifact with a fresh id, ready for AddArtifact.
func (u *Updater) NewArtifact(name string, parts ...a2a.Part) *a2a.Artifact {
	return &a2a.Artifact{
		ArtifactID: uuid.NewString(),
		Name:       name,
		Parts:      parts,
	}
}

func (u *Updater) message(text string) *a2a.Message {
	if text == "" {
		return nil
	}
	return a2a.NewAgentTextMessage(u.taskID, u.contextID, text)
}
