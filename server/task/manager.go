// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentwire/a2a"
)

// Manager folds a stream of protocol events back into stored task state.
// Status updates move the task along the transition table; artifact updates
// run the chunk reassembly algorithm. Every successfully applied event is
// persisted before Process returns, so a crash never loses an acknowledged
// event.
type Manager struct {
	store  Store
	logger *slog.Logger

	// sealed tracks artifacts that have seen their last chunk, per task.
	// Seal state is engine state, not wire state, so it lives here rather
	// than on the artifact.
	mu     sync.Mutex
	sealed map[string]map[string]bool
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:  store,
		logger: logger,
		sealed: make(map[string]map[string]bool),
	}
}

// Process applies one event to stored task state and returns the updated
// task. Events that do not touch task state (agent messages) return the
// task unchanged, or nil when they arrive before any task exists.
func (m *Manager) Process(ctx context.Context, event a2a.Event) (*a2a.Task, error) {
	if event == nil {
		return nil, errors.New("event cannot be nil")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	switch e := event.(type) {
	case *a2a.Task:
		return m.processSnapshot(ctx, e)
	case *a2a.TaskStatusUpdateEvent:
		return m.processStatus(ctx, e)
	case *a2a.TaskArtifactUpdateEvent:
		return m.processArtifact(ctx, e)
	case *a2a.Message:
		return m.processMessage(ctx, e)
	default:
		return nil, fmt.Errorf("unsupported event kind %q", event.EventKind())
	}
}

// processSnapshot stores a full task snapshot, replacing prior state.
func (m *Manager) processSnapshot(ctx context.Context, task *a2a.Task) (*a2a.Task, error) {
	if err := m.store.Save(ctx, task); err != nil {
		return nil, err
	}
	if task.Terminal() {
		m.clearSeals(task.ID)
	}
	return task.Clone(), nil
}

// processStatus advances the task's lifecycle state.
func (m *Manager) processStatus(ctx context.Context, e *a2a.TaskStatusUpdateEvent) (*a2a.Task, error) {
	task, err := m.store.Get(ctx, e.TaskID)
	if err != nil {
		return nil, err
	}

	if err := task.ApplyStatus(e.Status); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, task); err != nil {
		return nil, err
	}

	if task.Terminal() {
		m.clearSeals(task.ID)
	}
	return task, nil
}

// processArtifact reassembles artifact chunks. A non-append event replaces
// or adds the artifact whole; an append event concatenates its parts onto an
// existing artifact and fails with [a2a.OrphanAppendError] when there is
// nothing to append to. The last chunk seals the artifact against any
// further event.
func (m *Manager) processArtifact(ctx context.Context, e *a2a.TaskArtifactUpdateEvent) (*a2a.Task, error) {
	task, err := m.store.Get(ctx, e.TaskID)
	if err != nil {
		return nil, err
	}

	artifactID := e.Artifact.ArtifactID
	if m.isSealed(e.TaskID, artifactID) {
		return nil, &a2a.ArtifactAlreadySealedError{TaskID: e.TaskID, ArtifactID: artifactID}
	}

	existing := task.Artifact(artifactID)
	switch {
	case !e.Append:
		incoming := e.Artifact.Clone()
		if existing != nil {
			*existing = *incoming
		} else {
			task.Artifacts = append(task.Artifacts, incoming)
		}
	case existing == nil:
		return nil, &a2a.OrphanAppendError{TaskID: e.TaskID, ArtifactID: artifactID}
	default:
		existing.Parts = append(existing.Parts, e.Artifact.Parts...)
	}

	if err := m.store.Save(ctx, task); err != nil {
		return nil, err
	}
	if e.LastChunk {
		m.seal(e.TaskID, artifactID)
		m.logger.DebugContext(ctx, "artifact sealed",
			slog.String("taskId", e.TaskID),
			slog.String("artifactId", artifactID))
	}
	return task, nil
}

// processMessage records an agent message in the task history when the
// message is bound to a known task.
func (m *Manager) processMessage(ctx context.Context, msg *a2a.Message) (*a2a.Task, error) {
	if msg.TaskID == "" {
		return nil, nil
	}
	task, err := m.store.Get(ctx, msg.TaskID)
	if err != nil {
		var nfe *a2a.TaskNotFoundError
		if errors.As(err, &nfe) {
			return nil, nil
		}
		return nil, err
	}

	task.History = append(task.History, msg)
	if err := m.store.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (m *Manager) isSealed(taskID, artifactID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sealed[taskID][artifactID]
}

func (m *Manager) seal(taskID, artifactID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sealed[taskID] == nil {
		m.sealed[taskID] = make(map[string]bool)
	}
	m.sealed[taskID][artifactID] = true
}

func (m *Manager) clearSeals(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sealed, taskID)
}
