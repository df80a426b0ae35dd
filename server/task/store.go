// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

// Package task implements task persistence, event reassembly, and push
// notification delivery for the protocol engine.
package task

import (
	"context"
	"errors"
	"sync"

	"github.com/agentwire/a2a"
)

// Store persists tasks. Implementations must be safe for concurrent use and
// must return torn-free snapshots: a stored task is never mutated through a
// value handed out by Get.
type Store interface {
	// Save persists a task, replacing any existing task with the same id.
	Save(ctx context.Context, task *a2a.Task) error

	// Get retrieves a task by id. It fails with [a2a.TaskNotFoundError]
	// when no such task exists.
	Get(ctx context.Context, taskID string) (*a2a.Task, error)

	// Delete removes a task. It fails with [a2a.TaskNotFoundError] when no
	// such task exists.
	Delete(ctx context.Context, taskID string) error

	// List retrieves tasks, optionally filtered by context id.
	List(ctx context.Context, contextID string) ([]*a2a.Task, error)
}

// InMemoryStore is a map-backed [Store] for single-process deployments and
// tests. Tasks are lost when the process stops.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*a2a.Task
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{tasks: make(map[string]*a2a.Task)}
}

// Save persists a task.
func (s *InMemoryStore) Save(ctx context.Context, task *a2a.Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = task.Clone()
	return nil
}

// Get retrieves a task snapshot by id.
func (s *InMemoryStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, &a2a.TaskNotFoundError{TaskID: taskID}
	}
	return task.Clone(), nil
}

// Delete removes a task.
func (s *InMemoryStore) Delete(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[taskID]; !ok {
		return &a2a.TaskNotFoundError{TaskID: taskID}
	}
	delete(s.tasks, taskID)
	return nil
}

// List retrieves all tasks, optionally filtered by context id.
func (s *InMemoryStore) List(ctx context.Context, contextID string) ([]*a2a.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tasks []*a2a.Task
	for _, task := range s.tasks {
		if contextID != "" && task.ContextID != contextID {
			continue
		}
		tasks = append(tasks, task.Clone())
	}
	return tasks, nil
}

// Len returns the number of stored tasks.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}
