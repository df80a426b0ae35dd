// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"fmt"
	"sync"
)

// NoQueueError is returned when no queue exists for a task.
type NoQueueError struct {
	TaskID string
}

func (e *NoQueueError) Error() string {
	return fmt.Sprintf("no event queue for task %q", e.TaskID)
}

// Manager owns the per-task event queues. One queue exists per live task;
// message/stream creates it, tasks/resubscribe taps it, and it is destroyed
// once the task reaches a terminal state.
type Manager struct {
	mu     sync.Mutex
	queues map[string]*Queue
	size   int
}

// NewManager creates a Manager whose queues have the given capacity.
func NewManager(queueSize int) *Manager {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &Manager{
		queues: make(map[string]*Queue),
		size:   queueSize,
	}
}

// CreateOrTap returns the producer queue for a new task, or a tap of the
// existing queue when the task is already being worked.
func (m *Manager) CreateOrTap(taskID string) *Queue {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q, ok := m.queues[taskID]; ok {
		return q.Tap()
	}
	q := NewQueue(m.size)
	m.queues[taskID] = q
	return q
}

// Get returns the queue for a task, or a [NoQueueError] when the task has no
// live queue.
func (m *Manager) Get(taskID string) (*Queue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[taskID]
	if !ok {
		return nil, &NoQueueError{TaskID: taskID}
	}
	return q, nil
}

// Tap attaches a late observer to a task's queue.
func (m *Manager) Tap(taskID string) (*Queue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	q, ok := m.queues[taskID]
	if !ok {
		return nil, &NoQueueError{TaskID: taskID}
	}
	return q.Tap(), nil
}

// Destroy closes and removes the queue for a task. Destroying an unknown
// task is a no-op.
func (m *Manager) Destroy(taskID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if q, ok := m.queues[taskID]; ok {
		q.Close()
		delete(m.queues, taskID)
	}
}

// Len returns the number of live queues.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}
