// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

// Package event provides the bounded event queues that connect agent
// execution to protocol consumers.
package event

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentwire/a2a"
)

// DefaultQueueSize is the default capacity of an event queue.
const DefaultQueueSize = 1024

var (
	// ErrQueueClosed is returned when operating on a closed queue.
	ErrQueueClosed = errors.New("event queue is closed")

	// ErrQueueFull is returned when the queue cannot accept another event
	// without blocking.
	ErrQueueFull = errors.New("event queue is full")
)

// Queue is a bounded queue of protocol events for a single task. Events are
// validated on enqueue so malformed payloads never reach a consumer. A queue
// can be tapped: each tap creates a child queue that receives every
// subsequent event, letting tasks/resubscribe attach late observers without
// stealing events from the primary consumer.
type Queue struct {
	mu       sync.RWMutex
	events   chan a2a.Event
	children []*Queue
	closed   bool
	size     int
	logger   *slog.Logger
}

// NewQueue creates a queue with the given capacity. A non-positive size
// falls back to [DefaultQueueSize].
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		events: make(chan a2a.Event, size),
		size:   size,
		logger: slog.Default(),
	}
}

// Enqueue validates the event and adds it to this queue and every child.
// It fails with [ErrQueueFull] rather than block when the queue is at
// capacity, and with [ErrQueueClosed] after Close. A child at capacity is
// closed and detached so its consumer observes the drop instead of a
// silent gap in the stream.
func (q *Queue) Enqueue(ctx context.Context, event a2a.Event) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if err := event.Validate(); err != nil {
		return fmt.Errorf("invalid event: %w", err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- event:
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}

	var kept []*Queue
	for _, child := range q.children {
		err := child.Enqueue(ctx, event)
		switch {
		case err == nil:
			kept = append(kept, child)
		case errors.Is(err, ErrQueueFull):
			// A tap must not fail the producer, and it must not carry a
			// gap either: a tap that cannot keep up is closed and
			// detached so its consumer sees the stream end.
			q.logger.WarnContext(ctx, "closing queue tap that fell behind",
				slog.String("kind", string(event.EventKind())))
			child.Close()
		case errors.Is(err, ErrQueueClosed):
		default:
			q.logger.WarnContext(ctx, "tap enqueue failed",
				slog.String("kind", string(event.EventKind())),
				slog.String("error", err.Error()))
			kept = append(kept, child)
		}
	}
	q.children = kept
	return nil
}

// Dequeue blocks until an event is available, the queue is closed and
// drained, or the context is done.
func (q *Queue) Dequeue(ctx context.Context) (a2a.Event, error) {
	select {
	case event, ok := <-q.events:
		if !ok {
			return nil, ErrQueueClosed
		}
		return event, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Tap creates a child queue that receives all events enqueued from now on.
// Tapping a closed queue returns an already-closed child.
func (q *Queue) Tap() *Queue {
	q.mu.Lock()
	defer q.mu.Unlock()

	child := NewQueue(q.size)
	if q.closed {
		child.closed = true
		close(child.events)
		return child
	}
	q.children = append(q.children, child)
	return child
}

// Close stops the queue from accepting events and propagates the close to
// every child. Buffered events remain readable until drained. Close is
// idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.events)
	for _, child := range q.children {
		child.Close()
	}
}

// Closed reports whether the queue has been closed.
func (q *Queue) Closed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}
