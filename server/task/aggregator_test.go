// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"testing"
	"time"

	"github.com/agentwire/a2a"
)

func feedEvents(events ...a2a.Event) <-chan a2a.Event {
	ch := make(chan a2a.Event, len(events))
	for _, e := range events {
		ch <- e
	}
	close(ch)
	return ch
}

func TestAggregator_ConsumeAll(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	agg := NewAggregator(NewManager(store, nil), nil)
	task := newStoredTask(t, store, a2a.TaskStateSubmitted)

	result, err := agg.ConsumeAll(ctx, feedEvents(
		&a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateWorking)},
		&a2a.TaskArtifactUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Artifact: a2a.NewTextArtifact("out", "result")},
		&a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateCompleted), Final: true},
	))
	if err != nil {
		t.Fatalf("ConsumeAll failed: %v", err)
	}

	final, ok := result.(*a2a.Task)
	if !ok {
		t.Fatalf("result is %T, want *a2a.Task", result)
	}
	if final.Status.State != a2a.TaskStateCompleted {
		t.Errorf("state = %q, want completed", final.Status.State)
	}
	if len(final.Artifacts) != 1 {
		t.Errorf("artifacts = %d, want 1", len(final.Artifacts))
	}
}

func TestAggregator_ConsumeAllReturnsMessage(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	agg := NewAggregator(NewManager(store, nil), nil)
	task := newStoredTask(t, store, a2a.TaskStateWorking)

	answer := a2a.NewAgentTextMessage(task.ID, task.ContextID, "the answer")
	result, err := agg.ConsumeAll(ctx, feedEvents(answer))
	if err != nil {
		t.Fatalf("ConsumeAll failed: %v", err)
	}
	msg, ok := result.(*a2a.Message)
	if !ok {
		t.Fatalf("result is %T, want *a2a.Message", result)
	}
	if msg.MessageID != answer.MessageID {
		t.Error("ConsumeAll returned a different message")
	}
}

func TestAggregator_ConsumeAndBreakOnInterrupt(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	agg := NewAggregator(NewManager(store, nil), nil)
	task := newStoredTask(t, store, a2a.TaskStateSubmitted)

	input := make(chan a2a.Event, 4)
	input <- &a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateWorking)}
	input <- &a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateInputRequired)}

	result, interrupted, err := agg.ConsumeAndBreakOnInterrupt(ctx, input)
	if err != nil {
		t.Fatalf("ConsumeAndBreakOnInterrupt failed: %v", err)
	}
	if !interrupted {
		t.Fatal("input-required did not interrupt")
	}
	paused, ok := result.(*a2a.Task)
	if !ok || paused.Status.State != a2a.TaskStateInputRequired {
		t.Fatalf("result = %v, want input-required task", result)
	}

	// Events after the interrupt are still folded into the store.
	input <- &a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateWorking)}
	close(input)

	deadline := time.After(2 * time.Second)
	for {
		stored, err := store.Get(ctx, task.ID)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if stored.Status.State == a2a.TaskStateWorking {
			break
		}
		select {
		case <-deadline:
			t.Fatal("post-interrupt event never reached the store")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestAggregator_ConsumeAndEmit(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore()
	agg := NewAggregator(NewManager(store, nil), nil)
	task := newStoredTask(t, store, a2a.TaskStateSubmitted)

	out := agg.ConsumeAndEmit(ctx, feedEvents(
		&a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateWorking)},
		&a2a.TaskStatusUpdateEvent{TaskID: task.ID, ContextID: task.ContextID, Status: a2a.NewTaskStatus(a2a.TaskStateCompleted), Final: true},
	))

	var got []a2a.Event
	for e := range out {
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("emitted %d events, want 2", len(got))
	}

	stored, err := store.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Status.State != a2a.TaskStateCompleted {
		t.Errorf("stored state = %q, want completed", stored.Status.State)
	}
}
