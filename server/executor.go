// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"

	"github.com/agentwire/a2a"
	"github.com/agentwire/a2a/server/event"
)

// RequestContext carries everything an agent needs to act on an incoming
// message: the resolved task and context ids, the message itself, and the
// current task snapshot when the message continues an existing task.
type RequestContext struct {
	// TaskID is the id of the task the request operates on. Always set,
	// generated for brand-new tasks.
	TaskID string

	// ContextID groups this task with related ones. Always set.
	ContextID string

	// Message is the incoming user message. Its TaskID and ContextID have
	// been resolved to match the fields above.
	Message *a2a.Message

	// Task is the stored snapshot the message continues, or nil when the
	// message starts a new task.
	Task *a2a.Task

	// Configuration is the caller-supplied send configuration, if any.
	Configuration *a2a.MessageSendConfiguration
}

// AgentExecutor runs agent logic against an event queue. Implementations
// publish Message, Task, TaskStatusUpdateEvent, and TaskArtifactUpdateEvent
// values to the queue as work progresses; the server consumes, persists, and
// forwards them.
//
// Execute must eventually publish a final event (a message, or a status
// update with Final set) and should return once no more events will be
// produced. Cancel must publish a canceled status update when the task can
// be stopped, or return an error when it cannot.
type AgentExecutor interface {
	Execute(ctx context.Context, reqCtx *RequestContext, queue *event.Queue) error
	Cancel(ctx context.Context, reqCtx *RequestContext, queue *event.Queue) error
}
