// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/agentwire/a2a"
	"github.com/agentwire/a2a/server/event"
	"github.com/agentwire/a2a/server/task"
)

// RequestHandler is the transport-independent surface of an A2A server.
// Each method corresponds to one protocol operation; [JSONRPCHandler]
// adapts JSON-RPC envelopes onto it.
type RequestHandler interface {
	// OnMessageSend processes a message and returns the settled result:
	// either a direct *a2a.Message reply or the *a2a.Task snapshot.
	OnMessageSend(ctx context.Context, params *a2a.MessageSendParams) (a2a.Event, error)

	// OnMessageSendStream processes a message and streams every event the
	// agent produces. The channel closes when the task settles.
	OnMessageSendStream(ctx context.Context, params *a2a.MessageSendParams) (<-chan a2a.Event, error)

	// OnGetTask returns a stored task, with history sliced per the params.
	OnGetTask(ctx context.Context, params *a2a.TaskQueryParams) (*a2a.Task, error)

	// OnCancelTask requests cancellation of a running task and returns the
	// settled snapshot.
	OnCancelTask(ctx context.Context, params *a2a.TaskIDParams) (*a2a.Task, error)

	// OnResubscribe re-attaches to the live event stream of a running task.
	OnResubscribe(ctx context.Context, params *a2a.TaskIDParams) (<-chan a2a.Event, error)

	// OnSetTaskPushNotificationConfig stores a push notification config for
	// a task.
	OnSetTaskPushNotificationConfig(ctx context.Context, params *a2a.TaskPushNotificationConfig) (*a2a.TaskPushNotificationConfig, error)

	// OnGetTaskPushNotificationConfig retrieves one push notification
	// config for a task.
	OnGetTaskPushNotificationConfig(ctx context.Context, params *a2a.GetTaskPushNotificationConfigParams) (*a2a.TaskPushNotificationConfig, error)

	// OnListTaskPushNotificationConfig lists all push notification configs
	// for a task.
	OnListTaskPushNotificationConfig(ctx context.Context, params *a2a.ListTaskPushNotificationConfigParams) ([]*a2a.TaskPushNotificationConfig, error)

	// OnDeleteTaskPushNotificationConfig removes one push notification
	// config from a task.
	OnDeleteTaskPushNotificationConfig(ctx context.Context, params *a2a.DeleteTaskPushNotificationConfigParams) error

	// OnGetAuthenticatedExtendedCard returns the extended agent card for
	// authenticated callers.
	OnGetAuthenticatedExtendedCard(ctx context.Context) (*a2a.AgentCard, error)
}

// DefaultRequestHandler is the standard RequestHandler implementation. It
// wires the agent executor to the event plumbing: incoming messages become
// tasks, executor events are validated, persisted, and fanned out, and
// settled snapshots are delivered back to callers.
type DefaultRequestHandler struct {
	card       *a2a.AgentCard
	extended   *a2a.AgentCard
	executor   AgentExecutor
	store      task.Store
	queues     *event.Manager
	manager    *task.Manager
	aggregator *task.Aggregator
	configs    task.PushConfigStore
	pusher     task.PushSender
	logger     *slog.Logger

	mu      sync.Mutex
	running map[string]context.CancelFunc
}

var _ RequestHandler = (*DefaultRequestHandler)(nil)

// DefaultRequestHandlerOption configures a DefaultRequestHandler.
type DefaultRequestHandlerOption func(*DefaultRequestHandler)

// WithTaskStore sets the task store. Defaults to an in-memory store.
func WithTaskStore(store task.Store) DefaultRequestHandlerOption {
	return func(h *DefaultRequestHandler) { h.store = store }
}

// WithQueueManager sets the event queue manager.
func WithQueueManager(queues *event.Manager) DefaultRequestHandlerOption {
	return func(h *DefaultRequestHandler) { h.queues = queues }
}

// WithPushConfigStore sets the push notification config store. Defaults to
// an in-memory store.
func WithPushConfigStore(configs task.PushConfigStore) DefaultRequestHandlerOption {
	return func(h *DefaultRequestHandler) { h.configs = configs }
}

// WithPushSender sets the sender used to deliver push notifications. When
// unset, no notifications are sent.
func WithPushSender(pusher task.PushSender) DefaultRequestHandlerOption {
	return func(h *DefaultRequestHandler) { h.pusher = pusher }
}

// WithExtendedCard sets the card returned by
// agent/getAuthenticatedExtendedCard. Defaults to the public card.
func WithExtendedCard(card *a2a.AgentCard) DefaultRequestHandlerOption {
	return func(h *DefaultRequestHandler) { h.extended = card }
}

// WithLogger sets the handler's logger. Defaults to [slog.Default].
func WithLogger(logger *slog.Logger) DefaultRequestHandlerOption {
	return func(h *DefaultRequestHandler) { h.logger = logger }
}

// NewDefaultRequestHandler creates a handler serving the given card with
// the given executor.
func NewDefaultRequestHandler(card *a2a.AgentCard, executor AgentExecutor, opts ...DefaultRequestHandlerOption) (*DefaultRequestHandler, error) {
	if card == nil {
		return nil, fmt.Errorf("agent card cannot be nil")
	}
	if executor == nil {
		return nil, fmt.Errorf("agent executor cannot be nil")
	}

	h := &DefaultRequestHandler{
		card:     card,
		executor: executor,
		running:  make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(h)
	}

	if h.store == nil {
		h.store = task.NewInMemoryStore()
	}
	if h.queues == nil {
		h.queues = event.NewManager(event.DefaultQueueSize)
	}
	if h.configs == nil {
		h.configs = task.NewInMemoryPushConfigStore()
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	h.manager = task.NewManager(h.store, h.logger)
	h.aggregator = task.NewAggregator(h.manager, h.logger)

	return h, nil
}

// OnMessageSend handles message/send. With Blocking set it waits for the
// task to settle or pause for input; otherwise it returns the stored
// snapshot while the agent keeps working in the background.
func (h *DefaultRequestHandler) OnMessageSend(ctx context.Context, params *a2a.MessageSendParams) (a2a.Event, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkOutputModes(params.Configuration); err != nil {
		return nil, err
	}

	reqCtx, queue, err := h.setup(ctx, params)
	if err != nil {
		return nil, err
	}
	h.execute(ctx, reqCtx, queue)

	consumer := event.NewConsumer(queue)

	var historyLength *int
	blocking := false
	if params.Configuration != nil {
		historyLength = params.Configuration.HistoryLength
		blocking = params.Configuration.Blocking
	}

	if !blocking {
		// Fold events into the store in the background and hand back the
		// snapshot as it stands now.
		background := context.WithoutCancel(ctx)
		go func() {
			defer h.queues.Destroy(reqCtx.TaskID)
			if _, err := h.aggregator.ConsumeAll(background, consumer.Stream(background)); err != nil {
				h.logger.ErrorContext(background, "background event consumption failed",
					slog.String("taskId", reqCtx.TaskID),
					slog.String("error", err.Error()))
			}
		}()
		snapshot, err := h.store.Get(ctx, reqCtx.TaskID)
		if err != nil {
			return nil, err
		}
		return snapshot.TrimHistory(historyLength), nil
	}

	result, interrupted, err := h.aggregator.ConsumeAndBreakOnInterrupt(ctx, consumer.Stream(ctx))
	if !interrupted {
		h.queues.Destroy(reqCtx.TaskID)
	}
	if err != nil {
		return nil, err
	}
	if settled, ok := result.(*a2a.Task); ok {
		h.notifyPush(ctx, settled)
		return settled.TrimHistory(historyLength), nil
	}
	return result, nil
}

// OnMessageSendStream handles message/stream. Every event the agent
// produces is persisted and forwarded on the returned channel.
func (h *DefaultRequestHandler) OnMessageSendStream(ctx context.Context, params *a2a.MessageSendParams) (<-chan a2a.Event, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := h.checkOutputModes(params.Configuration); err != nil {
		return nil, err
	}

	reqCtx, queue, err := h.setup(ctx, params)
	if err != nil {
		return nil, err
	}
	h.execute(ctx, reqCtx, queue)

	consumer := event.NewConsumer(queue)
	events := h.aggregator.ConsumeAndEmit(ctx, consumer.Stream(ctx))

	out := make(chan a2a.Event)
	go func() {
		defer close(out)
		defer h.queues.Destroy(reqCtx.TaskID)
		for e := range events {
			h.notifyPushForEvent(ctx, e)
			select {
			case out <- e:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// OnGetTask handles tasks/get.
func (h *DefaultRequestHandler) OnGetTask(ctx context.Context, params *a2a.TaskQueryParams) (*a2a.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	stored, err := h.store.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	return stored.TrimHistory(params.HistoryLength), nil
}

// OnCancelTask handles tasks/cancel. The executor is asked to stop the
// task and the handler waits for the resulting terminal event.
func (h *DefaultRequestHandler) OnCancelTask(ctx context.Context, params *a2a.TaskIDParams) (*a2a.Task, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	stored, err := h.store.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	if stored.Terminal() {
		return nil, &a2a.TaskNotCancelableError{TaskID: stored.ID, State: stored.Status.State}
	}

	queue, err := h.queues.Get(params.ID)
	created := false
	if err != nil {
		// No live execution; give the executor a queue to publish the
		// cancellation on.
		queue = h.queues.CreateOrTap(params.ID)
		created = true
	}
	tap := queue.Tap()

	reqCtx := &RequestContext{
		TaskID:    stored.ID,
		ContextID: stored.ContextID,
		Task:      stored,
	}
	if err := h.executor.Cancel(ctx, reqCtx, queue); err != nil {
		if created {
			h.queues.Destroy(params.ID)
		}
		return nil, err
	}

	// When an execution is live its primary consumer owns the state fold;
	// this tap only waits for the terminal status. Re-applying a status is
	// idempotent, re-applying an artifact chunk is not, so artifact events
	// are left to the owner.
	consumer := event.NewConsumer(tap)
	var settled *a2a.Task
	var foldErr error
	for ev := range consumer.Stream(ctx) {
		su, ok := ev.(*a2a.TaskStatusUpdateEvent)
		if !ok {
			continue
		}
		snapshot, err := h.manager.Process(ctx, su)
		if err != nil {
			foldErr = err
			break
		}
		settled = snapshot
		if su.Final {
			break
		}
	}

	h.stopRunning(params.ID)
	if created {
		h.queues.Destroy(params.ID)
	}
	if foldErr != nil {
		return nil, foldErr
	}
	if settled == nil {
		return nil, fmt.Errorf("cancellation of task %s produced no task snapshot", params.ID)
	}
	h.notifyPush(ctx, settled)
	return settled, nil
}

// OnResubscribe handles tasks/resubscribe by tapping the task's live queue.
// No missed events are replayed; a finished task yields its settled status
// as a single final event.
func (h *DefaultRequestHandler) OnResubscribe(ctx context.Context, params *a2a.TaskIDParams) (<-chan a2a.Event, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	stored, err := h.store.Get(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	tap, err := h.queues.Tap(params.ID)
	if err != nil {
		if stored.Terminal() {
			out := make(chan a2a.Event, 1)
			out <- &a2a.TaskStatusUpdateEvent{
				TaskID:    stored.ID,
				ContextID: stored.ContextID,
				Status:    stored.Status,
				Final:     true,
			}
			close(out)
			return out, nil
		}
		return nil, a2a.NewValidationError(a2a.FieldViolation{
			Field:       "id",
			Description: fmt.Sprintf("task %s has no active event stream", params.ID),
		})
	}
	// State folding belongs to the execution's primary consumer; a
	// resubscriber only re-emits what the queue carries.
	consumer := event.NewConsumer(tap)
	return consumer.Stream(ctx), nil
}

// OnSetTaskPushNotificationConfig handles tasks/pushNotificationConfig/set.
func (h *DefaultRequestHandler) OnSetTaskPushNotificationConfig(ctx context.Context, params *a2a.TaskPushNotificationConfig) (*a2a.TaskPushNotificationConfig, error) {
	if !h.card.Capabilities.PushNotifications {
		return nil, &a2a.PushNotificationNotSupportedError{}
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.store.Get(ctx, params.TaskID); err != nil {
		return nil, err
	}
	saved, err := h.configs.Save(ctx, params.TaskID, &params.PushNotificationConfig)
	if err != nil {
		return nil, err
	}
	return &a2a.TaskPushNotificationConfig{
		TaskID:                 params.TaskID,
		PushNotificationConfig: *saved,
	}, nil
}

// OnGetTaskPushNotificationConfig handles tasks/pushNotificationConfig/get.
func (h *DefaultRequestHandler) OnGetTaskPushNotificationConfig(ctx context.Context, params *a2a.GetTaskPushNotificationConfigParams) (*a2a.TaskPushNotificationConfig, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.store.Get(ctx, params.ID); err != nil {
		return nil, err
	}
	config, err := h.configs.Get(ctx, params.ID, params.PushNotificationConfigID)
	if err != nil {
		return nil, err
	}
	return &a2a.TaskPushNotificationConfig{
		TaskID:                 params.ID,
		PushNotificationConfig: *config,
	}, nil
}

// OnListTaskPushNotificationConfig handles tasks/pushNotificationConfig/list.
func (h *DefaultRequestHandler) OnListTaskPushNotificationConfig(ctx context.Context, params *a2a.ListTaskPushNotificationConfigParams) ([]*a2a.TaskPushNotificationConfig, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if _, err := h.store.Get(ctx, params.ID); err != nil {
		return nil, err
	}
	configs, err := h.configs.List(ctx, params.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*a2a.TaskPushNotificationConfig, 0, len(configs))
	for _, config := range configs {
		out = append(out, &a2a.TaskPushNotificationConfig{
			TaskID:                 params.ID,
			PushNotificationConfig: *config,
		})
	}
	return out, nil
}

// OnDeleteTaskPushNotificationConfig handles
// tasks/pushNotificationConfig/delete.
func (h *DefaultRequestHandler) OnDeleteTaskPushNotificationConfig(ctx context.Context, params *a2a.DeleteTaskPushNotificationConfigParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if _, err := h.store.Get(ctx, params.ID); err != nil {
		return err
	}
	return h.configs.Delete(ctx, params.ID, params.PushNotificationConfigID)
}

// OnGetAuthenticatedExtendedCard handles agent/getAuthenticatedExtendedCard.
func (h *DefaultRequestHandler) OnGetAuthenticatedExtendedCard(ctx context.Context) (*a2a.AgentCard, error) {
	if !h.card.SupportsAuthenticatedExtendedCard {
		return nil, &a2a.UnsupportedOperationError{Operation: "agent/getAuthenticatedExtendedCard"}
	}
	if h.extended != nil {
		return h.extended, nil
	}
	return h.card, nil
}

// setup resolves the incoming message to a task: an existing one when the
// message names a task id, a fresh submitted one otherwise. The message is
// persisted into the task's history and the task's event queue is opened.
func (h *DefaultRequestHandler) setup(ctx context.Context, params *a2a.MessageSendParams) (*RequestContext, *event.Queue, error) {
	msg := params.Message

	var stored *a2a.Task
	if msg.TaskID != "" {
		var err error
		stored, err = h.store.Get(ctx, msg.TaskID)
		if err != nil {
			return nil, nil, err
		}
		if stored.Terminal() {
			return nil, nil, a2a.NewValidationError(a2a.FieldViolation{
				Field:       "message.taskId",
				Description: fmt.Sprintf("task %s is already %s", stored.ID, stored.Status.State),
			})
		}
		resolved := *msg
		resolved.ContextID = stored.ContextID
		if _, err := h.manager.Process(ctx, &resolved); err != nil {
			return nil, nil, err
		}
		// A queue left over from a finished or paused execution cannot
		// carry new events; replace it.
		if stale, err := h.queues.Get(stored.ID); err == nil && stale.Closed() {
			h.queues.Destroy(stored.ID)
		}
		queue := h.queues.CreateOrTap(stored.ID)
		return &RequestContext{
			TaskID:        stored.ID,
			ContextID:     stored.ContextID,
			Message:       &resolved,
			Task:          stored,
			Configuration: params.Configuration,
		}, queue, nil
	}

	fresh, err := a2a.NewTask(msg)
	if err != nil {
		return nil, nil, err
	}
	if _, err := h.manager.Process(ctx, fresh); err != nil {
		return nil, nil, err
	}
	queue := h.queues.CreateOrTap(fresh.ID)
	return &RequestContext{
		TaskID:        fresh.ID,
		ContextID:     fresh.ContextID,
		Message:       fresh.History[0],
		Configuration: params.Configuration,
	}, queue, nil
}

// execute runs the agent executor in the background. The queue is closed
// when the executor returns so consumers drain and finish.
func (h *DefaultRequestHandler) execute(ctx context.Context, reqCtx *RequestContext, queue *event.Queue) {
	execCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	h.mu.Lock()
	h.running[reqCtx.TaskID] = cancel
	h.mu.Unlock()

	go func() {
		defer func() {
			queue.Close()
			h.stopRunning(reqCtx.TaskID)
		}()
		if err := h.executor.Execute(execCtx, reqCtx, queue); err != nil {
			h.logger.ErrorContext(execCtx, "agent execution failed",
				slog.String("taskId", reqCtx.TaskID),
				slog.String("error", err.Error()))
		}
	}()
}

// stopRunning cancels and forgets the execution context for a task, if any.
func (h *DefaultRequestHandler) stopRunning(taskID string) {
	h.mu.Lock()
	cancel, ok := h.running[taskID]
	if ok {
		delete(h.running, taskID)
	}
	h.mu.Unlock()
	if ok {
		cancel()
	}
}

// checkOutputModes rejects requests whose accepted output modes share
// nothing with what the card offers.
func (h *DefaultRequestHandler) checkOutputModes(config *a2a.MessageSendConfiguration) error {
	if config == nil || len(config.AcceptedOutputModes) == 0 || len(h.card.DefaultOutputModes) == 0 {
		return nil
	}
	offered := make(map[string]bool, len(h.card.DefaultOutputModes))
	for _, mode := range h.card.DefaultOutputModes {
		offered[mode] = true
	}
	for _, mode := range config.AcceptedOutputModes {
		if offered[mode] {
			return nil
		}
	}
	return &a2a.ContentTypeNotSupportedError{MIMEType: config.AcceptedOutputModes[0]}
}

// notifyPush delivers the task snapshot to registered webhooks, if a
// sender is configured.
func (h *DefaultRequestHandler) notifyPush(ctx context.Context, t *a2a.Task) {
	if h.pusher == nil || t == nil {
		return
	}
	h.pusher.SendTaskUpdate(ctx, t)
}

// notifyPushForEvent notifies webhooks about task-changing stream events
// using the freshly persisted snapshot.
func (h *DefaultRequestHandler) notifyPushForEvent(ctx context.Context, e a2a.Event) {
	if h.pusher == nil {
		return
	}
	var taskID string
	switch e := e.(type) {
	case *a2a.Task:
		h.notifyPush(ctx, e)
		return
	case *a2a.TaskStatusUpdateEvent:
		taskID = e.TaskID
	case *a2a.TaskArtifactUpdateEvent:
		taskID = e.TaskID
	default:
		return
	}
	stored, err := h.store.Get(ctx, taskID)
	if err != nil {
		return
	}
	h.notifyPush(ctx, stored)
}
