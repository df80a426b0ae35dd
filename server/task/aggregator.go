// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agentwire/a2a"
)

// Aggregator folds an event stream into a final result through a [Manager].
// It backs the non-streaming surface: message/send blocks on it until the
// stream produces either an agent message or a settled task.
type Aggregator struct {
	manager *Manager
	logger  *slog.Logger
}

// NewAggregator creates an Aggregator over the given manager.
func NewAggregator(manager *Manager, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{manager: manager, logger: logger}
}

// ConsumeAll drains the input until the stream ends and returns the final
// result: the agent's message when one arrives, the settled task otherwise.
func (a *Aggregator) ConsumeAll(ctx context.Context, input <-chan a2a.Event) (a2a.Event, error) {
	var lastTask *a2a.Task
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case event, ok := <-input:
			if !ok {
				if lastTask == nil {
					return nil, errors.New("event stream ended without a result")
				}
				return lastTask, nil
			}

			task, err := a.manager.Process(ctx, event)
			if err != nil {
				return nil, err
			}
			if task != nil {
				lastTask = task
			}

			// An agent message is itself the result of the exchange.
			if msg, ok := event.(*a2a.Message); ok {
				return msg, nil
			}
			if a2a.IsFinalEvent(event) {
				if lastTask == nil {
					return nil, errors.New("final event arrived before any task state")
				}
				return lastTask, nil
			}
		}
	}
}

// ConsumeAndBreakOnInterrupt behaves like ConsumeAll but returns early when
// the task pauses for input or authentication. The remainder of the stream
// keeps being folded into the store in the background so no event is lost.
func (a *Aggregator) ConsumeAndBreakOnInterrupt(ctx context.Context, input <-chan a2a.Event) (a2a.Event, bool, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, false, ctx.Err()
		case event, ok := <-input:
			if !ok {
				return nil, false, errors.New("event stream ended without a result")
			}

			task, err := a.manager.Process(ctx, event)
			if err != nil {
				return nil, false, err
			}

			if msg, ok := event.(*a2a.Message); ok {
				return msg, false, nil
			}
			if task != nil && task.Status.State.Interruptible() {
				go a.consumeRemaining(input)
				return task, true, nil
			}
			if a2a.IsFinalEvent(event) {
				if task == nil {
					return nil, false, errors.New("final event arrived before any task state")
				}
				return task, false, nil
			}
		}
	}
}

// ConsumeAndEmit folds events into the store while re-emitting them, for
// the streaming surface. The returned channel closes when the input ends.
// Processing failures stop the stream.
func (a *Aggregator) ConsumeAndEmit(ctx context.Context, input <-chan a2a.Event) <-chan a2a.Event {
	out := make(chan a2a.Event)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-input:
				if !ok {
					return
				}
				if _, err := a.manager.Process(ctx, event); err != nil {
					a.logger.ErrorContext(ctx, "dropping stream after processing failure",
						slog.String("kind", string(event.EventKind())),
						slog.String("error", err.Error()))
					return
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

// consumeRemaining drains an interrupted stream into the store detached
// from the request that started it.
func (a *Aggregator) consumeRemaining(input <-chan a2a.Event) {
	ctx := context.Background()
	for event := range input {
		if _, err := a.manager.Process(ctx, event); err != nil {
			a.logger.Error("processing event after interrupt",
				slog.String("kind", string(event.EventKind())),
				slog.String("error", err.Error()))
			return
		}
	}
}
