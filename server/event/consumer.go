// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"errors"

	"github.com/agentwire/a2a"
)

// Consumer reads a queue until the stream finishes. A stream is finite and
// non-restartable: it ends at the first final event, when the queue closes,
// or when the context is done, and a finished consumer never yields again.
type Consumer struct {
	queue *Queue
	done  bool
}

// NewConsumer creates a Consumer over the given queue.
func NewConsumer(queue *Queue) *Consumer {
	return &Consumer{queue: queue}
}

// ErrStreamDone is returned when consuming past the end of the stream.
var ErrStreamDone = errors.New("event stream is done")

// Next returns the next event in the stream. After a final event it returns
// [ErrStreamDone] forever.
func (c *Consumer) Next(ctx context.Context) (a2a.Event, error) {
	if c.done {
		return nil, ErrStreamDone
	}
	event, err := c.queue.Dequeue(ctx)
	if err != nil {
		c.done = true
		if errors.Is(err, ErrQueueClosed) {
			return nil, ErrStreamDone
		}
		return nil, err
	}
	if a2a.IsFinalEvent(event) {
		c.done = true
	}
	return event, nil
}

// Stream drains the queue into a channel, closing it at the end of the
// stream. The channel is owned by the consumer; the caller must drain it or
// cancel the context.
func (c *Consumer) Stream(ctx context.Context) <-chan a2a.Event {
	out := make(chan a2a.Event)
	go func() {
		defer close(out)
		for {
			event, err := c.Next(ctx)
			if err != nil {
				return
			}
			select {
			case out <- event:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
