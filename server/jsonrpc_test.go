// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"testing"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/agentwire/a2a"
	"github.com/agentwire/a2a/server/event"
	"github.com/agentwire/a2a/server/task"
)

func newTestDispatcher(t *testing.T, executor AgentExecutor) (*JSONRPCHandler, *DefaultRequestHandler) {
	t.Helper()
	h := newTestHandler(t, executor)
	return NewJSONRPCHandler(h), h
}

func mustParams(t *testing.T, v any) jsontext.Value {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return jsontext.Value(b)
}

func TestHandleRequestEnvelopeErrors(t *testing.T) {
	jh, _ := newTestDispatcher(t, &scriptedExecutor{})
	ctx := context.Background()

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{
			name:     "parse error",
			body:     `{"jsonrpc":"2.0",`,
			wantCode: a2a.ErrorCodeJSONParse,
		},
		{
			name:     "wrong version",
			body:     `{"jsonrpc":"1.0","id":1,"method":"tasks/get","params":{"id":"t"}}`,
			wantCode: a2a.ErrorCodeInvalidRequest,
		},
		{
			name:     "object id",
			body:     `{"jsonrpc":"2.0","id":{"k":1},"method":"tasks/get","params":{"id":"t"}}`,
			wantCode: a2a.ErrorCodeInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := jh.HandleRequest(ctx, []byte(tt.body))
			if resp.Error == nil {
				t.Fatalf("HandleRequest returned success, want error %d", tt.wantCode)
			}
			if resp.Error.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", resp.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestDispatchMethodRouting(t *testing.T) {
	jh, _ := newTestDispatcher(t, &scriptedExecutor{})
	ctx := context.Background()

	t.Run("unknown method", func(t *testing.T) {
		req := a2a.NewRequest(a2a.NewID("req-1"), "tasks/unknown", nil)
		resp := jh.Dispatch(ctx, req)
		if resp.Error == nil || resp.Error.Code != a2a.ErrorCodeMethodNotFound {
			t.Fatalf("response = %+v, want method not found", resp)
		}
		if resp.ID.String() != "req-1" {
			t.Errorf("response id = %s, want req-1", resp.ID)
		}
	})

	t.Run("streaming method on unary path", func(t *testing.T) {
		params := mustParams(t, sendParams(a2a.NewUserMessage(a2a.NewTextPart("hi")), false))
		req := a2a.NewRequest(a2a.NewID("req-2"), a2a.MethodMessageStream, params)
		resp := jh.Dispatch(ctx, req)
		if resp.Error == nil || resp.Error.Code != a2a.ErrorCodeInvalidRequest {
			t.Fatalf("response = %+v, want invalid request", resp)
		}
	})

	t.Run("invalid params", func(t *testing.T) {
		req := a2a.NewRequest(a2a.NewID("req-3"), a2a.MethodTasksGet, jsontext.Value(`{}`))
		resp := jh.Dispatch(ctx, req)
		if resp.Error == nil || resp.Error.Code != a2a.ErrorCodeInvalidParams {
			t.Fatalf("response = %+v, want invalid params", resp)
		}
	})

	t.Run("domain error keeps its code", func(t *testing.T) {
		req := a2a.NewRequest(a2a.NewID("req-4"), a2a.MethodTasksGet, jsontext.Value(`{"id":"missing"}`))
		resp := jh.Dispatch(ctx, req)
		if resp.Error == nil || resp.Error.Code != a2a.ErrorCodeTaskNotFound {
			t.Fatalf("response = %+v, want task not found", resp)
		}
	})
}

func TestDispatchMessageSend(t *testing.T) {
	executor := &scriptedExecutor{
		execute: func(ctx context.Context, reqCtx *RequestContext, queue *event.Queue) error {
			u, err := task.NewUpdater(reqCtx.TaskID, reqCtx.ContextID, queue)
			if err != nil {
				return err
			}
			if err := u.StartWork(ctx); err != nil {
				return err
			}
			return u.Complete(ctx)
		},
	}
	jh, _ := newTestDispatcher(t, executor)

	params := mustParams(t, sendParams(a2a.NewUserMessage(a2a.NewTextPart("go")), true))
	req := a2a.NewRequest(a2a.NewID("send-1"), a2a.MethodMessageSend, params)
	resp := jh.Dispatch(context.Background(), req)
	if resp.Error != nil {
		t.Fatalf("Dispatch error: %+v", resp.Error)
	}
	if resp.ID.String() != "send-1" {
		t.Errorf("response id = %s, want send-1", resp.ID)
	}
	settled, ok := resp.Result.(*a2a.Task)
	if !ok {
		t.Fatalf("result = %T, want *a2a.Task", resp.Result)
	}
	if settled.Status.State != a2a.TaskStateCompleted {
		t.Errorf("state = %q, want %q", settled.Status.State, a2a.TaskStateCompleted)
	}
}

func TestDispatchStreamMessageStream(t *testing.T) {
	executor := &scriptedExecutor{
		execute: func(ctx context.Context, reqCtx *RequestContext, queue *event.Queue) error {
			u, err := task.NewUpdater(reqCtx.TaskID, reqCtx.ContextID, queue)
			if err != nil {
				return err
			}
			if err := u.StartWork(ctx); err != nil {
				return err
			}
			return u.Complete(ctx)
		},
	}
	jh, _ := newTestDispatcher(t, executor)

	params := mustParams(t, sendParams(a2a.NewUserMessage(a2a.NewTextPart("stream")), false))
	req := a2a.NewRequest(a2a.NewID("stream-1"), a2a.MethodMessageStream, params)

	var responses []*a2a.Response
	for resp := range jh.DispatchStream(context.Background(), req) {
		responses = append(responses, resp)
	}
	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}
	for i, resp := range responses {
		if resp.Error != nil {
			t.Fatalf("response %d error: %+v", i, resp.Error)
		}
		if resp.ID.String() != "stream-1" {
			t.Errorf("response %d id = %s, want stream-1", i, resp.ID)
		}
	}
	last, ok := responses[1].Result.(*a2a.TaskStatusUpdateEvent)
	if !ok {
		t.Fatalf("last result = %T, want *a2a.TaskStatusUpdateEvent", responses[1].Result)
	}
	if !last.Final || last.Status.State != a2a.TaskStateCompleted {
		t.Errorf("last event = %+v, want final completed update", last)
	}
}

func TestHandleStreamUnaryFallback(t *testing.T) {
	jh, h := newTestDispatcher(t, &scriptedExecutor{})
	ctx := context.Background()

	stored := &a2a.Task{
		ID:        "task-1",
		ContextID: "ctx-1",
		Status:    a2a.NewTaskStatus(a2a.TaskStateWorking),
	}
	if err := h.store.Save(ctx, stored); err != nil {
		t.Fatalf("store.Save: %v", err)
	}

	body := `{"jsonrpc":"2.0","id":7,"method":"tasks/get","params":{"id":"task-1"}}`
	var responses []*a2a.Response
	for resp := range jh.HandleStream(ctx, []byte(body)) {
		responses = append(responses, resp)
	}
	if len(responses) != 1 {
		t.Fatalf("got %d responses, want 1", len(responses))
	}
	if responses[0].Error != nil {
		t.Fatalf("error: %+v", responses[0].Error)
	}
	if _, ok := responses[0].Result.(*a2a.Task); !ok {
		t.Errorf("result = %T, want *a2a.Task", responses[0].Result)
	}
}

func TestDispatchDeletePushConfigNullResult(t *testing.T) {
	jh, h := newTestDispatcher(t, &scriptedExecutor{})
	ctx := context.Background()

	stored := &a2a.Task{
		ID:        "task-push",
		ContextID: "ctx-1",
		Status:    a2a.NewTaskStatus(a2a.TaskStateWorking),
	}
	if err := h.store.Save(ctx, stored); err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	set, err := h.OnSetTaskPushNotificationConfig(ctx, &a2a.TaskPushNotificationConfig{
		TaskID:                 stored.ID,
		PushNotificationConfig: a2a.PushNotificationConfig{URL: "https://hooks.example.com/a2a"},
	})
	if err != nil {
		t.Fatalf("OnSetTaskPushNotificationConfig: %v", err)
	}

	params := mustParams(t, &a2a.DeleteTaskPushNotificationConfigParams{
		ID:                       stored.ID,
		PushNotificationConfigID: set.PushNotificationConfig.ID,
	})
	req := a2a.NewRequest(a2a.NewID("del-1"), a2a.MethodPushNotificationConfigDelete, params)
	resp := jh.Dispatch(ctx, req)
	if resp.Error != nil {
		t.Fatalf("Dispatch error: %+v", resp.Error)
	}
	raw, ok := resp.Result.(jsontext.Value)
	if !ok {
		t.Fatalf("result = %T, want jsontext.Value", resp.Result)
	}
	if string(raw) != "null" {
		t.Errorf("result = %s, want null", raw)
	}
}
