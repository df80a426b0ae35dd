// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"log/slog"

	"github.com/go-json-experiment/json/jsontext"

	"github.com/agentwire/a2a"
)

type unaryFunc func(ctx context.Context, req *a2a.Request) *a2a.Response

type streamFunc func(ctx context.Context, req *a2a.Request) <-chan *a2a.Response

// JSONRPCHandler adapts JSON-RPC envelopes onto a [RequestHandler]. Method
// names are matched exactly against the tables built at construction;
// anything else fails with a method-not-found error carrying the request id.
type JSONRPCHandler struct {
	handler RequestHandler
	logger  *slog.Logger
	unary   map[string]unaryFunc
	stream  map[string]streamFunc
}

// JSONRPCHandlerOption configures a JSONRPCHandler.
type JSONRPCHandlerOption func(*JSONRPCHandler)

// WithJSONRPCLogger sets the dispatcher's logger. Defaults to
// [slog.Default].
func WithJSONRPCLogger(logger *slog.Logger) JSONRPCHandlerOption {
	return func(h *JSONRPCHandler) { h.logger = logger }
}

// NewJSONRPCHandler creates a dispatcher for the given request handler.
func NewJSONRPCHandler(handler RequestHandler, opts ...JSONRPCHandlerOption) *JSONRPCHandler {
	h := &JSONRPCHandler{handler: handler}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	h.unary = map[string]unaryFunc{
		a2a.MethodMessageSend:                       h.handleMessageSend,
		a2a.MethodTasksGet:                          h.handleGetTask,
		a2a.MethodTasksCancel:                       h.handleCancelTask,
		a2a.MethodPushNotificationConfigSet:         h.handleSetPushConfig,
		a2a.MethodPushNotificationConfigGet:         h.handleGetPushConfig,
		a2a.MethodPushNotificationConfigList:        h.handleListPushConfig,
		a2a.MethodPushNotificationConfigDelete:      h.handleDeletePushConfig,
		a2a.MethodAgentGetAuthenticatedExtendedCard: h.handleExtendedCard,
	}
	h.stream = map[string]streamFunc{
		a2a.MethodMessageStream:    h.streamMessageSend,
		a2a.MethodTasksResubscribe: h.streamResubscribe,
	}
	return h
}

// Streaming reports whether a method produces a stream of responses.
func (h *JSONRPCHandler) Streaming(method string) bool {
	_, ok := h.stream[method]
	return ok
}

// HandleRequest decodes and dispatches a unary request. The returned
// response carries the request's id, or a null id when the envelope could
// not be decoded.
func (h *JSONRPCHandler) HandleRequest(ctx context.Context, data []byte) *a2a.Response {
	req, err := a2a.DecodeRequest(data)
	if err != nil {
		return a2a.NewErrorResponse(a2a.ID{}, a2a.AsJSONRPCError(err))
	}
	return h.Dispatch(ctx, req)
}

// Dispatch routes a decoded request to its unary handler.
func (h *JSONRPCHandler) Dispatch(ctx context.Context, req *a2a.Request) *a2a.Response {
	if fn, ok := h.unary[req.Method]; ok {
		return fn(ctx, req)
	}
	if _, ok := h.stream[req.Method]; ok {
		return a2a.NewErrorResponse(req.ID, &a2a.Error{
			Code:    a2a.ErrorCodeInvalidRequest,
			Message: "Invalid Request",
			Data:    req.Method + " requires a streaming transport",
		})
	}
	return h.methodNotFound(req)
}

// HandleStream decodes and dispatches a streaming request. Unary methods
// are served too, as a single-element stream. The channel is closed once
// the stream ends.
func (h *JSONRPCHandler) HandleStream(ctx context.Context, data []byte) <-chan *a2a.Response {
	req, err := a2a.DecodeRequest(data)
	if err != nil {
		return oneResponse(a2a.NewErrorResponse(a2a.ID{}, a2a.AsJSONRPCError(err)))
	}
	return h.DispatchStream(ctx, req)
}

// DispatchStream routes a decoded request to its streaming handler.
func (h *JSONRPCHandler) DispatchStream(ctx context.Context, req *a2a.Request) <-chan *a2a.Response {
	if fn, ok := h.stream[req.Method]; ok {
		return fn(ctx, req)
	}
	if _, ok := h.unary[req.Method]; ok {
		return oneResponse(h.Dispatch(ctx, req))
	}
	return oneResponse(h.methodNotFound(req))
}

func (h *JSONRPCHandler) methodNotFound(req *a2a.Request) *a2a.Response {
	return a2a.NewErrorResponse(req.ID, &a2a.Error{
		Code:    a2a.ErrorCodeMethodNotFound,
		Message: "Method not found",
		Data:    req.Method,
	})
}

func (h *JSONRPCHandler) handleMessageSend(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.MessageSendParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	result, err := h.handler.OnMessageSend(ctx, params)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) handleGetTask(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.TaskQueryParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	result, err := h.handler.OnGetTask(ctx, params)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) handleCancelTask(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.TaskIDParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	result, err := h.handler.OnCancelTask(ctx, params)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) handleSetPushConfig(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.TaskPushNotificationConfig)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	result, err := h.handler.OnSetTaskPushNotificationConfig(ctx, params)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) handleGetPushConfig(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.GetTaskPushNotificationConfigParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	result, err := h.handler.OnGetTaskPushNotificationConfig(ctx, params)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) handleListPushConfig(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.ListTaskPushNotificationConfigParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	result, err := h.handler.OnListTaskPushNotificationConfig(ctx, params)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) handleDeletePushConfig(ctx context.Context, req *a2a.Request) *a2a.Response {
	params := new(a2a.DeleteTaskPushNotificationConfigParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err))
	}
	if err := h.handler.OnDeleteTaskPushNotificationConfig(ctx, params); err != nil {
		return h.errorResponse(ctx, req, err)
	}
	// Deletion has no payload; the result is an explicit null.
	return a2a.NewResponse(req.ID, jsontext.Value("null"))
}

func (h *JSONRPCHandler) handleExtendedCard(ctx context.Context, req *a2a.Request) *a2a.Response {
	result, err := h.handler.OnGetAuthenticatedExtendedCard(ctx)
	if err != nil {
		return h.errorResponse(ctx, req, err)
	}
	return a2a.NewResponse(req.ID, result)
}

func (h *JSONRPCHandler) streamMessageSend(ctx context.Context, req *a2a.Request) <-chan *a2a.Response {
	params := new(a2a.MessageSendParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return oneResponse(a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err)))
	}
	events, err := h.handler.OnMessageSendStream(ctx, params)
	if err != nil {
		return oneResponse(h.errorResponse(ctx, req, err))
	}
	return h.wrapEvents(ctx, req.ID, events)
}

func (h *JSONRPCHandler) streamResubscribe(ctx context.Context, req *a2a.Request) <-chan *a2a.Response {
	params := new(a2a.TaskIDParams)
	if err := a2a.UnmarshalParams(req.Params, params); err != nil {
		return oneResponse(a2a.NewErrorResponse(req.ID, a2a.AsJSONRPCError(err)))
	}
	events, err := h.handler.OnResubscribe(ctx, params)
	if err != nil {
		return oneResponse(h.errorResponse(ctx, req, err))
	}
	return h.wrapEvents(ctx, req.ID, events)
}

// wrapEvents wraps each streamed event in a response envelope carrying the
// request id.
func (h *JSONRPCHandler) wrapEvents(ctx context.Context, id a2a.ID, events <-chan a2a.Event) <-chan *a2a.Response {
	out := make(chan *a2a.Response)
	go func() {
		defer close(out)
		for e := range events {
			select {
			case out <- a2a.NewResponse(id, e):
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

// errorResponse converts a handler failure into an error envelope, logging
// internal errors before their detail is withheld from the caller.
func (h *JSONRPCHandler) errorResponse(ctx context.Context, req *a2a.Request, err error) *a2a.Response {
	rpcErr := a2a.AsJSONRPCError(err)
	if rpcErr.Code == a2a.ErrorCodeInternalError {
		h.logger.ErrorContext(ctx, "request handler failed",
			slog.String("method", req.Method),
			slog.String("error", err.Error()))
	}
	return a2a.NewErrorResponse(req.ID, rpcErr)
}

// oneResponse returns a closed single-element stream.
func oneResponse(resp *a2a.Response) <-chan *a2a.Response {
	out := make(chan *a2a.Response, 1)
	out <- resp
	close(out)
	return out
}
