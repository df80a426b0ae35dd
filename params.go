// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// MessageSendConfiguration tunes how a message/send or message/stream
// request is processed.
type MessageSendConfiguration struct {
	// AcceptedOutputModes lists the media types the caller can handle.
	AcceptedOutputModes []string `json:"acceptedOutputModes,omitzero"`

	// HistoryLength caps how much task history the response includes.
	HistoryLength *int `json:"historyLength,omitzero"`

	// PushNotificationConfig optionally registers a delivery target
	// together with the send.
	PushNotificationConfig *PushNotificationConfig `json:"pushNotificationConfig,omitzero"`

	// Blocking requests that message/send wait for a terminal state
	// instead of returning the submitted snapshot.
	Blocking bool `json:"blocking,omitzero"`
}

// Validate ensures the MessageSendConfiguration is well formed.
func (c *MessageSendConfiguration) Validate() error {
	ve := &ValidationError{}
	if c.HistoryLength != nil && *c.HistoryLength < 0 {
		ve.Add("historyLength", "history length cannot be negative")
	}
	if c.PushNotificationConfig != nil {
		ve.Merge("pushNotificationConfig", c.PushNotificationConfig.Validate())
	}
	return ve.Err()
}

// MessageSendParams are the parameters of message/send and message/stream.
type MessageSendParams struct {
	// Message is the message to deliver to the agent.
	Message *Message `json:"message"`

	// Configuration optionally tunes processing.
	Configuration *MessageSendConfiguration `json:"configuration,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the MessageSendParams are well formed.
func (p *MessageSendParams) Validate() error {
	ve := &ValidationError{}
	if p.Message == nil {
		ve.Add("message", "message cannot be nil")
	} else {
		ve.Merge("message", p.Message.Validate())
	}
	if p.Configuration != nil {
		ve.Merge("configuration", p.Configuration.Validate())
	}
	return ve.Err()
}

// TaskQueryParams are the parameters of tasks/get.
type TaskQueryParams struct {
	// ID is the task id.
	ID string `json:"id"`

	// HistoryLength caps the returned history: nil returns all, zero omits
	// history.
	HistoryLength *int `json:"historyLength,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskQueryParams are well formed.
func (p *TaskQueryParams) Validate() error {
	ve := &ValidationError{}
	if p.ID == "" {
		ve.Add("id", "task id cannot be empty")
	}
	if p.HistoryLength != nil && *p.HistoryLength < 0 {
		ve.Add("historyLength", "history length cannot be negative")
	}
	return ve.Err()
}

// TaskIDParams are the parameters of tasks/cancel and tasks/resubscribe.
type TaskIDParams struct {
	// ID is the task id.
	ID string `json:"id"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the TaskIDParams are well formed.
func (p *TaskIDParams) Validate() error {
	if p.ID == "" {
		return NewValidationError(FieldViolation{Field: "id", Description: "task id cannot be empty"})
	}
	return nil
}

// GetTaskPushNotificationConfigParams are the parameters of
// tasks/pushNotificationConfig/get.
type GetTaskPushNotificationConfigParams struct {
	// ID is the task id.
	ID string `json:"id"`

	// PushNotificationConfigID selects one config when a task has several.
	PushNotificationConfigID string `json:"pushNotificationConfigId,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the params are well formed.
func (p *GetTaskPushNotificationConfigParams) Validate() error {
	if p.ID == "" {
		return NewValidationError(FieldViolation{Field: "id", Description: "task id cannot be empty"})
	}
	return nil
}

// ListTaskPushNotificationConfigParams are the parameters of
// tasks/pushNotificationConfig/list.
type ListTaskPushNotificationConfigParams struct {
	// ID is the task id.
	ID string `json:"id"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the params are well formed.
func (p *ListTaskPushNotificationConfigParams) Validate() error {
	if p.ID == "" {
		return NewValidationError(FieldViolation{Field: "id", Description: "task id cannot be empty"})
	}
	return nil
}

// DeleteTaskPushNotificationConfigParams are the parameters of
// tasks/pushNotificationConfig/delete.
type DeleteTaskPushNotificationConfigParams struct {
	// ID is the task id.
	ID string `json:"id"`

	// PushNotificationConfigID is the config to delete.
	PushNotificationConfigID string `json:"pushNotificationConfigId"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// Validate ensures the params are well formed.
func (p *DeleteTaskPushNotificationConfigParams) Validate() error {
	ve := &ValidationError{}
	if p.ID == "" {
		ve.Add("id", "task id cannot be empty")
	}
	if p.PushNotificationConfigID == "" {
		ve.Add("pushNotificationConfigId", "push notification config id cannot be empty")
	}
	return ve.Err()
}

// validator is the contract every params shape satisfies.
type validator interface {
	Validate() error
}

// UnmarshalParams decodes raw request params into the given shape and
// validates it. The error is ready to be used as a JSON-RPC invalid
// params failure.
func UnmarshalParams[T validator](params jsontext.Value, out T) error {
	if len(params) == 0 {
		return NewValidationError(FieldViolation{Field: "params", Description: "params are required"})
	}
	if err := json.Unmarshal(params, out); err != nil {
		return NewValidationError(FieldViolation{Field: "params", Description: "malformed params: " + err.Error()})
	}
	return out.Validate()
}

// DecodeRequest decodes a raw JSON-RPC request envelope. The envelope is
// decoded on the fast path; params stay raw for per-method validation.
func DecodeRequest(data []byte) (*Request, error) {
	var probe struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      any             `json:"id"`
		Method  string          `json:"method"`
		Params  sonicRawMessage `json:"params"`
	}
	if err := sonic.ConfigFastest.Unmarshal(data, &probe); err != nil {
		return nil, &Error{Code: ErrorCodeJSONParse, Message: "Parse error", Data: err.Error()}
	}

	req := &Request{
		JSONRPC: probe.JSONRPC,
		Method:  probe.Method,
		Params:  jsontext.Value(probe.Params),
	}
	switch id := probe.ID.(type) {
	case string:
		req.ID = NewID(id)
	case float64:
		req.ID = NewID(id)
	case nil:
	default:
		return nil, &Error{Code: ErrorCodeInvalidRequest, Message: "Invalid Request", Data: fmt.Sprintf("id must be a string or a number, got %T", id)}
	}

	if err := req.Validate(); err != nil {
		return nil, &Error{Code: ErrorCodeInvalidRequest, Message: "Invalid Request", Data: err}
	}
	return req, nil
}

// sonicRawMessage defers params decoding, mirroring encoding/json's
// RawMessage for the sonic fast path.
type sonicRawMessage []byte

// UnmarshalJSON implements [json.Unmarshaler].
func (m *sonicRawMessage) UnmarshalJSON(data []byte) error {
	*m = append((*m)[:0], data...)
	return nil
}

// MarshalJSON implements [json.Marshaler].
func (m sonicRawMessage) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return m, nil
}
