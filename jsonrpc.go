// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"strconv"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// ID is the JSON-RPC request identifier: a string or a number, echoed
// verbatim in the matching response.
type ID struct {
	value any
}

// NewID creates an ID from a string or numeric value.
func NewID[T string | int | int64 | float64](v T) ID {
	switch v := any(v).(type) {
	case int:
		return ID{value: float64(v)}
	case int64:
		return ID{value: float64(v)}
	default:
		return ID{value: v}
	}
}

// IsZero reports whether the ID is absent. Used by the omitzero tag.
func (id ID) IsZero() bool { return id.value == nil }

// String formats the ID for logging.
func (id ID) String() string {
	switch v := id.value.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// MarshalJSON implements [json.Marshaler].
func (id ID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.value)
}

// UnmarshalJSON implements [json.Unmarshaler].
func (id *ID) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch v.(type) {
	case string, float64, nil:
		id.value = v
		return nil
	default:
		return fmt.Errorf("jsonrpc id must be a string or a number, got %T", v)
	}
}

// Request is a JSON-RPC 2.0 request envelope. Params are kept raw until
// the dispatcher validates them against the method's declared shape.
type Request struct {
	// JSONRPC is always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID correlates the request with its response.
	ID ID `json:"id,omitzero"`

	// Method identifies the operation to perform.
	Method string `json:"method"`

	// Params carries the method parameters, still unvalidated.
	Params jsontext.Value `json:"params,omitzero"`
}

// Validate ensures the Request envelope is well formed. Params validation
// is per method and happens at dispatch.
func (r *Request) Validate() error {
	ve := &ValidationError{}
	if r.JSONRPC != JSONRPCVersion {
		ve.Add("jsonrpc", "jsonrpc must be %q", JSONRPCVersion)
	}
	if r.Method == "" {
		ve.Add("method", "method cannot be empty")
	}
	return ve.Err()
}

// NewRequest creates a request envelope for the given method and id.
func NewRequest(id ID, method string, params jsontext.Value) *Request {
	return &Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	}
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	// Code is the stable error code.
	Code int `json:"code"`

	// Message is a short description of the error.
	Message string `json:"message"`

	// Data carries optional structured detail, e.g. field violations.
	Data any `json:"data,omitzero"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// Response is a JSON-RPC 2.0 response envelope carrying exactly one of
// Result or Error.
type Response struct {
	// JSONRPC is always "2.0".
	JSONRPC string `json:"jsonrpc"`

	// ID echoes the request id.
	ID ID `json:"id,omitzero"`

	// Result is the successful result. Mutually exclusive with Error.
	Result any `json:"result,omitempty"`

	// Error is the failure description. Mutually exclusive with Result.
	Error *Error `json:"error,omitempty"`
}

// Validate enforces envelope exclusivity: exactly one of Result or Error
// must be present.
func (r *Response) Validate() error {
	ve := &ValidationError{}
	if r.JSONRPC != JSONRPCVersion {
		ve.Add("jsonrpc", "jsonrpc must be %q", JSONRPCVersion)
	}
	if r.Result != nil && r.Error != nil {
		ve.Add("", "response must not carry both result and error")
	}
	if r.Result == nil && r.Error == nil {
		ve.Add("", "response must carry either result or error")
	}
	return ve.Err()
}

// NewResponse creates a success response envelope.
func NewResponse(id ID, result any) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  result,
	}
}

// NewErrorResponse creates an error response envelope.
func NewErrorResponse(id ID, err *Error) *Response {
	return &Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   err,
	}
}
