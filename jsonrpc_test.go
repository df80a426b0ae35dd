// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"testing"

	"github.com/go-json-experiment/json"
)

func TestID_JSON(t *testing.T) {
	tests := []struct {
		name string
		id   ID
		want string
	}{
		{name: "string", id: NewID("abc-1"), want: `"abc-1"`},
		{name: "int", id: NewID(42), want: `42`},
		{name: "zero", id: ID{}, want: `null`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.id)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}
			if string(data) != tt.want {
				t.Errorf("Marshal = %s, want %s", data, tt.want)
			}

			var got ID
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}
			if got.String() != tt.id.String() {
				t.Errorf("round trip = %q, want %q", got.String(), tt.id.String())
			}
		})
	}

	t.Run("rejects object id", func(t *testing.T) {
		var id ID
		if err := json.Unmarshal([]byte(`{"a":1}`), &id); err == nil {
			t.Error("Unmarshal accepted an object id")
		}
	})
}

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     *Request
		wantErr bool
	}{
		{
			name: "valid",
			req:  NewRequest(NewID("1"), MethodTasksGet, []byte(`{"id":"t1"}`)),
		},
		{
			name:    "wrong version",
			req:     &Request{JSONRPC: "1.0", ID: NewID("1"), Method: MethodTasksGet},
			wantErr: true,
		},
		{
			name:    "missing method",
			req:     &Request{JSONRPC: JSONRPCVersion, ID: NewID("1")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestResponse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		resp    *Response
		wantErr bool
	}{
		{
			name: "result only",
			resp: NewResponse(NewID("1"), &Task{}),
		},
		{
			name: "error only",
			resp: NewErrorResponse(NewID("1"), &Error{Code: ErrorCodeTaskNotFound, Message: "Task not found"}),
		},
		{
			name:    "both result and error",
			resp:    &Response{JSONRPC: JSONRPCVersion, ID: NewID("1"), Result: &Task{}, Error: &Error{Code: ErrorCodeInternalError}},
			wantErr: true,
		},
		{
			name:    "neither result nor error",
			resp:    &Response{JSONRPC: JSONRPCVersion, ID: NewID("1")},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.resp.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
