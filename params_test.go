// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"testing"
)

func TestDecodeRequest(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","id":1,"method":"tasks/get","params":{"id":"t1"}}`))
		if err != nil {
			t.Fatalf("DecodeRequest failed: %v", err)
		}
		if req.Method != MethodTasksGet {
			t.Errorf("method = %q, want %q", req.Method, MethodTasksGet)
		}
		if req.ID.String() != "1" {
			t.Errorf("id = %q, want 1", req.ID.String())
		}
		if len(req.Params) == 0 {
			t.Error("params not preserved")
		}
	})

	t.Run("malformed JSON is a parse error", func(t *testing.T) {
		_, err := DecodeRequest([]byte(`{"jsonrpc":`))
		rpcErr := asRPCError(t, err)
		if rpcErr.Code != ErrorCodeJSONParse {
			t.Errorf("code = %d, want %d", rpcErr.Code, ErrorCodeJSONParse)
		}
	})

	t.Run("wrong version is an invalid request", func(t *testing.T) {
		_, err := DecodeRequest([]byte(`{"jsonrpc":"1.0","id":1,"method":"tasks/get"}`))
		rpcErr := asRPCError(t, err)
		if rpcErr.Code != ErrorCodeInvalidRequest {
			t.Errorf("code = %d, want %d", rpcErr.Code, ErrorCodeInvalidRequest)
		}
	})

	t.Run("object id is an invalid request", func(t *testing.T) {
		_, err := DecodeRequest([]byte(`{"jsonrpc":"2.0","id":{"a":1},"method":"tasks/get"}`))
		rpcErr := asRPCError(t, err)
		if rpcErr.Code != ErrorCodeInvalidRequest {
			t.Errorf("code = %d, want %d", rpcErr.Code, ErrorCodeInvalidRequest)
		}
	})
}

func asRPCError(t *testing.T, err error) *Error {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	var rpcErr *Error
	if !errors.As(err, &rpcErr) {
		t.Fatalf("error is %T, want *Error", err)
	}
	return rpcErr
}

func TestUnmarshalParams(t *testing.T) {
	t.Run("valid task query", func(t *testing.T) {
		var params TaskQueryParams
		if err := UnmarshalParams([]byte(`{"id":"t1","historyLength":3}`), &params); err != nil {
			t.Fatalf("UnmarshalParams failed: %v", err)
		}
		if params.ID != "t1" {
			t.Errorf("id = %q, want t1", params.ID)
		}
		if params.HistoryLength == nil || *params.HistoryLength != 3 {
			t.Error("historyLength not decoded")
		}
	})

	t.Run("missing params", func(t *testing.T) {
		var params TaskIDParams
		if err := UnmarshalParams(nil, &params); err == nil {
			t.Error("UnmarshalParams accepted empty params")
		}
	})

	t.Run("validation failure surfaces field path", func(t *testing.T) {
		var params MessageSendParams
		err := UnmarshalParams([]byte(`{"message":{"role":"user","messageId":"m1","parts":[]}}`), &params)
		if err == nil {
			t.Fatal("UnmarshalParams accepted a message without parts")
		}
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("error is %T, want *ValidationError", err)
		}
		if len(ve.Violations) == 0 {
			t.Fatal("no violations recorded")
		}
	})

	t.Run("delete params require config id", func(t *testing.T) {
		var params DeleteTaskPushNotificationConfigParams
		if err := UnmarshalParams([]byte(`{"id":"t1"}`), &params); err == nil {
			t.Error("UnmarshalParams accepted delete params without a config id")
		}
	})
}
