// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestAsJSONRPCError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{
			name:     "task not found",
			err:      &TaskNotFoundError{TaskID: "t1"},
			wantCode: ErrorCodeTaskNotFound,
		},
		{
			name:     "wrapped protocol error",
			err:      fmt.Errorf("handling request: %w", &TaskNotCancelableError{TaskID: "t1", State: TaskStateCompleted}),
			wantCode: ErrorCodeTaskNotCancelable,
		},
		{
			name:     "invalid transition",
			err:      &InvalidTransitionError{TaskID: "t1", From: TaskStateCompleted, To: TaskStateWorking},
			wantCode: ErrorCodeInvalidTransition,
		},
		{
			name:     "orphan append",
			err:      &OrphanAppendError{TaskID: "t1", ArtifactID: "a1"},
			wantCode: ErrorCodeOrphanAppend,
		},
		{
			name:     "sealed artifact",
			err:      &ArtifactAlreadySealedError{TaskID: "t1", ArtifactID: "a1"},
			wantCode: ErrorCodeArtifactAlreadySealed,
		},
		{
			name:     "validation failure",
			err:      NewValidationError(FieldViolation{Field: "id", Description: "task id cannot be empty"}),
			wantCode: ErrorCodeInvalidParams,
		},
		{
			name:     "raw jsonrpc error passes through",
			err:      &Error{Code: ErrorCodeMethodNotFound, Message: "Method not found"},
			wantCode: ErrorCodeMethodNotFound,
		},
		{
			name:     "opaque error becomes internal",
			err:      errors.New("disk on fire"),
			wantCode: ErrorCodeInternalError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AsJSONRPCError(tt.err)
			if got == nil {
				t.Fatal("AsJSONRPCError returned nil")
			}
			if got.Code != tt.wantCode {
				t.Errorf("code = %d, want %d", got.Code, tt.wantCode)
			}
		})
	}

	t.Run("internal error does not leak detail", func(t *testing.T) {
		got := AsJSONRPCError(errors.New("dsn=postgres://user:hunter2@db"))
		if got.Data != nil {
			t.Error("internal error carried data")
		}
		if got.Message != "Internal error" {
			t.Errorf("message = %q, want Internal error", got.Message)
		}
	})
}

func TestProtocolErrorMessages(t *testing.T) {
	// Error strings are part of the operator-facing surface; keep them
	// anchored to the ids they mention.
	err := &InvalidTransitionError{TaskID: "t1", From: TaskStateSubmitted, To: TaskStateCompleted}
	for _, want := range []string{"t1", string(TaskStateSubmitted), string(TaskStateCompleted)} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err.Error(), want)
		}
	}
}
