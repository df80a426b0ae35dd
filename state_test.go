// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"testing"
)

func TestTaskState_Terminal(t *testing.T) {
	tests := []struct {
		state    TaskState
		terminal bool
	}{
		{TaskStateSubmitted, false},
		{TaskStateWorking, false},
		{TaskStateInputRequired, false},
		{TaskStateAuthRequired, false},
		{TaskStateUnknown, false},
		{TaskStateCompleted, true},
		{TaskStateCanceled, true},
		{TaskStateFailed, true},
		{TaskStateRejected, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.Terminal(); got != tt.terminal {
				t.Errorf("Terminal() = %t, want %t", got, tt.terminal)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    TaskState
		to      TaskState
		allowed bool
	}{
		{"submitted to working", TaskStateSubmitted, TaskStateWorking, true},
		{"submitted to input-required", TaskStateSubmitted, TaskStateInputRequired, true},
		{"submitted to canceled", TaskStateSubmitted, TaskStateCanceled, true},
		{"submitted to rejected", TaskStateSubmitted, TaskStateRejected, true},
		{"submitted to failed", TaskStateSubmitted, TaskStateFailed, true},
		{"submitted to completed", TaskStateSubmitted, TaskStateCompleted, false},
		{"working to working", TaskStateWorking, TaskStateWorking, true},
		{"working to completed", TaskStateWorking, TaskStateCompleted, true},
		{"working to rejected", TaskStateWorking, TaskStateRejected, false},
		{"input-required to working", TaskStateInputRequired, TaskStateWorking, true},
		{"input-required to completed", TaskStateInputRequired, TaskStateCompleted, false},
		{"auth-required to working", TaskStateAuthRequired, TaskStateWorking, true},
		{"auth-required to rejected", TaskStateAuthRequired, TaskStateRejected, false},
		{"completed is terminal", TaskStateCompleted, TaskStateWorking, false},
		{"canceled is terminal", TaskStateCanceled, TaskStateWorking, false},
		{"failed is terminal", TaskStateFailed, TaskStateWorking, false},
		{"rejected is terminal", TaskStateRejected, TaskStateWorking, false},
		{"self transition is idempotent", TaskStateCompleted, TaskStateCompleted, true},
		{"unknown is never a target", TaskStateWorking, TaskStateUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.allowed {
				t.Errorf("CanTransition(%q, %q) = %t, want %t", tt.from, tt.to, got, tt.allowed)
			}
		})
	}
}

func TestTaskState_Validate(t *testing.T) {
	for _, state := range TaskStates() {
		if err := state.Validate(); err != nil {
			t.Errorf("Validate(%q) = %v, want nil", state, err)
		}
	}

	if err := TaskState("paused").Validate(); err == nil {
		t.Error("Validate() accepted unknown state")
	}
}
