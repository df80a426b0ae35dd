// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"testing"
)

func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     *Message
		wantErr bool
	}{
		{
			name: "valid user message",
			msg:  NewUserMessage(NewTextPart("hi")),
		},
		{
			name: "valid agent message",
			msg:  NewAgentTextMessage("t1", "c1", "hello"),
		},
		{
			name:    "missing role",
			msg:     &Message{MessageID: "m1", Parts: PartList{NewTextPart("hi")}},
			wantErr: true,
		},
		{
			name:    "unknown role",
			msg:     &Message{Role: "system", MessageID: "m1", Parts: PartList{NewTextPart("hi")}},
			wantErr: true,
		},
		{
			name:    "missing message id",
			msg:     &Message{Role: RoleUser, Parts: PartList{NewTextPart("hi")}},
			wantErr: true,
		},
		{
			name:    "no parts",
			msg:     &Message{Role: RoleUser, MessageID: "m1"},
			wantErr: true,
		},
		{
			name: "invalid nested part",
			msg: &Message{
				Role:      RoleUser,
				MessageID: "m1",
				Parts:     PartList{&TextPart{}},
			},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestMessage_TextContent(t *testing.T) {
	msg := NewUserMessage(
		NewTextPart("first"),
		NewDataPart(map[string]any{"k": "v"}),
		NewTextPart("second"),
	)
	if got, want := msg.TextContent(), "first\nsecond"; got != want {
		t.Errorf("TextContent = %q, want %q", got, want)
	}
}

func TestNewUserMessage(t *testing.T) {
	msg := NewUserMessage(NewTextPart("hi"))
	if msg.MessageID == "" {
		t.Error("message id not generated")
	}
	if msg.Role != RoleUser {
		t.Errorf("role = %q, want %q", msg.Role, RoleUser)
	}
}
