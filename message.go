// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"strings"

	"github.com/google/uuid"
)

// Role identifies the sender of a message.
type Role string

// Message sender roles.
const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// Validate ensures the Role is one of the known roles.
func (r Role) Validate() error {
	if r != RoleUser && r != RoleAgent {
		return NewValidationError(FieldViolation{Field: "role", Description: "role must be \"user\" or \"agent\": " + string(r)})
	}
	return nil
}

// Message is a single communication turn between a user and an agent.
// Messages are immutable once sent; MessageID is unique within its context.
type Message struct {
	// Role is the sender of the message.
	Role Role `json:"role"`

	// Parts is the message content. At least one part is required.
	Parts PartList `json:"parts"`

	// MessageID uniquely identifies the message within its context.
	MessageID string `json:"messageId"`

	// TaskID optionally binds the message to an existing task.
	TaskID string `json:"taskId,omitzero"`

	// ContextID optionally groups the message with related tasks.
	ContextID string `json:"contextId,omitzero"`

	// Extensions lists protocol extension URIs relevant to the message.
	Extensions []string `json:"extensions,omitzero"`

	// ReferenceTaskIDs lists tasks the message refers to for context.
	ReferenceTaskIDs []string `json:"referenceTaskIds,omitzero"`

	// Metadata is an opaque key-value bag.
	Metadata map[string]any `json:"metadata,omitzero"`
}

// EventKind implements [Event]. A Message is a valid stream payload.
func (m *Message) EventKind() EventKind { return EventKindMessage }

// Validate ensures the Message is well formed.
func (m *Message) Validate() error {
	ve := &ValidationError{}
	ve.Merge("role", m.Role.Validate())
	if m.MessageID == "" {
		ve.Add("messageId", "message id cannot be empty")
	}
	if len(m.Parts) == 0 {
		ve.Add("parts", "message must contain at least one part")
	} else {
		ve.Merge("", m.Parts.Validate())
	}
	return ve.Err()
}

// TextContent concatenates the text of all text parts, joined by newlines.
// Non-text parts are skipped.
func (m *Message) TextContent() string {
	var sb strings.Builder
	for _, part := range m.Parts {
		tp, ok := part.(*TextPart)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(tp.Text)
	}
	return sb.String()
}

// NewUserMessage creates a user message with a generated message id.
func NewUserMessage(parts ...Part) *Message {
	return &Message{
		Role:      RoleUser,
		Parts:     parts,
		MessageID: uuid.NewString(),
	}
}

// NewAgentMessage creates an agent message with a generated message id.
func NewAgentMessage(parts ...Part) *Message {
	return &Message{
		Role:      RoleAgent,
		Parts:     parts,
		MessageID: uuid.NewString(),
	}
}

// NewAgentTextMessage creates an agent message containing a single text
// part, bound to the given task and context.
func NewAgentTextMessage(taskID, contextID, text string) *Message {
	return &Message{
		Role:      RoleAgent,
		Parts:     PartList{NewTextPart(text)},
		MessageID: uuid.NewString(),
		TaskID:    taskID,
		ContextID: contextID,
	}
}
