// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

// Package a2a implements the protocol engine for the Agent-to-Agent (A2A)
// JSON-RPC interface: the wire types and their validation, the task
// lifecycle state machine, the streaming event model, and the JSON-RPC
// envelope. The server-side engine (dispatch, reassembly, stores) lives
// under the server packages; transport bindings are intentionally absent.
package a2a

// Version is the A2A protocol version this module implements.
const Version = "0.2.0"

// JSONRPCVersion is the JSON-RPC version used by the A2A protocol.
const JSONRPCVersion = "2.0"

// A2A RPC method names.
const (
	// MethodMessageSend is the method name for sending a message to an agent.
	MethodMessageSend = "message/send"

	// MethodMessageStream is the method name for sending a message and
	// subscribing to the resulting event stream.
	MethodMessageStream = "message/stream"

	// MethodTasksGet is the method name for retrieving a task snapshot.
	MethodTasksGet = "tasks/get"

	// MethodTasksCancel is the method name for canceling a task.
	MethodTasksCancel = "tasks/cancel"

	// MethodTasksResubscribe is the method name for re-attaching to a
	// task's ongoing event stream.
	MethodTasksResubscribe = "tasks/resubscribe"

	// MethodPushNotificationConfigSet is the method name for creating or
	// updating a push notification configuration.
	MethodPushNotificationConfigSet = "tasks/pushNotificationConfig/set"

	// MethodPushNotificationConfigGet is the method name for retrieving a
	// push notification configuration.
	MethodPushNotificationConfigGet = "tasks/pushNotificationConfig/get"

	// MethodPushNotificationConfigList is the method name for listing all
	// push notification configurations of a task.
	MethodPushNotificationConfigList = "tasks/pushNotificationConfig/list"

	// MethodPushNotificationConfigDelete is the method name for deleting a
	// push notification configuration.
	MethodPushNotificationConfigDelete = "tasks/pushNotificationConfig/delete"

	// MethodAgentGetAuthenticatedExtendedCard is the method name for
	// retrieving the authenticated extended agent card.
	MethodAgentGetAuthenticatedExtendedCard = "agent/getAuthenticatedExtendedCard"
)

// Methods returns the closed set of A2A RPC method names.
func Methods() []string {
	return []string{
		MethodMessageSend,
		MethodMessageStream,
		MethodTasksGet,
		MethodTasksCancel,
		MethodTasksResubscribe,
		MethodPushNotificationConfigSet,
		MethodPushNotificationConfigGet,
		MethodPushNotificationConfigList,
		MethodPushNotificationConfigDelete,
		MethodAgentGetAuthenticatedExtendedCard,
	}
}

// A2A protocol path constants.
const (
	// AgentCardWellKnownPath is the standard path for retrieving an agent's
	// public AgentCard.
	//
	// Example: https://agent.example.com/.well-known/agent.json
	AgentCardWellKnownPath = "/.well-known/agent.json"

	// ExtendedAgentCardPath is the path for the authenticated extended
	// agent card.
	ExtendedAgentCardPath = "/agent/authenticatedExtendedCard"

	// DefaultRPCPath is the conventional path for the JSON-RPC endpoint.
	DefaultRPCPath = "/"
)
