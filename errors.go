// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"errors"
	"fmt"
)

// JSON-RPC reserved error codes.
const (
	ErrorCodeJSONParse      = -32700
	ErrorCodeInvalidRequest = -32600
	ErrorCodeMethodNotFound = -32601
	ErrorCodeInvalidParams  = -32602
	ErrorCodeInternalError  = -32603
)

// A2A application error codes.
const (
	ErrorCodeTaskNotFound                 = -32001
	ErrorCodeTaskNotCancelable            = -32002
	ErrorCodePushNotificationNotSupported = -32003
	ErrorCodeUnsupportedOperation         = -32004
	ErrorCodeContentTypeNotSupported      = -32005
	ErrorCodeInvalidTransition            = -32006
	ErrorCodeOrphanAppend                 = -32007
	ErrorCodeArtifactAlreadySealed        = -32008
	ErrorCodeAmbiguousConfig              = -32009
	ErrorCodeConfigNotFound               = -32010
)

// ProtocolError is implemented by every typed A2A error. It couples a Go
// error with the stable JSON-RPC code callers dispatch on.
type ProtocolError interface {
	error

	// Code returns the stable JSON-RPC error code.
	Code() int

	// JSONRPCError converts the error into a JSON-RPC error object.
	JSONRPCError() *Error
}

// TaskNotFoundError reports an operation against an unknown task id.
type TaskNotFoundError struct {
	TaskID string
}

func (e *TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// Code returns the stable JSON-RPC error code.
func (e *TaskNotFoundError) Code() int { return ErrorCodeTaskNotFound }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *TaskNotFoundError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Task not found", Data: map[string]any{"taskId": e.TaskID}}
}

// TaskNotCancelableError reports a cancel request against a task already in
// a terminal state.
type TaskNotCancelableError struct {
	TaskID string
	State  TaskState
}

func (e *TaskNotCancelableError) Error() string {
	return fmt.Sprintf("task %s cannot be canceled in state %q", e.TaskID, e.State)
}

// Code returns the stable JSON-RPC error code.
func (e *TaskNotCancelableError) Code() int { return ErrorCodeTaskNotCancelable }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *TaskNotCancelableError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Task cannot be canceled", Data: map[string]any{"taskId": e.TaskID, "state": e.State}}
}

// InvalidTransitionError reports a status update that is not reachable from
// the task's current state. The stored task is left unchanged.
type InvalidTransitionError struct {
	TaskID string
	From   TaskState
	To     TaskState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("task %s: invalid transition %q -> %q", e.TaskID, e.From, e.To)
}

// Code returns the stable JSON-RPC error code.
func (e *InvalidTransitionError) Code() int { return ErrorCodeInvalidTransition }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *InvalidTransitionError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Invalid task state transition", Data: map[string]any{
		"taskId": e.TaskID,
		"from":   e.From,
		"to":     e.To,
	}}
}

// OrphanAppendError reports an append chunk for an artifact id with no
// previously stored artifact.
type OrphanAppendError struct {
	TaskID     string
	ArtifactID string
}

func (e *OrphanAppendError) Error() string {
	return fmt.Sprintf("task %s: append chunk for unknown artifact %q", e.TaskID, e.ArtifactID)
}

// Code returns the stable JSON-RPC error code.
func (e *OrphanAppendError) Code() int { return ErrorCodeOrphanAppend }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *OrphanAppendError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Append chunk without a stored artifact", Data: map[string]any{
		"taskId":     e.TaskID,
		"artifactId": e.ArtifactID,
	}}
}

// ArtifactAlreadySealedError reports a chunk for an artifact that already
// received its last chunk.
type ArtifactAlreadySealedError struct {
	TaskID     string
	ArtifactID string
}

func (e *ArtifactAlreadySealedError) Error() string {
	return fmt.Sprintf("task %s: artifact %q already sealed", e.TaskID, e.ArtifactID)
}

// Code returns the stable JSON-RPC error code.
func (e *ArtifactAlreadySealedError) Code() int { return ErrorCodeArtifactAlreadySealed }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *ArtifactAlreadySealedError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Artifact already sealed", Data: map[string]any{
		"taskId":     e.TaskID,
		"artifactId": e.ArtifactID,
	}}
}

// AmbiguousConfigError reports a push notification config lookup without a
// config id while several configs exist for the task.
type AmbiguousConfigError struct {
	TaskID string
	Count  int
}

func (e *AmbiguousConfigError) Error() string {
	return fmt.Sprintf("task %s has %d push notification configs, config id required", e.TaskID, e.Count)
}

// Code returns the stable JSON-RPC error code.
func (e *AmbiguousConfigError) Code() int { return ErrorCodeAmbiguousConfig }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *AmbiguousConfigError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Push notification config id required", Data: map[string]any{
		"taskId": e.TaskID,
		"count":  e.Count,
	}}
}

// ConfigNotFoundError reports a lookup or delete of an absent push
// notification config.
type ConfigNotFoundError struct {
	TaskID   string
	ConfigID string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("push notification config %q not found for task %s", e.ConfigID, e.TaskID)
}

// Code returns the stable JSON-RPC error code.
func (e *ConfigNotFoundError) Code() int { return ErrorCodeConfigNotFound }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *ConfigNotFoundError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Push notification config not found", Data: map[string]any{
		"taskId":   e.TaskID,
		"configId": e.ConfigID,
	}}
}

// UnsupportedOperationError reports an operation the agent does not support.
type UnsupportedOperationError struct {
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation not supported: %s", e.Operation)
}

// Code returns the stable JSON-RPC error code.
func (e *UnsupportedOperationError) Code() int { return ErrorCodeUnsupportedOperation }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *UnsupportedOperationError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "This operation is not supported", Data: map[string]any{"operation": e.Operation}}
}

// PushNotificationNotSupportedError reports push notification operations on
// an agent whose card does not declare the capability.
type PushNotificationNotSupportedError struct{}

func (e *PushNotificationNotSupportedError) Error() string {
	return "push notifications are not supported"
}

// Code returns the stable JSON-RPC error code.
func (e *PushNotificationNotSupportedError) Code() int {
	return ErrorCodePushNotificationNotSupported
}

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *PushNotificationNotSupportedError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Push Notification is not supported"}
}

// ContentTypeNotSupportedError reports a media type outside the agent's
// declared input modes.
type ContentTypeNotSupportedError struct {
	MIMEType string
}

func (e *ContentTypeNotSupportedError) Error() string {
	return fmt.Sprintf("content type not supported: %s", e.MIMEType)
}

// Code returns the stable JSON-RPC error code.
func (e *ContentTypeNotSupportedError) Code() int { return ErrorCodeContentTypeNotSupported }

// JSONRPCError converts the error into a JSON-RPC error object.
func (e *ContentTypeNotSupportedError) JSONRPCError() *Error {
	return &Error{Code: e.Code(), Message: "Content type not supported", Data: map[string]any{"mimeType": e.MIMEType}}
}

// AsJSONRPCError converts any error into a JSON-RPC error object. Raw
// [Error] values pass through unchanged; typed protocol errors keep their
// stable code; validation failures become
// invalid-params errors with field detail; everything else is an internal
// error whose detail is not leaked to the caller.
func AsJSONRPCError(err error) *Error {
	var rpcErr *Error
	if errors.As(err, &rpcErr) {
		return rpcErr
	}
	var pe ProtocolError
	if errors.As(err, &pe) {
		return pe.JSONRPCError()
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.JSONRPCError()
	}
	return &Error{Code: ErrorCodeInternalError, Message: "Internal error"}
}
