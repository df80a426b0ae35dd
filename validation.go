// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import (
	"fmt"
	"strings"
)

// FieldViolation describes a single violated constraint at a field path.
type FieldViolation struct {
	// Field is the JSON path of the offending field, e.g. "message.parts[0].file".
	Field string `json:"field"`

	// Description states the violated constraint.
	Description string `json:"description"`
}

func (v FieldViolation) String() string {
	return v.Field + ": " + v.Description
}

// ValidationError reports every constraint a payload violated. It is
// returned by the wire-type validators and marshals directly into the data
// field of a JSON-RPC invalid-params error.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

// NewValidationError creates a ValidationError from one or more violations.
func NewValidationError(violations ...FieldViolation) *ValidationError {
	return &ValidationError{Violations: violations}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	descs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		descs[i] = v.String()
	}
	return "validation failed: " + strings.Join(descs, "; ")
}

// Add records a violation and returns the receiver for chaining.
func (e *ValidationError) Add(field, format string, args ...any) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	})
	return e
}

// Merge folds another error into the receiver, prefixing its field paths.
// Non-ValidationError errors are recorded as a single violation at the
// prefix itself.
func (e *ValidationError) Merge(prefix string, err error) *ValidationError {
	if err == nil {
		return e
	}
	if ve, ok := err.(*ValidationError); ok {
		for _, v := range ve.Violations {
			field := prefix
			if v.Field != "" {
				field = prefix + "." + v.Field
			}
			e.Violations = append(e.Violations, FieldViolation{
				Field:       field,
				Description: v.Description,
			})
		}
		return e
	}
	return e.Add(prefix, "%s", err.Error())
}

// Err returns the receiver if any violation was recorded, nil otherwise.
// Validators build up an error and finish with Err so an empty collection
// never escapes as a non-nil error.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Violations) == 0 {
		return nil
	}
	return e
}

// JSONRPCError converts the validation failure into a JSON-RPC invalid
// params error carrying the violations as structured data.
func (e *ValidationError) JSONRPCError() *Error {
	return &Error{
		Code:    ErrorCodeInvalidParams,
		Message: "Invalid parameters",
		Data:    e,
	}
}
