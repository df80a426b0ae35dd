// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package a2a

import "strings"

// PushNotificationAuthenticationInfo declares how the engine must
// authenticate against a push notification endpoint.
type PushNotificationAuthenticationInfo struct {
	// Schemes lists acceptable authentication schemes, e.g. "bearer".
	Schemes []string `json:"schemes"`

	// Credentials is optional scheme-specific credential material.
	Credentials string `json:"credentials,omitzero"`
}

// Validate ensures the authentication info is well formed.
func (a *PushNotificationAuthenticationInfo) Validate() error {
	if len(a.Schemes) == 0 {
		return NewValidationError(FieldViolation{Field: "schemes", Description: "at least one scheme is required"})
	}
	return nil
}

// PushNotificationConfig is an out-of-band delivery target for task
// updates, independent of live streaming. Configs are keyed by
// (taskId, id); the id is server-generated when absent on create.
type PushNotificationConfig struct {
	// ID distinguishes multiple configs for one task.
	ID string `json:"id,omitzero"`

	// URL is the endpoint task notifications are POSTed to.
	URL string `json:"url"`

	// Token is an optional opaque token echoed back on delivery so the
	// receiver can correlate the notification.
	Token string `json:"token,omitzero"`

	// Authentication optionally declares endpoint authentication.
	Authentication *PushNotificationAuthenticationInfo `json:"authentication,omitzero"`
}

// Validate ensures the PushNotificationConfig is well formed.
func (c *PushNotificationConfig) Validate() error {
	ve := &ValidationError{}
	if c.URL == "" {
		ve.Add("url", "push notification url cannot be empty")
	} else if !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://") {
		ve.Add("url", "push notification url must be http or https")
	}
	if c.Authentication != nil {
		ve.Merge("authentication", c.Authentication.Validate())
	}
	return ve.Err()
}

// TaskPushNotificationConfig pairs a push notification config with the
// task it belongs to. It is both the set params and the set/get result
// shape.
type TaskPushNotificationConfig struct {
	// TaskID is the task the config belongs to.
	TaskID string `json:"taskId"`

	// PushNotificationConfig is the delivery target.
	PushNotificationConfig PushNotificationConfig `json:"pushNotificationConfig"`
}

// Validate ensures the TaskPushNotificationConfig is well formed.
func (c *TaskPushNotificationConfig) Validate() error {
	ve := &ValidationError{}
	if c.TaskID == "" {
		ve.Add("taskId", "task id cannot be empty")
	}
	ve.Merge("pushNotificationConfig", c.PushNotificationConfig.Validate())
	return ve.Err()
}
