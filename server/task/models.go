// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"database/sql/driver"
	"fmt"

	"github.com/go-json-experiment/json"

	"github.com/agentwire/a2a"
)

// taskStatusColumn stores a [a2a.TaskStatus] as a JSON column.
type taskStatusColumn struct {
	a2a.TaskStatus
}

// Value implements [driver.Valuer].
func (c taskStatusColumn) Value() (driver.Value, error) {
	return json.Marshal(c.TaskStatus)
}

// Scan implements [sql.Scanner].
func (c *taskStatusColumn) Scan(value any) error {
	data, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("task status column: %w", err)
	}
	if data == nil {
		*c = taskStatusColumn{}
		return nil
	}
	return json.Unmarshal(data, &c.TaskStatus)
}

// messagesColumn stores a message history as a JSON column.
type messagesColumn struct {
	Messages []*a2a.Message
}

// Value implements [driver.Valuer].
func (c messagesColumn) Value() (driver.Value, error) {
	if c.Messages == nil {
		return nil, nil
	}
	return json.Marshal(c.Messages)
}

// Scan implements [sql.Scanner].
func (c *messagesColumn) Scan(value any) error {
	data, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("messages column: %w", err)
	}
	if data == nil {
		c.Messages = nil
		return nil
	}
	return json.Unmarshal(data, &c.Messages)
}

// artifactsColumn stores accumulated artifacts as a JSON column.
type artifactsColumn struct {
	Artifacts []*a2a.Artifact
}

// Value implements [driver.Valuer].
func (c artifactsColumn) Value() (driver.Value, error) {
	if c.Artifacts == nil {
		return nil, nil
	}
	return json.Marshal(c.Artifacts)
}

// Scan implements [sql.Scanner].
func (c *artifactsColumn) Scan(value any) error {
	data, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("artifacts column: %w", err)
	}
	if data == nil {
		c.Artifacts = nil
		return nil
	}
	return json.Unmarshal(data, &c.Artifacts)
}

// metadataColumn stores an opaque metadata bag as a JSON column.
type metadataColumn struct {
	Metadata map[string]any
}

// Value implements [driver.Valuer].
func (c metadataColumn) Value() (driver.Value, error) {
	if c.Metadata == nil {
		return nil, nil
	}
	return json.Marshal(c.Metadata)
}

// Scan implements [sql.Scanner].
func (c *metadataColumn) Scan(value any) error {
	data, err := columnBytes(value)
	if err != nil {
		return fmt.Errorf("metadata column: %w", err)
	}
	if data == nil {
		c.Metadata = nil
		return nil
	}
	return json.Unmarshal(data, &c.Metadata)
}

func columnBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("cannot scan %T as JSON", value)
	}
}

// TaskModel is the GORM row shape for a task. Nested protocol types are
// stored as JSON columns so the row survives protocol additions without
// migrations.
type TaskModel struct {
	ID        string           `gorm:"primaryKey;size:64"`
	ContextID string           `gorm:"size:64;not null;index"`
	Status    taskStatusColumn `gorm:"type:json"`
	History   messagesColumn   `gorm:"type:json"`
	Artifacts artifactsColumn  `gorm:"type:json"`
	Metadata  metadataColumn   `gorm:"type:json"`
}

// TableName implements GORM's table naming convention.
func (TaskModel) TableName() string { return "tasks" }

// NewTaskModel converts a task into its row shape.
func NewTaskModel(task *a2a.Task) *TaskModel {
	return &TaskModel{
		ID:        task.ID,
		ContextID: task.ContextID,
		Status:    taskStatusColumn{task.Status},
		History:   messagesColumn{Messages: task.History},
		Artifacts: artifactsColumn{Artifacts: task.Artifacts},
		Metadata:  metadataColumn{Metadata: task.Metadata},
	}
}

// Task converts the row back into a protocol task.
func (m *TaskModel) Task() *a2a.Task {
	return &a2a.Task{
		ID:        m.ID,
		ContextID: m.ContextID,
		Status:    m.Status.TaskStatus,
		History:   m.History.Messages,
		Artifacts: m.Artifacts.Artifacts,
		Metadata:  m.Metadata.Metadata,
	}
}

// PushConfigModel is the GORM row shape for a push notification config.
// Rows are keyed by (task id, config id).
type PushConfigModel struct {
	TaskID         string         `gorm:"primaryKey;size:64"`
	ConfigID       string         `gorm:"primaryKey;size:64;column:config_id"`
	URL            string         `gorm:"size:2048;not null"`
	Token          string         `gorm:"size:512"`
	Authentication metadataColumn `gorm:"type:json"`
}

// TableName implements GORM's table naming convention.
func (PushConfigModel) TableName() string { return "push_notification_configs" }

// NewPushConfigModel converts a stored config into its row shape.
func NewPushConfigModel(taskID string, config *a2a.PushNotificationConfig) *PushConfigModel {
	m := &PushConfigModel{
		TaskID:   taskID,
		ConfigID: config.ID,
		URL:      config.URL,
		Token:    config.Token,
	}
	if config.Authentication != nil {
		m.Authentication = metadataColumn{Metadata: map[string]any{
			"schemes":     config.Authentication.Schemes,
			"credentials": config.Authentication.Credentials,
		}}
	}
	return m
}

// Config converts the row back into a protocol config.
func (m *PushConfigModel) Config() *a2a.PushNotificationConfig {
	config := &a2a.PushNotificationConfig{
		ID:    m.ConfigID,
		URL:   m.URL,
		Token: m.Token,
	}
	if auth := m.Authentication.Metadata; auth != nil {
		info := &a2a.PushNotificationAuthenticationInfo{}
		if schemes, ok := auth["schemes"].([]any); ok {
			for _, s := range schemes {
				if scheme, ok := s.(string); ok {
					info.Schemes = append(info.Schemes, scheme)
				}
			}
		}
		if creds, ok := auth["credentials"].(string); ok {
			info.Credentials = creds
		}
		config.Authentication = info
	}
	return config
}
