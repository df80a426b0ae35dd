// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agentwire/a2a"
)

// DatabaseStore is a GORM-backed [Store] for deployments that must survive
// restarts.
type DatabaseStore struct {
	db *gorm.DB
}

var _ Store = (*DatabaseStore)(nil)

// NewDatabaseStore creates a DatabaseStore and migrates its table.
func NewDatabaseStore(db *gorm.DB) (*DatabaseStore, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if err := db.AutoMigrate(&TaskModel{}); err != nil {
		return nil, fmt.Errorf("migrating tasks table: %w", err)
	}
	return &DatabaseStore{db: db}, nil
}

// Save persists a task.
func (s *DatabaseStore) Save(ctx context.Context, task *a2a.Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if err := task.Validate(); err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Save(NewTaskModel(task)).Error; err != nil {
		return fmt.Errorf("saving task %s: %w", task.ID, err)
	}
	return nil
}

// Get retrieves a task by id.
func (s *DatabaseStore) Get(ctx context.Context, taskID string) (*a2a.Task, error) {
	var model TaskModel
	err := s.db.WithContext(ctx).Where("id = ?", taskID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &a2a.TaskNotFoundError{TaskID: taskID}
		}
		return nil, fmt.Errorf("loading task %s: %w", taskID, err)
	}
	return model.Task(), nil
}

// Delete removes a task.
func (s *DatabaseStore) Delete(ctx context.Context, taskID string) error {
	result := s.db.WithContext(ctx).Where("id = ?", taskID).Delete(&TaskModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &a2a.TaskNotFoundError{TaskID: taskID}
	}
	return nil
}

// List retrieves tasks, optionally filtered by context id.
func (s *DatabaseStore) List(ctx context.Context, contextID string) ([]*a2a.Task, error) {
	db := s.db.WithContext(ctx)
	if contextID != "" {
		db = db.Where("context_id = ?", contextID)
	}

	var models []TaskModel
	if err := db.Order("id").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("listing tasks: %w", err)
	}

	tasks := make([]*a2a.Task, len(models))
	for i := range models {
		tasks[i] = models[i].Task()
	}
	return tasks, nil
}
