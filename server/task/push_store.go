// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/agentwire/a2a"
)

// PushConfigStore persists push notification configs, keyed by
// (task id, config id). A task may carry several configs, one per webhook.
type PushConfigStore interface {
	// Save stores a config for a task. A config without an id is assigned
	// a generated one; the stored config is returned.
	Save(ctx context.Context, taskID string, config *a2a.PushNotificationConfig) (*a2a.PushNotificationConfig, error)

	// Get retrieves a config. An empty configID selects the task's only
	// config; it fails with [a2a.AmbiguousConfigError] when the task has
	// more than one, and with [a2a.ConfigNotFoundError] when it has none.
	Get(ctx context.Context, taskID, configID string) (*a2a.PushNotificationConfig, error)

	// List retrieves all configs for a task, sorted by config id. A task
	// with no configs yields an empty slice, not an error.
	List(ctx context.Context, taskID string) ([]*a2a.PushNotificationConfig, error)

	// Delete removes a config. Deleting an absent config fails with
	// [a2a.ConfigNotFoundError].
	Delete(ctx context.Context, taskID, configID string) error
}

// InMemoryPushConfigStore is a map-backed [PushConfigStore].
type InMemoryPushConfigStore struct {
	mu      sync.RWMutex
	configs map[string]map[string]*a2a.PushNotificationConfig
}

var _ PushConfigStore = (*InMemoryPushConfigStore)(nil)

// NewInMemoryPushConfigStore creates an empty InMemoryPushConfigStore.
func NewInMemoryPushConfigStore() *InMemoryPushConfigStore {
	return &InMemoryPushConfigStore{
		configs: make(map[string]map[string]*a2a.PushNotificationConfig),
	}
}

// Save stores a config for a task.
func (s *InMemoryPushConfigStore) Save(ctx context.Context, taskID string, config *a2a.PushNotificationConfig) (*a2a.PushNotificationConfig, error) {
	stored, err := normalizeConfig(taskID, config)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.configs[taskID] == nil {
		s.configs[taskID] = make(map[string]*a2a.PushNotificationConfig)
	}
	s.configs[taskID][stored.ID] = stored
	return cloneConfig(stored), nil
}

// Get retrieves a config.
func (s *InMemoryPushConfigStore) Get(ctx context.Context, taskID, configID string) (*a2a.PushNotificationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.configs[taskID]
	if configID == "" {
		switch len(byID) {
		case 0:
			return nil, &a2a.ConfigNotFoundError{TaskID: taskID}
		case 1:
			for _, config := range byID {
				return cloneConfig(config), nil
			}
		}
		return nil, &a2a.AmbiguousConfigError{TaskID: taskID, Count: len(byID)}
	}

	config, ok := byID[configID]
	if !ok {
		return nil, &a2a.ConfigNotFoundError{TaskID: taskID, ConfigID: configID}
	}
	return cloneConfig(config), nil
}

// List retrieves all configs for a task.
func (s *InMemoryPushConfigStore) List(ctx context.Context, taskID string) ([]*a2a.PushNotificationConfig, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	configs := make([]*a2a.PushNotificationConfig, 0, len(s.configs[taskID]))
	for _, config := range s.configs[taskID] {
		configs = append(configs, cloneConfig(config))
	}
	sort.Slice(configs, func(i, j int) bool { return configs[i].ID < configs[j].ID })
	return configs, nil
}

// Delete removes a config.
func (s *InMemoryPushConfigStore) Delete(ctx context.Context, taskID, configID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.configs[taskID][configID]; !ok {
		return &a2a.ConfigNotFoundError{TaskID: taskID, ConfigID: configID}
	}
	delete(s.configs[taskID], configID)
	if len(s.configs[taskID]) == 0 {
		delete(s.configs, taskID)
	}
	return nil
}

// DatabasePushConfigStore is a GORM-backed [PushConfigStore].
type DatabasePushConfigStore struct {
	db *gorm.DB
}

var _ PushConfigStore = (*DatabasePushConfigStore)(nil)

// NewDatabasePushConfigStore creates a DatabasePushConfigStore and migrates
// its table.
func NewDatabasePushConfigStore(db *gorm.DB) (*DatabasePushConfigStore, error) {
	if db == nil {
		return nil, errors.New("database connection cannot be nil")
	}
	if err := db.AutoMigrate(&PushConfigModel{}); err != nil {
		return nil, fmt.Errorf("migrating push notification configs table: %w", err)
	}
	return &DatabasePushConfigStore{db: db}, nil
}

// Save stores a config for a task.
func (s *DatabasePushConfigStore) Save(ctx context.Context, taskID string, config *a2a.PushNotificationConfig) (*a2a.PushNotificationConfig, error) {
	stored, err := normalizeConfig(taskID, config)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(NewPushConfigModel(taskID, stored)).Error; err != nil {
		return nil, fmt.Errorf("saving push notification config for task %s: %w", taskID, err)
	}
	return stored, nil
}

// Get retrieves a config.
func (s *DatabasePushConfigStore) Get(ctx context.Context, taskID, configID string) (*a2a.PushNotificationConfig, error) {
	db := s.db.WithContext(ctx).Where("task_id = ?", taskID)

	if configID == "" {
		var models []PushConfigModel
		if err := db.Limit(2).Find(&models).Error; err != nil {
			return nil, fmt.Errorf("loading push notification configs for task %s: %w", taskID, err)
		}
		switch len(models) {
		case 0:
			return nil, &a2a.ConfigNotFoundError{TaskID: taskID}
		case 1:
			return models[0].Config(), nil
		default:
			return nil, &a2a.AmbiguousConfigError{TaskID: taskID, Count: len(models)}
		}
	}

	var model PushConfigModel
	if err := db.Where("config_id = ?", configID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &a2a.ConfigNotFoundError{TaskID: taskID, ConfigID: configID}
		}
		return nil, fmt.Errorf("loading push notification config %s for task %s: %w", configID, taskID, err)
	}
	return model.Config(), nil
}

// List retrieves all configs for a task.
func (s *DatabasePushConfigStore) List(ctx context.Context, taskID string) ([]*a2a.PushNotificationConfig, error) {
	var models []PushConfigModel
	err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("config_id").Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("listing push notification configs for task %s: %w", taskID, err)
	}

	configs := make([]*a2a.PushNotificationConfig, len(models))
	for i := range models {
		configs[i] = models[i].Config()
	}
	return configs, nil
}

// Delete removes a config.
func (s *DatabasePushConfigStore) Delete(ctx context.Context, taskID, configID string) error {
	result := s.db.WithContext(ctx).
		Where("task_id = ? AND config_id = ?", taskID, configID).
		Delete(&PushConfigModel{})
	if result.Error != nil {
		return fmt.Errorf("deleting push notification config %s for task %s: %w", configID, taskID, result.Error)
	}
	if result.RowsAffected == 0 {
		return &a2a.ConfigNotFoundError{TaskID: taskID, ConfigID: configID}
	}
	return nil
}

// normalizeConfig validates a config and assigns a generated id when the
// caller did not choose one.
func normalizeConfig(taskID string, config *a2a.PushNotificationConfig) (*a2a.PushNotificationConfig, error) {
	if taskID == "" {
		return nil, errors.New("task id cannot be empty")
	}
	if config == nil {
		return nil, errors.New("push notification config cannot be nil")
	}
	stored := cloneConfig(config)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if err := stored.Validate(); err != nil {
		return nil, err
	}
	return stored, nil
}

func cloneConfig(config *a2a.PushNotificationConfig) *a2a.PushNotificationConfig {
	clone := *config
	if config.Authentication != nil {
		auth := *config.Authentication
		auth.Schemes = append([]string(nil), config.Authentication.Schemes...)
		clone.Authentication = &auth
	}
	return &clone
}
