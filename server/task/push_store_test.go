// Copyright 2025 The AgentWire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"testing"

	"github.com/agentwire/a2a"
)

func TestInMemoryPushConfigStore_Save(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryPushConfigStore()

	t.Run("generates config id", func(t *testing.T) {
		stored, err := s.Save(ctx, "t1", &a2a.PushNotificationConfig{URL: "https://hooks.example.com/a2a"})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if stored.ID == "" {
			t.Error("config id not generated")
		}
	})

	t.Run("keeps caller id and upserts", func(t *testing.T) {
		config := &a2a.PushNotificationConfig{ID: "cfg-1", URL: "https://hooks.example.com/a2a"}
		if _, err := s.Save(ctx, "t2", config); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		config.URL = "https://hooks.example.com/v2"
		if _, err := s.Save(ctx, "t2", config); err != nil {
			t.Fatalf("second Save failed: %v", err)
		}

		got, err := s.Get(ctx, "t2", "cfg-1")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.URL != "https://hooks.example.com/v2" {
			t.Errorf("url = %q, want the updated url", got.URL)
		}
		configs, _ := s.List(ctx, "t2")
		if len(configs) != 1 {
			t.Errorf("upsert left %d configs, want 1", len(configs))
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		if _, err := s.Save(ctx, "t3", &a2a.PushNotificationConfig{URL: "ftp://nope"}); err == nil {
			t.Error("Save accepted a non-http url")
		}
		if _, err := s.Save(ctx, "t3", nil); err == nil {
			t.Error("Save accepted a nil config")
		}
	})
}

func TestInMemoryPushConfigStore_Get(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryPushConfigStore()

	var notFound *a2a.ConfigNotFoundError
	var ambiguous *a2a.AmbiguousConfigError

	t.Run("no configs", func(t *testing.T) {
		if _, err := s.Get(ctx, "t1", ""); !errors.As(err, &notFound) {
			t.Errorf("error = %v, want ConfigNotFoundError", err)
		}
	})

	t.Run("empty id with single config", func(t *testing.T) {
		stored, err := s.Save(ctx, "t1", &a2a.PushNotificationConfig{URL: "https://hooks.example.com/a"})
		if err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		got, err := s.Get(ctx, "t1", "")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.ID != stored.ID {
			t.Errorf("got config %q, want %q", got.ID, stored.ID)
		}
	})

	t.Run("empty id with several configs", func(t *testing.T) {
		if _, err := s.Save(ctx, "t1", &a2a.PushNotificationConfig{URL: "https://hooks.example.com/b"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := s.Get(ctx, "t1", ""); !errors.As(err, &ambiguous) {
			t.Errorf("error = %v, want AmbiguousConfigError", err)
		}
	})

	t.Run("unknown config id", func(t *testing.T) {
		if _, err := s.Get(ctx, "t1", "nope"); !errors.As(err, &notFound) {
			t.Errorf("error = %v, want ConfigNotFoundError", err)
		}
	})
}

func TestInMemoryPushConfigStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryPushConfigStore()

	stored, err := s.Save(ctx, "t1", &a2a.PushNotificationConfig{URL: "https://hooks.example.com/a"})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if err := s.Delete(ctx, "t1", stored.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	var notFound *a2a.ConfigNotFoundError
	if err := s.Delete(ctx, "t1", stored.ID); !errors.As(err, &notFound) {
		t.Errorf("second Delete = %v, want ConfigNotFoundError", err)
	}

	configs, err := s.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("List after Delete returned %d configs, want 0", len(configs))
	}
}

func TestInMemoryPushConfigStore_List(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryPushConfigStore()

	// Listing a task with no configs is not an error.
	configs, err := s.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(configs) != 0 {
		t.Errorf("List returned %d configs, want 0", len(configs))
	}

	for _, id := range []string{"cfg-b", "cfg-a", "cfg-c"} {
		if _, err := s.Save(ctx, "t1", &a2a.PushNotificationConfig{ID: id, URL: "https://hooks.example.com/x"}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	configs, err = s.List(ctx, "t1")
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(configs) != 3 {
		t.Fatalf("List returned %d configs, want 3", len(configs))
	}
	for i, want := range []string{"cfg-a", "cfg-b", "cfg-c"} {
		if configs[i].ID != want {
			t.Errorf("config %d = %q, want %q", i, configs[i].ID, want)
		}
	}
}

func TestInMemoryPushConfigStore_Isolation(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryPushConfigStore()

	stored, err := s.Save(ctx, "t1", &a2a.PushNotificationConfig{
		URL: "https://hooks.example.com/a",
		Authentication: &a2a.PushNotificationAuthenticationInfo{
			Schemes: []string{"bearer"},
		},
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Mutating a returned config must not leak into the store.
	stored.URL = "https://attacker.example.com"
	stored.Authentication.Schemes[0] = "none"

	got, err := s.Get(ctx, "t1", stored.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.URL != "https://hooks.example.com/a" {
		t.Error("stored url mutated through returned config")
	}
	if got.Authentication.Schemes[0] != "bearer" {
		t.Error("stored auth schemes mutated through returned config")
	}
}
