package cacheinfra

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Capacity != 10000 {
		t.Errorf("expected Capacity to be 10000, got %d", cfg.Capacity)
	}

	if cfg.NumShards != 256 {
		t.Errorf("expected NumShards to be 256, got %d", cfg.NumShards)
	}

	if cfg.TTL != 10*time.Minute {
		t.Errorf("expected TTL to be 10 minutes, got %v", cfg.TTL)
	}

	if cfg.EvictionPercentage != 10 {
		t.Errorf("expected EvictionPercentage to be 10, got %d", cfg.EvictionPercentage)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantField string
	}{
		{
			name: "valid default config",
			cfg:  DefaultConfig(),
		},
		{
			name:      "invalid capacity - zero",
			cfg:       Config{Capacity: 0, NumShards: 256, TTL: time.Minute, EvictionPercentage: 10},
			wantField: "Capacity",
		},
		{
			name:      "invalid num shards - zero",
			cfg:       Config{Capacity: 1000, NumShards: 0, TTL: time.Minute, EvictionPercentage: 10},
			wantField: "NumShards",
		},
		{
			name:      "invalid TTL - zero",
			cfg:       Config{Capacity: 1000, NumShards: 256, TTL: 0, EvictionPercentage: 10},
			wantField: "TTL",
		},
		{
			name:      "invalid eviction percentage - too low",
			cfg:       Config{Capacity: 1000, NumShards: 256, TTL: time.Minute, EvictionPercentage: 0},
			wantField: "EvictionPercentage",
		},
		{
			name:      "invalid eviction percentage - too high",
			cfg:       Config{Capacity: 1000, NumShards: 256, TTL: time.Minute, EvictionPercentage: 101},
			wantField: "EvictionPercentage",
		},
		{
			name:      "negative eviction interval",
			cfg:       Config{Capacity: 1000, NumShards: 256, TTL: time.Minute, EvictionPercentage: 10, EvictionInterval: -time.Second},
			wantField: "EvictionInterval",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("expected no validation error but got: %v", err)
				}
				return
			}

			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected *ConfigError, got %v", err)
			}
			if cfgErr.Field != tt.wantField {
				t.Errorf("expected error on field %s, got %s", tt.wantField, cfgErr.Field)
			}
		})
	}
}

func TestConfig_ToSturdycOptions(t *testing.T) {
	if n := len(DefaultConfig().ToSturdycOptions()); n != 0 {
		t.Errorf("expected no options for default config, got %d", n)
	}

	cfg := DefaultConfig()
	cfg.EvictionInterval = time.Second
	if n := len(cfg.ToSturdycOptions()); n != 1 {
		t.Errorf("expected eviction interval option, got %d options", n)
	}
}

func TestNewMemoryStore_InvalidConfig(t *testing.T) {
	if _, err := NewMemoryStore(Config{}); err == nil {
		t.Error("expected error for zero config")
	}
}

func TestMemoryStore_GetSetDelete(t *testing.T) {
	store, err := NewMemoryStore(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "comment_count:42"); ok {
		t.Fatal("expected miss on empty store")
	}

	if err := store.Set(ctx, "comment_count:42", 3); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	value, ok, err := store.Get(ctx, "comment_count:42")
	if err != nil || !ok || value != 3 {
		t.Fatalf("Get() = %d, %v, %v; want 3, true, nil", value, ok, err)
	}

	if err := store.Set(ctx, "comment_count:42", 4); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}
	if value, _, _ := store.Get(ctx, "comment_count:42"); value != 4 {
		t.Errorf("expected overwrite to 4, got %d", value)
	}

	if err := store.Delete(ctx, "comment_count:42"); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "comment_count:42"); ok {
		t.Error("expected miss after delete")
	}
}

func TestMemoryStore_ZeroIsAHit(t *testing.T) {
	store, err := NewMemoryStore(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}
	ctx := context.Background()

	if err := store.Set(ctx, "favor_count:1", 0); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	value, ok, _ := store.Get(ctx, "favor_count:1")
	if !ok || value != 0 {
		t.Errorf("expected cached zero, got %d ok=%v", value, ok)
	}
}

func TestMemoryStore_DeleteByPrefix(t *testing.T) {
	store, err := NewMemoryStore(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		store.Set(ctx, fmt.Sprintf("favor_count:%d", i), i)
		store.Set(ctx, fmt.Sprintf("comment_count:%d", i), i)
	}

	if err := store.DeleteByPrefix(ctx, "favor_count:"); err != nil {
		t.Fatalf("DeleteByPrefix() failed: %v", err)
	}

	for i := int64(1); i <= 3; i++ {
		if _, ok, _ := store.Get(ctx, fmt.Sprintf("favor_count:%d", i)); ok {
			t.Errorf("favor_count:%d should be gone", i)
		}
		if _, ok, _ := store.Get(ctx, fmt.Sprintf("comment_count:%d", i)); !ok {
			t.Errorf("comment_count:%d should survive", i)
		}
	}

	if store.Size() != 3 {
		t.Errorf("expected 3 entries left, got %d", store.Size())
	}
}

func TestMemoryStore_ConcurrentSetsSameKey(t *testing.T) {
	store, err := NewMemoryStore(DefaultConfig())
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			store.Set(ctx, "follower_count:5", 12)
		}()
	}
	wg.Wait()

	value, ok, _ := store.Get(ctx, "follower_count:5")
	if !ok || value != 12 {
		t.Errorf("expected 12 after racing identical writes, got %d ok=%v", value, ok)
	}
}
