package cache

import (
	"context"
	"testing"
	"time"
)

func TestDefaultBoundedConfig(t *testing.T) {
	cfg := DefaultBoundedConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
	if cfg.Capacity <= 0 || cfg.NumShards <= 0 || cfg.TTL <= 0 {
		t.Errorf("default config has zero core values: %+v", cfg)
	}
}

func TestBoundedConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BoundedConfig)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *BoundedConfig) {}},
		{name: "zero capacity", mutate: func(c *BoundedConfig) { c.Capacity = 0 }, wantErr: true},
		{name: "zero shards", mutate: func(c *BoundedConfig) { c.NumShards = 0 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *BoundedConfig) { c.TTL = 0 }, wantErr: true},
		{name: "eviction percentage too high", mutate: func(c *BoundedConfig) { c.EvictionPercentage = 101 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultBoundedConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}

func TestNewBoundedStore_RoundTrip(t *testing.T) {
	ctx := context.Background()

	store, err := NewBoundedStore(BoundedConfig{
		Capacity:           100,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	})
	if err != nil {
		t.Fatalf("NewBoundedStore returned error: %v", err)
	}

	if err := store.Set(ctx, "k", "v"); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	v, ok := store.Get(ctx, "k")
	if !ok || v != "v" {
		t.Errorf("Get = (%v, %v), want (v, true)", v, ok)
	}
	if !store.Has(ctx, "k") {
		t.Error("Has should be true after Set")
	}
}

func TestNewBoundedStore_InvalidConfig(t *testing.T) {
	if _, err := NewBoundedStore(BoundedConfig{}); err == nil {
		t.Error("expected error for zero config")
	}
}

func TestNewLFUStore_InvalidBound(t *testing.T) {
	if _, err := NewLFUStore(0); err == nil {
		t.Error("expected error for non-positive bound")
	}
}
