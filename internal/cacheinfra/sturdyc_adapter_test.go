package cacheinfra

import (
	"context"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Capacity:           100,
		NumShards:          4,
		TTL:                time.Minute,
		EvictionPercentage: 10,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "defaults valid", mutate: func(c *Config) { *c = DefaultConfig() }},
		{name: "zero capacity", mutate: func(c *Config) { c.Capacity = 0 }, wantErr: true},
		{name: "negative capacity", mutate: func(c *Config) { c.Capacity = -1 }, wantErr: true},
		{name: "zero shards", mutate: func(c *Config) { c.NumShards = 0 }, wantErr: true},
		{name: "zero ttl", mutate: func(c *Config) { c.TTL = 0 }, wantErr: true},
		{name: "eviction percentage zero", mutate: func(c *Config) { c.EvictionPercentage = 0 }, wantErr: true},
		{name: "eviction percentage above 100", mutate: func(c *Config) { c.EvictionPercentage = 101 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
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

func TestSturdycStore_Contract(t *testing.T) {
	ctx := context.Background()

	store, err := NewSturdycStore(testConfig())
	if err != nil {
		t.Fatalf("NewSturdycStore returned error: %v", err)
	}

	if store.Has(ctx, "k") {
		t.Error("Has should be false before Set")
	}
	if _, ok := store.Get(ctx, "k"); ok {
		t.Error("Get should miss before Set")
	}

	if err := store.Set(ctx, "k", 42); err != nil {
		t.Fatalf("Set returned error: %v", err)
	}
	v, ok := store.Get(ctx, "k")
	if !ok || v != 42 {
		t.Errorf("Get = (%v, %v), want (42, true)", v, ok)
	}
	if !store.Has(ctx, "k") {
		t.Error("Has should be true after Set")
	}

	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if store.Has(ctx, "k") {
		t.Error("Has should be false after Delete")
	}
}

func TestSturdycStore_InvalidConfig(t *testing.T) {
	if _, err := NewSturdycStore(Config{}); err == nil {
		t.Error("expected error for zero config")
	}
}
