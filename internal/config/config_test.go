package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SECRET", "test-secret")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.Version != "v1" {
		t.Errorf("expected default API version v1, got %q", cfg.API.Version)
	}
	if cfg.API.TimeoutDuration() != 20*time.Second {
		t.Errorf("expected 20s API timeout, got %s", cfg.API.TimeoutDuration())
	}
	if cfg.SessionTTL != 30 {
		t.Errorf("expected session TTL 30, got %d", cfg.SessionTTL)
	}
	if cfg.Cache.Type != "memory" {
		t.Errorf("expected memory cache, got %q", cfg.Cache.Type)
	}
	if cfg.Storage.SQLite == nil || cfg.Storage.SQLite.Path == "" {
		t.Fatalf("expected sqlite storage to be configured by default")
	}
}

func TestLoadConfig_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("SECRET", "test-secret")
	t.Setenv("API_BASE_URL", "https://api.example.com/")
	t.Setenv("API_KEY", "k-123")
	t.Setenv("API_VERSION", "v2")
	t.Setenv("CACHE_TYPE", "redis")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.BaseURL != "https://api.example.com" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.API.BaseURL)
	}
	if cfg.API.Key != "k-123" {
		t.Errorf("expected API key from env, got %q", cfg.API.Key)
	}
	if cfg.API.Version != "v2" {
		t.Errorf("expected API version from env, got %q", cfg.API.Version)
	}
	if cfg.Cache.Type != "redis" {
		t.Errorf("expected cache type from env, got %q", cfg.Cache.Type)
	}
}

func TestLoadConfig_ReleaseRequiresSecret(t *testing.T) {
	t.Setenv("SECRET", "")
	t.Setenv("GIN_MODE", "release")

	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error when secret is missing in release mode")
	}
}
