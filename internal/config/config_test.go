package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server: {}\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host = %q, want localhost", cfg.Server.Host)
	}
	if cfg.Postmark.Timeout() != 30*time.Second {
		t.Errorf("default postmark timeout = %v, want 30s", cfg.Postmark.Timeout())
	}
	if cfg.Agreement.StoreTimeout() != 10*time.Second {
		t.Errorf("default store timeout = %v, want 10s", cfg.Agreement.StoreTimeout())
	}
	if cfg.Agreement.RateLimitPerMinute != 10 {
		t.Errorf("default rate limit = %d, want 10", cfg.Agreement.RateLimitPerMinute)
	}
	if cfg.Agreement.GuidelinesURL == "" || cfg.Agreement.MaterialURL == "" {
		t.Error("default guideline/material links should be set")
	}
}

func TestLoadReadsValues(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  port: 9090
  host: 0.0.0.0
agreement:
  licensor_email: licensing@sb-insight.com
  store_timeout_seconds: 5
`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Agreement.LicensorEmail != "licensing@sb-insight.com" {
		t.Errorf("licensor email = %q", cfg.Agreement.LicensorEmail)
	}
	if cfg.Agreement.StoreTimeout() != 5*time.Second {
		t.Errorf("store timeout = %v, want 5s", cfg.Agreement.StoreTimeout())
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://override/db")
	t.Setenv("POSTMARK_SERVER_TOKEN", "token-123")
	t.Setenv("LICENSOR_EMAIL", "override@sb-insight.com")
	t.Setenv("REDIS_ADDR", "redis:6379")

	cfg, err := LoadFromEnv(writeConfig(t, `
database:
  url: postgres://file/db
agreement:
  licensor_email: file@sb-insight.com
`))
	if err != nil {
		t.Fatalf("LoadFromEnv() error: %v", err)
	}

	if cfg.Database.URL != "postgres://override/db" {
		t.Errorf("database url = %q, env override not applied", cfg.Database.URL)
	}
	if cfg.Postmark.ServerToken != "token-123" {
		t.Errorf("postmark token = %q, env override not applied", cfg.Postmark.ServerToken)
	}
	if cfg.Agreement.LicensorEmail != "override@sb-insight.com" {
		t.Errorf("licensor email = %q, env override not applied", cfg.Agreement.LicensorEmail)
	}
	if !cfg.Redis.Enabled || cfg.Redis.Addr != "redis:6379" {
		t.Errorf("redis = %+v, REDIS_ADDR should enable and point the limiter", cfg.Redis)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() on a missing file should fail")
	}
}
