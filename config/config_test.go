package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	configContent := `
server:
  port: 9090
apify:
  base_url: "https://api.apify.test"
  actor: "custom~actor"
  token: "file-token"
  timeout_seconds: 30
notify:
  webhook_url: "https://hooks.test/abc"
  pause_millis: 250
auth:
  session_secret: "test-secret"
  password: "hunter2"
  token_expire_hours: 48
scan:
  window_hours: 24
  default_limit: 50
  tags: "weddingrings,engagementrings"
store:
  path: "test.db"
log:
  level: "debug"
  format: "json"
`
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(configContent), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values
	if cfg.Server.Port != 9090 {
		t.Errorf("Expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Apify.BaseURL != "https://api.apify.test" {
		t.Errorf("Expected custom base url, got %s", cfg.Apify.BaseURL)
	}
	if cfg.Apify.Token != "file-token" {
		t.Errorf("Expected file token, got %s", cfg.Apify.Token)
	}
	if cfg.Notify.PauseMillis != 250 {
		t.Errorf("Expected pause_millis 250, got %d", cfg.Notify.PauseMillis)
	}
	if cfg.Auth.TokenExpireHours != 48 {
		t.Errorf("Expected token_expire_hours 48, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Scan.WindowHours != 24 {
		t.Errorf("Expected window_hours 24, got %d", cfg.Scan.WindowHours)
	}
	if cfg.Scan.Tags != "weddingrings,engagementrings" {
		t.Errorf("Unexpected tags override: %s", cfg.Scan.Tags)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log config: %+v", cfg.Log)
	}
}

func TestLoadDefaults(t *testing.T) {
	// Shield from ambient environment
	t.Setenv("PORT", "")
	t.Setenv("APIFY_TOKEN", "")
	t.Setenv("MONITORED_TAGS", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Expected missing file to be tolerated, got %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Apify.BaseURL != "https://api.apify.com" {
		t.Errorf("Unexpected default base url: %s", cfg.Apify.BaseURL)
	}
	if cfg.Apify.Actor != "apify~instagram-hashtag-scraper" {
		t.Errorf("Unexpected default actor: %s", cfg.Apify.Actor)
	}
	if cfg.Notify.PauseMillis != 600 {
		t.Errorf("Expected default pause_millis 600, got %d", cfg.Notify.PauseMillis)
	}
	if cfg.Auth.TokenExpireHours != 24 {
		t.Errorf("Expected default token_expire_hours 24, got %d", cfg.Auth.TokenExpireHours)
	}
	if cfg.Scan.WindowHours != 48 {
		t.Errorf("Expected default window_hours 48, got %d", cfg.Scan.WindowHours)
	}
	if cfg.Scan.DefaultLimit != 20 {
		t.Errorf("Expected default limit 20, got %d", cfg.Scan.DefaultLimit)
	}
	if cfg.Store.Path != "caratbridge.db" {
		t.Errorf("Unexpected default store path: %s", cfg.Store.Path)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("APIFY_TOKEN", "env-token")
	t.Setenv("NOTIFY_WEBHOOK_URL", "https://hooks.env/xyz")
	t.Setenv("MONITORED_TAGS", "envtag1,envtag2")
	t.Setenv("SESSION_SECRET", "env-secret")
	t.Setenv("DASHBOARD_PASSWORD", "env-password")
	t.Setenv("PORT", "3000")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Apify.Token != "env-token" {
		t.Errorf("Expected env token, got %s", cfg.Apify.Token)
	}
	if cfg.Notify.WebhookURL != "https://hooks.env/xyz" {
		t.Errorf("Expected env webhook, got %s", cfg.Notify.WebhookURL)
	}
	if cfg.Scan.Tags != "envtag1,envtag2" {
		t.Errorf("Expected env tags, got %s", cfg.Scan.Tags)
	}
	if cfg.Auth.SessionSecret != "env-secret" {
		t.Errorf("Expected env secret, got %s", cfg.Auth.SessionSecret)
	}
	if cfg.Auth.Password != "env-password" {
		t.Errorf("Expected env password, got %s", cfg.Auth.Password)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Expected env port 3000, got %d", cfg.Server.Port)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte("server: [not a mapping"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if _, err := Load(tmpFile); err == nil {
		t.Error("Expected error for invalid yaml")
	}
}
