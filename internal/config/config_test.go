package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jjenkins/nichefinder/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range env {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.StoreBackend != BackendCSV {
		t.Errorf("StoreBackend = %q, want %q", cfg.StoreBackend, BackendCSV)
	}
	if cfg.SnapshotPath != "channel_snapshots.csv" {
		t.Errorf("SnapshotPath = %q, want %q", cfg.SnapshotPath, "channel_snapshots.csv")
	}
	if cfg.HTTPTimeout != 30*time.Second {
		t.Errorf("HTTPTimeout = %v, want %v", cfg.HTTPTimeout, 30*time.Second)
	}
	if cfg.MaxRetries != 0 {
		t.Errorf("MaxRetries = %d, want 0", cfg.MaxRetries)
	}
	if cfg.DedupeSameDay {
		t.Error("DedupeSameDay should default to false")
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want %q", cfg.Port, "8080")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_KEY", "  secret  ")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("MAX_RETRIES", "3")
	t.Setenv("DEDUPE_SAME_DAY", "true")
	t.Setenv("SNAPSHOT_PATH", "/tmp/snaps.csv")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.APIKey != "secret" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "secret")
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Errorf("HTTPTimeout = %v, want 5s", cfg.HTTPTimeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", cfg.MaxRetries)
	}
	if !cfg.DedupeSameDay {
		t.Error("DedupeSameDay = false, want true")
	}
	if cfg.SnapshotPath != "/tmp/snaps.csv" {
		t.Errorf("SnapshotPath = %q, want /tmp/snaps.csv", cfg.SnapshotPath)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "nichefinder.yaml")
	content := "port: \"9090\"\nlog_level: debug\nstore_backend: csv\nsnapshot_path: data.csv\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.SnapshotPath != "data.csv" {
		t.Errorf("SnapshotPath = %q, want data.csv", cfg.SnapshotPath)
	}
}

func TestLoad_PostgresRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "postgres")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for postgres backend without DATABASE_URL")
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_BACKEND", "sqlite")

	if _, err := Load(""); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestRequireAPIKey(t *testing.T) {
	cfg := &Config{}
	if err := cfg.RequireAPIKey(); !errors.Is(err, model.ErrMissingCredential) {
		t.Errorf("RequireAPIKey() = %v, want ErrMissingCredential", err)
	}

	cfg.APIKey = "k"
	if err := cfg.RequireAPIKey(); err != nil {
		t.Errorf("RequireAPIKey() = %v, want nil", err)
	}
}
