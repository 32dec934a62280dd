package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pasteshare/pasteshare/pkg/pastestore/store"
	"github.com/pasteshare/pasteshare/pkg/upload"
)

func TestGetDefaultConfig(t *testing.T) {
	cfg := GetDefaultConfig()

	if cfg.Logging.Level != "INFO" {
		t.Errorf("expected INFO, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text, got %q", cfg.Logging.Format)
	}
	if cfg.Database.Type != store.DatabaseTypeSQLite {
		t.Errorf("expected sqlite default, got %q", cfg.Database.Type)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Uploads.Backend != upload.BackendFilesystem {
		t.Errorf("expected filesystem backend, got %q", cfg.Uploads.Backend)
	}
	if cfg.ShutdownTimeout != 30*time.Second {
		t.Errorf("expected 30s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Janitor.Interval != 5*time.Minute {
		t.Errorf("expected 5m janitor interval, got %v", cfg.Janitor.Interval)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
logging:
  level: debug
  format: json
server:
  port: 9999
  base_url: https://paste.example.com
database:
  type: sqlite
  sqlite:
    path: ":memory:"
janitor:
  interval: 90s
shutdown_timeout: 10s
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("level must be normalized to uppercase, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("unexpected format %q", cfg.Logging.Format)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Server.BaseURL != "https://paste.example.com" {
		t.Errorf("unexpected base URL %q", cfg.Server.BaseURL)
	}
	if cfg.Janitor.Interval != 90*time.Second {
		t.Errorf("duration string must parse, got %v", cfg.Janitor.Interval)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected shutdown timeout %v", cfg.ShutdownTimeout)
	}

	// Unset fields still get defaults
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("expected default read timeout, got %v", cfg.Server.ReadTimeout)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	t.Run("invalid log level", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Logging.Level = "LOUD"
		if err := Validate(cfg); err == nil {
			t.Error("expected error for invalid log level")
		}
	})

	t.Run("invalid log format", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Logging.Format = "xml"
		if err := Validate(cfg); err == nil {
			t.Error("expected error for invalid log format")
		}
	})

	t.Run("s3 backend requires bucket", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Uploads.Backend = upload.BackendS3
		if err := Validate(cfg); err == nil {
			t.Error("expected error for s3 without bucket")
		}

		cfg.Uploads.S3.Bucket = "pastes"
		if err := Validate(cfg); err != nil {
			t.Errorf("expected valid config, got %v", err)
		}
	})

	t.Run("sample rate out of range", func(t *testing.T) {
		cfg := GetDefaultConfig()
		cfg.Telemetry.SampleRate = 1.5
		if err := Validate(cfg); err == nil {
			t.Error("expected error for sample rate above 1.0")
		}
	})
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.Server.Port = 7777

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config file must be owner-only, got %v", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 7777 {
		t.Errorf("expected port 7777, got %d", loaded.Server.Port)
	}
}
