package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transport != "stdio" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if len(cfg.Toolsets) != 2 {
		t.Fatalf("unexpected default toolsets: %#v", cfg.Toolsets)
	}
}

func TestFilePrecedenceUnderEnvAndFlags(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orgbridge.toml")
	content := "log_level = \"debug\"\nlogin_url = \"https://file.example/login\"\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ORGBRIDGE_LOG_LEVEL", "warn")

	level := "error"
	cfg, err := Load(path, Overrides{LogLevel: &level})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Fatalf("expected flag to win, got %q", cfg.LogLevel)
	}
	if cfg.LoginURL != "https://file.example/login" {
		t.Fatalf("expected file value to survive, got %q", cfg.LoginURL)
	}
}

func TestEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orgbridge.toml")
	if err := os.WriteFile(path, []byte("log_level = \"debug\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ORGBRIDGE_LOG_LEVEL", "warn")
	cfg, err := Load(path, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Fatalf("expected env to beat file, got %q", cfg.LogLevel)
	}
}

func TestSecretFromEnv(t *testing.T) {
	t.Setenv("ORGBRIDGE_SECRET", "s3cret")
	cfg, err := Load("", Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Secret != "s3cret" {
		t.Fatalf("expected secret from env, got %q", cfg.Secret)
	}
}

func TestValidateRejectsUnknownTransport(t *testing.T) {
	transport := "carrier-pigeon"
	_, err := Load("", Overrides{Transport: &transport})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if cfgErr.Setting != "transport" {
		t.Fatalf("unexpected setting: %s", cfgErr.Setting)
	}
}

func TestValidateRejectsBadPort(t *testing.T) {
	transport := "http"
	port := -1
	_, err := Load("", Overrides{Transport: &transport, HTTPPort: &port})
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestMissingConfigFileFails(t *testing.T) {
	if _, err := Load("/nonexistent/orgbridge.toml", Overrides{}); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
