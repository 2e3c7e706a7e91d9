package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestConfigYAMLRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Environment = EnvProduction
	cfg.Server.ProductionURL = "https://alerts.example.com/trpc"
	cfg.Location.Latitude = 40.7128

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	loaded, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed: %v", err)
	}

	if loaded.ServerURL() != "https://alerts.example.com/trpc" {
		t.Errorf("ServerURL: got %q", loaded.ServerURL())
	}
	if loaded.Location.Latitude != 40.7128 {
		t.Errorf("Latitude: got %v, want 40.7128", loaded.Location.Latitude)
	}
}

func TestDefaultConfigRetryPolicy(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Gateway.QueryRetries != 2 {
		t.Errorf("default QueryRetries: got %d, want 2", cfg.Gateway.QueryRetries)
	}
	if cfg.Gateway.MutationRetries != 1 {
		t.Errorf("default MutationRetries: got %d, want 1", cfg.Gateway.MutationRetries)
	}
	if cfg.ServerURL() != cfg.Server.DevelopmentURL {
		t.Errorf("default environment should use the development URL")
	}
}

func TestRequestTimeoutFallback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.Timeout = 0
	if got := cfg.RequestTimeout(); got != 30*time.Second {
		t.Errorf("RequestTimeout: got %v, want 30s", got)
	}
}

func TestPartialConfigKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	partial := `version: 1
environment: development
server:
  development_url: "http://10.0.0.5:3000/api/trpc"
`
	configPath := filepath.Join(tmpDir, ".safewatch")
	if err := os.MkdirAll(configPath, 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configPath, "config.yaml"), []byte(partial), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := ReadConfig(tmpDir)
	if err != nil {
		t.Fatalf("ReadConfig failed on partial config: %v", err)
	}
	if cfg.ServerURL() != "http://10.0.0.5:3000/api/trpc" {
		t.Errorf("ServerURL: got %q", cfg.ServerURL())
	}
	if cfg.Gateway.StaleTime != 300 {
		t.Errorf("StaleTime should keep default 300, got %d", cfg.Gateway.StaleTime)
	}
}

func TestReadConfigMissing(t *testing.T) {
	if _, err := ReadConfig(t.TempDir()); err == nil {
		t.Error("expected error for missing config")
	}
}
