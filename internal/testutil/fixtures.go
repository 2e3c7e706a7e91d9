// Package testutil provides test helper utilities for safewatch tests.
package testutil

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/safewatch/safewatch/internal/config"
	"github.com/safewatch/safewatch/internal/devserver"
)

// TempHome creates a temporary home directory with the given files and
// returns its path. Files is a map of relative path -> content. Directories
// are created as needed. The directory is removed when the test finishes.
func TempHome(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()

	for relPath, content := range files {
		absPath := filepath.Join(dir, relPath)
		if err := os.MkdirAll(filepath.Dir(absPath), 0755); err != nil {
			t.Fatalf("creating directory for %s: %v", relPath, err)
		}
		if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
			t.Fatalf("writing %s: %v", relPath, err)
		}
	}

	return dir
}

// SeededServer starts the development backend with its demo data and
// returns it with the procedure base URL.
func SeededServer(t *testing.T) (*devserver.Backend, string) {
	t.Helper()
	b := devserver.New()
	b.Seed()
	srv := httptest.NewServer(b.Router(devserver.DefaultPrefix))
	t.Cleanup(srv.Close)
	return b, srv.URL + devserver.DefaultPrefix
}

// HomeFor writes a config pointing at serverURL into a fresh home
// directory. Retries are disabled so failures surface immediately.
func HomeFor(t *testing.T, serverURL string) string {
	t.Helper()
	home := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Server.DevelopmentURL = serverURL
	cfg.Gateway.QueryRetries = 0
	cfg.Gateway.MutationRetries = 0
	if err := config.WriteConfig(home, cfg); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return home
}

// ConfigYAML returns a minimal config.yaml body for serverURL.
func ConfigYAML(serverURL string) string {
	return "version: 1\nenvironment: development\nserver:\n  development_url: " + serverURL + "\n"
}
