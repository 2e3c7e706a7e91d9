// Package config handles reading and writing .safewatch/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment names accepted in config.yaml.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config is the top-level structure for .safewatch/config.yaml.
type Config struct {
	Version     int            `yaml:"version"`
	Environment string         `yaml:"environment"`
	App         AppConfig      `yaml:"app"`
	Server      ServerConfig   `yaml:"server"`
	Gateway     GatewayConfig  `yaml:"gateway"`
	Location    LocationConfig `yaml:"location"`
}

// AppConfig holds display metadata.
type AppConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// ServerConfig points at the backend procedure endpoint.
type ServerConfig struct {
	DevelopmentURL string `yaml:"development_url"`
	ProductionURL  string `yaml:"production_url"`
	Timeout        int    `yaml:"timeout"` // seconds
}

// GatewayConfig controls caching and retry behaviour of backend calls.
type GatewayConfig struct {
	QueryRetries    int  `yaml:"query_retries"`
	MutationRetries int  `yaml:"mutation_retries"`
	StaleTime       int  `yaml:"stale_time"` // seconds
	GCTime          int  `yaml:"gc_time"`    // seconds
	PersistCache    bool `yaml:"persist_cache"`
	Debug           bool `yaml:"debug"`
}

// LocationConfig describes the position source used for emergency alerts.
// Terminals have no GPS, so the fix comes from configured coordinates.
type LocationConfig struct {
	Enabled      bool    `yaml:"enabled"`
	Latitude     float64 `yaml:"latitude"`
	Longitude    float64 `yaml:"longitude"`
	HighAccuracy bool    `yaml:"high_accuracy"`
	TimeoutMS    int     `yaml:"timeout_ms"`
	MaximumAgeMS int     `yaml:"maximum_age_ms"`
}

// configDir is the directory under the base dir holding all local state.
const configDir = ".safewatch"
const configFile = "config.yaml"

// Dir returns the state directory under base.
func Dir(base string) string {
	return filepath.Join(base, configDir)
}

// ReadConfig reads .safewatch/config.yaml from the given base directory.
// dir is the parent (usually $HOME), not .safewatch/ itself.
// Returns an error if the file is not found or YAML is malformed.
func ReadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, configDir, configFile)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// WriteConfig writes cfg to .safewatch/config.yaml in the given directory.
// Creates the .safewatch/ directory if it does not exist.
func WriteConfig(dir string, cfg *Config) error {
	dirPath := filepath.Join(dir, configDir)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	path := filepath.Join(dirPath, configFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:     1,
		Environment: EnvDevelopment,
		App: AppConfig{
			Name:    "Safety Monitor",
			Version: "1.0.0",
		},
		Server: ServerConfig{
			DevelopmentURL: "http://localhost:3000/api/trpc",
			ProductionURL:  "https://your-production-domain.com/trpc",
			Timeout:        30,
		},
		Gateway: GatewayConfig{
			QueryRetries:    2,
			MutationRetries: 1,
			StaleTime:       300,
			GCTime:          600,
			PersistCache:    true,
		},
		Location: LocationConfig{
			Enabled:      false,
			HighAccuracy: true,
			TimeoutMS:    15000,
			MaximumAgeMS: 10000,
		},
	}
}

// ServerURL returns the backend URL for the configured environment.
func (c *Config) ServerURL() string {
	if c.Environment == EnvProduction {
		return c.Server.ProductionURL
	}
	return c.Server.DevelopmentURL
}

// RequestTimeout returns the per-request HTTP timeout.
func (c *Config) RequestTimeout() time.Duration {
	if c.Server.Timeout <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Server.Timeout) * time.Second
}
