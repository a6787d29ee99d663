/*
Package config handles datastore-mcp runtime configuration.

Configuration resolves in three layers: built-in defaults, an optional JSON
file, and environment variables (highest precedence). The environment layer
exists so the server can run with no file at all:

	PORT                   listening port          (default 8000)
	DATA_DIR               store search directory  (default ".")
	RELAY_URL              telemetry collector URL (default "", disabled)
	BASE_URL               document URL prefix
	QUERY_TIMEOUT_SECONDS  store query bound       (default 30)
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied before any file or environment override.
const (
	DefaultPort                = 8000
	DefaultDataDir             = "."
	DefaultQueryTimeoutSeconds = 30
)

// Config holds the runtime settings for the server.
type Config struct {
	// Port is the HTTP listening port for the MCP endpoint.
	Port int `json:"port,omitempty"`

	// DataDir is the directory scanned for the store file at startup.
	DataDir string `json:"dataDir,omitempty"`

	// RelayURL is the telemetry collector endpoint. Empty disables the
	// relay entirely.
	RelayURL string `json:"relayUrl,omitempty"`

	// BaseURL is the prefix for synthesized document URLs.
	BaseURL string `json:"baseUrl,omitempty"`

	// QueryTimeoutSeconds bounds each store query.
	QueryTimeoutSeconds int `json:"queryTimeoutSeconds,omitempty"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:                DefaultPort,
		DataDir:             DefaultDataDir,
		QueryTimeoutSeconds: DefaultQueryTimeoutSeconds,
	}
}

// Load resolves configuration from defaults, an optional file at path, and
// the environment. An empty path skips the file layer; a missing file at an
// explicit path is an error.
func Load(path string) (*Config, error) {
	cfg := New()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// QueryTimeout returns the configured store query bound.
func (c *Config) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// applyEnv overlays environment variables onto the config.
func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", v, err)
		}
		c.Port = port
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("RELAY_URL"); v != "" {
		c.RelayURL = v
	}
	if v := os.Getenv("BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("QUERY_TIMEOUT_SECONDS"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid QUERY_TIMEOUT_SECONDS value %q: %w", v, err)
		}
		c.QueryTimeoutSeconds = secs
	}
	return nil
}

// validate rejects settings the server cannot start with.
func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	if c.QueryTimeoutSeconds < 1 {
		return fmt.Errorf("query timeout must be positive: %d", c.QueryTimeoutSeconds)
	}
	return nil
}
