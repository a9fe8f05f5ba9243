// Package config loads server configuration from defaults, an optional env
// file, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Transport values accepted by MCP_TRANSPORT
const (
	TransportStdio          = "stdio"
	TransportStreamableHTTP = "streamable-http"
)

// Config holds the server configuration
type Config struct {
	// Transport selection and HTTP binding
	Transport string `env:"MCP_TRANSPORT"`
	Port      int    `env:"PORT"`

	// Ads archive access
	AccessToken     string        `env:"FACEBOOK_ACCESS_TOKEN"`
	GraphAPIVersion string        `env:"ADS_GRAPH_API_VERSION"`
	HTTPTimeout     time.Duration `env:"ADS_HTTP_TIMEOUT"`

	// Session management
	StorePath   string        `env:"MCP_STORE_PATH"`
	SessionTTL  time.Duration `env:"MCP_SESSION_TTL"`
	MaxSessions int           `env:"MCP_MAX_SESSIONS"`

	// Logging
	LogLevel string `env:"MCP_LOG_LEVEL"`

	// Service identification
	ServiceName    string `env:"MCP_SERVICE_NAME"`
	ServiceVersion string `env:"MCP_SERVICE_VERSION"`

	// Telemetry
	TelemetryEnabled bool `env:"MCP_TELEMETRY_ENABLED"`
	TelemetryPort    int  `env:"MCP_TELEMETRY_PORT"`
}

// Load builds configuration from defaults, an optional env file, and the
// process environment. Validation is the caller's job, after any flag
// overrides are applied on top.
func Load(envFile string) (*Config, error) {
	cfg := DefaultConfig()

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	} else if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// DefaultConfig returns the configuration defaults
func DefaultConfig() *Config {
	// Process-specific store path so parallel instances don't fight over the
	// bolt file lock.
	pid := os.Getpid()
	storePath := filepath.Join(os.TempDir(), fmt.Sprintf("ads-library-sessions-%d.db", pid))

	return &Config{
		Transport:        TransportStdio,
		Port:             8080,
		AccessToken:      "",
		GraphAPIVersion:  "v19.0",
		HTTPTimeout:      10 * time.Second,
		StorePath:        storePath,
		SessionTTL:       24 * time.Hour,
		MaxSessions:      100,
		LogLevel:         "info",
		ServiceName:      "ads-library-mcp",
		ServiceVersion:   "dev",
		TelemetryEnabled: false,
		TelemetryPort:    9090,
	}
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("MCP_TRANSPORT"); v != "" {
		cfg.Transport = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Port = n
		}
	}
	if v := os.Getenv("FACEBOOK_ACCESS_TOKEN"); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv("ADS_GRAPH_API_VERSION"); v != "" {
		cfg.GraphAPIVersion = v
	}
	if v := os.Getenv("ADS_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTPTimeout = d
		}
	}
	if v := os.Getenv("MCP_STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := os.Getenv("MCP_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = d
		}
	}
	if v := os.Getenv("MCP_MAX_SESSIONS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSessions = n
		}
	}
	if v := os.Getenv("MCP_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MCP_SERVICE_NAME"); v != "" {
		cfg.ServiceName = v
	}
	if v := os.Getenv("MCP_SERVICE_VERSION"); v != "" {
		cfg.ServiceVersion = v
	}
	if v := os.Getenv("MCP_TELEMETRY_ENABLED"); v != "" {
		cfg.TelemetryEnabled = v == "true" || v == "1"
	}
	if v := os.Getenv("MCP_TELEMETRY_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TelemetryPort = n
		}
	}
}

// Validate checks the essential fields
func (c *Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportStreamableHTTP:
	default:
		return fmt.Errorf("transport must be %q or %q, got %q", TransportStdio, TransportStreamableHTTP, c.Transport)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in (0, 65535], got %d", c.Port)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http_timeout must be positive")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive")
	}
	if c.MaxSessions <= 0 {
		return fmt.Errorf("max_sessions must be positive")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of: debug, info, warn, error")
	}
	return nil
}
