// ABOUTME: Configuration loading and parsing for board-gateway
// ABOUTME: Supports YAML/TOML files with environment variable expansion, env overrides and duration parsing

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Defaults applied when a value is not configured.
const (
	DefaultBackendHost = "127.0.0.1"
	DefaultBackendPort = 9095
	DefaultHTTPAddr    = "localhost:8080"
	DefaultCallTimeout = 10 * time.Second
	DefaultMetricsPath = "/metrics"
)

// ErrMissingCACert is returned when secure transport is selected without certificate material.
var ErrMissingCACert = errors.New("backend.ca_cert is required unless backend.insecure is true")

// Config represents the complete board-gateway configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" toml:"server"`
	Backend   BackendConfig   `yaml:"backend" toml:"backend"`
	Tailscale TailscaleConfig `yaml:"tailscale" toml:"tailscale"`
	Logging   LoggingConfig   `yaml:"logging" toml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics" toml:"metrics"`
	Sentry    SentryConfig    `yaml:"sentry" toml:"sentry"`
}

// ServerConfig holds the inbound HTTP surface configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr" toml:"http_addr"`
}

// BackendConfig describes how to reach the board backend service.
type BackendConfig struct {
	Host     string `yaml:"host" toml:"host"`
	Port     int    `yaml:"port" toml:"port"`
	Insecure bool   `yaml:"insecure" toml:"insecure"`

	// CACert is a base64-encoded PEM certificate bundle used as trust roots in secure mode.
	CACert string `yaml:"ca_cert" toml:"ca_cert"`

	// AuthorityOverride replaces both the TLS server name and the :authority header.
	AuthorityOverride string `yaml:"authority_override" toml:"authority_override"`

	CallTimeout    time.Duration `yaml:"-" toml:"-"`
	CallTimeoutRaw string        `yaml:"call_timeout" toml:"call_timeout"`
}

// Endpoint returns the host:port dial target.
func (b BackendConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", b.Host, b.Port)
}

// TailscaleConfig holds Tailscale tsnet configuration for the HTTP listener
type TailscaleConfig struct {
	Enabled   bool   `yaml:"enabled" toml:"enabled"`
	Hostname  string `yaml:"hostname" toml:"hostname"`
	AuthKey   string `yaml:"auth_key" toml:"auth_key"`
	StateDir  string `yaml:"state_dir" toml:"state_dir"`
	Ephemeral bool   `yaml:"ephemeral" toml:"ephemeral"`

	// HTTPS serves the API on :443 with certificates provisioned by Tailscale.
	HTTPS bool `yaml:"https" toml:"https"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// MetricsConfig holds metrics endpoint configuration
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" toml:"enabled"`
	Path    string `yaml:"path" toml:"path"`
}

// SentryConfig holds error reporting and tracing configuration.
// An empty DSN disables reporting; spans are still created when a transaction is active.
type SentryConfig struct {
	DSN              string  `yaml:"dsn" toml:"dsn"`
	Environment      string  `yaml:"environment" toml:"environment"`
	Release          string  `yaml:"release" toml:"release"`
	Debug            bool    `yaml:"debug" toml:"debug"`
	TracesSampleRate float64 `yaml:"traces_sample_rate" toml:"traces_sample_rate"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Files ending in .toml are decoded as TOML, everything else as YAML.
// Environment variables in the format ${VAR_NAME} are expanded, then the GRPC_*
// variables are applied as overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expandedData := expandEnvVars(string(data))

	var cfg Config
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if _, err := toml.Decode(expandedData, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	} else {
		if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	return finish(&cfg)
}

// FromEnv builds a Config from defaults and the GRPC_* environment variables only.
func FromEnv() (*Config, error) {
	return finish(&Config{})
}

// finish applies env overrides and defaults, parses durations and validates.
func finish(cfg *Config) (*Config, error) {
	if err := applyEnvOverrides(cfg); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	applyDefaults(cfg)

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvOverrides maps the backend environment surface onto the config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("GRPC_HOST"); v != "" {
		cfg.Backend.Host = v
	}
	if v := os.Getenv("GRPC_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GRPC_PORT %q: %w", v, err)
		}
		cfg.Backend.Port = port
	}
	if v := os.Getenv("GRPC_INSECURE"); v != "" {
		cfg.Backend.Insecure = v == "true"
	}
	if v := os.Getenv("GRPC_CACERT"); v != "" {
		cfg.Backend.CACert = v
	}
	if v := os.Getenv("GRPC_HOST_OVERRIDE"); v != "" {
		cfg.Backend.AuthorityOverride = v
	}
	if v := os.Getenv("SENTRY_DSN"); v != "" && cfg.Sentry.DSN == "" {
		cfg.Sentry.DSN = v
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Backend.Host == "" {
		cfg.Backend.Host = DefaultBackendHost
	}
	if cfg.Backend.Port == 0 {
		cfg.Backend.Port = DefaultBackendPort
	}
	if cfg.Server.HTTPAddr == "" && !cfg.Tailscale.Enabled {
		cfg.Server.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Backend.Port <= 0 || c.Backend.Port > 65535 {
		return fmt.Errorf("backend.port %d is out of range", c.Backend.Port)
	}

	if !c.Backend.Insecure && c.Backend.CACert == "" {
		return ErrMissingCACert
	}

	if c.Backend.CallTimeout <= 0 {
		return fmt.Errorf("backend.call_timeout must be positive")
	}

	if c.Tailscale.Enabled && c.Tailscale.Hostname == "" {
		return fmt.Errorf("tailscale.hostname is required when tailscale is enabled")
	}

	if c.Sentry.TracesSampleRate < 0 || c.Sentry.TracesSampleRate > 1 {
		return fmt.Errorf("sentry.traces_sample_rate must be within [0, 1]")
	}

	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with /")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	if cfg.Backend.CallTimeoutRaw == "" {
		cfg.Backend.CallTimeout = DefaultCallTimeout
		return nil
	}

	d, err := time.ParseDuration(cfg.Backend.CallTimeoutRaw)
	if err != nil {
		return fmt.Errorf("parsing call_timeout %q: %w", cfg.Backend.CallTimeoutRaw, err)
	}
	cfg.Backend.CallTimeout = d
	return nil
}
