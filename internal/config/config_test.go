// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML/TOML loading, env var expansion, GRPC_* overrides and validation

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearBackendEnv makes sure the host environment does not leak into a test.
func clearBackendEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{"GRPC_HOST", "GRPC_PORT", "GRPC_INSECURE", "GRPC_CACERT", "GRPC_HOST_OVERRIDE", "SENTRY_DSN"} {
		t.Setenv(name, "")
	}
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	clearBackendEnv(t)

	configPath := writeConfig(t, "config.yaml", `
server:
  http_addr: "0.0.0.0:8080"

backend:
  host: "board.internal"
  port: 9443
  ca_cert: "Zm9v"
  authority_override: "board.svc.cluster.local"
  call_timeout: "3s"

logging:
  level: "debug"
  format: "json"

metrics:
  enabled: true
  path: "/metrics"

sentry:
  dsn: "https://key@sentry.example.com/1"
  environment: "staging"
  traces_sample_rate: 0.5
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "0.0.0.0:8080" {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, "0.0.0.0:8080")
	}
	if got := cfg.Backend.Endpoint(); got != "board.internal:9443" {
		t.Errorf("Backend.Endpoint() = %q, want %q", got, "board.internal:9443")
	}
	if cfg.Backend.Insecure {
		t.Error("Backend.Insecure = true, want false")
	}
	if cfg.Backend.AuthorityOverride != "board.svc.cluster.local" {
		t.Errorf("Backend.AuthorityOverride = %q", cfg.Backend.AuthorityOverride)
	}
	if cfg.Backend.CallTimeout != 3*time.Second {
		t.Errorf("Backend.CallTimeout = %v, want %v", cfg.Backend.CallTimeout, 3*time.Second)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want true")
	}
	if cfg.Sentry.Environment != "staging" || cfg.Sentry.TracesSampleRate != 0.5 {
		t.Errorf("Sentry = %+v", cfg.Sentry)
	}
}

func TestLoad_TOML(t *testing.T) {
	clearBackendEnv(t)

	configPath := writeConfig(t, "gateway.toml", `
[server]
http_addr = "127.0.0.1:9000"

[backend]
host = "10.0.0.5"
port = 9095
insecure = true
call_timeout = "250ms"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.HTTPAddr != "127.0.0.1:9000" {
		t.Errorf("Server.HTTPAddr = %q", cfg.Server.HTTPAddr)
	}
	if !cfg.Backend.Insecure {
		t.Error("Backend.Insecure = false, want true")
	}
	if cfg.Backend.CallTimeout != 250*time.Millisecond {
		t.Errorf("Backend.CallTimeout = %v", cfg.Backend.CallTimeout)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("TEST_BOARD_CERT", "c2VjcmV0")

	configPath := writeConfig(t, "config.yaml", `
backend:
  ca_cert: "${TEST_BOARD_CERT}"
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Backend.CACert != "c2VjcmV0" {
		t.Errorf("Backend.CACert = %q, want %q", cfg.Backend.CACert, "c2VjcmV0")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearBackendEnv(t)

	configPath := writeConfig(t, "config.yaml", `
backend:
  insecure: true
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Backend.Endpoint(); got != "127.0.0.1:9095" {
		t.Errorf("Backend.Endpoint() = %q, want %q", got, "127.0.0.1:9095")
	}
	if cfg.Server.HTTPAddr != DefaultHTTPAddr {
		t.Errorf("Server.HTTPAddr = %q, want %q", cfg.Server.HTTPAddr, DefaultHTTPAddr)
	}
	if cfg.Backend.CallTimeout != DefaultCallTimeout {
		t.Errorf("Backend.CallTimeout = %v, want %v", cfg.Backend.CallTimeout, DefaultCallTimeout)
	}
	if cfg.Metrics.Path != DefaultMetricsPath {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("GRPC_HOST", "board.example.com")
	t.Setenv("GRPC_PORT", "443")
	t.Setenv("GRPC_INSECURE", "true")
	t.Setenv("GRPC_HOST_OVERRIDE", "board.internal")

	configPath := writeConfig(t, "config.yaml", `
backend:
  host: "ignored"
  port: 1
`)

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if got := cfg.Backend.Endpoint(); got != "board.example.com:443" {
		t.Errorf("Backend.Endpoint() = %q", got)
	}
	if !cfg.Backend.Insecure {
		t.Error("Backend.Insecure = false, want true")
	}
	if cfg.Backend.AuthorityOverride != "board.internal" {
		t.Errorf("Backend.AuthorityOverride = %q", cfg.Backend.AuthorityOverride)
	}
}

func TestFromEnv(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("GRPC_INSECURE", "true")

	cfg, err := FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	if got := cfg.Backend.Endpoint(); got != "127.0.0.1:9095" {
		t.Errorf("Backend.Endpoint() = %q", got)
	}
}

func TestFromEnv_InvalidPort(t *testing.T) {
	clearBackendEnv(t)
	t.Setenv("GRPC_INSECURE", "true")
	t.Setenv("GRPC_PORT", "not-a-port")

	_, err := FromEnv()
	if err == nil || !strings.Contains(err.Error(), "GRPC_PORT") {
		t.Fatalf("FromEnv() error = %v, want GRPC_PORT error", err)
	}
}

func TestLoad_SecureWithoutCertFails(t *testing.T) {
	clearBackendEnv(t)

	configPath := writeConfig(t, "config.yaml", `
backend:
  host: "board.internal"
`)

	_, err := Load(configPath)
	if !errors.Is(err, ErrMissingCACert) {
		t.Fatalf("Load() error = %v, want ErrMissingCACert", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	clearBackendEnv(t)

	configPath := writeConfig(t, "config.yaml", `
backend:
  insecure: true
  call_timeout: "soon"
`)

	_, err := Load(configPath)
	if err == nil || !strings.Contains(err.Error(), "call_timeout") {
		t.Fatalf("Load() error = %v, want call_timeout error", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{HTTPAddr: "localhost:8080"},
			Backend: BackendConfig{Host: "localhost", Port: 9095, Insecure: true, CallTimeout: time.Second},
			Metrics: MetricsConfig{Path: "/metrics"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "port out of range", mutate: func(c *Config) { c.Backend.Port = 70000 }, wantErr: "backend.port"},
		{name: "secure without cert", mutate: func(c *Config) { c.Backend.Insecure = false }, wantErr: "ca_cert"},
		{name: "zero timeout", mutate: func(c *Config) { c.Backend.CallTimeout = 0 }, wantErr: "call_timeout"},
		{name: "tailscale without hostname", mutate: func(c *Config) { c.Tailscale.Enabled = true }, wantErr: "tailscale.hostname"},
		{name: "sample rate", mutate: func(c *Config) { c.Sentry.TracesSampleRate = 2 }, wantErr: "traces_sample_rate"},
		{name: "metrics path", mutate: func(c *Config) { c.Metrics.Path = "metrics" }, wantErr: "metrics.path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}
