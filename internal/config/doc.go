// Package config handles configuration loading for board-gateway.
//
// # Overview
//
// Configuration is loaded from a YAML or TOML file with environment variable
// expansion, then the backend environment variables are applied on top. The
// gateway can also run from the environment alone (see FromEnv).
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from BOARD_GATEWAY_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/board/gateway.yaml
//  3. ~/.config/board/gateway.yaml
//
// When no file exists at the resolved path, FromEnv is used.
//
// # Environment Variable Expansion
//
//	backend:
//	  ca_cert: "${BOARD_CA_BUNDLE}"
//
// # Backend Environment
//
// These variables override the file:
//
//	GRPC_HOST           backend host        (default 127.0.0.1)
//	GRPC_PORT           backend port        (default 9095)
//	GRPC_INSECURE       "true" disables TLS (default secure)
//	GRPC_CACERT         base64 PEM bundle   (required when secure)
//	GRPC_HOST_OVERRIDE  TLS server name and :authority override
//
// # Configuration Sections
//
//	server:
//	  http_addr: "localhost:8080"
//
//	backend:
//	  host: "board.internal"
//	  port: 9095
//	  insecure: false
//	  ca_cert: "${BOARD_CA_BUNDLE}"
//	  authority_override: "board.svc.cluster.local"
//	  call_timeout: "10s"
//
//	tailscale:
//	  enabled: false
//	  hostname: "board-gateway"
//	  https: false
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
//	metrics:
//	  enabled: true
//	  path: "/metrics"
//
//	sentry:
//	  dsn: "${SENTRY_DSN}"
//	  environment: "production"
//	  traces_sample_rate: 0.2
//
// # Validation
//
// Selecting secure transport without a certificate bundle is a startup error
// (ErrMissingCACert) rather than a connection with empty trust roots.
package config
