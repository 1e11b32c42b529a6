// ABOUTME: Transport binding that owns the single shared gRPC connection to the board backend
// ABOUTME: Builds insecure or TLS credentials, applies the authority override and keepalive

package transport

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/keepalive"

	"github.com/2389/board-gateway/internal/config"
)

// Transport errors
var (
	// ErrMissingCACert means secure mode was selected without certificate material
	ErrMissingCACert = errors.New("secure transport requires a CA certificate bundle")

	// ErrInvalidCACert means the certificate material could not be decoded or parsed
	ErrInvalidCACert = errors.New("invalid CA certificate bundle")
)

// Binding is the process-wide connection handle to the backend.
// The underlying ClientConn multiplexes concurrent calls over one connection.
type Binding struct {
	conn     *grpc.ClientConn
	endpoint string
	secure   bool
	logger   *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// Dial creates the binding for the configured backend. The connection itself is
// established lazily by gRPC on the first call and reused afterwards.
func Dial(cfg config.BackendConfig, logger *slog.Logger, extra ...grpc.DialOption) (*Binding, error) {
	creds, err := transportCredentials(cfg)
	if err != nil {
		return nil, err
	}

	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(creds),
		grpc.WithKeepaliveParams(keepalive.ClientParameters{
			Time:                10 * time.Second,
			Timeout:             5 * time.Second,
			PermitWithoutStream: true,
		}),
	}
	if cfg.AuthorityOverride != "" {
		opts = append(opts, grpc.WithAuthority(cfg.AuthorityOverride))
	}
	opts = append(opts, extra...)

	endpoint := cfg.Endpoint()
	conn, err := grpc.NewClient(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating backend client for %s: %w", endpoint, err)
	}

	logger.Info("backend transport ready",
		"endpoint", endpoint,
		"insecure", cfg.Insecure,
		"authority_override", cfg.AuthorityOverride,
	)

	return &Binding{
		conn:     conn,
		endpoint: endpoint,
		secure:   !cfg.Insecure,
		logger:   logger,
	}, nil
}

// transportCredentials selects insecure or TLS credentials for the backend.
func transportCredentials(cfg config.BackendConfig) (credentials.TransportCredentials, error) {
	if cfg.Insecure {
		return insecure.NewCredentials(), nil
	}

	pool, err := certPool(cfg.CACert)
	if err != nil {
		return nil, err
	}

	return credentials.NewTLS(&tls.Config{
		RootCAs:    pool,
		ServerName: cfg.AuthorityOverride,
		MinVersion: tls.VersionTLS12,
	}), nil
}

// certPool decodes a base64 PEM bundle into a certificate pool.
func certPool(encoded string) (*x509.CertPool, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrMissingCACert
	}

	pemData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding base64: %v", ErrInvalidCACert, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemData) {
		return nil, fmt.Errorf("%w: no certificates found in PEM data", ErrInvalidCACert)
	}
	return pool, nil
}

// Conn returns the shared connection for issuing calls.
func (b *Binding) Conn() grpc.ClientConnInterface {
	return b.conn
}

// Endpoint returns the dial target.
func (b *Binding) Endpoint() string {
	return b.endpoint
}

// Secure reports whether the binding uses TLS.
func (b *Binding) Secure() bool {
	return b.secure
}

// State returns the current connectivity state of the backend connection.
func (b *Binding) State() connectivity.State {
	return b.conn.GetState()
}

// Ready reports whether the binding can still carry calls. Idle and connecting
// states count as ready since gRPC connects on demand.
func (b *Binding) Ready() bool {
	switch b.conn.GetState() {
	case connectivity.TransientFailure, connectivity.Shutdown:
		return false
	default:
		return true
	}
}

// Close tears down the connection. Later calls return the first result.
func (b *Binding) Close() error {
	b.closeOnce.Do(func() {
		b.logger.Info("closing backend transport", "endpoint", b.endpoint)
		b.closeErr = b.conn.Close()
	})
	return b.closeErr
}
