// ABOUTME: Tests for the Gateway orchestrator lifecycle and health endpoints
// ABOUTME: Runs against an in-memory board backend served over loopback gRPC

package gateway

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"

	"github.com/2389/board-gateway/internal/board"
	"github.com/2389/board-gateway/internal/config"
	"github.com/2389/board-gateway/internal/tracing"
)

// testLogger creates a silent logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startBackend serves srv on loopback and returns its port.
func startBackend(t *testing.T, srv board.Server) int {
	t.Helper()

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := grpc.NewServer(grpc.UnaryInterceptor(tracing.UnaryServerInterceptor(testLogger())))
	board.RegisterServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	return lis.Addr().(*net.TCPAddr).Port
}

// freeAddr returns a loopback address that was free a moment ago.
func freeAddr(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()
	return addr
}

// testConfig creates a config pointing at a backend on port.
func testConfig(t *testing.T, backendPort int) *config.Config {
	t.Helper()

	return &config.Config{
		Server: config.ServerConfig{
			HTTPAddr: freeAddr(t),
		},
		Backend: config.BackendConfig{
			Host:        "127.0.0.1",
			Port:        backendPort,
			Insecure:    true,
			CallTimeout: 2 * time.Second,
		},
		Metrics: config.MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

func seededBackend() *board.MemoryServer {
	return board.NewMemoryServer(
		board.Subject{ID: 1, Title: "Math", Enabled: true},
		board.Subject{ID: 2, Title: "Art", Enabled: false},
	)
}

func TestGatewayNew(t *testing.T) {
	cfg := testConfig(t, startBackend(t, seededBackend()))

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)
	defer gw.Shutdown(context.Background())

	assert.Equal(t, cfg, gw.config)
	assert.NotNil(t, gw.binding)
	assert.NotNil(t, gw.registry)
	assert.NotNil(t, gw.Handler())
	assert.Len(t, gw.registry.Operations(), 5)
}

func TestGatewayNew_SecureWithoutCertFails(t *testing.T) {
	cfg := testConfig(t, 9095)
	cfg.Backend.Insecure = false

	_, err := New(cfg, testLogger())
	require.Error(t, err)
}

func TestGatewayRunAndShutdown(t *testing.T) {
	cfg := testConfig(t, startBackend(t, seededBackend()))

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() {
		errCh <- gw.Run(ctx)
	}()

	waitForHTTP(t, "http://"+cfg.Server.HTTPAddr+"/health")
	cancel()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run() returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("gateway did not shutdown in time")
	}

	assert.False(t, gw.binding.Ready(), "backend connection must be closed after shutdown")
}

func TestGatewayRun_AddressInUse(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	cfg := testConfig(t, startBackend(t, seededBackend()))
	cfg.Server.HTTPAddr = ln.Addr().String()

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)
	defer gw.Shutdown(context.Background())

	err = gw.Run(t.Context())
	assert.Error(t, err)
}

func TestHealthEndpoints(t *testing.T) {
	cfg := testConfig(t, startBackend(t, seededBackend()))

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)

	go func() {
		_ = gw.Run(t.Context())
	}()

	waitForHTTP(t, "http://"+cfg.Server.HTTPAddr+"/health")

	resp, err := http.Get("http://" + cfg.Server.HTTPAddr + "/health/ready")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "ready")
}

func TestReadyEndpoint_AfterShutdown(t *testing.T) {
	cfg := testConfig(t, startBackend(t, seededBackend()))

	gw, err := New(cfg, testLogger())
	require.NoError(t, err)
	require.NoError(t, gw.binding.Close())

	rec := serve(t, gw, http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "SHUTDOWN")
}

func TestResolveTailscaleAuthKey(t *testing.T) {
	t.Setenv("TS_AUTHKEY", "")

	_, err := resolveTailscaleAuthKey("")
	assert.Error(t, err)

	key, err := resolveTailscaleAuthKey("tskey-configured")
	require.NoError(t, err)
	assert.Equal(t, "tskey-configured", key)

	t.Setenv("TS_AUTHKEY", "tskey-env")
	key, err = resolveTailscaleAuthKey("")
	require.NoError(t, err)
	assert.Equal(t, "tskey-env", key)
}

func TestResolveTailscaleStateDir(t *testing.T) {
	dir, err := resolveTailscaleStateDir("/var/lib/board")
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/board", dir)

	dir, err = resolveTailscaleStateDir("")
	require.NoError(t, err)
	assert.Contains(t, dir, "board-gateway")
}

// waitForHTTP polls url until it answers.
func waitForHTTP(t *testing.T, url string) {
	t.Helper()
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)
}
