// ABOUTME: Tests for config path resolution and the environment fallback

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigPath(t *testing.T) {
	t.Run("explicit env var", func(t *testing.T) {
		t.Setenv("BOARD_GATEWAY_CONFIG", "/etc/board/gw.toml")
		assert.Equal(t, "/etc/board/gw.toml", getConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv("BOARD_GATEWAY_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
		assert.Equal(t, filepath.Join("/tmp/xdg", "board", "gateway.yaml"), getConfigPath())
	})
}

func TestLoadConfig_FallsBackToEnvironment(t *testing.T) {
	t.Setenv("GRPC_HOST", "board.test")
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("GRPC_INSECURE", "true")
	t.Setenv("GRPC_CACERT", "")
	t.Setenv("GRPC_HOST_OVERRIDE", "")

	cfg, source, err := loadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "environment", source)
	assert.Equal(t, "board.test:7000", cfg.Backend.Endpoint())
	assert.True(t, cfg.Backend.Insecure)
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	t.Setenv("GRPC_HOST", "")
	t.Setenv("GRPC_PORT", "")
	t.Setenv("GRPC_INSECURE", "")
	t.Setenv("GRPC_CACERT", "")
	t.Setenv("GRPC_HOST_OVERRIDE", "")

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend:\n  host: file.test\n  insecure: true\n"), 0644))

	cfg, source, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, path, source)
	assert.Equal(t, "file.test", cfg.Backend.Host)
}

func TestIsYes(t *testing.T) {
	assert.True(t, isYes("Y"))
	assert.True(t, isYes("yes"))
	assert.False(t, isYes("no"))
	assert.False(t, isYes(""))
}
