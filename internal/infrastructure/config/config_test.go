package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	ResetDataDir()
	t.Setenv(EnvDataDir, t.TempDir())

	cfg := NewConfig()

	assert.Equal(t, ":18080", cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Stream.HeartbeatSeconds)
	assert.Equal(t, 16, cfg.Stream.EventBufferSize)
}

func TestNewConfig_FileOverride(t *testing.T) {
	ResetDataDir()
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	// 写入配置文件
	content := []byte("server:\n  http_port: \":28080\"\nstream:\n  event_buffer_size: 64\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0644))

	cfg := NewConfig()

	assert.Equal(t, ":28080", cfg.Server.HTTPPort)
	assert.Equal(t, 64, cfg.Stream.EventBufferSize)
	// 未覆盖的字段保留默认值
	assert.Equal(t, 30, cfg.Stream.HeartbeatSeconds)
}

func TestNewConfig_EnvOverride(t *testing.T) {
	ResetDataDir()
	t.Setenv(EnvDataDir, t.TempDir())
	t.Setenv("TIMEFLOW_HTTP_PORT", ":38080")

	cfg := NewConfig()

	assert.Equal(t, ":38080", cfg.Server.HTTPPort)
}

func TestGetDataDir_Env(t *testing.T) {
	ResetDataDir()
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)

	assert.Equal(t, dir, GetDataDir())

	ResetDataDir()
}
