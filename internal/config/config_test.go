package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DeviceAuto, cfg.Device)
	assert.Equal(t, HostPage, cfg.Host)
	assert.Equal(t, 1<<20, cfg.Probe.SizeBytes)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
device: sim
host: go
probe:
  size_bytes: 4096
  iterations: 3
logging:
  level: debug
  development: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, DeviceSim, cfg.Device)
	assert.Equal(t, HostGo, cfg.Host)
	assert.Equal(t, 4096, cfg.Probe.SizeBytes)
	assert.Equal(t, 3, cfg.Probe.Iterations)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "device: none\n"))
	require.NoError(t, err)
	assert.Equal(t, DeviceNone, cfg.Device)
	assert.Equal(t, HostPage, cfg.Host)
	assert.Equal(t, 1, cfg.Probe.Iterations)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("SYNCEDMEM_DEVICE", "sim")
	t.Setenv("SYNCEDMEM_PROBE_SIZE_BYTES", "64")

	cfg, err := Load(writeConfig(t, "device: webgpu\n"))
	require.NoError(t, err)
	assert.Equal(t, DeviceSim, cfg.Device)
	assert.Equal(t, 64, cfg.Probe.SizeBytes)
}

func TestLoadWithFlagOverride(t *testing.T) {
	v := viper.New()
	v.Set("device", "none")

	cfg, err := LoadWith(v, writeConfig(t, "device: sim\n"))
	require.NoError(t, err)
	assert.Equal(t, DeviceNone, cfg.Device)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"device", func(c *Config) { c.Device = "tpu" }},
		{"host", func(c *Config) { c.Host = "arena" }},
		{"size", func(c *Config) { c.Probe.SizeBytes = -1 }},
		{"iterations", func(c *Config) { c.Probe.Iterations = 0 }},
		{"level", func(c *Config) { c.Logging.Level = "trace" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	log, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))

	cfg.Logging.Level = "error"
	log, err = cfg.NewLogger()
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.WarnLevel))
}
