// Package config loads settings for the syncedmem command from a YAML
// file, SYNCEDMEM_* environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config represents the command configuration.
type Config struct {
	Device  string        `mapstructure:"device"`
	Host    string        `mapstructure:"host"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ProbeConfig sizes the probe round trip.
type ProbeConfig struct {
	SizeBytes  int `mapstructure:"size_bytes"`
	Iterations int `mapstructure:"iterations"`
}

// LoggingConfig selects the zap logger.
type LoggingConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Device choices.
const (
	DeviceAuto   = "auto"
	DeviceSim    = "sim"
	DeviceWebGPU = "webgpu"
	DeviceNone   = "none"
)

// Host allocator choices.
const (
	HostPage = "page"
	HostGo   = "go"
)

var (
	validDevices = []string{DeviceAuto, DeviceSim, DeviceWebGPU, DeviceNone}
	validHosts   = []string{HostPage, HostGo}
	validLevels  = []string{"debug", "info", "warn", "error"}
)

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Device: DeviceAuto,
		Host:   HostPage,
		Probe: ProbeConfig{
			SizeBytes:  1 << 20,
			Iterations: 1,
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
	}
}

// Load reads cfgFile, or config.yaml from $HOME/.syncedmem and the working
// directory when cfgFile is empty. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	return LoadWith(viper.New(), cfgFile)
}

// LoadWith is Load on a caller-supplied viper instance, so flags bound to
// v override file and environment values.
func LoadWith(v *viper.Viper, cfgFile string) (*Config, error) {
	cfg := DefaultConfig()
	setDefaults(v, cfg)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".syncedmem"))
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("SYNCEDMEM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("device", cfg.Device)
	v.SetDefault("host", cfg.Host)
	v.SetDefault("probe.size_bytes", cfg.Probe.SizeBytes)
	v.SetDefault("probe.iterations", cfg.Probe.Iterations)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.development", cfg.Logging.Development)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(validDevices, c.Device) {
		return fmt.Errorf("device must be one of: %v", validDevices)
	}
	if !slices.Contains(validHosts, c.Host) {
		return fmt.Errorf("host must be one of: %v", validHosts)
	}
	if c.Probe.SizeBytes < 0 {
		return errors.New("probe.size_bytes must not be negative")
	}
	if c.Probe.Iterations < 1 {
		return errors.New("probe.iterations must be at least 1")
	}
	if !slices.Contains(validLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}
	return nil
}

// NewLogger builds the zap logger described by c.Logging.
func (c *Config) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	if c.Logging.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
