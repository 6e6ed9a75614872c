// Package config loads, validates and saves the helocheck configuration and
// builds the device it describes.
//
// Values are resolved from, highest precedence first: command-line flags,
// HELOCHECK_* environment variables, the YAML file, and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/marmos91/helocheck/internal/bytesize"
	"github.com/marmos91/helocheck/pkg/api"
)

// EnvPrefix prefixes environment overrides, e.g.
// HELOCHECK_DEVICE_FILE_PATH=/dev/sdb.
const EnvPrefix = "HELOCHECK"

// Config is the full helocheck configuration.
type Config struct {
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry" yaml:"telemetry"`

	// Metrics also configures the HTTP server that exposes health and
	// scan progress.
	Metrics api.Config `mapstructure:"metrics" yaml:"metrics"`

	Device DeviceConfig `mapstructure:"device" yaml:"device"`
	Scan   ScanConfig   `mapstructure:"scan" yaml:"scan"`
}

// LoggingConfig selects log level, encoding and destination.
type LoggingConfig struct {
	// Level is matched case-insensitively and stored upper case.
	Level  string `mapstructure:"level" validate:"required,oneof=DEBUG INFO WARN ERROR debug info warn error" yaml:"level"`
	Format string `mapstructure:"format" validate:"required,oneof=text json" yaml:"format"`

	// Output is stdout, stderr or a file path. It defaults to stderr because
	// stdout carries command results.
	Output string `mapstructure:"output" validate:"required" yaml:"output"`
}

// TelemetryConfig configures OTLP tracing and, nested, Pyroscope profiling.
type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"` // OTLP gRPC host:port
	Insecure bool   `mapstructure:"insecure" yaml:"insecure"`

	// SampleRate is in [0, 1]. Every block operation becomes a span, so
	// scans of large devices want a low rate.
	SampleRate float64 `mapstructure:"sample_rate" validate:"omitempty,gte=0,lte=1" yaml:"sample_rate"`

	Profiling ProfilingConfig `mapstructure:"profiling" yaml:"profiling"`
}

type ProfilingConfig struct {
	Enabled      bool     `mapstructure:"enabled" yaml:"enabled"`
	Endpoint     string   `mapstructure:"endpoint" yaml:"endpoint"` // Pyroscope server URL
	ProfileTypes []string `mapstructure:"profile_types" yaml:"profile_types"`
}

// Load resolves the configuration. An empty configPath searches the default
// location. A missing file is fine: defaults and environment still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	if err := registerDefaults(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		scalarDecodeHook,
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for commands that need a configuration file: a missing
// file is an error that says how to create one.
func MustLoad(configPath string) (*Config, error) {
	hint := "helocheck config init"
	if configPath == "" {
		configPath = GetDefaultConfigPath()
	} else {
		hint += " --config " + configPath
	}

	if _, err := os.Stat(configPath); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("configuration file not found: %s\n\ncreate one with:\n  %s", configPath, hint)
	}

	cfg, err := Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg to path as YAML. The file may hold S3 credentials,
// so it is owner-only.
func SaveConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return writeConfigFile(path, data)
}

func writeConfigFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// registerDefaults tells viper about every key of the default configuration.
// AutomaticEnv only resolves keys viper already knows, so without this an
// environment override would be ignored when no file sets the key.
func registerDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(GetDefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal defaults: %w", err)
	}

	var tree map[string]any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("failed to decode defaults: %w", err)
	}

	var walk func(prefix string, node map[string]any)
	walk = func(prefix string, node map[string]any) {
		for k, val := range node {
			if sub, ok := val.(map[string]any); ok {
				walk(prefix+k+".", sub)
				continue
			}
			v.SetDefault(prefix+k, val)
		}
	}
	walk("", tree)
	return nil
}

var (
	byteSizeType = reflect.TypeOf(bytesize.ByteSize(0))
	durationType = reflect.TypeOf(time.Duration(0))
)

// scalarDecodeHook lets sizes ("64MiB") and durations ("2m") be written as
// strings. Numbers are taken as bytes and nanoseconds respectively; YAML may
// hand them over as int or float64.
func scalarDecodeHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if to != byteSizeType && to != durationType {
		return data, nil
	}

	var n int64
	switch v := data.(type) {
	case string:
		if to == byteSizeType {
			return bytesize.ParseByteSize(v)
		}
		return time.ParseDuration(v)
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if to == byteSizeType {
			return bytesize.ByteSize(v), nil
		}
		n = int64(v)
	case float64:
		n = int64(v)
	default:
		return data, nil
	}

	if to == byteSizeType {
		if n < 0 {
			return nil, fmt.Errorf("negative size %d", n)
		}
		return bytesize.ByteSize(n), nil
	}
	return time.Duration(n), nil
}

// getConfigDir is $XDG_CONFIG_HOME/helocheck, else ~/.config/helocheck, else
// the working directory.
func getConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "helocheck")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "helocheck")
	}
	return "."
}

func GetDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// DefaultConfigExists reports whether GetDefaultConfigPath names a file.
func DefaultConfigExists() bool {
	_, err := os.Stat(GetDefaultConfigPath())
	return err == nil
}
