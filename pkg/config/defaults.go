package config

import (
	"strings"

	"github.com/marmos91/helocheck/internal/bytesize"
	"github.com/marmos91/helocheck/internal/telemetry"
	"github.com/marmos91/helocheck/pkg/scan"
)

// Default device settings.
const (
	DefaultDeviceType = DeviceFile
	DefaultImagePath  = "helocheck.img"
	DefaultImageSize  = 64 * bytesize.MiB
	DefaultFileMode   = 0644
)

// ApplyDefaults sets default values for any unspecified configuration fields.
//
// Zero values are replaced with sensible defaults; explicitly set values
// are left alone.
func ApplyDefaults(cfg *Config) {
	applyLoggingDefaults(&cfg.Logging)
	applyTelemetryDefaults(&cfg.Telemetry)
	cfg.Metrics.ApplyDefaults()
	applyDeviceDefaults(&cfg.Device)
	applyScanDefaults(&cfg.Scan)
}

// applyLoggingDefaults sets logging defaults.
func applyLoggingDefaults(cfg *LoggingConfig) {
	if cfg.Level == "" {
		cfg.Level = "INFO"
	}
	// Normalize log level to uppercase for consistent internal handling
	cfg.Level = strings.ToUpper(cfg.Level)

	if cfg.Format == "" {
		cfg.Format = "text"
	}
	if cfg.Output == "" {
		cfg.Output = "stderr"
	}
}

// applyTelemetryDefaults sets OpenTelemetry defaults.
// Note: Enabled defaults to false (opt-in for telemetry).
func applyTelemetryDefaults(cfg *TelemetryConfig) {
	defaults := telemetry.DefaultConfig()

	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaults.SampleRate
	}

	applyProfilingDefaults(&cfg.Profiling)
}

// applyProfilingDefaults sets Pyroscope profiling defaults.
// Note: Enabled defaults to false (opt-in for profiling).
func applyProfilingDefaults(cfg *ProfilingConfig) {
	defaults := telemetry.DefaultProfilingConfig()

	if cfg.Endpoint == "" {
		cfg.Endpoint = defaults.Endpoint
	}
	if len(cfg.ProfileTypes) == 0 {
		cfg.ProfileTypes = defaults.ProfileTypes
	}
}

// applyDeviceDefaults sets device defaults. Only the section of the selected
// device type is filled in.
func applyDeviceDefaults(cfg *DeviceConfig) {
	if cfg.Type == "" {
		cfg.Type = DefaultDeviceType
	}
	cfg.Type = strings.ToLower(cfg.Type)

	switch cfg.Type {
	case DeviceFile:
		if cfg.File.FileMode == 0 {
			cfg.File.FileMode = DefaultFileMode
		}
	case DeviceS3:
		if cfg.S3.Region == "" {
			cfg.S3.Region = "us-east-1"
		}
	}
}

// applyScanDefaults sets scan defaults.
func applyScanDefaults(cfg *ScanConfig) {
	if cfg.Order == "" {
		cfg.Order = string(scan.Sequential)
	}
	cfg.Order = strings.ToLower(cfg.Order)

	if cfg.Workers == 0 {
		cfg.Workers = scan.DefaultWorkers
	}
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = scan.DefaultMaxFailures
	}
}

// GetDefaultConfig returns a Config struct with all default values applied.
//
// This is the configuration written by "helocheck config init": a 64MiB
// image file in the working directory, written and verified sequentially.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Device: DeviceConfig{
			Type: DefaultDeviceType,
			File: FileDeviceConfig{
				Path:      DefaultImagePath,
				Create:    true,
				Size:      DefaultImageSize,
				DropCache: true,
			},
		},
		Telemetry: TelemetryConfig{
			Insecure: true,
		},
	}
	ApplyDefaults(cfg)
	return cfg
}
