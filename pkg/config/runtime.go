package config

import (
	"github.com/marmos91/helocheck/internal/logger"
	"github.com/marmos91/helocheck/internal/telemetry"
)

// LoggerConfig returns the logger settings.
func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:  c.Logging.Level,
		Format: c.Logging.Format,
		Output: c.Logging.Output,
	}
}

// TracingConfig returns the OpenTelemetry settings for a binary of the
// given version.
func (c *Config) TracingConfig(version string) telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.Enabled = c.Telemetry.Enabled
	cfg.Endpoint = c.Telemetry.Endpoint
	cfg.Insecure = c.Telemetry.Insecure
	cfg.SampleRate = c.Telemetry.SampleRate
	if version != "" {
		cfg.ServiceVersion = version
	}
	return cfg
}

// ProfilingConfig returns the Pyroscope settings. Profiles are tagged with
// the device type so runs against different media can be compared.
func (c *Config) ProfilingConfig(version string) telemetry.ProfilingConfig {
	cfg := telemetry.DefaultProfilingConfig()
	cfg.Enabled = c.Telemetry.Profiling.Enabled
	cfg.Endpoint = c.Telemetry.Profiling.Endpoint
	cfg.ServiceVersion = version
	cfg.Tags = map[string]string{"device": c.Device.Type}
	if len(c.Telemetry.Profiling.ProfileTypes) > 0 {
		cfg.ProfileTypes = c.Telemetry.Profiling.ProfileTypes
	}
	return cfg
}
