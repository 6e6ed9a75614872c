package config

import (
	"testing"
	"time"

	"github.com/marmos91/helocheck/pkg/scan"
)

func TestApplyDefaults_Logging(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "INFO" {
		t.Errorf("Expected default log level 'INFO', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("Expected default log format 'text', got %q", cfg.Logging.Format)
	}
	if cfg.Logging.Output != "stderr" {
		t.Errorf("Expected default log output 'stderr', got %q", cfg.Logging.Output)
	}
}

func TestApplyDefaults_Telemetry(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Telemetry.Enabled {
		t.Error("Expected telemetry to be disabled by default")
	}
	if cfg.Telemetry.Endpoint != "localhost:4317" {
		t.Errorf("Expected default endpoint 'localhost:4317', got %q", cfg.Telemetry.Endpoint)
	}
	if cfg.Telemetry.SampleRate != 1.0 {
		t.Errorf("Expected default sample rate 1.0, got %v", cfg.Telemetry.SampleRate)
	}
	if cfg.Telemetry.Profiling.Endpoint != "http://localhost:4040" {
		t.Errorf("Expected default profiling endpoint, got %q", cfg.Telemetry.Profiling.Endpoint)
	}
	if len(cfg.Telemetry.Profiling.ProfileTypes) == 0 {
		t.Error("Expected default profile types")
	}
}

func TestApplyDefaults_Metrics(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Metrics.Port != 9090 {
		t.Errorf("Expected default metrics port 9090, got %d", cfg.Metrics.Port)
	}
	if cfg.Metrics.IdleTimeout != 60*time.Second {
		t.Errorf("Expected default idle timeout 60s, got %v", cfg.Metrics.IdleTimeout)
	}
}

func TestApplyDefaults_Device(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Device.Type != DeviceFile {
		t.Errorf("Expected default device type 'file', got %q", cfg.Device.Type)
	}
	if cfg.Device.File.FileMode != DefaultFileMode {
		t.Errorf("Expected default file mode %o, got %o", DefaultFileMode, cfg.Device.File.FileMode)
	}

	s3cfg := &Config{Device: DeviceConfig{Type: "S3"}}
	ApplyDefaults(s3cfg)
	if s3cfg.Device.Type != DeviceS3 {
		t.Errorf("Expected normalized type 's3', got %q", s3cfg.Device.Type)
	}
	if s3cfg.Device.S3.Region != "us-east-1" {
		t.Errorf("Expected default region 'us-east-1', got %q", s3cfg.Device.S3.Region)
	}
	if s3cfg.Device.File.FileMode != 0 {
		t.Error("Expected file section to be left alone for the s3 device")
	}
}

func TestApplyDefaults_Scan(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Scan.Order != string(scan.Sequential) {
		t.Errorf("Expected default order 'sequential', got %q", cfg.Scan.Order)
	}
	if cfg.Scan.Workers != scan.DefaultWorkers {
		t.Errorf("Expected default workers %d, got %d", scan.DefaultWorkers, cfg.Scan.Workers)
	}
	if cfg.Scan.MaxFailures != scan.DefaultMaxFailures {
		t.Errorf("Expected default max failures %d, got %d", scan.DefaultMaxFailures, cfg.Scan.MaxFailures)
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "warn", Format: "json", Output: "/var/log/helocheck.log"},
		Scan:    ScanConfig{Order: "Random", Workers: 16, MaxFailures: -1},
	}
	ApplyDefaults(cfg)

	if cfg.Logging.Level != "WARN" {
		t.Errorf("Expected level 'WARN', got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Output != "/var/log/helocheck.log" {
		t.Errorf("Explicit logging values were overwritten: %+v", cfg.Logging)
	}
	if cfg.Scan.Order != "random" || cfg.Scan.Workers != 16 || cfg.Scan.MaxFailures != -1 {
		t.Errorf("Explicit scan values were overwritten: %+v", cfg.Scan)
	}
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()

	if err := Validate(cfg); err != nil {
		t.Fatalf("Default config should be valid, got: %v", err)
	}
	if !cfg.Device.File.Create {
		t.Error("Expected default config to create the image file")
	}
	if !cfg.Telemetry.Insecure {
		t.Error("Expected default telemetry to be insecure for local collectors")
	}
}
