package config

import (
	"math"
	"strings"
	"testing"

	"github.com/marmos91/helocheck/internal/bytesize"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"Defaults", func(*Config) {}, ""},
		{"UnknownDeviceType", func(c *Config) { c.Device.Type = "floppy" }, "oneof"},
		{"InvalidLogLevel", func(c *Config) { c.Logging.Level = "VERBOSE" }, "oneof"},
		{"InvalidLogFormat", func(c *Config) { c.Logging.Format = "xml" }, "oneof"},
		{"InvalidOrder", func(c *Config) { c.Scan.Order = "shuffled" }, "oneof"},
		{"TooManyWorkers", func(c *Config) { c.Scan.Workers = 2000 }, "lte"},
		{"MetricsPortTooHigh", func(c *Config) { c.Metrics.Port = 70000 }, "max"},
		{"SampleRateAboveOne", func(c *Config) { c.Telemetry.SampleRate = 1.5 }, "lte"},
		{"FileWithoutPath", func(c *Config) { c.Device.File.Path = "" }, "file.path"},
		{"FileSizeNotAligned", func(c *Config) { c.Device.File.Size = 1000 }, "multiple of 512"},
		{"FileWithCapacity", func(c *Config) { c.Device.Capacity = bytesize.MiB }, "file.size"},
		{"CapacityNotAligned", func(c *Config) {
			c.Device.Type = DeviceMemory
			c.Device.Capacity = 513
		}, "multiple of 512"},
		{"Memory", func(c *Config) {
			c.Device.Type = DeviceMemory
			c.Device.Capacity = bytesize.MiB
		}, ""},
		{"S3WithoutBucket", func(c *Config) { c.Device.Type = DeviceS3 }, "s3.bucket"},
		{"S3HalfCredentials", func(c *Config) {
			c.Device.Type = DeviceS3
			c.Device.S3.Bucket = "media"
			c.Device.S3.AccessKeyID = "key"
		}, "set together"},
		{"S3", func(c *Config) {
			c.Device.Type = DeviceS3
			c.Device.S3.Bucket = "media"
		}, ""},
		{"BadgerWithoutPath", func(c *Config) { c.Device.Type = DeviceBadger }, "badger.path"},
		{"BadgerInMemory", func(c *Config) {
			c.Device.Type = DeviceBadger
			c.Device.Badger.InMemory = true
		}, ""},
		{"CountAndSize", func(c *Config) {
			c.Scan.Count = 10
			c.Scan.Size = bytesize.MiB
		}, "mutually exclusive"},
		{"ScanSizeNotAligned", func(c *Config) { c.Scan.Size = 1000 }, "multiple of 512"},
		{"IndexOverflow", func(c *Config) {
			c.Scan.Start = math.MaxUint32
			c.Scan.Count = 2
		}, "overflows"},
		{"LastIndex", func(c *Config) {
			c.Scan.Start = math.MaxUint32
			c.Scan.Count = 1
		}, ""},
		{"TracingWithoutEndpoint", func(c *Config) {
			c.Telemetry.Enabled = true
			c.Telemetry.Endpoint = ""
		}, "endpoint"},
		{"ProfilingWithoutEndpoint", func(c *Config) {
			c.Telemetry.Profiling.Enabled = true
			c.Telemetry.Profiling.Endpoint = ""
		}, "profiling.endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Expected valid config, got: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidate_NamesField(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Device.Type = "floppy"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Expected validation error")
	}
	if !strings.Contains(err.Error(), "Device.Type") {
		t.Errorf("Expected error to name the field, got: %v", err)
	}
}
