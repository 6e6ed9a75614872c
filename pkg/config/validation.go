package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marmos91/helocheck/pkg/device"
)

// validate is safe for concurrent use and caches struct metadata.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the struct tags of cfg and the rules that span fields.
// Call ApplyDefaults first.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return formatValidationErrors(verrs)
		}
		return err
	}

	if err := validateDevice(&cfg.Device); err != nil {
		return fmt.Errorf("device: %w", err)
	}
	if err := validateScan(&cfg.Scan); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

// formatValidationErrors turns validator errors into one readable error,
// e.g. "Config.Device.Type failed on 'oneof' (param: memory file s3 badger)".
func formatValidationErrors(verrs validator.ValidationErrors) error {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on '%s'", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (param: %s)", fe.Param())
		}
		msgs = append(msgs, msg)
	}
	return errors.New(strings.Join(msgs, "; "))
}

func validateDevice(cfg *DeviceConfig) error {
	if cfg.Capacity%device.BlockSize != 0 {
		return fmt.Errorf("capacity %s is not a multiple of %d", cfg.Capacity, device.BlockSize)
	}

	switch cfg.Type {
	case DeviceFile:
		if cfg.File.Path == "" {
			return errors.New("file.path is required for the file device")
		}
		if cfg.File.Size%device.BlockSize != 0 {
			return fmt.Errorf("file.size %s is not a multiple of %d", cfg.File.Size, device.BlockSize)
		}
		if cfg.Capacity > 0 {
			return errors.New("capacity is not supported by the file device, use file.size")
		}
	case DeviceS3:
		if cfg.S3.Bucket == "" {
			return errors.New("s3.bucket is required for the s3 device")
		}
		if (cfg.S3.AccessKeyID == "") != (cfg.S3.SecretAccessKey == "") {
			return errors.New("s3.access_key_id and s3.secret_access_key must be set together")
		}
	case DeviceBadger:
		if cfg.Badger.Path == "" && !cfg.Badger.InMemory {
			return errors.New("badger.path is required unless badger.in_memory is set")
		}
	}
	return nil
}

func validateScan(cfg *ScanConfig) error {
	if cfg.Count > 0 && cfg.Size > 0 {
		return errors.New("count and size are mutually exclusive")
	}
	plan, err := cfg.Plan()
	if err != nil {
		return err
	}
	if plan.End() > 1<<32 {
		return fmt.Errorf("start %d + count %d overflows the 32-bit block index", plan.Start, plan.Count)
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	if cfg.Enabled && cfg.Endpoint == "" {
		return errors.New("endpoint is required when tracing is enabled")
	}
	if cfg.Profiling.Enabled && cfg.Profiling.Endpoint == "" {
		return errors.New("profiling.endpoint is required when profiling is enabled")
	}
	return nil
}
