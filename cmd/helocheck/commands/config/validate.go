package config

import (
	"fmt"

	"github.com/marmos91/helocheck/pkg/config"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	Long: `Validate the helocheck configuration file.

Checks for syntax errors, missing required fields, and invalid values.

Examples:
  # Validate default config
  helocheck config validate

  # Validate specific config file
  helocheck config validate --config /etc/helocheck/config.yaml`,
	RunE: runConfigValidate,
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)

	cfg, err := config.MustLoad(path)
	if err != nil {
		return err
	}

	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	var warnings []string
	if cfg.Device.Type == config.DeviceMemory {
		warnings = append(warnings, "memory device holds nothing between runs; only 'helocheck check' is meaningful")
	}
	if cfg.Device.Type != config.DeviceFile && cfg.Device.Capacity == 0 && cfg.Scan.Count == 0 && cfg.Scan.Size == 0 {
		warnings = append(warnings, "device has no capacity and scan has no count; pass --count or --size")
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.SampleRate == 1.0 {
		warnings = append(warnings, "tracing every block; consider a lower telemetry.sample_rate for large devices")
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file: %s\n", path)
	_, _ = fmt.Fprintln(out, "Validation: OK")

	if len(warnings) > 0 {
		_, _ = fmt.Fprintln(out, "\nWarnings:")
		for _, w := range warnings {
			_, _ = fmt.Fprintf(out, "  - %s\n", w)
		}
	}

	_, _ = fmt.Fprintf(out, "\nConfiguration summary:\n")
	_, _ = fmt.Fprintf(out, "  Device:      %s\n", cfg.Device.Describe())
	_, _ = fmt.Fprintf(out, "  Scan order:  %s\n", cfg.Scan.Order)
	_, _ = fmt.Fprintf(out, "  Workers:     %d\n", cfg.Scan.Workers)
	_, _ = fmt.Fprintf(out, "  Log level:   %s\n", cfg.Logging.Level)
	if cfg.Metrics.Enabled {
		_, _ = fmt.Fprintf(out, "  Metrics:     :%d\n", cfg.Metrics.Port)
	}
	return nil
}
