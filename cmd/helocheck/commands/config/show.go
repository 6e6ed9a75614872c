package config

import (
	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/pkg/config"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Long: `Display the effective helocheck configuration: the file, environment
overrides and defaults combined.

Outputs YAML unless --output json is given.

Examples:
  # Show the effective configuration
  helocheck config show

  # Show as JSON
  helocheck config show --output json`,
	RunE: runConfigShow,
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("output")
	if f, err := output.ParseFormat(format); err == nil && f == output.FormatJSON {
		return output.Encode(cmd.OutOrStdout(), output.FormatJSON, cfg)
	}
	return output.Encode(cmd.OutOrStdout(), output.FormatYAML, cfg)
}
