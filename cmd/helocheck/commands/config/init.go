package config

import (
	"fmt"
	"os"

	"github.com/marmos91/helocheck/internal/bytesize"
	"github.com/marmos91/helocheck/internal/cli/prompt"
	"github.com/marmos91/helocheck/pkg/config"
	"github.com/spf13/cobra"
)

var (
	initForce       bool
	initInteractive bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file",
	Long: `Create a helocheck configuration file.

By default the file is created at $XDG_CONFIG_HOME/helocheck/config.yaml
and describes a 64MiB image file in the working directory. Use --config to
choose another path and --interactive to pick the device.

Examples:
  # Write the default configuration
  helocheck config init

  # Choose the device interactively
  helocheck config init --interactive

  # Overwrite an existing file
  helocheck config init --force`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Force overwrite existing config file")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false, "Prompt for the device to test")
}

func runInit(cmd *cobra.Command, args []string) error {
	path := configPath(cmd)
	if path == "" {
		path = config.GetDefaultConfigPath()
	}

	var err error
	if initInteractive {
		err = initInteractively(path, initForce)
	} else {
		err = config.InitConfigToPath(path, initForce)
	}
	if err != nil {
		if prompt.IsAborted(err) {
			return fmt.Errorf("cancelled")
		}
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Configuration file created at: %s\n", path)
	_, _ = fmt.Fprintln(out, "\nNext steps:")
	_, _ = fmt.Fprintln(out, "  1. Edit the device section to point at the medium under test")
	_, _ = fmt.Fprintln(out, "  2. Write and verify it with: helocheck check")
	_, _ = fmt.Fprintf(out, "  3. Or specify the config explicitly: helocheck check --config %s\n", path)
	return nil
}

var deviceOptions = []prompt.Option{
	{Label: "file", Value: config.DeviceFile, Description: "Image file or device node such as /dev/mmcblk0"},
	{Label: "s3", Value: config.DeviceS3, Description: "One object per block in an S3 bucket"},
	{Label: "badger", Value: config.DeviceBadger, Description: "One key per block in a BadgerDB database"},
	{Label: "memory", Value: config.DeviceMemory, Description: "In-process memory, for trying helocheck out"},
}

func validSize(s string) error {
	size, err := bytesize.ParseByteSize(s)
	if err != nil {
		return err
	}
	_, err = size.Blocks(512)
	return err
}

func initInteractively(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", path)
		}
	}

	cfg := config.GetDefaultConfig()

	deviceType, err := prompt.Select("Device type", deviceOptions)
	if err != nil {
		return err
	}
	cfg.Device.Type = deviceType

	switch deviceType {
	case config.DeviceFile:
		if cfg.Device.File.Path, err = prompt.Input("Image file or device node", config.DefaultImagePath); err != nil {
			return err
		}
		size, err := prompt.InputWithValidation("Image size (0 keeps the current size)", config.DefaultImageSize.String(), validSize)
		if err != nil {
			return err
		}
		cfg.Device.File.Size, _ = bytesize.ParseByteSize(size)

	case config.DeviceS3:
		if cfg.Device.S3.Bucket, err = prompt.Input("Bucket", ""); err != nil {
			return err
		}
		if cfg.Device.S3.Endpoint, err = prompt.Input("Endpoint (empty for AWS)", ""); err != nil {
			return err
		}
		cfg.Device.S3.ForcePathStyle = cfg.Device.S3.Endpoint != ""

	case config.DeviceBadger:
		if cfg.Device.Badger.Path, err = prompt.Input("Database directory", "helocheck.db"); err != nil {
			return err
		}
	}

	if deviceType != config.DeviceFile {
		capacity, err := prompt.InputWithValidation("Capacity (0 for unbounded)", "64MiB", validSize)
		if err != nil {
			return err
		}
		cfg.Device.Capacity, _ = bytesize.ParseByteSize(capacity)
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return err
	}
	return config.SaveConfig(cfg, path)
}
