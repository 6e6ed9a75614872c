package commands

import (
	"fmt"
	"time"

	"github.com/marmos91/helocheck/internal/bytesize"
	"github.com/marmos91/helocheck/pkg/config"
	"github.com/spf13/cobra"
)

// scanFlags are the command-line overrides shared by the commands that
// open a device. Only flags the user set override the configuration.
type scanFlags struct {
	device      string
	deviceType  string
	imageSize   string
	start       uint32
	count       uint32
	size        string
	order       string
	seed        int64
	workers     int
	failFast    bool
	maxFailures int
	progress    time.Duration
}

func addDeviceFlags(cmd *cobra.Command, f *scanFlags) {
	cmd.Flags().StringVarP(&f.device, "device", "d", "", "Image file or device node to test (selects the file device)")
	cmd.Flags().StringVar(&f.deviceType, "device-type", "", "Device type (memory|file|s3|badger)")
	cmd.Flags().StringVar(&f.imageSize, "image-size", "", "Preallocate the image file to this size (e.g. 1GiB)")
}

func addScanFlags(cmd *cobra.Command, f *scanFlags) {
	addDeviceFlags(cmd, f)
	cmd.Flags().Uint32Var(&f.start, "start", 0, "First block index")
	cmd.Flags().Uint32VarP(&f.count, "count", "n", 0, "Number of blocks (default: to the end of the device)")
	cmd.Flags().StringVar(&f.size, "size", "", "Amount to scan instead of --count (e.g. 8GiB)")
	cmd.Flags().StringVar(&f.order, "order", "", "Block order (sequential|reverse|random)")
	cmd.Flags().Int64Var(&f.seed, "seed", 0, "Seed of the random order")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "Concurrent block operations")
	cmd.Flags().BoolVar(&f.failFast, "fail-fast", false, "Stop at the first block that is not good")
	cmd.Flags().IntVar(&f.maxFailures, "max-failures", 0, "Failures to list in the summary (negative: none)")
	cmd.Flags().DurationVar(&f.progress, "progress", 10*time.Second, "Progress log interval (0 disables)")
}

// apply copies the flags the user set into cfg and re-validates it.
func (f *scanFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("device-type") {
		cfg.Device.Type = f.deviceType
	}
	if flags.Changed("device") {
		if !flags.Changed("device-type") {
			cfg.Device.Type = config.DeviceFile
		}
		cfg.Device.File.Path = f.device
		// Never resize a medium named on the command line unless asked to
		cfg.Device.File.Size = 0
	}
	if flags.Changed("image-size") {
		size, err := bytesize.ParseByteSize(f.imageSize)
		if err != nil {
			return fmt.Errorf("--image-size: %w", err)
		}
		cfg.Device.File.Size = size
	}

	if flags.Lookup("start") != nil {
		if err := f.applyScan(cmd, cfg); err != nil {
			return err
		}
	}

	config.ApplyDefaults(cfg)
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid options: %w", err)
	}
	return nil
}

func (f *scanFlags) applyScan(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()

	if flags.Changed("start") {
		cfg.Scan.Start = f.start
	}
	if flags.Changed("count") {
		cfg.Scan.Count = f.count
		cfg.Scan.Size = 0
	}
	if flags.Changed("size") {
		size, err := bytesize.ParseByteSize(f.size)
		if err != nil {
			return fmt.Errorf("--size: %w", err)
		}
		cfg.Scan.Size = size
		cfg.Scan.Count = 0
	}
	if flags.Changed("order") {
		cfg.Scan.Order = f.order
	}
	if flags.Changed("seed") {
		cfg.Scan.Seed = f.seed
	}
	if flags.Changed("workers") {
		cfg.Scan.Workers = f.workers
	}
	if flags.Changed("fail-fast") {
		cfg.Scan.FailFast = f.failFast
	}
	if flags.Changed("max-failures") {
		cfg.Scan.MaxFailures = f.maxFailures
	}
	return nil
}
