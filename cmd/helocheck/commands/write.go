package commands

import (
	"fmt"
	"os"

	"github.com/marmos91/helocheck/internal/cli/prompt"
	"github.com/marmos91/helocheck/pkg/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	writeFlags scanFlags
	writeYes   bool
)

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Write helo blocks to a device",
	Long: `Write helo blocks to the configured device.

Block n is written at index n for every index in the scan range, then the
device is synced. Existing data in the range is destroyed.

Examples:
  # Fill a 64MiB image file in the working directory
  helocheck write

  # Write the first 8GiB of an SD card
  helocheck write --device /dev/mmcblk0 --size 8GiB

  # Write in random order with 16 workers
  helocheck write --order random --seed 42 --workers 16`,
	RunE: runWrite,
}

func init() {
	addScanFlags(writeCmd, &writeFlags)
	writeCmd.Flags().BoolVarP(&writeYes, "yes", "y", false, "Do not ask for confirmation")
}

func runWrite(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, &writeFlags)
	if err != nil {
		return err
	}
	defer s.close()

	plan, err := s.plan()
	if err != nil {
		return err
	}
	if err := confirmWrite(s.cfg, writeYes); err != nil {
		return err
	}

	stop := s.watchProgress(writeFlags.progress)
	sum, runErr := s.runner.Write(cmd.Context(), plan)
	stop()

	return s.finish(runErr, sum)
}

// confirmWrite asks before overwriting an existing file or device node.
// Other devices hold nothing but helocheck data.
func confirmWrite(cfg *config.Config, yes bool) error {
	if yes || cfg.Device.Type != config.DeviceFile || cfg.Device.File.ReadOnly {
		return nil
	}

	path := cfg.Device.File.Path
	if _, err := os.Stat(path); err != nil {
		// Nothing to overwrite
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("refusing to overwrite %s without --yes on a non-interactive terminal", path)
	}

	var ok bool
	var err error
	if isDeviceNode(path) {
		ok, err = prompt.ConfirmDanger(fmt.Sprintf("All data in the scan range of %s will be destroyed", path), "yes")
	} else {
		ok, err = prompt.Confirm(fmt.Sprintf("Overwrite blocks in %s", path), false)
	}
	if err != nil {
		return err
	}
	if !ok {
		return prompt.ErrAborted
	}
	return nil
}
