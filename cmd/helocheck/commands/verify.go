package commands

import (
	"github.com/spf13/cobra"
)

var verifyFlags scanFlags

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify helo blocks on a device",
	Long: `Read back and verify helo blocks on the configured device.

Every block is classified as good, bad (payload words differ), nothelo (no
helo signature), missing, misplaced (an intact block from another index) or
io_error. The command exits with status 2 when any block is not good.

For every bad block the first mismatching word is printed, followed by the
number of further mismatches when there are any.

Examples:
  # Verify what "helocheck write" wrote
  helocheck verify

  # Verify an SD card, stopping at the first failure
  helocheck verify --device /dev/mmcblk0 --size 8GiB --fail-fast

  # Machine-readable summary
  helocheck verify -o json`,
	RunE: runVerify,
}

func init() {
	addScanFlags(verifyCmd, &verifyFlags)
}

func runVerify(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, &verifyFlags)
	if err != nil {
		return err
	}
	defer s.close()

	plan, err := s.plan()
	if err != nil {
		return err
	}

	stop := s.watchProgress(verifyFlags.progress)
	sum, runErr := s.runner.Verify(cmd.Context(), plan)
	stop()

	return s.finish(runErr, sum)
}
