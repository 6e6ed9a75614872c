package commands

import (
	"github.com/marmos91/helocheck/pkg/scan"
	"github.com/spf13/cobra"
)

var (
	checkFlags scanFlags
	checkYes   bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Write then verify helo blocks",
	Long: `Write helo blocks to the configured device, then read them back and
verify them in the same run.

This is the only way to test the memory device, and the usual way to test
a medium end to end.

Examples:
  # Write and verify 400 blocks in memory
  helocheck check --device-type memory --count 400

  # Test an SD card in random order
  helocheck check --device /dev/mmcblk0 --order random --yes`,
	RunE: runCheck,
}

func init() {
	addScanFlags(checkCmd, &checkFlags)
	checkCmd.Flags().BoolVarP(&checkYes, "yes", "y", false, "Do not ask for confirmation")
}

func runCheck(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, &checkFlags)
	if err != nil {
		return err
	}
	defer s.close()

	plan, err := s.plan()
	if err != nil {
		return err
	}
	if err := confirmWrite(s.cfg, checkYes); err != nil {
		return err
	}

	stop := s.watchProgress(checkFlags.progress)
	sums, runErr := writeThenVerify(cmd, s.runner, plan)
	stop()

	return s.finish(runErr, sums...)
}

// writeThenVerify verifies only when every block was written.
func writeThenVerify(cmd *cobra.Command, runner *scan.Runner, plan scan.Plan) ([]*scan.Summary, error) {
	written, err := runner.Write(cmd.Context(), plan)
	if err != nil || !written.OK() {
		return []*scan.Summary{written}, err
	}

	verified, err := runner.Verify(cmd.Context(), plan)
	return []*scan.Summary{written, verified}, err
}
