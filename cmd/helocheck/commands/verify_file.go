package commands

import (
	"os"
	"strconv"

	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/internal/logger"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/marmos91/helocheck/pkg/reffile"
	"github.com/spf13/cobra"
)

var verifyFileStart uint32

var verifyFileCmd = &cobra.Command{
	Use:   "verify-file [path]",
	Short: "Verify a reference file",
	Long: `Verify every block of a reference file written by "helocheck generate"
or by earlier helo tooling.

Blocks are expected to be numbered consecutively from --start. A file that
ends inside a block is an error.

Examples:
  # Verify data.dat
  helocheck verify-file

  # Verify a copy read back from a medium
  helocheck verify-file /mnt/sd/data.dat`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerifyFile,
}

func init() {
	verifyFileCmd.Flags().Uint32Var(&verifyFileStart, "start", 0, "Number of the first block")
}

// fileReport is printed by verify-file.
type fileReport struct {
	Path          string `json:"path" yaml:"path"`
	reffile.Tally `yaml:",inline"`
	Passed        bool   `json:"ok" yaml:"ok"`
	Error         string `json:"error,omitempty" yaml:"error,omitempty"`
}

func runVerifyFile(cmd *cobra.Command, args []string) error {
	printer, err := initStandalone(cmd)
	if err != nil {
		return err
	}

	path := reffile.DefaultFileName
	if len(args) > 0 {
		path = args[0]
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	report := helo.ReportFunc(func(msg string) { printer.Println(msg) })
	if printer.Structured() {
		report = logger.ReporterAttrs(logger.Path(path))
	}

	tally, verr := reffile.VerifyFrom(f, verifyFileStart, report)

	result := fileReport{Path: path, Tally: *tally, Passed: verr == nil && tally.OK()}
	if verr != nil {
		result.Error = verr.Error()
	}

	if err := printFileReport(printer, result); err != nil {
		return err
	}
	if !result.Passed {
		return ErrCheckFailed
	}
	return nil
}

func printFileReport(p *output.Printer, r fileReport) error {
	if p.Structured() {
		return p.Print(r)
	}

	pairs := []output.Pair{
		{"File", r.Path},
		{"Blocks", strconv.FormatUint(r.Blocks, 10)},
		{"Good", strconv.FormatUint(r.Good, 10)},
		{"Bad", strconv.FormatUint(r.Bad, 10)},
		{"Not helo", strconv.FormatUint(r.NotHelo, 10)},
		{"Misplaced", strconv.Itoa(len(r.Misplaced))},
	}
	if r.WordErrors > 0 {
		pairs = append(pairs, output.Pair{"Word errors", strconv.FormatUint(r.WordErrors, 10)})
	}
	p.Pairs(pairs...)

	p.Println()
	switch {
	case r.Error != "":
		p.Verdict(output.Fail, "FAILED: %s", r.Error)
	case r.Passed:
		p.Verdict(output.Pass, "OK: %d blocks", r.Blocks)
	default:
		p.Verdict(output.Fail, "FAILED: %d bad, %d not helo, %d misplaced of %d blocks",
			r.Bad, r.NotHelo, len(r.Misplaced), r.Blocks)
	}
	return nil
}
