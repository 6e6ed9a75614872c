package commands

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/internal/logger"
	"github.com/marmos91/helocheck/pkg/reffile"
	"github.com/spf13/cobra"
)

var (
	generateStart uint32
	generateCount uint32
	generateForce bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [path]",
	Short: "Write a reference file of helo blocks",
	Long: `Write a reference file: consecutive helo blocks with no header.

With the defaults the file is data.dat holding blocks 0 to 399, identical to
the reference file of earlier helo tooling. Copy it onto a medium and back,
then check the copy with "helocheck verify-file".

Examples:
  # Write data.dat with 400 blocks
  helocheck generate

  # Write 1MiB of blocks numbered from 1000
  helocheck generate blocks.bin --start 1000 --count 2048`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Uint32Var(&generateStart, "start", 0, "Number of the first block")
	generateCmd.Flags().Uint32VarP(&generateCount, "count", "n", reffile.DefaultCount, "Number of blocks")
	generateCmd.Flags().BoolVar(&generateForce, "force", false, "Overwrite an existing file")
}

// generateResult is printed by generate.
type generateResult struct {
	Path   string `json:"path" yaml:"path"`
	Start  uint32 `json:"start" yaml:"start"`
	Blocks uint32 `json:"blocks" yaml:"blocks"`
	Bytes  int64  `json:"bytes" yaml:"bytes"`
}

func (r generateResult) Headers() []string {
	return []string{"Path", "Blocks", "Size"}
}

func (r generateResult) Rows() [][]string {
	return [][]string{{
		r.Path,
		fmt.Sprintf("%d..%d", r.Start, uint64(r.Start)+uint64(r.Blocks)-1),
		humanize.IBytes(uint64(r.Bytes)),
	}}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	printer, err := initStandalone(cmd)
	if err != nil {
		return err
	}

	if generateCount == 0 {
		return fmt.Errorf("--count must be positive")
	}

	path := reffile.DefaultFileName
	if len(args) > 0 {
		path = args[0]
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !generateForce {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		return err
	}

	n, err := reffile.Write(f, generateStart, generateCount)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	logger.Debug("reference file written", logger.Path(path), logger.Bytes(n))
	return printer.Print(generateResult{Path: path, Start: generateStart, Blocks: generateCount, Bytes: n})
}

// initStandalone sets up logging and output for commands that do not open
// a device.
func initStandalone(cmd *cobra.Command) (*output.Printer, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := InitLogger(cfg); err != nil {
		return nil, err
	}
	return newPrinter(cmd)
}
