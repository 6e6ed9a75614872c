package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/spf13/cobra"
)

var (
	inspectFlags scanFlags
	inspectDump  bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <index>",
	Short: "Decode and check a single block",
	Long: `Read one block from the configured device and show its header, the
result of checking it, and optionally a hex dump.

Examples:
  # Inspect block 42 of an SD card
  helocheck inspect 42 --device /dev/mmcblk0

  # Show the raw bytes too
  helocheck inspect 42 --dump`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	addDeviceFlags(inspectCmd, &inspectFlags)
	inspectCmd.Flags().BoolVar(&inspectDump, "dump", false, "Print a hex dump of the block")
}

// blockReport describes one inspected block.
type blockReport struct {
	Device      string         `json:"device" yaml:"device"`
	Index       uint32         `json:"index" yaml:"index"`
	Result      string         `json:"result" yaml:"result"`
	Signature   bool           `json:"signature" yaml:"signature"`
	BlockNumber uint32         `json:"block_number" yaml:"block_number"`
	Misplaced   bool           `json:"misplaced" yaml:"misplaced"`
	Errors      int            `json:"errors" yaml:"errors"`
	First       *helo.Mismatch `json:"first_mismatch,omitempty" yaml:"first_mismatch,omitempty"`
	Messages    []string       `json:"messages,omitempty" yaml:"messages,omitempty"`
	Dump        string         `json:"dump,omitempty" yaml:"dump,omitempty"`
}

// inspectBlock classifies data read from index.
func inspectBlock(index uint32, data []byte, dump bool) (blockReport, error) {
	r := blockReport{Index: index}

	header, err := helo.PeekHeader(data)
	if err != nil {
		return r, err
	}
	r.Signature = header.IsHelo()
	r.BlockNumber = header.BlockNumber

	b, err := helo.Decode(data)
	if err != nil {
		return r, err
	}
	v := b.Verify()
	v.Report(func(msg string) { r.Messages = append(r.Messages, msg) })

	r.Result = v.Result.String()
	r.Errors = v.Errors
	r.First = v.First
	r.Misplaced = v.Result != helo.NotHelo && v.BlockNumber != index
	if dump {
		r.Dump = hex.Dump(data)
	}
	return r, nil
}

func runInspect(cmd *cobra.Command, args []string) error {
	index, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid block index %q: %w", args[0], err)
	}

	s, err := newSession(cmd, &inspectFlags)
	if err != nil {
		return err
	}
	defer s.close()

	data, err := s.dev.ReadBlock(cmd.Context(), uint32(index))
	if errors.Is(err, device.ErrBlockNotFound) {
		return fmt.Errorf("block %d: %w", index, err)
	}
	if err != nil {
		return err
	}

	r, err := inspectBlock(uint32(index), data, inspectDump)
	if err != nil {
		return fmt.Errorf("block %d: %w", index, err)
	}
	r.Device = s.cfg.Device.Describe()

	return printBlockReport(s.printer, r)
}

func printBlockReport(p *output.Printer, r blockReport) error {
	if p.Structured() {
		return p.Print(r)
	}

	pairs := []output.Pair{
		{"Device", r.Device},
		{"Index", strconv.FormatUint(uint64(r.Index), 10)},
		{"Signature", strconv.FormatBool(r.Signature)},
		{"Block number", strconv.FormatUint(uint64(r.BlockNumber), 10)},
		{"Result", r.Result},
	}
	if r.Misplaced {
		pairs = append(pairs, output.Pair{"Misplaced", fmt.Sprintf("holds block %d", r.BlockNumber)})
	}
	if r.Errors > 0 {
		pairs = append(pairs, output.Pair{"Word errors", strconv.Itoa(r.Errors)})
	}
	p.Pairs(pairs...)

	for _, msg := range r.Messages {
		p.Println(msg)
	}
	if r.Dump != "" {
		p.Println()
		p.Printf("%s", r.Dump)
	}
	return nil
}
