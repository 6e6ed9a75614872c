package commands

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/internal/cli/timeutil"
	"github.com/marmos91/helocheck/pkg/apiclient"
	"github.com/marmos91/helocheck/pkg/scan"
	"github.com/spf13/cobra"
)

var (
	statusAddr  string
	statusWatch time.Duration
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the progress of a running scan",
	Long: `Query the metrics server of a running helocheck for the progress of its
scan and the health of its device.

The scan must run with metrics.enabled set (or HELOCHECK_METRICS_ENABLED=true).

Examples:
  # Query a scan on this machine
  helocheck status

  # Refresh every 5 seconds
  helocheck status --addr sbc.local:9090 --watch 5s`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAddr, "addr", "", "Metrics server address (default: localhost:<metrics.port>)")
	statusCmd.Flags().DurationVar(&statusWatch, "watch", 0, "Refresh interval (0 prints once)")
}

// statusReport is printed by status.
type statusReport struct {
	Address  string         `json:"address" yaml:"address"`
	Ready    bool           `json:"ready" yaml:"ready"`
	Error    string         `json:"error,omitempty" yaml:"error,omitempty"`
	Progress *scan.Progress `json:"progress,omitempty" yaml:"progress,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	printer, err := newPrinter(cmd)
	if err != nil {
		return err
	}

	addr := statusAddr
	if addr == "" {
		addr = fmt.Sprintf("localhost:%d", cfg.Metrics.Port)
	}
	client := apiclient.New(addr)

	for {
		report, err := queryStatus(cmd, client, addr)
		if err != nil {
			return err
		}
		if err := printStatus(printer, report); err != nil {
			return err
		}
		if statusWatch <= 0 || (report.Progress != nil && !report.Progress.Running) {
			return nil
		}

		select {
		case <-cmd.Context().Done():
			return nil
		case <-time.After(statusWatch):
			printer.Println()
		}
	}
}

func queryStatus(cmd *cobra.Command, client *apiclient.Client, addr string) (statusReport, error) {
	ctx := cmd.Context()
	report := statusReport{Address: addr}

	if _, err := client.Live(ctx); err != nil {
		return report, fmt.Errorf("no helocheck metrics server at %s: %w", addr, err)
	}

	if _, err := client.Ready(ctx); err != nil {
		report.Error = err.Error()
	} else {
		report.Ready = true
	}

	p, err := client.Progress(ctx)
	switch {
	case apiclient.IsNotFound(err):
		// No scan started yet
	case err != nil:
		return report, err
	default:
		report.Progress = p
	}
	return report, nil
}

func printStatus(p *output.Printer, r statusReport) error {
	if p.Structured() {
		return p.Print(r)
	}

	pairs := []output.Pair{
		{"Server", r.Address},
		{"Device ready", strconv.FormatBool(r.Ready)},
	}
	if r.Error != "" {
		pairs = append(pairs, output.Pair{"Device error", r.Error})
	}
	if prog := r.Progress; prog != nil {
		state := "finished"
		if prog.Running {
			state = "running"
		}
		pairs = append(pairs,
			output.Pair{"Run ID", prog.RunID},
			output.Pair{"Operation", fmt.Sprintf("%s (%s)", prog.Operation, state)},
			output.Pair{"Blocks", fmt.Sprintf("%d of %d", prog.Done, prog.Planned)},
			output.Pair{"Failed", strconv.FormatUint(prog.Failed, 10)},
			output.Pair{"Transferred", humanize.IBytes(uint64(prog.Bytes))},
			output.Pair{"Elapsed", timeutil.FormatDuration(prog.Elapsed)},
		)
		if prog.Running {
			pairs = append(pairs, output.Pair{"ETA", timeutil.FormatDuration(timeutil.ETA(prog.Done, uint64(prog.Planned), prog.Elapsed))})
		}
	} else {
		pairs = append(pairs, output.Pair{"Scan", "not started"})
	}
	p.Pairs(pairs...)
	return nil
}
