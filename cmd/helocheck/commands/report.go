package commands

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/internal/cli/timeutil"
	"github.com/marmos91/helocheck/pkg/scan"
)

// summaryReport is the structured form of a summary.
type summaryReport struct {
	Device       string `json:"device" yaml:"device"`
	scan.Summary `yaml:",inline"`
	Passed       bool   `json:"ok" yaml:"ok"`
	Rate         string `json:"rate" yaml:"rate"`
}

func newSummaryReport(device string, sum *scan.Summary) summaryReport {
	return summaryReport{Device: device, Summary: *sum, Passed: sum.OK(), Rate: sum.Rate()}
}

// summaryPairs renders the counters of sum for a key-value table.
func summaryPairs(device string, sum *scan.Summary) []output.Pair {
	plan := sum.Plan
	pairs := []output.Pair{
		{"Device", device},
		{"Operation", sum.Operation},
		{"Run ID", sum.RunID},
		{"Blocks", fmt.Sprintf("%d of %d [%d, %d) %s", sum.Blocks, plan.Count, plan.Start, plan.End(), plan.Order)},
	}
	for _, k := range scan.Kinds {
		pairs = append(pairs, output.Pair{kindLabel(k), strconv.FormatUint(sum.Count(k), 10)})
	}
	if sum.WordErrors > 0 {
		pairs = append(pairs, output.Pair{"Word errors", strconv.FormatUint(sum.WordErrors, 10)})
	}
	pairs = append(pairs,
		output.Pair{"Transferred", humanize.IBytes(uint64(sum.Bytes))},
		output.Pair{"Duration", timeutil.FormatDuration(sum.Duration)},
		output.Pair{"Rate", sum.Rate()},
	)
	return pairs
}

func kindLabel(k scan.Kind) string {
	switch k {
	case scan.KindGood:
		return "Good"
	case scan.KindBad:
		return "Bad"
	case scan.KindNotHelo:
		return "Not helo"
	case scan.KindMissing:
		return "Missing"
	case scan.KindMisplaced:
		return "Misplaced"
	case scan.KindIOError:
		return "I/O errors"
	default:
		return string(k)
	}
}

// failureTable lists the retained failures of sum.
func failureTable(sum *scan.Summary) *output.Table {
	table := output.NewTable("Index", "Result", "Detail")
	for _, f := range sum.Failures {
		table.Add(strconv.FormatUint(uint64(f.Index), 10), string(f.Kind), failureDetail(f))
	}
	return table
}

func failureDetail(f scan.Failure) string {
	switch {
	case f.Err != nil:
		return f.Err.Error()
	case f.Verification == nil:
		return ""
	case f.Kind == scan.KindMisplaced:
		return fmt.Sprintf("holds block %d", f.Verification.BlockNumber)
	case f.Verification.First != nil:
		return fmt.Sprintf("%d word errors, first at word %d", f.Verification.Errors, f.Verification.First.Word)
	default:
		return ""
	}
}

func printSummaries(p *output.Printer, device string, sums []*scan.Summary) error {
	if p.Structured() {
		reports := make([]summaryReport, len(sums))
		for i, sum := range sums {
			reports[i] = newSummaryReport(device, sum)
		}
		if len(reports) == 1 {
			return p.Print(reports[0])
		}
		return p.Print(reports)
	}

	for i, sum := range sums {
		if i > 0 {
			p.Println()
		}
		if err := printSummaryTable(p, device, sum); err != nil {
			return err
		}
	}
	return nil
}

func printSummaryTable(p *output.Printer, device string, sum *scan.Summary) error {
	p.Pairs(summaryPairs(device, sum)...)

	if len(sum.Failures) > 0 {
		p.Println()
		p.Table(failureTable(sum))
	}
	if sum.DroppedFailures > 0 {
		p.Printf("... and %d more failures\n", sum.DroppedFailures)
	}

	p.Println()
	switch {
	case sum.OK():
		p.Verdict(output.Pass, "OK: %s of %d blocks", sum.Operation, sum.Blocks)
	case sum.Aborted && sum.Failed() == 0:
		p.Verdict(output.Warn, "ABORTED: %d of %d blocks processed", sum.Blocks, sum.Plan.Count)
	default:
		p.Verdict(output.Fail, "FAILED: %d of %d blocks not good", sum.Failed(), sum.Blocks)
	}
	return nil
}
