package commands

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/marmos91/helocheck/pkg/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failedSummary() *scan.Summary {
	return &scan.Summary{
		RunID:      "run-1",
		Operation:  scan.OpVerify,
		Plan:       scan.Plan{Start: 0, Count: 8, Order: scan.Sequential},
		Blocks:     8,
		Good:       5,
		Bad:        1,
		Misplaced:  1,
		IOErrors:   1,
		WordErrors: 3,
		Bytes:      8 * helo.BlockSize,
		Duration:   2 * time.Second,
		Failures: []scan.Failure{
			{Index: 2, Kind: scan.KindBad, Verification: &helo.Verification{
				Result: helo.Bad, BlockNumber: 2, Errors: 3,
				First: &helo.Mismatch{BlockNumber: 2, Word: 17},
			}},
			{Index: 4, Kind: scan.KindMisplaced, Verification: &helo.Verification{Result: helo.Good, BlockNumber: 6}},
			{Index: 6, Kind: scan.KindIOError, Err: errors.New("input/output error")},
		},
		DroppedFailures: 2,
	}
}

func TestFailureDetail(t *testing.T) {
	sum := failedSummary()

	assert.Equal(t, "3 word errors, first at word 17", failureDetail(sum.Failures[0]))
	assert.Equal(t, "holds block 6", failureDetail(sum.Failures[1]))
	assert.Equal(t, "input/output error", failureDetail(sum.Failures[2]))
	assert.Equal(t, "", failureDetail(scan.Failure{Index: 1, Kind: scan.KindMissing}))
}

func TestSummaryPairs(t *testing.T) {
	pairs := summaryPairs("file:sd.img", failedSummary())

	values := make(map[string]string, len(pairs))
	for _, p := range pairs {
		values[p[0]] = p[1]
	}

	assert.Equal(t, "file:sd.img", values["Device"])
	assert.Equal(t, "verify", values["Operation"])
	assert.Equal(t, "8 of 8 [0, 8) sequential", values["Blocks"])
	assert.Equal(t, "5", values["Good"])
	assert.Equal(t, "1", values["Misplaced"])
	assert.Equal(t, "0", values["Missing"])
	assert.Equal(t, "3", values["Word errors"])
	assert.Equal(t, "4.0 KiB", values["Transferred"])
}

func TestPrintSummaries(t *testing.T) {
	t.Run("TableFailed", func(t *testing.T) {
		var buf bytes.Buffer
		p := output.NewPrinter(&buf, output.FormatTable, false)

		require.NoError(t, printSummaries(p, "memory", []*scan.Summary{failedSummary()}))

		out := buf.String()
		assert.Contains(t, out, "holds block 6")
		assert.Contains(t, out, "... and 2 more failures")
		assert.Contains(t, out, "FAILED: 3 of 8 blocks not good")
	})

	t.Run("TableOK", func(t *testing.T) {
		var buf bytes.Buffer
		p := output.NewPrinter(&buf, output.FormatTable, false)

		sum := &scan.Summary{Operation: scan.OpWrite, Plan: scan.Plan{Count: 4, Order: scan.Sequential}, Blocks: 4, Good: 4}
		require.NoError(t, printSummaries(p, "memory", []*scan.Summary{sum}))

		assert.Contains(t, buf.String(), "OK: write of 4 blocks")
	})

	t.Run("JSON", func(t *testing.T) {
		var buf bytes.Buffer
		p := output.NewPrinter(&buf, output.FormatJSON, false)

		require.NoError(t, printSummaries(p, "memory", []*scan.Summary{failedSummary()}))

		out := buf.String()
		assert.Contains(t, out, `"device": "memory"`)
		assert.Contains(t, out, `"ok": false`)
		assert.Contains(t, out, `"run_id": "run-1"`)
	})
}
