package scan

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/marmos91/helocheck/pkg/helo"
)

// Kind classifies the outcome of one block in a scan.
type Kind string

const (
	// KindGood is a block that verified (or, for a write, was written).
	KindGood Kind = "good"

	// KindBad is a helo block with at least one mismatching word.
	KindBad Kind = "bad"

	// KindNotHelo is a block without the helo signature.
	KindNotHelo Kind = "nothelo"

	// KindMissing is a block the device has no data for.
	KindMissing Kind = "missing"

	// KindMisplaced is an intact helo block whose stored block number
	// differs from the index it was read from. This is what a device that
	// silently remaps or aliases addresses looks like.
	KindMisplaced Kind = "misplaced"

	// KindIOError is a block whose read or write failed.
	KindIOError Kind = "io_error"
)

// Kinds lists every Kind in reporting order.
var Kinds = []Kind{KindGood, KindBad, KindNotHelo, KindMissing, KindMisplaced, KindIOError}

// Failure records one block that did not come back good.
type Failure struct {
	Index        uint32             `json:"index" yaml:"index"`
	Kind         Kind               `json:"kind" yaml:"kind"`
	Verification *helo.Verification `json:"verification,omitempty" yaml:"verification,omitempty"`
	Err          error              `json:"-" yaml:"-"`
}

// String renders the failure on one line.
func (f Failure) String() string {
	switch {
	case f.Err != nil:
		return fmt.Sprintf("block %d: %s: %v", f.Index, f.Kind, f.Err)
	case f.Kind == KindMisplaced && f.Verification != nil:
		return fmt.Sprintf("block %d: %s: holds block %d", f.Index, f.Kind, f.Verification.BlockNumber)
	case f.Kind == KindBad && f.Verification != nil:
		return fmt.Sprintf("block %d: %s: %d word errors", f.Index, f.Kind, f.Verification.Errors)
	default:
		return fmt.Sprintf("block %d: %s", f.Index, f.Kind)
	}
}

// Summary is the result of a write or verify run.
type Summary struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Operation string `json:"operation" yaml:"operation"`
	Plan      Plan   `json:"plan" yaml:"plan"`

	// Blocks is the number of blocks processed. It is below Plan.Count
	// only when the run was aborted.
	Blocks uint64 `json:"blocks" yaml:"blocks"`

	Good      uint64 `json:"good" yaml:"good"`
	Bad       uint64 `json:"bad" yaml:"bad"`
	NotHelo   uint64 `json:"nothelo" yaml:"nothelo"`
	Missing   uint64 `json:"missing" yaml:"missing"`
	Misplaced uint64 `json:"misplaced" yaml:"misplaced"`
	IOErrors  uint64 `json:"io_errors" yaml:"io_errors"`

	// WordErrors totals mismatching words over all bad blocks.
	WordErrors uint64 `json:"word_errors" yaml:"word_errors"`

	Bytes    int64         `json:"bytes" yaml:"bytes"`
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Failures holds up to Options.MaxFailures failures sorted by block
	// index; DroppedFailures counts the rest.
	Failures        []Failure `json:"failures,omitempty" yaml:"failures,omitempty"`
	DroppedFailures uint64    `json:"dropped_failures,omitempty" yaml:"dropped_failures,omitempty"`

	// Aborted is set when the run stopped before visiting every block,
	// through FailFast or context cancellation.
	Aborted bool `json:"aborted" yaml:"aborted"`
}

// Count returns the counter for k.
func (s *Summary) Count(k Kind) uint64 {
	switch k {
	case KindGood:
		return s.Good
	case KindBad:
		return s.Bad
	case KindNotHelo:
		return s.NotHelo
	case KindMissing:
		return s.Missing
	case KindMisplaced:
		return s.Misplaced
	case KindIOError:
		return s.IOErrors
	default:
		return 0
	}
}

func (s *Summary) add(k Kind) {
	s.Blocks++
	switch k {
	case KindGood:
		s.Good++
	case KindBad:
		s.Bad++
	case KindNotHelo:
		s.NotHelo++
	case KindMissing:
		s.Missing++
	case KindMisplaced:
		s.Misplaced++
	case KindIOError:
		s.IOErrors++
	}
}

// Failed returns the number of blocks that did not come back good.
func (s *Summary) Failed() uint64 {
	return s.Blocks - s.Good
}

// OK reports whether every planned block was processed and came back good.
func (s *Summary) OK() bool {
	return !s.Aborted && s.Failed() == 0
}

// Throughput returns the transfer rate in bytes per second.
func (s *Summary) Throughput() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Bytes) / s.Duration.Seconds()
}

// Rate renders Throughput for humans, e.g. "21 MB/s".
func (s *Summary) Rate() string {
	return humanize.Bytes(uint64(s.Throughput())) + "/s"
}
