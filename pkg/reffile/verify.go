package reffile

import (
	"errors"
	"io"

	"github.com/marmos91/helocheck/pkg/helo"
)

// Tally counts the check results of a reference file.
type Tally struct {
	Blocks  uint64 `json:"blocks" yaml:"blocks"`
	Good    uint64 `json:"good" yaml:"good"`
	Bad     uint64 `json:"bad" yaml:"bad"`
	NotHelo uint64 `json:"nothelo" yaml:"nothelo"`

	// WordErrors totals mismatching words over all bad blocks.
	WordErrors uint64 `json:"word_errors" yaml:"word_errors"`

	// Misplaced lists the stream positions of helo blocks whose block
	// number differs from the number expected at that position.
	Misplaced []uint64 `json:"misplaced,omitempty" yaml:"misplaced,omitempty"`
}

// Count returns the number of blocks with result r.
func (t *Tally) Count(r helo.CheckResult) uint64 {
	switch r {
	case helo.Good:
		return t.Good
	case helo.Bad:
		return t.Bad
	default:
		return t.NotHelo
	}
}

// OK reports whether every block was good and in place.
func (t *Tally) OK() bool {
	return t.Good == t.Blocks && len(t.Misplaced) == 0
}

// Verify checks every block of a reference file that starts at block zero.
func Verify(r io.Reader, report helo.ReportFunc) (*Tally, error) {
	return VerifyFrom(r, 0, report)
}

// VerifyFrom checks every block of a reference file whose first block is
// numbered start. Diagnostics of bad blocks go to report. The returned
// Tally covers every block decoded before any error.
func VerifyFrom(r io.Reader, start uint32, report helo.ReportFunc) (*Tally, error) {
	tally := &Tally{}
	rd := NewReader(r)

	for {
		pos := rd.Position()
		b, err := rd.Next()
		if errors.Is(err, io.EOF) {
			return tally, nil
		}
		if err != nil {
			return tally, err
		}

		v := b.Verify()
		v.Report(report)

		tally.Blocks++
		switch v.Result {
		case helo.Good:
			tally.Good++
		case helo.Bad:
			tally.Bad++
			tally.WordErrors += uint64(v.Errors)
		default:
			tally.NotHelo++
			continue
		}

		if uint64(v.BlockNumber) != uint64(start)+pos {
			tally.Misplaced = append(tally.Misplaced, pos)
		}
	}
}
