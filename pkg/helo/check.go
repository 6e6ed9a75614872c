package helo

import "fmt"

// CheckResult classifies a block read back from a medium.
type CheckResult int

const (
	// NotHelo means the magic constants do not match: the block was never
	// written by this scheme or holds unformatted data.
	NotHelo CheckResult = iota

	// Good means every word matches the sequence seeded by the block number.
	Good

	// Bad means the magics match but at least one word is corrupted.
	Bad
)

// String returns the lowercase name of the result.
func (r CheckResult) String() string {
	switch r {
	case NotHelo:
		return "nothelo"
	case Good:
		return "good"
	case Bad:
		return "bad"
	default:
		return fmt.Sprintf("CheckResult(%d)", int(r))
	}
}

// MarshalText encodes the result as its String form.
func (r CheckResult) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// ReportFunc receives a pre-formatted diagnostic line. A nil ReportFunc
// suppresses diagnostics.
type ReportFunc func(msg string)

// Mismatch describes a single corrupted word.
type Mismatch struct {
	BlockNumber uint32 `json:"block_number" yaml:"block_number"`
	Word        int    `json:"word" yaml:"word"`
	Expected    uint32 `json:"expected" yaml:"expected"`
	Actual      uint32 `json:"actual" yaml:"actual"`
}

// String renders the first-error report line.
func (m Mismatch) String() string {
	return fmt.Sprintf("helo error: block %5d, word %3d, expected %08x, actual %08x",
		m.BlockNumber, m.Word, m.Expected, m.Actual)
}

// Verification is the full outcome of verifying a block.
type Verification struct {
	Result      CheckResult `json:"result" yaml:"result"`
	BlockNumber uint32      `json:"block_number" yaml:"block_number"`

	// Errors is the number of mismatching words (0 unless Result is Bad).
	Errors int `json:"errors" yaml:"errors"`

	// First is the first mismatching word, nil unless Result is Bad.
	First *Mismatch `json:"first,omitempty" yaml:"first,omitempty"`
}

// additionalErrorsMessage renders the summary emitted when more than one word
// mismatches. extra is the count beyond the first reported mismatch.
func additionalErrorsMessage(extra int) string {
	return fmt.Sprintf("                       and %d more errors", extra)
}

// Verify recomputes the payload from the block's own BlockNumber and compares
// every word.
//
// Blocks whose magics do not match are reported as NotHelo without looking at
// the payload. Otherwise all WordCount words are scanned even after the first
// mismatch. The caller must compare BlockNumber against its own expectation
// if it also wants to confirm the block came from the expected location.
func (b *Block) Verify() Verification {
	v := Verification{BlockNumber: b.BlockNumber}
	if b.Magic1 != Magic1 || b.Magic2 != Magic2 {
		v.Result = NotHelo
		return v
	}

	x := b.BlockNumber
	for i, actual := range b.Words {
		x = Next(x)
		if actual == x {
			continue
		}
		v.Errors++
		if v.First == nil {
			v.First = &Mismatch{
				BlockNumber: b.BlockNumber,
				Word:        i,
				Expected:    x,
				Actual:      actual,
			}
		}
	}

	if v.Errors == 0 {
		v.Result = Good
	} else {
		v.Result = Bad
	}
	return v
}

// Report sends the diagnostic lines for v to report: one line for the first
// mismatch and, if there were several, one line with the additional count.
// Nothing is sent for Good or NotHelo verifications or a nil report.
func (v Verification) Report(report ReportFunc) {
	if report == nil || v.First == nil {
		return
	}
	report(v.First.String())
	if v.Errors > 1 {
		report(additionalErrorsMessage(v.Errors - 1))
	}
}

// Check verifies b and reports the first mismatch to report, if non-nil.
// The result does not depend on whether a report sink is supplied.
func (b *Block) Check(report ReportFunc) CheckResult {
	v := b.Verify()
	v.Report(report)
	return v.Result
}

// VerifyBytes decodes data and checks it. The only error is ErrInvalidSize.
func VerifyBytes(data []byte, report ReportFunc) (CheckResult, error) {
	b, err := Decode(data)
	if err != nil {
		return NotHelo, err
	}
	return b.Check(report), nil
}
