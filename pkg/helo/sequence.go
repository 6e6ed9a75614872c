package helo

import "iter"

// ============================================================================
// Generator Constants
// ============================================================================

const (
	// Multiplier is the LCG multiplier a.
	Multiplier = 1815976680

	// Modulus is the LCG modulus m, the largest prime below 2^32.
	Modulus = 4294967291
)

// ============================================================================
// Sequence Generator
// ============================================================================

// Next advances the generator by one step.
//
// The product is computed in 64 bits so it cannot overflow before the
// reduction. Next is total over uint32, always returns a value below Modulus,
// and maps 0 to 0.
//
// Example:
//
//	Next(0) → 0
//	Next(1) → 1815976680
func Next(state uint32) uint32 {
	return uint32(uint64(state) * Multiplier % Modulus)
}

// Sequence returns the endless stream Next(seed), Next(Next(seed)), ...
//
// The first value yielded is the one stored in Words[0] of a block filled
// with the same seed.
func Sequence(seed uint32) iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		x := seed
		for {
			x = Next(x)
			if !yield(x) {
				return
			}
		}
	}
}
