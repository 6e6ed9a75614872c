package scan

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"math/bits"
	"math/rand/v2"
	"strings"
)

// ErrInvalidPlan is returned for plans that cannot be scanned.
var ErrInvalidPlan = errors.New("invalid scan plan")

// maxIndexSpace is the number of addressable block indices.
const maxIndexSpace = uint64(1) << 32

// Order is the order in which a plan visits its blocks.
type Order string

const (
	// Sequential visits blocks in increasing index order.
	Sequential Order = "sequential"

	// Reverse visits blocks in decreasing index order.
	Reverse Order = "reverse"

	// Random visits blocks in a pseudo-random order that is fully
	// determined by the plan's seed.
	Random Order = "random"
)

// Orders lists every supported Order.
var Orders = []Order{Sequential, Reverse, Random}

// ParseOrder converts a name to an Order. The empty string is Sequential.
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(s)) {
	case "", Sequential:
		return Sequential, nil
	case Reverse:
		return Reverse, nil
	case Random:
		return Random, nil
	default:
		return "", fmt.Errorf("%w: unknown order %q", ErrInvalidPlan, s)
	}
}

// Plan describes which blocks a scan touches and in which order.
// Block i is always written at physical index i.
type Plan struct {
	// Start is the first block index.
	Start uint32

	// Count is the number of blocks. Zero means "up to the device capacity"
	// and is resolved by Resolve.
	Count uint32

	// Order is the visiting order.
	Order Order

	// Seed selects the permutation for Random order.
	Seed int64
}

// Resolve fills in a zero Count from capacity (in blocks, zero meaning
// unbounded) and validates the result.
func (p Plan) Resolve(capacity uint64) (Plan, error) {
	if p.Order == "" {
		p.Order = Sequential
	}

	if p.Count == 0 {
		switch {
		case capacity == 0:
			return p, fmt.Errorf("%w: count is required for a device without a fixed capacity", ErrInvalidPlan)
		case uint64(p.Start) >= capacity:
			return p, fmt.Errorf("%w: start %d is beyond device capacity %d", ErrInvalidPlan, p.Start, capacity)
		}
		remaining := min(capacity, maxIndexSpace) - uint64(p.Start)
		p.Count = uint32(min(remaining, math.MaxUint32))
	}

	if capacity > 0 && uint64(p.Start)+uint64(p.Count) > capacity {
		return p, fmt.Errorf("%w: blocks [%d, %d) exceed device capacity %d",
			ErrInvalidPlan, p.Start, uint64(p.Start)+uint64(p.Count), capacity)
	}

	return p, p.Validate()
}

// FillFromExtent sets a zero Count to cover the blocks from Start up to the
// extent of a growable device. It leaves the plan alone when Count is set or
// the device holds nothing at or after Start.
func (p Plan) FillFromExtent(extent uint64) Plan {
	if p.Count != 0 || extent <= uint64(p.Start) {
		return p
	}
	remaining := min(extent, maxIndexSpace) - uint64(p.Start)
	p.Count = uint32(min(remaining, math.MaxUint32))
	return p
}

// Validate checks that the plan addresses a non-empty range of valid
// indices with a known order.
func (p Plan) Validate() error {
	if p.Count == 0 {
		return fmt.Errorf("%w: count must be positive", ErrInvalidPlan)
	}
	if uint64(p.Start)+uint64(p.Count) > maxIndexSpace {
		return fmt.Errorf("%w: start %d + count %d overflows the 32-bit block index",
			ErrInvalidPlan, p.Start, p.Count)
	}
	if _, err := ParseOrder(string(p.Order)); err != nil {
		return err
	}
	return nil
}

// End returns one past the last block index, as a uint64 so that a plan
// reaching index 2^32-1 does not wrap.
func (p Plan) End() uint64 {
	return uint64(p.Start) + uint64(p.Count)
}

// Bytes returns the number of bytes the plan covers.
func (p Plan) Bytes(blockSize int) int64 {
	return int64(p.Count) * int64(blockSize)
}

// Indices yields every index in [Start, Start+Count) exactly once, in the
// plan's order. The plan must be valid.
func (p Plan) Indices() iter.Seq[uint32] {
	switch p.Order {
	case Reverse:
		return func(yield func(uint32) bool) {
			for i := p.End(); i > uint64(p.Start); i-- {
				if !yield(uint32(i - 1)) {
					return
				}
			}
		}
	case Random:
		return func(yield func(uint32) bool) {
			for off := range permutation(uint64(p.Count), p.Seed) {
				if !yield(p.Start + uint32(off)) {
					return
				}
			}
		}
	default:
		return func(yield func(uint32) bool) {
			for i := uint64(p.Start); i < p.End(); i++ {
				if !yield(uint32(i)) {
					return
				}
			}
		}
	}
}

// permutation yields every value in [0, n) exactly once in an order fixed by
// seed, using constant memory.
//
// It walks a full-period linear congruential generator modulo m, the
// smallest power of two >= n, and skips values >= n. By the Hull-Dobell
// theorem the generator x' = a*x + c (mod m) visits all m residues when c is
// odd and a = 1 (mod 4).
func permutation(n uint64, seed int64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if n == 0 {
			return
		}

		m := uint64(1)
		if n > 1 {
			m = uint64(1) << bits.Len64(n-1)
		}
		mask := m - 1

		rng := rand.New(rand.NewPCG(uint64(seed), 0x68656c6f))
		a := (rng.Uint64() &^ 3) | 1
		c := rng.Uint64() | 1
		x := rng.Uint64() & mask

		for range m {
			if x < n && !yield(x) {
				return
			}
			x = (a*x + c) & mask
		}
	}
}
