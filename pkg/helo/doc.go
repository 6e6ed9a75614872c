// Package helo implements "helo" blocks: fixed-size blocks that carry a
// verifiable pseudo-random payload derived only from their block number.
//
// A block is written with Fill and later verified with Check (or Verify)
// without any reference copy: the expected payload is recomputed from the
// block's own stored block number. This lets a caller write blocks across a
// storage medium and read them back in any order to detect corruption.
//
// # Layout
//
// Every field is an unsigned 32-bit little-endian integer. A block occupies
// exactly BlockSize bytes with no padding:
//
//	offset  size  field
//	0       4     magic1       0x6f6c6568 ("helo")
//	4       4     magic2       0x61746164 ("data")
//	8       4     block_number logical index chosen by the writer
//	12      500   words        WordCount generated values
//
// # Sequence
//
// Words are produced by a multiplicative linear congruential generator
// x' = (a*x) mod m with a = 1815976680 and m = 2^32 - 5, taken from
// L'Ecuyer's "Tables of Linear Congruential Generators of Different Sizes and
// Good Lattice Structure" (Mathematics of Computation 68(225), 1999). It is
// chosen for reproducibility and speed, not unpredictability.
//
// # Thread Safety
//
// Blocks are plain values with no shared state. Distinct blocks may be filled
// and checked concurrently. Check does not serialize calls to its report
// sink; a sink shared between goroutines must be safe for concurrent use.
package helo
