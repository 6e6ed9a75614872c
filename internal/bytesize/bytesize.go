// Package bytesize parses and prints human-readable sizes such as "64MiB" or
// "8GB", and converts them to whole numbers of blocks.
package bytesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ByteSize is a size in bytes. In configuration files it is written as a plain
// number or a number with a unit: binary units Ki/KiB through Ti/TiB count in
// powers of 1024, decimal units K/KB through T/TB (as printed on SD card
// packaging) in powers of 1000, and B means bytes.
type ByteSize uint64

const (
	B  ByteSize = 1
	KB ByteSize = 1000
	MB ByteSize = 1000 * KB
	GB ByteSize = 1000 * MB
	TB ByteSize = 1000 * GB

	KiB ByteSize = 1024
	MiB ByteSize = 1024 * KiB
	GiB ByteSize = 1024 * MiB
	TiB ByteSize = 1024 * GiB
)

// ErrNotAligned is returned by Blocks when a size is not a whole number of
// blocks.
var ErrNotAligned = errors.New("size is not a multiple of the block size")

// units is ordered largest first. String prints the binary ones.
var units = []struct {
	label  string
	size   ByteSize
	binary bool
	alias  string
}{
	{"TiB", TiB, true, "ti"},
	{"TB", TB, false, "t"},
	{"GiB", GiB, true, "gi"},
	{"GB", GB, false, "g"},
	{"MiB", MiB, true, "mi"},
	{"MB", MB, false, "m"},
	{"KiB", KiB, true, "ki"},
	{"KB", KB, false, "k"},
	{"B", B, false, ""},
}

func unitSize(name string) (ByteSize, bool) {
	name = strings.ToLower(name)
	for _, u := range units {
		if name == strings.ToLower(u.label) || name == u.alias {
			return u.size, true
		}
	}
	return 0, false
}

// ParseByteSize parses forms like "512", "1024B", "64MiB", "1.5Gi" or "32GB".
// Whitespace around and between number and unit is ignored.
func ParseByteSize(s string) (ByteSize, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, errors.New("empty byte size")
	}

	end := strings.IndexFunc(t, func(r rune) bool { return (r < '0' || r > '9') && r != '.' })
	if end < 0 {
		end = len(t)
	}
	num, unit := t[:end], strings.TrimSpace(t[end:])
	if num == "" {
		return 0, fmt.Errorf("invalid byte size %q: missing number", s)
	}

	mult, ok := unitSize(unit)
	if !ok {
		return 0, fmt.Errorf("invalid byte size %q: unknown unit %q", s, unit)
	}

	if !strings.Contains(num, ".") {
		n, err := strconv.ParseUint(num, 10, 64)
		if err != nil || n > math.MaxUint64/uint64(mult) {
			return 0, fmt.Errorf("invalid byte size %q: number out of range", s)
		}
		return ByteSize(n) * mult, nil
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: bad number %q", s, num)
	}
	bytes := f * float64(mult)
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("invalid byte size %q: number out of range", s)
	}
	return ByteSize(bytes), nil
}

// String prints b in the largest binary unit that divides it exactly, so the
// result parses back to b: 64MiB, 1536KiB, 1000B.
func (b ByteSize) String() string {
	for _, u := range units {
		if u.binary && b >= u.size && b%u.size == 0 {
			return strconv.FormatUint(uint64(b/u.size), 10) + u.label
		}
	}
	return strconv.FormatUint(uint64(b), 10) + "B"
}

func (b *ByteSize) UnmarshalText(text []byte) error {
	size, err := ParseByteSize(string(text))
	if err != nil {
		return err
	}
	*b = size
	return nil
}

// MarshalText writes the String form, so saved configuration files read the
// way they are written by hand.
func (b ByteSize) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b ByteSize) Uint64() uint64 { return uint64(b) }

// Int64 wraps for sizes above math.MaxInt64.
func (b ByteSize) Int64() int64 { return int64(b) }

// Blocks returns b as a count of blockSize blocks, or ErrNotAligned when it
// does not divide evenly. ByteSize(MiB).Blocks(512) is 2048.
func (b ByteSize) Blocks(blockSize int) (uint64, error) {
	if blockSize <= 0 {
		return 0, fmt.Errorf("invalid block size %d", blockSize)
	}
	bs := uint64(blockSize)
	if uint64(b)%bs != 0 {
		return 0, fmt.Errorf("%w: %s is not a multiple of %d", ErrNotAligned, b, blockSize)
	}
	return uint64(b) / bs, nil
}
