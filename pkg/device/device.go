// Package device provides the block device interface that helo blocks are
// written to and read back from.
package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/marmos91/helocheck/pkg/helo"
)

// BlockSize is the size of every block a Device stores.
const BlockSize = helo.BlockSize

// Common errors returned by Device implementations.
var (
	// ErrBlockNotFound is returned when a block was never written, or lies
	// past the end of the medium.
	ErrBlockNotFound = errors.New("block not found")

	// ErrDeviceClosed is returned when operations are attempted on a closed device.
	ErrDeviceClosed = errors.New("device is closed")

	// ErrInvalidBlockSize is returned when writing data that is not BlockSize bytes.
	ErrInvalidBlockSize = errors.New("invalid block size")

	// ErrOutOfRange is returned when an index lies beyond a fixed-capacity device.
	ErrOutOfRange = errors.New("block index out of range")
)

// Device defines the interface for block-addressable storage media.
//
// Blocks are addressed by their physical index on the medium. The logical
// block number stored inside a helo block is independent of it, although the
// scan runner writes block n at index n.
type Device interface {
	// WriteBlock writes one block at index.
	// Data must be exactly BlockSize bytes.
	WriteBlock(ctx context.Context, index uint32, data []byte) error

	// ReadBlock reads the block at index.
	// Returns ErrBlockNotFound if the block doesn't exist.
	ReadBlock(ctx context.Context, index uint32) ([]byte, error)

	// Sync flushes buffered writes to the medium.
	Sync(ctx context.Context) error

	// Capacity returns the number of addressable blocks.
	// Zero means the device has no fixed size.
	Capacity(ctx context.Context) (uint64, error)

	// Close releases any resources held by the device.
	Close() error

	// HealthCheck verifies the device is accessible and operational.
	HealthCheck(ctx context.Context) error
}

// Extent is implemented by growable devices, whose Capacity is zero, to
// report how many whole blocks they currently hold.
type Extent interface {
	Extent(ctx context.Context) (uint64, error)
}

// CurrentExtent returns the Extent of d, looking through wrappers that
// expose Unwrap. ok is false when no device in the chain implements Extent.
func CurrentExtent(ctx context.Context, d Device) (blocks uint64, ok bool, err error) {
	for d != nil {
		if e, is := d.(Extent); is {
			blocks, err = e.Extent(ctx)
			return blocks, true, err
		}
		u, is := d.(interface{ Unwrap() Device })
		if !is {
			break
		}
		d = u.Unwrap()
	}
	return 0, false, nil
}

// Key renders the object key for a block index on keyed backends.
//
// Example:
//
//	Key("sd0/", 42) → "sd0/block-0000000042"
func Key(prefix string, index uint32) string {
	return fmt.Sprintf("%sblock-%010d", prefix, index)
}

// CheckBlockSize returns ErrInvalidBlockSize unless data is exactly BlockSize bytes.
func CheckBlockSize(data []byte) error {
	if len(data) != BlockSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidBlockSize, len(data), BlockSize)
	}
	return nil
}

// Offset returns the byte offset of a block index on a linear medium.
//
// Example:
//
//	Offset(0) → 0
//	Offset(3) → 1536
func Offset(index uint32) int64 {
	return int64(index) * BlockSize
}
