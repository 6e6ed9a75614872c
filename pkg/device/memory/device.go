// Package memory provides an in-memory block device for testing.
package memory

import (
	"context"
	"sync"

	"github.com/marmos91/helocheck/pkg/device"
)

// Device is an in-memory implementation of device.Device.
type Device struct {
	mu       sync.RWMutex
	blocks   map[uint32][]byte
	capacity uint64
	closed   bool
}

// New creates a new unbounded in-memory device.
func New() *Device {
	return NewWithCapacity(0)
}

// NewWithCapacity creates an in-memory device holding at most capacity
// blocks. Zero means unbounded.
func NewWithCapacity(capacity uint64) *Device {
	return &Device{
		blocks:   make(map[uint32][]byte),
		capacity: capacity,
	}
}

// WriteBlock writes a single block to memory.
func (d *Device) WriteBlock(ctx context.Context, index uint32, data []byte) error {
	if err := device.CheckBlockSize(data); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if d.capacity > 0 && uint64(index) >= d.capacity {
		return device.ErrOutOfRange
	}

	// Copy to prevent mutation through the caller's slice
	copied := make([]byte, len(data))
	copy(copied, data)
	d.blocks[index] = copied

	return nil
}

// ReadBlock reads a single block from memory.
func (d *Device) ReadBlock(ctx context.Context, index uint32) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, device.ErrDeviceClosed
	}

	data, ok := d.blocks[index]
	if !ok {
		return nil, device.ErrBlockNotFound
	}

	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Sync is a no-op for memory devices.
func (d *Device) Sync(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	return nil
}

// Capacity returns the configured capacity in blocks.
func (d *Device) Capacity(ctx context.Context) (uint64, error) {
	return d.capacity, nil
}

// Close marks the device as closed.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	d.blocks = nil
	return nil
}

// HealthCheck verifies the device is accessible and operational.
func (d *Device) HealthCheck(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	return nil
}

// ============================================================================
// Fault injection (for testing)
// ============================================================================

// Corrupt XORs mask into the byte at offset of the stored block.
// Returns device.ErrBlockNotFound if the block doesn't exist.
func (d *Device) Corrupt(index uint32, offset int, mask byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, ok := d.blocks[index]
	if !ok {
		return device.ErrBlockNotFound
	}
	data[offset] ^= mask
	return nil
}

// Drop removes a stored block, simulating a lost write.
func (d *Device) Drop(index uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.blocks, index)
}

// BlockCount returns the number of blocks stored.
func (d *Device) BlockCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.blocks)
}

// Ensure Device implements device.Device.
var _ device.Device = (*Device)(nil)
