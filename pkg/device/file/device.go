// Package file provides a block device backed by a regular file, a disk image
// or a raw block device node such as /dev/sdb or /dev/mmcblk0.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/marmos91/helocheck/pkg/device"
)

// Config holds configuration for the file-backed device.
type Config struct {
	// Path is the image file or device node.
	Path string

	// Create creates the file if it doesn't exist.
	// Ignored for device nodes.
	Create bool

	// Size preallocates a regular file to this many bytes and fixes the
	// device capacity. Zero leaves the file size untouched and lets writes
	// grow it. Must be a multiple of the block size.
	Size int64

	// SyncWrites opens the file with O_SYNC so every write reaches the
	// medium before WriteBlock returns.
	SyncWrites bool

	// ReadOnly opens the medium for verification only.
	// WriteBlock returns ErrReadOnly.
	ReadOnly bool

	// FileMode is the permission mode for created files.
	// Default: 0644
	FileMode os.FileMode

	// DropCache evicts the file from the page cache on every Sync, so that a
	// verification following a write reads the medium. Linux only.
	DropCache bool
}

// ErrReadOnly is returned by WriteBlock on a device opened read-only.
var ErrReadOnly = errors.New("device is read-only")

// DefaultConfig returns the default configuration for path.
func DefaultConfig(path string) Config {
	return Config{
		Path:     path,
		Create:   true,
		FileMode: 0644,
	}
}

// Device is a file-backed implementation of device.Device.
// Block n lives at byte offset n*BlockSize.
type Device struct {
	mu        sync.RWMutex
	f         *os.File
	path      string
	fixed     bool
	readOnly  bool
	dropCache bool
	closed    bool
}

// New opens the file or device node described by cfg.
func New(cfg Config) (*Device, error) {
	if cfg.Path == "" {
		return nil, errors.New("path is required")
	}
	if cfg.Size < 0 || cfg.Size%device.BlockSize != 0 {
		return nil, fmt.Errorf("size %d is not a multiple of %d", cfg.Size, device.BlockSize)
	}
	if cfg.FileMode == 0 {
		cfg.FileMode = 0644
	}

	flags := os.O_RDWR
	if cfg.Create {
		flags |= os.O_CREATE
	}
	if cfg.SyncWrites {
		flags |= os.O_SYNC
	}
	if cfg.ReadOnly {
		flags = os.O_RDONLY
	}

	f, err := os.OpenFile(cfg.Path, flags, cfg.FileMode)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	d := &Device{f: f, path: cfg.Path, readOnly: cfg.ReadOnly, dropCache: cfg.DropCache}

	switch {
	case info.Mode()&os.ModeDevice != 0:
		// Device nodes have a fixed size and cannot be truncated
		d.fixed = true
	case info.IsDir():
		_ = f.Close()
		return nil, errors.New("path is a directory")
	case cfg.Size > 0 && !cfg.ReadOnly:
		if info.Size() != cfg.Size {
			if err := f.Truncate(cfg.Size); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("failed to size image: %w", err)
			}
		}
		d.fixed = true
	}

	return d, nil
}

// NewWithPath opens path with the default configuration.
func NewWithPath(path string) (*Device, error) {
	return New(DefaultConfig(path))
}

// size returns the current size of the medium in bytes.
func (d *Device) size() (int64, error) {
	// Seek works for device nodes, whose Stat size is zero
	return d.f.Seek(0, io.SeekEnd)
}

// WriteBlock writes a single block at its byte offset.
func (d *Device) WriteBlock(ctx context.Context, index uint32, data []byte) error {
	if err := device.CheckBlockSize(data); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if d.readOnly {
		return ErrReadOnly
	}

	if d.fixed {
		size, err := d.size()
		if err != nil {
			return err
		}
		if device.Offset(index)+device.BlockSize > size {
			return device.ErrOutOfRange
		}
	}

	if _, err := d.f.WriteAt(data, device.Offset(index)); err != nil {
		return fmt.Errorf("write block %d: %w", index, err)
	}
	return nil
}

// ReadBlock reads a single block from its byte offset.
// Blocks lying fully or partially past the end of the file are reported as
// device.ErrBlockNotFound.
func (d *Device) ReadBlock(ctx context.Context, index uint32) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, device.ErrDeviceClosed
	}

	data := make([]byte, device.BlockSize)
	n, err := d.f.ReadAt(data, device.Offset(index))
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %d of %d bytes at index %d", device.ErrBlockNotFound, n, device.BlockSize, index)
		}
		return nil, fmt.Errorf("read block %d: %w", index, err)
	}

	return data, nil
}

// Sync flushes the file to stable storage and, with DropCache, evicts it
// from the page cache.
func (d *Device) Sync(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if d.readOnly {
		return d.dropCacheIfSet()
	}
	if err := d.f.Sync(); err != nil {
		return err
	}
	return d.dropCacheIfSet()
}

func (d *Device) dropCacheIfSet() error {
	if !d.dropCache {
		return nil
	}
	if err := dropPageCache(d.f); err != nil {
		return fmt.Errorf("drop page cache: %w", err)
	}
	return nil
}

// Capacity returns the size of a device node or preallocated image in whole
// blocks, and zero for an image that writes may grow.
func (d *Device) Capacity(ctx context.Context) (uint64, error) {
	if !d.fixed {
		d.mu.RLock()
		defer d.mu.RUnlock()
		if d.closed {
			return 0, device.ErrDeviceClosed
		}
		return 0, nil
	}
	return d.Extent(ctx)
}

// Extent returns the current size of the medium in whole blocks. A trailing
// partial block is not counted.
func (d *Device) Extent(ctx context.Context) (uint64, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return 0, device.ErrDeviceClosed
	}

	size, err := d.size()
	if err != nil {
		return 0, err
	}
	return uint64(size / device.BlockSize), nil
}

// Close syncs and closes the underlying file.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true

	var syncErr error
	if !d.readOnly {
		syncErr = d.f.Sync()
	}
	if err := d.f.Close(); err != nil {
		return err
	}
	return syncErr
}

// HealthCheck verifies the file is still accessible.
func (d *Device) HealthCheck(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}

	_, err := d.f.Stat()
	return err
}

// Path returns the path the device was opened with.
func (d *Device) Path() string {
	return d.path
}

// Ensure Device implements device.Device.
var (
	_ device.Device = (*Device)(nil)
	_ device.Extent = (*Device)(nil)
)
