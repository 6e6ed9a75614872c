// Package badger provides a block device stored in a BadgerDB database.
//
// Each block is one key ("<prefix>block-0000000042"). BadgerDB keeps values in
// a value log on disk, so placing the database directory on the medium under
// test exercises it through a write-heavy, log-structured access pattern that
// differs from the linear layout of the file device.
package badger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	badgerdb "github.com/dgraph-io/badger/v4"
	"github.com/marmos91/helocheck/pkg/device"
)

// Config holds configuration for the BadgerDB block device.
type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the database entirely in memory (for testing).
	InMemory bool

	// KeyPrefix is prepended to every block key.
	KeyPrefix string

	// SyncWrites makes every write durable before it returns.
	SyncWrites bool

	// Capacity bounds the number of addressable blocks. Zero means unbounded.
	Capacity uint64
}

// Device is a BadgerDB-backed implementation of device.Device.
type Device struct {
	mu        sync.RWMutex
	db        *badgerdb.DB
	keyPrefix string
	capacity  uint64
	inMemory  bool
	closed    bool
}

// New opens (or creates) the database described by cfg.
func New(cfg Config) (*Device, error) {
	if cfg.Path == "" && !cfg.InMemory {
		return nil, errors.New("path is required")
	}

	opts := badgerdb.DefaultOptions(cfg.Path).
		WithLogger(nil).
		WithSyncWrites(cfg.SyncWrites)
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("").WithInMemory(true)
	}

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	return &Device{
		db:        db,
		keyPrefix: cfg.KeyPrefix,
		capacity:  cfg.Capacity,
		inMemory:  cfg.InMemory,
	}, nil
}

func (d *Device) key(index uint32) []byte {
	return []byte(device.Key(d.keyPrefix, index))
}

// WriteBlock stores a single block under its key.
func (d *Device) WriteBlock(ctx context.Context, index uint32, data []byte) error {
	if err := device.CheckBlockSize(data); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if d.capacity > 0 && uint64(index) >= d.capacity {
		return device.ErrOutOfRange
	}

	value := make([]byte, len(data))
	copy(value, data)

	err := d.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set(d.key(index), value)
	})
	if err != nil {
		return fmt.Errorf("badger set block %d: %w", index, err)
	}
	return nil
}

// ReadBlock reads a single block.
func (d *Device) ReadBlock(ctx context.Context, index uint32) ([]byte, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil, device.ErrDeviceClosed
	}

	var data []byte
	err := d.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get(d.key(index))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if errors.Is(err, badgerdb.ErrKeyNotFound) {
			return nil, device.ErrBlockNotFound
		}
		return nil, fmt.Errorf("badger get block %d: %w", index, err)
	}

	return data, nil
}

// Sync flushes the value log to disk. An in-memory database has no log to
// flush, and badger's Sync would dereference its missing WAL.
func (d *Device) Sync(ctx context.Context) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}
	if d.inMemory {
		return nil
	}
	return d.db.Sync()
}

// Capacity returns the configured capacity in blocks.
func (d *Device) Capacity(ctx context.Context) (uint64, error) {
	return d.capacity, nil
}

// Close closes the database.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.db.Close()
}

// HealthCheck verifies the database can serve a read transaction.
func (d *Device) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return device.ErrDeviceClosed
	}

	err := d.db.View(func(txn *badgerdb.Txn) error {
		return nil
	})
	if err != nil {
		return fmt.Errorf("healthcheck failed: %w", err)
	}
	return nil
}

// CacheStats is a snapshot of one of badger's internal caches.
type CacheStats struct {
	// Cache is "block" or "index".
	Cache  string
	Hits   uint64
	Misses uint64
	Ratio  float64
}

// CacheStats returns the current block and index cache statistics.
// Caches that are disabled report zeros.
func (d *Device) CacheStats() []CacheStats {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return nil
	}

	block := d.db.BlockCacheMetrics()
	index := d.db.IndexCacheMetrics()
	return []CacheStats{
		{Cache: "block", Hits: block.Hits(), Misses: block.Misses(), Ratio: block.Ratio()},
		{Cache: "index", Hits: index.Hits(), Misses: index.Misses(), Ratio: index.Ratio()},
	}
}

// Ensure Device implements device.Device.
var _ device.Device = (*Device)(nil)
