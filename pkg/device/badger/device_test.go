package badger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/device/devicetest"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformance_InMemory(t *testing.T) {
	devicetest.RunConformanceSuite(t, func(t *testing.T) device.Device {
		d, err := New(Config{InMemory: true})
		require.NoError(t, err)
		return d
	})
}

func TestConformance_OnDisk(t *testing.T) {
	devicetest.RunConformanceSuite(t, func(t *testing.T) device.Device {
		d, err := New(Config{Path: filepath.Join(t.TempDir(), "db"), KeyPrefix: "sd0/"})
		require.NoError(t, err)
		return d
	})
}

func TestNew_RequiresPath(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestDevice_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db")

	d, err := New(Config{Path: path, SyncWrites: true})
	require.NoError(t, err)
	buf, _ := helo.New(12).MarshalBinary()
	require.NoError(t, d.WriteBlock(ctx, 12, buf))
	require.NoError(t, d.Close())

	d, err = New(Config{Path: path})
	require.NoError(t, err)
	defer d.Close()

	data, err := d.ReadBlock(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, buf, data)
}

func TestDevice_Capacity(t *testing.T) {
	ctx := context.Background()
	d, err := New(Config{InMemory: true, Capacity: 2})
	require.NoError(t, err)
	defer d.Close()

	buf, _ := helo.New(2).MarshalBinary()
	assert.ErrorIs(t, d.WriteBlock(ctx, 2, buf), device.ErrOutOfRange)
}

func TestDevice_CacheStats(t *testing.T) {
	d, err := New(Config{InMemory: true})
	require.NoError(t, err)

	stats := d.CacheStats()
	require.Len(t, stats, 2)
	assert.Equal(t, "block", stats[0].Cache)
	assert.Equal(t, "index", stats[1].Cache)

	require.NoError(t, d.Close())
	assert.Nil(t, d.CacheStats())
}

func TestDevice_InMemorySync(t *testing.T) {
	ctx := context.Background()
	d, err := New(Config{InMemory: true, Capacity: 8})
	require.NoError(t, err)

	block, err := helo.New(3).MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, d.WriteBlock(ctx, 3, block))

	require.NotPanics(t, func() {
		assert.NoError(t, d.Sync(ctx))
	})
	require.NoError(t, d.Close())
	assert.ErrorIs(t, d.Sync(ctx), device.ErrDeviceClosed)
}
