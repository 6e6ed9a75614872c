// Package devicetest provides a conformance suite that every device.Device
// implementation runs from its own tests.
package devicetest

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// DeviceFactory creates a fresh, empty Device for each test.
// The factory receives *testing.T so it can use t.TempDir() for devices
// that need filesystem paths and t.Cleanup() for teardown.
type DeviceFactory func(t *testing.T) device.Device

// RunConformanceSuite runs the conformance tests against the provided factory.
// Each test gets a fresh device instance to ensure isolation.
func RunConformanceSuite(t *testing.T, factory DeviceFactory) {
	t.Helper()

	t.Run("WriteAndRead", func(t *testing.T) { testWriteAndRead(t, factory) })
	t.Run("ReadMissing", func(t *testing.T) { testReadMissing(t, factory) })
	t.Run("RejectsWrongSize", func(t *testing.T) { testRejectsWrongSize(t, factory) })
	t.Run("Overwrite", func(t *testing.T) { testOverwrite(t, factory) })
	t.Run("CallerBufferIsolation", func(t *testing.T) { testBufferIsolation(t, factory) })
	t.Run("ConcurrentAccess", func(t *testing.T) { testConcurrentAccess(t, factory) })
	t.Run("Closed", func(t *testing.T) { testClosed(t, factory) })
}

func encode(n uint32) []byte {
	buf, _ := helo.New(n).MarshalBinary()
	return buf
}

func testWriteAndRead(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)
	defer d.Close()

	require.NoError(t, d.HealthCheck(ctx))

	for _, idx := range []uint32{0, 1, 7, 63} {
		require.NoError(t, d.WriteBlock(ctx, idx, encode(idx)), "write %d", idx)
	}
	require.NoError(t, d.Sync(ctx))

	for _, idx := range []uint32{0, 1, 7, 63} {
		data, err := d.ReadBlock(ctx, idx)
		require.NoError(t, err, "read %d", idx)
		assert.Equal(t, encode(idx), data)

		res, err := helo.VerifyBytes(data, nil)
		require.NoError(t, err)
		assert.Equal(t, helo.Good, res)
	}
}

func testReadMissing(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)
	defer d.Close()

	require.NoError(t, d.WriteBlock(ctx, 0, encode(0)))

	_, err := d.ReadBlock(ctx, 40)
	assert.True(t, errors.Is(err, device.ErrBlockNotFound), "got %v", err)
}

func testRejectsWrongSize(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)
	defer d.Close()

	for _, size := range []int{0, 1, device.BlockSize - 1, device.BlockSize + 1} {
		err := d.WriteBlock(ctx, 0, make([]byte, size))
		assert.ErrorIs(t, err, device.ErrInvalidBlockSize, "size %d", size)
	}
}

func testOverwrite(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)
	defer d.Close()

	require.NoError(t, d.WriteBlock(ctx, 3, encode(100)))
	require.NoError(t, d.WriteBlock(ctx, 3, encode(3)))

	data, err := d.ReadBlock(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, encode(3), data)
}

func testBufferIsolation(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)
	defer d.Close()

	buf := encode(5)
	require.NoError(t, d.WriteBlock(ctx, 5, buf))
	buf[100] ^= 0xFF

	data, err := d.ReadBlock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, encode(5), data)

	data[200] ^= 0xFF
	again, err := d.ReadBlock(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, encode(5), again)
}

func testConcurrentAccess(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)
	defer d.Close()

	const n = 32
	var wg sync.WaitGroup
	for i := range uint32(n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, d.WriteBlock(ctx, i, encode(i)))
		}()
	}
	wg.Wait()

	for i := range uint32(n) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			data, err := d.ReadBlock(ctx, i)
			if assert.NoError(t, err) {
				assert.Equal(t, encode(i), data)
			}
		}()
	}
	wg.Wait()
}

func testClosed(t *testing.T, factory DeviceFactory) {
	ctx := context.Background()
	d := factory(t)

	require.NoError(t, d.WriteBlock(ctx, 0, encode(0)))
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.WriteBlock(ctx, 0, encode(0)), device.ErrDeviceClosed)
	_, err := d.ReadBlock(ctx, 0)
	assert.ErrorIs(t, err, device.ErrDeviceClosed)
	assert.ErrorIs(t, d.HealthCheck(ctx), device.ErrDeviceClosed)
}
