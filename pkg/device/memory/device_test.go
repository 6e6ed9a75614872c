package memory

import (
	"context"
	"testing"

	"github.com/marmos91/helocheck/pkg/device"
	"github.com/marmos91/helocheck/pkg/device/devicetest"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	devicetest.RunConformanceSuite(t, func(t *testing.T) device.Device {
		return New()
	})
}

func TestDevice_Capacity(t *testing.T) {
	ctx := context.Background()
	d := NewWithCapacity(4)
	defer d.Close()

	capacity, err := d.Capacity(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint64(4), capacity)

	buf, _ := helo.New(4).MarshalBinary()
	assert.ErrorIs(t, d.WriteBlock(ctx, 4, buf), device.ErrOutOfRange)
	assert.NoError(t, d.WriteBlock(ctx, 3, buf))
}

func TestDevice_FaultInjection(t *testing.T) {
	ctx := context.Background()
	d := New()
	defer d.Close()

	buf, _ := helo.New(9).MarshalBinary()
	require.NoError(t, d.WriteBlock(ctx, 9, buf))
	require.NoError(t, d.WriteBlock(ctx, 10, buf))
	assert.Equal(t, 2, d.BlockCount())

	t.Run("Corrupt", func(t *testing.T) {
		require.NoError(t, d.Corrupt(9, helo.HeaderSize+4, 0x01))

		data, err := d.ReadBlock(ctx, 9)
		require.NoError(t, err)
		res, err := helo.VerifyBytes(data, nil)
		require.NoError(t, err)
		assert.Equal(t, helo.Bad, res)
	})

	t.Run("CorruptMissing", func(t *testing.T) {
		assert.ErrorIs(t, d.Corrupt(99, 0, 0xFF), device.ErrBlockNotFound)
	})

	t.Run("Drop", func(t *testing.T) {
		d.Drop(10)
		assert.Equal(t, 1, d.BlockCount())
		_, err := d.ReadBlock(ctx, 10)
		assert.ErrorIs(t, err, device.ErrBlockNotFound)
	})
}
