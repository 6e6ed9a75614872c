package commands

import (
	"bytes"
	"testing"

	"github.com/marmos91/helocheck/internal/cli/output"
	"github.com/marmos91/helocheck/pkg/helo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(t *testing.T, n uint32) []byte {
	t.Helper()
	data, err := helo.New(n).MarshalBinary()
	require.NoError(t, err)
	return data
}

func TestInspectBlock(t *testing.T) {
	t.Run("Good", func(t *testing.T) {
		r, err := inspectBlock(42, block(t, 42), false)
		require.NoError(t, err)

		assert.Equal(t, "good", r.Result)
		assert.True(t, r.Signature)
		assert.Equal(t, uint32(42), r.BlockNumber)
		assert.False(t, r.Misplaced)
		assert.Zero(t, r.Errors)
		assert.Nil(t, r.First)
		assert.Empty(t, r.Messages)
		assert.Empty(t, r.Dump)
	})

	t.Run("Bad", func(t *testing.T) {
		data := block(t, 9)
		data[200] ^= 0xFF

		r, err := inspectBlock(9, data, false)
		require.NoError(t, err)

		assert.Equal(t, "bad", r.Result)
		assert.Equal(t, 1, r.Errors)
		require.NotNil(t, r.First)
		assert.Equal(t, uint32(9), r.First.BlockNumber)
		require.NotEmpty(t, r.Messages)
		assert.Contains(t, r.Messages[0], "helo error: block     9")
	})

	t.Run("Misplaced", func(t *testing.T) {
		r, err := inspectBlock(7, block(t, 5), false)
		require.NoError(t, err)

		assert.Equal(t, "good", r.Result)
		assert.True(t, r.Misplaced)
		assert.Equal(t, uint32(5), r.BlockNumber)
	})

	t.Run("NotHelo", func(t *testing.T) {
		r, err := inspectBlock(3, make([]byte, helo.BlockSize), true)
		require.NoError(t, err)

		assert.Equal(t, "nothelo", r.Result)
		assert.False(t, r.Signature)
		assert.False(t, r.Misplaced)
		assert.Contains(t, r.Dump, "00000000  00 00 00 00")
	})

	t.Run("ShortBlock", func(t *testing.T) {
		_, err := inspectBlock(0, make([]byte, 100), false)
		assert.Error(t, err)
	})
}

func TestPrintBlockReport(t *testing.T) {
	data := block(t, 5)
	r, err := inspectBlock(7, data, false)
	require.NoError(t, err)
	r.Device = "memory"

	var buf bytes.Buffer
	require.NoError(t, printBlockReport(output.NewPrinter(&buf, output.FormatTable, false), r))

	out := buf.String()
	assert.Contains(t, out, "memory")
	assert.Contains(t, out, "holds block 5")
}
