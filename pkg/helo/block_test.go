package helo

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Layout Tests
// ============================================================================

func TestLayoutConstants(t *testing.T) {
	assert.Equal(t, 125, WordCount)
	assert.Equal(t, BlockSize, HeaderSize+4*WordCount)
	assert.Equal(t, uintptr(BlockSize), unsafe.Sizeof(Block{}))

	assert.Equal(t, Magic1, binary.LittleEndian.Uint32([]byte("helo")))
	assert.Equal(t, Magic2, binary.LittleEndian.Uint32([]byte("data")))
}

// ============================================================================
// Fill Tests
// ============================================================================

func TestFill(t *testing.T) {
	t.Run("SetsHeader", func(t *testing.T) {
		b := New(1234)
		assert.Equal(t, Magic1, b.Magic1)
		assert.Equal(t, Magic2, b.Magic2)
		assert.Equal(t, uint32(1234), b.BlockNumber)
		assert.True(t, b.Header().IsHelo())
	})

	t.Run("WordsFollowSequence", func(t *testing.T) {
		b := New(7)
		assert.Equal(t, uint32(4121902178), b.Words[0])
		assert.Equal(t, uint32(3554733390), b.Words[1])
		assert.Equal(t, uint32(2249940812), b.Words[2])
		assert.Equal(t, uint32(0xe0c12e40), b.Words[3])

		x := uint32(7)
		for i, w := range b.Words {
			x = Next(x)
			require.Equal(t, x, w, "word %d", i)
		}
	})

	t.Run("OverwritesPreviousContent", func(t *testing.T) {
		b := New(99)
		b.Words[10] = 0
		b.Magic2 = 0

		b.Fill(5)
		assert.Equal(t, *New(5), *b)
	})

	t.Run("Deterministic", func(t *testing.T) {
		for _, n := range []uint32{0, 1, 7, 400, 1 << 31, 0xFFFFFFFF} {
			first := New(n).Bytes()
			second := New(n).Bytes()
			assert.Equal(t, first, second, "block %d", n)
		}
	})

	t.Run("ZeroIndexProducesZeroWords", func(t *testing.T) {
		b := New(0)
		for _, w := range b.Words {
			assert.Zero(t, w)
		}
		assert.Equal(t, Good, b.Check(nil))
	})
}

// ============================================================================
// Encoding Tests
// ============================================================================

func TestBytes(t *testing.T) {
	t.Run("ReferenceEncoding", func(t *testing.T) {
		data := New(1).Bytes()

		assert.Equal(t, "68656c6f6461746101000000e89a3d6ce32120d5", hex.EncodeToString(data[:20]))
		assert.Equal(t, uint32(0xcb9e5714), binary.LittleEndian.Uint32(data[BlockSize-4:]))
		assert.True(t, bytes.HasPrefix(data[:], []byte("helodata")))
	})

	t.Run("MarshalMatchesBytes", func(t *testing.T) {
		b := New(31337)
		arr := b.Bytes()

		buf, err := b.MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, arr[:], buf)

		appended, err := b.AppendBinary([]byte("xx"))
		require.NoError(t, err)
		assert.Equal(t, []byte("xx"), appended[:2])
		assert.Equal(t, arr[:], appended[2:])
	})
}

func TestDecode(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		for _, n := range []uint32{0, 1, 400, 0xDEADBEEF} {
			orig := New(n)
			data := orig.Bytes()

			decoded, err := Decode(data[:])
			require.NoError(t, err)
			assert.Equal(t, *orig, *decoded)
			assert.Equal(t, data, decoded.Bytes())
		}
	})

	t.Run("ArbitraryBytesRoundTrip", func(t *testing.T) {
		data := make([]byte, BlockSize)
		for i := range data {
			data[i] = byte(i*31 + 7)
		}

		b, err := Decode(data)
		require.NoError(t, err)
		out := b.Bytes()
		assert.Equal(t, data, out[:])
	})

	t.Run("RejectsWrongSize", func(t *testing.T) {
		for _, size := range []int{0, 1, BlockSize - 1, BlockSize + 1, 4096} {
			_, err := Decode(make([]byte, size))
			assert.True(t, errors.Is(err, ErrInvalidSize), "size %d", size)
		}
	})
}

func TestPeekHeader(t *testing.T) {
	data := New(77).Bytes()

	h, err := PeekHeader(data[:])
	require.NoError(t, err)
	assert.Equal(t, uint32(77), h.BlockNumber)
	assert.True(t, h.IsHelo())

	var zero [BlockSize]byte
	h, err = PeekHeader(zero[:])
	require.NoError(t, err)
	assert.False(t, h.IsHelo())

	_, err = PeekHeader(data[:HeaderSize])
	assert.ErrorIs(t, err, ErrInvalidSize)
}
