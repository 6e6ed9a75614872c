package helo

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ============================================================================
// Layout Constants
// ============================================================================

const (
	// BlockSize is the encoded size of a block in bytes.
	// It matches the native block size of SD cards and most flash media.
	BlockSize = 512

	// Magic1 is "helo" read as a little-endian uint32.
	Magic1 uint32 = 0x6f6c6568

	// Magic2 is "data" read as a little-endian uint32.
	Magic2 uint32 = 0x61746164

	// HeaderSize is the size of magic1, magic2 and block_number.
	HeaderSize = 12

	// WordCount is the number of generated words following the header.
	WordCount = BlockSize/4 - 3
)

// ErrInvalidSize is returned when decoding a buffer that is not exactly
// BlockSize bytes long.
var ErrInvalidSize = errors.New("helo: buffer is not block sized")

// ============================================================================
// Block
// ============================================================================

// Block is the structured view of a BlockSize byte block.
//
// The zero value is a valid block that checks as NotHelo.
type Block struct {
	Magic1      uint32
	Magic2      uint32
	BlockNumber uint32
	Words       [WordCount]uint32
}

// Header is the fixed prefix of a block.
type Header struct {
	Magic1      uint32
	Magic2      uint32
	BlockNumber uint32
}

// IsHelo reports whether both magic constants match.
func (h Header) IsHelo() bool {
	return h.Magic1 == Magic1 && h.Magic2 == Magic2
}

// New returns a block filled for index n.
func New(n uint32) *Block {
	b := new(Block)
	b.Fill(n)
	return b
}

// Fill overwrites every field of b with the block for index n.
//
// Words[i] holds the (i+1)-th application of Next seeded with n. Each word
// depends on the previous one, so a block is always generated front to back.
func (b *Block) Fill(n uint32) {
	b.Magic1 = Magic1
	b.Magic2 = Magic2
	b.BlockNumber = n

	x := n
	for i := range b.Words {
		x = Next(x)
		b.Words[i] = x
	}
}

// Header returns the block's header fields.
func (b *Block) Header() Header {
	return Header{Magic1: b.Magic1, Magic2: b.Magic2, BlockNumber: b.BlockNumber}
}

// ============================================================================
// Encoding
// ============================================================================

// Bytes returns the little-endian encoding of b.
func (b *Block) Bytes() [BlockSize]byte {
	var out [BlockSize]byte
	b.encode(out[:])
	return out
}

// AppendBinary appends the encoding of b to dst.
func (b *Block) AppendBinary(dst []byte) ([]byte, error) {
	n := len(dst)
	dst = append(dst, make([]byte, BlockSize)...)
	b.encode(dst[n:])
	return dst, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (b *Block) MarshalBinary() ([]byte, error) {
	buf := make([]byte, BlockSize)
	b.encode(buf)
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
// data must be exactly BlockSize bytes; any content is accepted.
func (b *Block) UnmarshalBinary(data []byte) error {
	if len(data) != BlockSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSize, len(data), BlockSize)
	}

	b.Magic1 = binary.LittleEndian.Uint32(data[0:4])
	b.Magic2 = binary.LittleEndian.Uint32(data[4:8])
	b.BlockNumber = binary.LittleEndian.Uint32(data[8:12])
	for i := range b.Words {
		off := HeaderSize + i*4
		b.Words[i] = binary.LittleEndian.Uint32(data[off : off+4])
	}
	return nil
}

// Decode returns the block encoded in data.
func Decode(data []byte) (*Block, error) {
	b := new(Block)
	if err := b.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return b, nil
}

// PeekHeader decodes only the header of an encoded block.
func PeekHeader(data []byte) (Header, error) {
	if len(data) != BlockSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSize, len(data), BlockSize)
	}
	return Header{
		Magic1:      binary.LittleEndian.Uint32(data[0:4]),
		Magic2:      binary.LittleEndian.Uint32(data[4:8]),
		BlockNumber: binary.LittleEndian.Uint32(data[8:12]),
	}, nil
}

// encode writes b into buf, which must hold at least BlockSize bytes.
func (b *Block) encode(buf []byte) {
	_ = buf[BlockSize-1]

	binary.LittleEndian.PutUint32(buf[0:4], b.Magic1)
	binary.LittleEndian.PutUint32(buf[4:8], b.Magic2)
	binary.LittleEndian.PutUint32(buf[8:12], b.BlockNumber)
	for i, w := range b.Words {
		off := HeaderSize + i*4
		binary.LittleEndian.PutUint32(buf[off:off+4], w)
	}
}
