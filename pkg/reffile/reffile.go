// Package reffile reads and writes reference files: flat streams of
// consecutive helo blocks with no header or trailer.
//
// A reference file of DefaultCount blocks starting at zero is byte-identical
// to the data.dat produced by earlier helo tooling, so either side can be used
// to check the other.
//
// Usage:
//
//	f, _ := os.Create(reffile.DefaultFileName)
//	n, err := reffile.Write(f, 0, reffile.DefaultCount)
//
//	tally, err := reffile.Verify(f, logger.Reporter())
package reffile

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/marmos91/helocheck/pkg/helo"
)

const (
	// DefaultFileName is the conventional reference file name.
	DefaultFileName = "data.dat"

	// DefaultCount is the conventional number of blocks in a reference file.
	DefaultCount = 400

	// writeBatch is the number of blocks buffered between writes.
	writeBatch = 64
)

var (
	// ErrTrailingBytes is returned when a stream ends inside a block.
	ErrTrailingBytes = fmt.Errorf("%w: trailing partial block", helo.ErrInvalidSize)

	// ErrRange is returned when start+count overflows the 32-bit block number.
	ErrRange = errors.New("block range overflows 32-bit block numbers")
)

// countingWriter tracks the bytes that actually reached the underlying writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Write streams count consecutive blocks numbered from start to w and returns
// the number of bytes written.
func Write(w io.Writer, start, count uint32) (int64, error) {
	if uint64(start)+uint64(count) > 1<<32 {
		return 0, fmt.Errorf("%w: start %d, count %d", ErrRange, start, count)
	}

	cw := &countingWriter{w: w}
	bw := bufio.NewWriterSize(cw, writeBatch*helo.BlockSize)

	var b helo.Block
	buf := make([]byte, 0, helo.BlockSize)
	for i := range count {
		b.Fill(start + i)
		buf, _ = b.AppendBinary(buf[:0])
		if _, err := bw.Write(buf); err != nil {
			return cw.n, fmt.Errorf("write block %d: %w", start+i, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return cw.n, fmt.Errorf("flush: %w", err)
	}
	return cw.n, nil
}

// Reader decodes consecutive blocks from a stream.
type Reader struct {
	r   io.Reader
	buf [helo.BlockSize]byte
	pos uint64
}

// NewReader returns a Reader reading from r. Callers wanting buffering should
// wrap r themselves.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Next decodes the next block. It returns io.EOF at a clean end of stream and
// an error wrapping ErrTrailingBytes when the stream ends inside a block.
func (r *Reader) Next() (*helo.Block, error) {
	n, err := io.ReadFull(r.r, r.buf[:])
	switch {
	case errors.Is(err, io.EOF):
		return nil, io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: %d bytes after block %d", ErrTrailingBytes, n, r.pos)
	case err != nil:
		return nil, fmt.Errorf("read block %d: %w", r.pos, err)
	}

	b, err := helo.Decode(r.buf[:])
	if err != nil {
		return nil, err
	}
	r.pos++
	return b, nil
}

// Position returns the number of blocks decoded so far.
func (r *Reader) Position() uint64 {
	return r.pos
}
