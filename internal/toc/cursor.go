package toc

import (
	"errors"
	"fmt"
	"io"
)

// cursor is a sequential read position over a random-access TOC stream.
type cursor struct {
	r    io.ReaderAt
	size int64
	pos  int64
	buf  [4]byte
}

func newCursor(r io.ReaderAt, size int64) *cursor {
	return &cursor{r: r, size: size}
}

func (c *cursor) remaining() int64 { return c.size - c.pos }

// read fills p or fails with ErrTruncatedInput without moving the cursor.
func (c *cursor) read(p []byte) error {
	if int64(len(p)) > c.remaining() {
		return fmt.Errorf("%w: need %d bytes at 0x%X, %d left", ErrTruncatedInput, len(p), c.pos, c.remaining())
	}
	n, err := c.r.ReadAt(p, c.pos)
	if n < len(p) {
		if err == nil || errors.Is(err, io.EOF) {
			err = ErrTruncatedInput
		}
		return fmt.Errorf("read %d bytes at 0x%X: %w", len(p), c.pos, err)
	}
	c.pos += int64(n)
	return nil
}

func (c *cursor) u32(order ByteOrder) (uint32, error) {
	if err := c.read(c.buf[:4]); err != nil {
		return 0, err
	}
	return order.binary().Uint32(c.buf[:4]), nil
}

func (c *cursor) u16(order ByteOrder) (uint16, error) {
	if err := c.read(c.buf[:2]); err != nil {
		return 0, err
	}
	return order.binary().Uint16(c.buf[:2]), nil
}

// tag reads 4 raw bytes; tags are never byte-swapped.
func (c *cursor) tag() ([4]byte, error) {
	var t [4]byte
	err := c.read(t[:])
	return t, err
}

func (c *cursor) bytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if err := c.read(b); err != nil {
		return nil, err
	}
	return b, nil
}

func (c *cursor) skip(n int64) error {
	if n > c.remaining() {
		return fmt.Errorf("%w: skip %d bytes at 0x%X, %d left", ErrTruncatedInput, n, c.pos, c.remaining())
	}
	c.pos += n
	return nil
}

func (c *cursor) rewind(n int64) {
	c.pos -= n
	if c.pos < 0 {
		c.pos = 0
	}
}
