// Package cursor implements a forward only big-endian reader over a byte buffer.
package cursor

import (
	"encoding/binary"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

// ErrTruncated is returned when a read would go past the end of the buffer.
var ErrTruncated = errors.New("truncated input")

// TruncatedError describes a read that could not be satisfied by the remaining input.
type TruncatedError struct {
	Offset    int // offset of the failed read
	Want      int // number of bytes requested
	Remaining int // number of bytes left in the buffer
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s: reading %d bytes at offset %d, %d remaining",
		ErrTruncated, e.Want, e.Offset, e.Remaining)
}

// Unwrap allows errors.Is(err, ErrTruncated).
func (e *TruncatedError) Unwrap() error {
	return ErrTruncated
}

// Cursor reads sequentially from an owned buffer.
type Cursor struct {
	data   []byte
	offset int
}

// New returns a cursor positioned at the start of data.
func New(data []byte) *Cursor {
	return &Cursor{data: data}
}

// Offset returns the number of bytes consumed so far.
func (c *Cursor) Offset() int {
	return c.offset
}

// Remaining returns the number of unread bytes.
func (c *Cursor) Remaining() int {
	return len(c.data) - c.offset
}

// U8 reads an unsigned byte.
func (c *Cursor) U8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// U16 reads an unsigned big-endian 16 bit value.
func (c *Cursor) U16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

// U32 reads an unsigned big-endian 32 bit value.
func (c *Cursor) U32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// U64 reads an unsigned big-endian 64 bit value.
func (c *Cursor) U64() (uint64, error) {
	b, err := c.take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// Bytes reads n bytes and returns a copy that does not alias the buffer.
func (c *Cursor) Bytes(n int) ([]byte, error) {
	b, err := c.take(n)
	if err != nil {
		return nil, err
	}
	return slices.Clone(b), nil
}

// Skip advances the cursor by n bytes.
func (c *Cursor) Skip(n int) error {
	_, err := c.take(n)
	return err
}

func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, &TruncatedError{
			Offset:    c.offset,
			Want:      n,
			Remaining: c.Remaining(),
		}
	}
	b := c.data[c.offset : c.offset+n]
	c.offset += n
	return b, nil
}
