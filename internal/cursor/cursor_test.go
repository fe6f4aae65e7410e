package cursor

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestReads(t *testing.T) {
	c := New([]byte{
		0xCA,
		0xFE, 0xBA,
		0xDE, 0xAD, 0xBE, 0xEF,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x02,
		0x10, 0x20, 0x30,
	})

	u8, err := c.U8()
	assert.NoError(t, err)
	assert.Equal(t, uint8(0xCA), u8)

	u16, err := c.U16()
	assert.NoError(t, err)
	assert.Equal(t, uint16(0xFEBA), u16)

	u32, err := c.U32()
	assert.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), u32)

	u64, err := c.U64()
	assert.NoError(t, err)
	assert.Equal(t, uint64(0x0102), u64)
	assert.Equal(t, 15, c.Offset())

	b, err := c.Bytes(2)
	assert.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x20}, b)
	assert.Equal(t, 1, c.Remaining())

	assert.NoError(t, c.Skip(1))
	assert.Equal(t, 0, c.Remaining())
}

func TestBytesDoesNotAlias(t *testing.T) {
	data := []byte{1, 2, 3}
	c := New(data)

	b, err := c.Bytes(3)
	assert.NoError(t, err)
	b[0] = 9
	assert.Equal(t, byte(1), data[0])
}

func TestTruncated(t *testing.T) {
	tests := []struct {
		name string
		read func(c *Cursor) error
	}{
		{"u8", func(c *Cursor) error { _, err := c.U8(); return err }},
		{"u16", func(c *Cursor) error { _, err := c.U16(); return err }},
		{"u32", func(c *Cursor) error { _, err := c.U32(); return err }},
		{"u64", func(c *Cursor) error { _, err := c.U64(); return err }},
		{"bytes", func(c *Cursor) error { _, err := c.Bytes(2); return err }},
		{"skip", func(c *Cursor) error { return c.Skip(5) }},
		{"negative", func(c *Cursor) error { return c.Skip(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New([]byte{0xAA})
			assert.NoError(t, c.Skip(1))

			err := tt.read(c)
			assert.Error(t, err)
			assert.True(t, errors.Is(err, ErrTruncated))

			var truncErr *TruncatedError
			assert.True(t, errors.As(err, &truncErr))
			assert.Equal(t, 1, truncErr.Offset)
			assert.Equal(t, 0, truncErr.Remaining)
			assert.Equal(t, 1, c.Offset())
		})
	}
}
