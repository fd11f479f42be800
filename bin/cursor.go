// Package bin implements the binary primitives shared by the binary encodings
// of each format.
//
// All binary data is little-endian. A Cursor reads values sequentially from a
// buffer held in memory, and a Writer produces the same values in the same
// layout. Strings are prefixed with a 32-bit length, and end with a null
// terminator that is counted by the length.
package bin

import (
	"bytes"
	"math"

	"github.com/anaminus/parse"
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
)

// Cursor reads values from a buffer, advancing through the buffer by the
// width of each value.
//
// The first failed read is retained, after which all reads do nothing and
// return zero values. The error is available through Err.
type Cursor struct {
	data []byte
	r    *bytes.Reader
	fr   *parse.BinaryReader
	err  error
}

// NewCursor returns a Cursor that reads from the beginning of data.
func NewCursor(data []byte) *Cursor {
	r := bytes.NewReader(data)
	return &Cursor{data: data, r: r, fr: parse.NewBinaryReader(r)}
}

// Pos returns the offset of the next byte to be read.
func (c *Cursor) Pos() int64 {
	return int64(len(c.data) - c.r.Len())
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return c.r.Len()
}

// EndOfBuffer returns whether every byte in the buffer has been read.
func (c *Cursor) EndOfBuffer() bool {
	return c.r.Len() == 0
}

// Err returns the error that caused a read to fail, or nil.
func (c *Cursor) Err() error {
	return c.err
}

// Fail sets the error of the cursor to cause, wrapped with the current
// offset, unless an error has already occurred. Returns the error of the
// cursor.
func (c *Cursor) Fail(cause error) error {
	if c.err == nil {
		c.err = errors.DataError{Offset: c.Pos(), Cause: cause}
	}
	return c.err
}

// need checks that n bytes remain. Returns true if the read should not
// proceed.
func (c *Cursor) need(n int64) (failed bool) {
	if c.err != nil {
		return true
	}
	if n < 0 || int64(c.r.Len()) < n {
		c.Fail(errors.ErrBufferExhausted)
		return true
	}
	return false
}

func (c *Cursor) check(failed bool) bool {
	if failed && c.err == nil {
		c.Fail(c.fr.Err())
	}
	return failed
}

// Signature reads the four-byte signature at the start of a file. Returns a
// HeaderError if it does not match sig.
func (c *Cursor) Signature(sig string) error {
	if c.r.Len() < len(sig) {
		return errors.HeaderError{Expected: sig, Sig: string(c.data)}
	}
	if s := c.FixedString(len(sig)); s != sig {
		return errors.HeaderError{Expected: sig, Sig: s}
	}
	return nil
}

// Uint32 reads an unsigned 32-bit integer.
func (c *Cursor) Uint32() (v uint32) {
	if c.need(4) || c.check(c.fr.Number(&v)) {
		return 0
	}
	return v
}

// Int32 reads a signed 32-bit integer.
func (c *Cursor) Int32() (v int32) {
	if c.need(4) || c.check(c.fr.Number(&v)) {
		return 0
	}
	return v
}

// Byte reads a single byte.
func (c *Cursor) Byte() (v uint8) {
	if c.need(1) || c.check(c.fr.Number(&v)) {
		return 0
	}
	return v
}

// Float32 reads a single-precision floating-point number.
func (c *Cursor) Float32() float32 {
	return math.Float32frombits(c.Uint32())
}

// Bytes reads exactly n bytes.
func (c *Cursor) Bytes(n int) []byte {
	if c.need(int64(n)) {
		return nil
	}
	p := make([]byte, n)
	if c.check(c.fr.Bytes(p)) {
		return nil
	}
	return p
}

// FixedString reads exactly n bytes as a string.
func (c *Cursor) FixedString(n int) string {
	return string(c.Bytes(n))
}

// String reads a length-prefixed string. The final byte of the string, which
// is the null terminator, is removed.
func (c *Cursor) String() string {
	n := c.Uint32()
	if c.err != nil {
		return ""
	}
	p := c.Bytes(int(n))
	if len(p) == 0 {
		return ""
	}
	return string(p[:len(p)-1])
}

// Vector2 reads two floats as a present value.
func (c *Cursor) Vector2() calfile.Vector2 {
	x := c.Float32()
	y := c.Float32()
	return calfile.NewVector2(x, y)
}

// Vector3 reads three floats as a present value.
func (c *Cursor) Vector3() calfile.Vector3 {
	x := c.Float32()
	y := c.Float32()
	z := c.Float32()
	return calfile.NewVector3(x, y, z)
}

// Vector4 reads four floats as a present value.
func (c *Cursor) Vector4() calfile.Vector4 {
	x := c.Float32()
	y := c.Float32()
	z := c.Float32()
	w := c.Float32()
	return calfile.NewVector4(x, y, z, w)
}

// Byte4 reads four bytes as a present value.
func (c *Cursor) Byte4() calfile.Byte4 {
	p := c.Bytes(4)
	if p == nil {
		return calfile.Byte4{}
	}
	return calfile.NewByte4(p[0], p[1], p[2], p[3])
}

// Int3 reads three signed integers as a present value.
func (c *Cursor) Int3() calfile.Int3 {
	a := c.Int32()
	b := c.Int32()
	d := c.Int32()
	return calfile.NewInt3(a, b, d)
}
