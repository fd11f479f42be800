package bin

import (
	"bytes"
	"math"

	"github.com/anaminus/parse"
	"github.com/cal3dapi/calfile"
)

// Writer writes values in the layout read by a Cursor. Like Cursor, the
// first error is retained and subsequent writes do nothing.
type Writer struct {
	buf bytes.Buffer
	fw  *parse.BinaryWriter
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	w := &Writer{}
	w.fw = parse.NewBinaryWriter(&w.buf)
	return w
}

// Bytes returns the data written so far.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Err returns the error that caused a write to fail, or nil.
func (w *Writer) Err() error {
	return w.fw.Err()
}

// End returns the written data, and the first error that occurred.
func (w *Writer) End() ([]byte, error) {
	if _, err := w.fw.End(); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

func (w *Writer) Uint32(v uint32) {
	w.fw.Number(v)
}

func (w *Writer) Int32(v int32) {
	w.fw.Number(v)
}

func (w *Writer) Byte(v uint8) {
	w.fw.Number(v)
}

func (w *Writer) Float32(v float32) {
	w.fw.Number(math.Float32bits(v))
}

// Raw writes p without a length prefix.
func (w *Writer) Raw(p []byte) {
	w.fw.Bytes(p)
}

// String writes s with a length prefix and a null terminator.
func (w *Writer) String(s string) {
	if w.fw.Number(uint32(len(s) + 1)) {
		return
	}
	if w.fw.Bytes([]byte(s)) {
		return
	}
	w.fw.Number(uint8(0))
}

// Vector2 writes the components of v. Absent values are written as zero.
func (w *Writer) Vector2(v calfile.Vector2) {
	if !v.Present {
		v = calfile.Vector2{}
	}
	w.Float32(v.X)
	w.Float32(v.Y)
}

// Vector3 writes the components of v. Absent values are written as zero.
func (w *Writer) Vector3(v calfile.Vector3) {
	if !v.Present {
		v = calfile.Vector3{}
	}
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Z)
}

// Vector4 writes the components of v. Absent values are written as zero.
func (w *Writer) Vector4(v calfile.Vector4) {
	if !v.Present {
		v = calfile.Vector4{}
	}
	w.Float32(v.X)
	w.Float32(v.Y)
	w.Float32(v.Z)
	w.Float32(v.W)
}

// Byte4 writes the channels of v. Absent values are written as zero.
func (w *Writer) Byte4(v calfile.Byte4) {
	if !v.Present {
		v = calfile.Byte4{}
	}
	w.fw.Bytes([]byte{v.R, v.G, v.B, v.A})
}

// Int3 writes the components of v. Absent values are written as zero.
func (w *Writer) Int3(v calfile.Int3) {
	if !v.Present {
		v = calfile.Int3{}
	}
	w.Int32(v.A)
	w.Int32(v.B)
	w.Int32(v.C)
}
