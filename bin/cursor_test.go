package bin

import (
	"testing"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
)

func TestCursorReads(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x00, 0x00, // uint32 1
		0xFF, 0xFF, 0xFF, 0xFF, // int32 -1
		0x7F,                   // byte
		0x00, 0x00, 0x80, 0x3F, // float 1.0
		0x03, 0x00, 0x00, 0x00, 'a', 'b', 0x00, // string "ab"
	}
	c := NewCursor(data)
	if v := c.Uint32(); v != 1 {
		t.Errorf("Uint32: expected 1, got %d", v)
	}
	if v := c.Int32(); v != -1 {
		t.Errorf("Int32: expected -1, got %d", v)
	}
	if v := c.Byte(); v != 0x7F {
		t.Errorf("Byte: expected 127, got %d", v)
	}
	if p := c.Pos(); p != 9 {
		t.Errorf("Pos: expected 9, got %d", p)
	}
	if v := c.Float32(); v != 1 {
		t.Errorf("Float32: expected 1, got %v", v)
	}
	if c.EndOfBuffer() {
		t.Error("unexpected end of buffer")
	}
	if v := c.String(); v != "ab" {
		t.Errorf("String: expected %q, got %q", "ab", v)
	}
	if !c.EndOfBuffer() {
		t.Error("expected end of buffer")
	}
	if err := c.Err(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCursorExhausted(t *testing.T) {
	c := NewCursor([]byte{1, 2, 3, 4, 5, 6})
	c.Uint32()
	if v := c.Uint32(); v != 0 {
		t.Errorf("expected zero value from failed read, got %d", v)
	}
	err := c.Err()
	if !errors.Is(err, errors.ErrBufferExhausted) {
		t.Fatalf("expected ErrBufferExhausted, got %v", err)
	}
	var derr errors.DataError
	if !errors.As(err, &derr) || derr.Offset != 4 {
		t.Errorf("expected error at offset 4, got %v", err)
	}

	// The cursor does not advance after a failure.
	if v := c.Byte(); v != 0 {
		t.Errorf("expected zero value after failure, got %d", v)
	}
	if p := c.Pos(); p != 4 {
		t.Errorf("expected position 4, got %d", p)
	}
}

func TestCursorStringTooLong(t *testing.T) {
	c := NewCursor([]byte{0xFF, 0xFF, 0xFF, 0x7F, 'a'})
	if s := c.String(); s != "" {
		t.Errorf("expected empty string, got %q", s)
	}
	if !errors.Is(c.Err(), errors.ErrBufferExhausted) {
		t.Errorf("expected ErrBufferExhausted, got %v", c.Err())
	}
}

func TestCursorFixedString(t *testing.T) {
	c := NewCursor([]byte("CSF\x00rest"))
	if s := c.FixedString(4); s != "CSF\x00" {
		t.Errorf("unexpected signature %q", s)
	}
	if n := c.Len(); n != 4 {
		t.Errorf("expected 4 remaining bytes, got %d", n)
	}
}

func TestWriterRoundTrip(t *testing.T) {
	w := NewWriter()
	w.Raw([]byte("CMF\x00"))
	w.Uint32(700)
	w.Int32(-5)
	w.Byte(9)
	w.Float32(0.25)
	w.String("name")
	w.Vector2(calfile.NewVector2(1, 2))
	w.Vector3(calfile.NewVector3(3, 4, 5))
	w.Vector4(calfile.Vector4{X: 9})
	w.Byte4(calfile.NewByte4(1, 2, 3, 4))
	w.Int3(calfile.NewInt3(7, 8, 9))
	data, err := w.End()
	if err != nil {
		t.Fatal(err)
	}

	c := NewCursor(data)
	if s := c.FixedString(4); s != "CMF\x00" {
		t.Errorf("unexpected signature %q", s)
	}
	if v := c.Uint32(); v != 700 {
		t.Errorf("expected 700, got %d", v)
	}
	if v := c.Int32(); v != -5 {
		t.Errorf("expected -5, got %d", v)
	}
	if v := c.Byte(); v != 9 {
		t.Errorf("expected 9, got %d", v)
	}
	if v := c.Float32(); v != 0.25 {
		t.Errorf("expected 0.25, got %v", v)
	}
	if v := c.String(); v != "name" {
		t.Errorf("expected %q, got %q", "name", v)
	}
	if v := c.Vector2(); v != calfile.NewVector2(1, 2) {
		t.Errorf("unexpected Vector2 %v", v)
	}
	if v := c.Vector3(); v != calfile.NewVector3(3, 4, 5) {
		t.Errorf("unexpected Vector3 %v", v)
	}
	// Absent values are written as zero and read back as present.
	if v := c.Vector4(); v != calfile.NewVector4(0, 0, 0, 0) {
		t.Errorf("unexpected Vector4 %v", v)
	}
	if v := c.Byte4(); v != calfile.NewByte4(1, 2, 3, 4) {
		t.Errorf("unexpected Byte4 %v", v)
	}
	if v := c.Int3(); v != calfile.NewInt3(7, 8, 9) {
		t.Errorf("unexpected Int3 %v", v)
	}
	if !c.EndOfBuffer() {
		t.Errorf("expected end of buffer, %d bytes remain", c.Len())
	}
	if err := c.Err(); err != nil {
		t.Error(err)
	}
}

func TestCursorSignature(t *testing.T) {
	if err := NewCursor([]byte("CAF\x00")).Signature("CAF\x00"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	for _, data := range []string{"XYZ\x00", "CA", ""} {
		err := NewCursor([]byte(data)).Signature("CAF\x00")
		if !errors.Is(err, errors.ErrMalformedHeader) {
			t.Errorf("%q: expected ErrMalformedHeader, got %v", data, err)
		}
	}
}
