package calfile

import (
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// FormatFloat returns the textual form of a single-precision number as it
// appears in markup files. The shortest representation that round-trips is
// used. Numbers with a large or small magnitude are written in exponent form,
// with a sign and at least two exponent digits (e.g. "1E+10", "2.5E-06").
func FormatFloat(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}
	s := strconv.FormatFloat(f, 'E', -1, 32)
	i := strings.IndexByte(s, 'E')
	exp, _ := strconv.Atoi(s[i+1:])
	if exp >= 9 || exp <= -5 {
		return s
	}
	return strconv.FormatFloat(f, 'f', -1, 32)
}

// FormatInt returns the textual form of an integer.
func FormatInt[T int32 | uint32 | int](v T) string {
	return strconv.FormatInt(int64(v), 10)
}

// isNumber reports whether s contains only characters permitted in a decimal
// number with optional sign and exponent.
func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
		case c == '.', c == '+', c == '-', c == 'e', c == 'E':
		default:
			return false
		}
	}
	return true
}

func tryFloat(s string) (float32, bool) {
	switch s {
	case "NaN":
		return float32(math.NaN()), true
	case "Infinity":
		return float32(math.Inf(1)), true
	case "-Infinity":
		return float32(math.Inf(-1)), true
	}
	if !isNumber(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, false
	}
	return float32(v), true
}

func tryInt(s string) (int32, bool) {
	v, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return int32(v), true
}

func tryByte(s string) (uint8, bool) {
	v, err := strconv.ParseUint(s, 10, 8)
	if err != nil {
		return 0, false
	}
	return uint8(v), true
}

// ParseFloat parses a number. Surrounding whitespace is ignored. The
// non-finite forms written by FormatFloat are accepted. Text that is not a
// number produces zero.
func ParseFloat(s string) float32 {
	v, _ := tryFloat(strings.TrimSpace(s))
	return v
}

// ParseInt parses a 32-bit integer. Surrounding whitespace is ignored. Text
// that is not an integer produces zero.
func ParseInt(s string) int32 {
	v, _ := tryInt(strings.TrimSpace(s))
	return v
}

// parseTuple splits s into whitespace-separated fields and converts the first
// n of them. The result is not ok if s has fewer than n fields, or if any of
// the converted fields is malformed. Fields beyond n are ignored.
func parseTuple[T any](s string, n int, conv func(string) (T, bool)) (v []T, ok bool) {
	fields := strings.Fields(s)
	if len(fields) < n {
		return nil, false
	}
	v = make([]T, n)
	for i := range v {
		if v[i], ok = conv(fields[i]); !ok {
			return nil, false
		}
	}
	return v, true
}

// formatTuple joins the formatted components of a tuple with spaces.
func formatTuple[T any](format func(T) string, v ...T) string {
	var s strings.Builder
	for i, c := range v {
		if i > 0 {
			s.WriteByte(' ')
		}
		s.WriteString(format(c))
	}
	return s.String()
}

////////////////////////////////////////////////////////////////

// Vector2 is a pair of numbers, typically a texture coordinate.
type Vector2 struct {
	X, Y float32

	// Present indicates whether the value was specified. A value that is not
	// present formats to an empty string.
	Present bool
}

// NewVector2 returns a present Vector2.
func NewVector2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y, Present: true}
}

// ParseVector2 parses two whitespace-separated numbers. The result is not
// present if s is blank or malformed.
func ParseVector2(s string) (v Vector2) {
	c, ok := parseTuple(s, 2, tryFloat)
	if !ok {
		return v
	}
	return NewVector2(c[0], c[1])
}

func (v Vector2) String() string {
	if !v.Present {
		return ""
	}
	return formatTuple(FormatFloat, v.X, v.Y)
}

// Vector3 is a triple of numbers, used for positions, normals, translations
// and colors.
type Vector3 struct {
	X, Y, Z float32

	// Present indicates whether the value was specified. A value that is not
	// present formats to an empty string.
	Present bool
}

// NewVector3 returns a present Vector3.
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z, Present: true}
}

// ParseVector3 parses three whitespace-separated numbers. The result is not
// present if s is blank or malformed.
func ParseVector3(s string) (v Vector3) {
	c, ok := parseTuple(s, 3, tryFloat)
	if !ok {
		return v
	}
	return NewVector3(c[0], c[1], c[2])
}

func (v Vector3) String() string {
	if !v.Present {
		return ""
	}
	return formatTuple(FormatFloat, v.X, v.Y, v.Z)
}

// Vec3 converts v to a mathgl vector, regardless of presence.
func (v Vector3) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{v.X, v.Y, v.Z}
}

// Distance returns the magnitude of the difference between v and u. The
// caller is responsible for checking that both values are present.
func (v Vector3) Distance(u Vector3) float32 {
	return v.Vec3().Sub(u.Vec3()).Len()
}

// Vector4 is a quadruple of numbers, typically a rotation quaternion.
type Vector4 struct {
	X, Y, Z, W float32

	// Present indicates whether the value was specified. A value that is not
	// present formats to an empty string.
	Present bool
}

// NewVector4 returns a present Vector4.
func NewVector4(x, y, z, w float32) Vector4 {
	return Vector4{X: x, Y: y, Z: z, W: w, Present: true}
}

// ParseVector4 parses four whitespace-separated numbers. The result is not
// present if s is blank or malformed.
func ParseVector4(s string) (v Vector4) {
	c, ok := parseTuple(s, 4, tryFloat)
	if !ok {
		return v
	}
	return NewVector4(c[0], c[1], c[2], c[3])
}

func (v Vector4) String() string {
	if !v.Present {
		return ""
	}
	return formatTuple(FormatFloat, v.X, v.Y, v.Z, v.W)
}

// Byte4 is a color with four 8-bit channels.
type Byte4 struct {
	R, G, B, A uint8

	// Present indicates whether the value was specified. A value that is not
	// present formats to an empty string.
	Present bool
}

// NewByte4 returns a present Byte4.
func NewByte4(r, g, b, a uint8) Byte4 {
	return Byte4{R: r, G: g, B: b, A: a, Present: true}
}

// ParseByte4 parses four whitespace-separated integers in the range 0-255.
// The result is not present if s is blank or malformed.
func ParseByte4(s string) (v Byte4) {
	c, ok := parseTuple(s, 4, tryByte)
	if !ok {
		return v
	}
	return NewByte4(c[0], c[1], c[2], c[3])
}

func (v Byte4) String() string {
	if !v.Present {
		return ""
	}
	return formatTuple(func(b uint8) string { return strconv.Itoa(int(b)) }, v.R, v.G, v.B, v.A)
}

// Int3 is a triple of integers, typically the vertex indices of a face.
type Int3 struct {
	A, B, C int32

	// Present indicates whether the value was specified. A value that is not
	// present formats to an empty string.
	Present bool
}

// NewInt3 returns a present Int3.
func NewInt3(a, b, c int32) Int3 {
	return Int3{A: a, B: b, C: c, Present: true}
}

// ParseInt3 parses three whitespace-separated integers. The result is not
// present if s is blank or malformed.
func ParseInt3(s string) (v Int3) {
	c, ok := parseTuple(s, 3, tryInt)
	if !ok {
		return v
	}
	return NewInt3(c[0], c[1], c[2])
}

func (v Int3) String() string {
	if !v.Present {
		return ""
	}
	return formatTuple(FormatInt[int32], v.A, v.B, v.C)
}

// Indices returns the components of v as a list. If reverseWinding is true,
// the last two components are swapped.
func (v Int3) Indices(reverseWinding bool) []int32 {
	if reverseWinding {
		return []int32{v.A, v.C, v.B}
	}
	return []int32{v.A, v.B, v.C}
}
