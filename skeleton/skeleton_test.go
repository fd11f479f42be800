package skeleton_test

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/skeleton"
)

func newSkeleton(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	s := skeleton.New()
	s.SceneAmbientColor = calfile.NewVector3(1, 1, 1)
	bones := []*skeleton.Bone{
		{ID: 0, Name: "root", ParentID: -1, Translation: calfile.NewVector3(0, 0, 0), Rotation: calfile.NewVector4(0, 0, 0, 1)},
		{ID: 1, Name: "arm", ParentID: 0, LocalTranslation: calfile.NewVector3(1, 0.5, 0)},
		{ID: 2, Name: "leg", ParentID: 0},
		{ID: 3, Name: "hand", ParentID: 1, LocalRotation: calfile.NewVector4(0, 1, 0, 0)},
	}
	for _, b := range bones {
		if err := s.Add(b); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func boneIDs(bones []*skeleton.Bone) []int32 {
	ids := make([]int32, len(bones))
	for i, b := range bones {
		ids[i] = b.ID
	}
	return ids
}

func equalIDs(a, b []int32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHierarchy(t *testing.T) {
	s := newSkeleton(t)
	if s.Len() != 4 {
		t.Fatalf("expected 4 bones, got %d", s.Len())
	}
	if r := s.Root(); r == nil || r.Name != "root" {
		t.Errorf("unexpected root %+v", r)
	}
	if ids := boneIDs(s.Roots()); !equalIDs(ids, []int32{0}) {
		t.Errorf("unexpected roots %v", ids)
	}
	if ids := boneIDs(s.Children(0)); !equalIDs(ids, []int32{1, 2}) {
		t.Errorf("unexpected children %v", ids)
	}
	if ids := boneIDs(s.Children(2)); len(ids) != 0 {
		t.Errorf("expected no children, got %v", ids)
	}
	if p := s.Parent(3); p == nil || p.ID != 1 {
		t.Errorf("unexpected parent %+v", p)
	}
	if p := s.Parent(0); p != nil {
		t.Errorf("expected no parent, got %+v", p)
	}
	if b := s.Bone(9); b != nil {
		t.Errorf("expected no bone, got %+v", b)
	}

	var order []int32
	var depths []int
	s.Walk(func(b *skeleton.Bone, depth int) bool {
		order = append(order, b.ID)
		depths = append(depths, depth)
		return true
	})
	if !equalIDs(order, []int32{0, 1, 3, 2}) {
		t.Errorf("unexpected walk order %v", order)
	}
	if depths[2] != 2 {
		t.Errorf("unexpected depth %d for hand", depths[2])
	}

	order = order[:0]
	s.Walk(func(b *skeleton.Bone, depth int) bool {
		order = append(order, b.ID)
		return b.ID != 1
	})
	if !equalIDs(order, []int32{0, 1, 2}) {
		t.Errorf("unexpected pruned walk order %v", order)
	}
}

func TestAddErrors(t *testing.T) {
	s := skeleton.New()
	if err := s.Add(&skeleton.Bone{ID: 1, ParentID: 0}); !errors.Is(err, errors.ErrUnresolvedParent) {
		t.Errorf("expected ErrUnresolvedParent, got %v", err)
	}
	if err := s.Add(&skeleton.Bone{ID: 0, ParentID: -1}); err != nil {
		t.Fatal(err)
	}
	if err := s.Add(&skeleton.Bone{ID: 0, ParentID: -1}); !errors.Is(err, errors.ErrDuplicateBone) {
		t.Errorf("expected ErrDuplicateBone, got %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("failed additions should not add bones, got %d", s.Len())
	}
}

const canonical = "<HEADER MAGIC=\"XSF\" VERSION=\"919\" />\r\n" +
	"<SKELETON NUMBONES=\"4\" SCENEAMBIENTCOLOR=\"1 1 1\">\r\n" +
	"\t<BONE NAME=\"root\" NUMCHILDS=\"2\" ID=\"0\">\r\n" +
	"\t\t<TRANSLATION>0 0 0</TRANSLATION>\r\n" +
	"\t\t<ROTATION>0 0 0 1</ROTATION>\r\n" +
	"\t\t<PARENTID>-1</PARENTID>\r\n" +
	"\t\t<CHILDID>1</CHILDID>\r\n" +
	"\t\t<CHILDID>2</CHILDID>\r\n" +
	"\t</BONE>\r\n" +
	"\t<BONE NAME=\"arm\" NUMCHILDS=\"1\" ID=\"1\">\r\n" +
	"\t\t<LOCALTRANSLATION>1 0.5 0</LOCALTRANSLATION>\r\n" +
	"\t\t<PARENTID>0</PARENTID>\r\n" +
	"\t\t<CHILDID>3</CHILDID>\r\n" +
	"\t</BONE>\r\n" +
	"\t<BONE NAME=\"leg\" NUMCHILDS=\"0\" ID=\"2\">\r\n" +
	"\t\t<PARENTID>0</PARENTID>\r\n" +
	"\t</BONE>\r\n" +
	"\t<BONE NAME=\"hand\" NUMCHILDS=\"0\" ID=\"3\">\r\n" +
	"\t\t<LOCALROTATION>0 1 0 0</LOCALROTATION>\r\n" +
	"\t\t<PARENTID>1</PARENTID>\r\n" +
	"\t</BONE>\r\n" +
	"</SKELETON>"

func TestCanonicalText(t *testing.T) {
	s := newSkeleton(t)
	if text := s.CanonicalText(); text != canonical {
		t.Errorf("unexpected canonical text:\n%q\nexpected:\n%q", text, canonical)
	}
	var buf bytes.Buffer
	if err := skeleton.Encode(&buf, s); err != nil {
		t.Fatal(err)
	}
	if buf.String() != canonical {
		t.Error("Encode does not match CanonicalText")
	}
}

func TestDecodeMarkup(t *testing.T) {
	s, warn, err := skeleton.Decode([]byte(canonical))
	if err != nil {
		t.Fatal(err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %v", warn)
	}
	if s.Len() != 4 {
		t.Fatalf("expected 4 bones, got %d", s.Len())
	}
	arm := s.Bone(1)
	if arm.Translation.Present || arm.Rotation.Present {
		t.Error("expected absent translation and rotation")
	}
	if arm.LocalTranslation != calfile.NewVector3(1, 0.5, 0) {
		t.Errorf("unexpected local translation %v", arm.LocalTranslation)
	}
	if text := s.CanonicalText(); text != canonical {
		t.Errorf("markup did not round trip:\n%q", text)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	data, err := skeleton.EncodeBinary(newSkeleton(t))
	if err != nil {
		t.Fatal(err)
	}
	s, warn, err := skeleton.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if warn != nil {
		t.Errorf("unexpected warning: %v", warn)
	}
	// Every value in the binary encoding is present.
	root := s.Root()
	if !root.LocalTranslation.Present || root.LocalTranslation != calfile.NewVector3(0, 0, 0) {
		t.Errorf("unexpected local translation %v", root.LocalTranslation)
	}
	if ids := boneIDs(s.Children(0)); !equalIDs(ids, []int32{1, 2}) {
		t.Errorf("unexpected children %v", ids)
	}
	if p := s.Parent(3); p == nil || p.Name != "arm" {
		t.Errorf("unexpected parent %+v", p)
	}

	// Markup decoded from the canonical text is the same model.
	m, _, err := skeleton.DecodeMarkup(s.CanonicalText())
	if err != nil {
		t.Fatal(err)
	}
	if m.CanonicalText() != s.CanonicalText() {
		t.Error("binary model did not round trip through markup")
	}
}

func TestReservedBlock(t *testing.T) {
	s := skeleton.New()
	s.Add(&skeleton.Bone{ID: 0, Name: "a", ParentID: -1})
	data, err := skeleton.EncodeBinary(s)
	if err != nil {
		t.Fatal(err)
	}
	// Header is 28 bytes; the bone name, transforms and parent take 66.
	const offset = 94
	data[offset] = 1
	s, warn, err := skeleton.DecodeBinary(data)
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != 1 {
		t.Errorf("expected bone to be decoded, got %d", s.Len())
	}
	var rerr errors.ReservedError
	if !errors.As(warn, &rerr) {
		t.Fatalf("expected ReservedError, got %v", warn)
	}
	if rerr.Offset != offset || rerr.Uints[0] != 1 || rerr.BoneID != 0 {
		t.Errorf("unexpected warning %+v", rerr)
	}
	if !errors.Is(warn, errors.ErrReservedData) {
		t.Error("expected warning to be ErrReservedData")
	}
}

func TestDecodeErrors(t *testing.T) {
	data, err := skeleton.EncodeBinary(newSkeleton(t))
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		data   string
		target error
	}{
		{"signature", "XYZ\x00\x00\x00\x00\x00", errors.ErrMalformedHeader},
		{"short", "CS", errors.ErrMalformedHeader},
		{"truncated", string(data[:len(data)-2]), errors.ErrBufferExhausted},
		{"magic", `<HEADER MAGIC="XAF" VERSION="919" /><SKELETON />`, errors.ErrMalformedHeader},
		{"root", `<HEADER MAGIC="XSF" VERSION="919" /><ANIMATION />`, errors.ErrMissingElement},
		{"name", `<HEADER MAGIC="XSF" VERSION="919" /><SKELETON><BONE ID="0"><PARENTID>-1</PARENTID></BONE></SKELETON>`, errors.ErrMissingElement},
		{"parentid", `<HEADER MAGIC="XSF" VERSION="919" /><SKELETON><BONE NAME="a" ID="0"></BONE></SKELETON>`, errors.ErrMissingElement},
		{"parent", `<HEADER MAGIC="XSF" VERSION="919" /><SKELETON><BONE NAME="a" ID="1"><PARENTID>0</PARENTID></BONE></SKELETON>`, errors.ErrUnresolvedParent},
		{"duplicate", `<HEADER MAGIC="XSF" VERSION="919" /><SKELETON><BONE NAME="a" ID="0"><PARENTID>-1</PARENTID></BONE><BONE NAME="b" ID="0"><PARENTID>-1</PARENTID></BONE></SKELETON>`, errors.ErrDuplicateBone},
	}
	for _, test := range tests {
		_, _, err := skeleton.Decode([]byte(test.data))
		if !errors.Is(err, test.target) {
			t.Errorf("%s: expected %v, got %v", test.name, test.target, err)
		}
	}
}

func TestDecodeLenientValues(t *testing.T) {
	text := `<HEADER MAGIC="XSF" VERSION="919" />
<SKELETON SCENEAMBIENTCOLOR="x y z">
	<BONE NAME="a" ID="0">
		<TRANSLATION>1 2</TRANSLATION>
		<ROTATION>1 2 3 4 5</ROTATION>
		<PARENTID>-1</PARENTID>
	</BONE>
</SKELETON>`
	s, _, err := skeleton.DecodeMarkup(text)
	if err != nil {
		t.Fatal(err)
	}
	if s.SceneAmbientColor.Present {
		t.Error("expected absent ambient color")
	}
	b := s.Bone(0)
	if b.Translation.Present {
		t.Error("expected absent translation")
	}
	if b.Rotation != calfile.NewVector4(1, 2, 3, 4) {
		t.Errorf("unexpected rotation %v", b.Rotation)
	}
	if !strings.Contains(s.CanonicalText(), `SCENEAMBIENTCOLOR=""`) {
		t.Error("expected empty ambient color attribute")
	}
}

// app concatenates values in their little-endian binary layout. Every value
// must be explicitly typed.
func app(vs ...interface{}) []byte {
	var b []byte
	for _, v := range vs {
		switch v := v.(type) {
		case string:
			b = append(b, v...)
		case []byte:
			b = append(b, v...)
		case uint32:
			b = binary.LittleEndian.AppendUint32(b, v)
		case int32:
			b = binary.LittleEndian.AppendUint32(b, uint32(v))
		case float32:
			b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
		default:
			panic(fmt.Sprintf("unsupported value %T", v))
		}
	}
	return b
}

// str returns a length-prefixed string with a null terminator.
func str(s string) []byte {
	return app(uint32(len(s)+1), s, "\x00")
}

func TestDecodeBinaryLayout(t *testing.T) {
	var f0, f1 float32 = 0, 1
	head := app(
		"CSF\x00", uint32(919),
		uint32(0), // Reserved.
		uint32(2), // Bones.
		float32(0.5), float32(0.5), float32(0.5),

		str("root"),
		f1, float32(2), float32(3), f0, f0, f0, f1,
		f0, f0, f0, f0, f0, f0, f1,
		int32(-1),
		make([]byte, 16),
		uint32(1), int32(1),

		str("arm"),
		f0, f1, f0, f0, f0, f0, f1,
		f0, float32(-1), f0, f0, f0, f0, f1,
		int32(0),
	)
	offset := int64(len(head))
	data := app(head,
		uint32(0), f1, uint32(0), uint32(0), // Reserved, not zero.
		uint32(0),
	)

	s, warn, err := skeleton.DecodeBinary(data)
	if err != nil {
		t.Fatal(err)
	}
	if s.SceneAmbientColor != calfile.NewVector3(0.5, 0.5, 0.5) {
		t.Errorf("unexpected ambient color %v", s.SceneAmbientColor)
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 bones, got %d", s.Len())
	}
	root := s.Root()
	if root == nil || root.Name != "root" || !root.IsRoot() {
		t.Fatalf("unexpected root %+v", root)
	}
	if root.Translation != calfile.NewVector3(1, 2, 3) || root.Rotation != calfile.NewVector4(0, 0, 0, 1) {
		t.Errorf("unexpected root transform %+v", root)
	}
	arm := s.Bone(1)
	if arm == nil || arm.Name != "arm" || arm.ParentID != 0 {
		t.Fatalf("unexpected bone %+v", arm)
	}
	if arm.LocalTranslation != calfile.NewVector3(0, -1, 0) {
		t.Errorf("unexpected local translation %v", arm.LocalTranslation)
	}
	if c := s.Children(0); len(c) != 1 || c[0] != arm {
		t.Errorf("unexpected children %v", c)
	}

	var rerr errors.ReservedError
	if !errors.As(warn, &rerr) {
		t.Fatalf("expected ReservedError, got %v", warn)
	}
	if rerr.BoneID != 1 || rerr.Offset != offset {
		t.Errorf("expected bone 1 at %d, got bone %d at %d", offset, rerr.BoneID, rerr.Offset)
	}
	if rerr.Uints != [4]uint32{0, 0x3F800000, 0, 0} || rerr.Floats != [4]float32{0, 1, 0, 0} {
		t.Errorf("unexpected reserved content %v %v", rerr.Uints, rerr.Floats)
	}
}
