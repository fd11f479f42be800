package calfile_test

import (
	"testing"

	"github.com/cal3dapi/calfile"
)

func TestKind_String(t *testing.T) {
	if calfile.KindMesh.String() != "Mesh" {
		t.Error("unexpected result from String")
	}
	if calfile.Kind(0).String() != "Invalid" {
		t.Error("unexpected result from String")
	}
	if calfile.EncodingMarkup.String() != "Markup" || calfile.EncodingUnknown.String() != "Unknown" {
		t.Error("unexpected result from Encoding.String")
	}
}

func TestKind_Signature(t *testing.T) {
	if s := calfile.KindSkeleton.Signature(); s != "CSF\x00" {
		t.Errorf("unexpected signature %q", s)
	}
	if s := calfile.KindMorph.Magic(); s != "XPF" {
		t.Errorf("unexpected magic %q", s)
	}
	if s := calfile.KindInvalid.Signature(); s != "" {
		t.Errorf("unexpected signature %q", s)
	}
}

func TestSniff(t *testing.T) {
	tests := []struct {
		data string
		kind calfile.Kind
		enc  calfile.Encoding
	}{
		{"CSF\x00\x00\x00", calfile.KindSkeleton, calfile.EncodingBinary},
		{"CSF\x00", calfile.KindMesh, calfile.EncodingUnknown},
		{`<HEADER MAGIC="XMF" VERSION="919" />`, calfile.KindMesh, calfile.EncodingMarkup},
		{"XYZ\x00", calfile.KindMaterial, calfile.EncodingUnknown},
		{"CS", calfile.KindSkeleton, calfile.EncodingUnknown},
	}
	for _, test := range tests {
		if enc := calfile.Sniff([]byte(test.data), test.kind); enc != test.enc {
			t.Errorf("Sniff(%q, %s): expected %d, got %d", test.data, test.kind, test.enc, enc)
		}
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		data string
		kind calfile.Kind
		enc  calfile.Encoding
	}{
		{"CAF\x00", calfile.KindAnimation, calfile.EncodingBinary},
		{"CRF\x00\x01", calfile.KindMaterial, calfile.EncodingBinary},
		{"<HEADER MAGIC=\"XSF\" VERSION=\"919\" />\r\n<SKELETON>", calfile.KindSkeleton, calfile.EncodingMarkup},
		{"<HEADER VERSION='918' MAGIC='XRF' />", calfile.KindMaterial, calfile.EncodingMarkup},
		{"<HEADER MAGIC=\"ABC\" />", calfile.KindInvalid, calfile.EncodingMarkup},
		{"XYZ\x00", calfile.KindInvalid, calfile.EncodingUnknown},
		{"", calfile.KindInvalid, calfile.EncodingUnknown},
	}
	for _, test := range tests {
		kind, enc := calfile.Detect([]byte(test.data))
		if kind != test.kind || enc != test.enc {
			t.Errorf("Detect(%q): expected (%s, %d), got (%s, %d)", test.data, test.kind, test.enc, kind, enc)
		}
	}
}

func TestFingerprint(t *testing.T) {
	a := calfile.Fingerprint("<MATERIAL NUMMAPS=\"0\">\r\n</MATERIAL>")
	b := calfile.Fingerprint("<MATERIAL NUMMAPS=\"0\">\r\n</MATERIAL>")
	c := calfile.Fingerprint("<MATERIAL NUMMAPS=\"1\">\r\n</MATERIAL>")
	if len(a) != 64 {
		t.Errorf("expected 64 hex digits, got %d", len(a))
	}
	if a != b {
		t.Error("expected equal fingerprints for equal text")
	}
	if a == c {
		t.Error("expected different fingerprints for different text")
	}
}

func TestHead(t *testing.T) {
	tests := map[string]string{
		"":          "",
		"CA":        "CA",
		"CAF\x00xx": "CAF\x00",
	}
	for input, expected := range tests {
		if s := calfile.Head([]byte(input)); s != expected {
			t.Errorf("Head(%q): expected %q, got %q", input, expected, s)
		}
	}
}
