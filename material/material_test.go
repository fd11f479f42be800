package material_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/material"
)

func newMaterial() *material.Material {
	return &material.Material{
		Ambient:   calfile.NewByte4(255, 255, 255, 0),
		Diffuse:   calfile.NewByte4(10, 20, 30, 255),
		Shininess: 0.5,
		Maps: []material.Map{
			{Type: "Opacity", AssetName: "alpha.tga"},
			{Type: "Diffuse Color", AssetName: "skin & hair.png"},
		},
	}
}

const canonical = "<HEADER MAGIC=\"XRF\" VERSION=\"919\" />\r\n" +
	"<MATERIAL NUMMAPS=\"2\">\r\n" +
	"\t<AMBIENT>255 255 255 0</AMBIENT>\r\n" +
	"\t<DIFFUSE>10 20 30 255</DIFFUSE>\r\n" +
	"\t<SHININESS>0.5</SHININESS>\r\n" +
	"\t<MAP TYPE=\"Opacity\">alpha.tga</MAP>\r\n" +
	"\t<MAP TYPE=\"Diffuse Color\">skin &amp; hair.png</MAP>\r\n" +
	"</MATERIAL>"

func TestCanonicalText(t *testing.T) {
	m := newMaterial()
	if text := m.CanonicalText(); text != canonical {
		t.Errorf("unexpected canonical text:\n%q\nexpected:\n%q", text, canonical)
	}
	var buf bytes.Buffer
	if err := material.Encode(&buf, m); err != nil {
		t.Fatal(err)
	}
	if buf.String() != canonical {
		t.Error("Encode does not match CanonicalText")
	}
}

func TestDecodeMarkup(t *testing.T) {
	m, _, err := material.Decode([]byte(canonical))
	if err != nil {
		t.Fatal(err)
	}
	if m.Specular.Present {
		t.Error("expected absent specular")
	}
	if asset, ok := m.Map("Diffuse Color"); !ok || asset != "skin & hair.png" {
		t.Errorf("unexpected map %q", asset)
	}
	if _, ok := m.Map("Bump"); ok {
		t.Error("expected missing map")
	}
	if text := m.CanonicalText(); text != canonical {
		t.Errorf("markup did not round trip:\n%q", text)
	}

	// The legacy version is accepted, and the current version is written.
	legacy := strings.Replace(canonical, `VERSION="919"`, `VERSION="918"`, 1)
	m, _, err = material.Decode([]byte(legacy))
	if err != nil {
		t.Fatal(err)
	}
	if text := m.CanonicalText(); text != canonical {
		t.Errorf("legacy markup did not round trip:\n%q", text)
	}
}

func TestBinaryRoundTrip(t *testing.T) {
	data, err := material.EncodeBinary(newMaterial())
	if err != nil {
		t.Fatal(err)
	}
	m, _, err := material.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.Maps) != 2 || m.Maps[1].Type != "Diffuse Color" {
		t.Errorf("unexpected maps %+v", m.Maps)
	}
	// Every color in the binary encoding is present.
	if m.Specular != calfile.NewByte4(0, 0, 0, 0) {
		t.Errorf("unexpected specular %v", m.Specular)
	}
	expected := strings.Replace(canonical, "\t<SHININESS>", "\t<SPECULAR>0 0 0 0</SPECULAR>\r\n\t<SHININESS>", 1)
	if text := m.CanonicalText(); text != expected {
		t.Errorf("binary did not round trip:\n%q", text)
	}
}

func TestDecodeErrors(t *testing.T) {
	data, err := material.EncodeBinary(newMaterial())
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name   string
		data   string
		target error
	}{
		{"signature", "XYZ\x00\x00\x00\x00\x00", errors.ErrMalformedHeader},
		{"truncated", string(data[:len(data)-1]), errors.ErrBufferExhausted},
		{"version", `<HEADER MAGIC="XRF" VERSION="917" /><MATERIAL><SHININESS>1</SHININESS></MATERIAL>`, errors.ErrMalformedHeader},
		{"shininess", `<HEADER MAGIC="XRF" VERSION="919" /><MATERIAL />`, errors.ErrMissingElement},
		{"type", `<HEADER MAGIC="XRF" VERSION="919" /><MATERIAL><SHININESS>1</SHININESS><MAP>a.png</MAP></MATERIAL>`, errors.ErrMissingElement},
	}
	for _, test := range tests {
		_, _, err := material.Decode([]byte(test.data))
		if !errors.Is(err, test.target) {
			t.Errorf("%s: expected %v, got %v", test.name, test.target, err)
		}
	}
}
