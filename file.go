// The calfile package handles the decoding, encoding, and manipulation of
// Cal3D asset files.
//
// Five kinds of file are supported: skeletons, skeletal animations, meshes,
// morph animations, and materials. Each kind exists in a compact binary
// encoding (CSF, CAF, CMF, CPF, CRF) and a verbose markup encoding (XSF, XAF,
// XMF, XPF, XRF). The sub-packages "skeleton", "animation", "mesh", "morph",
// and "material" decode either encoding into one model, and write models back
// out in a canonical markup form.
//
// This package contains the value types shared by every format. Each value
// carries an explicit presence flag, which distinguishes a value that was
// never specified from a value that happens to be zero.
package calfile

import (
	"bytes"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/blake2b"
)

// Kind indicates one of the file formats in the family.
type Kind byte

const (
	KindInvalid Kind = iota
	KindSkeleton
	KindAnimation
	KindMesh
	KindMorph
	KindMaterial
)

var kindStrings = map[Kind]string{
	KindSkeleton:  "Skeleton",
	KindAnimation: "Animation",
	KindMesh:      "Mesh",
	KindMorph:     "MorphAnimation",
	KindMaterial:  "Material",
}

// String returns a string representation of the kind. If the kind is not
// valid, then the returned value will be "Invalid".
func (k Kind) String() string {
	s, ok := kindStrings[k]
	if !ok {
		return "Invalid"
	}
	return s
}

// Signature returns the four bytes that begin the binary encoding of the
// kind.
func (k Kind) Signature() string {
	for sig, kind := range signatures {
		if kind == k {
			return sig
		}
	}
	return ""
}

// Magic returns the value of the MAGIC attribute in the header of the markup
// encoding of the kind.
func (k Kind) Magic() string {
	for magic, kind := range magics {
		if kind == k {
			return magic
		}
	}
	return ""
}

// Binary signatures.
const (
	SigAnimation = "CAF\x00"
	SigMesh      = "CMF\x00"
	SigMorph     = "CPF\x00"
	SigMaterial  = "CRF\x00"
	SigSkeleton  = "CSF\x00"
)

// MarkupSig is the start of every markup file, which begins with a header
// tag.
const MarkupSig = "<HEA"

// Version is the version written to the header of markup files.
const Version = 919

var signatures = map[string]Kind{
	SigAnimation: KindAnimation,
	SigMesh:      KindMesh,
	SigMorph:     KindMorph,
	SigMaterial:  KindMaterial,
	SigSkeleton:  KindSkeleton,
}

var magics = map[string]Kind{
	"XAF": KindAnimation,
	"XMF": KindMesh,
	"XPF": KindMorph,
	"XRF": KindMaterial,
	"XSF": KindSkeleton,
}

// Encoding indicates how a file is physically encoded.
type Encoding byte

const (
	EncodingUnknown Encoding = iota
	EncodingBinary
	EncodingMarkup
)

var encodingStrings = map[Encoding]string{
	EncodingBinary: "Binary",
	EncodingMarkup: "Markup",
}

// String returns a string representation of the encoding.
func (e Encoding) String() string {
	s, ok := encodingStrings[e]
	if !ok {
		return "Unknown"
	}
	return s
}

// Sniff returns the encoding indicated by the first four bytes of data.
// Binary data is recognized only when it begins with the signature of k.
func Sniff(data []byte, k Kind) Encoding {
	if len(data) < 4 {
		return EncodingUnknown
	}
	switch string(data[:4]) {
	case MarkupSig:
		return EncodingMarkup
	case k.Signature():
		return EncodingBinary
	}
	return EncodingUnknown
}

// Head returns the first four bytes of data, or all of data if it is
// shorter.
func Head(data []byte) string {
	if len(data) > 4 {
		data = data[:4]
	}
	return string(data)
}

var magicPattern = regexp.MustCompile(`^<HEADER\s[^>]*MAGIC\s*=\s*["']([A-Z]{3})["']`)

// Detect determines the kind and encoding of data. Binary files are
// identified by their signature, and markup files by the MAGIC attribute of
// their header.
func Detect(data []byte) (Kind, Encoding) {
	if len(data) < 4 {
		return KindInvalid, EncodingUnknown
	}
	if k, ok := signatures[string(data[:4])]; ok {
		return k, EncodingBinary
	}
	if string(data[:4]) != MarkupSig {
		return KindInvalid, EncodingUnknown
	}
	line := data
	if i := bytes.IndexByte(line, '>'); i >= 0 {
		line = line[:i+1]
	}
	m := magicPattern.FindSubmatch(line)
	if m == nil {
		return KindInvalid, EncodingMarkup
	}
	return magics[string(m[1])], EncodingMarkup
}

// Fingerprint returns a hex-encoded BLAKE2b-256 hash of canonical text. Two
// models with the same fingerprint have identical canonical forms.
func Fingerprint(text string) string {
	sum := blake2b.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
