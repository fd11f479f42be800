// Package material implements the material format, which describes the
// colors of a surface and the texture maps applied to it. The binary encoding
// has the signature "CRF\x00", and the markup encoding has the magic "XRF".
package material

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/xml"
)

// LegacyVersion is an older markup version that is accepted when decoding.
const LegacyVersion = 918

var markup = xml.Format{
	Magic:   "XRF",
	Root:    "MATERIAL",
	Version: calfile.Version,
	Accept:  []int{calfile.Version, LegacyVersion},
}

// Decode decodes data in either encoding, as indicated by its first four
// bytes.
func Decode(data []byte) (m *Material, warn, err error) {
	switch calfile.Sniff(data, calfile.KindMaterial) {
	case calfile.EncodingMarkup:
		return DecodeMarkup(string(data))
	case calfile.EncodingBinary:
		return DecodeBinary(data)
	}
	return nil, nil, errors.HeaderError{Expected: calfile.SigMaterial, Sig: calfile.Head(data)}
}
