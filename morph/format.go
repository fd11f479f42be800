// Package morph implements the morph animation format, which describes the
// weights of morph targets over time. The binary encoding has the signature
// "CPF\x00", and the markup encoding has the magic "XPF".
package morph

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/xml"
)

var markup = xml.Format{Magic: "XPF", Root: "ANIMATION", Version: calfile.Version}

// Decode decodes data in either encoding, as indicated by its first four
// bytes.
func Decode(data []byte) (a *Animation, warn, err error) {
	switch calfile.Sniff(data, calfile.KindMorph) {
	case calfile.EncodingMarkup:
		return DecodeMarkup(string(data))
	case calfile.EncodingBinary:
		return DecodeBinary(data)
	}
	return nil, nil, errors.HeaderError{Expected: calfile.SigMorph, Sig: calfile.Head(data)}
}
