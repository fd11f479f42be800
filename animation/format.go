// Package animation implements the skeletal animation format, which describes
// keyframed bone transforms over time. The binary encoding has the signature
// "CAF\x00", and the markup encoding has the magic "XAF".
package animation

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/xml"
)

var markup = xml.Format{Magic: "XAF", Root: "ANIMATION", Version: calfile.Version}

// Version of the animation written to the root tag of the markup encoding.
const animationVersion = "1000"

// TranslationSentinel is the component value used by the binary encoding to
// indicate that a keyframe has no translation. A translation with all three
// components equal to the sentinel is decoded as absent.
const TranslationSentinel float32 = 1e10

// Decode decodes data in either encoding, as indicated by its first four
// bytes.
func Decode(data []byte) (a *Animation, warn, err error) {
	switch calfile.Sniff(data, calfile.KindAnimation) {
	case calfile.EncodingMarkup:
		return DecodeMarkup(string(data))
	case calfile.EncodingBinary:
		return DecodeBinary(data)
	}
	return nil, nil, errors.HeaderError{Expected: calfile.SigAnimation, Sig: calfile.Head(data)}
}
