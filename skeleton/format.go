// Package skeleton implements the skeleton format, which describes a
// hierarchy of bones. The binary encoding has the signature "CSF\x00", and the
// markup encoding has the magic "XSF".
package skeleton

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/xml"
)

var markup = xml.Format{Magic: "XSF", Root: "SKELETON", Version: calfile.Version}

// Decode decodes data in either encoding, as indicated by its first four
// bytes.
//
// Any non-fatal problems found while decoding are returned as warn.
func Decode(data []byte) (s *Skeleton, warn, err error) {
	switch calfile.Sniff(data, calfile.KindSkeleton) {
	case calfile.EncodingMarkup:
		return DecodeMarkup(string(data))
	case calfile.EncodingBinary:
		return DecodeBinary(data)
	}
	return nil, nil, errors.HeaderError{Expected: calfile.SigSkeleton, Sig: calfile.Head(data)}
}
