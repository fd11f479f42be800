// Package mesh implements the mesh format, which describes skinned geometry
// split into submeshes, along with morph targets and springs. The binary
// encoding has the signature "CMF\x00", and the markup encoding has the magic
// "XMF".
package mesh

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/xml"
)

var markup = xml.Format{Magic: "XMF", Root: "MESH", Version: calfile.Version}

// MaxInfluences is the number of influences kept by each vertex after
// normalization.
const MaxInfluences = 4

// Decode decodes data in either encoding, as indicated by its first four
// bytes.
func Decode(data []byte) (m *Mesh, warn, err error) {
	switch calfile.Sniff(data, calfile.KindMesh) {
	case calfile.EncodingMarkup:
		return DecodeMarkup(string(data))
	case calfile.EncodingBinary:
		return DecodeBinary(data)
	}
	return nil, nil, errors.HeaderError{Expected: calfile.SigMesh, Sig: calfile.Head(data)}
}
