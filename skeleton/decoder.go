package skeleton

import (
	"math"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/errors"
)

// Size of the reserved block of each bone in the binary encoding.
const reservedSize = 16

// DecodeBinary decodes data in the binary encoding.
//
// A bone with a non-zero reserved block produces a ReservedError in warn.
func DecodeBinary(data []byte) (s *Skeleton, warn, err error) {
	c := bin.NewCursor(data)
	if err := c.Signature(calfile.SigSkeleton); err != nil {
		return nil, nil, err
	}
	c.Uint32() // Version.
	c.Uint32() // Reserved.
	count := c.Uint32()

	s = New()
	s.SceneAmbientColor = c.Vector3()
	if err := c.Err(); err != nil {
		return nil, nil, err
	}

	var warns []error
	for i := uint32(0); i < count; i++ {
		b := &Bone{ID: int32(i)}
		b.Name = c.String()
		b.Translation = c.Vector3()
		b.Rotation = c.Vector4()
		b.LocalTranslation = c.Vector3()
		b.LocalRotation = c.Vector4()
		b.ParentID = c.Int32()

		offset := c.Pos()
		if w := checkReserved(b.ID, offset, c.Bytes(reservedSize)); w != nil {
			warns = append(warns, w)
		}

		// The hierarchy is rebuilt from parent IDs, so child IDs are
		// discarded.
		n := c.Uint32()
		for j := uint32(0); j < n && c.Err() == nil; j++ {
			c.Int32()
		}
		if err := c.Err(); err != nil {
			return nil, errors.Union(warns...), err
		}
		if err := s.Add(b); err != nil {
			return nil, errors.Union(warns...), err
		}
	}
	return s, errors.Union(warns...), nil
}

// checkReserved returns a ReservedError if the reserved block of a bone is
// not zero.
func checkReserved(id int32, offset int64, block []byte) error {
	if len(block) != reservedSize {
		return nil
	}
	var rerr errors.ReservedError
	c := bin.NewCursor(block)
	nonzero := false
	for i := range rerr.Uints {
		u := c.Uint32()
		rerr.Uints[i] = u
		rerr.Floats[i] = math.Float32frombits(u)
		if u != 0 {
			nonzero = true
		}
	}
	if !nonzero {
		return nil
	}
	rerr.BoneID = id
	rerr.Offset = offset
	return rerr
}

// DecodeMarkup decodes text in the markup encoding.
func DecodeMarkup(text string) (s *Skeleton, warn, err error) {
	root, err := markup.Decode(text)
	if err != nil {
		return nil, nil, err
	}

	s = New()
	s.SceneAmbientColor = calfile.ParseVector3(root.AttrString("SCENEAMBIENTCOLOR"))
	for _, tag := range root.Children("BONE") {
		name, err := tag.Require("NAME")
		if err != nil {
			return nil, nil, err
		}
		id, err := tag.Require("ID")
		if err != nil {
			return nil, nil, err
		}
		parent, err := tag.RequireChild("PARENTID")
		if err != nil {
			return nil, nil, err
		}

		b := &Bone{
			ID:       calfile.ParseInt(id),
			Name:     name,
			ParentID: calfile.ParseInt(parent.Text),
		}
		if v, ok := tag.ChildText("TRANSLATION"); ok {
			b.Translation = calfile.ParseVector3(v)
		}
		if v, ok := tag.ChildText("ROTATION"); ok {
			b.Rotation = calfile.ParseVector4(v)
		}
		if v, ok := tag.ChildText("LOCALTRANSLATION"); ok {
			b.LocalTranslation = calfile.ParseVector3(v)
		}
		if v, ok := tag.ChildText("LOCALROTATION"); ok {
			b.LocalRotation = calfile.ParseVector4(v)
		}
		if err := s.Add(b); err != nil {
			return nil, nil, err
		}
	}
	return s, nil, nil
}
