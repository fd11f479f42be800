package skeleton

import (
	"io"
	"strings"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/xml"
)

// Document returns the canonical markup document of the skeleton.
func (s *Skeleton) Document() *xml.Document {
	root := xml.NewTag("SKELETON",
		xml.A("NUMBONES", calfile.FormatInt(len(s.bones))),
		xml.A("SCENEAMBIENTCOLOR", s.SceneAmbientColor.String()),
	)
	for _, b := range s.bones {
		tag := xml.NewTag("BONE",
			xml.A("NAME", b.Name),
			xml.A("NUMCHILDS", calfile.FormatInt(len(b.children))),
			xml.A("ID", calfile.FormatInt(b.ID)),
		)
		tag.Add(
			xml.NewValue("TRANSLATION", b.Translation.String()),
			xml.NewValue("ROTATION", b.Rotation.String()),
			xml.NewValue("LOCALTRANSLATION", b.LocalTranslation.String()),
			xml.NewValue("LOCALROTATION", b.LocalRotation.String()),
			xml.NewText("PARENTID", calfile.FormatInt(b.ParentID)),
		)
		for _, c := range b.children {
			tag.Add(xml.NewText("CHILDID", calfile.FormatInt(s.bones[c].ID)))
		}
		root.Add(tag)
	}
	return markup.Document(root)
}

// CanonicalText returns the skeleton in the canonical markup form.
func (s *Skeleton) CanonicalText() string {
	var buf strings.Builder
	s.Document().WriteTo(&buf)
	return buf.String()
}

// Encode writes the skeleton to w in the canonical markup form.
func Encode(w io.Writer, s *Skeleton) error {
	_, err := s.Document().WriteTo(w)
	return err
}

// EncodeBinary returns the skeleton in the binary encoding. Bones are
// written in order, so a bone whose ID differs from its position will be
// renumbered when decoded.
func EncodeBinary(s *Skeleton) ([]byte, error) {
	w := bin.NewWriter()
	w.Raw([]byte(calfile.SigSkeleton))
	w.Uint32(calfile.Version)
	w.Uint32(0)
	w.Uint32(uint32(len(s.bones)))
	w.Vector3(s.SceneAmbientColor)
	for _, b := range s.bones {
		w.String(b.Name)
		w.Vector3(b.Translation)
		w.Vector4(b.Rotation)
		w.Vector3(b.LocalTranslation)
		w.Vector4(b.LocalRotation)
		w.Int32(b.ParentID)
		w.Raw(make([]byte, reservedSize))
		w.Uint32(uint32(len(b.children)))
		for _, c := range b.children {
			w.Int32(s.bones[c].ID)
		}
	}
	return w.End()
}
