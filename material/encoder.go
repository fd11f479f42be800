package material

import (
	"io"
	"strings"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/xml"
)

// Document returns the canonical markup document of the material. The
// current version is always written.
func (m *Material) Document() *xml.Document {
	root := xml.NewTag("MATERIAL", xml.A("NUMMAPS", calfile.FormatInt(len(m.Maps))))
	root.Add(
		xml.NewValue("AMBIENT", m.Ambient.String()),
		xml.NewValue("DIFFUSE", m.Diffuse.String()),
		xml.NewValue("SPECULAR", m.Specular.String()),
		xml.NewText("SHININESS", calfile.FormatFloat(m.Shininess)),
	)
	for _, mp := range m.Maps {
		root.Add(xml.NewText("MAP", mp.AssetName, xml.A("TYPE", mp.Type)))
	}
	return markup.Document(root)
}

// CanonicalText returns the material in the canonical markup form.
func (m *Material) CanonicalText() string {
	var buf strings.Builder
	m.Document().WriteTo(&buf)
	return buf.String()
}

// Encode writes the material to w in the canonical markup form.
func Encode(w io.Writer, m *Material) error {
	_, err := m.Document().WriteTo(w)
	return err
}

// EncodeBinary returns the material in the binary encoding.
func EncodeBinary(m *Material) ([]byte, error) {
	w := bin.NewWriter()
	w.Raw([]byte(calfile.SigMaterial))
	w.Uint32(calfile.Version)
	w.Byte4(m.Ambient)
	w.Byte4(m.Diffuse)
	w.Byte4(m.Specular)
	w.Float32(m.Shininess)
	w.Uint32(uint32(len(m.Maps)))
	for _, mp := range m.Maps {
		w.String(mp.AssetName)
		w.String(mp.Type)
	}
	return w.End()
}
