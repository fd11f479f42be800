package mesh

import (
	"fmt"
	"io"
	"strings"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/xml"
)

// Document returns the canonical markup document of the mesh.
func (m *Mesh) Document() *xml.Document {
	root := xml.NewTag("MESH", xml.A("NUMSUBMESH", calfile.FormatInt(len(m.Submeshes))))
	for _, s := range m.Submeshes {
		root.Add(s.tag())
	}
	return markup.Document(root)
}

func (s *Submesh) tag() *xml.Tag {
	st := xml.NewTag("SUBMESH",
		xml.A("NUMVERTICES", calfile.FormatInt(len(s.Vertices))),
		xml.A("NUMFACES", calfile.FormatInt(len(s.Faces))),
		xml.A("NUMLODSTEPS", calfile.FormatInt(s.LODSteps)),
		xml.A("NUMSPRINGS", calfile.FormatInt(len(s.Springs))),
		xml.A("NUMMORPHS", calfile.FormatInt(s.NumMorphs())),
		xml.A("NUMTEXCOORDS", calfile.FormatInt(s.NumTexCoords)),
		xml.A("MATERIAL", calfile.FormatInt(s.MaterialID)),
	)
	for _, v := range s.Vertices {
		vt := xml.NewTag("VERTEX",
			xml.A("NUMINFLUENCES", calfile.FormatInt(len(v.Influences))),
			xml.A("ID", calfile.FormatInt(v.ID)),
		)
		vt.Add(
			xml.NewValue("POS", v.Position.String()),
			xml.NewValue("NORM", v.Normal.String()),
			xml.NewValue("COLOR", v.Color.String()),
		)
		if s.LODSteps > 0 || v.CollapseID != 0 || v.CollapseCount != 0 {
			vt.Add(
				xml.NewText("COLLAPSEID", calfile.FormatInt(v.CollapseID)),
				xml.NewText("COLLAPSECOUNT", calfile.FormatInt(v.CollapseCount)),
			)
		}
		for _, tc := range v.TexCoords {
			vt.Add(xml.NewText("TEXCOORD", tc.String()))
		}
		for _, inf := range v.Influences {
			vt.Add(xml.NewText("INFLUENCE", calfile.FormatFloat(inf.Weight), xml.A("ID", calfile.FormatInt(inf.BoneID))))
		}
		st.Add(vt)
	}
	for _, sp := range s.Springs {
		st.Add(xml.NewEmpty("SPRING",
			xml.A("VERTEXID", calfile.FormatInt(sp.VertexA)+" "+calfile.FormatInt(sp.VertexB)),
			xml.A("COEF", calfile.FormatFloat(sp.Coefficient)),
			xml.A("LENGTH", calfile.FormatFloat(sp.Length)),
		))
	}
	for _, m := range s.Morphs {
		mt := xml.NewTag("MORPH",
			xml.A("NAME", m.Name),
			xml.A("NUMBLENDVERTS", calfile.FormatInt(len(m.BlendVertices))),
			xml.A("MORPHID", calfile.FormatInt(m.ID)),
		)
		for _, bv := range m.BlendVertices {
			bt := xml.NewTag("BLENDVERTEX",
				xml.A("VERTEXID", calfile.FormatInt(bv.VertexID)),
				xml.A("POSDIFF", calfile.FormatFloat(bv.PositionDifference)),
			)
			bt.Add(
				xml.NewValue("POSITION", bv.Position.String()),
				xml.NewValue("NORMAL", bv.Normal.String()),
			)
			for _, tc := range bv.TexCoords {
				bt.Add(xml.NewText("TEXCOORD", tc.String()))
			}
			mt.Add(bt)
		}
		st.Add(mt)
	}
	for _, raw := range s.RawMorphs {
		st.Add(xml.NewRaw(raw))
	}
	for _, f := range s.Faces {
		st.Add(xml.NewEmpty("FACE", xml.A("VERTEXID", f.String())))
	}
	return st
}

// CanonicalText returns the mesh in the canonical markup form.
func (m *Mesh) CanonicalText() string {
	var buf strings.Builder
	m.Document().WriteTo(&buf)
	return buf.String()
}

// Encode writes the mesh to w in the canonical markup form.
func Encode(w io.Writer, m *Mesh) error {
	_, err := m.Document().WriteTo(w)
	return err
}

// EncodeBinary returns the mesh in the binary encoding. Raw morphs are
// decoded with DecodeRawMorph and written after the structural morphs.
// Vertices are written in order, and each is given as many texture
// coordinates as declared by its submesh.
func EncodeBinary(m *Mesh) ([]byte, error) {
	w := bin.NewWriter()
	w.Raw([]byte(calfile.SigMesh))
	w.Uint32(calfile.Version)
	w.Uint32(uint32(len(m.Submeshes)))
	for i, s := range m.Submeshes {
		morphs := append([]*Morph(nil), s.Morphs...)
		for _, raw := range s.RawMorphs {
			morph, err := DecodeRawMorph(s, raw)
			if err != nil {
				return nil, fmt.Errorf("submesh %d: %w", i, err)
			}
			morphs = append(morphs, morph)
		}
		encodeSubmesh(w, s, morphs)
	}
	return w.End()
}

func encodeTexCoords(w *bin.Writer, n uint32, coords []calfile.Vector2) {
	for i := 0; i < int(n); i++ {
		if i < len(coords) {
			w.Vector2(coords[i])
		} else {
			w.Vector2(calfile.Vector2{})
		}
	}
}

func encodeSubmesh(w *bin.Writer, s *Submesh, morphs []*Morph) {
	vertexCount := uint32(len(s.Vertices))
	w.Int32(s.MaterialID)
	w.Uint32(vertexCount)
	w.Uint32(uint32(len(s.Faces)))
	w.Uint32(s.LODSteps)
	w.Uint32(uint32(len(s.Springs)))
	w.Uint32(s.NumTexCoords)
	w.Uint32(uint32(len(morphs)))

	for _, v := range s.Vertices {
		w.Vector3(v.Position)
		w.Vector3(v.Normal)
		w.Vector3(v.Color)
		w.Int32(v.CollapseID)
		w.Int32(v.CollapseCount)
		encodeTexCoords(w, s.NumTexCoords, v.TexCoords)
		w.Uint32(uint32(len(v.Influences)))
		for _, inf := range v.Influences {
			w.Int32(inf.BoneID)
			w.Float32(inf.Weight)
		}
		if len(s.Springs) > 0 {
			w.Float32(0)
		}
	}
	for _, m := range morphs {
		w.String(m.Name)
		for _, bv := range m.BlendVertices {
			w.Int32(bv.VertexID)
			w.Vector3(bv.Position)
			w.Vector3(bv.Normal)
			encodeTexCoords(w, s.NumTexCoords, bv.TexCoords)
		}
		w.Int32(int32(vertexCount + 1))
	}
	for _, sp := range s.Springs {
		w.Int32(sp.VertexA)
		w.Int32(sp.VertexB)
		w.Float32(sp.Coefficient)
		w.Float32(sp.Length)
	}
	for _, f := range s.Faces {
		w.Int3(f.Int3)
	}
}
