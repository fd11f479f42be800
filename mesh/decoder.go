package mesh

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/xml"
)

// DecodeBinary decodes data in the binary encoding.
func DecodeBinary(data []byte) (m *Mesh, warn, err error) {
	c := bin.NewCursor(data)
	if err := c.Signature(calfile.SigMesh); err != nil {
		return nil, nil, err
	}
	c.Uint32() // Version.

	m = &Mesh{}
	n := c.Uint32()
	for i := uint32(0); i < n && c.Err() == nil; i++ {
		m.Submeshes = append(m.Submeshes, decodeSubmesh(c))
	}
	if err := c.Err(); err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

func decodeSubmesh(c *bin.Cursor) *Submesh {
	s := &Submesh{MaterialID: c.Int32()}
	vertexCount := c.Uint32()
	faceCount := c.Uint32()
	s.LODSteps = c.Uint32()
	springCount := c.Uint32()
	s.NumTexCoords = c.Uint32()
	morphCount := c.Uint32()

	for i := uint32(0); i < vertexCount && c.Err() == nil; i++ {
		v := &Vertex{ID: int32(i)}
		v.Position = c.Vector3()
		v.Normal = c.Vector3()
		v.Color = c.Vector3()
		v.CollapseID = c.Int32()
		v.CollapseCount = c.Int32()
		for j := uint32(0); j < s.NumTexCoords && c.Err() == nil; j++ {
			v.TexCoords = append(v.TexCoords, c.Vector2())
		}
		raw := make([]Influence, 0, 4)
		ni := c.Uint32()
		for j := uint32(0); j < ni && c.Err() == nil; j++ {
			var inf Influence
			inf.BoneID = c.Int32()
			inf.Weight = c.Float32()
			raw = append(raw, inf)
		}
		if springCount > 0 {
			c.Float32() // Spring weight.
		}
		if c.Err() != nil {
			break
		}
		inf, err := Normalize(raw)
		if err != nil {
			c.Fail(fmt.Errorf("vertex %d: %w", v.ID, err))
			break
		}
		v.Influences = inf
		s.Vertices = append(s.Vertices, v)
	}

	for i := uint32(0); i < morphCount && c.Err() == nil; i++ {
		s.Morphs = append(s.Morphs, decodeMorph(c, s, int32(i), vertexCount))
	}

	for i := uint32(0); i < springCount && c.Err() == nil; i++ {
		var sp Spring
		sp.VertexA = c.Int32()
		sp.VertexB = c.Int32()
		sp.Coefficient = c.Float32()
		sp.Length = c.Float32()
		s.Springs = append(s.Springs, sp)
	}

	for i := uint32(0); i < faceCount && c.Err() == nil; i++ {
		s.Faces = append(s.Faces, Face{c.Int3()})
	}
	return s
}

// decodeMorph decodes a morph, whose blend vertices continue until a vertex
// ID greater than vertexCount is read. The terminating ID is consumed.
func decodeMorph(c *bin.Cursor, s *Submesh, id int32, vertexCount uint32) *Morph {
	m := &Morph{ID: id, Name: c.String()}
	for {
		vid := c.Int32()
		if c.Err() != nil || int64(vid) > int64(vertexCount) {
			break
		}
		bv := BlendVertex{VertexID: vid}
		bv.Position = c.Vector3()
		bv.Normal = c.Vector3()
		for j := uint32(0); j < s.NumTexCoords && c.Err() == nil; j++ {
			bv.TexCoords = append(bv.TexCoords, c.Vector2())
		}
		if c.Err() != nil {
			break
		}
		if vid < 0 || int(vid) >= len(s.Vertices) {
			c.Fail(fmt.Errorf("morph %q: vertex %d: %w", m.Name, vid, errors.ErrUnresolvedVertex))
			break
		}
		bv.PositionDifference = bv.Position.Distance(s.Vertices[vid].Position)
		m.BlendVertices = append(m.BlendVertices, bv)
	}
	return m
}

var (
	morphCountPattern = regexp.MustCompile(`NUMMORPHS="\d+"`)
	submeshPattern    = regexp.MustCompile(`<SUBMESH `)
)

// stripDuplicateMorphCounts removes every second NUMMORPHS attribute when
// there are more such attributes than submeshes. Some files repeat the
// attribute within a submesh tag, which is otherwise rejected as a duplicate
// attribute.
func stripDuplicateMorphCounts(text string) string {
	morphs := len(morphCountPattern.FindAllStringIndex(text, -1))
	submeshes := len(submeshPattern.FindAllStringIndex(text, -1))
	if morphs <= submeshes {
		return text
	}
	n := 0
	return morphCountPattern.ReplaceAllStringFunc(text, func(s string) string {
		n++
		if n%2 == 0 {
			return ""
		}
		return s
	})
}

// attrCount returns the value of a count attribute, or zero if the attribute
// is missing or negative.
func attrCount(t *xml.Tag, name string) uint32 {
	v := calfile.ParseInt(t.AttrString(name))
	if v < 0 {
		return 0
	}
	return uint32(v)
}

// DecodeMarkup decodes text in the markup encoding. Morph elements are not
// structurally decoded, and are retained as RawMorphs.
func DecodeMarkup(text string) (m *Mesh, warn, err error) {
	root, err := markup.Decode(stripDuplicateMorphCounts(text))
	if err != nil {
		return nil, nil, err
	}

	m = &Mesh{}
	for _, st := range root.Children("SUBMESH") {
		s, err := decodeSubmeshMarkup(st)
		if err != nil {
			return nil, nil, err
		}
		m.Submeshes = append(m.Submeshes, s)
	}
	return m, nil, nil
}

func decodeSubmeshMarkup(st *xml.Tag) (*Submesh, error) {
	s := &Submesh{
		MaterialID:   calfile.ParseInt(st.AttrString("MATERIAL")),
		NumTexCoords: attrCount(st, "NUMTEXCOORDS"),
		LODSteps:     attrCount(st, "NUMLODSTEPS"),
	}
	for _, t := range st.Tags {
		switch t.Name {
		case "VERTEX":
			v, err := decodeVertexMarkup(t)
			if err != nil {
				return nil, err
			}
			s.Vertices = append(s.Vertices, v)
		case "SPRING":
			s.Springs = append(s.Springs, decodeSpringMarkup(t))
		case "MORPH":
			s.RawMorphs = append(s.RawMorphs, t.OuterXML())
		case "FACE":
			ids, err := t.Require("VERTEXID")
			if err != nil {
				return nil, err
			}
			s.Faces = append(s.Faces, Face{calfile.ParseInt3(ids)})
		}
	}
	return s, nil
}

func decodeVertexMarkup(t *xml.Tag) (*Vertex, error) {
	id, err := t.Require("ID")
	if err != nil {
		return nil, err
	}
	v := &Vertex{ID: calfile.ParseInt(id)}
	var raw []Influence
	for _, sub := range t.Tags {
		switch sub.Name {
		case "POS":
			v.Position = calfile.ParseVector3(sub.Text)
		case "NORM":
			v.Normal = calfile.ParseVector3(sub.Text)
		case "COLOR":
			v.Color = calfile.ParseVector3(sub.Text)
		case "COLLAPSEID":
			v.CollapseID = calfile.ParseInt(sub.Text)
		case "COLLAPSECOUNT":
			v.CollapseCount = calfile.ParseInt(sub.Text)
		case "TEXCOORD":
			v.TexCoords = append(v.TexCoords, calfile.ParseVector2(sub.Text))
		case "INFLUENCE":
			bone, err := sub.Require("ID")
			if err != nil {
				return nil, err
			}
			raw = append(raw, Influence{
				BoneID: calfile.ParseInt(bone),
				Weight: calfile.ParseFloat(sub.Text),
			})
		}
	}
	if v.Influences, err = Normalize(raw); err != nil {
		return nil, fmt.Errorf("vertex %d: %w", v.ID, err)
	}
	return v, nil
}

func decodeSpringMarkup(t *xml.Tag) Spring {
	var sp Spring
	ids := strings.Fields(t.AttrString("VERTEXID"))
	if len(ids) >= 2 {
		sp.VertexA = calfile.ParseInt(ids[0])
		sp.VertexB = calfile.ParseInt(ids[1])
	}
	sp.Coefficient = calfile.ParseFloat(t.AttrString("COEF"))
	sp.Length = calfile.ParseFloat(t.AttrString("LENGTH"))
	return sp
}

// DecodeRawMorph structurally decodes the markup of a raw morph. The
// position difference of each blend vertex is computed against the vertices
// of s.
func DecodeRawMorph(s *Submesh, raw string) (*Morph, error) {
	doc, err := xml.Parse(raw)
	if err != nil {
		return nil, err
	}
	t := doc.Root
	if t == nil || t.Name != "MORPH" {
		return nil, errors.MissingError{Element: "MORPH"}
	}
	m := &Morph{
		ID:   calfile.ParseInt(t.AttrString("MORPHID")),
		Name: t.AttrString("NAME"),
	}
	for _, bt := range t.Children("BLENDVERTEX") {
		id, err := bt.Require("VERTEXID")
		if err != nil {
			return nil, err
		}
		bv := BlendVertex{VertexID: calfile.ParseInt(id)}
		if v, ok := bt.ChildText("POSITION"); ok {
			bv.Position = calfile.ParseVector3(v)
		}
		if v, ok := bt.ChildText("NORMAL"); ok {
			bv.Normal = calfile.ParseVector3(v)
		}
		for _, tt := range bt.Children("TEXCOORD") {
			bv.TexCoords = append(bv.TexCoords, calfile.ParseVector2(tt.Text))
		}
		base := s.Vertex(bv.VertexID)
		if base == nil {
			return nil, fmt.Errorf("morph %q: vertex %d: %w", m.Name, bv.VertexID, errors.ErrUnresolvedVertex)
		}
		bv.PositionDifference = bv.Position.Distance(base.Position)
		m.BlendVertices = append(m.BlendVertices, bv)
	}
	return m, nil
}
