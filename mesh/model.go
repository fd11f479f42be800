package mesh

import (
	"sort"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
)

// Influence is the weight with which a bone deforms a vertex.
type Influence struct {
	BoneID int32
	Weight float32
}

// Influences is the list of influences of a vertex.
type Influences []Influence

// Find returns the influence of the given bone, and whether it exists.
func (s Influences) Find(boneID int32) (Influence, bool) {
	for _, inf := range s {
		if inf.BoneID == boneID {
			return inf, true
		}
	}
	return Influence{}, false
}

// Normalize returns influences that have unique bones and weights that sum
// to 1.
//
// Weights of the same bone are summed, and the results are ordered by
// descending weight, keeping at most MaxInfluences. Each kept weight except
// the last is divided by the total of the kept weights. The last receives the
// remainder of 1, so that the sum is exact.
//
// Returns ErrNoInfluences if raw is empty, or if the kept weights sum to
// zero.
func Normalize(raw []Influence) (Influences, error) {
	if len(raw) == 0 {
		return nil, errors.ErrNoInfluences
	}
	groups := make(Influences, 0, len(raw))
	index := make(map[int32]int, len(raw))
	for _, inf := range raw {
		if i, ok := index[inf.BoneID]; ok {
			groups[i].Weight += inf.Weight
			continue
		}
		index[inf.BoneID] = len(groups)
		groups = append(groups, inf)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Weight > groups[j].Weight
	})
	if len(groups) > MaxInfluences {
		groups = groups[:MaxInfluences]
	}

	var total float32
	for _, g := range groups {
		total += g.Weight
	}
	if total == 0 {
		return nil, errors.ErrNoInfluences
	}
	var sum float32
	last := len(groups) - 1
	for i := 0; i < last; i++ {
		groups[i].Weight /= total
		sum += groups[i].Weight
	}
	groups[last].Weight = 1 - sum
	return groups, nil
}

// Vertex is a point of a submesh.
type Vertex struct {
	// ID of the vertex. Vertices decoded from the binary encoding are
	// numbered by their position within the submesh.
	ID       int32
	Position calfile.Vector3
	Normal   calfile.Vector3
	Color    calfile.Vector3

	// Level-of-detail data, carried without interpretation.
	CollapseID    int32
	CollapseCount int32

	TexCoords  []calfile.Vector2
	Influences Influences
}

// Face is a triangle referring to three vertices of its submesh.
type Face struct {
	calfile.Int3
}

// NewFace returns a face with the given vertex IDs.
func NewFace(a, b, c int32) Face {
	return Face{calfile.NewInt3(a, b, c)}
}

// Spring connects two vertices of a submesh. Springs are carried without
// simulation.
type Spring struct {
	VertexA     int32
	VertexB     int32
	Coefficient float32
	Length      float32
}

// BlendVertex is the target of a vertex under a morph.
type BlendVertex struct {
	VertexID int32
	// PositionDifference is the distance between the blended position and
	// the position of the base vertex.
	PositionDifference float32

	Position  calfile.Vector3
	Normal    calfile.Vector3
	TexCoords []calfile.Vector2
}

// Morph is a named morph target of a submesh.
type Morph struct {
	ID            int32
	Name          string
	BlendVertices []BlendVertex
}

// Submesh is an independently indexed part of a mesh.
type Submesh struct {
	MaterialID int32
	// NumTexCoords is the number of texture coordinates declared for each
	// vertex.
	NumTexCoords uint32
	// LODSteps is carried without interpretation. When non-zero, the collapse
	// data of each vertex is included in the markup encoding.
	LODSteps uint32

	Vertices []*Vertex
	Faces    []Face
	Springs  []Spring
	Morphs   []*Morph
	// RawMorphs holds the markup of morph elements that were decoded from the
	// markup encoding, which are not structurally decoded.
	RawMorphs []string
}

// NumMorphs returns the total number of morphs, including raw morphs.
func (s *Submesh) NumMorphs() int {
	return len(s.Morphs) + len(s.RawMorphs)
}

// Vertex returns the first vertex with the given ID, or nil.
func (s *Submesh) Vertex(id int32) *Vertex {
	for _, v := range s.Vertices {
		if v.ID == id {
			return v
		}
	}
	return nil
}

// Indices returns the vertex IDs of every face, in order. If reverseWinding
// is true, each face is wound in the opposite direction.
func (s *Submesh) Indices(reverseWinding bool) []int32 {
	indices := make([]int32, 0, len(s.Faces)*3)
	for _, f := range s.Faces {
		indices = append(indices, f.Indices(reverseWinding)...)
	}
	return indices
}

// Mesh is a sequence of submeshes.
type Mesh struct {
	Submeshes []*Submesh
}

// Join returns a mesh containing the submeshes of each mesh, in order. The
// submeshes are shared with the given meshes.
func Join(meshes ...*Mesh) *Mesh {
	var m Mesh
	for _, sub := range meshes {
		if sub != nil {
			m.Submeshes = append(m.Submeshes, sub.Submeshes...)
		}
	}
	return &m
}
