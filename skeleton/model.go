package skeleton

import (
	"fmt"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/errors"
)

// Bone is a node in the hierarchy of a skeleton.
type Bone struct {
	// ID identifies the bone within its skeleton. Bones decoded from the
	// binary encoding are numbered by their position.
	ID   int32
	Name string

	Translation      calfile.Vector3
	Rotation         calfile.Vector4
	LocalTranslation calfile.Vector3
	LocalRotation    calfile.Vector4

	// ParentID is the ID of the parent bone, or -1 if the bone is a root.
	ParentID int32

	// Indices of children within the skeleton.
	children []int
}

// IsRoot returns whether the bone has no parent.
func (b *Bone) IsRoot() bool {
	return b.ParentID == -1
}

// Skeleton is a flat list of bones. The hierarchy is derived from the parent
// of each bone, and is navigated through the methods of the skeleton.
type Skeleton struct {
	SceneAmbientColor calfile.Vector3

	bones []*Bone
	index map[int32]int
}

// New returns an empty skeleton.
func New() *Skeleton {
	return &Skeleton{index: map[int32]int{}}
}

// Len returns the number of bones in the skeleton.
func (s *Skeleton) Len() int {
	return len(s.bones)
}

// Bones returns every bone of the skeleton, in the order they were added.
func (s *Skeleton) Bones() []*Bone {
	bones := make([]*Bone, len(s.bones))
	copy(bones, s.bones)
	return bones
}

// Add appends a bone to the skeleton. The parent of the bone must already
// have been added, or else a ParentError is returned. An error is also
// returned if the ID of the bone is already in use.
func (s *Skeleton) Add(b *Bone) error {
	if s.index == nil {
		s.index = map[int32]int{}
	}
	if _, ok := s.index[b.ID]; ok {
		return fmt.Errorf("bone %d: %w", b.ID, errors.ErrDuplicateBone)
	}
	i := len(s.bones)
	if !b.IsRoot() {
		p, ok := s.index[b.ParentID]
		if !ok {
			return errors.ParentError{BoneID: b.ID, ParentID: b.ParentID}
		}
		s.bones[p].children = append(s.bones[p].children, i)
	}
	b.children = nil
	s.bones = append(s.bones, b)
	s.index[b.ID] = i
	return nil
}

// Bone returns the bone with the given ID, or nil.
func (s *Skeleton) Bone(id int32) *Bone {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	return s.bones[i]
}

// Root returns the bone with ID 0, or nil.
func (s *Skeleton) Root() *Bone {
	return s.Bone(0)
}

// Roots returns every bone that has no parent.
func (s *Skeleton) Roots() []*Bone {
	var roots []*Bone
	for _, b := range s.bones {
		if b.IsRoot() {
			roots = append(roots, b)
		}
	}
	return roots
}

// Parent returns the parent of the bone with the given ID. Returns nil if
// the bone does not exist or is a root.
func (s *Skeleton) Parent(id int32) *Bone {
	b := s.Bone(id)
	if b == nil || b.IsRoot() {
		return nil
	}
	return s.Bone(b.ParentID)
}

// Children returns the children of the bone with the given ID, in the order
// they were added.
func (s *Skeleton) Children(id int32) []*Bone {
	b := s.Bone(id)
	if b == nil || len(b.children) == 0 {
		return nil
	}
	children := make([]*Bone, len(b.children))
	for i, c := range b.children {
		children[i] = s.bones[c]
	}
	return children
}

// Walk traverses the hierarchy depth-first, starting at each root in order.
// fn receives each bone and its depth, where roots have a depth of 0. If fn
// returns false, the children of the bone are skipped.
func (s *Skeleton) Walk(fn func(b *Bone, depth int) bool) {
	var walk func(i, depth int)
	walk = func(i, depth int) {
		b := s.bones[i]
		if !fn(b, depth) {
			return
		}
		for _, c := range b.children {
			walk(c, depth+1)
		}
	}
	for i, b := range s.bones {
		if b.IsRoot() {
			walk(i, 0)
		}
	}
}
