// Package asset decodes and encodes a file of any kind in the family, as
// determined by its content.
package asset

import (
	"fmt"
	"io"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/animation"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/material"
	"github.com/cal3dapi/calfile/mesh"
	"github.com/cal3dapi/calfile/morph"
	"github.com/cal3dapi/calfile/skeleton"
	"github.com/cal3dapi/calfile/xml"
)

// Model is the decoded content of a file. It is one of *skeleton.Skeleton,
// *animation.Animation, *mesh.Mesh, *morph.Animation, or
// *material.Material.
type Model interface {
	Document() *xml.Document
	CanonicalText() string
}

// File is a decoded file along with how it was encoded.
type File struct {
	Kind     calfile.Kind
	Encoding calfile.Encoding
	Model    Model
}

func decode[T Model](data []byte, fn func([]byte) (T, error, error)) (Model, error, error) {
	m, warn, err := fn(data)
	if err != nil {
		return nil, warn, err
	}
	return m, warn, nil
}

// Decode detects the kind and encoding of data, and decodes it with the
// corresponding format.
func Decode(data []byte) (f *File, warn, err error) {
	kind, enc := calfile.Detect(data)
	var m Model
	switch kind {
	case calfile.KindSkeleton:
		m, warn, err = decode(data, skeleton.Decode)
	case calfile.KindAnimation:
		m, warn, err = decode(data, animation.Decode)
	case calfile.KindMesh:
		m, warn, err = decode(data, mesh.Decode)
	case calfile.KindMorph:
		m, warn, err = decode(data, morph.Decode)
	case calfile.KindMaterial:
		m, warn, err = decode(data, material.Decode)
	default:
		return nil, nil, fmt.Errorf("unrecognized %s file: %w", enc, errors.HeaderError{Sig: calfile.Head(data)})
	}
	if err != nil {
		return nil, warn, fmt.Errorf("decode %s: %w", kind, err)
	}
	return &File{Kind: kind, Encoding: enc, Model: m}, warn, nil
}

// KindOf returns the kind of m.
func KindOf(m Model) calfile.Kind {
	switch m.(type) {
	case *skeleton.Skeleton:
		return calfile.KindSkeleton
	case *animation.Animation:
		return calfile.KindAnimation
	case *mesh.Mesh:
		return calfile.KindMesh
	case *morph.Animation:
		return calfile.KindMorph
	case *material.Material:
		return calfile.KindMaterial
	}
	return calfile.KindInvalid
}

// Encode writes the canonical text of m to w.
func Encode(w io.Writer, m Model) error {
	_, err := m.Document().WriteTo(w)
	return err
}

// EncodeBinary returns the binary encoding of m.
func EncodeBinary(m Model) ([]byte, error) {
	switch m := m.(type) {
	case *skeleton.Skeleton:
		return skeleton.EncodeBinary(m)
	case *animation.Animation:
		return animation.EncodeBinary(m)
	case *mesh.Mesh:
		return mesh.EncodeBinary(m)
	case *morph.Animation:
		return morph.EncodeBinary(m)
	case *material.Material:
		return material.EncodeBinary(m)
	}
	return nil, fmt.Errorf("cannot encode %T", m)
}
