// The errors package provides the error primitives shared by each format.
package errors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

func New(text string) error {
	return errors.New(text)
}

func Unwrap(err error) error {
	return errors.Unwrap(err)
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

var (
	// Indicates that data does not begin with a recognized signature or
	// header.
	ErrMalformedHeader = errors.New("malformed header")
	// Indicates a read past the end of a buffer.
	ErrBufferExhausted = errors.New("buffer exhausted")
	// Indicates that a required markup element or attribute is absent.
	ErrMissingElement = errors.New("missing structural element")
	// Indicates that a bone refers to a parent that has not been read.
	ErrUnresolvedParent = errors.New("unresolved parent reference")
	// Indicates that a bone id occurs more than once within a skeleton.
	ErrDuplicateBone = errors.New("duplicate bone id")
	// Indicates non-zero content in space presumed to be reserved.
	ErrReservedData = errors.New("unsupported reserved data")
	// Indicates a vertex with no bone influences, or influences that sum to
	// zero, which cannot be normalized.
	ErrNoInfluences = errors.New("vertex has no usable influences")
	// Indicates a blend vertex that refers to a vertex not in its submesh.
	ErrUnresolvedVertex = errors.New("unresolved vertex reference")
)

// HeaderError indicates an unexpected signature at the start of data, or an
// unexpected markup header.
type HeaderError struct {
	// Expected is the signature or header magic of the format being decoded.
	Expected string
	// Sig is the signature or magic that was found.
	Sig string
}

func (err HeaderError) Error() string {
	return fmt.Sprintf("malformed header: expected %q, got %q", err.Expected, err.Sig)
}

func (err HeaderError) Unwrap() error {
	return ErrMalformedHeader
}

// DataError wraps an error that occurred while decoding or encoding byte
// data.
type DataError struct {
	// Offset is the byte offset where the error occurred.
	Offset int64

	Cause error
}

func (err DataError) Error() string {
	var s strings.Builder
	s.WriteString("data error")
	if err.Offset >= 0 {
		s.WriteString(" at ")
		s.Write(strconv.AppendInt(nil, err.Offset, 10))
	}
	if err.Cause != nil {
		s.WriteString(": ")
		s.WriteString(err.Cause.Error())
	}
	return s.String()
}

func (err DataError) Unwrap() error {
	return err.Cause
}

// MissingError indicates that a required element or attribute is absent
// from a markup document.
type MissingError struct {
	// Element is the name of the element that is missing, or that is missing
	// the attribute.
	Element string
	// Attr is the name of the missing attribute. Empty if the element itself
	// is missing.
	Attr string
}

func (err MissingError) Error() string {
	if err.Attr == "" {
		return "missing element " + err.Element
	}
	return "element " + err.Element + " missing attribute " + err.Attr
}

func (err MissingError) Unwrap() error {
	return ErrMissingElement
}

// ParentError indicates that a bone refers to a parent that does not precede
// it.
type ParentError struct {
	BoneID   int32
	ParentID int32
}

func (err ParentError) Error() string {
	return fmt.Sprintf("bone %d: could not find parent bone with ID %d", err.BoneID, err.ParentID)
}

func (err ParentError) Unwrap() error {
	return ErrUnresolvedParent
}

// ReservedError indicates non-zero content within the reserved block of a
// skeleton bone. Such content suggests an unsupported variant of the format.
type ReservedError struct {
	BoneID int32
	// Offset is the byte offset of the reserved block.
	Offset int64
	// Uints is the content of the block as unsigned integers.
	Uints [4]uint32
	// Floats is the content of the block as floating-point numbers.
	Floats [4]float32
}

func (err ReservedError) Error() string {
	return fmt.Sprintf("bone %d: reserved block at %d is non-zero: %v (%v)", err.BoneID, err.Offset, err.Uints, err.Floats)
}

func (err ReservedError) Unwrap() error {
	return ErrReservedData
}

// Union receives a number of errors and combines them into one error. Returns
// nil if all errs are nil.
func Union(errs ...error) error {
	return multierr.Combine(errs...)
}

// List returns the individual errors that were combined into err.
func List(err error) []error {
	return multierr.Errors(err)
}
