package xml

import (
	"strconv"
	"strings"

	"github.com/cal3dapi/calfile/errors"
)

// Format describes the markup encoding of one kind of file.
type Format struct {
	// Magic is the value of the MAGIC attribute of the header.
	Magic string
	// Root is the name of the root tag.
	Root string
	// Version is the value of the VERSION attribute of an encoded header.
	Version int
	// Accept lists the versions accepted when decoding. If empty, any
	// version is accepted.
	Accept []int
}

// Decode parses text and returns its root tag. If the document has a header,
// its magic and version are checked. Returns a MissingError if the document
// has no root tag of the expected name.
func (f Format) Decode(text string) (root *Tag, err error) {
	doc, err := Parse(text)
	if err != nil {
		return nil, err
	}
	if doc.Header != nil {
		magic, _ := doc.Magic()
		if magic != f.Magic {
			return nil, errors.HeaderError{Expected: f.Magic, Sig: magic}
		}
		if len(f.Accept) > 0 {
			version, _ := doc.Version()
			if !f.accepts(version) {
				return nil, errors.HeaderError{Expected: f.Magic + " " + strconv.Itoa(f.Accept[0]), Sig: magic + " " + version}
			}
		}
	}
	if doc.Root == nil || doc.Root.Name != f.Root {
		return nil, errors.MissingError{Element: f.Root}
	}
	return doc.Root, nil
}

func (f Format) accepts(version string) bool {
	v, err := strconv.Atoi(strings.TrimSpace(version))
	if err != nil {
		return false
	}
	for _, a := range f.Accept {
		if a == v {
			return true
		}
	}
	return false
}

// Document returns a document with a header for the format and the given
// root tag.
func (f Format) Document(root *Tag) *Document {
	return &Document{Header: NewHeader(f.Magic, f.Version), Root: root}
}

// Require returns the value of the attribute of the given name, or a
// MissingError if it does not exist.
func (t *Tag) Require(name string) (string, error) {
	v, ok := t.AttrValue(name)
	if !ok {
		return "", errors.MissingError{Element: t.Name, Attr: name}
	}
	return v, nil
}

// RequireChild returns the first child tag of the given name, or a
// MissingError if it does not exist.
func (t *Tag) RequireChild(name string) (*Tag, error) {
	sub := t.Child(name)
	if sub == nil {
		return nil, errors.MissingError{Element: name}
	}
	return sub, nil
}
