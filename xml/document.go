// Package xml implements the markup document shared by the markup encodings
// of each format.
//
// A markup file consists of a one-line header tag, followed by a single root
// element:
//
//     <HEADER MAGIC="XSF" VERSION="919" />
//     <SKELETON NUMBONES="1" SCENEAMBIENTCOLOR="1 1 1">
//         ...
//     </SKELETON>
//
// Documents are decoded into a tree of Tags. Whitespace-only text between
// tags is discarded, comments and processing instructions are skipped, and
// CDATA sections are merged into the text of their tag.
//
// Documents are encoded in a canonical form: one tag per line, indented with
// tabs, with CRLF line endings and no line ending after the root tag.
package xml

// Decoder adapted from the standard XML package.

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strconv"
	"strings"
)

// Tag represents an element of a markup document.
type Tag struct {
	// Name is the name of the tag.
	Name string

	// The attributes of the tag, in order of appearance.
	Attr []Attr

	// Empty indicates whether the tag has an empty-tag format. When encoding,
	// the tag will be written in the empty-tag format, and any content will
	// be ignored. When decoding, this value will be set if the decoded tag
	// has the empty-tag format.
	Empty bool

	// Text is the textual content of the tag, excluding any text that
	// consists only of whitespace.
	Text string

	// NoIndent indicates whether the tag is written on a single line, with
	// its text between the start and end tags. Otherwise, the tag is a
	// container, and each child tag is written on its own line.
	//
	// When decoding, this value is set if the tag has no child tags.
	NoIndent bool

	// Tags is a list of child tags within the tag.
	Tags []*Tag

	// Raw, if not empty, is written verbatim in place of the tag when
	// encoding. All other fields are ignored.
	Raw string
}

// Attr represents an attribute of a tag.
type Attr struct {
	Name  string
	Value string
}

// A returns an Attr with the given name and value.
func A(name, value string) Attr {
	return Attr{Name: name, Value: value}
}

// NewTag returns a container tag.
func NewTag(name string, attr ...Attr) *Tag {
	return &Tag{Name: name, Attr: attr}
}

// NewText returns a tag that is written on one line with the given text.
func NewText(name, text string, attr ...Attr) *Tag {
	return &Tag{Name: name, Attr: attr, Text: text, NoIndent: true}
}

// NewValue returns a text tag for a formatted value, or nil if the text is
// empty. Absent values format to empty text, so they are omitted.
func NewValue(name, text string) *Tag {
	if text == "" {
		return nil
	}
	return NewText(name, text)
}

// NewEmpty returns a tag that has the empty-tag format.
func NewEmpty(name string, attr ...Attr) *Tag {
	return &Tag{Name: name, Attr: attr, Empty: true}
}

// NewRaw returns a tag that is written as the given markup.
func NewRaw(raw string) *Tag {
	return &Tag{Raw: raw}
}

// NewHeader returns a header tag with the given magic and version.
func NewHeader(magic string, version int) *Tag {
	return NewEmpty("HEADER", A("MAGIC", magic), A("VERSION", strconv.Itoa(version)))
}

// AttrValue returns the value of the first attribute of the given name, and
// whether or not it exists.
func (t *Tag) AttrValue(name string) (value string, exists bool) {
	for _, a := range t.Attr {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttrValue sets the value of the first attribute of the given name. If
// the attribute does not exist, then it is added.
func (t *Tag) SetAttrValue(name, value string) {
	for i, a := range t.Attr {
		if a.Name == name {
			t.Attr[i].Value = value
			return
		}
	}
	t.Attr = append(t.Attr, Attr{Name: name, Value: value})
}

// Add appends tags to the children of t. Nil tags are skipped. Returns t.
func (t *Tag) Add(tags ...*Tag) *Tag {
	for _, sub := range tags {
		if sub != nil {
			t.Tags = append(t.Tags, sub)
		}
	}
	return t
}

// AttrString returns the value of the attribute of the given name, or an empty
// string if it does not exist.
func (t *Tag) AttrString(name string) string {
	v, _ := t.AttrValue(name)
	return v
}

// Child returns the first child tag of the given name, or nil.
func (t *Tag) Child(name string) *Tag {
	for _, sub := range t.Tags {
		if sub.Name == name {
			return sub
		}
	}
	return nil
}

// Children returns each child tag of the given name.
func (t *Tag) Children(name string) []*Tag {
	var tags []*Tag
	for _, sub := range t.Tags {
		if sub.Name == name {
			tags = append(tags, sub)
		}
	}
	return tags
}

// ChildText returns the text of the first child tag of the given name, and
// whether the child exists.
func (t *Tag) ChildText(name string) (text string, exists bool) {
	sub := t.Child(name)
	if sub == nil {
		return "", false
	}
	return sub.Text, true
}

// OuterXML returns the markup of the tag and its descendants, without any
// whitespace between tags.
func (t *Tag) OuterXML() string {
	var buf strings.Builder
	e := &encoder{Writer: bufio.NewWriter(&buf), compact: true}
	e.encodeTag(t)
	e.flush()
	return buf.String()
}

////////////////////////////////////////////////////////////////

// Document represents an entire markup document.
type Document struct {
	// Header is the header tag that precedes the root tag, or nil if the
	// document has no header.
	Header *Tag

	// Root is the root tag in the document. When decoding, Root is nil if
	// the document contains no tag other than the header.
	Root *Tag
}

// Magic returns the MAGIC attribute of the header, and whether it exists.
func (doc *Document) Magic() (string, bool) {
	if doc.Header == nil {
		return "", false
	}
	return doc.Header.AttrValue("MAGIC")
}

// Version returns the VERSION attribute of the header, and whether it
// exists.
func (doc *Document) Version() (string, bool) {
	if doc.Header == nil {
		return "", false
	}
	return doc.Header.AttrValue("VERSION")
}

// A SyntaxError represents a syntax error in the markup.
type SyntaxError struct {
	Msg  string
	Line int
}

func (e *SyntaxError) Error() string {
	return "XML syntax error on line " + strconv.Itoa(e.Line) + ": " + e.Msg
}

type decoder struct {
	r        io.ByteReader
	buf      bytes.Buffer
	nextByte []byte
	n        int64
	err      error
	line     int
}

// Creates a SyntaxError with the current line number.
func (d *decoder) syntaxError(msg string) error {
	return &SyntaxError{Msg: msg, Line: d.line}
}

func (d *decoder) decodeStartTag(tag *Tag) bool {
	b, ok := d.mustgetc()
	if !ok {
		return false
	}

	if b != '<' {
		d.err = d.syntaxError("expected start tag")
		return false
	}

	if b, ok = d.mustgetc(); !ok {
		return false
	}
	if b == '/' {
		// </: End element; invalid
		d.err = d.syntaxError("unexpected end tag")
		return false
	}

	// Must be an open element like <a href="foo">
	d.ungetc(b)

	if tag.Name, ok = d.name(nameTag); !ok {
		if d.err == nil {
			d.err = d.syntaxError("expected element name after <")
		}
		return false
	}

	for {
		d.space()
		if b, ok = d.mustgetc(); !ok {
			return false
		}
		if b == '/' {
			tag.Empty = true
			if b, ok = d.mustgetc(); !ok {
				return false
			}
			if b != '>' {
				d.err = d.syntaxError("expected /> in element")
				return false
			}
			break
		}
		if b == '>' {
			break
		}
		d.ungetc(b)

		var a Attr
		if a.Name, ok = d.name(nameAttr); !ok {
			if d.err == nil {
				d.err = d.syntaxError("expected attribute name in element")
			}
			return false
		}
		if _, dup := tag.AttrValue(a.Name); dup {
			d.err = d.syntaxError("duplicate attribute " + a.Name + " in element " + tag.Name)
			return false
		}
		d.space()
		if b, ok = d.mustgetc(); !ok {
			return false
		}
		if b != '=' {
			d.err = d.syntaxError("attribute name without = in element")
			return false
		}
		d.space()
		data := d.attrval()
		if data == nil {
			return false
		}
		a.Value = string(data)
		tag.Attr = append(tag.Attr, a)
	}
	return true
}

func (d *decoder) decodeEndTag(tag *Tag) bool {
	// </ has already been read.
	name, ok := d.name(nameTag)
	if !ok {
		if d.err == nil {
			d.err = d.syntaxError("expected element name after </")
		}
		return false
	}
	if name != tag.Name {
		d.err = d.syntaxError("element <" + tag.Name + "> closed by </" + name + ">")
		return false
	}
	d.space()
	b, ok := d.mustgetc()
	if !ok {
		return false
	}
	if b != '>' {
		d.err = d.syntaxError("invalid characters between </" + name + " and >")
		return false
	}
	return true
}

// skipMarkup skips a comment, processing instruction, or declaration, given
// that "<" and the following byte b have been read. For a CDATA section, the
// content is returned.
func (d *decoder) skipMarkup(b byte) (cdata []byte, ok bool) {
	switch b {
	case '?':
		// <?: Processing instruction; skip until ?>.
		var b0 byte
		for {
			if b, ok = d.mustgetc(); !ok {
				return nil, false
			}
			if b0 == '?' && b == '>' {
				return nil, true
			}
			b0 = b
		}
	case '!':
		if b, ok = d.mustgetc(); !ok {
			return nil, false
		}
		switch b {
		case '-':
			// <!-: Comment; skip until -->.
			if b, ok = d.mustgetc(); !ok {
				return nil, false
			}
			if b != '-' {
				d.err = d.syntaxError("invalid sequence <!- not part of <!--")
				return nil, false
			}
			var b0, b1 byte
			for {
				if b, ok = d.mustgetc(); !ok {
					return nil, false
				}
				if b0 == '-' && b1 == '-' && b == '>' {
					return nil, true
				}
				b0, b1 = b1, b
			}
		case '[':
			// <![: CDATA section.
			const opener = "CDATA["
			for i := 0; i < len(opener); i++ {
				if b, ok = d.mustgetc(); !ok {
					return nil, false
				}
				if b != opener[i] {
					d.err = d.syntaxError("invalid <![ sequence")
					return nil, false
				}
			}
			data := d.text(-1, true)
			if data == nil {
				return nil, false
			}
			return data, true
		default:
			// <!: Declaration; skip until >.
			for {
				if b, ok = d.mustgetc(); !ok {
					return nil, false
				}
				if b == '>' {
					return nil, true
				}
			}
		}
	}
	return nil, false
}

func (d *decoder) decodeTag() (tag *Tag, err error) {
	if d.err != nil {
		return nil, d.err
	}

	tag = new(Tag)
	if !d.decodeStartTag(tag) {
		return nil, d.err
	}
	if tag.Empty {
		return tag, nil
	}

	var text bytes.Buffer
	for {
		data := d.text(-1, false)
		if data == nil {
			if d.err == nil || d.err == io.EOF {
				d.err = d.syntaxError("unexpected EOF in element " + tag.Name)
			}
			return nil, d.err
		}
		if len(bytes.TrimLeft(data, " \t\r\n\f")) > 0 {
			text.Write(data)
		}

		// text stops at '<'.
		b, ok := d.mustgetc()
		if !ok {
			return nil, d.err
		}
		if b != '<' {
			d.err = d.syntaxError("expected tag")
			return nil, d.err
		}
		if b, ok = d.mustgetc(); !ok {
			return nil, d.err
		}
		switch b {
		case '/':
			if !d.decodeEndTag(tag) {
				return nil, d.err
			}
			tag.Text = text.String()
			tag.NoIndent = len(tag.Tags) == 0
			return tag, nil
		case '?', '!':
			cdata, ok := d.skipMarkup(b)
			if !ok {
				return nil, d.err
			}
			text.Write(cdata)
		default:
			// child tag
			d.ungetc(b)
			d.ungetc('<')
			sub, err := d.decodeTag()
			if err != nil {
				return nil, err
			}
			tag.Tags = append(tag.Tags, sub)
		}
	}
}

// decodeNext skips whitespace, comments, and other non-element markup, then
// decodes the next tag. Returns a nil tag if the input ends first.
func (d *decoder) decodeNext() (*Tag, error) {
	for {
		d.space()
		b, ok := d.getc()
		if !ok {
			if d.err == io.EOF {
				d.err = nil
				return nil, nil
			}
			return nil, d.err
		}
		if b != '<' {
			d.err = d.syntaxError("expected tag")
			return nil, d.err
		}
		if b, ok = d.mustgetc(); !ok {
			return nil, d.err
		}
		if b == '?' || b == '!' {
			if _, ok := d.skipMarkup(b); !ok {
				return nil, d.err
			}
			continue
		}
		d.ungetc(b)
		d.ungetc('<')
		return d.decodeTag()
	}
}

func (d *decoder) attrval() []byte {
	b, ok := d.mustgetc()
	if !ok {
		return nil
	}
	// Handle quoted attribute values
	if b == '"' || b == '\'' {
		data := d.text(int(b), false)
		if data == nil && d.err == nil {
			d.err = d.syntaxError("unescaped < in attribute value")
		}
		return data
	}

	d.err = d.syntaxError("unquoted or missing attribute value in element")
	return nil
}

// Skip spaces if any
func (d *decoder) space() {
	for {
		b, ok := d.getc()
		if !ok {
			return
		}
		if !isSpace(b) {
			d.ungetc(b)
			return
		}
	}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\r', '\n', '\t', '\f':
		return true
	default:
		return false
	}
}

// Read a single byte.
// If there is no byte to read, return ok==false
// and leave the error in d.err.
// Maintain line number.
func (d *decoder) getc() (b byte, ok bool) {
	if d.err != nil {
		return 0, false
	}

	if len(d.nextByte) > 0 {
		b, d.nextByte = d.nextByte[len(d.nextByte)-1], d.nextByte[:len(d.nextByte)-1]
	} else {
		b, d.err = d.r.ReadByte()
		if d.err != nil {
			return 0, false
		}
		d.n++
	}
	if b == '\n' {
		d.line++
	}

	return b, true
}

// Must read a single byte.
// If there is no byte to read,
// set d.err to SyntaxError("unexpected EOF")
// and return ok==false
func (d *decoder) mustgetc() (b byte, ok bool) {
	if b, ok = d.getc(); !ok {
		if d.err == io.EOF {
			d.err = d.syntaxError("unexpected EOF")
		}
	}
	return
}

// Unread a single byte.
func (d *decoder) ungetc(b byte) {
	if b == '\n' {
		d.line--
	}
	d.nextByte = append(d.nextByte, b)
}

var entity = map[string]rune{
	"lt":   '<',
	"gt":   '>',
	"amp":  '&',
	"apos": '\'',
	"quot": '"',
}

// Read plain text section (XML calls it character data).
// If quote >= 0, we are in a quoted string and need to find the matching quote.
// If cdata == true, we are in a <![CDATA[ section and need to find ]]>.
// On failure return nil and leave the error in d.err.
func (d *decoder) text(quote int, cdata bool) []byte {
	var b0, b1 byte
	var trunc int
	d.buf.Reset()
Input:
	for {
		b, ok := d.getc()
		if !ok {
			if cdata {
				if d.err == io.EOF {
					d.err = d.syntaxError("unexpected EOF in CDATA section")
				}
				return nil
			}
			if quote >= 0 {
				if d.err == io.EOF {
					d.err = d.syntaxError("unexpected EOF in attribute value")
				}
				return nil
			}
			break Input
		}

		// <![CDATA[ section ends with ]]>.
		if b0 == ']' && b1 == ']' && b == '>' {
			if cdata {
				trunc = 2
				break Input
			}
		}

		// Stop reading text if we see a <.
		if b == '<' && !cdata {
			if quote >= 0 {
				return nil
			}
			d.ungetc('<')
			break Input
		}
		if quote >= 0 && b == byte(quote) {
			break Input
		}
		if b == '&' && !cdata {
			// Read escaped character expression up to semicolon. Unknown
			// or incomplete entities are kept as literal text.
			before := d.buf.Len()
			d.buf.WriteByte('&')
			var text string
			var haveText bool
			if b, ok = d.mustgetc(); !ok {
				return nil
			}
			if b == '#' {
				d.buf.WriteByte(b)
				if b, ok = d.mustgetc(); !ok {
					return nil
				}
				base := 10
				if b == 'x' {
					base = 16
					d.buf.WriteByte(b)
					if b, ok = d.mustgetc(); !ok {
						return nil
					}
				}
				start := d.buf.Len()
				for '0' <= b && b <= '9' ||
					base == 16 && 'a' <= b && b <= 'f' ||
					base == 16 && 'A' <= b && b <= 'F' {
					d.buf.WriteByte(b)
					if b, ok = d.mustgetc(); !ok {
						return nil
					}
				}
				if b != ';' {
					d.ungetc(b)
				} else {
					s := string(d.buf.Bytes()[start:])
					d.buf.WriteByte(';')
					n, err := strconv.ParseUint(s, base, 32)
					if err == nil && n <= 0x10FFFF {
						text = string(rune(n))
						haveText = true
					}
				}
			} else {
				d.ungetc(b)
				if !d.readName(nameEntity) {
					if d.err != nil {
						return nil
					}
				}
				if b, ok = d.mustgetc(); !ok {
					return nil
				}
				if b != ';' {
					d.ungetc(b)
				} else {
					name := d.buf.Bytes()[before+1:]
					d.buf.WriteByte(';')
					if r, ok := entity[string(name)]; ok {
						text = string(r)
						haveText = true
					}
				}
			}

			if haveText {
				d.buf.Truncate(before)
				d.buf.WriteString(text)
			}
			b0, b1 = 0, 0
			continue Input
		}

		// We must rewrite unescaped \r and \r\n into \n.
		if b == '\r' {
			d.buf.WriteByte('\n')
		} else if b1 == '\r' && b == '\n' {
			// Skip \r\n--we already wrote \n.
		} else {
			d.buf.WriteByte(b)
		}

		b0, b1 = b1, b
	}
	buf := d.buf.Bytes()
	buf = buf[0 : len(buf)-trunc]

	data := make([]byte, len(buf))
	copy(data, buf)

	return data
}

// Get name: /first(first|second)*/
// Do not set d.err if the name is missing (unless unexpected EOF is received):
// let the caller provide better context.
func (d *decoder) name(typ int) (s string, ok bool) {
	d.buf.Reset()
	if !d.readName(typ) {
		return "", false
	}

	return d.buf.String(), true
}

// Read a name and append its bytes to d.buf.
// The name is delimited by any single-byte character not valid in names.
// All multi-byte characters are accepted; the caller must check their validity.
func (d *decoder) readName(typ int) (ok bool) {
	var b byte
	if b, ok = d.mustgetc(); !ok {
		return
	}
	if !isNameByte(b, typ) {
		d.ungetc(b)
		return false
	}
	d.buf.WriteByte(b)

	for {
		if b, ok = d.mustgetc(); !ok {
			return
		}
		if !isNameByte(b, typ) {
			d.ungetc(b)
			break
		}
		d.buf.WriteByte(b)
	}
	return true
}

const (
	nameTag = iota
	nameAttr
	nameEntity
)

func isNameByte(c byte, t int) bool {
	if c >= 0x80 {
		return true
	}
	if '!' <= c && c <= '~' && c != '>' && c != '/' && c != '<' && c != '"' && c != '\'' {
		switch t {
		case nameAttr:
			return c != '='
		case nameEntity:
			return c != ';'
		}
		return true
	}
	return false
}

// ReadFrom decodes data from r into the Document. If the first tag is named
// HEADER, it is decoded as the header, and the tag that follows is decoded as
// the root. Content after the root tag is ignored.
func (doc *Document) ReadFrom(r io.Reader) (n int64, err error) {
	if r == nil {
		return 0, errors.New("reader is nil")
	}

	doc.Header = nil
	doc.Root = nil

	d := &decoder{
		nextByte: make([]byte, 0, 9),
		line:     1,
	}
	if rb, ok := r.(io.ByteReader); ok {
		d.r = rb
	} else {
		d.r = bufio.NewReader(r)
	}

	// Byte order mark.
	if b, ok := d.getc(); ok {
		if b == 0xEF {
			d.getc()
			d.getc()
		} else {
			d.ungetc(b)
		}
	} else if d.err == io.EOF {
		return d.n, nil
	}

	tag, err := d.decodeNext()
	if err != nil {
		return d.n, err
	}
	if tag != nil && tag.Name == "HEADER" {
		doc.Header = tag
		if tag, err = d.decodeNext(); err != nil {
			return d.n, err
		}
	}
	doc.Root = tag
	return d.n, nil
}

// Parse decodes a Document from text.
func Parse(text string) (*Document, error) {
	doc := new(Document)
	if _, err := doc.ReadFrom(strings.NewReader(text)); err != nil {
		return nil, err
	}
	return doc, nil
}

////////////////////////////////////////////////////////////////

const (
	indent  = "\t"
	newline = "\r\n"
)

type encoder struct {
	*bufio.Writer
	compact bool
	depth   int
	n       int64
	err     error
}

func (e *encoder) encodeTag(tag *Tag) bool {
	if e.err != nil {
		return false
	}

	if tag.Raw != "" {
		return e.writeString(tag.Raw)
	}

	e.writeByte('<')
	e.writeString(tag.Name)
	for _, attr := range tag.Attr {
		e.writeByte(' ')
		e.writeString(attr.Name)
		e.writeString(`="`)
		e.escapeString(attr.Value, true)
		e.writeByte('"')
	}

	if tag.Empty {
		return e.writeString(" />")
	}
	e.writeByte('>')

	if tag.NoIndent || e.compact {
		e.escapeString(tag.Text, false)
		if e.compact {
			for _, sub := range tag.Tags {
				if !e.encodeTag(sub) {
					return false
				}
			}
		}
	} else {
		e.writeString(newline)
		e.depth++
		for _, sub := range tag.Tags {
			e.writeIndent()
			if !e.encodeTag(sub) {
				return false
			}
			e.writeString(newline)
		}
		e.depth--
		e.writeIndent()
	}

	e.writeString("</")
	e.writeString(tag.Name)
	return e.writeByte('>')
}

func (e *encoder) writeIndent() {
	for i := 0; i < e.depth; i++ {
		e.writeString(indent)
	}
}

func (e *encoder) writeByte(b byte) bool {
	if e.err != nil {
		return false
	}
	if err := e.WriteByte(b); err != nil {
		e.err = err
		return false
	}
	e.n += 1
	return true
}

func (e *encoder) writeString(s string) bool {
	if e.err != nil {
		return false
	}
	n, err := e.WriteString(s)
	e.n += int64(n)
	if err != nil {
		e.err = err
		return false
	}
	return true
}

func (e *encoder) flush() bool {
	if e.err != nil {
		return false
	}
	if err := e.Flush(); err != nil {
		e.err = err
		return false
	}
	return true
}

// escapeString writes s with markup characters escaped. Quotes are escaped
// only within attribute values.
func (e *encoder) escapeString(s string, attr bool) {
	last := 0
	for i := 0; i < len(s); i++ {
		var esc string
		switch s[i] {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			if !attr {
				continue
			}
			esc = "&quot;"
		default:
			continue
		}
		e.writeString(s[last:i])
		e.writeString(esc)
		last = i + 1
	}
	e.writeString(s[last:])
}

// WriteTo encodes the Document in canonical form to w.
func (doc *Document) WriteTo(w io.Writer) (n int64, err error) {
	e := &encoder{Writer: bufio.NewWriter(w)}

	if doc.Header != nil {
		e.encodeTag(doc.Header)
		e.writeString(newline)
	}
	if doc.Root != nil {
		e.encodeTag(doc.Root)
	}
	e.flush()
	return e.n, e.err
}

// String returns the canonical form of the Document.
func (doc *Document) String() string {
	var buf strings.Builder
	doc.WriteTo(&buf)
	return buf.String()
}
