package material

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
)

// DecodeBinary decodes data in the binary encoding.
func DecodeBinary(data []byte) (m *Material, warn, err error) {
	c := bin.NewCursor(data)
	if err := c.Signature(calfile.SigMaterial); err != nil {
		return nil, nil, err
	}
	c.Uint32() // Version.

	m = &Material{}
	m.Ambient = c.Byte4()
	m.Diffuse = c.Byte4()
	m.Specular = c.Byte4()
	m.Shininess = c.Float32()
	n := c.Uint32()
	for i := uint32(0); i < n && c.Err() == nil; i++ {
		var mp Map
		mp.AssetName = c.String()
		mp.Type = c.String()
		m.Maps = append(m.Maps, mp)
	}
	if err := c.Err(); err != nil {
		return nil, nil, err
	}
	return m, nil, nil
}

// DecodeMarkup decodes text in the markup encoding. Both the current and the
// legacy header versions are accepted.
func DecodeMarkup(text string) (m *Material, warn, err error) {
	root, err := markup.Decode(text)
	if err != nil {
		return nil, nil, err
	}
	shininess, err := root.RequireChild("SHININESS")
	if err != nil {
		return nil, nil, err
	}

	m = &Material{Shininess: calfile.ParseFloat(shininess.Text)}
	if v, ok := root.ChildText("AMBIENT"); ok {
		m.Ambient = calfile.ParseByte4(v)
	}
	if v, ok := root.ChildText("DIFFUSE"); ok {
		m.Diffuse = calfile.ParseByte4(v)
	}
	if v, ok := root.ChildText("SPECULAR"); ok {
		m.Specular = calfile.ParseByte4(v)
	}
	for _, t := range root.Children("MAP") {
		typ, err := t.Require("TYPE")
		if err != nil {
			return nil, nil, err
		}
		m.Maps = append(m.Maps, Map{Type: typ, AssetName: t.Text})
	}
	return m, nil, nil
}
