package material

import "github.com/cal3dapi/calfile"

// Map names the asset used for one type of texture map.
type Map struct {
	Type      string
	AssetName string
}

// Material describes the appearance of a surface.
type Material struct {
	Ambient   calfile.Byte4
	Diffuse   calfile.Byte4
	Specular  calfile.Byte4
	Shininess float32
	Maps      []Map
}

// Map returns the asset name of the first map of the given type, and whether
// it exists.
func (m *Material) Map(typ string) (asset string, ok bool) {
	for _, mp := range m.Maps {
		if mp.Type == typ {
			return mp.AssetName, true
		}
	}
	return "", false
}
