package morph

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
)

// DecodeBinary decodes data in the binary encoding.
func DecodeBinary(data []byte) (a *Animation, warn, err error) {
	c := bin.NewCursor(data)
	if err := c.Signature(calfile.SigMorph); err != nil {
		return nil, nil, err
	}
	c.Uint32() // Version.

	a = &Animation{Duration: c.Float32()}
	n := c.Uint32()
	for i := uint32(0); i < n && c.Err() == nil; i++ {
		t := &Track{MorphName: c.String()}
		nk := c.Uint32()
		for j := uint32(0); j < nk && c.Err() == nil; j++ {
			var k Keyframe
			k.Time = c.Float32()
			k.Weight = c.Float32()
			t.Keyframes = append(t.Keyframes, k)
		}
		a.Tracks = append(a.Tracks, t)
	}
	if err := c.Err(); err != nil {
		return nil, nil, err
	}
	return a, nil, nil
}

// DecodeMarkup decodes text in the markup encoding.
func DecodeMarkup(text string) (a *Animation, warn, err error) {
	root, err := markup.Decode(text)
	if err != nil {
		return nil, nil, err
	}

	duration, err := root.Require("DURATION")
	if err != nil {
		return nil, nil, err
	}

	a = &Animation{Duration: calfile.ParseFloat(duration)}
	for _, tt := range root.Children("TRACK") {
		name, err := tt.Require("MORPHNAME")
		if err != nil {
			return nil, nil, err
		}
		t := &Track{MorphName: name}
		for _, kt := range tt.Children("KEYFRAME") {
			time, err := kt.Require("TIME")
			if err != nil {
				return nil, nil, err
			}
			weight, err := kt.RequireChild("WEIGHT")
			if err != nil {
				return nil, nil, err
			}
			t.Keyframes = append(t.Keyframes, Keyframe{
				Time:   calfile.ParseFloat(time),
				Weight: calfile.ParseFloat(weight.Text),
			})
		}
		a.Tracks = append(a.Tracks, t)
	}
	return a, nil, nil
}
