package animation

import (
	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
)

// DecodeBinary decodes data in the binary encoding.
func DecodeBinary(data []byte) (a *Animation, warn, err error) {
	c := bin.NewCursor(data)
	if err := c.Signature(calfile.SigAnimation); err != nil {
		return nil, nil, err
	}
	c.Uint32() // Version.
	c.Uint32() // Flags.

	a = &Animation{}
	a.Duration = c.Float32()
	n := c.Uint32()
	for i := uint32(0); i < n && c.Err() == nil; i++ {
		t := &Track{BoneID: c.Int32()}
		nk := c.Uint32()
		for j := uint32(0); j < nk && c.Err() == nil; j++ {
			var k Keyframe
			k.Time = c.Float32()
			k.Translation = c.Vector3()
			k.Rotation = c.Vector4()
			if isSentinel(k.Translation) {
				k.Translation = calfile.Vector3{}
			}
			t.Keyframes = append(t.Keyframes, k)
		}
		a.Tracks = append(a.Tracks, t)
	}
	if err := c.Err(); err != nil {
		return nil, nil, err
	}
	return a, nil, nil
}

func isSentinel(v calfile.Vector3) bool {
	return v.X == TranslationSentinel &&
		v.Y == TranslationSentinel &&
		v.Z == TranslationSentinel
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
		boneID, err := tt.Require("BONEID")
		if err != nil {
			return nil, nil, err
		}
		t := &Track{BoneID: calfile.ParseInt(boneID)}
		for _, kt := range tt.Children("KEYFRAME") {
			time, err := kt.Require("TIME")
			if err != nil {
				return nil, nil, err
			}
			k := Keyframe{Time: calfile.ParseFloat(time)}
			if v, ok := kt.ChildText("TRANSLATION"); ok {
				k.Translation = calfile.ParseVector3(v)
			}
			if v, ok := kt.ChildText("ROTATION"); ok {
				k.Rotation = calfile.ParseVector4(v)
			}
			t.Keyframes = append(t.Keyframes, k)
		}
		a.Tracks = append(a.Tracks, t)
	}
	return a, nil, nil
}
