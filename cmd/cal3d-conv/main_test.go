package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/animation"
	"github.com/cal3dapi/calfile/internal/config"
)

func newAnimation() *animation.Animation {
	return &animation.Animation{Duration: 2, Tracks: []*animation.Track{{
		BoneID: 0,
		Keyframes: []animation.Keyframe{
			{Time: 0, Rotation: calfile.NewVector4(0, 0, 0, 1)},
			{Time: 2, Rotation: calfile.NewVector4(0, 0, 0, 1)},
		},
	}}}
}

func TestTransformOrder(t *testing.T) {
	a := newAnimation()
	transform(a, config.TransformConfig{Stretch: 2, Offset: 1, Lengthen: 0.5})
	// Stretched to 4, offset to 5, then lengthened to 5.5.
	if a.Duration != 5.5 {
		t.Errorf("expected duration 5.5, got %v", a.Duration)
	}
	k := a.Tracks[0].Keyframes
	if len(k) != 2 || k[0].Time != 1 || k[1].Time != 5 {
		t.Errorf("unexpected keyframes %+v", k)
	}
}

func TestConvert(t *testing.T) {
	data, err := animation.EncodeBinary(newAnimation())
	if err != nil {
		t.Fatal(err)
	}

	cfg := config.Default()
	var out strings.Builder
	if err := convert(&out, data, cfg); err != nil {
		t.Fatal(err)
	}
	if s := out.String(); s != newAnimation().CanonicalText() {
		t.Errorf("unexpected output %q", s)
	}

	cfg.Output.Binary = true
	cfg.Transform.Offset = 1
	var bout bytes.Buffer
	if err := convert(&bout, data, cfg); err != nil {
		t.Fatal(err)
	}
	a, _, err := animation.DecodeBinary(bout.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	if a.Duration != 3 {
		t.Errorf("expected duration 3, got %v", a.Duration)
	}
}

func TestConvertError(t *testing.T) {
	var out strings.Builder
	if err := convert(&out, []byte("nope"), config.Default()); err == nil {
		t.Error("expected error")
	}
	if out.Len() != 0 {
		t.Errorf("unexpected output %q", out.String())
	}
}
