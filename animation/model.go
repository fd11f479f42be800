package animation

import (
	"sort"

	"github.com/cal3dapi/calfile"
)

// Keyframe is a sample of the transform of a bone.
type Keyframe struct {
	Time        float32
	Translation calfile.Vector3
	Rotation    calfile.Vector4
}

// Track is a sequence of keyframes applied to one bone.
type Track struct {
	BoneID    int32
	Keyframes []Keyframe
}

// TranslationRequired returns whether any keyframe of the track has a
// translation.
func (t *Track) TranslationRequired() bool {
	for _, k := range t.Keyframes {
		if k.Translation.Present {
			return true
		}
	}
	return false
}

// Animation is a set of tracks played over a duration.
type Animation struct {
	Duration float32
	Tracks   []*Track
}

// Offset shifts the animation later in time by d, increasing the duration
// by the same amount.
func (a *Animation) Offset(d float32) {
	a.Duration += d
	for _, t := range a.Tracks {
		for i := range t.Keyframes {
			t.Keyframes[i].Time += d
		}
	}
}

// Stretch scales the duration and the time of every keyframe by factor.
func (a *Animation) Stretch(factor float32) {
	a.Duration *= factor
	for _, t := range a.Tracks {
		for i := range t.Keyframes {
			t.Keyframes[i].Time *= factor
		}
	}
}

// LengthenLastFrame increases the duration by d without moving any
// keyframe, which holds the final pose for longer.
func (a *Animation) LengthenLastFrame(d float32) {
	a.Duration += d
}

// Untwitch reduces every track to a static pose. Keyframes beyond the first
// two are removed, and the second keyframe, if any, receives the transform of
// the first.
func (a *Animation) Untwitch() {
	for _, t := range a.Tracks {
		if len(t.Keyframes) > 2 {
			t.Keyframes = t.Keyframes[:2]
		}
		if len(t.Keyframes) == 2 {
			t.Keyframes[1].Translation = t.Keyframes[0].Translation
			t.Keyframes[1].Rotation = t.Keyframes[0].Rotation
		}
	}
}

// ReverseAndAppend doubles the duration, and appends to each track a mirror
// of its keyframes, so that the track plays forward and then backward.
//
// Mirrored keyframes have a time of the new duration minus the original
// time, and are appended in order of descending original time. A keyframe
// whose mirror would fall on the new duration is not mirrored.
func (a *Animation) ReverseAndAppend() {
	a.Duration *= 2
	for _, t := range a.Tracks {
		desc := make([]Keyframe, len(t.Keyframes))
		copy(desc, t.Keyframes)
		sort.SliceStable(desc, func(i, j int) bool {
			return desc[i].Time > desc[j].Time
		})
		for _, k := range desc {
			mirror := a.Duration - k.Time
			if mirror == a.Duration {
				continue
			}
			k.Time = mirror
			t.Keyframes = append(t.Keyframes, k)
		}
	}
}
