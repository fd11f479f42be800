package morph

import "math"

// Keyframe is a sample of the weight of a morph target.
type Keyframe struct {
	Time   float32
	Weight float32
}

// Track is a sequence of keyframes applied to one morph target.
type Track struct {
	MorphName string
	Keyframes []Keyframe
}

// FirstWeight returns the weight of the first keyframe, or 0 if the track
// has no keyframes.
func (t *Track) FirstWeight() float32 {
	if len(t.Keyframes) == 0 {
		return 0
	}
	return t.Keyframes[0].Weight
}

// Animation is a set of morph tracks played over a duration.
type Animation struct {
	Duration float32
	Tracks   []*Track
}

// Track returns the first track of the given morph, or nil.
func (a *Animation) Track(name string) *Track {
	for _, t := range a.Tracks {
		if t.MorphName == name {
			return t
		}
	}
	return nil
}

// FrameRate is the number of frames per second assumed when converting a
// number of blend frames to a time.
const FrameRate = 30

// Margin by which blend times are kept within the animation.
const blendMargin = 0.0001

// BlendTime returns the time spanned by the given number of frames, rounded
// to five decimal places.
func BlendTime(frames int) float32 {
	return float32(math.RoundToEven(float64(frames)/FrameRate*1e5) / 1e5)
}

// MergeWithOffset returns a new animation of the given duration, in which
// the pose of insert is played from start to end over the rest pose of base.
//
// Each track of base becomes a track with a single keyframe at time 0,
// holding the first weight of the track. Each track of insert is matched to a
// track of the result by name, and is added with its own first weight if
// there is no match. When the first weight of an insert track differs from
// the rest weight, four keyframes are appended to the result track, ramping
// from the rest weight to the insert weight over the blend time before start,
// and back again over the blend time after end. The blend time is derived
// from blendFrames. The ramp begins no earlier than 0.0001 and finishes no
// later than 0.0001 before the duration.
func MergeWithOffset(base, insert *Animation, start, end, duration float32, blendFrames int) *Animation {
	merged := &Animation{Duration: duration}
	for _, t := range base.Tracks {
		merged.Tracks = append(merged.Tracks, &Track{
			MorphName: t.MorphName,
			Keyframes: []Keyframe{{Time: 0, Weight: t.FirstWeight()}},
		})
	}

	blend := BlendTime(blendFrames)
	blendIn := start - blend
	if blendIn < blendMargin {
		blendIn = blendMargin
	}
	blendOut := end + blend
	if limit := duration - blendMargin; blendOut > limit {
		blendOut = limit
	}

	for _, t := range insert.Tracks {
		mt := merged.Track(t.MorphName)
		if mt == nil {
			mt = &Track{
				MorphName: t.MorphName,
				Keyframes: []Keyframe{{Time: 0, Weight: t.FirstWeight()}},
			}
			merged.Tracks = append(merged.Tracks, mt)
		}
		restWeight := mt.Keyframes[0].Weight
		weight := t.FirstWeight()
		if restWeight == weight {
			continue
		}
		mt.Keyframes = append(mt.Keyframes,
			Keyframe{Time: blendIn, Weight: restWeight},
			Keyframe{Time: start, Weight: weight},
			Keyframe{Time: end, Weight: weight},
			Keyframe{Time: blendOut, Weight: restWeight},
		)
	}
	return merged
}
