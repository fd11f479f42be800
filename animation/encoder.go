package animation

import (
	"io"
	"strings"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/xml"
)

func formatBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Document returns the canonical markup document of the animation.
func (a *Animation) Document() *xml.Document {
	root := xml.NewTag("ANIMATION",
		xml.A("VERSION", animationVersion),
		xml.A("DURATION", calfile.FormatFloat(a.Duration)),
		xml.A("NUMTRACKS", calfile.FormatInt(len(a.Tracks))),
	)
	for _, t := range a.Tracks {
		tt := xml.NewTag("TRACK",
			xml.A("TRANSLATIONREQUIRED", formatBool(t.TranslationRequired())),
			xml.A("TRANSLATIONISDYNAMIC", "0"),
			xml.A("HIGHRANGEREQUIRED", "0"),
			xml.A("BONEID", calfile.FormatInt(t.BoneID)),
			xml.A("NUMKEYFRAMES", calfile.FormatInt(len(t.Keyframes))),
		)
		for _, k := range t.Keyframes {
			tt.Add(xml.NewTag("KEYFRAME", xml.A("TIME", calfile.FormatFloat(k.Time))).Add(
				xml.NewValue("TRANSLATION", k.Translation.String()),
				xml.NewValue("ROTATION", k.Rotation.String()),
			))
		}
		root.Add(tt)
	}
	return markup.Document(root)
}

// CanonicalText returns the animation in the canonical markup form.
func (a *Animation) CanonicalText() string {
	var buf strings.Builder
	a.Document().WriteTo(&buf)
	return buf.String()
}

// Encode writes the animation to w in the canonical markup form.
func Encode(w io.Writer, a *Animation) error {
	_, err := a.Document().WriteTo(w)
	return err
}

// EncodeBinary returns the animation in the binary encoding. An absent
// translation is written as the sentinel.
func EncodeBinary(a *Animation) ([]byte, error) {
	w := bin.NewWriter()
	w.Raw([]byte(calfile.SigAnimation))
	w.Uint32(calfile.Version)
	w.Uint32(0)
	w.Float32(a.Duration)
	w.Uint32(uint32(len(a.Tracks)))
	for _, t := range a.Tracks {
		w.Int32(t.BoneID)
		w.Uint32(uint32(len(t.Keyframes)))
		for _, k := range t.Keyframes {
			w.Float32(k.Time)
			if k.Translation.Present {
				w.Vector3(k.Translation)
			} else {
				w.Vector3(calfile.NewVector3(TranslationSentinel, TranslationSentinel, TranslationSentinel))
			}
			w.Vector4(k.Rotation)
		}
	}
	return w.End()
}
