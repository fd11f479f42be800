package morph

import (
	"io"
	"strings"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/bin"
	"github.com/cal3dapi/calfile/xml"
)

// Document returns the canonical markup document of the animation.
func (a *Animation) Document() *xml.Document {
	root := xml.NewTag("ANIMATION",
		xml.A("NUMTRACKS", calfile.FormatInt(len(a.Tracks))),
		xml.A("DURATION", calfile.FormatFloat(a.Duration)),
	)
	for _, t := range a.Tracks {
		tt := xml.NewTag("TRACK",
			xml.A("NUMKEYFRAMES", calfile.FormatInt(len(t.Keyframes))),
			xml.A("MORPHNAME", t.MorphName),
		)
		for _, k := range t.Keyframes {
			tt.Add(xml.NewTag("KEYFRAME", xml.A("TIME", calfile.FormatFloat(k.Time))).Add(
				xml.NewText("WEIGHT", calfile.FormatFloat(k.Weight)),
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

// EncodeBinary returns the animation in the binary encoding.
func EncodeBinary(a *Animation) ([]byte, error) {
	w := bin.NewWriter()
	w.Raw([]byte(calfile.SigMorph))
	w.Uint32(calfile.Version)
	w.Float32(a.Duration)
	w.Uint32(uint32(len(a.Tracks)))
	for _, t := range a.Tracks {
		w.String(t.MorphName)
		w.Uint32(uint32(len(t.Keyframes)))
		for _, k := range t.Keyframes {
			w.Float32(k.Time)
			w.Float32(k.Weight)
		}
	}
	return w.End()
}
