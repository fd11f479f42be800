package config

import "flag"

// Section selects a group of flags that a tool accepts.
type Section int

const (
	SectionOutput Section = 1 << iota
	SectionTransform
	SectionMerge
)

// Flags holds the command-line flags that override configuration values.
// Every tool accepts -config, -debug and -log-file.
type Flags struct {
	set *flag.FlagSet

	config  *string
	debug   *bool
	logFile *string

	binary        *bool
	noFingerprint *bool

	untwitch *bool
	reverse  *bool
	stretch  *float64
	offset   *float64
	lengthen *float64

	start       *float64
	end         *float64
	duration    *float64
	blendFrames *int
}

// NewFlags defines flags for the given sections on fs.
func NewFlags(fs *flag.FlagSet, sections Section) *Flags {
	f := &Flags{set: fs}
	f.config = fs.String("config", "", "Path to config file")
	f.debug = fs.Bool("debug", false, "Enable debug logging")
	f.logFile = fs.String("log-file", "", "Also write log entries to `path`")

	if sections&SectionOutput != 0 {
		f.binary = fs.Bool("binary", false, "Write the binary encoding instead of canonical text")
		f.noFingerprint = fs.Bool("no-fingerprint", false, "Omit the fingerprint of the canonical text")
	}
	if sections&SectionTransform != 0 {
		f.untwitch = fs.Bool("untwitch", false, "Reduce every track to a static pose")
		f.reverse = fs.Bool("reverse", false, "Append the animation played backward")
		f.stretch = fs.Float64("stretch", 1, "Multiply every time by `factor`")
		f.offset = fs.Float64("offset", 0, "Add `seconds` to every time")
		f.lengthen = fs.Float64("lengthen", 0, "Hold the last keyframe for `seconds`")
	}
	if sections&SectionMerge != 0 {
		f.start = fs.Float64("start", 0, "Start of the merge window in `seconds`")
		f.end = fs.Float64("end", 0, "End of the merge window in `seconds`")
		f.duration = fs.Float64("duration", 0, "Duration of the merged animation in `seconds`")
		f.blendFrames = fs.Int("blend-frames", 10, "Number of frames blended at each edge of the window")
	}
	return f
}

// ConfigPath returns the explicit config path if provided via -config.
func (f *Flags) ConfigPath() string {
	return *f.config
}

// apply overrides cfg with every flag that was set explicitly.
func (f *Flags) apply(cfg *Config) {
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if *f.debug {
				cfg.Logging.Level = "debug"
			}
		case "log-file":
			cfg.Logging.LogFile = *f.logFile
		case "binary":
			cfg.Output.Binary = *f.binary
		case "no-fingerprint":
			cfg.Output.Fingerprint = !*f.noFingerprint
		case "untwitch":
			cfg.Transform.Untwitch = *f.untwitch
		case "reverse":
			cfg.Transform.Reverse = *f.reverse
		case "stretch":
			cfg.Transform.Stretch = float32(*f.stretch)
		case "offset":
			cfg.Transform.Offset = float32(*f.offset)
		case "lengthen":
			cfg.Transform.Lengthen = float32(*f.lengthen)
		case "start":
			cfg.Merge.Start = float32(*f.start)
		case "end":
			cfg.Merge.End = float32(*f.end)
		case "duration":
			cfg.Merge.Duration = float32(*f.duration)
		case "blend-frames":
			cfg.Merge.BlendFrames = *f.blendFrames
		}
	})
}
