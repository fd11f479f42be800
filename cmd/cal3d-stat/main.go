// The cal3d-stat command displays stats for a Cal3D file.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cal3dapi/calfile"
	"github.com/cal3dapi/calfile/animation"
	"github.com/cal3dapi/calfile/errors"
	"github.com/cal3dapi/calfile/internal/asset"
	"github.com/cal3dapi/calfile/internal/config"
	"github.com/cal3dapi/calfile/internal/logger"
	"github.com/cal3dapi/calfile/material"
	"github.com/cal3dapi/calfile/mesh"
	"github.com/cal3dapi/calfile/morph"
	"github.com/cal3dapi/calfile/skeleton"
	"go.uber.org/zap"
)

const usage = `usage: cal3d-stat [FLAGS] [INPUT] [OUTPUT]

Reads a skeleton, animation, mesh, morph animation, or material file in either
encoding from INPUT, and writes to OUTPUT statistics for the file as JSON.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

FLAGS:
`

// MorphLen is the size of one morph target.
type MorphLen struct {
	Submesh int
	Name    string
	Length  int
}

func (m MorphLen) String() string {
	return fmt.Sprintf("%d.%s(%d)", m.Submesh, m.Name, m.Length)
}

// MorphLens marshals as the largest morphs first, limited to 20.
type MorphLens []MorphLen

func (p MorphLens) MarshalJSON() ([]byte, error) {
	list := make([]MorphLen, len(p))
	copy(list, p)
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Length > list[j].Length
	})
	if len(list) > 20 {
		list = list[:20]
	}
	return json.Marshal(list)
}

type Stats struct {
	Kind     string
	Encoding string

	// Hash of the canonical text.
	Fingerprint string `json:",omitempty"`

	// Skeleton.
	BoneCount int `json:",omitempty"`
	RootCount int `json:",omitempty"`
	MaxDepth  int `json:",omitempty"`

	// Skeletal and morph animations.
	Duration      float32 `json:",omitempty"`
	TrackCount    int     `json:",omitempty"`
	KeyframeCount int     `json:",omitempty"`

	// Number of tracks that carry translations.
	TranslatedTrackCount int `json:",omitempty"`

	// Mesh.
	SubmeshCount  int `json:",omitempty"`
	VertexCount   int `json:",omitempty"`
	FaceCount     int `json:",omitempty"`
	SpringCount   int `json:",omitempty"`
	MorphCount    int `json:",omitempty"`
	RawMorphCount int `json:",omitempty"`

	// Number of vertices per number of influences.
	InfluenceCount map[int]int `json:",omitempty"`

	LargestMorphs MorphLens `json:",omitempty"`

	// Material.
	MapTypes []string `json:",omitempty"`
}

func (s *Stats) Fill(f *asset.File) {
	if f == nil {
		return
	}
	s.Kind = f.Kind.String()
	s.Encoding = f.Encoding.String()

	switch m := f.Model.(type) {
	case *skeleton.Skeleton:
		s.BoneCount = m.Len()
		s.RootCount = len(m.Roots())
		m.Walk(func(b *skeleton.Bone, depth int) bool {
			if depth > s.MaxDepth {
				s.MaxDepth = depth
			}
			return true
		})

	case *animation.Animation:
		s.Duration = m.Duration
		s.TrackCount = len(m.Tracks)
		for _, t := range m.Tracks {
			s.KeyframeCount += len(t.Keyframes)
			if t.TranslationRequired() {
				s.TranslatedTrackCount++
			}
		}

	case *morph.Animation:
		s.Duration = m.Duration
		s.TrackCount = len(m.Tracks)
		for _, t := range m.Tracks {
			s.KeyframeCount += len(t.Keyframes)
		}

	case *mesh.Mesh:
		s.SubmeshCount = len(m.Submeshes)
		s.InfluenceCount = map[int]int{}
		for i, sub := range m.Submeshes {
			s.VertexCount += len(sub.Vertices)
			s.FaceCount += len(sub.Faces)
			s.SpringCount += len(sub.Springs)
			s.MorphCount += sub.NumMorphs()
			s.RawMorphCount += len(sub.RawMorphs)
			for _, v := range sub.Vertices {
				s.InfluenceCount[len(v.Influences)]++
			}
			for _, mp := range sub.Morphs {
				s.LargestMorphs = append(s.LargestMorphs, MorphLen{
					Submesh: i,
					Name:    mp.Name,
					Length:  len(mp.BlendVertices),
				})
			}
		}

	case *material.Material:
		for _, mp := range m.Maps {
			s.MapTypes = append(s.MapTypes, mp.Type)
		}
	}
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	flags := config.NewFlags(flag.CommandLine, config.SectionOutput)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("config: %w", err))
		os.Exit(2)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("logger: %w", err))
		os.Exit(2)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) >= 1 && args[0] != "-" {
		in, err := os.Open(args[0])
		if err != nil {
			logger.Error("open input", zap.Error(err))
			return
		}
		input = in
		defer in.Close()
	}
	if len(args) >= 2 && args[1] != "-" {
		out, err := os.Create(args[1])
		if err != nil {
			logger.Error("create output", zap.Error(err))
			return
		}
		defer out.Close()
		defer func() {
			if err := out.Sync(); err != nil {
				logger.Error("sync output", zap.Error(err))
			}
		}()
		output = out
	}

	data, err := io.ReadAll(input)
	if err != nil {
		logger.Error("read input", zap.Error(err))
		return
	}

	var stats Stats
	f, warn, err := asset.Decode(data)
	if warn != nil {
		for _, w := range errors.List(warn) {
			logger.Warn("decode warning", zap.Error(w))
		}
	}
	if err != nil {
		logger.Error("decode error", zap.Error(err))
		return
	}
	stats.Fill(f)
	if cfg.Output.Fingerprint {
		stats.Fingerprint = calfile.Fingerprint(f.Model.CanonicalText())
	}

	je := json.NewEncoder(output)
	je.SetEscapeHTML(false)
	je.SetIndent("", "\t")
	if err := je.Encode(stats); err != nil {
		logger.Error("write error", zap.Error(err))
	}
}
