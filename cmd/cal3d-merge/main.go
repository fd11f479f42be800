// The cal3d-merge command plays the pose of one morph animation over the
// rest pose of another.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cal3dapi/calfile/internal/config"
	"github.com/cal3dapi/calfile/internal/logger"
	"github.com/cal3dapi/calfile/morph"
	"go.uber.org/zap"
)

const usage = `usage: cal3d-merge [FLAGS] BASE INSERT [OUTPUT]

Reads the morph animations BASE and INSERT in either encoding, and writes to
OUTPUT an animation that holds the rest pose of BASE, except between -start
and -end, where the pose of INSERT is held. The pose is blended in and out
over -blend-frames frames at 30 frames per second. If -duration is not set,
the duration of BASE is used.

If OUTPUT is "-" or unspecified, then stdout is used. Warnings and errors are
written to stderr.

FLAGS:
`

func readMorph(path string) (*morph.Animation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	a, warn, err := morph.Decode(data)
	if warn != nil {
		logger.Warn("decode warning", zap.String("input", path), zap.Error(warn))
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return a, nil
}

// merge combines base and insert according to cfg, and writes the result
// to output.
func merge(output io.Writer, base, insert *morph.Animation, cfg *config.Config) error {
	duration := cfg.Merge.Duration
	if duration == 0 {
		duration = base.Duration
	}
	m := morph.MergeWithOffset(base, insert, cfg.Merge.Start, cfg.Merge.End, duration, cfg.Merge.BlendFrames)
	logger.Debug("merged",
		zap.Int("tracks", len(m.Tracks)),
		zap.Float32("duration", m.Duration),
		zap.Float32("blend", morph.BlendTime(cfg.Merge.BlendFrames)),
	)
	if cfg.Output.Binary {
		b, err := morph.EncodeBinary(m)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		_, err = output.Write(b)
		return err
	}
	return morph.Encode(output, m)
}

func main() {
	var output io.Writer = os.Stdout

	flags := config.NewFlags(flag.CommandLine, config.SectionOutput|config.SectionMerge)
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
	if len(args) < 2 {
		flag.Usage()
		os.Exit(2)
	}
	base, err := readMorph(args[0])
	if err != nil {
		logger.Error("read base", zap.Error(err))
		return
	}
	insert, err := readMorph(args[1])
	if err != nil {
		logger.Error("read insert", zap.Error(err))
		return
	}

	if len(args) >= 3 && args[2] != "-" {
		out, err := os.Create(args[2])
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

	if err := merge(output, base, insert, cfg); err != nil {
		logger.Error("merge", zap.Error(err))
	}
}
