// The cal3d-conv command rewrites a Cal3D file in its canonical form.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/cal3dapi/calfile/animation"
	"github.com/cal3dapi/calfile/internal/asset"
	"github.com/cal3dapi/calfile/internal/config"
	"github.com/cal3dapi/calfile/internal/logger"
	"go.uber.org/zap"
)

const usage = `usage: cal3d-conv [FLAGS] [INPUT] [OUTPUT]

Reads a skeleton, animation, mesh, morph animation, or material file in either
encoding from INPUT, and writes to OUTPUT the canonical text of the file. With
-binary, the binary encoding is written instead.

Transform flags apply only to skeletal animations. They are applied in the
order -untwitch, -reverse, -stretch, -offset, -lengthen.

INPUT and OUTPUT are paths to files. If INPUT is "-" or unspecified, then stdin
is used. If OUTPUT is "-" or unspecified, then stdout is used. Warnings and
errors are written to stderr.

FLAGS:
`

// transform applies the configured transforms to a.
func transform(a *animation.Animation, t config.TransformConfig) {
	if t.Untwitch {
		a.Untwitch()
	}
	if t.Reverse {
		a.ReverseAndAppend()
	}
	if t.Stretch != 1 {
		a.Stretch(t.Stretch)
	}
	if t.Offset != 0 {
		a.Offset(t.Offset)
	}
	if t.Lengthen != 0 {
		a.LengthenLastFrame(t.Lengthen)
	}
}

// convert decodes data and writes the result to output.
func convert(output io.Writer, data []byte, cfg *config.Config) error {
	f, warn, err := asset.Decode(data)
	if warn != nil {
		logger.Warn("decode warning", zap.Error(warn))
	}
	if err != nil {
		return err
	}
	logger.Debug("decoded", zap.Stringer("kind", f.Kind), zap.Stringer("encoding", f.Encoding))

	if a, ok := f.Model.(*animation.Animation); ok && !cfg.Transform.Identity() {
		transform(a, cfg.Transform)
		logger.Debug("transformed", zap.Float32("duration", a.Duration))
	}

	if cfg.Output.Binary {
		b, err := asset.EncodeBinary(f.Model)
		if err != nil {
			return fmt.Errorf("encode: %w", err)
		}
		_, err = output.Write(b)
		return err
	}
	return asset.Encode(output, f.Model)
}

func main() {
	var input io.Reader = os.Stdin
	var output io.Writer = os.Stdout

	flags := config.NewFlags(flag.CommandLine, config.SectionOutput|config.SectionTransform)
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
	name := "-"
	if len(args) >= 1 && args[0] != "-" {
		name = args[0]
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
		logger.Error("read input", zap.String("input", name), zap.Error(err))
		return
	}
	if err := convert(output, data, cfg); err != nil {
		logger.Error("convert", zap.String("input", name), zap.Error(err))
	}
}
