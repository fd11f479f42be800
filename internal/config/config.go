// Package config holds the configuration of the command-line tools.
//
// Values are resolved with the priority defaults < file < flags. The file is
// YAML, and is either named by the -config flag or found in a standard
// location.
package config

import (
	"errors"
	"fmt"
)

// Config is the complete configuration of a tool.
type Config struct {
	Logging   LoggingConfig   `yaml:"logging"`
	Output    OutputConfig    `yaml:"output"`
	Transform TransformConfig `yaml:"transform"`
	Merge     MergeConfig     `yaml:"merge"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// OutputConfig selects how results are written.
type OutputConfig struct {
	// Binary writes the binary encoding instead of canonical text.
	Binary bool `yaml:"binary"`
	// Fingerprint includes the hash of the canonical text in statistics.
	Fingerprint bool `yaml:"fingerprint"`
}

// TransformConfig lists the transforms applied to skeletal animations. They
// are applied in the order Untwitch, Reverse, Stretch, Offset, Lengthen.
type TransformConfig struct {
	Untwitch bool    `yaml:"untwitch"`
	Reverse  bool    `yaml:"reverse"`
	Stretch  float32 `yaml:"stretch"`
	Offset   float32 `yaml:"offset"`
	Lengthen float32 `yaml:"lengthen"`
}

// Identity returns whether the transforms leave an animation unchanged.
func (t TransformConfig) Identity() bool {
	return !t.Untwitch && !t.Reverse && t.Stretch == 1 && t.Offset == 0 && t.Lengthen == 0
}

// MergeConfig holds the window used when merging morph animations.
type MergeConfig struct {
	Start       float32 `yaml:"start"`
	End         float32 `yaml:"end"`
	Duration    float32 `yaml:"duration"`
	BlendFrames int     `yaml:"blend_frames"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Fingerprint: true,
		},
		Transform: TransformConfig{
			Stretch: 1,
		},
		Merge: MergeConfig{
			BlendFrames: 10,
		},
	}
}

var (
	ErrStretch     = errors.New("stretch factor must be positive")
	ErrBlendFrames = errors.New("blend frame count must not be negative")
	ErrMergeWindow = errors.New("merge window ends before it starts")
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Transform.Stretch <= 0 {
		return fmt.Errorf("transform: %w", ErrStretch)
	}
	if c.Merge.BlendFrames < 0 {
		return fmt.Errorf("merge: %w", ErrBlendFrames)
	}
	if c.Merge.End < c.Merge.Start {
		return fmt.Errorf("merge: %w", ErrMergeWindow)
	}
	return nil
}
