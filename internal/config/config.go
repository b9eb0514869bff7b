// Copyright 2025 Florian Zenker (flo@znkr.io)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config provides shared configuration mechanisms for the packages of this module.
//
// This package is an implementation detail, the configuration surface for users is provided via
// ctdiff.Option.
package config

import (
	"fmt"
	"math"
	"math/bits"
	"time"

	"znkr.io/ctdiff/internal/errs"
)

// Protection describes the level of timing protection.
type Protection int

const (
	// No timing protection. Configurations using it are rejected.
	ProtectionNone Protection = iota

	// Constant-time algorithm without any further hardening.
	ProtectionBasic

	// Constant-time algorithm running with the CPU's data independent timing mode enabled where
	// the platform supports it.
	ProtectionModerate

	// Like ProtectionModerate, restricted to input sizes where exhaustive computation is
	// affordable.
	ProtectionStrict
)

func (p Protection) String() string {
	switch p {
	case ProtectionNone:
		return "none"
	case ProtectionBasic:
		return "basic"
	case ProtectionModerate:
		return "moderate"
	case ProtectionStrict:
		return "strict"
	default:
		return fmt.Sprintf("Protection(%d)", int(p))
	}
}

// Preset is a named set of security parameters.
type Preset int

const (
	PresetMaximum Preset = iota
	PresetBalanced
	PresetFast
)

func (p Preset) String() string {
	switch p {
	case PresetMaximum:
		return "maximum"
	case PresetBalanced:
		return "balanced"
	case PresetFast:
		return "fast"
	default:
		return fmt.Sprintf("Preset(%d)", int(p))
	}
}

// ColorConfig contains the SGR escape sequences used when rendering colored output.
type ColorConfig struct {
	Header     string
	HunkHeader string
	Match      string
	Delete     string
	Insert     string
}

// Config collects all configurable parameters for functions in this module.
type Config struct {
	// MaxInputSize is the largest accepted input in bytes.
	MaxInputSize int

	// If set, both inputs are padded to a shared length before the matrix is built.
	Pad bool

	// PaddingSize is the fixed padding target. If zero, the target is derived from the input
	// lengths.
	PaddingSize int

	// MaxEditDistance bounds the combined length of both inputs as seen by the matrix. Zero means
	// unlimited.
	MaxEditDistance int

	// Protection is the timing protection level.
	Protection Protection

	// If set, intermediate buffers are zeroed before returning.
	MemoryProtection bool

	// Context is the number of matching lines to include around changes when rendering.
	Context int

	// Colors, if not nil, enables colored rendering.
	Colors *ColorConfig

	// NameA and NameB name the inputs when rendering. If both are empty, renderers omit headers
	// where they are optional.
	NameA, NameB string

	// Timestamp is included in rendered metadata if it's not zero.
	Timestamp time.Time

	// If set, renderers produce compact output.
	Compact bool
}

// Default is the default configuration.
var Default = Config{
	MaxInputSize:     64 * 1024,
	Pad:              true,
	PaddingSize:      0,
	MaxEditDistance:  0,
	Protection:       ProtectionModerate,
	MemoryProtection: true,
	Context:          3,
}

// DefaultColors are the colors used when colored output is requested without further options.
var DefaultColors = ColorConfig{
	Header:     "\033[1m",
	HunkHeader: "\033[36m",
	Delete:     "\033[31m",
	Insert:     "\033[32m",
}

const (
	// strictMaxInputSize is the largest input size accepted with ProtectionStrict.
	strictMaxInputSize = 10 * 1024 * 1024

	// maxSupportedSize keeps all distances, which are bounded by the sum of both lengths, within
	// the range of the uint32 matrix cells.
	maxSupportedSize = math.MaxUint32 / 2
)

// ApplyPreset overwrites the security parameters in cfg with the preset p.
func ApplyPreset(cfg *Config, p Preset) {
	switch p {
	case PresetMaximum:
		cfg.MaxInputSize = 4 * 1024
		cfg.Pad = true
		cfg.PaddingSize = NextPowerOfTwo(cfg.MaxInputSize)
		cfg.MaxEditDistance = 2 * cfg.PaddingSize
		cfg.Protection = ProtectionStrict
		cfg.MemoryProtection = true
	case PresetBalanced:
		cfg.MaxInputSize = 256 * 1024
		cfg.Pad = true
		cfg.PaddingSize = 0
		cfg.MaxEditDistance = cfg.MaxInputSize / 4
		cfg.Protection = ProtectionModerate
		cfg.MemoryProtection = true
	case PresetFast:
		cfg.MaxInputSize = 1024 * 1024
		cfg.Pad = false
		cfg.PaddingSize = 0
		cfg.MaxEditDistance = 0
		cfg.Protection = ProtectionBasic
		cfg.MemoryProtection = false
	default:
		panic(fmt.Sprintf("unknown preset: %v", p))
	}
}

// Flag describes a single config entry. This is used to detect if configurations are being set
// that are not supported by a function.
type Flag int

const (
	MaxInputSize Flag = 1 << iota
	Padding
	MaxEditDistance
	TimingProtection
	MemoryProtection
	Level
	Context
	Colors
	Names
	Timestamp
	Compact
)

// Security are all flags that affect the diff computation.
const Security = MaxInputSize | Padding | MaxEditDistance | TimingProtection | MemoryProtection | Level

// Option is the mechanism used to expose the configuration to users.
type Option func(*Config) Flag

// FromOptions creates a configuration from a set of options. Options are applied in order, a
// preset overwrites earlier security options and is refined by later ones.
func FromOptions(opts []Option, allowed Flag) Config {
	cfg := Default
	for _, opt := range opts {
		flag := opt(&cfg)
		if flag & ^allowed != 0 {
			panic("Option " + printFlag(flag) + " not allowed here")
		}
	}
	return cfg
}

func printFlag(flag Flag) string {
	switch flag {
	case MaxInputSize:
		return "ctdiff.MaxInputSize"
	case Padding:
		return "ctdiff.PaddingSize, ctdiff.AutoPadding, or ctdiff.NoPadding"
	case MaxEditDistance:
		return "ctdiff.MaxEditDistance"
	case TimingProtection:
		return "ctdiff.TimingProtection"
	case MemoryProtection:
		return "ctdiff.MemoryProtection"
	case Level:
		return "ctdiff.Level"
	case Context:
		return "render.Context"
	case Colors:
		return "render.Colors"
	case Names:
		return "render.Names"
	case Timestamp:
		return "render.Timestamp"
	case Compact:
		return "render.Compact"
	default:
		panic("never reached")
	}
}

// Validate checks the security parameters. Errors make the configuration unusable, warnings
// describe weaker than expected protection.
func (c *Config) Validate() (warnings []string, err error) {
	if c.Protection == ProtectionNone {
		return nil, fmt.Errorf("%w: timing protection is disabled", errs.ErrInsecureConfig)
	}
	if c.Protection == ProtectionStrict && c.MaxInputSize > strictMaxInputSize {
		return nil, fmt.Errorf("%w: strict timing protection requires a maximum input size of at most %d bytes, got %d", errs.ErrInsecureConfig, strictMaxInputSize, c.MaxInputSize)
	}
	if c.MaxInputSize <= 0 || c.MaxInputSize > maxSupportedSize {
		return nil, fmt.Errorf("%w: maximum input size must be in [1, %d], got %d", errs.ErrInvalidConfig, maxSupportedSize, c.MaxInputSize)
	}
	if c.PaddingSize < 0 || c.PaddingSize > maxSupportedSize {
		return nil, fmt.Errorf("%w: padding size must be in [0, %d], got %d", errs.ErrInvalidConfig, maxSupportedSize, c.PaddingSize)
	}
	if c.MaxEditDistance < 0 {
		return nil, fmt.Errorf("%w: maximum edit distance must not be negative, got %d", errs.ErrInvalidConfig, c.MaxEditDistance)
	}

	if !c.MemoryProtection {
		warnings = append(warnings, "memory protection is disabled, intermediate buffers are not cleared")
	}
	if c.Protection == ProtectionStrict && !c.Pad {
		warnings = append(warnings, "strict timing protection without padding exposes the exact input lengths")
	}
	if c.Pad && c.PaddingSize > c.MaxInputSize {
		warnings = append(warnings, fmt.Sprintf("padding size %d exceeds maximum input size %d", c.PaddingSize, c.MaxInputSize))
	}
	return warnings, nil
}

// CheckSizes verifies that both input lengths are within the configured maximum input size.
func (c *Config) CheckSizes(lenA, lenB int) error {
	for _, n := range [2]int{lenA, lenB} {
		if n > c.MaxInputSize {
			return &errs.SizeError{Size: n, Limit: c.MaxInputSize}
		}
	}
	return nil
}

// PaddingTarget returns the shared length both inputs are padded to or zero if padding is
// disabled.
func (c *Config) PaddingTarget(lenA, lenB int) (int, error) {
	if !c.Pad {
		return 0, nil
	}
	if c.PaddingSize > 0 {
		for _, n := range [2]int{lenA, lenB} {
			if n > c.PaddingSize {
				return 0, &errs.SizeError{Size: n, Limit: c.PaddingSize}
			}
		}
		return c.PaddingSize, nil
	}
	return min(NextPowerOfTwo(max(lenA, lenB)), c.MaxInputSize), nil
}

// CheckComputation verifies that a matrix for inputs of length m and n is admitted by the
// configured maximum edit distance.
func (c *Config) CheckComputation(m, n int) error {
	if c.MaxEditDistance > 0 && m+n > c.MaxEditDistance {
		return &errs.LimitError{Size: m + n, Limit: c.MaxEditDistance}
	}
	return nil
}

// NextPowerOfTwo returns the smallest power of two >= n. It returns 1 for n <= 1.
func NextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}
