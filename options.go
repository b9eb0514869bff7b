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

package ctdiff

import (
	"fmt"
	"strings"

	"znkr.io/ctdiff/internal/config"
)

// Option configures the behavior of comparison functions.
type Option = config.Option

// Protection describes the level of timing protection.
type Protection = config.Protection

const (
	// ProtectionNone disables timing protection. [Diff] refuses to run with it.
	ProtectionNone = config.ProtectionNone

	// ProtectionBasic runs the constant-time algorithm.
	ProtectionBasic = config.ProtectionBasic

	// ProtectionModerate additionally enables the CPU's data independent timing mode on platforms
	// that support it. This is the default.
	ProtectionModerate = config.ProtectionModerate

	// ProtectionStrict is ProtectionModerate restricted to a maximum input size of 10 MiB.
	ProtectionStrict = config.ProtectionStrict
)

// SecurityLevel is a preset for all security options.
type SecurityLevel = config.Preset

const (
	// LevelMaximum accepts inputs of up to 4 KiB, always pads to 4 KiB, and uses strict timing
	// protection.
	LevelMaximum = config.PresetMaximum

	// LevelBalanced pads to the next power of two and limits the combined padded length to 64 KiB.
	// Both inputs are padded to the same length, so inputs longer than 32 KiB are rejected with
	// [ErrComputationLimitExceeded] even though the maximum input size is 256 KiB.
	LevelBalanced = config.PresetBalanced

	// LevelFast accepts inputs of up to 1 MiB without padding or memory protection.
	LevelFast = config.PresetFast
)

// ParseLevel returns the security level with the given name.
func ParseLevel(s string) (SecurityLevel, error) {
	switch strings.ToLower(s) {
	case "maximum", "max":
		return LevelMaximum, nil
	case "balanced":
		return LevelBalanced, nil
	case "fast":
		return LevelFast, nil
	default:
		return 0, fmt.Errorf("unknown security level %q, want one of maximum, balanced, fast", s)
	}
}

// Level applies a security preset. Options following Level refine the preset, options preceding
// it are overwritten.
func Level(l SecurityLevel) Option {
	return func(cfg *config.Config) config.Flag {
		config.ApplyPreset(cfg, l)
		return config.Level
	}
}

// MaxInputSize sets the maximum accepted length of each input in bytes. The default is 64 KiB.
func MaxInputSize(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxInputSize = n
		return config.MaxInputSize
	}
}

// PaddingSize pads both inputs to exactly n bytes. Inputs longer than n are rejected.
func PaddingSize(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Pad = true
		cfg.PaddingSize = max(0, n)
		return config.Padding
	}
}

// AutoPadding pads both inputs to the next power of two of the longer input, capped at the maximum
// input size. This is the default.
func AutoPadding() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Pad = true
		cfg.PaddingSize = 0
		return config.Padding
	}
}

// NoPadding disables padding. The work done then reveals the exact input lengths.
func NoPadding() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Pad = false
		cfg.PaddingSize = 0
		return config.Padding
	}
}

// MaxEditDistance limits the combined length of both inputs, after padding, to n. This bounds the
// worst-case time and memory of a comparison. A value of zero or less removes the limit, which is
// the default.
func MaxEditDistance(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MaxEditDistance = max(0, n)
		return config.MaxEditDistance
	}
}

// TimingProtection sets the timing protection level. The default is [ProtectionModerate].
func TimingProtection(p Protection) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Protection = p
		return config.TimingProtection
	}
}

// MemoryProtection controls whether padded copies and the distance matrix are zeroed before a
// comparison returns. It's enabled by default.
func MemoryProtection(enabled bool) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.MemoryProtection = enabled
		return config.MemoryProtection
	}
}
