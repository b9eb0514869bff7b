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

// Package render presents the results of znkr.io/ctdiff for humans and tools.
//
// Rendering is not constant-time. It operates on results that are considered public: the first
// input and the edit script. The second input is always reconstructed from the two with
// [ctdiff.Result.ApplyTo], it's never read again from its original source.
//
// Line oriented formats group the byte level edit script into lines. A line is unchanged if the
// script keeps it entirely, every other line touched by an edit is shown as removed or added.
package render

import (
	"fmt"
	"io"
	"strings"
	"time"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/config"
	"znkr.io/ctdiff/render/color"
)

// Format is an output format.
type Format int

const (
	FormatUnified Format = iota // Unified diff, compatible with patch(1)
	FormatJSON                  // Structured output for tools
	FormatHTML                  // Self-contained web page
	FormatGit                   // Git patch
	FormatSummary               // Statistics for humans
)

func (f Format) String() string {
	switch f {
	case FormatUnified:
		return "unified"
	case FormatJSON:
		return "json"
	case FormatHTML:
		return "html"
	case FormatGit:
		return "git"
	case FormatSummary:
		return "summary"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ParseFormat parses a format name or its first letter.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "unified", "u":
		return FormatUnified, nil
	case "json", "j":
		return FormatJSON, nil
	case "html", "h":
		return FormatHTML, nil
	case "git", "g":
		return FormatGit, nil
	case "summary", "s":
		return FormatSummary, nil
	default:
		return 0, fmt.Errorf("unknown format %q, want one of unified, json, html, git, summary", s)
	}
}

// Option configures rendering. It's the same type as [ctdiff.Option].
type Option = ctdiff.Option

// Context sets the number of unchanged lines to show around changes. The default is 3.
func Context(n int) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Context = max(0, n)
		return config.Context
	}
}

// Colors enables colored output using ANSI escape sequences. Without options, file headers are
// bold, hunk headers cyan, deletions red, and insertions green.
func Colors(opts ...color.Option) Option {
	return func(cfg *config.Config) config.Flag {
		cc := config.DefaultColors
		for _, opt := range opts {
			opt(&cc)
		}
		cfg.Colors = &cc
		return config.Colors
	}
}

// Names sets the names of the two inputs, usually file names.
func Names(a, b string) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.NameA, cfg.NameB = a, b
		return config.Names
	}
}

// Timestamp adds a timestamp to headers and metadata.
func Timestamp(t time.Time) Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Timestamp = t
		return config.Timestamp
	}
}

// Compact produces compact output: JSON without indentation and summaries without the detailed
// breakdown.
func Compact() Option {
	return func(cfg *config.Config) config.Flag {
		cfg.Compact = true
		return config.Compact
	}
}

// Render writes r in format f to w. a must be the first input that was passed to [ctdiff.Diff].
//
// All options of this package are accepted, options not relevant to f are ignored.
func Render(w io.Writer, f Format, a []byte, r *ctdiff.Result, opts ...Option) error {
	cfg := config.FromOptions(opts, allOptions)
	var (
		out []byte
		err error
	)
	switch f {
	case FormatUnified:
		out, err = unified(a, r, cfg)
	case FormatJSON:
		out, err = jsonDoc(a, r, cfg)
	case FormatHTML:
		out, err = htmlDoc(a, r, cfg)
	case FormatGit:
		out, err = git(a, r, cfg)
	case FormatSummary:
		out, err = summary(a, r, cfg)
	default:
		return fmt.Errorf("unknown format: %v", f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

const allOptions = config.Context | config.Colors | config.Names | config.Timestamp | config.Compact
