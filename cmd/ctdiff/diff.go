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

package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"znkr.io/ctdiff"
	"znkr.io/ctdiff/render"
)

// guarantees describes the timing guarantee of each security level.
var guarantees = map[ctdiff.SecurityLevel]string{
	ctdiff.LevelMaximum:  "strong",
	ctdiff.LevelBalanced: "moderate",
	ctdiff.LevelFast:     "basic",
}

func diffAction(c *cli.Context, logger *slog.Logger) error {
	if c.NArg() != 2 {
		return fmt.Errorf("expected two files, got %d arguments, see --help for usage", c.NArg())
	}
	name1, name2 := c.Args().Get(0), c.Args().Get(1)

	level, err := ctdiff.ParseLevel(c.String(securityLevelFlag.Name))
	if err != nil {
		return err
	}
	format, err := render.ParseFormat(c.String(formatFlag.Name))
	if err != nil {
		return err
	}
	colored, err := useColor(c.String(colorFlag.Name), c.App.Writer)
	if err != nil {
		return err
	}

	a, err := os.ReadFile(name1)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(name2)
	if err != nil {
		return err
	}

	opts := securityOptions(level, c.Int(maxSizeFlag.Name))
	warnings, err := ctdiff.Validate(opts...)
	if err != nil {
		return err
	}
	for _, w := range warnings {
		logger.Warn(w)
	}

	logger.Debug("comparing files", "file1", name1, "size1", len(a), "file2", name2, "size2", len(b), "level", level)
	start := time.Now()
	r, err := ctdiff.Diff(a, b, opts...)
	if exceedsLimits(err) {
		if !c.Bool(forceFlag.Name) {
			return fmt.Errorf("%w (security level %s), use --force to continue", err, level)
		}
		logger.Warn("files exceed the limits of the security level, continuing because of --force", "err", err)
		opts = append(opts, forceOptions(len(a), len(b))...)
		start = time.Now()
		r, err = ctdiff.Diff(a, b, opts...)
	}
	elapsed := time.Since(start)
	if err != nil {
		return err
	}
	logger.Debug("comparison done", "distance", r.Distance, "duration", elapsed)

	if !c.Bool(quietFlag.Name) {
		ropts := []render.Option{
			render.Names(name1, name2),
			render.Context(c.Int(contextFlag.Name)),
		}
		if colored {
			ropts = append(ropts, render.Colors())
		}
		if err := render.Render(c.App.Writer, format, a, r, ropts...); err != nil {
			return err
		}
		if c.Bool(showTimingFlag.Name) {
			fmt.Fprintf(c.App.ErrWriter, "timing: %v (constant-time guarantee: %s)\n", elapsed, guarantees[level])
		}
	}

	if r.Identical() {
		return nil
	}
	return cli.Exit("", exitDiff)
}

// securityOptions returns the options for a security level. A positive maxSizeKiB overrides the
// input limit of the level.
func securityOptions(level ctdiff.SecurityLevel, maxSizeKiB int) []ctdiff.Option {
	opts := []ctdiff.Option{ctdiff.Level(level)}
	if maxSizeKiB > 0 {
		opts = append(opts, ctdiff.MaxInputSize(maxSizeKiB*1024))
		if level == ctdiff.LevelMaximum {
			// Fixed padding must be able to hold the larger inputs.
			opts = append(opts, ctdiff.AutoPadding())
		}
	}
	return opts
}

// forceOptions raises the limits so that inputs of the given sizes are accepted.
func forceOptions(n, m int) []ctdiff.Option {
	return []ctdiff.Option{
		ctdiff.MaxInputSize(max(n, m, 1)),
		ctdiff.AutoPadding(),
		ctdiff.MaxEditDistance(0),
	}
}

func exceedsLimits(err error) bool {
	return errors.Is(err, ctdiff.ErrInputTooLarge) || errors.Is(err, ctdiff.ErrComputationLimitExceeded)
}

// useColor decides whether to use colors for output to w.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		return isTerminal(w), nil
	default:
		return false, fmt.Errorf("invalid color mode %q, want one of auto, always, never", mode)
	}
}
