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
	"context"

	"znkr.io/ctdiff/internal/config"
	"znkr.io/ctdiff/internal/edits"
	"znkr.io/ctdiff/internal/impl"
)

// Op describes an edit operation.
type Op = edits.Op

const (
	Keep       = edits.Keep       // Keep the next byte of a
	Insert     = edits.Insert     // Insert Edit.Byte
	Delete     = edits.Delete     // Delete the next byte of a
	Substitute = edits.Substitute // Replace the next byte of a with Edit.Byte
)

// Edit describes a single edit of a diff.
//
//   - For Keep and Delete, Byte is zero.
//   - For Insert and Substitute, Byte is the byte from b.
//
// All edits have the same size, regardless of the operation.
type Edit = edits.Edit

// Diff compares a and b byte by byte and returns a minimal edit script that transforms a into b.
//
// The time taken depends only on len(a), len(b), and the configuration. Errors are reported
// before any content is read.
//
// The following options are supported: [Level], [MaxInputSize], [PaddingSize], [AutoPadding],
// [NoPadding], [MaxEditDistance], [TimingProtection], [MemoryProtection]
func Diff(a, b []byte, opts ...Option) (*Result, error) {
	cfg := config.FromOptions(opts, config.Security)
	return diff(a, b, cfg)
}

// DiffContext is like [Diff] but returns early with the context's error when ctx is done.
//
// The comparison itself can't be interrupted: it runs on its own goroutine until it's complete
// and its result is discarded. The caller must not modify a or b until then.
func DiffContext(ctx context.Context, a, b []byte, opts ...Option) (*Result, error) {
	cfg := config.FromOptions(opts, config.Security)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		r   *Result
		err error
	}
	done := make(chan result, 1)
	go func() {
		r, err := diff(a, b, cfg)
		done <- result{r, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-done:
		return res.r, res.err
	}
}

// Validate checks a configuration without running a comparison. It returns an error if [Diff]
// would refuse the configuration and a list of warnings about weakened protection otherwise.
//
// The following options are supported: [Level], [MaxInputSize], [PaddingSize], [AutoPadding],
// [NoPadding], [MaxEditDistance], [TimingProtection], [MemoryProtection]
func Validate(opts ...Option) (warnings []string, err error) {
	cfg := config.FromOptions(opts, config.Security)
	return cfg.Validate()
}

func diff(a, b []byte, cfg config.Config) (*Result, error) {
	if _, err := cfg.Validate(); err != nil {
		return nil, err
	}
	script, dist, err := impl.Diff(a, b, cfg)
	if err != nil {
		return nil, err
	}
	return &Result{
		Edits:    script,
		Distance: dist,
		LenA:     len(a),
		LenB:     len(b),
	}, nil
}
