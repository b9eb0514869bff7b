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

// Package impl connects the stages of the constant-time diff: size validation, padding, matrix
// construction, and backtracking.
package impl

import (
	"crypto/subtle"

	"znkr.io/ctdiff/internal/backtrack"
	"znkr.io/ctdiff/internal/config"
	"znkr.io/ctdiff/internal/edits"
	"znkr.io/ctdiff/internal/matrix"
	"znkr.io/ctdiff/internal/pad"
)

// Diff compares a and b and returns the edit script transforming a into b together with its edit
// distance.
//
// All checks that can fail depend only on the lengths of a and b and on cfg; they happen before
// any content is read.
func Diff(a, b []byte, cfg config.Config) (script []edits.Edit, dist int, err error) {
	if err := cfg.CheckSizes(len(a), len(b)); err != nil {
		return nil, 0, err
	}
	target, err := cfg.PaddingTarget(len(a), len(b))
	if err != nil {
		return nil, 0, err
	}
	m, n := len(a), len(b)
	if target > 0 {
		m, n = target, target
	}
	if err := cfg.CheckComputation(m, n); err != nil {
		return nil, 0, err
	}

	pa, pb := a, b
	if target > 0 {
		pa, pb, err = pad.Pad(a, b, target)
		if err != nil {
			return nil, 0, err
		}
	}

	run := func() {
		mat := matrix.Build(pa, pb)
		script, dist, err = backtrack.Walk(mat, pa, pb, len(a), len(b))
		if cfg.MemoryProtection {
			mat.Wipe()
		}
	}
	if cfg.Protection >= config.ProtectionModerate {
		subtle.WithDataIndependentTiming(run)
	} else {
		run()
	}

	if cfg.MemoryProtection && target > 0 {
		clear(pa)
		clear(pb)
	}
	return script, dist, err
}
