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

// Package backtrack recovers an edit script from a distance matrix.
//
// The walk runs a fixed number of steps that depends only on the start position. Every step
// evaluates all three transitions and combines them with constant-time selection, there are no
// branches on the matrix content or the input bytes.
//
// The cells and input bytes that are read still depend on the path through the matrix. Hiding
// this as well requires an oblivious lookup over the whole matrix per step, which multiplies the
// cost by the matrix size.
package backtrack

import (
	"fmt"
	"slices"

	"znkr.io/ctdiff/internal/ct"
	"znkr.io/ctdiff/internal/edits"
	"znkr.io/ctdiff/internal/errs"
	"znkr.io/ctdiff/internal/matrix"
)

// Walk returns the edit script transforming a[:i] into b[:j] and its edit distance.
//
// The matrix must have been built for a and b, which may be padded beyond i and j. Cells beyond i
// and j are never visited. Ties are broken in favor of the diagonal, then deletion, then
// insertion.
func Walk(m *matrix.Matrix, a, b []byte, i, j int) ([]edits.Edit, int, error) {
	if m.Rows() != len(a)+1 || m.Cols() != len(b)+1 {
		panic("backtrack: matrix does not match inputs")
	}
	if i < 0 || i > len(a) || j < 0 || j > len(b) {
		panic("backtrack: start position out of range")
	}

	steps := i + j
	buf := make([]edits.Edit, steps+1) // one spare slot for writes after reaching the origin
	var (
		k    int    // number of edits emitted
		dist uint32 // number of non-Keep edits emitted
		fail uint32
	)
	for range steps {
		active := ct.Not(ct.IsZero(uint64(i | j)))
		top := ct.IsZero(uint64(i))
		left := ct.IsZero(uint64(j))
		inner := ct.Not(top | left)

		// Predecessor indices, clamped at the boundary.
		pi := i - int(ct.Not(top))
		pj := j - int(ct.Not(left))

		cur := m.At(i, j)
		bj := byteAt(b, pj)
		eq := inner & ct.ByteEq(byteAt(a, pi), bj)

		diagCost := ct.SatAdd(m.At(pi, pj), ct.Not(eq))
		delCost := ct.SatAdd(m.At(pi, j), 1)
		insCost := ct.SatAdd(m.At(i, pj), 1)

		diag := inner & ct.Eq(uint64(diagCost), uint64(cur))
		del := ct.Not(top) & ct.Eq(uint64(delCost), uint64(cur)) & ct.Not(diag)
		ins := ct.Not(left) & ct.Eq(uint64(insCost), uint64(cur)) & ct.Not(diag|del)

		// Only one transition is possible on the boundary.
		del = ct.Select(left, ct.Not(top), del)
		ins = ct.Select(top, ct.Not(left), ins)

		fail |= active & ct.Not(diag|del|ins)

		keep := diag & eq
		op := ct.Select(diag,
			ct.Select(eq, edits.Keep, edits.Substitute),
			ct.Select(del, edits.Delete, edits.Insert))
		payload := ct.Select(diag&ct.Not(eq)|ins, bj, 0)

		buf[k] = edits.Edit{Op: op, Byte: payload}
		k += int(active)
		dist += active & ct.Not(keep)
		i -= int(active & (diag | del))
		j -= int(active & (diag | ins))
	}

	if fail != 0 || i != 0 || j != 0 {
		return nil, 0, fmt.Errorf("%w: no transition consistent with the distance matrix", errs.ErrAlgorithm)
	}

	script := buf[:k:k]
	slices.Reverse(script)
	return script, int(dist), nil
}

// byteAt returns s[i] or zero if s is empty. Only the public length is branched on.
func byteAt(s []byte, i int) byte {
	if len(s) == 0 {
		return 0
	}
	return s[i]
}
