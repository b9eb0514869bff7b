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

// Package leaky implements a byte level diff whose running time depends on its inputs.
//
// It computes the same minimal edit distance as znkr.io/ctdiff, but takes every shortcut a fast
// implementation would take: it returns early for identical inputs, strips the common prefix and
// suffix before doing any real work, and branches on byte comparisons. Timing it reveals where
// the inputs differ and how similar they are.
//
// It's only used to demonstrate timing attacks. Never use it for secret data.
package leaky

import (
	"bytes"
	"slices"

	"znkr.io/ctdiff/internal/edits"
)

// Diff returns a minimal edit script that transforms a into b and its edit distance.
func Diff(a, b []byte) ([]edits.Edit, int) {
	// Short-circuits on the first differing byte.
	if bytes.Equal(a, b) {
		return keep(nil, len(a)), 0
	}

	smin, smax, tmin, tmax := findChangeBounds(a, b)
	script := keep(make([]edits.Edit, 0, len(a)+len(b)), smin)
	mid, dist := wagnerFischer(a[smin:smax], b[tmin:tmax])
	script = append(script, mid...)
	script = keep(script, len(a)-smax)
	return script, dist
}

func keep(script []edits.Edit, n int) []edits.Edit {
	for range n {
		script = append(script, edits.Edit{Op: edits.Keep})
	}
	return script
}

// findChangeBounds returns the bounds of the changed portion of the inputs.
func findChangeBounds(x, y []byte) (smin, smax, tmin, tmax int) {
	smax, tmax = len(x), len(y)
	for smin < smax && tmin < tmax && x[smin] == y[tmin] {
		smin++
		tmin++
	}
	for smax > smin && tmax > tmin && x[smax-1] == y[tmax-1] {
		smax--
		tmax--
	}
	return
}

// wagnerFischer computes the edit distance of a and b with the textbook dynamic program and
// backtracks along the optimal path.
func wagnerFischer(a, b []byte) ([]edits.Edit, int) {
	n, m := len(a), len(b)
	switch {
	case n == 0:
		script := make([]edits.Edit, m)
		for j := range b {
			script[j] = edits.Edit{Op: edits.Insert, Byte: b[j]}
		}
		return script, m
	case m == 0:
		script := make([]edits.Edit, n)
		for i := range script {
			script[i] = edits.Edit{Op: edits.Delete}
		}
		return script, n
	}

	w := m + 1
	d := make([]int, (n+1)*w)
	for j := range w {
		d[j] = j
	}
	for i := 1; i <= n; i++ {
		d[i*w] = i
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				d[i*w+j] = d[(i-1)*w+j-1]
				continue
			}
			d[i*w+j] = 1 + min(d[(i-1)*w+j-1], d[(i-1)*w+j], d[i*w+j-1])
		}
	}

	script := make([]edits.Edit, 0, n+m)
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1] && d[i*w+j] == d[(i-1)*w+j-1]:
			script = append(script, edits.Edit{Op: edits.Keep})
			i, j = i-1, j-1
		case i > 0 && j > 0 && d[i*w+j] == d[(i-1)*w+j-1]+1:
			script = append(script, edits.Edit{Op: edits.Substitute, Byte: b[j-1]})
			i, j = i-1, j-1
		case i > 0 && d[i*w+j] == d[(i-1)*w+j]+1:
			script = append(script, edits.Edit{Op: edits.Delete})
			i--
		default:
			script = append(script, edits.Edit{Op: edits.Insert, Byte: b[j-1]})
			j--
		}
	}
	slices.Reverse(script)
	return script, d[n*w+m]
}
