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

// Package rvecs contains functions to work with line result vectors, the representation renderers
// use to group a byte level edit script into changed and unchanged lines.
//
// For inputs with n and m lines, rx has n+1 and ry has m+1 entries. rx[s] is true if line s of
// the first input is removed and ry[t] is true if line t of the second input is added. The extra
// entry at the end is always false and simplifies iteration.
package rvecs

import (
	"znkr.io/ctdiff/internal/byteview"
	"znkr.io/ctdiff/internal/edits"
)

// Make allocates result vectors for inputs with n and m lines.
func Make(n, m int) (rx, ry []bool) {
	r := make([]bool, n+m+2)
	rx = r[: n+1 : n+1]
	ry = r[n+1:]
	return
}

// Lines derives line result vectors from a byte level edit script that transforms a into b.
//
// The script is cut into segments at every point where both inputs are at the start of a line. A
// segment that consists only of Keep edits is a single unchanged line on both sides, all lines
// touched by any other segment are marked as changed.
func Lines(a, b []byte, script []edits.Edit) (rx, ry []bool) {
	rx, ry = Make(byteview.CountLines(byteview.From(a)), byteview.CountLines(byteview.From(b)))

	var (
		s, t   int  // byte position in a and b
		ls, lt int  // number of completed lines in a and b
		ss, st int  // first line of the current segment in a and b
		dirty  bool // current segment contains a change
	)
	finish := func(es, et int) {
		if dirty {
			for l := ss; l < es; l++ {
				rx[l] = true
			}
			for l := st; l < et; l++ {
				ry[l] = true
			}
		}
		ss, st, dirty = es, et, false
	}

	for _, e := range script {
		switch e.Op {
		case edits.Keep:
			s++
			t++
		case edits.Delete:
			s++
			dirty = true
		case edits.Insert:
			t++
			dirty = true
		case edits.Substitute:
			s++
			t++
			dirty = true
		}
		if e.Op != edits.Insert && a[s-1] == '\n' {
			ls++
		}
		if e.Op != edits.Delete && b[t-1] == '\n' {
			lt++
		}
		if (ls > ss || lt > st) && (s == 0 || a[s-1] == '\n') && (t == 0 || b[t-1] == '\n') {
			finish(ls, lt)
		}
	}
	finish(len(rx)-1, len(ry)-1)
	return rx, ry
}
