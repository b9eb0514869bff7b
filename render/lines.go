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

package render

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/byteview"
	"znkr.io/ctdiff/internal/rvecs"
)

// lineOp is the role of a line in line oriented output.
type lineOp int

const (
	lineMatch lineOp = iota
	lineDelete
	lineInsert
)

func (op lineOp) String() string {
	switch op {
	case lineMatch:
		return "equal"
	case lineDelete:
		return "delete"
	case lineInsert:
		return "insert"
	default:
		panic("never reached")
	}
}

// text is an input split into lines.
type text struct {
	data           []byte
	lines          []byteview.ByteView
	missingNewline int // index of the last line if it's missing a newline, -1 otherwise
}

func split(data []byte) text {
	lines, missing := byteview.SplitLines(byteview.From(data))
	return text{data, lines, missing}
}

// lineDiff is a result grouped into lines.
type lineDiff struct {
	r      *ctdiff.Result
	x, y   text
	rx, ry []bool
}

// lines reconstructs the second input from a and r and groups the edit script into lines.
func lines(a []byte, r *ctdiff.Result) (*lineDiff, error) {
	b, err := r.ApplyTo(a)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct second input: %w", err)
	}
	rx, ry := rvecs.Lines(a, b, r.Edits)
	return &lineDiff{r: r, x: split(a), y: split(b), rx: rx, ry: ry}, nil
}

// hunks returns the hunks with the given amount of context.
func (d *lineDiff) hunks(context int) []rvecs.Hunk {
	var hs []rvecs.Hunk
	for h := range rvecs.Hunks(d.rx, d.ry, context) {
		hs = append(hs, h)
	}
	return hs
}

// hunkHeader returns the "@@ -s,n +t,m @@" line for h. An empty range names the line after
// which the change applies, so it isn't incremented.
func hunkHeader(h rvecs.Hunk) string {
	return fmt.Sprintf("@@ -%d,%d +%d,%d @@", rangeStart(h.S0, h.S1), h.S1-h.S0, rangeStart(h.T0, h.T1), h.T1-h.T0)
}

func rangeStart(start, end int) int {
	if start == end {
		return start
	}
	return start + 1
}

// all returns a hunk that spans both inputs entirely.
func (d *lineDiff) all() rvecs.Hunk {
	return rvecs.Hunk{S0: 0, S1: len(d.x.lines), T0: 0, T1: len(d.y.lines)}
}

// walk calls f for every line of h in output order: for every change, removed lines come first,
// then added lines. s and t are line indices into x and y.
func (d *lineDiff) walk(h rvecs.Hunk, f func(op lineOp, s, t int)) {
	for s, t := h.S0, h.T0; s < h.S1 || t < h.T1; {
		for s < h.S1 && d.rx[s] {
			f(lineDelete, s, t)
			s++
		}
		for t < h.T1 && d.ry[t] {
			f(lineInsert, s, t)
			t++
		}
		for s < h.S1 && t < h.T1 && !d.rx[s] && !d.ry[t] {
			f(lineMatch, s, t)
			s++
			t++
		}
	}
}

// isText reports whether data looks like text: it contains no NUL bytes and at least 70% of its
// characters are printable or whitespace.
func isText(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	total, printable := 0, 0
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r == 0 {
			return false
		}
		total++
		if r != utf8.RuneError && (unicode.IsPrint(r) || unicode.IsSpace(r)) {
			printable++
		}
	}
	return float64(printable)/float64(total) > 0.7
}
