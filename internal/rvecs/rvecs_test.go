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

package rvecs

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/ctdiff/internal/edits"
)

// parse reads a script in the compact form K, D, I<byte>, S<byte>.
func parse(t *testing.T, s string) []edits.Edit {
	t.Helper()
	var script []edits.Edit
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case 'K':
			script = append(script, edits.Edit{Op: edits.Keep})
		case 'D':
			script = append(script, edits.Edit{Op: edits.Delete})
		case 'I', 'S':
			op := edits.Insert
			if s[i] == 'S' {
				op = edits.Substitute
			}
			i++
			script = append(script, edits.Edit{Op: op, Byte: s[i]})
		default:
			t.Fatalf("invalid script %q", s)
		}
	}
	return script
}

// vec renders a result vector without its sentinel, x for changed and . for unchanged lines.
func vec(r []bool) string {
	var sb strings.Builder
	for _, v := range r[:len(r)-1] {
		if v {
			sb.WriteByte('x')
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

func fromVec(s string) []bool {
	r := make([]bool, len(s)+1)
	for i := range s {
		r[i] = s[i] == 'x'
	}
	return r
}

func TestMake(t *testing.T) {
	rx, ry := Make(2, 3)
	if len(rx) != 3 || len(ry) != 4 {
		t.Fatalf("Make(2, 3) = len %d, %d, want 3, 4", len(rx), len(ry))
	}
	rx = append(rx, true)
	if ry[0] {
		t.Error("appending to rx must not overwrite ry")
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		name           string
		a, b           string
		script         string
		wantRx, wantRy string
	}{
		{
			name: "empty",
		},
		{
			name:   "identical",
			a:      "a\nb\n",
			b:      "a\nb\n",
			script: "KKKK",
			wantRx: "..",
			wantRy: "..",
		},
		{
			name:   "substitute-middle-line",
			a:      "a\nb\nc\n",
			b:      "a\nx\nc\n",
			script: "KKSxKKK",
			wantRx: ".x.",
			wantRy: ".x.",
		},
		{
			name:   "insert-into-empty",
			b:      "one\n",
			script: "IoInIeI\n",
			wantRx: "",
			wantRy: "x",
		},
		{
			name:   "delete-all",
			a:      "one\n",
			script: "DDDD",
			wantRx: "x",
			wantRy: "",
		},
		{
			name:   "missing-newline",
			a:      "first line",
			b:      "first line\n",
			script: "KKKKKKKKKKI\n",
			wantRx: "x",
			wantRy: "x",
		},
		{
			name:   "insert-line-before",
			a:      "x\n",
			b:      "y\nx\n",
			script: "IyI\nKK",
			wantRx: ".",
			wantRy: "x.",
		},
		{
			name:   "change-spanning-lines",
			a:      "ab\ncd\nef\n",
			b:      "ab\ncX\nYf\nef\n",
			script: "KKKKSXKIYIfI\nKKK",
			wantRx: ".x.",
			wantRy: ".xx.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rx, ry := Lines([]byte(tt.a), []byte(tt.b), parse(t, tt.script))
			if diff := cmp.Diff(tt.wantRx, vec(rx)); diff != "" {
				t.Errorf("Lines(...) rx differs [-want,+got]:\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRy, vec(ry)); diff != "" {
				t.Errorf("Lines(...) ry differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestHunks(t *testing.T) {
	tests := []struct {
		name    string
		rx, ry  string
		context int
		want    []Hunk
	}{
		{
			name:    "no-changes",
			rx:      "....",
			ry:      "....",
			context: 3,
			want:    nil,
		},
		{
			name:    "two-hunks",
			rx:      "x.......x",
			ry:      "x.......x",
			context: 3,
			want: []Hunk{
				{S0: 0, S1: 4, T0: 0, T1: 4, Edits: 5},
				{S0: 5, S1: 9, T0: 5, T1: 9, Edits: 5},
			},
		},
		{
			name:    "two-hunks-small-context",
			rx:      "x.......x",
			ry:      "x.......x",
			context: 1,
			want: []Hunk{
				{S0: 0, S1: 2, T0: 0, T1: 2, Edits: 3},
				{S0: 7, S1: 9, T0: 7, T1: 9, Edits: 3},
			},
		},
		{
			name:    "two-hunks-no-context",
			rx:      "x.......x",
			ry:      "x.......x",
			context: 0,
			want: []Hunk{
				{S0: 0, S1: 1, T0: 0, T1: 1, Edits: 2},
				{S0: 8, S1: 9, T0: 8, T1: 9, Edits: 2},
			},
		},
		{
			name:    "overlapping-hunks-are-merged",
			rx:      "x....x...",
			ry:      "x....x...",
			context: 3,
			want: []Hunk{
				{S0: 0, S1: 9, T0: 0, T1: 9, Edits: 11},
			},
		},
		{
			name:    "insert-only",
			rx:      "",
			ry:      "xx",
			context: 3,
			want: []Hunk{
				{S0: 0, S1: 0, T0: 0, T1: 2, Edits: 2},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Hunks(fromVec(tt.rx), fromVec(tt.ry), tt.context))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Hunks(...) differs [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestHunksStop(t *testing.T) {
	rx, ry := fromVec("x.......x"), fromVec("x.......x")
	n := 0
	for range Hunks(rx, ry, 1) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("Hunks(...) yielded %d hunks after break, want 1", n)
	}
}
