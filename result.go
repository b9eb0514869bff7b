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

	"znkr.io/ctdiff/internal/edits"
)

// Result is the outcome of a comparison.
type Result struct {
	Edits    []Edit // Edits in application order.
	Distance int    // Number of edits that are not Keep.
	LenA     int    // Length of a.
	LenB     int    // Length of b.
}

// Identical reports whether the compared inputs are equal.
func (r *Result) Identical() bool { return r.Distance == 0 && r.LenA == r.LenB }

// ApplyTo applies the edit script to a and returns the reconstructed b.
//
// ApplyTo returns an error matching [ErrInvalidInput] if len(a) != r.LenA, and an error matching
// [ErrInvalidScript] if the script doesn't consume a exactly. ApplyTo is not constant-time.
func (r *Result) ApplyTo(a []byte) ([]byte, error) {
	if len(a) != r.LenA {
		return nil, fmt.Errorf("%w: input length mismatch: got %d bytes, want %d", ErrInvalidInput, len(a), r.LenA)
	}
	out := make([]byte, 0, r.LenB)
	s := 0
	for i, e := range r.Edits {
		switch e.Op {
		case edits.Keep, edits.Delete, edits.Substitute:
			if s >= len(a) {
				return nil, fmt.Errorf("%w: script extends beyond input at edit %d", ErrInvalidScript, i)
			}
			switch e.Op {
			case edits.Keep:
				out = append(out, a[s])
			case edits.Substitute:
				out = append(out, e.Byte)
			}
			s++
		case edits.Insert:
			out = append(out, e.Byte)
		default:
			return nil, fmt.Errorf("%w: unknown operation %v at edit %d", ErrInvalidScript, e.Op, i)
		}
	}
	if s != len(a) {
		return nil, fmt.Errorf("%w: script does not consume entire input: consumed %d of %d bytes", ErrInvalidScript, s, len(a))
	}
	return out, nil
}

// IsValid reports whether the edit script is consistent with the declared lengths and edit
// distance. It only checks the structure of the script, no input is needed.
func (r *Result) IsValid() bool {
	s, t, d := 0, 0, 0
	for _, e := range r.Edits {
		switch e.Op {
		case edits.Keep:
			s++
			t++
		case edits.Insert:
			t++
			d++
		case edits.Delete:
			s++
			d++
		case edits.Substitute:
			s++
			t++
			d++
		default:
			return false
		}
	}
	return s == r.LenA && t == r.LenB && d == r.Distance
}

// Stats counts the edits in a result by operation.
type Stats struct {
	Keep, Insert, Delete, Substitute int
}

// Total returns the total number of edits.
func (s Stats) Total() int { return s.Keep + s.Insert + s.Delete + s.Substitute }

// Stats returns the number of edits per operation.
func (r *Result) Stats() Stats {
	var st Stats
	for _, e := range r.Edits {
		switch e.Op {
		case edits.Keep:
			st.Keep++
		case edits.Insert:
			st.Insert++
		case edits.Delete:
			st.Delete++
		case edits.Substitute:
			st.Substitute++
		}
	}
	return st
}

// Similarity returns 1 - Distance/max(LenA, LenB), a value between 0 and 1. Two empty inputs have
// a similarity of 1.
func (r *Result) Similarity() float64 {
	n := max(r.LenA, r.LenB)
	if n == 0 {
		return 1
	}
	return 1 - float64(r.Distance)/float64(n)
}
