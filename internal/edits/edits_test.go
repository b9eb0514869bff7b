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

package edits

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOpString(t *testing.T) {
	var got []string
	for _, op := range []Op{Keep, Insert, Delete, Substitute, 7} {
		got = append(got, op.String())
	}
	want := []string{"Keep", "Insert", "Delete", "Substitute", "Op(7)"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("String() differs [-want,+got]:\n%s", diff)
	}
}

func TestEncoding(t *testing.T) {
	es := []Edit{{Keep, 0}, {Insert, 'x'}, {Delete, 0}, {Substitute, 0xff}}
	enc := Append(nil, es)
	if want := []byte{0, 0, 1, 'x', 2, 0, 3, 0xff}; !cmp.Equal(want, enc) {
		t.Errorf("Append(...) = %v, want %v", enc, want)
	}
	if len(enc) != Size*len(es) {
		t.Errorf("len(Append(...)) = %d, want %d", len(enc), Size*len(es))
	}
	got, ok := Decode(enc)
	if !ok {
		t.Fatalf("Decode(...) failed")
	}
	if diff := cmp.Diff(es, got); diff != "" {
		t.Errorf("Decode(...) differs [-want,+got]:\n%s", diff)
	}
}

func TestDecodeInvalid(t *testing.T) {
	for _, in := range [][]byte{{0}, {4, 0}, {0, 0, 1}} {
		if _, ok := Decode(in); ok {
			t.Errorf("Decode(%v) succeeded, want failure", in)
		}
	}
}
