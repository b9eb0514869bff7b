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

// Package edits contains the fixed-width edit operation representation shared by the algorithm and
// the public API.
package edits

// Op describes an edit operation.
//
//go:generate go tool golang.org/x/tools/cmd/stringer -type=Op
type Op uint8

const (
	Keep       Op = iota // Keep the next byte of the first input
	Insert               // Insert a byte of the second input
	Delete               // Delete the next byte of the first input
	Substitute           // Replace the next byte of the first input with a byte of the second input
)

// Edit is a single edit operation.
//
// All edits have the same size and shape: Byte carries the payload for Insert and Substitute and
// is zero for Keep and Delete.
type Edit struct {
	Op   Op
	Byte byte
}

// Size is the number of bytes used by an encoded [Edit].
const Size = 2

// Append appends the fixed-width encoding of es to dst and returns the extended slice.
func Append(dst []byte, es []Edit) []byte {
	for _, e := range es {
		dst = append(dst, byte(e.Op), e.Byte)
	}
	return dst
}

// Decode decodes edits from their fixed-width encoding. It reports false if the length of src is
// not a multiple of [Size] or if it contains an unknown operation.
func Decode(src []byte) ([]Edit, bool) {
	if len(src)%Size != 0 {
		return nil, false
	}
	es := make([]Edit, len(src)/Size)
	for i := range es {
		op := Op(src[Size*i])
		if op > Substitute {
			return nil, false
		}
		es[i] = Edit{Op: op, Byte: src[Size*i+1]}
	}
	return es, true
}
