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

// Package pad extends inputs to a shared length before the edit matrix is built.
package pad

import (
	"bytes"

	"znkr.io/ctdiff/internal/errs"
)

// Byte is the sentinel value used for padding.
const Byte = 0xFF

// Pad returns copies of a and b extended to size bytes with [Byte]. The originals are never
// modified. Pad fails with an error matching [errs.ErrInputTooLarge] if either input is longer
// than size.
func Pad(a, b []byte, size int) (pa, pb []byte, err error) {
	for _, in := range [2][]byte{a, b} {
		if len(in) > size {
			return nil, nil, &errs.SizeError{Size: len(in), Limit: size}
		}
	}
	buf := bytes.Repeat([]byte{Byte}, 2*size)
	pa, pb = buf[:size:size], buf[size:]
	copy(pa, a)
	copy(pb, b)
	return pa, pb, nil
}
