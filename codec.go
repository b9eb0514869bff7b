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
	"encoding/binary"
	"fmt"
	"math"

	"znkr.io/ctdiff/internal/edits"
)

// Binary format: a 4 byte magic, the big-endian uint64 fields LenA, LenB, Distance, and the number
// of edits, followed by every edit as an operation byte and a payload byte.
const (
	magic      = "ctd\x01"
	headerSize = len(magic) + 4*8
)

// MarshalBinary implements [encoding.BinaryMarshaler]. Every edit is encoded with the same width,
// the size of the encoding depends only on the number of edits.
func (r *Result) MarshalBinary() ([]byte, error) {
	buf := make([]byte, 0, headerSize+edits.Size*len(r.Edits))
	buf = append(buf, magic...)
	for _, v := range [...]int{r.LenA, r.LenB, r.Distance, len(r.Edits)} {
		buf = binary.BigEndian.AppendUint64(buf, uint64(v))
	}
	return edits.Append(buf, r.Edits), nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler]. It returns an error matching
// [ErrInvalidScript] if data is malformed or if the decoded result is not valid.
func (r *Result) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize || string(data[:len(magic)]) != magic {
		return fmt.Errorf("%w: malformed header", ErrInvalidScript)
	}
	var hdr [4]int
	for i := range hdr {
		v := binary.BigEndian.Uint64(data[len(magic)+8*i:])
		if v > math.MaxInt32 {
			return fmt.Errorf("%w: header field out of range", ErrInvalidScript)
		}
		hdr[i] = int(v)
	}
	body := data[headerSize:]
	if len(body) != edits.Size*hdr[3] {
		return fmt.Errorf("%w: expected %d edits, got %d bytes", ErrInvalidScript, hdr[3], len(body))
	}
	es, ok := edits.Decode(body)
	if !ok {
		return fmt.Errorf("%w: unknown operation", ErrInvalidScript)
	}
	res := Result{Edits: es, LenA: hdr[0], LenB: hdr[1], Distance: hdr[2]}
	if !res.IsValid() {
		return fmt.Errorf("%w: edits are inconsistent with the declared lengths", ErrInvalidScript)
	}
	*r = res
	return nil
}
