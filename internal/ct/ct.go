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

// Package ct provides constant-time building blocks for the diff algorithm.
//
// The instruction trace and memory access pattern of every function in this package depend only
// on the sizes of its operands, never on their values. Boolean results are represented as masks:
// a uint32 that is either 0 or 1, the same convention crypto/subtle uses.
//
// Precondition violations (mismatched lengths, out of range indices) are programmer errors and
// cause a panic.
package ct

import "crypto/subtle"

// Integer is the set of types that can be selected with [Select] and [Lookup].
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Not returns 1 if v is 0 and 0 if v is 1.
func Not(v uint32) uint32 { return v ^ 1 }

// IsZero returns 1 if x == 0 and 0 otherwise.
func IsZero(x uint64) uint32 {
	// The top bit of x|-x is set iff x != 0.
	return uint32((x|-x)>>63) ^ 1
}

// Eq returns 1 if x == y and 0 otherwise.
func Eq(x, y uint64) uint32 { return IsZero(x ^ y) }

// ByteEq returns 1 if x == y and 0 otherwise.
func ByteEq(x, y byte) uint32 { return uint32(subtle.ConstantTimeByteEq(x, y)) }

// Less returns 1 if x < y and 0 otherwise.
func Less(x, y uint32) uint32 {
	// For 32 bit operands, the 64 bit difference wraps iff x < y.
	return uint32((uint64(x) - uint64(y)) >> 63)
}

// Select returns x if v == 1 and y if v == 0. The behavior is undefined for any other value of v.
func Select[T Integer](v uint32, x, y T) T {
	m := T(v) - 1 // all ones for v == 0, zero for v == 1
	return ^m&x | m&y
}

// Min returns the smaller of x and y.
func Min(x, y uint32) uint32 { return Select(Less(x, y), x, y) }

// Max returns the larger of x and y.
func Max(x, y uint32) uint32 { return Select(Less(x, y), y, x) }

// SatAdd returns x + y, saturated at the maximum uint32 value.
func SatAdd(x, y uint32) uint32 {
	s := uint64(x) + uint64(y)
	return uint32(s) | -uint32(s>>32)
}

// Equal reports whether x and y have the same length and content. The time taken depends on the
// length of the inputs, not on their content or on the position of the first mismatch.
func Equal(x, y []byte) bool {
	return subtle.ConstantTimeCompare(x, y) == 1
}

// Compare compares x and y lexicographically and returns -1, 0, or 1. Every byte up to the shorter
// length contributes to the result; the lengths decide only if all those bytes are equal.
func Compare(x, y []byte) int {
	n := min(len(x), len(y))
	var decided uint32
	res := 0
	for i := range n {
		lt := Less(uint32(x[i]), uint32(y[i]))
		gt := Less(uint32(y[i]), uint32(x[i]))
		open := Not(decided)
		res = Select(open&lt, -1, res)
		res = Select(open&gt, 1, res)
		decided |= lt | gt
	}

	// Lengths are public.
	byLen := 0
	switch {
	case len(x) < len(y):
		byLen = -1
	case len(x) > len(y):
		byLen = 1
	}
	return Select(decided, res, byLen)
}

// Lookup returns s[i]. It reads every element of s, so the memory access pattern does not depend
// on i. Lookup panics if i is out of range.
func Lookup[T Integer](s []T, i int) T {
	if uint(i) >= uint(len(s)) {
		panic("ct: index out of range")
	}
	var v T
	for k, e := range s {
		v = Select(Eq(uint64(k), uint64(i)), e, v)
	}
	return v
}

// CopyIf copies src into dst if v == 1 and leaves dst untouched if v == 0. Both slices must have
// the same length.
func CopyIf(v uint32, dst, src []byte) {
	if len(dst) != len(src) {
		panic("ct: length mismatch")
	}
	subtle.ConstantTimeCopy(int(v), dst, src)
}
