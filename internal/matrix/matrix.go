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

// Package matrix computes the full Levenshtein distance table for two byte sequences.
//
// Every cell is computed with the same sequence of constant-time operations. There is no early
// exit and no skipping of cells, the work is exactly len(a)*len(b) transitions for any content.
package matrix

import "znkr.io/ctdiff/internal/ct"

// Matrix is a dense (m+1)×(n+1) table of edit distances stored in row-major order.
type Matrix struct {
	cells      []uint32
	rows, cols int
}

// Build computes the edit distance table for a and b.
func Build(a, b []byte) *Matrix {
	rows, cols := len(a)+1, len(b)+1
	mat := &Matrix{
		cells: make([]uint32, rows*cols),
		rows:  rows,
		cols:  cols,
	}

	// Boundary conditions.
	for j := range cols {
		mat.cells[j] = uint32(j)
	}
	for i := range rows {
		mat.cells[i*cols] = uint32(i)
	}

	for i := 1; i < rows; i++ {
		prev := mat.cells[(i-1)*cols : i*cols]
		cur := mat.cells[i*cols : (i+1)*cols]
		ai := a[i-1]
		for j := 1; j < cols; j++ {
			eq := ct.ByteEq(ai, b[j-1])
			diag := prev[j-1] + ct.Not(eq)
			ins := cur[j-1] + 1
			del := prev[j] + 1
			cur[j] = ct.Min(diag, ct.Min(ins, del))
		}
	}
	return mat
}

// Rows returns m+1.
func (m *Matrix) Rows() int { return m.rows }

// Cols returns n+1.
func (m *Matrix) Cols() int { return m.cols }

// At returns the distance between a[:i] and b[:j].
func (m *Matrix) At(i, j int) uint32 {
	if uint(i) >= uint(m.rows) || uint(j) >= uint(m.cols) {
		panic("matrix: index out of range")
	}
	return m.cells[i*m.cols+j]
}

// Wipe zeroes all cells. The matrix must not be used afterwards.
func (m *Matrix) Wipe() {
	clear(m.cells)
}
