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

// Package ctdiff computes byte-level edit scripts in constant time.
//
// The time taken by [Diff] depends only on the lengths of its inputs and the configuration, never
// on their content or on how similar they are. This makes it suitable for comparing sensitive data
// (credentials, documents, configuration) where an observer can measure how long a comparison
// takes.
//
// The algorithm computes the full Levenshtein distance matrix and recovers a minimal edit script
// by walking back through it. Both stages use only branch-free selection on secret data. There is
// no early exit for identical inputs, no prefix or suffix stripping, and no heuristics.
//
// Performance: The time and space complexity is O(MN) where M and N are the lengths of the inputs
// after padding. Use [MaxInputSize] and [MaxEditDistance] to bound the worst case; both limits are
// checked before any content is read.
//
// Padding: By default, both inputs are extended to the next power of two of the longer input
// before the matrix is built, so that the work done only reveals the size class of the inputs.
// Padding never affects the result.
//
// Limitations: The guarantee is the absence of content-dependent control flow in the algorithm.
// The memory cells read while walking back through the matrix follow the edit path, and the
// compiler, the CPU, and the memory subsystem may introduce variable timing. Power and
// electromagnetic side channels are out of scope.
//
// For rendering results in unified, git, JSON, HTML, or summary form, see [znkr.io/ctdiff/render].
//
// [znkr.io/ctdiff/render]: https://pkg.go.dev/znkr.io/ctdiff/render
package ctdiff
