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

import "znkr.io/ctdiff/internal/errs"

// Errors returned by this package. Use [errors.Is] to test for them.
var (
	// ErrInputTooLarge is returned if an input exceeds the maximum input size or the padding size.
	ErrInputTooLarge = errs.ErrInputTooLarge

	// ErrComputationLimitExceeded is returned if the combined input length exceeds the maximum edit
	// distance. The check happens before any content is read.
	ErrComputationLimitExceeded = errs.ErrComputationLimitExceeded

	// ErrInvalidInput is returned if [Result.ApplyTo] is called with an input of the wrong length.
	ErrInvalidInput = errs.ErrInvalidInput

	// ErrInvalidScript is returned if an edit script is inconsistent with the input it's applied to
	// or if a serialized result is corrupt.
	ErrInvalidScript = errs.ErrInvalidScript

	// ErrAlgorithm indicates an internal inconsistency. It should never happen.
	ErrAlgorithm = errs.ErrAlgorithm

	// ErrInsecureConfig is returned for configurations that would void the timing guarantees.
	ErrInsecureConfig = errs.ErrInsecureConfig

	// ErrInvalidConfig is returned for configurations with out of range parameters.
	ErrInvalidConfig = errs.ErrInvalidConfig
)

// SizeError describes an input that exceeds a size limit. It matches [ErrInputTooLarge].
type SizeError = errs.SizeError

// LimitError describes a comparison that exceeds the maximum edit distance. It matches
// [ErrComputationLimitExceeded].
type LimitError = errs.LimitError
