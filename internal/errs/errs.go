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

// Package errs defines the error values shared by the packages of this module.
//
// The root package re-exports all of them, users should refer to those.
package errs

import (
	"errors"
	"fmt"
)

var (
	ErrInputTooLarge            = errors.New("input too large")
	ErrComputationLimitExceeded = errors.New("computation limit exceeded")
	ErrInvalidInput             = errors.New("invalid input")
	ErrInvalidScript            = errors.New("invalid script")
	ErrAlgorithm                = errors.New("algorithm error")
	ErrInsecureConfig           = errors.New("insecure configuration")
	ErrInvalidConfig            = errors.New("invalid configuration")
)

// SizeError reports an input that exceeds a size limit. It matches [ErrInputTooLarge].
type SizeError struct {
	Size  int // Size of the offending input.
	Limit int // Limit that was exceeded.
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("input size %d exceeds limit %d", e.Size, e.Limit)
}

func (e *SizeError) Unwrap() error { return ErrInputTooLarge }

// LimitError reports a computation that was rejected before it started. It matches
// [ErrComputationLimitExceeded].
type LimitError struct {
	Size  int // Combined length of both inputs as seen by the matrix.
	Limit int // Configured maximum edit distance.
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("computation limit exceeded: combined length %d exceeds maximum edit distance %d", e.Size, e.Limit)
}

func (e *LimitError) Unwrap() error { return ErrComputationLimitExceeded }
