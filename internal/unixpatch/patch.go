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

// Package unixpatch applies unified diffs with the patch(1) tool to validate rendered output.
//
// This package is only for testing.
package unixpatch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// ErrNotInstalled is returned if patch(1) can't be found.
var ErrNotInstalled = errors.New("patch tool not found in PATH")

// Patch applies diff to orig and returns the patched content.
func Patch(orig, diff string) (string, error) {
	// patch doesn't create an output file for an empty diff.
	if diff == "" {
		return orig, nil
	}
	bin, err := exec.LookPath("patch")
	if err != nil {
		return "", ErrNotInstalled
	}

	dir, err := os.MkdirTemp("", "ctdiff-patch-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary directory: %v", err)
	}
	defer os.RemoveAll(dir)

	var (
		diffFile = filepath.Join(dir, "diff")
		origFile = filepath.Join(dir, "orig")
		outFile  = filepath.Join(dir, "out")
	)
	for name, data := range map[string]string{diffFile: diff, origFile: orig} {
		if err := os.WriteFile(name, []byte(data), 0o644); err != nil {
			return "", fmt.Errorf("failed to write %s: %v", filepath.Base(name), err)
		}
	}

	cmd := exec.Command(bin, "--unified", "--silent", "--input", diffFile, "--output", outFile, origFile)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("%s: %v\n%s", cmd, err, out)
	}

	out, err := os.ReadFile(outFile)
	if err != nil {
		return "", fmt.Errorf("failed to read patched file: %v", err)
	}
	return string(out), nil
}
