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

// gitdiff lets git use ctdiff as its external diff driver:
//
//	GIT_EXTERNAL_DIFF=gitdiff git diff
//
// Files are compared at the balanced security level. Files that exceed its limits are reported as
// an error instead of being compared.
package main

import (
	"fmt"
	"io"
	"os"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/render"
)

func main() {
	if err := run(os.Args, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, w io.Writer) error {
	if len(args) < 8 {
		return fmt.Errorf("expected at least 8 args, got %v: %v", len(args), args)
	}
	path, oldFile, newFile := args[1], args[2], args[5]

	old, err := readFile(oldFile)
	if err != nil {
		return fmt.Errorf("reading old file: %v", err)
	}
	new, err := readFile(newFile)
	if err != nil {
		return fmt.Errorf("reading new file: %v", err)
	}

	r, err := ctdiff.Diff(old, new, ctdiff.Level(ctdiff.LevelBalanced))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out, err := render.Git(old, r, render.Names(path, path))
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func readFile(name string) ([]byte, error) {
	if name == "/dev/null" {
		return nil, nil
	}
	return os.ReadFile(name)
}
