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

package ctdiff_test

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"znkr.io/ctdiff"
)

func ExampleDiff() {
	r, err := ctdiff.Diff([]byte("kitten"), []byte("sitting"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("distance:", r.Distance)
	for _, e := range r.Edits {
		switch e.Op {
		case ctdiff.Keep:
			fmt.Println("keep")
		case ctdiff.Insert:
			fmt.Printf("insert %q\n", e.Byte)
		case ctdiff.Delete:
			fmt.Println("delete")
		case ctdiff.Substitute:
			fmt.Printf("substitute %q\n", e.Byte)
		}
	}
	// Output:
	// distance: 3
	// substitute 's'
	// keep
	// keep
	// keep
	// substitute 'i'
	// keep
	// insert 'g'
}

// Reconstruct the second input from the first and the edit script.
func ExampleResult_ApplyTo() {
	a := []byte("password=hunter2")
	r, err := ctdiff.Diff(a, []byte("password=hunter3"))
	if err != nil {
		log.Fatal(err)
	}
	b, err := r.ApplyTo(a)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%s (distance %d, valid %t)\n", b, r.Distance, r.IsValid())
	// Output:
	// password=hunter3 (distance 1, valid true)
}

// Size limits are checked before any content is read.
func ExampleMaxInputSize() {
	_, err := ctdiff.Diff([]byte(strings.Repeat("x", 20)), []byte("x"), ctdiff.MaxInputSize(10))
	fmt.Println(errors.Is(err, ctdiff.ErrInputTooLarge))
	fmt.Println(err)
	// Output:
	// true
	// input size 20 exceeds limit 10
}

func ExampleLevel() {
	opts := []ctdiff.Option{ctdiff.Level(ctdiff.LevelFast), ctdiff.MemoryProtection(true)}
	warnings, err := ctdiff.Validate(opts...)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("warnings:", len(warnings))

	r, err := ctdiff.Diff([]byte("bat"), []byte("at"), opts...)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("distance:", r.Distance)
	// Output:
	// warnings: 0
	// distance: 1
}
