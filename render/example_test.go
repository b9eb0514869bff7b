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

package render_test

import (
	"fmt"
	"log"
	"os"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/render"
)

func ExampleUnified() {
	x := []byte("1\n2\n3\n4\n5\n6\n7\n8\n9\n")
	y := []byte("x\n2\n3\n4\n5\n6\n7\n8\ny\n")
	r, err := ctdiff.Diff(x, y)
	if err != nil {
		log.Fatal(err)
	}
	out, err := render.Unified(x, r, render.Context(1), render.Names("x.txt", "y.txt"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(out))
	// Output:
	// --- x.txt
	// +++ y.txt
	// @@ -1,2 +1,2 @@
	// -1
	// +x
	//  2
	// @@ -8,2 +8,2 @@
	//  8
	// -9
	// +y
}

func ExampleRender() {
	x := []byte("a\nb\nc\n")
	r, err := ctdiff.Diff(x, []byte("a\nx\nc\n"))
	if err != nil {
		log.Fatal(err)
	}
	if err := render.Render(os.Stdout, render.FormatSummary, x, r, render.Compact()); err != nil {
		log.Fatal(err)
	}
	// Output:
	// Status: 1 changes (83.0% similar)
	// Edit Distance: 1
	// Similarity: 83.00%
	// Left Size: 6 bytes
	// Right Size: 6 bytes
	//
	// Operations:
	//   Total: 6
	//   Substitutions: 1 (16.7%)
	//   Unchanged: 5 (83.3%)
	//
	// Line Statistics:
	//   Left Lines: 3
	//   Right Lines: 3
	//   Changed Lines: -1 +1
}
