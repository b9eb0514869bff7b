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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRun(t *testing.T) {
	dir := t.TempDir()
	oldFile, newFile := filepath.Join(dir, "old"), filepath.Join(dir, "new")
	if err := os.WriteFile(oldFile, []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newFile, []byte("a\nx\nc\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "modified",
			args: []string{"gitdiff", "file.txt", oldFile, "de98044", "100644", newFile, "f5aa8c1", "100644"},
			want: "diff --git a/file.txt b/file.txt\n" +
				"index de98044..f5aa8c1 100644\n" +
				"--- a/file.txt\n" +
				"+++ b/file.txt\n" +
				"@@ -1,3 +1,3 @@\n a\n-b\n+x\n c\n",
		},
		{
			name: "added",
			args: []string{"gitdiff", "file.txt", "/dev/null", ".", ".", newFile, "f5aa8c1", "100644"},
			want: "diff --git a/file.txt b/file.txt\n" +
				"new file mode 100644\n" +
				"index 0000000..f5aa8c1\n" +
				"--- /dev/null\n" +
				"+++ b/file.txt\n" +
				"@@ -0,0 +1,3 @@\n+a\n+x\n+c\n",
		},
		{
			name: "unchanged",
			args: []string{"gitdiff", "file.txt", oldFile, "de98044", "100644", oldFile, "de98044", "100644"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := run(tt.args, &buf); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("run() output is different [-want,+got]:\n%s", diff)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	if err := run([]string{"gitdiff", "file.txt"}, &bytes.Buffer{}); err == nil {
		t.Error("run() succeeded with too few arguments")
	}
	missing := filepath.Join(t.TempDir(), "missing")
	if err := run([]string{"gitdiff", "f", missing, ".", ".", missing, ".", "."}, &bytes.Buffer{}); err == nil {
		t.Error("run() succeeded with a missing file")
	}
}
