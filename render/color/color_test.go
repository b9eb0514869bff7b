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

package color

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"znkr.io/ctdiff/internal/config"
)

func TestOptions(t *testing.T) {
	var got config.ColorConfig
	for _, opt := range []Option{
		Headers(1),
		HunkHeaders(1, 33),
		Matches(),
		Deletes(31),
		Inserts(38, 5, 82),
	} {
		opt(&got)
	}
	want := config.ColorConfig{
		Header:     "\033[1m",
		HunkHeader: "\033[1;33m",
		Match:      "",
		Delete:     "\033[31m",
		Insert:     "\033[38;5;82m",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("color options differ [-want,+got]:\n%s", diff)
	}
}
