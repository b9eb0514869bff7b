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

package render

import (
	"bytes"
	"fmt"
	"math"
	"strings"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/config"
)

// Summary renders statistics about r for humans.
//
// A header is written if names are set with [Names]. With [Compact], the detailed breakdown is
// omitted.
//
// The following options are supported: [Names], [Compact]
func Summary(a []byte, r *ctdiff.Result, opts ...Option) ([]byte, error) {
	cfg := config.FromOptions(opts, config.Names|config.Compact)
	return summary(a, r, cfg)
}

func summary(a []byte, r *ctdiff.Result, cfg config.Config) ([]byte, error) {
	d, err := lines(a, r)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	if cfg.NameA != "" || cfg.NameB != "" {
		fmt.Fprintf(&b, "Diff Summary: %s → %s\n%s\n", cfg.NameA, cfg.NameB, strings.Repeat("=", 40))
	}

	similarity := math.Round(r.Similarity() * 100)
	if r.Identical() {
		b.WriteString("Status: IDENTICAL\n")
	} else {
		fmt.Fprintf(&b, "Status: %d changes (%.1f%% similar)\n", r.Distance, similarity)
	}
	fmt.Fprintf(&b, "Edit Distance: %d\n", r.Distance)
	fmt.Fprintf(&b, "Similarity: %.2f%%\n", similarity)
	fmt.Fprintf(&b, "Left Size: %d bytes\n", r.LenA)
	fmt.Fprintf(&b, "Right Size: %d bytes\n", r.LenB)
	if change := r.LenB - r.LenA; change != 0 {
		fmt.Fprintf(&b, "Size Change: %+d bytes\n", change)
	}

	st := r.Stats()
	total := st.Total()
	b.WriteString("\nOperations:\n")
	fmt.Fprintf(&b, "  Total: %d\n", total)
	for _, c := range []struct {
		name string
		n    int
	}{
		{"Insertions", st.Insert},
		{"Deletions", st.Delete},
		{"Substitutions", st.Substitute},
		{"Unchanged", st.Keep},
	} {
		if c.n > 0 {
			fmt.Fprintf(&b, "  %s: %d (%.1f%%)\n", c.name, c.n, percent(c.n, total))
		}
	}

	if isText(d.x.data) && isText(d.y.data) {
		nx, ny := len(d.x.lines), len(d.y.lines)
		b.WriteString("\nLine Statistics:\n")
		fmt.Fprintf(&b, "  Left Lines: %d\n", nx)
		fmt.Fprintf(&b, "  Right Lines: %d\n", ny)
		if change := ny - nx; change != 0 {
			fmt.Fprintf(&b, "  Line Change: %+d\n", change)
		}
		var removed, added int
		for _, c := range d.rx[:nx] {
			if c {
				removed++
			}
		}
		for _, c := range d.ry[:ny] {
			if c {
				added++
			}
		}
		if removed+added > 0 {
			fmt.Fprintf(&b, "  Changed Lines: -%d +%d\n", removed, added)
		}
	}

	if !cfg.Compact && total > 0 {
		b.WriteString("\nDetailed Breakdown:\n")
		b.WriteString(strings.Repeat("-", 20))
		b.WriteByte('\n')
		if changes := st.Insert + st.Delete + st.Substitute; changes > 0 {
			fmt.Fprintf(&b, "Content Changes: %d operations\n", changes)
		}
		if st.Keep > 0 {
			fmt.Fprintf(&b, "Preserved Content: %d bytes\n", st.Keep)
		}
		fmt.Fprintf(&b, "Change Complexity: %s\n", complexity(st))
	}
	return b.Bytes(), nil
}

func percent(n, total int) float64 {
	return float64(n) / float64(total) * 100
}

func complexity(st ctdiff.Stats) string {
	ratio := float64(st.Insert+st.Delete+st.Substitute) / float64(st.Total())
	switch {
	case ratio < 0.1:
		return "Low (minor changes)"
	case ratio < 0.3:
		return "Medium (moderate changes)"
	case ratio < 0.7:
		return "High (significant changes)"
	default:
		return "Very High (major rewrite)"
	}
}
