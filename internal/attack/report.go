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

package attack

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"znkr.io/ctdiff/timing"
)

var (
	bad     = color.New(color.FgRed, color.Bold)
	warn    = color.New(color.FgYellow)
	good    = color.New(color.FgGreen)
	heading = color.New(color.Bold)
)

var riskMessages = map[Risk]string{
	RiskHigh:     "HIGH RISK: attack likely to succeed",
	RiskModerate: "MODERATE RISK: attack may succeed with more samples",
	RiskLow:      "LOW RISK: attack unlikely to succeed",
}

func riskColor(r Risk) *color.Color {
	switch r {
	case RiskHigh:
		return bad
	case RiskModerate:
		return warn
	default:
		return good
	}
}

// WriteReport writes a human readable report of rs to w. Colors are controlled by
// [color.NoColor].
func WriteReport(w io.Writer, rs *Results) error {
	ew := &errWriter{w: w}
	heading.Fprintln(ew, "=== TIMING ATTACK SIMULATION RESULTS ===")
	fmt.Fprintf(ew, "Scenario: %s\n", rs.Scenario.Description)
	fmt.Fprintf(ew, "Iterations: %d\n", rs.Iterations)

	for _, r := range rs.Results {
		fmt.Fprintln(ew)
		heading.Fprintf(ew, "[%s]\n", r.Implementation)
		for _, c := range r.Comparisons {
			writeComparison(ew, c)
		}
		fmt.Fprintf(ew, "  Attack success probability: %.1f%%\n", r.SuccessProbability*100)
		riskColor(r.Risk()).Fprintf(ew, "  %s\n", riskMessages[r.Risk()])
	}

	if rs.Overall != nil {
		fmt.Fprintln(ew)
		heading.Fprintln(ew, "[overall]")
		fmt.Fprintln(ew, indent(rs.Overall.Summary()))
	}
	return ew.err
}

func writeComparison(w io.Writer, c timing.Comparison) {
	fmt.Fprintln(w, indent(c.Summary()))
	if c.Significant {
		bad.Fprintln(w, "  VULNERABLE: significant timing difference detected")
	} else {
		good.Fprintln(w, "  SECURE: no significant timing difference")
	}
}

// Vulnerable reports whether an attack on r is more likely to succeed than not.
func Vulnerable(r Result) bool { return r.SuccessProbability > 0.5 }

// WriteAssessment writes an overall assessment of several scenarios to w.
func WriteAssessment(w io.Writer, all []*Results) error {
	ew := &errWriter{w: w}
	heading.Fprintln(ew, "=== OVERALL ASSESSMENT ===")
	if len(all) == 0 {
		fmt.Fprintln(ew, "No scenarios were run")
		return ew.err
	}
	for i, r := range all[0].Results {
		n := 0
		for _, rs := range all {
			if Vulnerable(rs.Results[i]) {
				n++
			}
		}
		c := good
		if n > 0 {
			c = bad
		}
		c.Fprintf(ew, "%s: vulnerable in %d/%d scenarios\n", r.Implementation, n, len(all))
	}
	return ew.err
}

func indent(s string) string {
	return "  " + strings.ReplaceAll(s, "\n", "\n  ")
}

// errWriter remembers the first error and drops all writes after it.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) Write(p []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(p)
	ew.err = err
	return n, err
}
