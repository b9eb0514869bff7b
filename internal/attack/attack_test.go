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
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"znkr.io/ctdiff"
	"znkr.io/ctdiff/timing"
)

func TestScenarios(t *testing.T) {
	ids := map[string]bool{}
	for _, sc := range Scenarios() {
		t.Run(sc.ID, func(t *testing.T) {
			require.False(t, ids[sc.ID], "duplicate id")
			ids[sc.ID] = true

			require.GreaterOrEqual(t, len(sc.Cases), 2)
			assert.NotEmpty(t, sc.Description)
			n := len(sc.Cases[0].Secret)
			for _, c := range sc.Cases {
				assert.Len(t, c.Secret, n, "case %s", c.Name)
				assert.Len(t, c.Guess, n, "case %s", c.Name)
			}
		})
	}
}

func TestEarlyVsLateCasesDiffer(t *testing.T) {
	sc, err := Lookup("early-vs-late")
	require.NoError(t, err)
	for _, c := range sc.Cases {
		assert.False(t, bytes.Equal(c.Secret, c.Guess), "case %s", c.Name)
	}
}

func TestLookup(t *testing.T) {
	sc, err := Lookup("code-review")
	require.NoError(t, err)
	assert.Equal(t, "code-review", sc.ID)

	_, err = Lookup("nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "early-vs-late")
}

func TestCustom(t *testing.T) {
	sc := Custom([]byte("secret"), []byte("guess"))
	require.Len(t, sc.Cases, 2)
	assert.Equal(t, []byte("secret"), sc.Cases[0].Guess)
	assert.Equal(t, []byte("guess "), sc.Cases[1].Guess)
}

func TestSuccessProbability(t *testing.T) {
	sig := func(ratio float64) timing.Comparison { return timing.Comparison{Ratio: ratio, Significant: true} }
	insig := timing.Comparison{Ratio: 1}

	tests := []struct {
		name string
		cs   []timing.Comparison
		want float64
	}{
		{"none", nil, 0},
		{"no-significant", []timing.Comparison{insig, insig}, 0},
		{"all-significant", []timing.Comparison{sig(2), sig(2)}, 0.9},
		{"half-significant", []timing.Comparison{sig(1.5), insig}, 0.45},
		{"inverse-ratio", []timing.Comparison{sig(0.5)}, 0.9},
		{"capped", []timing.Comparison{sig(10)}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, SuccessProbability(tt.cs), 1e-9)
		})
	}
}

func TestRiskOf(t *testing.T) {
	assert.Equal(t, RiskLow, RiskOf(0))
	assert.Equal(t, RiskLow, RiskOf(0.3))
	assert.Equal(t, RiskModerate, RiskOf(0.31))
	assert.Equal(t, RiskModerate, RiskOf(0.6))
	assert.Equal(t, RiskHigh, RiskOf(0.61))
	assert.Equal(t, "HIGH RISK", RiskHigh.String())
	assert.Equal(t, "Risk(7)", Risk(7).String())
}

func TestRun(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping timing test in short mode")
	}
	sc := Custom([]byte("secret"), []byte("guess!"))
	slow := Implementation{
		Name: "slow-when-identical",
		Diff: func(a, b []byte) error {
			if bytes.Equal(a, b) {
				time.Sleep(2 * time.Millisecond)
			}
			return nil
		},
	}
	s := &Simulator{
		Implementations: []Implementation{slow, ConstantTime(ctdiff.NoPadding())},
		Iterations:      5,
	}
	rs, err := s.Run(sc)
	require.NoError(t, err)

	require.Len(t, rs.Results, 2)
	require.NotNil(t, rs.Overall)
	assert.Equal(t, 5, rs.Iterations)
	assert.Len(t, rs.Measurements(), 2*5*len(sc.Cases))

	leaking := rs.Results[0]
	assert.Equal(t, "slow-when-identical", leaking.Implementation)
	require.Len(t, leaking.Comparisons, 1)
	assert.True(t, leaking.Comparisons[0].Significant)
	assert.Greater(t, leaking.SuccessProbability, 0.5)
	assert.Equal(t, RiskHigh, leaking.Risk())

	m := leaking.Measurements[0]
	assert.Equal(t, "slow-when-identical_identical", m.Label)
	assert.Equal(t, map[string]string{"implementation": "slow-when-identical", "case": "identical"}, m.Metadata)
}

func TestRunErrors(t *testing.T) {
	s := NewSimulator(1)
	_, err := s.Run(Scenario{ID: "single", Cases: []Case{{Name: "only"}}})
	assert.Error(t, err)

	errBroken := errors.New("broken")
	s.Implementations = []Implementation{{Name: "broken", Diff: func(a, b []byte) error { return errBroken }}}
	_, err = s.Run(Custom([]byte("a"), []byte("b")))
	assert.ErrorIs(t, err, errBroken)

	// Failures after the warmup are reported too.
	calls := 0
	s.Implementations = []Implementation{{Name: "flaky", Diff: func(a, b []byte) error {
		calls++
		if calls > warmup*2 {
			return errBroken
		}
		return nil
	}}}
	_, err = s.Run(Custom([]byte("a"), []byte("b")))
	assert.ErrorIs(t, err, errBroken)
	assert.Equal(t, warmup*2+1, calls)

	s = NewSimulator(1, ctdiff.MaxInputSize(4))
	_, err = s.Run(Custom([]byte("too long"), []byte("input")))
	assert.ErrorIs(t, err, ctdiff.ErrInputTooLarge)
}

func testResults() *Results {
	return &Results{
		Scenario:   Scenario{ID: "custom", Description: "Custom - comparing two given inputs"},
		Iterations: 3,
		Results: []Result{
			{
				Implementation:     "vulnerable",
				Comparisons:        []timing.Comparison{{LabelA: "a", LabelB: "b", Ratio: 3, Significant: true, PValue: 0.05}},
				SuccessProbability: 1,
			},
			{
				Implementation:     "constant-time",
				Comparisons:        []timing.Comparison{{LabelA: "a", LabelB: "b", Ratio: 1}},
				SuccessProbability: 0,
			},
		},
	}
}

func TestWriteReport(t *testing.T) {
	defer func(v bool) { color.NoColor = v }(color.NoColor)
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, testResults()))
	out := buf.String()
	for _, want := range []string{
		"=== TIMING ATTACK SIMULATION RESULTS ===\n",
		"Scenario: Custom - comparing two given inputs\n",
		"Iterations: 3\n",
		"[vulnerable]\n",
		"  VULNERABLE: significant timing difference detected\n",
		"  Attack success probability: 100.0%\n",
		"  HIGH RISK: attack likely to succeed\n",
		"[constant-time]\n",
		"  SECURE: no significant timing difference\n",
		"  LOW RISK: attack unlikely to succeed\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "[overall]")
	assert.NotContains(t, out, "\033[")
}

func TestWriteAssessment(t *testing.T) {
	defer func(v bool) { color.NoColor = v }(color.NoColor)
	color.NoColor = true

	var buf bytes.Buffer
	require.NoError(t, WriteAssessment(&buf, []*Results{testResults(), testResults()}))
	assert.Equal(t, "=== OVERALL ASSESSMENT ===\n"+
		"vulnerable: vulnerable in 2/2 scenarios\n"+
		"constant-time: vulnerable in 0/2 scenarios\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteAssessment(&buf, nil))
	assert.True(t, strings.HasSuffix(buf.String(), "No scenarios were run\n"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteReportError(t *testing.T) {
	assert.EqualError(t, WriteReport(failingWriter{}, testResults()), "disk full")
}
