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

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/leaky"
	"znkr.io/ctdiff/timing"
)

// Implementation is a diff implementation under attack.
type Implementation struct {
	Name string
	Diff func(a, b []byte) error
}

// Leaky returns the variable time reference implementation.
func Leaky() Implementation {
	return Implementation{
		Name: "vulnerable",
		Diff: func(a, b []byte) error {
			leaky.Diff(a, b)
			return nil
		},
	}
}

// ConstantTime returns the constant time implementation configured with opts.
func ConstantTime(opts ...ctdiff.Option) Implementation {
	return Implementation{
		Name: "constant-time",
		Diff: func(a, b []byte) error {
			_, err := ctdiff.Diff(a, b, opts...)
			return err
		},
	}
}

// Significance levels for comparisons between cases and between all measurements of two
// implementations.
const (
	PValue        = 0.05
	OverallPValue = 0.01
)

const warmup = 10

// Simulator measures implementations on scenarios.
type Simulator struct {
	Implementations []Implementation
	Iterations      int // Measurements per case and implementation
}

// NewSimulator returns a simulator that attacks the leaky and the constant time implementation.
// The latter is configured with opts.
func NewSimulator(iterations int, opts ...ctdiff.Option) *Simulator {
	return &Simulator{
		Implementations: []Implementation{Leaky(), ConstantTime(opts...)},
		Iterations:      iterations,
	}
}

// Result is the outcome of attacking a single implementation.
type Result struct {
	Implementation string
	Measurements   []timing.Measurement
	// Comparisons holds the comparison of every case with the first case of the scenario.
	Comparisons []timing.Comparison
	// SuccessProbability estimates how likely an attacker can tell cases apart.
	SuccessProbability float64
}

// Risk classifies the success probability.
func (r Result) Risk() Risk { return RiskOf(r.SuccessProbability) }

// Results is the outcome of running a scenario.
type Results struct {
	Scenario   Scenario
	Iterations int
	Results    []Result
	// Overall compares all measurements of the first implementation with those of the second.
	Overall *timing.Comparison
}

// Run measures all implementations on all cases of sc.
//
// Cases are measured round robin to spread out drift, for example from frequency scaling, evenly
// across cases.
func (s *Simulator) Run(sc Scenario) (*Results, error) {
	if len(sc.Cases) < 2 {
		return nil, fmt.Errorf("scenario %q needs at least two cases, got %d", sc.ID, len(sc.Cases))
	}
	res := &Results{Scenario: sc, Iterations: max(1, s.Iterations)}
	var overall []timing.Stats
	for _, impl := range s.Implementations {
		r, all, err := s.run(impl, sc, res.Iterations)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", impl.Name, err)
		}
		res.Results = append(res.Results, r)
		overall = append(overall, all)
	}
	if len(overall) >= 2 {
		c := timing.Compare(s.Implementations[0].Name, overall[0], s.Implementations[1].Name, overall[1], OverallPValue)
		res.Overall = &c
	}
	return res, nil
}

func (s *Simulator) run(impl Implementation, sc Scenario, iterations int) (Result, timing.Stats, error) {
	for range warmup {
		for _, c := range sc.Cases {
			if err := impl.Diff(c.Secret, c.Guess); err != nil {
				return Result{}, timing.Stats{}, fmt.Errorf("case %s: %w", c.Name, err)
			}
		}
	}

	var timer timing.Timer
	for range iterations {
		for _, c := range sc.Cases {
			var err error
			timer.Measure(c.Name, func() { err = impl.Diff(c.Secret, c.Guess) })
			if err != nil {
				return Result{}, timing.Stats{}, fmt.Errorf("case %s: %w", c.Name, err)
			}
		}
	}

	r := Result{Implementation: impl.Name}
	for _, m := range timer.Measurements() {
		m.Metadata = map[string]string{"implementation": impl.Name, "case": m.Label}
		m.Label = impl.Name + "_" + m.Label
		r.Measurements = append(r.Measurements, m)
	}

	stats := make(map[string]timing.Stats, len(sc.Cases))
	for _, c := range sc.Cases {
		stats[c.Name], _ = timer.Stats(c.Name)
	}
	base := sc.Cases[0].Name
	for _, c := range sc.Cases[1:] {
		r.Comparisons = append(r.Comparisons, timing.Compare(base, stats[base], c.Name, stats[c.Name], PValue))
	}
	r.SuccessProbability = SuccessProbability(r.Comparisons)

	all, _ := timing.FromMeasurements(timer.Measurements())
	return r, all, nil
}

// SuccessProbability estimates the probability that a timing attack succeeds from the
// comparisons between cases. Up to 0.8 comes from the share of significant comparisons and up to
// 0.2 from the average slowdown between significantly different cases.
func SuccessProbability(cs []timing.Comparison) float64 {
	if len(cs) == 0 {
		return 0
	}
	var sig int
	var ratios float64
	for _, c := range cs {
		if !c.Significant {
			continue
		}
		sig++
		ratios += max(c.Ratio, 1/c.Ratio)
	}
	avg := 1.0
	if sig > 0 {
		avg = ratios / float64(sig)
	}
	p := float64(sig)/float64(len(cs))*0.8 + min(0.2, (avg-1)/10)
	return min(1, p)
}

// Risk is the risk that a timing attack succeeds.
type Risk int

const (
	RiskLow Risk = iota
	RiskModerate
	RiskHigh
)

// RiskOf classifies a success probability.
func RiskOf(p float64) Risk {
	switch {
	case p > 0.6:
		return RiskHigh
	case p > 0.3:
		return RiskModerate
	default:
		return RiskLow
	}
}

func (r Risk) String() string {
	switch r {
	case RiskLow:
		return "LOW RISK"
	case RiskModerate:
		return "MODERATE RISK"
	case RiskHigh:
		return "HIGH RISK"
	default:
		return fmt.Sprintf("Risk(%d)", int(r))
	}
}

// Measurements returns the measurements of all implementations.
func (rs *Results) Measurements() []timing.Measurement {
	var ms []timing.Measurement
	for _, r := range rs.Results {
		ms = append(ms, r.Measurements...)
	}
	return ms
}
