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

// Package timing measures execution time and compares timing distributions.
//
// It's used to check empirically that diffs of equal length inputs take the same time, and to
// demonstrate how a variable time implementation leaks information about its inputs. Timing
// results are inherently noisy, nothing in this package makes deterministic claims.
package timing

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"time"
)

// Measurement is the duration of one or more runs of an operation.
type Measurement struct {
	Label      string            `json:"label"`
	Duration   time.Duration     `json:"duration"`   // Total duration of all iterations
	Iterations int               `json:"iterations"` // Number of runs, at least 1
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Average returns the average duration of a single iteration.
func (m Measurement) Average() time.Duration {
	if m.Iterations == 0 {
		return 0
	}
	return m.Duration / time.Duration(m.Iterations)
}

// AverageNanos is like [Measurement.Average] but without rounding to whole nanoseconds.
func (m Measurement) AverageNanos() float64 {
	if m.Iterations == 0 {
		return 0
	}
	return float64(m.Duration.Nanoseconds()) / float64(m.Iterations)
}

// Timer records measurements. The zero value is ready to use. A Timer must not be used
// concurrently.
type Timer struct {
	measurements []Measurement
}

// Measure runs f once and records its duration under label.
func (t *Timer) Measure(label string, f func()) Measurement {
	return t.MeasureN(label, 1, f)
}

// MeasureN runs f n times and records the total duration under label.
func (t *Timer) MeasureN(label string, n int, f func()) Measurement {
	n = max(1, n)
	start := time.Now()
	for range n {
		f()
	}
	m := Measurement{Label: label, Duration: time.Since(start), Iterations: n}
	t.measurements = append(t.measurements, m)
	return m
}

// Measurements returns all recorded measurements in the order they were taken.
func (t *Timer) Measurements() []Measurement { return t.measurements }

// Reset removes all recorded measurements.
func (t *Timer) Reset() { t.measurements = t.measurements[:0] }

// Stats returns statistics over the per iteration averages of all measurements recorded under
// label. It returns false if there are none.
func (t *Timer) Stats(label string) (Stats, bool) {
	var ds []time.Duration
	for _, m := range t.measurements {
		if m.Label == label {
			ds = append(ds, m.Average())
		}
	}
	return FromDurations(ds)
}

// Stats describes a sample of durations.
type Stats struct {
	Count    int           `json:"count"`
	Min      time.Duration `json:"min"`
	Max      time.Duration `json:"max"`
	Mean     time.Duration `json:"mean"`
	Median   time.Duration `json:"median"`
	StdDev   time.Duration `json:"std_dev"`
	Variance float64       `json:"variance"` // Population variance in ns²
	CILow    time.Duration `json:"ci95_low"` // Lower bound of the 95% confidence interval of the mean
	CIHigh   time.Duration `json:"ci95_high"`
	CV       float64       `json:"coefficient_of_variation"` // StdDev / Mean
}

// FromDurations computes statistics over ds. It returns false if ds is empty.
func FromDurations(ds []time.Duration) (Stats, bool) {
	if len(ds) == 0 {
		return Stats{}, false
	}
	sorted := slices.Clone(ds)
	slices.Sort(sorted)

	n := float64(len(ds))
	var sum float64
	for _, d := range ds {
		sum += float64(d)
	}
	mean := sum / n

	var sq float64
	for _, d := range ds {
		δ := float64(d) - mean
		sq += δ * δ
	}
	variance := sq / n
	stddev := math.Sqrt(variance)

	var median float64
	if mid := len(sorted) / 2; len(sorted)%2 == 0 {
		median = (float64(sorted[mid-1]) + float64(sorted[mid])) / 2
	} else {
		median = float64(sorted[mid])
	}

	var cv float64
	if mean > 0 {
		cv = stddev / mean
	}
	margin := 1.96 * stddev / math.Sqrt(n)

	return Stats{
		Count:    len(ds),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Mean:     time.Duration(mean),
		Median:   time.Duration(median),
		StdDev:   time.Duration(stddev),
		Variance: variance,
		CILow:    time.Duration(max(0, mean-margin)),
		CIHigh:   time.Duration(mean + margin),
		CV:       cv,
	}, true
}

// FromMeasurements computes statistics over the per iteration averages of ms.
func FromMeasurements(ms []Measurement) (Stats, bool) {
	ds := make([]time.Duration, len(ms))
	for i, m := range ms {
		ds[i] = m.Average()
	}
	return FromDurations(ds)
}

// SignificantlyDifferent reports whether the means of s and o differ at significance level p,
// using a pooled two-sample t statistic. Supported levels are 0.001, 0.01, 0.05 and 0.1, other
// values are rounded up to the next supported level.
func (s Stats) SignificantlyDifferent(o Stats, p float64) bool {
	dof := s.Count + o.Count - 2
	if dof <= 0 {
		return false
	}
	// (n-1)·s² with the sample variance s² equals n·Variance.
	pooled := (float64(s.Count)*s.Variance + float64(o.Count)*o.Variance) / float64(dof)
	se := math.Sqrt(pooled * (1/float64(s.Count) + 1/float64(o.Count)))
	if se == 0 {
		return s.Mean != o.Mean
	}
	t := math.Abs(float64(s.Mean-o.Mean)) / se
	return t > criticalValue(p)
}

// criticalValue approximates the two-sided critical value of the t distribution with the normal
// distribution.
func criticalValue(p float64) float64 {
	switch {
	case p <= 0.001:
		return 3.291
	case p <= 0.01:
		return 2.576
	case p <= 0.05:
		return 1.96
	default:
		return 1.645
	}
}

// Ratio returns s.Mean / o.Mean. It's +Inf if o.Mean is zero.
func (s Stats) Ratio(o Stats) float64 {
	if o.Mean == 0 {
		return math.Inf(1)
	}
	return float64(s.Mean) / float64(o.Mean)
}

// Comparison is the result of comparing two timing distributions.
type Comparison struct {
	LabelA, LabelB string
	A, B           Stats
	Ratio          float64 // A.Mean / B.Mean
	Significant    bool
	PValue         float64 // Significance level used for Significant
}

// Compare compares the distributions a and b at significance level p.
func Compare(labelA string, a Stats, labelB string, b Stats, p float64) Comparison {
	return Comparison{
		LabelA:      labelA,
		LabelB:      labelB,
		A:           a,
		B:           b,
		Ratio:       a.Ratio(b),
		Significant: a.SignificantlyDifferent(b, p),
		PValue:      p,
	}
}

// Summary describes c in a few lines of text.
func (c Comparison) Summary() string {
	fast, slow, factor := c.LabelA, c.LabelB, 1/c.Ratio
	if c.Ratio >= 1 {
		fast, slow, factor = c.LabelB, c.LabelA, c.Ratio
	}
	significance := "not statistically significant"
	if c.Significant {
		significance = fmt.Sprintf("statistically significant (p < %v)", c.PValue)
	}
	return fmt.Sprintf("%s is %.2fx faster than %s (%s)\n%s mean: %.2fµs (±%.2fµs)\n%s mean: %.2fµs (±%.2fµs)",
		fast, factor, slow, significance,
		c.LabelA, micros(c.A.Mean), micros(c.A.StdDev),
		c.LabelB, micros(c.B.Mean), micros(c.B.StdDev))
}

func micros(d time.Duration) float64 { return float64(d) / float64(time.Microsecond) }

// WriteCSV writes ms as CSV with a header row.
func WriteCSV(w io.Writer, ms []Measurement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"label", "duration_nanos", "iterations", "average_nanos"}); err != nil {
		return err
	}
	for _, m := range ms {
		err := cw.Write([]string{
			m.Label,
			strconv.FormatInt(m.Duration.Nanoseconds(), 10),
			strconv.Itoa(m.Iterations),
			strconv.FormatFloat(m.AverageNanos(), 'f', -1, 64),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
