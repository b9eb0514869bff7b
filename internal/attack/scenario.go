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

// Package attack simulates timing attacks against diff implementations.
//
// A scenario is a set of cases, each a pair of a secret input and a guess. An attacker who can
// time diffs but can't see the result learns something about the secret whenever two cases of
// the same scenario take measurably different time. All cases of a scenario have the same
// length, the only property a constant time diff is allowed to leak.
package attack

import (
	"bytes"
	"fmt"
	"strings"
)

// Case is a single pair of inputs.
type Case struct {
	Name   string
	Secret []byte
	Guess  []byte
}

// Scenario is a named set of cases. The first case is the baseline all other cases are compared
// against.
type Scenario struct {
	ID          string // Short name, used on the command line
	Description string
	Cases       []Case
}

// Scenarios returns all built-in scenarios.
func Scenarios() []Scenario {
	return []Scenario{
		earlyVsLate(),
		identicalVsDifferent(),
		similarityGradient(),
		changeSize(),
		versionControl(),
		codeReview(),
	}
}

// Lookup returns the built-in scenario with the given id.
func Lookup(id string) (Scenario, error) {
	var ids []string
	for _, s := range Scenarios() {
		if s.ID == id {
			return s, nil
		}
		ids = append(ids, s.ID)
	}
	return Scenario{}, fmt.Errorf("unknown scenario %q, want one of %s", id, strings.Join(ids, ", "))
}

// Custom returns a scenario that compares secret against itself and against guess.
func Custom(secret, guess []byte) Scenario {
	return newScenario("custom", "Custom - comparing two given inputs", []Case{
		{"identical", secret, secret},
		{"given", secret, guess},
	})
}

// newScenario pads the inputs of all cases with spaces to a common length.
func newScenario(id, desc string, cases []Case) Scenario {
	n := 0
	for _, c := range cases {
		n = max(n, len(c.Secret), len(c.Guess))
	}
	pad := func(b []byte) []byte {
		return append(bytes.Clone(b), bytes.Repeat([]byte{' '}, n-len(b))...)
	}
	for i := range cases {
		cases[i].Secret = pad(cases[i].Secret)
		cases[i].Guess = pad(cases[i].Guess)
	}
	return Scenario{ID: id, Description: desc, Cases: cases}
}

// change returns a copy of s with the byte at position i replaced.
func change(s string, i int, c byte) []byte {
	b := []byte(s)
	b[i] = c
	return b
}

func earlyVsLate() Scenario {
	const secret = "hello world test"
	return newScenario("early-vs-late", "Early vs Late Changes - detecting where differences occur", []Case{
		{"change_at_pos_0", []byte(secret), change(secret, 0, 'X')},
		{"change_at_pos_5", []byte(secret), change(secret, 5, 'X')},
		{"change_at_pos_10", []byte(secret), change(secret, 10, 'X')},
		{"change_at_end", []byte(secret), change(secret, len(secret)-1, 'X')},
	})
}

func identicalVsDifferent() Scenario {
	const secret = "identical content here"
	return newScenario("identical-vs-different", "Identical vs Different - detecting if inputs differ at all", []Case{
		{"identical", []byte(secret), []byte(secret)},
		{"completely_different", []byte(strings.Repeat("a", len(secret))), []byte(strings.Repeat("b", len(secret)))},
		{"one_char_diff", []byte(secret), change(secret, len(secret)-1, '1')},
	})
}

func similarityGradient() Scenario {
	const secret = "the quick brown fox jumps over the lazy dog"
	return newScenario("similarity-gradient", "Similarity Gradient - measuring degree of similarity", []Case{
		{"100_percent_similar", []byte(secret), []byte(secret)},
		{"90_percent_similar", []byte(secret), []byte("the quick brown fox jumps over the lazy cat")},
		{"70_percent_similar", []byte(secret), []byte("the quick brown cat jumps over the lazy dog")},
		{"50_percent_similar", []byte(secret), []byte("the slow brown fox walks over the lazy dog")},
		{"10_percent_similar", []byte(secret), []byte("completely different content with few matches")},
	})
}

func changeSize() Scenario {
	const secret = "hello world"
	return newScenario("change-size", "Change Size - distinguishing small vs large modifications", []Case{
		{"single_char_change", []byte(secret), []byte("hello wor1d")},
		{"word_change", []byte(secret), []byte("hello universe")},
		{"large_change", []byte(secret), []byte("completely different text entirely")},
	})
}

func versionControl() Scenario {
	return newScenario("version-control", "Version Control - analyzing commit differences", []Case{
		{
			"function_logic_change",
			[]byte("function calculate(a, b) {\n    return a + b;\n}"),
			[]byte("function calculate(a, b) {\n    return a * b;\n}"),
		},
		{
			"variable_rename",
			[]byte("let userCount = 0;\nfunction increment() {\n    userCount++;\n}"),
			[]byte("let totalUsers = 0;\nfunction increment() {\n    totalUsers++;\n}"),
		},
		{
			"comment_addition",
			[]byte("function process() {\n    doWork();\n}"),
			[]byte("function process() {\n    // optimize this later\n    doWork();\n}"),
		},
	})
}

func codeReview() Scenario {
	return newScenario("code-review", "Code Review - inferring code change patterns", []Case{
		{
			"security_fix",
			[]byte(`password = request.getParameter("password");`),
			[]byte(`password = sanitize(request.getParameter("password"));`),
		},
		{
			"bug_fix",
			[]byte("if (user = null) { throw new Error(); }"),
			[]byte("if (user == null) { throw new Error(); }"),
		},
		{
			"refactoring",
			[]byte("function longFunctionName() { return true; }"),
			[]byte("function isValid() { return true; }"),
		},
	})
}
