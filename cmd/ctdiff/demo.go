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
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/attack"
	"znkr.io/ctdiff/timing"
)

const allScenarios = "all"

func demoFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "scenario",
			Usage: "scenario to run: all, early-vs-late, identical-vs-different, similarity-gradient, change-size, version-control, or code-review",
			Value: allScenarios,
		},
		&cli.IntFlag{
			Name:  "iterations",
			Usage: "number of measurements per case and implementation",
			Value: 50,
		},
		&cli.PathFlag{
			Name:  "output",
			Usage: "also write the report to `FILE`",
		},
		&cli.PathFlag{
			Name:  "csv",
			Usage: "export all measurements as CSV to `FILE`",
		},
		&cli.StringFlag{
			Name:  securityLevelFlag.Name,
			Usage: securityLevelFlag.Usage,
			Value: securityLevelFlag.Value,
		},
	}
}

func demoAction(c *cli.Context, logger *slog.Logger) error {
	level, err := ctdiff.ParseLevel(c.String(securityLevelFlag.Name))
	if err != nil {
		return err
	}

	var scenarios []attack.Scenario
	switch id := c.String("scenario"); id {
	case allScenarios, "comprehensive":
		scenarios = attack.Scenarios()
	default:
		sc, err := attack.Lookup(id)
		if err != nil {
			return err
		}
		scenarios = []attack.Scenario{sc}
	}
	switch c.NArg() {
	case 0:
	case 2:
		a, err := os.ReadFile(c.Args().Get(0))
		if err != nil {
			return err
		}
		b, err := os.ReadFile(c.Args().Get(1))
		if err != nil {
			return err
		}
		scenarios = append(scenarios, attack.Custom(a, b))
	default:
		return fmt.Errorf("expected zero or two files, got %d arguments", c.NArg())
	}

	w := c.App.Writer
	fmt.Fprintln(w, "TIMING ATTACK DEMONSTRATION")
	fmt.Fprintln(w, "This tool demonstrates timing vulnerabilities for educational purposes.")
	fmt.Fprintln(w, "The vulnerable implementation must never be used for secret data.")

	sim := attack.NewSimulator(c.Int("iterations"), ctdiff.Level(level))
	var all []*attack.Results
	for _, sc := range scenarios {
		logger.Info("running scenario", "scenario", sc.ID, "cases", len(sc.Cases), "iterations", sim.Iterations)
		rs, err := sim.Run(sc)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.ID, err)
		}
		all = append(all, rs)
	}

	if err := writeReport(w, all); err != nil {
		return err
	}
	if path := c.Path("output"); path != "" {
		if err := writeFile(path, func(w io.Writer) error {
			defer func(v bool) { color.NoColor = v }(color.NoColor)
			color.NoColor = true
			return writeReport(w, all)
		}); err != nil {
			return err
		}
		logger.Info("report saved", "path", path)
	}
	if path := c.Path("csv"); path != "" {
		var ms []timing.Measurement
		for _, rs := range all {
			ms = append(ms, rs.Measurements()...)
		}
		if err := writeFile(path, func(w io.Writer) error { return timing.WriteCSV(w, ms) }); err != nil {
			return err
		}
		logger.Info("timing data exported", "path", path, "measurements", len(ms))
	}
	return nil
}

func writeReport(w io.Writer, all []*attack.Results) error {
	for _, rs := range all {
		fmt.Fprintln(w)
		if err := attack.WriteReport(w, rs); err != nil {
			return err
		}
	}
	if len(all) > 1 {
		fmt.Fprintln(w)
		return attack.WriteAssessment(w, all)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
