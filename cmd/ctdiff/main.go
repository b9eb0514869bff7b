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

// ctdiff compares two files in constant time.
//
// The time a comparison takes depends only on the sizes of the files, not on their contents. The
// exit status is 0 if the files are identical, 1 if they differ, and 2 on errors.
//
// Usage:
//
//	ctdiff [flags] FILE1 FILE2
//	ctdiff attack-demo [flags] [FILE1 FILE2]
//
// Flags can be preset in a YAML file passed with --config. Flags given on the command line take
// precedence over the file.
package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"
)

const (
	exitSame  = 0
	exitDiff  = 1
	exitError = 2
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run executes the command line args and returns the exit status.
func run(args []string, stdout, stderr io.Writer) int {
	var logger *slog.Logger
	app := newApp(stdout, stderr, &logger)
	err := app.Run(args)
	if err == nil {
		return exitSame
	}
	var ec cli.ExitCoder
	if errors.As(err, &ec) {
		return ec.ExitCode()
	}
	if logger == nil {
		logger = newLogger(stderr, false)
	}
	logger.Error("ctdiff failed", "err", err)
	return exitError
}

func newApp(stdout, stderr io.Writer, logger **slog.Logger) *cli.App {
	return &cli.App{
		Name:      "ctdiff",
		Usage:     "constant-time diff, secure file comparison resistant to timing attacks",
		ArgsUsage: "FILE1 FILE2",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags:     append(diffFlags(), commonFlags()...),
		Before: func(c *cli.Context) error {
			*logger = newLogger(stderr, c.Bool(verboseFlag.Name))
			return loadConfig(c)
		},
		Action: func(c *cli.Context) error {
			return diffAction(c, *logger)
		},
		Commands: []*cli.Command{
			{
				Name:      "attack-demo",
				Usage:     "demonstrate timing attacks against a variable time diff",
				ArgsUsage: "[FILE1 FILE2]",
				Flags:     demoFlags(),
				Action: func(c *cli.Context) error {
					return demoAction(c, *logger)
				},
			},
		},
		// Exit codes are handled by run.
		ExitErrHandler: func(*cli.Context, error) {},
		HideHelpCommand: true,
	}
}
