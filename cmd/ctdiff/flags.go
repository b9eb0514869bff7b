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
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

var (
	securityLevelFlag = &cli.StringFlag{
		Name:    "security-level",
		Aliases: []string{"s"},
		Usage:   "security level: maximum, balanced, or fast",
		Value:   "balanced",
	}
	maxSizeFlag = &cli.IntFlag{
		Name:  "max-size",
		Usage: "maximum file size in KiB, defaults to the limit of the security level",
	}
	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "output format: unified, json, html, git, or summary",
		Value:   "unified",
	}
	colorFlag = &cli.StringFlag{
		Name:    "color",
		Aliases: []string{"c"},
		Usage:   "colored output: auto, always, or never",
		Value:   "auto",
	}
	showTimingFlag = &cli.BoolFlag{
		Name:  "show-timing",
		Usage: "report how long the comparison took",
	}
	contextFlag = &cli.IntFlag{
		Name:    "context",
		Aliases: []string{"u"},
		Usage:   "number of context lines for line oriented formats",
		Value:   3,
	}
	quietFlag = &cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "suppress output, only report the result with the exit status",
	}
	forceFlag = &cli.BoolFlag{
		Name:  "force",
		Usage: "compare files that exceed the limits of the security level",
	}
	configFlag = &cli.PathFlag{
		Name:  "config",
		Usage: "load flag defaults from a YAML `FILE`",
	}
	verboseFlag = &cli.BoolFlag{
		Name:  "verbose",
		Usage: "enable debug logging",
	}
)

func diffFlags() []cli.Flag {
	return []cli.Flag{
		securityLevelFlag,
		maxSizeFlag,
		formatFlag,
		colorFlag,
		showTimingFlag,
		contextFlag,
		quietFlag,
		forceFlag,
	}
}

func commonFlags() []cli.Flag {
	return []cli.Flag{configFlag, verboseFlag}
}

// fileConfig is the content of a configuration file. Its keys are the names of the flags.
type fileConfig struct {
	SecurityLevel *string `yaml:"security-level"`
	MaxSize       *int    `yaml:"max-size"`
	Format        *string `yaml:"format"`
	Color         *string `yaml:"color"`
	ShowTiming    *bool   `yaml:"show-timing"`
	Context       *int    `yaml:"context"`
	Quiet         *bool   `yaml:"quiet"`
	Force         *bool   `yaml:"force"`
}

func parseConfig(r io.Reader) (*fileConfig, error) {
	var fc fileConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &fc, nil
}

// values returns the flag values set in fc.
func (fc *fileConfig) values() map[string]string {
	vs := make(map[string]string)
	str := func(name string, v *string) {
		if v != nil {
			vs[name] = *v
		}
	}
	num := func(name string, v *int) {
		if v != nil {
			vs[name] = strconv.Itoa(*v)
		}
	}
	boolean := func(name string, v *bool) {
		if v != nil {
			vs[name] = strconv.FormatBool(*v)
		}
	}
	str(securityLevelFlag.Name, fc.SecurityLevel)
	num(maxSizeFlag.Name, fc.MaxSize)
	str(formatFlag.Name, fc.Format)
	str(colorFlag.Name, fc.Color)
	boolean(showTimingFlag.Name, fc.ShowTiming)
	num(contextFlag.Name, fc.Context)
	boolean(quietFlag.Name, fc.Quiet)
	boolean(forceFlag.Name, fc.Force)
	return vs
}

// loadConfig applies the configuration file to all flags not set on the command line.
func loadConfig(c *cli.Context) error {
	path := c.Path(configFlag.Name)
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	fc, err := parseConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	for name, v := range fc.values() {
		if c.IsSet(name) {
			continue
		}
		if err := c.Set(name, v); err != nil {
			return fmt.Errorf("config %s: invalid value %q for %s: %w", path, v, name, err)
		}
	}
	return nil
}
