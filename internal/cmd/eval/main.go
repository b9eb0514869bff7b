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

// eval validates the constant-time diff against the history of a git repository. Every changed
// file is compared with all security levels. The results must reconstruct the new version, agree
// with the textbook algorithm on the edit distance, and produce unified diffs that the unix patch
// tool applies cleanly.
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/urfave/cli/v2"
	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/cmd/eval/internal/git"
	"znkr.io/ctdiff/internal/leaky"
	"znkr.io/ctdiff/internal/unixpatch"
	"znkr.io/ctdiff/render"
)

type config struct {
	repo     string
	sample   int
	parallel int
	maxSize  int
	stats    string
	validate bool
}

func main() {
	var cfg config
	app := &cli.App{
		Name:  "eval",
		Usage: "validate ctdiff against the history of a git repository",
		Flags: []cli.Flag{
			&cli.PathFlag{Name: "repo", Usage: "repository to use for evaluation", Required: true, Destination: &cfg.repo},
			&cli.IntFlag{Name: "sample", Usage: "if >0, sample commits to the value of the flag", Destination: &cfg.sample},
			&cli.IntFlag{Name: "parallel", Usage: "number of evaluations to run in parallel", Value: runtime.GOMAXPROCS(0), Destination: &cfg.parallel},
			&cli.IntFlag{Name: "max-size", Usage: "skip files larger than this many bytes", Value: 4096, Destination: &cfg.maxSize},
			&cli.PathFlag{Name: "stats", Usage: "file to store stats in", Destination: &cfg.stats},
			&cli.BoolFlag{Name: "validate", Usage: "if validation should be performed", Value: true, Destination: &cfg.validate},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() > 0 {
				return fmt.Errorf("unexpected command line arguments: %v", c.Args().Slice())
			}
			return run(&cfg)
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type variant struct {
	name string
	opts []ctdiff.Option
}

var variants = []variant{
	{"maximum", []ctdiff.Option{ctdiff.Level(ctdiff.LevelMaximum)}},
	{"balanced", []ctdiff.Option{ctdiff.Level(ctdiff.LevelBalanced)}},
	{"fast", []ctdiff.Option{ctdiff.Level(ctdiff.LevelFast)}},
	{"unpadded", []ctdiff.Option{ctdiff.Level(ctdiff.LevelBalanced), ctdiff.NoPadding()}},
}

var bars = []string{
	" ",
	"▏",
	"▎",
	"▍",
	"▌",
	"▋",
	"▊",
	"▉",
	"█",
}

type note struct {
	prefix string
	msg    string
}

type result struct {
	commitID string
	file     string
	variant  string
	N, M     int
	D        int
	duration time.Duration
}

func (r result) record() []string {
	return []string{
		r.commitID,
		r.file,
		r.variant,
		strconv.Itoa(r.N),
		strconv.Itoa(r.M),
		strconv.Itoa(r.D),
		strconv.FormatInt(r.duration.Nanoseconds(), 10),
	}
}

type change struct {
	commitID string
	filename string
	old, new []byte
}

func (c change) prefix() string { return c.commitID + ":" + c.filename }

func run(cfg *config) error {
	start := time.Now()
	notes := make(chan note)
	done := make(chan struct{})
	var commitsDone, processed, skipped atomic.Int64

	var stats *os.File
	if cfg.stats != "" {
		var err error
		stats, err = os.Create(cfg.stats)
		if err != nil {
			return fmt.Errorf("creating stats file: %v", err)
		}
		defer stats.Close()
	}

	repo, err := git.Open(cfg.repo)
	if err != nil {
		return fmt.Errorf("opening git repository: %v", err)
	}

	commitIDs, err := repo.RevList()
	if err != nil {
		repo.Close()
		return fmt.Errorf("reading rev-list: %v", err)
	}
	if len(commitIDs) == 0 {
		repo.Close()
		return errors.New("repository has no commits")
	}

	if cfg.sample > 0 && cfg.sample < len(commitIDs) {
		perm := rand.Perm(len(commitIDs))[:cfg.sample]
		sample := make([]string, 0, cfg.sample)
		for _, i := range perm {
			sample = append(sample, commitIDs[i])
		}
		commitIDs = sample
	}

	// Read changes.
	changes := make(chan change)
	var changesWG sync.WaitGroup
	chunkSize := max(1, len(commitIDs)/(4*runtime.GOMAXPROCS(0)))
	for chunk := range slices.Chunk(commitIDs, chunkSize) {
		changesWG.Add(1)
		go func() {
			defer changesWG.Done()
			for _, commitID := range chunk {
				files, err := repo.Changes(commitID)
				if err != nil {
					notes <- note{prefix: commitID, msg: fmt.Sprintf("error processing commit: %v", err)}
				}
				for _, file := range files {
					repo.Read([]string{file.OldID, file.NewID}, func(blobs [][]byte, err error) {
						c := change{commitID: commitID, filename: file.Path}
						if err != nil {
							notes <- note{prefix: c.prefix(), msg: fmt.Sprintf("error reading blobs: %v", err)}
							return
						}
						if len(blobs[0]) > cfg.maxSize || len(blobs[1]) > cfg.maxSize {
							skipped.Add(1)
							return
						}
						c.old, c.new = blobs[0], blobs[1]
						changes <- c
					})
				}
				commitsDone.Add(1)
			}
		}()
	}

	// Evaluate changes.
	var processWG sync.WaitGroup
	var results chan result
	if stats != nil {
		results = make(chan result)
	}
	for range max(1, cfg.parallel) {
		processWG.Add(1)
		go func() {
			defer processWG.Done()
			for c := range changes {
				evaluate(cfg, c, notes, results)
				processed.Add(1)
			}
		}()
	}

	// Render progress.
	var ioWG sync.WaitGroup
	draw := func() {
		const width = 60
		commits := commitsDone.Load()
		processed := processed.Load()
		progress := float64(commits) / float64(len(commitIDs))
		whole := int(progress * width)
		remainder := math.Mod(progress*width, 1)
		last := bars[max(0, min(len(bars)-1, int(remainder*float64(len(bars)))))]
		if width-whole < 1 {
			last = ""
		}
		bar := strings.Repeat(bars[len(bars)-1], whole) + last
		var commitsPerSec, procPerSec int
		if elapsed := time.Since(start); elapsed > 0 {
			commitsPerSec = int(time.Duration(commits) * time.Second / elapsed)
			procPerSec = int(time.Duration(processed) * time.Second / elapsed)
		}
		fmt.Printf("\r[%-*s] % 3.1f%% (%d commits/s, %d evals/s, %d skipped) ", width, bar, 100*progress, commitsPerSec, procPerSec, skipped.Load())
	}
	ioWG.Add(1)
	go func() {
		defer ioWG.Done()
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case note := <-notes:
				fmt.Printf("\r%s: %s\n", note.prefix, note.msg)
				draw()

			case <-ticker.C:
				draw()

			case <-done:
				draw()
				fmt.Printf("\n")
				return
			}
		}
	}()
	var statsErr error
	var statsWG sync.WaitGroup
	if results != nil {
		statsWG.Add(1)
		go func() {
			defer statsWG.Done()
			w := csv.NewWriter(bufio.NewWriter(stats))
			w.Write([]string{"commit_id", "file", "variant", "N", "M", "D", "duration_ns"})
			for r := range results {
				w.Write(r.record())
			}
			w.Flush()
			statsErr = w.Error()
		}()
	}

	// Shutdown.
	changesWG.Wait()
	closeErr := repo.Close()
	close(changes)
	processWG.Wait()
	if results != nil {
		close(results)
	}
	statsWG.Wait()
	close(done)
	ioWG.Wait()

	if closeErr != nil {
		return closeErr
	}
	if statsErr != nil {
		return fmt.Errorf("writing stats: %v", statsErr)
	}
	return nil
}

// evaluate compares a change with all variants. Problems are reported as notes.
func evaluate(cfg *config, c change, notes chan<- note, results chan<- result) {
	if bytes.Equal(c.old, c.new) {
		return
	}
	report := func(format string, args ...any) {
		notes <- note{prefix: c.prefix(), msg: fmt.Sprintf(format, args...)}
	}

	_, want := leaky.Diff(c.old, c.new)
	text := bytes.IndexByte(c.old, 0) < 0 && bytes.IndexByte(c.new, 0) < 0

	for _, v := range variants {
		start := time.Now()
		r, err := ctdiff.Diff(c.old, c.new, v.opts...)
		duration := time.Since(start)
		if errors.Is(err, ctdiff.ErrInputTooLarge) || errors.Is(err, ctdiff.ErrComputationLimitExceeded) {
			continue
		}
		if err != nil {
			report("%s: diff failed: %v", v.name, err)
			continue
		}
		if results != nil {
			results <- result{
				commitID: c.commitID,
				file:     c.filename,
				variant:  v.name,
				N:        len(c.old),
				M:        len(c.new),
				D:        r.Distance,
				duration: duration,
			}
		}
		if !cfg.validate {
			continue
		}

		if r.Distance != want {
			report("%s: edit distance is %d, want %d", v.name, r.Distance, want)
		}
		if !r.IsValid() {
			report("%s: invalid edit script", v.name)
		}
		got, err := r.ApplyTo(c.old)
		if err != nil {
			report("%s: failed to apply edit script: %v", v.name, err)
			continue
		}
		if !bytes.Equal(got, c.new) {
			report("%s: file is different after applying edit script. got:\n%s\nwant:\n%s", v.name, got, c.new)
		}
		if !text {
			continue
		}
		unified, err := render.Unified(c.old, r)
		if err != nil {
			report("%s: failed to render unified diff: %v", v.name, err)
			continue
		}
		patched, err := unixpatch.Patch(string(c.old), string(unified))
		if err != nil {
			report("%s: failed to run patch: %v", v.name, err)
			continue
		}
		if patched != string(c.new) {
			report("%s: file is different after applying patch. got:\n%s\nwant:\n%s", v.name, patched, c.new)
		}
	}
}
