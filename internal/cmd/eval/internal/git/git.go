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

// Package git reads changed files from the history of a git repository.
package git

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// NullID is the object id git uses for the missing side of an added or deleted file.
const NullID = "0000000000000000000000000000000000000000"

// Repo is an open repository. Blob contents are read through a single long running
// git cat-file process.
type Repo struct {
	dir string
	cat *catFile
}

// Open opens the repository in dir.
func Open(dir string) (*Repo, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, err
	}
	if _, err := git("-C", dir, "rev-parse", "--git-dir"); err != nil {
		return nil, err
	}
	cat, err := startCatFile(dir)
	if err != nil {
		return nil, err
	}
	return &Repo{dir: dir, cat: cat}, nil
}

// Close waits for all pending reads and stops the cat-file process.
func (r *Repo) Close() error {
	return r.cat.close()
}

// RevList returns the ids of all non-merge commits reachable from HEAD, newest first.
func (r *Repo) RevList() ([]string, error) {
	out, err := git("-C", r.dir, "rev-list", "--no-merges", "HEAD")
	if err != nil {
		return nil, err
	}
	return strings.Fields(out), nil
}

// Change is a file modified by a commit.
type Change struct {
	Path  string
	OldID string
	NewID string
}

// Changes returns the files changed by commit compared to its first parent. Root commits have no
// changes.
func (r *Repo) Changes(commit string) ([]Change, error) {
	out, err := git("-C", r.dir, "diff-tree", "-r", commit)
	if err != nil {
		return nil, err
	}
	return parseDiffTree(out)
}

// parseDiffTree parses the raw output of git diff-tree -r. The first line is the commit id.
func parseDiffTree(out string) ([]Change, error) {
	lines := strings.Split(out, "\n")
	var changes []Change
	for _, line := range lines[1:] {
		if line == "" {
			continue
		}
		// :<old mode> <new mode> <old id> <new id> <status>\t<path>
		meta, path, ok := strings.Cut(line, "\t")
		if !ok || !strings.HasPrefix(meta, ":") {
			return nil, fmt.Errorf("malformed diff-tree line: %q", line)
		}
		fields := strings.Fields(meta[1:])
		if len(fields) != 5 {
			return nil, fmt.Errorf("malformed diff-tree line, got %d fields: %q", len(fields), line)
		}
		changes = append(changes, Change{Path: path, OldID: fields[2], NewID: fields[3]})
	}
	return changes, nil
}

// Read requests the contents of the given blobs. The callback is called with the contents in the
// same order as the ids, from a single goroutine, in the order the requests were made. [NullID]
// reads as an empty blob.
func (r *Repo) Read(ids []string, cb func([][]byte, error)) {
	r.cat.requests <- request{ids, cb}
}

func git(args ...string) (string, error) {
	var stdout, stderr strings.Builder
	cmd := exec.Command("git", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("running %v: %w\n%s", cmd, err, stderr.String())
	}
	return stdout.String(), nil
}

type request struct {
	ids []string
	cb  func([][]byte, error)
}

// catFile pipelines blob reads. The writer batches all queued requests before flushing, the reader
// consumes responses in the same order.
type catFile struct {
	cmd      *exec.Cmd
	stderr   bytes.Buffer
	requests chan request
	batches  chan []request
	wg       sync.WaitGroup
}

const maxBatch = 32

func startCatFile(dir string) (*catFile, error) {
	c := &catFile{
		requests: make(chan request),
		batches:  make(chan []request, 16),
	}
	c.cmd = exec.Command("git", "-C", dir, "cat-file", "--batch-command", "--buffer")
	c.cmd.Stderr = &c.stderr
	stdin, err := c.cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := c.cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	if err := c.cmd.Start(); err != nil {
		return nil, err
	}
	c.wg.Add(2)
	go c.write(stdin)
	go c.read(bufio.NewReader(stdout))
	return c, nil
}

func (c *catFile) close() error {
	close(c.requests)
	c.wg.Wait()
	if err := c.cmd.Wait(); err != nil {
		return fmt.Errorf("git cat-file: %w\n%s", err, c.stderr.String())
	}
	return nil
}

func (c *catFile) write(stdin io.WriteCloser) {
	defer c.wg.Done()
	defer close(c.batches)
	defer stdin.Close()

	w := bufio.NewWriter(stdin)
	var err error
	for req := range c.requests {
		batch := []request{req}
	Collect:
		for len(batch) < maxBatch {
			select {
			case req, ok := <-c.requests:
				if !ok {
					break Collect
				}
				batch = append(batch, req)
			default:
				break Collect
			}
		}
		for _, req := range batch {
			for _, id := range req.ids {
				if id != NullID && err == nil {
					_, err = fmt.Fprintf(w, "contents %s\n", id)
				}
			}
		}
		if err == nil {
			_, err = w.WriteString("flush\n")
		}
		if err == nil {
			err = w.Flush()
		}
		if err != nil {
			for _, req := range batch {
				req.cb(nil, fmt.Errorf("writing to git cat-file: %w", err))
			}
			continue
		}
		c.batches <- batch
	}
}

func (c *catFile) read(r *bufio.Reader) {
	defer c.wg.Done()
	var err error
	for batch := range c.batches {
		for _, req := range batch {
			if err != nil {
				req.cb(nil, err)
				continue
			}
			blobs := make([][]byte, len(req.ids))
			for i, id := range req.ids {
				if id == NullID {
					continue
				}
				if blobs[i], err = readBlob(r, id); err != nil {
					break
				}
			}
			req.cb(blobs, err)
		}
	}
	// Drain the pipe so that cat-file can exit.
	io.Copy(io.Discard, r)
}

// readBlob reads a single response of the form "<id> <type> <size>\n<contents>\n".
func readBlob(r *bufio.Reader, id string) ([]byte, error) {
	line, err := r.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("reading git cat-file header: %w", err)
	}
	fields := strings.Fields(line)
	if len(fields) == 2 && fields[1] == "missing" {
		return nil, fmt.Errorf("object %s is missing", id)
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("malformed git cat-file header: %q", line)
	}
	if fields[0] != id {
		return nil, fmt.Errorf("git cat-file returned %s, want %s", fields[0], id)
	}
	n, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, fmt.Errorf("malformed git cat-file header: %w", err)
	}
	buf := make([]byte, n+1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading object %s: %w", id, err)
	}
	if buf[n] != '\n' {
		return nil, errors.New("git cat-file output is not terminated by a newline")
	}
	return buf[:n], nil
}
