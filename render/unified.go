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

package render

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strconv"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/config"
	"znkr.io/ctdiff/render/color"
)

const (
	prefixMatch  = " "
	prefixDelete = "-"
	prefixInsert = "+"
)

const missingNewline = "\\ No newline at end of file\n"

// timeFormat is the timestamp format used by GNU diff.
const timeFormat = "2006-01-02 15:04:05.000000000 -0700"

// Unified renders r as a unified diff of the lines in a and the reconstructed second input. If the
// inputs are identical, the output is empty.
//
// File headers are only written if names are set with [Names].
//
// The following options are supported: [Context], [Colors], [Names], [Timestamp]
func Unified(a []byte, r *ctdiff.Result, opts ...Option) ([]byte, error) {
	cfg := config.FromOptions(opts, config.Context|config.Colors|config.Names|config.Timestamp)
	return unified(a, r, cfg)
}

func unified(a []byte, r *ctdiff.Result, cfg config.Config) ([]byte, error) {
	d, err := lines(a, r)
	if err != nil {
		return nil, err
	}
	hunks := d.hunks(cfg.Context)
	if len(hunks) == 0 {
		return nil, nil
	}

	p := printer{cc: cfg.Colors}
	if cfg.NameA != "" || cfg.NameB != "" {
		p.header("--- " + withTime(cfg.NameA, cfg))
		p.header("+++ " + withTime(cfg.NameB, cfg))
	}
	p.hunks(d, cfg.Context)
	return p.buf.Bytes(), nil
}

func withTime(name string, cfg config.Config) string {
	if cfg.Timestamp.IsZero() {
		return name
	}
	return name + "\t" + cfg.Timestamp.Format(timeFormat)
}

// Git renders r as a git patch. If the inputs are identical, the output is empty.
//
// The names default to "a" and "b". The index line contains the git blob ids of both inputs.
//
// The following options are supported: [Context], [Colors], [Names]
func Git(a []byte, r *ctdiff.Result, opts ...Option) ([]byte, error) {
	cfg := config.FromOptions(opts, config.Context|config.Colors|config.Names)
	return git(a, r, cfg)
}

func git(a []byte, r *ctdiff.Result, cfg config.Config) ([]byte, error) {
	d, err := lines(a, r)
	if err != nil {
		return nil, err
	}
	if r.Identical() {
		return nil, nil
	}

	nameA, nameB := cfg.NameA, cfg.NameB
	if nameA == "" {
		nameA = "a"
	}
	if nameB == "" {
		nameB = "b"
	}

	const mode = "100644"
	p := printer{cc: cfg.Colors}
	p.header(fmt.Sprintf("diff --git a/%s b/%s", nameA, nameB))
	idA, idB := blobID(d.x.data), blobID(d.y.data)
	from, to := "--- a/"+nameA, "+++ b/"+nameB
	switch {
	case len(d.x.data) == 0:
		p.header("new file mode " + mode)
		p.header(fmt.Sprintf("index %s..%s", zeroID, idB))
		from = "--- /dev/null"
	case len(d.y.data) == 0:
		p.header("deleted file mode " + mode)
		p.header(fmt.Sprintf("index %s..%s", idA, zeroID))
		to = "+++ /dev/null"
	default:
		p.header(fmt.Sprintf("index %s..%s %s", idA, idB, mode))
	}
	p.header(from)
	p.header(to)
	p.hunks(d, cfg.Context)
	return p.buf.Bytes(), nil
}

const zeroID = "0000000"

// blobID returns the abbreviated id git assigns to a blob with the given content.
func blobID(data []byte) string {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(data)) + "\x00"))
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))[:7]
}

// printer writes line oriented output with optional colors.
type printer struct {
	buf bytes.Buffer
	cc  *config.ColorConfig
}

func (p *printer) colored(code, s string) {
	if p.cc == nil || code == "" {
		p.buf.WriteString(s)
		return
	}
	p.buf.WriteString(code)
	p.buf.WriteString(s)
	p.buf.WriteString(color.Reset)
}

func (p *printer) header(s string) {
	var code string
	if p.cc != nil {
		code = p.cc.Header
	}
	p.colored(code, s)
	p.buf.WriteByte('\n')
}

func (p *printer) hunks(d *lineDiff, context int) {
	var cc config.ColorConfig
	if p.cc != nil {
		cc = *p.cc
	}
	for _, h := range d.hunks(context) {
		p.colored(cc.HunkHeader, hunkHeader(h))
		p.buf.WriteByte('\n')
		d.walk(h, func(op lineOp, s, t int) {
			switch op {
			case lineDelete:
				p.line(cc.Delete, prefixDelete, d.x, s)
			case lineInsert:
				p.line(cc.Insert, prefixInsert, d.y, t)
			case lineMatch:
				p.line(cc.Match, prefixMatch, d.x, s)
			}
		})
	}
}

func (p *printer) line(code, prefix string, txt text, i int) {
	line := txt.lines[i].String()
	if txt.lines[i].HasSuffix("\n") {
		line = line[:len(line)-1]
	}
	p.colored(code, prefix+line)
	p.buf.WriteByte('\n')
	if i == txt.missingNewline {
		p.buf.WriteString(missingNewline)
	}
}
