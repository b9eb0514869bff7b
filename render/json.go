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
	"encoding/json"
	"time"
	"unicode"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/config"
)

// FormatVersion is the version of the JSON document layout.
const FormatVersion = "1.0"

// Document is the JSON representation of a result.
type Document struct {
	Metadata   Metadata    `json:"metadata"`
	Statistics Statistics  `json:"statistics"`
	Operations []Operation `json:"operations"`
	Lines      []Line      `json:"lines,omitempty"` // Only present for text inputs.
}

// Metadata describes the compared inputs.
type Metadata struct {
	LeftName      string     `json:"left_name"`
	RightName     string     `json:"right_name"`
	LeftSize      int        `json:"left_size"`
	RightSize     int        `json:"right_size"`
	FormatVersion string     `json:"format_version"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
}

// Statistics summarizes a result.
type Statistics struct {
	EditDistance int             `json:"edit_distance"`
	Similarity   float64         `json:"similarity"`
	Identical    bool            `json:"identical"`
	Operations   OperationCounts `json:"operations"`
}

// OperationCounts counts edits by operation.
type OperationCounts struct {
	Total      int `json:"total"`
	Keep       int `json:"keep"`
	Insert     int `json:"insert"`
	Delete     int `json:"delete"`
	Substitute int `json:"substitute"`
}

// Operation is a single edit. Position is the offset in the first input the edit applies to. Value
// is the byte that is kept or deleted from the first input, or inserted from the second input.
type Operation struct {
	Type     string `json:"type"`
	Position int    `json:"position"`
	Value    byte   `json:"value"`
	Char     string `json:"char,omitempty"` // Value as a string if it's printable ASCII.
}

// Line is a line of line oriented output. Line numbers start at 1.
type Line struct {
	Type    string `json:"type"`
	OldLine int    `json:"old_line,omitempty"`
	NewLine int    `json:"new_line,omitempty"`
	Content string `json:"content"`
}

// JSON renders r as an indented JSON [Document].
//
// The following options are supported: [Names], [Timestamp], [Compact]
func JSON(a []byte, r *ctdiff.Result, opts ...Option) ([]byte, error) {
	cfg := config.FromOptions(opts, config.Names|config.Timestamp|config.Compact)
	return jsonDoc(a, r, cfg)
}

func jsonDoc(a []byte, r *ctdiff.Result, cfg config.Config) ([]byte, error) {
	doc, err := document(a, r, cfg)
	if err != nil {
		return nil, err
	}
	var out []byte
	if cfg.Compact {
		out, err = json.Marshal(doc)
	} else {
		out, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

func document(a []byte, r *ctdiff.Result, cfg config.Config) (*Document, error) {
	d, err := lines(a, r)
	if err != nil {
		return nil, err
	}

	st := r.Stats()
	doc := &Document{
		Metadata: Metadata{
			LeftName:      cfg.NameA,
			RightName:     cfg.NameB,
			LeftSize:      r.LenA,
			RightSize:     r.LenB,
			FormatVersion: FormatVersion,
		},
		Statistics: Statistics{
			EditDistance: r.Distance,
			Similarity:   r.Similarity(),
			Identical:    r.Identical(),
			Operations: OperationCounts{
				Total:      st.Total(),
				Keep:       st.Keep,
				Insert:     st.Insert,
				Delete:     st.Delete,
				Substitute: st.Substitute,
			},
		},
		Operations: make([]Operation, 0, len(r.Edits)),
	}
	if !cfg.Timestamp.IsZero() {
		ts := cfg.Timestamp
		doc.Metadata.Timestamp = &ts
	}

	s := 0
	for _, e := range r.Edits {
		op := Operation{Position: s}
		switch e.Op {
		case ctdiff.Keep:
			op.Type, op.Value = "keep", a[s]
			s++
		case ctdiff.Delete:
			op.Type, op.Value = "delete", a[s]
			s++
		case ctdiff.Insert:
			op.Type, op.Value = "insert", e.Byte
		case ctdiff.Substitute:
			op.Type, op.Value = "substitute", e.Byte
			s++
		}
		if op.Value < unicode.MaxASCII && unicode.IsPrint(rune(op.Value)) {
			op.Char = string(rune(op.Value))
		}
		doc.Operations = append(doc.Operations, op)
	}

	if isText(d.x.data) && isText(d.y.data) {
		d.walk(d.all(), func(op lineOp, s, t int) {
			l := Line{Type: op.String()}
			switch op {
			case lineDelete:
				l.OldLine, l.Content = s+1, d.x.lines[s].String()
			case lineInsert:
				l.NewLine, l.Content = t+1, d.y.lines[t].String()
			case lineMatch:
				l.OldLine, l.NewLine, l.Content = s+1, t+1, d.x.lines[s].String()
			}
			doc.Lines = append(doc.Lines, l)
		})
	}
	return doc, nil
}
