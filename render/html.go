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
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/config"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Diff: {{.NameA}} → {{.NameB}}</title>
<style>
:root { --bg: #ffffff; --fg: #1f2328; --muted: #656d76; --del: #ffebe9; --ins: #e6ffec; --hunk: #ddf4ff; }
@media (prefers-color-scheme: dark) {
  :root { --bg: #0d1117; --fg: #e6edf3; --muted: #8d96a0; --del: #3c1618; --ins: #12261e; --hunk: #121d2f; }
}
body { background: var(--bg); color: var(--fg); font-family: system-ui, sans-serif; margin: 2em; }
table { border-collapse: collapse; font-family: ui-monospace, monospace; font-size: 13px; width: 100%; }
td { padding: 0 .5em; white-space: pre-wrap; vertical-align: top; }
td.num { color: var(--muted); text-align: right; user-select: none; width: 1%; }
tr.delete { background: var(--del); }
tr.insert { background: var(--ins); }
tr.hunk { background: var(--hunk); color: var(--muted); }
p.stats { color: var(--muted); }
</style>
</head>
<body>
<h1>{{.NameA}} → {{.NameB}}</h1>
<p class="stats">{{.Status}} · {{.LenA}} → {{.LenB}} bytes{{with .Timestamp}} · {{.}}{{end}}</p>
{{- if .Binary}}
<p>Binary input, no line view available.</p>
{{- else if .Rows}}
<table>
{{- range .Rows}}
{{- if .Hunk}}
<tr class="hunk"><td class="num"></td><td class="num"></td><td>{{.Hunk}}</td></tr>
{{- else}}
<tr class="{{.Class}}"><td class="num">{{.Old}}</td><td class="num">{{.New}}</td><td>{{.Prefix}}{{.Content}}</td></tr>
{{- end}}
{{- end}}
</table>
{{- end}}
</body>
</html>
`))

type htmlPage struct {
	NameA, NameB string
	Status       string
	LenA, LenB   int
	Timestamp    string
	Binary       bool
	Rows         []htmlRow
}

type htmlRow struct {
	Hunk     string
	Class    string
	Old, New string
	Prefix   string
	Content  string
}

// HTML renders r as a self-contained HTML page with a line view of the changes. The page adapts
// to the reader's light or dark color scheme.
//
// The following options are supported: [Context], [Names], [Timestamp]
func HTML(a []byte, r *ctdiff.Result, opts ...Option) ([]byte, error) {
	cfg := config.FromOptions(opts, config.Context|config.Names|config.Timestamp)
	return htmlDoc(a, r, cfg)
}

func htmlDoc(a []byte, r *ctdiff.Result, cfg config.Config) ([]byte, error) {
	d, err := lines(a, r)
	if err != nil {
		return nil, err
	}

	p := htmlPage{
		NameA:  cfg.NameA,
		NameB:  cfg.NameB,
		Status: "Identical",
		LenA:   r.LenA,
		LenB:   r.LenB,
		Binary: !isText(d.x.data) || !isText(d.y.data),
	}
	if p.NameA == "" {
		p.NameA = "a"
	}
	if p.NameB == "" {
		p.NameB = "b"
	}
	if !r.Identical() {
		p.Status = fmt.Sprintf("Edit distance %d, %.1f%% similar", r.Distance, r.Similarity()*100)
	}
	if !cfg.Timestamp.IsZero() {
		p.Timestamp = cfg.Timestamp.Format(time.RFC3339)
	}

	if !p.Binary {
		for _, h := range d.hunks(cfg.Context) {
			p.Rows = append(p.Rows, htmlRow{
				Hunk: hunkHeader(h),
			})
			d.walk(h, func(op lineOp, s, t int) {
				row := htmlRow{Class: op.String()}
				switch op {
				case lineDelete:
					row.Old, row.Prefix, row.Content = strconv.Itoa(s+1), prefixDelete, d.x.lines[s].String()
				case lineInsert:
					row.New, row.Prefix, row.Content = strconv.Itoa(t+1), prefixInsert, d.y.lines[t].String()
				case lineMatch:
					row.Old, row.New, row.Prefix, row.Content = strconv.Itoa(s+1), strconv.Itoa(t+1), prefixMatch, d.x.lines[s].String()
				}
				row.Content = strings.TrimSuffix(row.Content, "\n")
				p.Rows = append(p.Rows, row)
			})
		}
	}

	var b bytes.Buffer
	if err := page.Execute(&b, p); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
