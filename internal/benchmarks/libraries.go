package benchmarks

import (
	"bytes"
	"strings"

	udiff "github.com/aymanbagabas/go-udiff"
	godebug "github.com/kylelemons/godebug/diff"
	mb0 "github.com/mb0/diff"
	gointernal "github.com/rogpeppe/go-internal/diff"
	"github.com/sergi/go-diff/diffmatchpatch"
	"znkr.io/ctdiff"
	"znkr.io/ctdiff/internal/leaky"
	"znkr.io/ctdiff/render"
)

// Impl is a diff implementation producing a unified diff or something close to it.
type Impl struct {
	Name string
	Diff func(x, y []byte) []byte
}

func ctdiffUnified(opts ...ctdiff.Option) func(x, y []byte) []byte {
	return func(x, y []byte) []byte {
		r, err := ctdiff.Diff(x, y, opts...)
		if err != nil {
			panic(err)
		}
		out, err := render.Unified(x, r)
		if err != nil {
			panic(err)
		}
		return out
	}
}

// Impls are the constant-time levels, the variable time byte diff they are validated against, and
// line based diff libraries for reference. The line based libraries solve an easier problem and
// are not constant-time; they show what the timing guarantees cost.
var Impls = []Impl{
	{
		Name: "ctdiff-maximum",
		Diff: ctdiffUnified(ctdiff.Level(ctdiff.LevelMaximum)),
	},
	{
		Name: "ctdiff-balanced",
		Diff: ctdiffUnified(ctdiff.Level(ctdiff.LevelBalanced)),
	},
	{
		Name: "ctdiff-fast",
		Diff: ctdiffUnified(ctdiff.Level(ctdiff.LevelFast)),
	},
	{
		Name: "vulnerable",
		Diff: func(x, y []byte) []byte {
			script, d := leaky.Diff(x, y)
			out, err := render.Unified(x, &ctdiff.Result{Edits: script, Distance: d, LenA: len(x), LenB: len(y)})
			if err != nil {
				panic(err)
			}
			return out
		},
	},
	{
		Name: "go-internal",
		Diff: func(x, y []byte) []byte {
			return gointernal.Diff("x", x, "y", y)
		},
	},
	{
		Name: "diffmatchpatch",
		Diff: func(x, y []byte) []byte {
			// Not exactly a unified diff, but close enough to be comparable.
			dmp := diffmatchpatch.New()
			rx, ry, lines := dmp.DiffLinesToRunes(string(x), string(y))
			diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(rx, ry, false), lines)

			var buf bytes.Buffer
			for _, d := range diffs {
				prefix := " "
				switch d.Type {
				case diffmatchpatch.DiffInsert:
					prefix = "+"
				case diffmatchpatch.DiffDelete:
					prefix = "-"
				}
				for _, line := range strings.SplitAfter(d.Text, "\n") {
					if line != "" {
						buf.WriteString(prefix)
						buf.WriteString(line)
					}
				}
			}
			return buf.Bytes()
		},
	},
	{
		Name: "godebug",
		Diff: func(x, y []byte) []byte {
			return []byte(godebug.Diff(string(x), string(y)))
		},
	},
	{
		Name: "mb0",
		Diff: func(x, y []byte) []byte {
			d := mb0lines{
				x: bytes.SplitAfter(x, []byte("\n")),
				y: bytes.SplitAfter(y, []byte("\n")),
			}
			var buf bytes.Buffer
			a := 0
			for _, ch := range mb0.Diff(len(d.x), len(d.y), d) {
				for ; a < ch.A; a++ {
					buf.WriteString(" ")
					buf.Write(d.x[a])
				}
				for i := range ch.Del {
					buf.WriteString("-")
					buf.Write(d.x[ch.A+i])
				}
				for i := range ch.Ins {
					buf.WriteString("+")
					buf.Write(d.y[ch.B+i])
				}
				a += ch.Del
			}
			for ; a < len(d.x); a++ {
				buf.WriteString(" ")
				buf.Write(d.x[a])
			}
			return buf.Bytes()
		},
	},
	{
		Name: "udiff",
		Diff: func(x, y []byte) []byte {
			return []byte(udiff.Unified("x", "y", string(x), string(y)))
		},
	},
}

// Lookup returns the implementation with the given name.
func Lookup(name string) (Impl, bool) {
	for _, impl := range Impls {
		if impl.Name == name {
			return impl, true
		}
	}
	return Impl{}, false
}

type mb0lines struct {
	x [][]byte
	y [][]byte
}

func (d mb0lines) Equal(i, j int) bool { return bytes.Equal(d.x[i], d.y[j]) }
