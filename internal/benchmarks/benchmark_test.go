package benchmarks

import (
	"bytes"
	"fmt"
	"math/rand/v2"
	"testing"
)

type testdata struct {
	name string
	x, y []byte
}

var words = []string{"alpha", "beta", "gamma", "delta", "if", "else", "return", "func", "{", "}", "//", "x", "42"}

// generate returns text of about n bytes and a copy with changes every few lines. The inputs are
// deterministic for a given seed.
func generate(n int, seed uint64) testdata {
	rnd := rand.New(rand.NewPCG(seed, seed))
	var x, y bytes.Buffer
	for x.Len() < n {
		var line bytes.Buffer
		for range 1 + rnd.IntN(6) {
			line.WriteString(words[rnd.IntN(len(words))])
			line.WriteByte(' ')
		}
		line.WriteByte('\n')
		x.Write(line.Bytes())
		switch rnd.IntN(8) {
		case 0: // changed
			b := bytes.Clone(line.Bytes())
			b[rnd.IntN(len(b)-1)] = 'Z'
			y.Write(b)
		case 1: // deleted
		case 2: // inserted
			y.WriteString("inserted\n")
			y.Write(line.Bytes())
		default:
			y.Write(line.Bytes())
		}
	}
	return testdata{name: fmt.Sprintf("size=%d", n), x: x.Bytes(), y: y.Bytes()}
}

func loadTestdata() []testdata {
	var tests []testdata
	for i, n := range []int{256, 1024, 3000} {
		tests = append(tests, generate(n, uint64(i+1)))
	}
	return tests
}

func BenchmarkDiffs(b *testing.B) {
	for _, impl := range Impls {
		b.Run("impl="+impl.Name, func(b *testing.B) {
			for _, td := range loadTestdata() {
				b.Run(td.name, func(b *testing.B) {
					for b.Loop() {
						_ = impl.Diff(td.x, td.y)
					}
					b.StopTimer()

					out := impl.Diff(td.x, td.y)
					edits := 0
					for _, line := range bytes.Split(out, []byte("\n")) {
						if bytes.HasPrefix(line, []byte{'+'}) || bytes.HasPrefix(line, []byte{'-'}) {
							edits++
						}
					}
					b.ReportMetric(float64(edits), "edits")
				})
			}
		})
	}
}

func TestImpls(t *testing.T) {
	for _, td := range loadTestdata() {
		for _, name := range []string{"ctdiff-maximum", "ctdiff-balanced", "ctdiff-fast", "vulnerable"} {
			impl, ok := Lookup(name)
			if !ok {
				t.Fatalf("Lookup(%q) failed", name)
			}
			if got := impl.Diff(td.x, td.y); !bytes.HasPrefix(got, []byte("@@ -")) {
				t.Errorf("%s: %s doesn't produce a unified diff:\n%s", td.name, name, got)
			}
		}
	}
	if _, ok := Lookup("unknown"); ok {
		t.Error("Lookup(unknown) succeeded")
	}
}
