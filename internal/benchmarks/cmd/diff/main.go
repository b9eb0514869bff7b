// diff runs one of the benchmarked implementations on two files or a txtar archive with the
// files x and y. It's useful to compare outputs and to profile a single implementation.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/tools/txtar"
	"znkr.io/ctdiff/internal/benchmarks"
)

type config struct {
	lib   string
	x, y  string
	txtar string
}

func main() {
	var cfg config
	flag.StringVar(&cfg.lib, "lib", "ctdiff-balanced", "implementation to use for diffing")
	flag.StringVar(&cfg.txtar, "txtar", "", "use a txtar file instead of two input files")
	flag.Parse()

	switch {
	case cfg.txtar != "" && flag.NArg() != 0:
		fmt.Fprintf(os.Stderr, "error: usage: diff -txtar <file>\n")
		os.Exit(1)
	case cfg.txtar == "" && flag.NArg() != 2:
		fmt.Fprintf(os.Stderr, "error: usage: diff <x> <y>\n")
		os.Exit(1)
	}
	cfg.x, cfg.y = flag.Arg(0), flag.Arg(1)

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	impl, ok := benchmarks.Lookup(cfg.lib)
	if !ok {
		return fmt.Errorf("implementation not found %q", cfg.lib)
	}

	x, y, err := inputs(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(impl.Diff(x, y))
	return err
}

func inputs(cfg config) (x, y []byte, err error) {
	if cfg.txtar == "" {
		if x, err = os.ReadFile(cfg.x); err != nil {
			return nil, nil, err
		}
		y, err = os.ReadFile(cfg.y)
		return x, y, err
	}
	ar, err := txtar.ParseFile(cfg.txtar)
	if err != nil {
		return nil, nil, err
	}
	for _, f := range ar.Files {
		switch f.Name {
		case "x":
			x = f.Data
		case "y":
			y = f.Data
		}
	}
	return x, y, nil
}
