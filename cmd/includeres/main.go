package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/midbel/ps"
)

const prog = "includeres"

func main() {
	var (
		dir   = flag.String("C", ".", "directory of the resource files")
		quiet = flag.Bool("q", false, "quiet")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-C dir] [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	var warn io.Writer = os.Stderr
	if *quiet {
		warn = io.Discard
	}
	if err := run(flag.Arg(0), flag.Arg(1), *dir, warn); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
		os.Exit(1)
	}
}

func run(infile, outfile, dir string, warn io.Writer) error {
	doc, err := ps.OpenInput(infile)
	if err != nil {
		return err
	}
	defer doc.Close()

	w, err := ps.CreateOutput(outfile)
	if err != nil {
		return err
	}
	if err := ps.IncludeResources(w, doc.Reader(), dir, warn); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
