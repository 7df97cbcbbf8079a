package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "extractres"

func main() {
	var (
		merge = flag.Bool("m", false, "merge resources of the same name into one file")
		dir   = flag.String("C", ".", "directory of the resource files")
		quiet = flag.Bool("q", false, "quiet")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-m] [-C dir] [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	opts := ps.ExtractOptions{
		Dir:   *dir,
		Merge: *merge,
	}
	files, err := run(flag.Arg(0), flag.Arg(1), opts)
	if err != nil {
		exit(err)
	}
	if !*quiet {
		for _, f := range files {
			fmt.Fprintln(os.Stderr, f)
		}
	}
}

func run(infile, outfile string, opts ps.ExtractOptions) ([]string, error) {
	doc, err := ps.OpenInput(infile)
	if err != nil {
		return nil, err
	}
	defer doc.Close()

	w, err := ps.CreateOutput(outfile)
	if err != nil {
		return nil, err
	}
	files, err := ps.ExtractResources(w, doc.Reader(), opts)
	if err != nil {
		w.Close()
		return nil, err
	}
	return files, w.Close()
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
	os.Exit(1)
}
