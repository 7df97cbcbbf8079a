package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "psjoin"

func main() {
	var (
		even    = flag.Bool("e", false, "force each file to an even number of pages")
		save    = flag.Bool("s", false, "try to close unclosed save operators")
		nostrip = flag.Bool("n", false, "do not strip prolog or trailer from input files")
		quiet   = flag.Bool("q", false, "quiet")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-e] [-s] [-n] file...\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()

	names := flag.Args()
	if len(names) == 0 {
		names = []string{"-"}
	}
	files := make([]ps.JoinFile, 0, len(names))
	for _, n := range names {
		doc, err := ps.OpenInput(n)
		if err != nil {
			exit(err)
		}
		defer doc.Close()
		files = append(files, ps.JoinFile{Name: n, Doc: doc})
	}
	opts := ps.JoinOptions{
		Even:    *even,
		Save:    *save,
		NoStrip: *nostrip,
	}
	res, err := ps.Join(os.Stdout, files, opts)
	if err != nil {
		exit(err)
	}
	if !*quiet {
		fmt.Fprintf(os.Stderr, "Wrote %d pages (%d input pages)\n", res.Pages, res.SourcePages)
	}
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
	os.Exit(1)
}
