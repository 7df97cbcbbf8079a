package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "psselect"

func main() {
	var (
		pages   ps.RangeList
		even    = flag.Bool("e", false, "select even pages")
		odd     = flag.Bool("o", false, "select odd pages")
		reverse = flag.Bool("r", false, "reverse the order of the pages")
		quiet   = flag.Bool("q", false, "quiet")
	)
	flag.Var(&pages, "p", "page ranges to select")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-e] [-o] [-r] [-p pages] [pages] [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if pages.IsEmpty() && len(args) > 0 && isRange(args[0]) {
		if err := pages.Set(args[0]); err != nil {
			exit(err)
		}
		args = args[1:]
	}
	if len(args) > 2 {
		flag.Usage()
		os.Exit(2)
	}
	opts := ps.Options{
		Layout: ps.Identity(),
		Pages: ps.Selection{
			Ranges:  pages.Ranges(),
			Odd:     *odd,
			Even:    *even,
			Reverse: *reverse,
		},
		Signature: 1,
		Paper:     ps.Unset,
		InPaper:   ps.Unset,
	}
	if !*quiet {
		opts.Progress = os.Stderr
	}
	if err := run(arg(args, 0), arg(args, 1), opts); err != nil {
		exit(err)
	}
}

// isRange tells a page range given as first argument from a file name.
func isRange(str string) bool {
	if _, err := os.Stat(str); err == nil {
		return false
	}
	_, err := ps.ParseRanges(str)
	return err == nil
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func run(infile, outfile string, opts ps.Options) error {
	doc, err := ps.OpenInput(infile)
	if err != nil {
		return err
	}
	defer doc.Close()

	engine, err := ps.NewEngine(doc, opts)
	if err != nil {
		return err
	}
	w, err := ps.CreateOutput(outfile)
	if err != nil {
		return err
	}
	if _, err := engine.Write(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
	os.Exit(1)
}
