package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "psbook"

func main() {
	var (
		sig   = flag.Int("s", 0, "signature size, a positive multiple of 4")
		quiet = flag.Bool("q", false, "quiet")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-s signature] [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	if *sig == 1 || !ps.ValidSignature(*sig) {
		exit(fmt.Errorf("%d: %w", *sig, ps.ErrSignature))
	}
	opts := ps.Options{
		Layout:    ps.Identity(),
		Signature: *sig,
		Paper:     ps.Unset,
		InPaper:   ps.Unset,
	}
	if !*quiet {
		opts.Progress = os.Stderr
	}
	if err := run(flag.Arg(0), flag.Arg(1), opts); err != nil {
		exit(err)
	}
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
