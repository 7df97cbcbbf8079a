package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "psresize"

func main() {
	var (
		paper    ps.PaperFlag
		inpaper  ps.PaperFlag
		width    ps.DimensionFlag
		height   ps.DimensionFlag
		inwidth  ps.DimensionFlag
		inheight ps.DimensionFlag
		quiet    = flag.Bool("q", false, "quiet")
	)
	flag.Var(&paper, "p", "output paper")
	flag.Var(&inpaper, "P", "input paper")
	flag.Var(&width, "w", "output paper width")
	flag.Var(&height, "h", "output paper height")
	flag.Var(&inwidth, "W", "input paper width")
	flag.Var(&inheight, "H", "input paper height")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-p paper] [-P paper] [-w width] [-h height] [-W width] [-H height] [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}

	out, err := ps.ResolveSize(&paper, &width, &height, ps.DefaultPaper())
	if err != nil {
		exit(err)
	}
	if !out.IsSet() {
		exit(fmt.Errorf("output page width and height must be set: %w", ps.ErrConfig))
	}
	in, err := ps.ResolveSize(&inpaper, &inwidth, &inheight, ps.Unset)
	if err != nil {
		exit(err)
	}
	opts := ps.Options{
		Layout:    ps.Identity(),
		Signature: 1,
		Paper:     out,
		InPaper:   in,
		Reflow:    true,
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

	if !opts.InPaper.IsSet() {
		opts.InPaper = doc.Media
	}
	if !opts.InPaper.IsSet() {
		return fmt.Errorf("input page width and height must be set: %w", ps.ErrConfig)
	}
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
