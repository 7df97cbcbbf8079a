package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "pstops"

func main() {
	var (
		pages    ps.RangeList
		paper    ps.PaperFlag
		inpaper  ps.PaperFlag
		width    ps.DimensionFlag
		height   ps.DimensionFlag
		inwidth  ps.DimensionFlag
		inheight ps.DimensionFlag
		draw     ps.DimensionFlag
		specs    = flag.String("S", "", "page specifications")
		sig      = flag.Int("s", 1, "signature size, a positive multiple of 4")
		even     = flag.Bool("e", false, "select even pages")
		odd      = flag.Bool("o", false, "select odd pages")
		reverse  = flag.Bool("r", false, "reverse the order of the pages")
		nobind   = flag.Bool("b", false, "disable the bind operator")
		quiet    = flag.Bool("q", false, "quiet")
	)
	flag.Var(&pages, "R", "page ranges to select")
	flag.Var(&paper, "p", "output paper")
	flag.Var(&inpaper, "P", "input paper")
	flag.Var(&width, "w", "output paper width")
	flag.Var(&height, "h", "output paper height")
	flag.Var(&inwidth, "W", "input paper width")
	flag.Var(&inheight, "H", "input paper height")
	flag.Var(&draw, "d", "width of the line drawn around every page")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-b] [-d width] [-p paper] [-P paper] [-R pages] [-S specs | specs] [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if *specs == "" {
		if len(args) == 0 {
			flag.Usage()
			os.Exit(2)
		}
		*specs, args = args[0], args[1:]
	}
	if len(args) > 2 {
		flag.Usage()
		os.Exit(2)
	}

	out, err := ps.ResolveSize(&paper, &width, &height, ps.Unset)
	if err != nil {
		exit(err)
	}
	in, err := ps.ResolveSize(&inpaper, &inwidth, &inheight, ps.Unset)
	if err != nil {
		exit(err)
	}
	layout, err := ps.ParseSpecs(*specs, out)
	if err != nil {
		exit(err)
	}
	line, err := draw.Resolve(out, 0)
	if err != nil {
		exit(err)
	}
	opts := ps.Options{
		Layout: layout,
		Pages: ps.Selection{
			Ranges:  pages.Ranges(),
			Odd:     *odd,
			Even:    *even,
			Reverse: *reverse,
		},
		Signature: *sig,
		Paper:     out,
		InPaper:   in,
		Reflow:    in.IsSet() && out.IsSet(),
		Draw:      line,
		NoBind:    *nobind,
	}
	if err := opts.Validate(); err != nil {
		exit(err)
	}
	if !*quiet {
		opts.Progress = os.Stderr
	}
	if err := run(arg(args, 0), arg(args, 1), opts); err != nil {
		exit(err)
	}
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
