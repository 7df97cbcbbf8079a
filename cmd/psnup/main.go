package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/midbel/ps"
)

const prog = "psnup"

var nupFlag = regexp.MustCompile(`^-([0-9]+)$`)

func main() {
	var (
		paper     ps.PaperFlag
		inpaper   ps.PaperFlag
		width     ps.DimensionFlag
		height    ps.DimensionFlag
		inwidth   ps.DimensionFlag
		inheight  ps.DimensionFlag
		margin    ps.DimensionFlag
		border    ps.DimensionFlag
		draw      ps.DimensionFlag
		nup       = flag.Int("n", 1, "number of pages per sheet")
		tolerance = flag.Float64("t", ps.DefaultTolerance, "largest acceptable waste")
		scale     = flag.Float64("s", 0, "scale of the pages, computed when not set")
		left      = flag.Bool("l", false, "pages are rotated left (landscape)")
		right     = flag.Bool("r", false, "pages are rotated right (seascape)")
		flip      = flag.Bool("f", false, "swap width and height of the pages")
		column    = flag.Bool("c", false, "fill the sheet column by column")
		quiet     = flag.Bool("q", false, "quiet")
	)
	flag.Var(&paper, "p", "output paper")
	flag.Var(&inpaper, "P", "input paper")
	flag.Var(&width, "w", "output paper width")
	flag.Var(&height, "h", "output paper height")
	flag.Var(&inwidth, "W", "input paper width")
	flag.Var(&inheight, "H", "input paper height")
	flag.Var(&margin, "m", "margin around the whole sheet")
	flag.Var(&border, "b", "border around every page")
	flag.Var(&draw, "d", "width of the line drawn around every page")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-q] [-l] [-r] [-f] [-c] [-p paper] [-P paper] [-m margin] [-b border] [-d width] [-t tolerance] [-s scale] -n nup | -nup [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.CommandLine.Parse(expandNup(flag.CommandLine, os.Args[1:]))
	if flag.NArg() > 2 {
		flag.Usage()
		os.Exit(2)
	}
	if *nup < 1 {
		exit(fmt.Errorf("-n %d too small: %w", *nup, ps.ErrConfig))
	}

	out, err := ps.ResolveSize(&paper, &width, &height, ps.DefaultPaper())
	if err != nil {
		exit(err)
	}
	in, err := ps.ResolveSize(&inpaper, &inwidth, &inheight, ps.Unset)
	if err != nil {
		exit(err)
	}
	opts := ps.NupOptions{
		N:            *nup,
		Paper:        out,
		InPaper:      in,
		Tolerance:    *tolerance,
		Scale:        *scale,
		Flip:         *flip,
		Column:       *column,
		RotatedLeft:  *left,
		RotatedRight: *right,
	}
	if opts.Margin, err = margin.Resolve(out, 0); err != nil {
		exit(err)
	}
	if opts.Border, err = border.Resolve(out, 0); err != nil {
		exit(err)
	}
	line, err := draw.Resolve(out, 0)
	if err != nil {
		exit(err)
	}
	var progress io.Writer
	if !*quiet {
		progress = os.Stderr
	}
	if err := run(flag.Arg(0), flag.Arg(1), opts, line, progress); err != nil {
		exit(err)
	}
}

// expandNup rewrites the short form -4 into -n 4. The value given to a
// flag of set is left as is, even when it looks like a number of pages.
func expandNup(set *flag.FlagSet, args []string) []string {
	list := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			return append(list, args[i:]...)
		case takesValue(set, a) && i+1 < len(args):
			list = append(list, a, args[i+1])
			i++
		case nupFlag.MatchString(a):
			list = append(list, "-n", a[1:])
		default:
			list = append(list, a)
		}
	}
	return list
}

// takesValue reports whether arg names a flag of set that expects its
// value in the next argument.
func takesValue(set *flag.FlagSet, arg string) bool {
	if !strings.HasPrefix(arg, "-") || strings.Contains(arg, "=") {
		return false
	}
	f := set.Lookup(strings.TrimLeft(arg, "-"))
	if f == nil {
		return false
	}
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return !ok || !b.IsBoolFlag()
}

func run(infile, outfile string, nup ps.NupOptions, line float64, progress io.Writer) error {
	doc, err := ps.OpenInput(infile)
	if err != nil {
		return err
	}
	defer doc.Close()

	if !nup.InPaper.IsSet() {
		nup.InPaper = doc.Media
	}
	layout, clip, err := ps.Nup(nup)
	if err != nil {
		return err
	}
	opts := ps.Options{
		Layout:    layout,
		Signature: 1,
		Paper:     nup.Paper,
		InPaper:   clip,
		Draw:      line,
		Progress:  progress,
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
