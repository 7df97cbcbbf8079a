package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/midbel/ps"
)

const prog = "epsffit"

func main() {
	var (
		center   = flag.Bool("c", false, "center the picture in the box")
		rotate   = flag.Bool("r", false, "rotate the picture by 90 degrees counter-clockwise")
		aspect   = flag.Bool("a", false, "scale width and height separately to fill the box")
		maximize = flag.Bool("m", false, "rotate the picture when it then fills more of the box")
		showpage = flag.Bool("s", false, "add a showpage to force printing")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-c] [-r] [-a] [-m] [-s] llx lly urx ury [infile [outfile]]\n", prog)
		flag.PrintDefaults()
	}
	flag.Parse()
	args := flag.Args()
	if len(args) < 4 || len(args) > 6 {
		flag.Usage()
		os.Exit(2)
	}
	var coords [4]float64
	for i := range coords {
		n, err := ps.ParseDimension(args[i], ps.Unset)
		if err != nil {
			exit(err)
		}
		coords[i] = n
	}
	fit := ps.EPSFit{
		Box: ps.BoundingBox{
			LLX: coords[0],
			LLY: coords[1],
			URX: coords[2],
			URY: coords[3],
		},
		Center:   *center,
		Rotate:   *rotate,
		Aspect:   *aspect,
		Maximize: *maximize,
		ShowPage: *showpage,
	}
	args = args[4:]
	if err := run(arg(args, 0), arg(args, 1), fit); err != nil {
		exit(err)
	}
}

func arg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func run(infile, outfile string, fit ps.EPSFit) error {
	doc, err := ps.OpenInput(infile)
	if err != nil {
		return err
	}
	defer doc.Close()

	if doc.BoundingBox.IsZero() {
		return fmt.Errorf("no %%%%BoundingBox: %w", ps.ErrBoundingBox)
	}
	if _, err := fit.Place(doc.BoundingBox); err != nil {
		return err
	}
	w, err := ps.CreateOutput(outfile)
	if err != nil {
		return err
	}
	if err := ps.FitEPS(w, doc, fit); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func exit(err error) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", prog, err)
	os.Exit(1)
}
