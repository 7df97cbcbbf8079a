package ps

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// Options controls how the pages of a document are imposed on the output
// sheets.
type Options struct {
	Layout Layout
	// Signature is the number of pages folded together: 1 for none, 0 for
	// the whole document, otherwise a multiple of 4.
	Signature int
	Pages     Selection
	// Paper is the size of the output sheets. When set, the size comments
	// of the document header are replaced.
	Paper Size
	// InPaper is the size of the input pages. When unset, the size read in
	// the document header is used, then Paper.
	InPaper Size
	// Reflow scales and centres every input page to fit Paper.
	Reflow bool
	// Draw is the width of the line drawn around every placed page.
	Draw   float64
	NoBind bool
	// Progress receives the label of every written sheet.
	Progress io.Writer
}

// Validate checks the options that do not depend on the document.
func (o Options) Validate() error {
	lay := o.Layout
	if len(lay.Specs) == 0 || lay.Modulo < 1 || lay.PagesPerSheet < 1 {
		return fmt.Errorf("empty layout: %w", ErrConfig)
	}
	for _, s := range lay.Specs {
		if s.Slot < 0 || s.Slot >= lay.Modulo {
			return fmt.Errorf("page number %d out of range 0-%d: %w", s.Slot, lay.Modulo-1, ErrPageSpec)
		}
	}
	if err := checkSignature(o.Signature); err != nil {
		return err
	}
	if o.Draw < 0 {
		return fmt.Errorf("line width %g: %w", o.Draw, ErrConfig)
	}
	if o.Reflow && !o.Paper.IsSet() {
		return fmt.Errorf("output %w", ErrDimensionContext)
	}
	return nil
}

// Result sums up an imposition.
type Result struct {
	// Pages is the number of output pages written.
	Pages int
	// SourcePages is the number of distinct input pages placed.
	SourcePages int
}

// EngineState holds everything computed for one imposition run and the
// counters updated while writing it.
type EngineState struct {
	doc  *Document
	opts Options

	list      []int
	maxpage   int
	signature int
	positions [][]PageSpec

	procset    bool
	oldProcSet bool
	inSize     Size
	global     Fit
	reflow     bool

	outputPage int
	used       *bitset.BitSet
}

// NewEngine prepares the imposition of doc.
func NewEngine(doc *Document, opts Options) (*EngineState, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	state := EngineState{
		doc:       doc,
		opts:      opts,
		list:      opts.Pages.Resolve(doc.GetCount()),
		positions: opts.Layout.Positions(),
		used:      bitset.New(uint(doc.GetCount())),
	}
	state.maxpage, state.signature = MaxPage(len(state.list), opts.Layout.Modulo, opts.Signature)

	state.inSize = opts.InPaper
	if !state.inSize.IsSet() {
		state.inSize = doc.Media
	}
	if !state.inSize.IsSet() {
		state.inSize = opts.Paper
	}
	if opts.Reflow && state.inSize.IsSet() && state.inSize != opts.Paper {
		state.global = FitPage(state.inSize, opts.Paper)
		state.reflow = true
	}
	for _, s := range opts.Layout.Specs {
		if s.Has(FlagHFlip|FlagVFlip) && !state.inSize.IsSet() {
			return nil, fmt.Errorf("flipping needs the input page size: %w", ErrDimensionContext)
		}
	}
	state.procset = state.reflow || opts.Layout.NeedProcSet()
	state.oldProcSet = !doc.ProcSet.IsZero()
	return &state, nil
}

// Impose writes doc to w with its pages rearranged according to opts.
func Impose(w io.Writer, doc *Document, opts Options) error {
	state, err := NewEngine(doc, opts)
	if err != nil {
		return err
	}
	_, err = state.Write(w)
	return err
}

// MaxPage returns the number of page slots filled, blanks included.
func (e *EngineState) MaxPage() int {
	return e.maxpage
}

// Sheets returns, for each output page, the input pages placed on it
// (0-based) in placement order. Blank placements are reported as Blank.
func (e *EngineState) Sheets() [][]int {
	var sheets [][]int
	for pagebase := 0; pagebase < e.maxpage; pagebase += e.opts.Layout.Modulo {
		for _, pos := range e.positions {
			var pages []int
			for _, s := range pos {
				pages = append(pages, e.sourcePage(s, pagebase))
			}
			sheets = append(sheets, pages)
		}
	}
	return sheets
}

// Write writes the imposed document to w.
func (e *EngineState) Write(w io.Writer) (Result, error) {
	e.outputPage = 0
	e.used.ClearAll()

	out := NewSplicer(w, e.doc.Reader(), e.ignoreList())
	if err := e.writeHeader(out); err != nil {
		return e.result(), err
	}
	for pagebase := 0; pagebase < e.maxpage; pagebase += e.opts.Layout.Modulo {
		for _, pos := range e.positions {
			if err := e.writeSheet(out, pos, pagebase); err != nil {
				return e.result(), err
			}
		}
	}
	if err := e.writeTrailer(out); err != nil {
		return e.result(), err
	}
	if err := out.Flush(); err != nil {
		return e.result(), err
	}
	res := e.result()
	e.progress("\nWrote %d pages (%d input pages)\n", res.Pages, res.SourcePages)
	return res, nil
}

func (e *EngineState) result() Result {
	return Result{
		Pages:       e.outputPage,
		SourcePages: int(e.used.Count()),
	}
}

func (e *EngineState) ignoreList() []int64 {
	if !e.opts.Paper.IsSet() {
		return nil
	}
	return e.doc.SizeHeaders
}

func (e *EngineState) progress(format string, args ...interface{}) {
	if e.opts.Progress == nil {
		return
	}
	fmt.Fprintf(e.opts.Progress, format, args...)
}

func (e *EngineState) writeHeader(out *Splicer) error {
	if err := out.Seek(0); err != nil {
		return err
	}
	paper := e.opts.Paper
	if e.doc.PagesComment >= 0 {
		if err := out.CopyHeader(e.doc.PagesComment); err != nil {
			return err
		}
		if err := out.SkipLine(); err != nil {
			return err
		}
		if paper.IsSet() {
			out.Printf("%%%%DocumentMedia: plain %d %d 0 () ()", int(paper.Width), int(paper.Height))
			out.Printf("%%%%BoundingBox: 0 0 %d %d", int(paper.Width), int(paper.Height))
		}
		count := (e.maxpage / e.opts.Layout.Modulo) * e.opts.Layout.PagesPerSheet
		if err := out.Printf("%%%%Pages: %d 0", count); err != nil {
			return err
		}
	} else if paper.IsSet() {
		e.progress("no %%%%Pages: comment in header, output paper size not set\n")
	}
	if err := out.CopyHeader(e.doc.HeaderEnd); err != nil {
		return err
	}
	if e.procset {
		name := procSetName
		if e.opts.NoBind {
			name += "-nobind"
		}
		out.Printf("%%%%BeginProcSet: %s %s", name, procSetVersion)
		out.Println(procSet)
		if e.opts.NoBind {
			out.Println("/bind{}def")
		}
		if err := out.Println("%%EndProcSet"); err != nil {
			return err
		}
	}
	if e.oldProcSet && e.procset {
		if err := out.Copy(e.doc.ProcSet.Begin); err != nil {
			return err
		}
		if err := out.Seek(e.doc.ProcSet.End); err != nil {
			return err
		}
	}
	if err := out.Copy(e.doc.EndSetup); err != nil {
		return err
	}
	if !e.oldProcSet && e.procset {
		if err := out.Println(saveXform); err != nil {
			return err
		}
	}
	return out.Copy(e.doc.Pages[0])
}

func (e *EngineState) writeTrailer(out *Splicer) error {
	if err := out.Seek(e.doc.Trailer); err != nil {
		return err
	}
	return out.CopyAll()
}

// sourcePage returns the input page placed by s in the group starting at
// pagebase, Blank if there is none.
func (e *EngineState) sourcePage(s PageSpec, pagebase int) int {
	slot := SlotIndex(s, pagebase, e.maxpage, e.opts.Layout.Modulo)
	sheet := SheetIndex(slot, e.signature)
	if sheet < 0 || sheet >= len(e.list) {
		return Blank
	}
	if p := e.list[sheet]; p >= 0 && p < e.doc.GetCount() {
		return p
	}
	return Blank
}

func (e *EngineState) writeSheet(out *Splicer, pos []PageSpec, pagebase int) error {
	var (
		pages  = make([]int, len(pos))
		labels = make([]string, len(pos))
	)
	for i, s := range pos {
		pages[i] = e.sourcePage(s, pagebase)
		labels[i] = "*"
		if pages[i] != Blank {
			labels[i] = strconv.Itoa(pages[i] + 1)
		}
	}
	label := strings.Join(labels, ",")
	e.outputPage++
	if err := out.Printf("%%%%Page: (%s) %d", label, e.outputPage); err != nil {
		return err
	}
	e.progress("[%s] ", label)

	for i, s := range pos {
		if err := e.writePlacement(out, s, pages[i], i < len(pos)-1); err != nil {
			return err
		}
	}
	return nil
}

func (e *EngineState) writePlacement(out *Splicer, s PageSpec, page int, overlaid bool) error {
	var end int64
	if page != Blank {
		if _, _, err := e.doc.SeekPage(page); err != nil {
			return err
		}
		_, end, _ = e.doc.PageOffsets(page)
		e.used.Set(uint(page))
	}
	if e.procset {
		out.Println("userdict/PStoPSsaved save put")
	}
	s = e.globalSpec(s)
	if s.HasTransform() {
		if err := e.writeTransform(out, s); err != nil {
			return err
		}
	}
	if overlaid {
		if err := out.Println("/PStoPSenablepage false def"); err != nil {
			return err
		}
	}
	switch {
	case e.oldProcSet && e.procset && page != Blank:
		if _, err := out.CopyUntil(xformPrefix, end); err != nil {
			return err
		}
	case !e.oldProcSet && e.procset:
		if err := out.Println("PStoPSxform concat"); err != nil {
			return err
		}
	}
	if page != Blank {
		if err := out.Copy(end); err != nil {
			return fmt.Errorf("writing page %d: %w", e.outputPage, err)
		}
	} else if err := out.Println("showpage"); err != nil {
		return err
	}
	if e.procset {
		return out.Println("PStoPSsaved restore")
	}
	return nil
}

// globalSpec folds the reflow of the whole document into s.
func (e *EngineState) globalSpec(s PageSpec) PageSpec {
	if !e.reflow {
		return s
	}
	g := e.global
	if g.ShiftX != 0 || g.ShiftY != 0 {
		s.XOff += g.ShiftX
		s.YOff += g.ShiftY
		s.Flags |= FlagOffset
	}
	if g.Rotate != 0 {
		s.Rotate += g.Rotate
		s.Flags |= FlagRotate
	}
	if g.Scale != 1 {
		s.Scale *= g.Scale
		s.Flags |= FlagScale
	}
	return s
}

func (e *EngineState) writeTransform(out *Splicer, s PageSpec) error {
	out.Println("PStoPSmatrix setmatrix")
	if s.Has(FlagOffset) {
		out.Printf("%f %f translate", s.XOff, s.YOff)
	}
	if s.Has(FlagRotate) {
		out.Printf("%d rotate", ((s.Rotate%360)+360)%360)
	}
	if s.Has(FlagHFlip) {
		out.Printf("[ -1 0 0 1 %f 0 ] concat", e.inSize.Width*s.Scale)
	}
	if s.Has(FlagVFlip) {
		out.Printf("[ 1 0 0 -1 0 %f ] concat", e.inSize.Height*s.Scale)
	}
	if s.Has(FlagScale) {
		out.Printf("%f dup scale", s.Scale)
	}
	err := out.Println("userdict/PStoPSmatrix matrix currentmatrix put")
	if err != nil || !e.inSize.IsSet() {
		return err
	}
	w, h := e.inSize.Width, e.inSize.Height
	err = out.Printf("userdict/PStoPSclip{0 0 moveto\n %f 0 rlineto 0 %f rlineto -%f 0 rlineto\n closepath}put initclip", w, h, w)
	if err != nil || e.opts.Draw <= 0 {
		return err
	}
	return out.Printf("gsave clippath 0 setgray %f setlinewidth stroke grestore", e.opts.Draw)
}
