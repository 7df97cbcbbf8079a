package ps_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/midbel/ps"
	"github.com/stretchr/testify/require"
)

func TestImposeIdentity(t *testing.T) {
	str := sampleDocument(3)
	doc := openSample(t, str)

	var progress bytes.Buffer
	opts := plainOptions()
	opts.Progress = &progress
	got := impose(t, doc, opts)

	want := strings.Replace(str, "%%Pages: 3\n", "%%Pages: 3 0\n", 1)
	for i := 1; i <= 3; i++ {
		want = strings.Replace(want, fmt.Sprintf("%%%%Page: %d %d\n", i, i), fmt.Sprintf("%%%%Page: (%d) %d\n", i, i), 1)
	}
	require.Equal(t, want, got)
	require.NotContains(t, got, "PStoPS")
	require.Equal(t, "[1] [2] [3] \nWrote 3 pages (3 input pages)\n", progress.String())
}

func TestImposeRoundTrip(t *testing.T) {
	doc := openSample(t, sampleDocument(5))
	got := impose(t, doc, plainOptions())

	again := openSample(t, got)
	require.Equal(t, doc.GetCount(), again.GetCount())
	for p := 0; p < doc.GetCount(); p++ {
		before, err := doc.GetPage(p)
		require.NoError(t, err)
		after, err := again.GetPage(p)
		require.NoError(t, err)
		require.Equal(t, bodyOf(before), bodyOf(after))
	}
}

func bodyOf(page []byte) string {
	str := string(page)
	return str[strings.IndexByte(str, '\n')+1:]
}

func TestImposeBooklet(t *testing.T) {
	doc := openSample(t, sampleDocument(10))
	opts := plainOptions()
	opts.Signature = 0

	engine, err := ps.NewEngine(doc, opts)
	require.NoError(t, err)
	require.Equal(t, 12, engine.MaxPage())

	b := ps.Blank
	require.Equal(t, [][]int{
		{b}, {0}, {1}, {b},
		{9}, {2}, {3}, {8},
		{7}, {4}, {5}, {6},
	}, engine.Sheets())

	var buf bytes.Buffer
	res, err := engine.Write(&buf)
	require.NoError(t, err)
	require.Equal(t, ps.Result{Pages: 12, SourcePages: 10}, res)

	got := buf.String()
	require.Contains(t, got, "%%Pages: 12 0\n")
	require.Contains(t, got, "%%Page: (*) 1\nshowpage\n")
	require.Contains(t, got, "%%Page: (1) 2\n(page 1) 72 72 label\n")
	require.Contains(t, got, "%%Page: (10) 5\n(page 10) 72 72 label\n")
	require.Equal(t, 12, strings.Count(got, "%%Page: "))
}

func TestImposeSelection(t *testing.T) {
	doc := openSample(t, sampleDocument(10))
	opts := plainOptions()
	opts.Pages = ps.Selection{Even: true, Reverse: true}

	engine, err := ps.NewEngine(doc, opts)
	require.NoError(t, err)
	require.Equal(t, [][]int{{9}, {7}, {5}, {3}, {1}}, engine.Sheets())

	got := impose(t, doc, opts)
	require.Contains(t, got, "%%Pages: 5 0\n")
	require.Less(t, strings.Index(got, "(page 10)"), strings.Index(got, "(page 8)"))
	require.NotContains(t, got, "(page 1)")
}

func TestImposeBlankPage(t *testing.T) {
	doc := openSample(t, sampleDocument(3))
	list, err := ps.ParseRanges("1,0,2")
	require.NoError(t, err)

	opts := plainOptions()
	opts.Pages = ps.Selection{Ranges: list}
	got := impose(t, doc, opts)
	require.Contains(t, got, "%%Page: (*) 2\nshowpage\n%%Page: (2) 3\n")
	require.NotContains(t, got, "(page 3)")
}

func TestImposeOverlay(t *testing.T) {
	doc := openSample(t, sampleDocument(4))
	lay, err := ps.ParseSpecs("0+1", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	got := impose(t, doc, opts)

	require.Equal(t, 1, strings.Count(got, "%%BeginProcSet: PStoPS 1 15\n"))
	require.Equal(t, 1, strings.Count(got, "%%EndProcSet\n"))
	require.Equal(t, 1, strings.Count(got, "userdict/PStoPSxform PStoPSmatrix matrix currentmatrix\n"))
	require.Contains(t, got, "%%Pages: 2 0\n")
	require.Contains(t, got, "%%Page: (1,2) 1\n")
	require.Contains(t, got, "%%Page: (3,4) 2\n")
	require.Equal(t, 2, strings.Count(got, "/PStoPSenablepage false def\n"))
	require.Equal(t, 4, strings.Count(got, "userdict/PStoPSsaved save put\n"))
	require.Equal(t, 4, strings.Count(got, "PStoPSsaved restore\n"))
	require.Equal(t, 4, strings.Count(got, "PStoPSxform concat\n"))
	require.NotContains(t, got, "\nPStoPSmatrix setmatrix\n")

	ix := strings.Index(got, "%%EndProcSet")
	require.Less(t, strings.Index(got, "%%BeginProlog"), ix)
	require.Less(t, ix, strings.Index(got, "%%EndSetup"))
}

func TestImposeTwice(t *testing.T) {
	doc := openSample(t, sampleDocument(4))
	lay, err := ps.ParseSpecs("0+1", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	first := impose(t, doc, opts)

	again := openSample(t, first)
	require.False(t, again.ProcSet.IsZero())
	require.Equal(t, 2, again.GetCount())

	got := impose(t, again, opts)
	require.Equal(t, 1, strings.Count(got, "%%BeginProcSet:"))
	require.Equal(t, 1, strings.Count(got, "userdict/PStoPSxform PStoPSmatrix"))
	require.Contains(t, got, "%%Page: (1,2) 1\n")
	for i := 1; i <= 4; i++ {
		require.Contains(t, got, fmt.Sprintf("(page %d)", i))
	}
	require.Equal(t, 2, strings.Count(got, "PStoPSxform concat\n"))
}

func TestImposeResize(t *testing.T) {
	doc := openSample(t, sampleDocument(2))
	opts := plainOptions()
	opts.Paper = ps.Size{Width: 612, Height: 792}
	opts.Reflow = true
	got := impose(t, doc, opts)

	require.Contains(t, got, "%%DocumentMedia: plain 612 792 0 () ()\n%%BoundingBox: 0 0 612 792\n%%Pages: 2 0\n")
	require.NotContains(t, got, "%%BoundingBox: 0 0 595 842")
	require.NotContains(t, got, "%%DocumentMedia: a4")
	require.Contains(t, got, "%%BeginProcSet: PStoPS 1 15\n")
	require.Equal(t, 2, strings.Count(got, "\nPStoPSmatrix setmatrix\n"))
	require.Equal(t, 2, strings.Count(got, " dup scale\n"))
	require.Equal(t, 2, strings.Count(got, " translate\n"))
	require.Equal(t, 2, strings.Count(got, "userdict/PStoPSclip{0 0 moveto\n 595.000000 0 rlineto 0 842.000000 rlineto -595.000000 0 rlineto\n closepath}put initclip\n"))
	require.NotContains(t, got, " rotate\n")
}

func TestImposeTransform(t *testing.T) {
	doc := openSample(t, sampleDocument(2))
	a4 := ps.Size{Width: 595, Height: 842}
	lay, err := ps.ParseSpecs("2:0L@.5(1w,0)+1U", a4)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	opts.Paper = a4
	opts.Draw = 1
	opts.NoBind = true
	got := impose(t, doc, opts)

	require.Contains(t, got, "%%BeginProcSet: PStoPS-nobind 1 15\n")
	require.Contains(t, got, "end\n/bind{}def\n%%EndProcSet\n")
	require.Contains(t, got, "PStoPSmatrix setmatrix\n595.000000 0.000000 translate\n90 rotate\n0.500000 dup scale\nuserdict/PStoPSmatrix matrix currentmatrix put\n")
	require.Contains(t, got, "PStoPSmatrix setmatrix\n180 rotate\nuserdict/PStoPSmatrix matrix currentmatrix put\n")
	require.Equal(t, 2, strings.Count(got, "gsave clippath 0 setgray 1.000000 setlinewidth stroke grestore\n"))
}

func TestImposeZeroPages(t *testing.T) {
	str := "%!PS\n%%Pages: 0\n%%EndComments\n%%Trailer\n"
	doc := openSample(t, str)
	got := impose(t, doc, plainOptions())
	require.Equal(t, "%!PS\n%%Pages: 0 0\n%%EndComments\n%%Trailer\n", got)
}

func TestImposeDeterministic(t *testing.T) {
	doc := openSample(t, sampleDocument(7))
	lay, err := ps.ParseSpecs("4:-3L@.7(1w,0)+0L@.7(1w,.5h),1R@.7(0,.5h)+-2R@.7(0,1h)", ps.Size{Width: 595, Height: 842})
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	require.Equal(t, impose(t, doc, opts), impose(t, doc, opts))
}

func TestOptionsValidate(t *testing.T) {
	opts := plainOptions()
	require.NoError(t, opts.Validate())

	opts.Signature = 6
	require.ErrorIs(t, opts.Validate(), ps.ErrSignature)

	opts = plainOptions()
	opts.Layout = ps.Layout{Specs: []ps.PageSpec{ps.NewPageSpec(2)}, Modulo: 2, PagesPerSheet: 1}
	require.ErrorIs(t, opts.Validate(), ps.ErrPageSpec)

	opts = plainOptions()
	opts.Layout = ps.Layout{}
	require.ErrorIs(t, opts.Validate(), ps.ErrConfig)

	opts = plainOptions()
	opts.Reflow = true
	require.ErrorIs(t, opts.Validate(), ps.ErrDimensionContext)

	opts = plainOptions()
	opts.Draw = -1
	require.ErrorIs(t, opts.Validate(), ps.ErrConfig)
}

func TestImposeFlipNeedsSize(t *testing.T) {
	doc := openSample(t, "%!PS\n%%EndComments\n%%Page: 1 1\nshowpage\n")
	lay, err := ps.ParseSpecs("0H", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	_, err = ps.NewEngine(doc, opts)
	require.ErrorIs(t, err, ps.ErrDimensionContext)
}

func TestImposeWithoutEndComments(t *testing.T) {
	str := "%!PS-Adobe-3.0\n%%Pages: 2\n%%Page: 1 1\n(page 1) show\nshowpage\n%%Page: 2 2\n(page 2) show\nshowpage\n%%Trailer\n"
	doc := openSample(t, str)
	got := impose(t, doc, plainOptions())

	want := "%!PS-Adobe-3.0\n%%Pages: 2 0\n%%Page: (1) 1\n(page 1) show\nshowpage\n%%Page: (2) 2\n(page 2) show\nshowpage\n%%Trailer\n"
	require.Equal(t, want, got)

	again := openSample(t, got)
	require.Equal(t, 2, again.GetCount())
}

func TestImposeTwiceWithoutProlog(t *testing.T) {
	str := "%!PS\n%%Pages: 2\n/x 1 def\n%%Page: 1 1\n(page 1) show\nshowpage\n%%Page: 2 2\n(page 2) show\nshowpage\n%%Trailer\n"
	lay, err := ps.ParseSpecs("0+1", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	first := impose(t, openSample(t, str), opts)
	require.Equal(t, 1, strings.Count(first, "%%BeginProcSet:"))

	again := openSample(t, first)
	require.False(t, again.ProcSet.IsZero())
	require.LessOrEqual(t, again.HeaderEnd, again.ProcSet.Begin)

	got := impose(t, again, opts)
	require.Equal(t, 1, strings.Count(got, "%%BeginProcSet:"))
	require.Equal(t, 1, strings.Count(got, "%%EndProcSet"))
	require.Equal(t, 1, strings.Count(got, "userdict/PStoPSxform PStoPSmatrix"))
	require.Equal(t, 1, strings.Count(got, "/x 1 def\n"))
	require.Contains(t, got, "(page 1) show")
	require.Contains(t, got, "(page 2) show")
}

func TestImposeReversedSheets(t *testing.T) {
	doc := openSample(t, sampleDocument(5))
	lay, err := ps.ParseSpecs("2:-1,0", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	engine, err := ps.NewEngine(doc, opts)
	require.NoError(t, err)
	require.Equal(t, 6, engine.MaxPage())

	b := ps.Blank
	require.Equal(t, [][]int{
		{b}, {0},
		{3}, {2},
		{1}, {4},
	}, engine.Sheets())

	got := impose(t, doc, opts)
	require.Contains(t, got, "%%Page: (*) 1\nshowpage\n%%Page: (1) 2\n")
	require.Contains(t, got, "%%Page: (4) 3\n(page 4)")
	require.Contains(t, got, "%%Page: (5) 6\n(page 5)")
}

func TestImposeSignatureTwoUp(t *testing.T) {
	doc := openSample(t, sampleDocument(6))
	lay, err := ps.ParseSpecs("2:0+1", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	opts.Signature = 4
	engine, err := ps.NewEngine(doc, opts)
	require.NoError(t, err)
	require.Equal(t, 8, engine.MaxPage())

	b := ps.Blank
	require.Equal(t, [][]int{
		{3, 0},
		{1, 2},
		{b, 4},
		{5, b},
	}, engine.Sheets())

	var buf bytes.Buffer
	res, err := engine.Write(&buf)
	require.NoError(t, err)
	require.Equal(t, ps.Result{Pages: 4, SourcePages: 6}, res)

	got := buf.String()
	require.Contains(t, got, "%%Pages: 4 0\n")
	require.Contains(t, got, "%%Page: (4,1) 1\n")
	require.Contains(t, got, "%%Page: (2,3) 2\n")
	require.Contains(t, got, "%%Page: (*,5) 3\n")
	require.Contains(t, got, "%%Page: (6,*) 4\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestImposeWriteError(t *testing.T) {
	doc := openSample(t, sampleDocument(200))
	lay, err := ps.ParseSpecs("0+1", ps.Unset)
	require.NoError(t, err)

	opts := plainOptions()
	opts.Layout = lay
	engine, err := ps.NewEngine(doc, opts)
	require.NoError(t, err)

	_, err = engine.Write(failingWriter{})
	require.ErrorIs(t, err, ps.ErrIO)
}
