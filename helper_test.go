package ps_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/midbel/ps"
	"github.com/stretchr/testify/require"
)

// sampleDocument builds a small conforming document with the given number
// of pages. Page n draws the text "page n".
func sampleDocument(pages int) string {
	var b strings.Builder
	b.WriteString("%!PS-Adobe-3.0\n")
	b.WriteString("%%Title: (Sample)\n")
	b.WriteString("%%Creator: gen\n")
	b.WriteString("%%BoundingBox: 0 0 595 842\n")
	b.WriteString("%%DocumentMedia: a4 595 842 80 () ()\n")
	fmt.Fprintf(&b, "%%%%Pages: %d\n", pages)
	b.WriteString("%%EndComments\n")
	b.WriteString("%%BeginProlog\n")
	b.WriteString("/label {moveto show} def\n")
	b.WriteString("%%EndProlog\n")
	b.WriteString("%%BeginSetup\n")
	b.WriteString("/Times-Roman findfont 12 scalefont setfont\n")
	b.WriteString("%%EndSetup\n")
	for i := 1; i <= pages; i++ {
		fmt.Fprintf(&b, "%%%%Page: %d %d\n", i, i)
		fmt.Fprintf(&b, "(page %d) 72 72 label\n", i)
		b.WriteString("showpage\n")
	}
	b.WriteString("%%Trailer\n")
	b.WriteString("%%EOF\n")
	return b.String()
}

func openSample(t *testing.T, str string) *ps.Document {
	t.Helper()
	doc, err := ps.NewDocument(strings.NewReader(str))
	require.NoError(t, err)
	return doc
}

func impose(t *testing.T, doc *ps.Document, opts ps.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, ps.Impose(&buf, doc, opts))
	return buf.String()
}

func plainOptions() ps.Options {
	return ps.Options{
		Layout:    ps.Identity(),
		Signature: 1,
		Paper:     ps.Unset,
		InPaper:   ps.Unset,
	}
}
