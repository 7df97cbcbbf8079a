package ps

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const procSetName = "PStoPS"

// ProcSet locates a wrapper procedure set injected by a previous run:
// Begin is the offset of its first line, End the offset just after its
// last line. Both are zero when the input has none.
type ProcSet struct {
	Begin int64
	End   int64
}

func (p ProcSet) IsZero() bool {
	return p.Begin == 0
}

// Index is the result of scanning a document once. All offsets are byte
// offsets from the start of the input.
type Index struct {
	// Pages has one entry per %%Page: comment plus a last entry where the
	// trailer (or the end of input) starts.
	Pages []int64
	// HeaderEnd is where the structural-comment header stops.
	HeaderEnd int64
	// PagesComment is the offset of the %%Pages: line, -1 if missing.
	PagesComment int64
	// EndComments is the offset of the %%EndComments line, -1 if missing.
	EndComments int64
	EndSetup    int64
	ProcSet     ProcSet
	Trailer     int64
	// SizeHeaders are the offsets of the header lines describing the size
	// of the document. They are dropped when the document is rescaled.
	SizeHeaders []int64

	Media       Size
	BoundingBox BoundingBox
	Info        DocumentInfo
}

// DocumentInfo holds the text fields found in the document header.
type DocumentInfo struct {
	Title         string
	Creator       string
	For           string
	CreationDate  string
	LanguageLevel int

	Fields map[string]string
}

var (
	commentPrefix = []byte("%%")
	pageComment   = []byte("%%Page:")
)

// Scan reads r from the start to the trailer and builds the index of the
// document structure. A document without %%Page: comments is not an
// error: it has zero pages.
func Scan(r *Reader) (*Index, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	ix := Index{
		PagesComment: -1,
		EndComments:  -1,
		Media:        Unset,
	}
	ix.Info.Fields = make(map[string]string)

	var (
		nesting  int
		inHeader = true
		record   int64
		done     bool
	)
	for !done {
		record = r.Tell()
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(line) == 0 || line[0] != '%' {
			if inHeader {
				ix.HeaderEnd, inHeader = record, false
			}
			continue
		}
		if !bytes.HasPrefix(line, commentPrefix) {
			if inHeader && (len(line) < 2 || line[1] != '!') {
				ix.HeaderEnd, inHeader = record, false
			}
			continue
		}
		keyword, value := splitComment(trimLine(line))
		switch {
		case keyword == "Page:" && nesting == 0:
			if inHeader {
				ix.HeaderEnd, inHeader = record, false
			}
			ix.Pages = append(ix.Pages, record)
		case inHeader && isSizeHeader(keyword):
			ix.SizeHeaders = append(ix.SizeHeaders, record)
			if keyword == "DocumentMedia:" && !ix.Media.IsSet() {
				ix.Media = parseMedia(value)
			}
			if keyword == "BoundingBox:" && ix.BoundingBox.IsZero() {
				ix.BoundingBox, _ = ParseBoundingBox(value)
			}
		case inHeader && keyword == "Pages:":
			ix.PagesComment = record
		case inHeader && keyword == "EndComments":
			ix.EndComments = record
			ix.HeaderEnd, inHeader = r.Tell(), false
		case isBeginEmbed(keyword):
			nesting++
		case isEndEmbed(keyword):
			if nesting > 0 {
				nesting--
			}
		case nesting == 0 && keyword == "EndSetup":
			ix.EndSetup = record
		case nesting == 0 && keyword == "BeginProlog" && len(ix.Pages) == 0:
			ix.HeaderEnd, inHeader = r.Tell(), false
		case nesting == 0 && keyword == "BeginProcSet:" && strings.HasPrefix(value, procSetName) && len(ix.Pages) == 0:
			if inHeader {
				ix.HeaderEnd, inHeader = record, false
			}
			ix.ProcSet.Begin = record
		case !ix.ProcSet.IsZero() && ix.ProcSet.End == 0 && keyword == "EndProcSet":
			ix.ProcSet.End = r.Tell()
		case nesting == 0 && (keyword == "Trailer" || keyword == "EOF"):
			if _, err := r.Seek(record, io.SeekStart); err != nil {
				return nil, err
			}
			done = true
		default:
			if inHeader {
				ix.Info.set(keyword, value)
			}
		}
	}
	ix.Trailer = r.Tell()
	ix.Pages = append(ix.Pages, ix.Trailer)
	if ix.ProcSet.End <= ix.ProcSet.Begin {
		ix.ProcSet = ProcSet{}
	}
	if ix.EndSetup == 0 || ix.EndSetup > ix.Pages[0] {
		ix.EndSetup = ix.Pages[0]
	}
	if inHeader || ix.HeaderEnd > ix.Pages[0] {
		ix.HeaderEnd = ix.Pages[0]
	}
	// the header is copied before the wrapper is replaced: it must not
	// include the previous one
	if !ix.ProcSet.IsZero() && ix.HeaderEnd > ix.ProcSet.Begin {
		ix.HeaderEnd = ix.ProcSet.Begin
	}
	return &ix, nil
}

// Count returns the number of pages found in the document.
func (ix *Index) Count() int {
	return len(ix.Pages) - 1
}

func splitComment(line []byte) (string, string) {
	line = line[len(commentPrefix):]
	var (
		str = string(line)
		ix  = strings.IndexAny(str, ": \t")
	)
	if ix < 0 {
		return str, ""
	}
	if str[ix] == ':' {
		ix++
	}
	return str[:ix], strings.TrimSpace(str[ix:])
}

func isSizeHeader(keyword string) bool {
	switch keyword {
	case "BoundingBox:", "HiResBoundingBox:", "DocumentPaperSizes:", "DocumentMedia:":
		return true
	default:
		return false
	}
}

func isBeginEmbed(keyword string) bool {
	switch keyword {
	case "BeginDocument", "BeginDocument:", "BeginBinary", "BeginBinary:", "BeginFile", "BeginFile:":
		return true
	default:
		return false
	}
}

func isEndEmbed(keyword string) bool {
	switch keyword {
	case "EndDocument", "EndBinary", "EndFile":
		return true
	default:
		return false
	}
}

// parseMedia reads the width and height of the first medium of a
// %%DocumentMedia: line: name width height weight color type.
func parseMedia(value string) Size {
	fields := strings.Fields(value)
	if len(fields) < 3 {
		return Unset
	}
	w, err1 := strconv.ParseFloat(fields[1], 64)
	h, err2 := strconv.ParseFloat(fields[2], 64)
	if err1 != nil || err2 != nil || w <= 0 || h <= 0 {
		return Unset
	}
	return Size{Width: w, Height: h}
}

func (i *DocumentInfo) set(keyword, value string) {
	key := strings.TrimSuffix(keyword, ":")
	if key == "" || key == keyword || value == "" || value == "(atend)" {
		return
	}
	switch key {
	case "Title":
		i.Title = textValue(value)
	case "Creator":
		i.Creator = textValue(value)
	case "For":
		i.For = textValue(value)
	case "CreationDate":
		i.CreationDate = textValue(value)
	case "LanguageLevel":
		i.LanguageLevel, _ = strconv.Atoi(value)
	default:
		if _, ok := i.Fields[key]; !ok {
			i.Fields[key] = textValue(value)
		}
	}
}

// Document is a scanned DSC document. Pages are read on demand by seeking
// to the offsets recorded in the index.
type Document struct {
	*Index
	inner *Reader
}

func Open(file string) (*Document, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	doc, err := NewDocument(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return doc, nil
}

func NewDocument(rs io.ReadSeeker) (*Document, error) {
	r, err := NewReader(rs)
	if err != nil {
		return nil, err
	}
	ix, err := Scan(r)
	if err != nil {
		return nil, err
	}
	doc := Document{
		Index: ix,
		inner: r,
	}
	return &doc, nil
}

func (d *Document) Close() error {
	return d.inner.Close()
}

func (d *Document) Reader() *Reader {
	return d.inner
}

func (d *Document) GetCount() int {
	return d.Count()
}

func (d *Document) GetDocumentInfo() DocumentInfo {
	return d.Info
}

// PageOffsets returns the offset where page p (0-based) starts and the
// offset where the next page (or the trailer) starts.
func (d *Document) PageOffsets(p int) (int64, int64, error) {
	if p < 0 || p >= d.Count() {
		return 0, 0, fmt.Errorf("page %d: %w", p+1, ErrPageIndex)
	}
	return d.Pages[p], d.Pages[p+1], nil
}

// SeekPage positions the reader just after the %%Page: line of page p and
// returns the label and ordinal found on that line.
func (d *Document) SeekPage(p int) (string, int, error) {
	start, _, err := d.PageOffsets(p)
	if err != nil {
		return "", 0, err
	}
	if _, err := d.inner.Seek(start, io.SeekStart); err != nil {
		return "", 0, err
	}
	line, err := d.inner.ReadLine()
	if err != nil || !bytes.HasPrefix(line, pageComment) {
		return "", 0, fmt.Errorf("seeking page %d: %w", p+1, ErrIO)
	}
	label, ordinal, err := parsePageComment(trimLine(line[len(pageComment):]))
	if err != nil {
		return "", 0, fmt.Errorf("page %d: %w", p+1, err)
	}
	return label, ordinal, nil
}

// GetPage returns the content of page p, its %%Page: line included.
func (d *Document) GetPage(p int) ([]byte, error) {
	start, end, err := d.PageOffsets(p)
	if err != nil {
		return nil, err
	}
	return d.Section(start, end)
}

// Section returns the bytes of the document between offsets start and end.
func (d *Document) Section(start, end int64) ([]byte, error) {
	if _, err := d.inner.Seek(start, io.SeekStart); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := d.inner.CopyTo(&buf, end); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// parsePageComment splits the value of a %%Page: comment into its label
// and its ordinal. A label in parentheses may contain blanks and nested
// parentheses.
func parsePageComment(line []byte) (string, int, error) {
	str := strings.TrimLeft(string(line), " \t")
	var end int
	if strings.HasPrefix(str, "(") {
		depth := 1
		for end = 1; depth > 0; end++ {
			if end >= len(str) {
				return "", 0, fmt.Errorf("bad page label %q: %w", str, ErrIO)
			}
			switch str[end] {
			case '(':
				depth++
			case ')':
				depth--
			}
		}
	} else {
		end = strings.IndexAny(str, " \t")
		if end < 0 {
			end = len(str)
		}
	}
	var (
		label  = str[:end]
		rest   = strings.Fields(str[end:])
		number int
	)
	if len(rest) > 0 {
		number, _ = strconv.Atoi(rest[0])
	}
	return convertString(label), number, nil
}
