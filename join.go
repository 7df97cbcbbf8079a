package ps

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	joinSave         = "save %psjoin"
	joinRestore      = "restore %psjoin"
	joinSaveNamed    = "/#psjoin-save# save def %psjoin"
	joinRestoreNamed = "#psjoin-save# restore %psjoin"
)

type JoinOptions struct {
	// Even adds a blank page after every document with an odd number of
	// pages.
	Even bool
	// Save wraps every page in a named save and restore, for documents
	// leaving unbalanced saves behind.
	Save bool
	// NoStrip keeps the prolog and trailer of every document in place
	// instead of sharing the most common one.
	NoStrip bool
}

// JoinFile is one of the documents to concatenate.
type JoinFile struct {
	Name string
	Doc  *Document
}

type joinPart struct {
	JoinFile
	num    int
	out    *Splicer
	prolog []byte
}

// Join writes the pages of every file, one document after the other, as a
// single document. The prolog used by most pages is written once; pages of
// documents with another prolog get their own prolog and trailer, wrapped
// in a save and restore.
func Join(w io.Writer, files []JoinFile, opts JoinOptions) (Result, error) {
	var res Result
	if len(files) == 0 {
		return res, fmt.Errorf("no document to join: %w", ErrConfig)
	}
	var (
		buf   = bufio.NewWriter(w)
		parts = make([]*joinPart, 0, len(files))
		names = make([]string, 0, len(files))
	)
	for i, f := range files {
		prolog, err := f.Doc.Section(f.Doc.HeaderEnd, f.Doc.Pages[0])
		if err != nil {
			return res, err
		}
		p := joinPart{
			JoinFile: f,
			num:      i + 1,
			out:      newSplicer(buf, f.Doc.Reader(), nil),
			prolog:   prolog,
		}
		parts = append(parts, &p)
		names = append(names, filepath.Base(f.Name))
		res.SourcePages += f.Doc.GetCount()
	}
	common := -1
	if !opts.NoStrip {
		common = commonProlog(parts)
	}

	out := parts[0].out
	out.Println("%!PS-Adobe-3.0")
	out.Printf("%%%%Title: %s", strings.Join(names, " "))
	out.Println("%%Creator: psjoin")
	out.Println("%%Pages: (atend)")
	if common >= 0 {
		if err := parts[common].writeProlog(); err != nil {
			return res, err
		}
	} else {
		out.Println("")
		out.Println("% psjoin: don't strip")
	}

	save, restore := joinSave, joinRestore
	if opts.Save {
		save, restore = joinSaveNamed, joinRestoreNamed
	}
	for _, p := range parts {
		shared := common >= 0 && bytes.Equal(p.prolog, parts[common].prolog)
		p.out.Printf("%% psjoin: file: %s", filepath.Base(p.Name))
		if shared {
			p.out.Println("% psjoin: common Prolog/Trailer will be used")
		} else {
			p.out.Println("% psjoin: Prolog/Trailer will be inserted in each page")
		}
		if opts.NoStrip {
			if err := p.copyQuoted(0, p.Doc.Pages[0]); err != nil {
				return res, err
			}
		}
		var wrapped bool
		closePage := func() error {
			if !wrapped {
				return nil
			}
			wrapped = false
			if !shared && !opts.NoStrip {
				if err := p.copyQuoted(p.Doc.Trailer, p.Doc.Reader().Size()); err != nil {
					return err
				}
			}
			return p.out.Println(restore)
		}
		for n := 0; n < p.Doc.GetCount(); n++ {
			if err := closePage(); err != nil {
				return res, err
			}
			res.Pages++
			p.out.Printf("\n%%%%Page: (%d-%d) %d", p.num, n+1, res.Pages)
			switch {
			case !shared:
				p.out.Println(save)
				if !opts.NoStrip {
					if err := p.copyQuoted(p.Doc.HeaderEnd, p.Doc.Pages[0]); err != nil {
						return res, err
					}
					p.out.Println("")
				}
				wrapped = true
			case opts.Save:
				p.out.Println(save)
				wrapped = true
			}
			if _, _, err := p.Doc.SeekPage(n); err != nil {
				return res, err
			}
			_, end, _ := p.Doc.PageOffsets(n)
			if err := p.out.CopyLines(end, quoteComments()); err != nil {
				return res, err
			}
		}
		if err := closePage(); err != nil {
			return res, err
		}
		if opts.Even && p.Doc.GetCount()%2 == 1 {
			res.Pages++
			p.out.Printf("\n%%%%Page: (%d-E) %d", p.num, res.Pages)
			p.out.Println("% psjoin: empty page inserted to force even pages")
			p.out.Println("showpage")
		}
		if opts.NoStrip {
			if err := p.copyQuoted(p.Doc.Trailer, p.Doc.Reader().Size()); err != nil {
				return res, err
			}
		}
	}

	out.Println("")
	out.Println("%%Trailer")
	if common >= 0 {
		c := parts[common]
		if err := c.copyQuoted(c.Doc.Trailer, c.Doc.Reader().Size()); err != nil {
			return res, err
		}
	} else {
		out.Println("% psjoin: don't strip")
	}
	out.Println("")
	out.Printf("%%%%Pages: %d", res.Pages)
	out.Println("%%EOF")
	return res, out.Flush()
}

// writeProlog writes the header comments of p that still hold for the
// joined document, then its prolog.
func (p *joinPart) writeProlog() error {
	if err := p.out.Seek(0); err != nil {
		return err
	}
	err := p.out.CopyLines(p.Doc.HeaderEnd, func(line []byte) []byte {
		for _, prefix := range []string{"%!", "%%Title", "%%Pages", "%%Creator"} {
			if bytes.HasPrefix(line, []byte(prefix)) {
				return nil
			}
		}
		return line
	})
	if err != nil {
		return err
	}
	p.out.Println("")
	return p.out.Copy(p.Doc.Pages[0])
}

func (p *joinPart) copyQuoted(start, end int64) error {
	if err := p.out.Seek(start); err != nil {
		return err
	}
	return p.out.CopyLines(end, quoteComments())
}

// commonProlog returns the index of the part whose prolog serves the most
// pages, counting the pages of every part with the same prolog.
func commonProlog(parts []*joinPart) int {
	pages := make([]int, len(parts))
	for i, p := range parts {
		pages[i] = p.Doc.GetCount()
		if len(p.prolog) == 0 {
			continue
		}
		for j := 0; j < i; j++ {
			if bytes.Equal(parts[j].prolog, p.prolog) {
				pages[j] += pages[i]
				break
			}
		}
	}
	var largest, index int
	for i, p := range parts {
		if size := len(p.prolog) * pages[i]; size > largest {
			largest, index = size, i
		}
	}
	return index
}
