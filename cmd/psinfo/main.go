package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/midbel/hexdump"
	"github.com/midbel/ps"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var title = cases.Title(language.English, cases.NoLower)

func main() {
	var (
		pages ps.RangeList
		index = flag.Bool("a", false, "print the offsets of every page")
		raw   = flag.Bool("x", false, "dump the selected pages in hexadecimal")
	)
	flag.Var(&pages, "p", "pages to print")
	flag.Parse()
	doc, err := ps.OpenInput(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "psinfo: %s\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	if !pages.IsEmpty() {
		if err := printPages(doc, pages, *raw); err != nil {
			fmt.Fprintf(os.Stderr, "psinfo: %s\n", err)
			os.Exit(1)
		}
		return
	}
	printInfo(doc)
	if *index {
		if err := printIndex(doc); err != nil {
			fmt.Fprintf(os.Stderr, "psinfo: %s\n", err)
			os.Exit(1)
		}
	}
}

func printInfo(doc *ps.Document) {
	info := doc.GetDocumentInfo()
	printLine("title", info.Title)
	printLine("creator", info.Creator)
	printLine("for", info.For)
	printLine("created", info.CreationDate)
	if info.LanguageLevel > 0 {
		printLine("level", strconv.Itoa(info.LanguageLevel))
	}
	if doc.Media.IsSet() {
		printLine("media", fmt.Sprintf("%gx%g", doc.Media.Width, doc.Media.Height))
	}
	if !doc.BoundingBox.IsZero() {
		printLine("bounding box", doc.BoundingBox.String())
	}
	if !doc.ProcSet.IsZero() {
		printLine("imposed", "yes")
	}
	keys := make([]string, 0, len(info.Fields))
	for k := range info.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		printLine(k, info.Fields[k])
	}
	printLine("pages", strconv.Itoa(doc.GetCount()))
}

func printIndex(doc *ps.Document) error {
	for p := 0; p < doc.GetCount(); p++ {
		label, ordinal, err := doc.SeekPage(p)
		if err != nil {
			return err
		}
		start, end, _ := doc.PageOffsets(p)
		fmt.Printf("%4d %-12s %4d %10d %10d", p+1, label, ordinal, start, end-start)
		fmt.Println()
	}
	return nil
}

func printPages(doc *ps.Document, rg ps.RangeList, raw bool) error {
	sel := ps.Selection{Ranges: rg.Ranges()}
	for _, p := range sel.Resolve(doc.GetCount()) {
		if p == ps.Blank {
			continue
		}
		page, err := doc.GetPage(p)
		if err != nil {
			return err
		}
		if raw {
			fmt.Println(hexdump.Dump(page))
			continue
		}
		os.Stdout.Write(page)
	}
	return nil
}

func printLine(key, value string) {
	if value == "" {
		return
	}
	fmt.Printf("%-12s: %s", title.String(key), value)
	fmt.Println()
}
