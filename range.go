package ps

import (
	"fmt"
	"strings"
)

// Blank stands for an inserted blank page in a resolved page sequence.
const Blank = -1

// PageRange is an inclusive range of 1-based page numbers. Negative
// numbers count from the end of the document and 0 inserts a blank page.
// A range with Last < First is walked downward.
type PageRange struct {
	First int
	Last  int
}

func (r PageRange) String() string {
	if r.First == r.Last {
		return pageNumber(r.First)
	}
	return pageNumber(r.First) + "-" + pageNumber(r.Last)
}

func pageNumber(n int) string {
	if n < 0 {
		return fmt.Sprintf("_%d", -n)
	}
	return fmt.Sprintf("%d", n)
}

// ParseRanges parses a comma separated list of page ranges:
//
//	N      page N
//	N-M    pages N to M, downward if M < N
//	N-     page N to the last page
//	-M     first page to page M
//	-      every page
//	_N     page N counted from the end
//	0, _   a blank page
//
// A colon can be used in place of the dash.
func ParseRanges(str string) ([]PageRange, error) {
	var (
		c    = cursor{str: str}
		list []PageRange
	)
	for {
		r, err := parseRange(&c)
		if err != nil {
			return nil, err
		}
		list = append(list, r)
		if c.done() {
			break
		}
		if !c.accept(',') {
			return nil, parseError(str, c.pos, ErrPageRange)
		}
	}
	return list, nil
}

func parseRange(c *cursor) (PageRange, error) {
	var (
		start      = c.pos
		first, neg = signedPage(c)
		digits     = c.pos > start && (!neg || c.pos > start+1)
	)
	if b := c.peek(); b != '-' && b != ':' {
		if !digits && !neg {
			return PageRange{}, parseError(c.str, start, ErrPageRange)
		}
		return PageRange{First: first, Last: first}, nil
	}
	c.next()
	if first == 0 {
		first = 1
	}
	mark := c.pos
	last, neg := signedPage(c)
	if c.pos > mark && (!neg || c.pos > mark+1) {
		return PageRange{First: first, Last: last}, nil
	}
	return PageRange{First: first, Last: -1}, nil
}

// signedPage reads an optional underscore followed by optional digits.
func signedPage(c *cursor) (int, bool) {
	neg := c.accept('_')
	n, _ := c.integer()
	if neg {
		n = -n
	}
	return n, neg
}

// Selection chooses and orders the pages of a document.
type Selection struct {
	Ranges  []PageRange
	Odd     bool
	Even    bool
	Reverse bool
}

// Resolve expands s against a document of pages pages. The result holds
// 0-based page indices in output order, with Blank for inserted blank
// pages. Pages past the end of the document are left out.
func (s Selection) Resolve(pages int) []int {
	ranges := make([]PageRange, len(s.Ranges))
	copy(ranges, s.Ranges)
	if len(ranges) == 0 {
		ranges = append(ranges, PageRange{First: 1, Last: -1})
	}
	if s.Reverse {
		for i, j := 0, len(ranges)-1; i < j; i, j = i+1, j-1 {
			ranges[i], ranges[j] = ranges[j], ranges[i]
		}
		for i := range ranges {
			ranges[i].First, ranges[i].Last = ranges[i].Last, ranges[i].First
		}
	}
	var (
		all  = s.Odd == s.Even
		list = make([]int, 0, pages)
	)
	for _, r := range ranges {
		first, last := fromEnd(r.First, pages), fromEnd(r.Last, pages)
		step := 1
		if last < first {
			step = -1
		}
		for p := first; ; p += step {
			switch {
			case p == 0:
				list = append(list, Blank)
			case p > pages:
			case all || (p%2 == 1) == s.Odd:
				list = append(list, p-1)
			}
			if p == last {
				break
			}
		}
	}
	return list
}

func fromEnd(n, pages int) int {
	if n < 0 {
		n += pages + 1
		if n < 1 {
			n = 1
		}
	}
	if n > pages+1 {
		n = pages + 1
	}
	return n
}

// RangeList collects page ranges from a command line flag that can be
// given more than once.
type RangeList struct {
	ranges []PageRange
}

func (r *RangeList) Set(str string) error {
	list, err := ParseRanges(str)
	if err != nil {
		return err
	}
	r.ranges = append(r.ranges, list...)
	return nil
}

func (r *RangeList) String() string {
	if r == nil || len(r.ranges) == 0 {
		return ""
	}
	parts := make([]string, len(r.ranges))
	for i, g := range r.ranges {
		parts[i] = g.String()
	}
	return strings.Join(parts, ",")
}

func (r *RangeList) Ranges() []PageRange {
	return r.ranges
}

func (r *RangeList) IsEmpty() bool {
	return len(r.ranges) == 0
}
