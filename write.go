package ps

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Splicer writes the output document: it copies ranges of the input as
// they are and writes the code generated in between.
//
// Output is buffered. Once a write fails, every later write and Flush
// fail too, so a run of writes only needs its last result checked.
type Splicer struct {
	in     *Reader
	out    *bufio.Writer
	ignore []int64
}

// NewSplicer creates a Splicer copying from r to w. The lines starting at
// the offsets in ignore are left out of the copy made by CopyHeader.
func NewSplicer(w io.Writer, r *Reader, ignore []int64) *Splicer {
	return newSplicer(bufio.NewWriter(w), r, ignore)
}

func newSplicer(out *bufio.Writer, r *Reader, ignore []int64) *Splicer {
	list := make([]int64, len(ignore))
	copy(list, ignore)
	return &Splicer{
		in:     r,
		out:    out,
		ignore: list,
	}
}

func (s *Splicer) Seek(offset int64) error {
	_, err := s.in.Seek(offset, io.SeekStart)
	return err
}

// Copy copies the input from its current offset up to upto.
func (s *Splicer) Copy(upto int64) error {
	return s.in.CopyTo(s.out, upto)
}

// CopyHeader is like Copy but drops the ignored lines found on the way.
func (s *Splicer) CopyHeader(upto int64) error {
	for len(s.ignore) > 0 && s.ignore[0] < upto {
		if s.ignore[0] < s.in.Tell() {
			s.ignore = s.ignore[1:]
			continue
		}
		if err := s.Copy(s.ignore[0]); err != nil {
			return err
		}
		if err := s.SkipLine(); err != nil {
			return err
		}
		s.ignore = s.ignore[1:]
	}
	return s.Copy(upto)
}

// SkipLine moves the input past its current line.
func (s *Splicer) SkipLine() error {
	_, err := s.in.ReadLine()
	if err != nil {
		return fmt.Errorf("skip line at %d: %w", s.in.Tell(), ErrIO)
	}
	return nil
}

// CopyUntil copies whole lines of the input until a line starting with
// prefix, which is consumed but not copied, or until offset limit. It
// reports whether the line was found.
func (s *Splicer) CopyUntil(prefix []byte, limit int64) (bool, error) {
	for s.in.Tell() < limit {
		line, err := s.in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return false, err
		}
		if bytes.HasPrefix(line, prefix) {
			return true, nil
		}
		if _, err := s.out.Write(line); err != nil {
			return false, fmt.Errorf("write: %w", ErrIO)
		}
	}
	return false, nil
}

// CopyLines copies whole lines of the input up to offset upto, each one
// replaced by what fn returns for it. A nil result drops the line.
func (s *Splicer) CopyLines(upto int64, fn func([]byte) []byte) error {
	for s.in.Tell() < upto {
		line, err := s.in.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if line = fn(line); line == nil {
			continue
		}
		if _, err := s.out.Write(line); err != nil {
			return fmt.Errorf("write: %w", ErrIO)
		}
	}
	return nil
}

// quoteComments returns a line filter turning the structuring comments
// found outside embedded documents into plain comments, so that they do
// not describe the structure of the document they are copied into.
func quoteComments() func([]byte) []byte {
	var nesting int
	return func(line []byte) []byte {
		raw := nesting > 0
		if bytes.HasPrefix(line, commentPrefix) {
			keyword, _ := splitComment(trimLine(line))
			switch {
			case isBeginEmbed(keyword):
				nesting++
				raw = true
			case isEndEmbed(keyword) && nesting > 0:
				nesting--
				raw = true
			}
		}
		if raw || !isStructural(line) {
			return line
		}
		return append([]byte("% "), line...)
	}
}

func isStructural(line []byte) bool {
	return bytes.HasPrefix(line, commentPrefix) || bytes.HasPrefix(line, []byte("%!"))
}

// Println writes one line of generated code.
func (s *Splicer) Println(str string) error {
	s.out.WriteString(str)
	if err := s.out.WriteByte(nl); err != nil {
		return fmt.Errorf("write: %w", ErrIO)
	}
	return nil
}

func (s *Splicer) Printf(format string, args ...interface{}) error {
	return s.Println(fmt.Sprintf(format, args...))
}

// CopyAll copies everything left in the input.
func (s *Splicer) CopyAll() error {
	return s.Copy(s.in.Size())
}

func (s *Splicer) Flush() error {
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("flush: %w", ErrIO)
	}
	return nil
}
