package ps

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

const (
	nl = '\n'
	cr = '\r'
)

// Reader reads lines from a seekable input and keeps track of the offset
// of the next byte to read, so any line can be found again by seeking.
type Reader struct {
	inner io.ReadSeeker
	buf   *bufio.Reader
	ptr   int64
	size  int64
}

func NewReader(rs io.ReadSeeker) (*Reader, error) {
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("seek: %w", ErrIO)
	}
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", ErrIO)
	}
	r := Reader{
		inner: rs,
		buf:   bufio.NewReaderSize(rs, 64*1024),
		size:  size,
	}
	return &r, nil
}

// NewBytesReader reads from an in-memory document.
func NewBytesReader(b []byte) *Reader {
	r, _ := NewReader(bytes.NewReader(b))
	return r
}

func (r *Reader) Close() error {
	if c, ok := r.inner.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (r *Reader) Size() int64 {
	return r.size
}

func (r *Reader) Tell() int64 {
	return r.ptr
}

func (r *Reader) AtEOF() bool {
	return r.ptr >= r.size
}

// ReadLine returns the next line including its terminating newline. The
// last line of the input may have no newline. At the end of the input it
// returns io.EOF.
func (r *Reader) ReadLine() ([]byte, error) {
	line, err := r.buf.ReadBytes(nl)
	r.ptr += int64(len(line))
	if err != nil {
		if err == io.EOF && len(line) > 0 {
			return line, nil
		}
		if err != io.EOF {
			err = fmt.Errorf("read line at %d: %w", r.ptr, ErrIO)
		}
		return nil, err
	}
	return line, nil
}

func (r *Reader) Read(b []byte) (int, error) {
	n, err := r.buf.Read(b)
	r.ptr += int64(n)
	return n, err
}

func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += r.ptr
	case io.SeekEnd:
		offset += r.size
	default:
		return 0, fmt.Errorf("seek: invalid whence")
	}
	if offset < 0 {
		return 0, fmt.Errorf("seek: negative position")
	}
	if _, err := r.inner.Seek(offset, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek %d: %w", offset, ErrIO)
	}
	r.buf.Reset(r.inner)
	r.ptr = offset
	return offset, nil
}

// CopyTo copies the input from the current offset up to (not including)
// offset upto. Nothing is copied when upto is not after the current
// offset.
func (r *Reader) CopyTo(w io.Writer, upto int64) error {
	n := upto - r.ptr
	if n <= 0 {
		return nil
	}
	c, err := io.CopyN(w, r, n)
	if err != nil {
		return fmt.Errorf("copy %d bytes at %d (copied %d): %w", n, r.ptr-c, c, ErrIO)
	}
	return nil
}

// trimLine removes the line terminator of line.
func trimLine(line []byte) []byte {
	line = bytes.TrimSuffix(line, []byte{nl})
	return bytes.TrimSuffix(line, []byte{cr})
}
