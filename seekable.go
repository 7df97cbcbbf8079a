package ps

import (
	"fmt"
	"io"
	"os"
)

// MakeSeekable returns r itself when it can seek, otherwise a temporary
// file holding everything r produces. The temporary file is removed when
// it is closed.
func MakeSeekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok && canSeek(rs) {
		return rs, nil
	}
	f, err := os.CreateTemp("", "ps-input-*")
	if err != nil {
		return nil, fmt.Errorf("cannot seek input: %s: %w", err, ErrIO)
	}
	tmp := &tempFile{File: f}
	if _, err := io.Copy(f, r); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("cannot seek input: %s: %w", err, ErrIO)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("cannot seek input: %s: %w", err, ErrIO)
	}
	return tmp, nil
}

func canSeek(rs io.Seeker) bool {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}
	if _, err := rs.Seek(0, io.SeekEnd); err != nil {
		return false
	}
	_, err = rs.Seek(pos, io.SeekStart)
	return err == nil
}

type tempFile struct {
	*os.File
}

func (t *tempFile) Close() error {
	err := t.File.Close()
	os.Remove(t.Name())
	return err
}

// OpenInput opens and scans the named document. An empty name or "-" reads
// from stdin.
func OpenInput(file string) (*Document, error) {
	var r io.Reader = os.Stdin
	if file != "" && file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return nil, err
		}
		r = f
	}
	rs, err := MakeSeekable(r)
	if f, ok := r.(*os.File); ok && f != os.Stdin && (err != nil || rs != io.ReadSeeker(f)) {
		f.Close()
	}
	if err != nil {
		return nil, err
	}
	doc, err := NewDocument(rs)
	if err != nil {
		if c, ok := rs.(io.Closer); ok {
			c.Close()
		}
		return nil, err
	}
	return doc, nil
}

// CreateOutput creates the named file. An empty name or "-" writes to
// stdout.
func CreateOutput(file string) (io.WriteCloser, error) {
	if file == "" || file == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(file)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}
