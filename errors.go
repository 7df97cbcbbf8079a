package ps

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by this package wraps exactly one of them.
var (
	ErrSyntax    = errors.New("syntax error")
	ErrStructure = errors.New("structural error")
	ErrConfig    = errors.New("configuration error")
)

var (
	ErrDimension        = fmt.Errorf("bad dimension: %w", ErrSyntax)
	ErrPageSpec         = fmt.Errorf("bad page specification: %w", ErrSyntax)
	ErrPageRange        = fmt.Errorf("invalid page range: %w", ErrSyntax)
	ErrDimensionContext = fmt.Errorf("paper size not set: %w", ErrConfig)
	ErrPaper            = fmt.Errorf("paper size unknown: %w", ErrConfig)
	ErrSignature        = fmt.Errorf("signature must be positive and divisible by 4: %w", ErrConfig)
	ErrNoLayout         = fmt.Errorf("can't find acceptable layout: %w", ErrConfig)
	ErrPageIndex        = fmt.Errorf("page not found in document: %w", ErrStructure)
	ErrIO               = fmt.Errorf("I/O error: %w", ErrStructure)
	ErrBoundingBox      = fmt.Errorf("bad bounding box: %w", ErrStructure)
	ErrResource         = fmt.Errorf("bad resource: %w", ErrStructure)
)

// ParseError carries the position in the text where parsing stopped.
type ParseError struct {
	Text string
	Pos  int
	Err  error
}

func (e *ParseError) Error() string {
	if e.Pos < 0 || e.Pos >= len(e.Text) {
		return fmt.Sprintf("%q: %v", e.Text, e.Err)
	}
	return fmt.Sprintf("%q at %q: %v", e.Text, e.Text[e.Pos:], e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func parseError(text string, pos int, err error) error {
	return &ParseError{Text: text, Pos: pos, Err: err}
}
