package ps

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

var resourceExt = map[string]string{
	"font":     ".pfa",
	"file":     ".ps",
	"procset":  ".ps",
	"pattern":  ".pat",
	"form":     ".frm",
	"encoding": ".enc",
}

// kind of the resources delimited by their own comments.
var resourceKinds = map[string]string{
	"BeginFile:":    "file",
	"BeginProcSet:": "procset",
	"BeginFont:":    "font",
}

const unsafeChars = "!()$#*&\\|`'\"~{}[]<>?"

// ResourceName returns the name of the file holding the resource described
// by parts, the words following its type in a DSC comment.
func ResourceName(parts ...string) (string, error) {
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.Map(func(r rune) rune {
			if strings.ContainsRune(unsafeChars, r) {
				return -1
			}
			return r
		}, p))
	}
	name := b.String()
	if name != "" {
		name = filepath.Base(name)
	}
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("no file name for %q: %w", strings.Join(parts, " "), ErrResource)
	}
	return name, nil
}

type ExtractOptions struct {
	// Dir is where the resource files are written.
	Dir string
	// Merge appends every block of a resource to the same file, for
	// fonts written in several parts.
	Merge bool
}

// ExtractResources copies the document read from r to w with every
// resource moved to its own file in opts.Dir. Each resource is replaced
// by a %%IncludeResource: comment in the prolog. Resources whose file
// already exists are only referenced. It returns the names of the files
// written.
func ExtractResources(w io.Writer, r *Reader, opts ExtractOptions) ([]string, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	var (
		prolog bytes.Buffer
		body   bytes.Buffer
		output = &prolog
		saved  *bytes.Buffer
		res    *bytes.Buffer
		name   string
		extend bool
		inside bool
		seen   = make(map[string]bool)
		merge  = make(map[string]bool)
		files  []string
	)
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		var keyword, value string
		if bytes.HasPrefix(line, commentPrefix) {
			keyword, value = splitComment(trimLine(line))
		}
		switch {
		case isBeginResource(keyword):
			fields := strings.Fields(value)
			kind, ok := resourceKinds[keyword]
			if !ok {
				if len(fields) == 0 {
					return nil, fmt.Errorf("%q: %w", trimLine(line), ErrResource)
				}
				kind, fields = fields[0], fields[1:]
			}
			file, err := ResourceName(appendExt(fields, resourceExt[kind])...)
			if err != nil {
				return nil, err
			}
			saved, res, inside = output, nil, true
			switch {
			case !seen[file]:
				seen[file] = true
				fmt.Fprintf(&prolog, "%%%%IncludeResource: %s\n", strings.TrimSpace(kind+" "+strings.Join(fields, " ")))
				if _, err := os.Stat(filepath.Join(opts.Dir, file)); err == nil {
					output = nil
					break
				}
				res, name, extend = new(bytes.Buffer), file, false
				merge[file] = opts.Merge
				files = append(files, file)
				output = res
			case merge[file]:
				res, name, extend = new(bytes.Buffer), file, true
				output = res
			default:
				output = nil
			}
		case isEndResource(keyword) && inside:
			if res != nil {
				res.Write(line)
				if err := writeResource(filepath.Join(opts.Dir, name), res.Bytes(), extend); err != nil {
					return nil, err
				}
			}
			output, saved, res, inside = saved, nil, nil, false
			continue
		case keyword == "EndProlog" || keyword == "EndSetup" || keyword == "Page:":
			output = &body
		}
		if output != nil {
			output.Write(line)
		}
	}
	if _, err := prolog.WriteTo(w); err != nil {
		return nil, fmt.Errorf("write: %w", ErrIO)
	}
	if _, err := body.WriteTo(w); err != nil {
		return nil, fmt.Errorf("write: %w", ErrIO)
	}
	return files, nil
}

// IncludeResources copies the document read from r to w, replacing every
// %%IncludeResource: comment by the content of the resource file found in
// dir. Comments naming a missing resource are kept and reported to warn.
func IncludeResources(w io.Writer, r *Reader, dir string, warn io.Writer) error {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}
	out := bufio.NewWriter(w)
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if body, ok := includeResource(line, dir, warn); ok {
			line = body
		}
		if _, err := out.Write(line); err != nil {
			return fmt.Errorf("write: %w", ErrIO)
		}
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("flush: %w", ErrIO)
	}
	return nil
}

func includeResource(line []byte, dir string, warn io.Writer) ([]byte, bool) {
	if !bytes.HasPrefix(line, commentPrefix) {
		return nil, false
	}
	keyword, value := splitComment(trimLine(line))
	fields := strings.Fields(value)
	if keyword != "IncludeResource:" || len(fields) == 0 {
		return nil, false
	}
	name, err := ResourceName(fields[1:]...)
	if err != nil {
		fmt.Fprintf(warn, "%s\n", err)
		return nil, false
	}
	file := filepath.Join(dir, name)
	if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
		file += resourceExt[fields[0]]
	}
	body, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(warn, "resource `%s' not found\n", name)
		return nil, false
	}
	return body, true
}

func writeResource(file string, body []byte, extend bool) error {
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if extend {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	f, err := os.OpenFile(file, flag, 0o644)
	if err != nil {
		return fmt.Errorf("%s: %w", err, ErrIO)
	}
	if _, err := f.Write(body); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", err, ErrIO)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", err, ErrIO)
	}
	return nil
}

func appendExt(parts []string, ext string) []string {
	list := make([]string, 0, len(parts)+1)
	list = append(list, parts...)
	return append(list, ext)
}

func isBeginResource(keyword string) bool {
	switch keyword {
	case "BeginResource:", "BeginFont:", "BeginProcSet:":
		return true
	default:
		return false
	}
}

func isEndResource(keyword string) bool {
	switch keyword {
	case "EndResource", "EndFont", "EndProcSet":
		return true
	default:
		return false
	}
}
