// Package source owns the content of one markup document: BOM/CRLF
// normalization on load and the line-indexed view the Document Parser
// streams over.
package source

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"
)

// Line is one line of a File. Raw is the line content with its terminator
// stripped but trailing whitespace preserved — what "//}" body collection
// reproduces byte for byte. Text is Raw with trailing whitespace stripped,
// the form every recognizer in the Block/Inline State Machines matches
// against.
type Line struct {
	Number int // 1-based
	Raw    string
	Text   string
}

// File is a loaded, decoded source document.
type File struct {
	Name  string
	Lines []Line
}

// ErrInvalidUTF8 is returned by Load when the document is not valid UTF-8.
// Per the encoding rule, this is fatal: the parser does not attempt to
// continue on a corrupt stream.
var ErrInvalidUTF8 = fmt.Errorf("source: invalid UTF-8")

// LoadFile reads a document from disk and decodes it.
func LoadFile(path string) (*File, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(path, content)
}

// Load decodes raw bytes into a File: it strips a leading byte-order mark,
// normalizes CRLF line endings to LF, and splits into Lines. It rejects
// content that is not valid UTF-8.
func Load(name string, content []byte) (*File, error) {
	content = stripBOM(content)
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("%s: %w", name, ErrInvalidUTF8)
	}

	f := &File{Name: name}
	text := string(content)
	if text == "" {
		return f, nil
	}

	// A trailing newline does not introduce a phantom empty final line.
	text = strings.TrimSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\r")

	raws := strings.Split(text, "\n")
	f.Lines = make([]Line, 0, len(raws))
	for i, raw := range raws {
		raw = strings.TrimSuffix(raw, "\r")
		f.Lines = append(f.Lines, Line{
			Number: i + 1,
			Raw:    raw,
			Text:   strings.TrimRight(raw, " \t\r\n\v\f"),
		})
	}
	return f, nil
}

// NewVirtualFile builds a File directly from a string, for tests and for
// callers (like the watch loop) that already hold decoded content in
// memory. content is assumed already BOM-free and UTF-8 valid.
func NewVirtualFile(name, content string) *File {
	f, err := Load(name, []byte(content))
	if err != nil {
		// Test fixtures and in-memory content are expected to be valid;
		// a caller that needs to exercise the invalid-UTF-8 path should
		// call Load directly and inspect the error.
		panic(err)
	}
	return f
}

func stripBOM(content []byte) []byte {
	const (
		b0 = 0xEF
		b1 = 0xBB
		b2 = 0xBF
	)
	if len(content) >= 3 && content[0] == b0 && content[1] == b1 && content[2] == b2 {
		return content[3:]
	}
	return content
}

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int {
	return len(f.Lines)
}

// Line returns the line at the given 1-based number, or the zero Line and
// false if out of range.
func (f *File) Line(number int) (Line, bool) {
	if number < 1 || number > len(f.Lines) {
		return Line{}, false
	}
	return f.Lines[number-1], true
}
