package source

import (
	"errors"
	"testing"
)

func TestLoadStripsLeadingBOM(t *testing.T) {
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("= Title\ntext\n")...)
	f, err := Load("ch01.re", content)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", f.LineCount())
	}
	line, _ := f.Line(1)
	if line.Raw != "= Title" {
		t.Fatalf("expected BOM stripped from first line, got %q", line.Raw)
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	f, err := Load("ch01.re", []byte("= Title\r\ntext\r\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", f.LineCount())
	}
	line, _ := f.Line(2)
	if line.Raw != "text" {
		t.Fatalf("expected CR stripped, got %q", line.Raw)
	}
}

func TestLoadRejectsInvalidUTF8(t *testing.T) {
	_, err := Load("ch01.re", []byte{0xff, 0xfe, 0x00})
	if err == nil {
		t.Fatalf("expected an error for invalid UTF-8")
	}
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected errors.Is(err, ErrInvalidUTF8), got %v", err)
	}
}

func TestLoadPreservesTrailingWhitespaceInRawButNotText(t *testing.T) {
	f, err := Load("ch01.re", []byte("//list{  \n  line one  \n//}\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	line, ok := f.Line(2)
	if !ok {
		t.Fatalf("expected line 2 to exist")
	}
	if line.Raw != "  line one  " {
		t.Fatalf("expected raw line to preserve whitespace, got %q", line.Raw)
	}
	if line.Text != "  line one" {
		t.Fatalf("expected rstripped text, got %q", line.Text)
	}
}

func TestLoadNoTrailingNewlineDoesNotAddPhantomLine(t *testing.T) {
	f, err := Load("ch01.re", []byte("= Title\ntext"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if f.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", f.LineCount())
	}
}

func TestNewVirtualFileMatchesLoad(t *testing.T) {
	f := NewVirtualFile("inline.re", "= T\n@<b>{bold}\n")
	if f.LineCount() != 2 {
		t.Fatalf("expected 2 lines, got %d", f.LineCount())
	}
}

func TestCursorTracksZeroBasedColumnsOverMultibyteRunes(t *testing.T) {
	c := NewCursor("a あ b")
	if c.Column() != 0 {
		t.Fatalf("expected column 0 at start, got %d", c.Column())
	}
	c.Bump() // 'a'
	c.Bump() // ' '
	if c.Peek() != 'あ' {
		t.Fatalf("expected to peek the multibyte rune, got %q", c.Peek())
	}
	if c.Column() != 2 {
		t.Fatalf("expected column 2 before the multibyte rune, got %d", c.Column())
	}
	c.Bump()
	if c.Column() != 3 {
		t.Fatalf("expected column 3 after consuming one rune regardless of byte width, got %d", c.Column())
	}
}

func TestCursorMarkAndReset(t *testing.T) {
	c := NewCursor("@<b>{bold}")
	m := c.Mark()
	c.Bump()
	c.Bump()
	if c.Slice(m) != "@<" {
		t.Fatalf("expected slice since mark %q, got %q", "@<", c.Slice(m))
	}
	c.Reset(m)
	if c.Column() != 0 {
		t.Fatalf("expected reset to return to column 0, got %d", c.Column())
	}
}

func TestCursorAtAnchorsColumnToLineOffset(t *testing.T) {
	// Mirrors scanning a block's parameters, which start partway through
	// the opening line (after "//name[").
	c := NewCursorAt("C-\\]}", 20)
	if c.Column() != 20 {
		t.Fatalf("expected anchored column 20, got %d", c.Column())
	}
	for i := 0; i < 4; i++ {
		c.Bump() // 'C', '-', '\\', ']'
	}
	if c.Peek() != '}' {
		t.Fatalf("expected the next rune to be the closing '}', got %q", c.Peek())
	}
	if c.Column() != 24 {
		t.Fatalf("expected the closing '}' at column 24, got %d", c.Column())
	}
}
