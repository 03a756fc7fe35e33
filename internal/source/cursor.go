package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Cursor walks one Line's Text rune by rune, tracking the character
// position the way spec's Inline/Block State Machines require it: a
// 0-based index of the rune within the *full physical line*, not within
// whatever substring is currently being scanned. A Block's bracketed
// parameters are scanned by re-anchoring a Cursor partway through the
// line with NewCursorAt, so an inline annotation nested inside a
// parameter reports the same column a reader would count from column
// zero of the raw line.
type Cursor struct {
	runes []rune
	off   uint32
	base  uint32
}

// NewCursor creates a cursor positioned before the first rune of text,
// with Column() counted from zero at the start of text.
func NewCursor(text string) Cursor {
	return Cursor{runes: []rune(text)}
}

// NewCursorAt creates a cursor over text whose first rune is at the given
// 0-based position within some larger line — used when text is a slice
// of a line starting partway through it (e.g. the content following a
// block's "//" opening marker).
func NewCursorAt(text string, base int) Cursor {
	b, err := safecast.Conv[uint32](base)
	if err != nil {
		panic(fmt.Errorf("source: cursor base overflow: %w", err))
	}
	return Cursor{runes: []rune(text), base: b}
}

// Mark is a saved cursor position, for resetting after a failed lookahead.
type Mark uint32

// EOL reports whether the cursor has consumed the whole line.
func (c *Cursor) EOL() bool {
	return c.off >= c.len()
}

func (c *Cursor) len() uint32 {
	n, err := safecast.Conv[uint32](len(c.runes))
	if err != nil {
		panic(fmt.Errorf("source: line length overflow: %w", err))
	}
	return n
}

// Column returns the 0-based position, within the full line, of the rune
// the cursor is about to read (or would have read, at end of line: one
// past the last position).
func (c *Cursor) Column() int {
	return int(c.base) + int(c.off)
}

// Peek returns the current rune without consuming it, or 0 at end of line.
func (c *Cursor) Peek() rune {
	if c.EOL() {
		return 0
	}
	return c.runes[c.off]
}

// Bump consumes and returns the current rune, or 0 at end of line.
func (c *Cursor) Bump() rune {
	if c.EOL() {
		return 0
	}
	r := c.runes[c.off]
	c.off++
	return r
}

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.off)
}

// Reset rewinds the cursor to a previously saved Mark.
func (c *Cursor) Reset(m Mark) {
	c.off = uint32(m)
}

// Slice returns the runes consumed since m, as a string.
func (c *Cursor) Slice(m Mark) string {
	return string(c.runes[m:c.off])
}

// Rest returns the remainder of the line, unconsumed.
func (c *Cursor) Rest() string {
	return string(c.runes[c.off:])
}
