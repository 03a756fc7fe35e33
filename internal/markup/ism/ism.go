// Package ism implements the Inline State Machine: the per-character
// recogniser for "@<name>{content}" annotations within one line.
package ism

import (
	"fmt"
	"strings"
	"unicode"

	"revlint/internal/diag"
	"revlint/internal/markup"
)

// State names the ISM's states.
type State int

const (
	None State = iota
	At
	InTag
	EndTag
	InContent
	InContentBS
	InContentAt
)

// Outcome classifies what Feed produced.
type Outcome int

const (
	// Continue means the character was consumed; no output yet.
	Continue Outcome = iota
	// Emitted means one Inline annotation is complete.
	Emitted
	// Passthrough means the text is not part of an annotation and should
	// be re-emitted to the surrounding context verbatim.
	Passthrough
)

// Result is the outcome of one Feed call.
type Result struct {
	Outcome Outcome
	Inline  markup.Inline
	Text    string
}

// Machine recognises one @<name>{content} annotation at a time within a
// single line. It is reset implicitly whenever an annotation completes;
// call New per line (or reuse via Reset).
type Machine struct {
	state State

	name    strings.Builder
	content strings.Builder
	// buffered holds a character that could not be classified during an
	// END_TAG recovery and must be combined with the next character fed
	// while in state None, mirroring the source system's "unprocessed"
	// carry-over.
	buffered string

	lineNumber int
	sourceName string
	reporter   diag.Reporter
}

// New creates a Machine for one line of sourceName, reporting diagnostics
// through r tagged with lineNumber.
func New(r diag.Reporter, sourceName string, lineNumber int) *Machine {
	return &Machine{reporter: r, sourceName: sourceName, lineNumber: lineNumber}
}

// Reset returns the machine to its initial state for reuse on a new line.
func (m *Machine) Reset(sourceName string, lineNumber int) {
	m.state = None
	m.name.Reset()
	m.content.Reset()
	m.buffered = ""
	m.sourceName = sourceName
	m.lineNumber = lineNumber
}

// State returns the machine's current state, used by callers (the Block
// State Machine) that need to know whether an annotation is mid-parse.
func (m *Machine) State() State {
	return m.state
}

// FlushBuffered returns and clears any recovery-buffered text (see the
// buffered field): the Block State Machine collects this into the
// enclosing parameter when a ']' closes that parameter.
func (m *Machine) FlushBuffered() string {
	text := m.buffered
	m.buffered = ""
	return text
}

// AppendLiteral injects a character directly into whichever buffer the
// current state is accumulating, without going through a state
// transition. The Block State Machine uses this for a backslash-escaped
// ']' inside a parameter: spec's parameter grammar consumes the
// backslash itself, so the ']' must land in the annotation's buffer as
// plain content rather than being fed through Feed's normal transition
// table (which would see a bare ']' and treat it as content too, but
// Feed is reserved for characters the caller hasn't already classified).
func (m *Machine) AppendLiteral(r rune) {
	switch m.state {
	case InTag:
		m.name.WriteRune(r)
	case InContentAt:
		m.content.WriteByte('@')
		m.content.WriteRune(r)
		m.state = InContent
	case InContent, InContentBS:
		m.content.WriteRune(r)
		m.state = InContent
	}
}

// ForceCloseOnBracket is called by the Block State Machine when a ']'
// appears while an annotation is mid-parse (a parameter boundary forces
// the annotation closed early). It forces the character into whatever
// buffer is live and synthesises an Inline from the partial result,
// resetting to None. ok is false if the machine was not mid-parse.
func (m *Machine) ForceCloseOnBracket(column int) (markup.Inline, bool) {
	switch m.state {
	case InTag:
		m.name.WriteByte(']')
		inline := markup.Inline{Name: m.name.String(), LineNumber: m.lineNumber, Column: column}
		m.resetBuffers()
		return inline, true
	case EndTag:
		inline := markup.Inline{Name: m.name.String(), LineNumber: m.lineNumber, Column: column}
		m.resetBuffers()
		return inline, true
	case InContentAt:
		m.content.WriteByte('@')
		fallthrough
	case InContent, InContentBS:
		m.content.WriteByte(']')
		inline := markup.Inline{Name: m.name.String(), RawContent: m.content.String(), LineNumber: m.lineNumber, Column: column}
		m.resetBuffers()
		return inline, true
	default:
		return markup.Inline{}, false
	}
}

func (m *Machine) resetBuffers() {
	m.state = None
	m.name.Reset()
	m.content.Reset()
	m.buffered = ""
}

func isAlnum(r rune) bool {
	return unicode.IsLetter(r) && r <= unicode.MaxASCII || unicode.IsDigit(r) && r <= unicode.MaxASCII
}

// Feed processes one character at the given 0-based column.
func (m *Machine) Feed(ch rune, column int) Result {
	switch m.state {
	case None:
		if ch == '@' {
			m.state = At
			return Result{Outcome: Continue}
		}
		if m.buffered != "" {
			text := m.buffered + string(ch)
			m.buffered = ""
			return Result{Outcome: Passthrough, Text: text}
		}
		return Result{Outcome: Passthrough, Text: string(ch)}

	case At:
		switch ch {
		case '<':
			m.state = InTag
			m.name.Reset()
			return Result{Outcome: Continue}
		case '@':
			return Result{Outcome: Passthrough, Text: "@"}
		default:
			m.state = None
			return Result{Outcome: Passthrough, Text: "@" + string(ch)}
		}

	case InTag:
		if ch == '>' {
			name := m.name.String()
			if name == "" {
				m.reportError(column, "empty inline name")
			} else {
				allAlnum := true
				hasUpper := false
				for _, r := range name {
					if !isAlnum(r) {
						allAlnum = false
					}
					if unicode.IsUpper(r) {
						hasUpper = true
					}
				}
				if !allAlnum {
					m.reportError(column, "inline name \""+name+"\" has non-alphanumeric characters")
				}
				if hasUpper {
					m.reportInfo(column, "inline name \""+name+"\" has uppercase characters")
				}
			}
			m.state = EndTag
			return Result{Outcome: Continue}
		}
		m.name.WriteRune(ch)
		return Result{Outcome: Continue}

	case EndTag:
		if ch == '{' {
			m.state = InContent
			m.content.Reset()
			return Result{Outcome: Continue}
		}
		m.reportError(column, fmt.Sprintf("expected '{' at column %d", column))
		inline := markup.Inline{Name: m.name.String(), RawContent: "", LineNumber: m.lineNumber, Column: column}
		m.name.Reset()
		m.content.Reset()
		if ch == '@' {
			m.state = At
		} else {
			m.state = None
			m.buffered = string(ch)
		}
		return Result{Outcome: Emitted, Inline: inline}

	case InContent:
		switch ch {
		case '}':
			inline := markup.Inline{Name: m.name.String(), RawContent: m.content.String(), LineNumber: m.lineNumber, Column: column}
			m.state = None
			m.name.Reset()
			m.content.Reset()
			return Result{Outcome: Emitted, Inline: inline}
		case '@':
			m.state = InContentAt
			return Result{Outcome: Continue}
		case '\\':
			m.state = InContentBS
			return Result{Outcome: Continue}
		default:
			m.content.WriteRune(ch)
			return Result{Outcome: Continue}
		}

	case InContentBS:
		if ch == '}' || ch == '\\' {
			m.content.WriteRune(ch)
			m.state = InContent
			return Result{Outcome: Continue}
		}
		m.reportInfo(column, "ineffective escape")
		m.content.WriteByte('\\')
		m.content.WriteRune(ch)
		m.state = InContent
		return Result{Outcome: Continue}

	case InContentAt:
		switch ch {
		case '}':
			m.content.WriteByte('@')
			inline := markup.Inline{Name: m.name.String(), RawContent: m.content.String(), LineNumber: m.lineNumber, Column: column}
			m.state = None
			m.name.Reset()
			m.content.Reset()
			return Result{Outcome: Emitted, Inline: inline}
		case '<':
			m.reportInfo(column, "possible nested inline annotation")
			m.content.WriteString("@<")
			m.state = InContent
			return Result{Outcome: Continue}
		case '@':
			m.content.WriteByte('@')
			return Result{Outcome: Continue}
		default:
			m.content.WriteByte('@')
			m.content.WriteRune(ch)
			m.state = InContent
			return Result{Outcome: Continue}
		}
	}

	panic("ism: unreachable state")
}

// End handles end-of-line. It returns a Result whose Outcome is Passthrough
// if trailing content must still be emitted, or Continue if there is
// nothing left.
func (m *Machine) End() Result {
	switch m.state {
	case None:
		if m.buffered != "" {
			text := m.buffered
			m.buffered = ""
			return Result{Outcome: Passthrough, Text: text}
		}
		return Result{Outcome: Continue}
	case At:
		m.state = None
		return Result{Outcome: Passthrough, Text: "@"}
	default:
		m.reportError(0, "invalid state at end of line")
		m.state = None
		return Result{Outcome: Continue}
	}
}

func (m *Machine) reportError(_ int, description string) {
	if m.reporter == nil {
		return
	}
	m.reporter.ReportError(m.sourceName, m.lineNumber, description, "")
}

func (m *Machine) reportInfo(column int, description string) {
	if m.reporter == nil {
		return
	}
	m.reporter.ReportInfo(m.sourceName, m.lineNumber, description, "")
}
