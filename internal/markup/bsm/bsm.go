// Package bsm implements the Block State Machine: the per-line recogniser
// for "//name[p1][p2]{...//}" constructs, driving an embedded Inline
// State Machine over each bracketed parameter.
package bsm

import (
	"strings"

	"revlint/internal/diag"
	"revlint/internal/markup"
	"revlint/internal/markup/ism"
	"revlint/internal/source"
)

// lineState is the machine's between-lines state.
type lineState int

const (
	lineNone lineState = iota
	lineInBlock
)

// paramState is the opening-line parameter sub-state, live only for the
// duration of one ParseLine call that starts a block.
type paramState int

const (
	parseName paramState = iota
	inParam
	inParamBS
	endParam
	inBlockBody
)

// Outcome classifies what ParseLine produced.
type Outcome int

const (
	// Continue means the line was consumed into an in-progress block
	// (either its opening line, or a body line) with no Block to emit yet.
	Continue Outcome = iota
	// Complete means a Block finished on this line.
	Complete
	// Passthrough means the line is not a block construct at all.
	Passthrough
)

// Result is the outcome of one ParseLine call.
type Result struct {
	Outcome Outcome
	Block   markup.Block
	Text    string
}

// Machine recognises block constructs across the lines of one document.
type Machine struct {
	state      lineState
	name       string
	params     []string
	bodyLines  []string
	inlines    []markup.Inline
	startLine  int
	sourceName string
	reporter   diag.Reporter
	ism        *ism.Machine
}

// New creates a Machine for one document.
func New(r diag.Reporter, sourceName string) *Machine {
	return &Machine{
		state:      lineNone,
		sourceName: sourceName,
		reporter:   r,
		ism:        ism.New(r, sourceName, 0),
	}
}

// InBody reports whether the machine is currently inside an open block
// body, awaiting "//}".
func (m *Machine) InBody() bool {
	return m.state == lineInBlock
}

// CurrentBlockName returns the name of the block currently open, or "" if
// none is open.
func (m *Machine) CurrentBlockName() string {
	if m.state != lineInBlock {
		return ""
	}
	return m.name
}

// OpenedBlock returns a snapshot of the block currently open (name and
// parameters captured from its opening line; body not yet read), for
// first-line checkers that must run before a body-bearing block's "//}"
// is seen. ok is false if no block is open.
func (m *Machine) OpenedBlock() (markup.Block, bool) {
	if m.state != lineInBlock {
		return markup.Block{}, false
	}
	return markup.Block{
		Name:       m.name,
		Params:     append([]string(nil), m.params...),
		HasBody:    true,
		LineNumber: m.startLine,
		Inlines:    append([]markup.Inline(nil), m.inlines...),
	}, true
}

// ParseLine processes one line. raw is the verbatim line (used for body
// storage and passthrough); text is its rstripped form (used for
// recognition), matching spec's "the parser operates on rstripped lines
// but preserves them verbatim in body_lines".
func (m *Machine) ParseLine(lineNumber int, raw, text string) Result {
	isEnd := strings.HasPrefix(text, "//}")
	isBegin := !isEnd && strings.HasPrefix(text, "//")

	switch m.state {
	case lineNone:
		if isEnd {
			m.reportError(lineNumber, raw, "invalid block end: no block is open")
			return Result{Outcome: Passthrough, Text: raw}
		}
		if isBegin {
			content := strings.TrimPrefix(text, "//")
			block, complete := m.parseBlockStart(lineNumber, raw, content)
			if complete {
				result := *block
				m.resetBlock()
				return Result{Outcome: Complete, Block: result}
			}
			m.startLine = lineNumber
			return Result{Outcome: Continue}
		}
		return Result{Outcome: Passthrough, Text: raw}

	case lineInBlock:
		if isEnd {
			junk := strings.TrimPrefix(text, "//}")
			if junk != "" {
				m.reportError(lineNumber, raw, "junk after block end")
			}
			block := markup.Block{
				Name:       m.name,
				Params:     append([]string(nil), m.params...),
				HasBody:    true,
				BodyLines:  append([]string(nil), m.bodyLines...),
				LineNumber: m.startLine,
				Inlines:    append([]markup.Inline(nil), m.inlines...),
			}
			m.resetBlock()
			return Result{Outcome: Complete, Block: block}
		}
		m.bodyLines = append(m.bodyLines, raw)
		return Result{Outcome: Continue}
	}

	panic("bsm: unreachable state")
}

// parseBlockStart parses the portion of the opening line after "//". It
// returns a finished Block and true if the block closed without a body
// (parameterless or parametric, no "{"); otherwise it leaves the machine
// primed for body lines and returns (nil, false).
func (m *Machine) parseBlockStart(lineNumber int, raw, content string) (*markup.Block, bool) {
	m.name = ""
	m.params = nil
	m.bodyLines = nil
	m.inlines = nil
	m.ism.Reset(m.sourceName, lineNumber)

	var nameBuf strings.Builder
	var paramBuf strings.Builder
	state := parseName

	finishName := func() {
		name := nameBuf.String()
		if name == "" {
			m.reportError(lineNumber, raw, "empty block name")
		} else {
			allAlnum, hasUpper := true, false
			for _, r := range name {
				if !isAlnum(r) {
					allAlnum = false
				}
				if isUpper(r) {
					hasUpper = true
				}
			}
			if !allAlnum {
				m.reportError(lineNumber, raw, "block name \""+name+"\" contains non-alphanumeric characters")
			}
			if hasUpper {
				m.reportInfo(lineNumber, raw, "block name \""+name+"\" contains uppercase characters")
			}
		}
		m.name = name
	}

	cur := source.NewCursorAt(content, 2) // content starts right after "//"
	for !cur.EOL() {
		column := cur.Column()
		ch := cur.Bump()

		switch state {
		case parseName:
			switch ch {
			case '[':
				finishName()
				state = inParam
			case ']':
				m.reportError(lineNumber, raw, "invalid param end")
				state = endParam
			case '{':
				finishName()
				state = inBlockBody
			default:
				nameBuf.WriteRune(ch)
			}

		case inParam:
			if ch == ']' {
				if m.ism.State() != ism.None {
					m.reportError(lineNumber, raw, "inline not finished while ']' found")
					if inline, ok := m.ism.ForceCloseOnBracket(column); ok {
						m.inlines = append(m.inlines, inline)
					}
					// The ']' forced the annotation closed; it is not
					// itself the parameter's closing bracket, so scanning
					// continues within the same parameter.
					continue
				}
				if leftover := m.ism.FlushBuffered(); leftover != "" {
					paramBuf.WriteString(leftover)
				}
				m.params = append(m.params, paramBuf.String())
				paramBuf.Reset()
				m.ism.Reset(m.sourceName, lineNumber)
				state = endParam
				continue
			}
			if ch == '\\' {
				state = inParamBS
				continue
			}
			res := m.ism.Feed(ch, column)
			switch res.Outcome {
			case ism.Continue:
			case ism.Emitted:
				m.inlines = append(m.inlines, res.Inline)
			case ism.Passthrough:
				paramBuf.WriteString(res.Text)
			}

		case inParamBS:
			if ch == ']' {
				if m.ism.State() != ism.None {
					m.ism.AppendLiteral(']')
				} else {
					paramBuf.WriteRune(']')
				}
				state = inParam
				continue
			}
			collect := func(res ism.Result) {
				switch res.Outcome {
				case ism.Emitted:
					m.inlines = append(m.inlines, res.Inline)
				case ism.Passthrough:
					paramBuf.WriteString(res.Text)
				}
			}
			collect(m.ism.Feed('\\', column-1))
			collect(m.ism.Feed(ch, column))
			state = inParam

		case endParam:
			switch ch {
			case '[':
				m.ism.Reset(m.sourceName, lineNumber)
				state = inParam
			case '{':
				state = inBlockBody
			default:
				m.reportError(lineNumber, raw, "junk after parameter")
			}

		case inBlockBody:
			m.reportError(lineNumber, raw, "junk after block body open")
		}
	}

	if m.ism.State() != ism.None {
		m.reportError(lineNumber, raw, "inline not finished")
	}

	switch state {
	case parseName:
		finishName()
		return &markup.Block{Name: m.name, Params: nil, HasBody: false, LineNumber: lineNumber, Inlines: m.inlines}, true
	case endParam:
		return &markup.Block{Name: m.name, Params: append([]string(nil), m.params...), HasBody: false, LineNumber: lineNumber, Inlines: m.inlines}, true
	case inBlockBody:
		m.state = lineInBlock
		return nil, false
	default:
		// inParam/inParamBS at end of line: the opening line ended mid
		// parameter. Treat as an open body so the next lines are
		// collected rather than lost, and report the unterminated
		// parameter.
		m.reportError(lineNumber, raw, "block parameter not closed")
		m.state = lineInBlock
		return nil, false
	}
}

func (m *Machine) resetBlock() {
	m.state = lineNone
	m.name = ""
	m.params = nil
	m.bodyLines = nil
	m.inlines = nil
	m.startLine = 0
}

func (m *Machine) reportError(line int, context, description string) {
	if m.reporter == nil {
		return
	}
	m.reporter.ReportError(m.sourceName, line, description, context)
}

func (m *Machine) reportInfo(line int, context, description string) {
	if m.reporter == nil {
		return
	}
	m.reporter.ReportInfo(m.sourceName, line, description, context)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func isUpper(r rune) bool {
	return r >= 'A' && r <= 'Z'
}
