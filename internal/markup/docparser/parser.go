// Package docparser implements the Document Parser: the component that
// drives one Block State Machine (and, through it, the Inline State
// Machine) over a whole source document, recognises section headings,
// comments, and manual diagnostic directives outside of block bodies, and
// runs the pluggable semantic checkers once constructs are recognised.
package docparser

import (
	"fmt"
	"strings"
	"unicode"

	"revlint/internal/diag"
	"revlint/internal/markup"
	"revlint/internal/markup/bsm"
	"revlint/internal/markup/ism"
	"revlint/internal/source"
	"revlint/internal/trace"
)

// ProjectImageLookup is the non-owning handle the Document Parser holds on
// the Project Model for the "image" block's first-line check (spec's
// "one-way borrowing": the parser depends on the project, never the other
// way around).
type ProjectImageLookup interface {
	// ResolveImage reports whether an image with imageID exists for
	// parentDocument, and whether it was found only as a prefixed variant
	// (<parent_id>-<id>) rather than directly.
	ResolveImage(parentDocument, imageID string) (found, prefixedOnly bool)
}

// Document is everything one Parse call recognised in a source document.
type Document struct {
	SourceName string
	Bookmarks  []markup.Bookmark
	Blocks     []markup.Block
	Inlines    []markup.Inline
}

// Parser owns one Block State Machine and drives it, plus a fresh Inline
// State Machine per ordinary line, over one document at a time. It is
// reusable across documents: each Parse call resets its per-document state.
type Parser struct {
	reporter diag.Reporter
	project  ProjectImageLookup
	tracer   trace.Tracer

	disabledChecks map[string]bool

	sourceName         string
	bsm                *bsm.Machine
	bookmarks          []markup.Bookmark
	blocks             []markup.Block
	inlines            []markup.Inline
	chapIndex          int
	sawBookmark        bool
	openedBlockChecked bool

	firstLineCheckers map[string]FirstLineChecker
	postFileCheckers  []PostFileChecker
}

// New creates a Parser reporting through r. project may be nil; the
// "image" first-line check then always passes (there is nothing to check
// a single file against).
func New(r diag.Reporter, project ProjectImageLookup) *Parser {
	return &Parser{
		reporter: r,
		project:  project,
		firstLineCheckers: map[string]FirstLineChecker{
			"image": imageBlockChecker{},
		},
		postFileCheckers: []PostFileChecker{
			listRefChecker{},
			imageRefChecker{},
		},
	}
}

// SetTracer attaches a construct-level tracer for --trace output; nil
// (the default) disables tracing entirely.
func (p *Parser) SetTracer(t trace.Tracer) {
	p.tracer = t
}

// SetDisabledChecks skips the named checks ("image", "schema", "list-ref",
// "image-ref") — lintcfg's .revlint.toml "checks.disable" list.
func (p *Parser) SetDisabledChecks(names map[string]bool) {
	p.disabledChecks = names
}

func (p *Parser) checkDisabled(name string) bool {
	return p.disabledChecks != nil && p.disabledChecks[name]
}

// Parse processes one document's lines in order. An error is returned only
// if parsing aborted on a Problem at or above the Reporter's abort
// threshold; the Document returned in that case is the zero value, since
// spec's abort semantics treat the document as not usable.
func (p *Parser) Parse(sourceName string, file *source.File) (doc Document, err error) {
	defer diag.Recover(&err)

	p.sourceName = sourceName
	p.bsm = bsm.New(p.reporter, sourceName)
	p.bookmarks = nil
	p.blocks = nil
	p.inlines = nil
	p.chapIndex = 0
	p.sawBookmark = false
	p.openedBlockChecked = false

	for _, line := range file.Lines {
		p.parseLine(line.Number, line.Raw, line.Text)
	}

	if opened, ok := p.bsm.OpenedBlock(); ok {
		p.reportError(opened.LineNumber, "", fmt.Sprintf("block %q not ended", opened.Name))
	}

	for _, checker := range p.postFileCheckers {
		if p.checkDisabled(checker.Name()) {
			continue
		}
		checker.CheckPostFile(p)
	}

	return Document{
		SourceName: sourceName,
		Bookmarks:  append([]markup.Bookmark(nil), p.bookmarks...),
		Blocks:     append([]markup.Block(nil), p.blocks...),
		Inlines:    append([]markup.Inline(nil), p.inlines...),
	}, nil
}

func (p *Parser) parseLine(lineNumber int, raw, text string) {
	if p.bsm.InBody() {
		p.parseBodyLine(lineNumber, raw, text)
		return
	}
	p.parseTopLevelLine(lineNumber, raw, text)
}

func (p *Parser) parseBodyLine(lineNumber int, raw, text string) {
	if strings.HasPrefix(text, "#@#") {
		p.reportInfo(lineNumber, raw, fmt.Sprintf("comment retained in block %q", p.bsm.CurrentBlockName()))
	} else if strings.HasPrefix(text, "#@") {
		if m := manualDirectivePattern.FindStringSubmatch(text); m != nil {
			p.reportWarning(lineNumber, raw, fmt.Sprintf("manual directive retained in block %q: %q", p.bsm.CurrentBlockName(), m[2]))
		}
	}

	if hm := matchHeading(text); hm != nil {
		if hm.Column == "" && hm.Spacing == "" && strings.HasPrefix(hm.Title, "=") {
			p.reportWarning(lineNumber, raw, "heading-like line in block, probably not a heading")
		} else {
			p.reportWarning(lineNumber, raw, "heading in block")
		}
	}

	res := p.bsm.ParseLine(lineNumber, raw, text)
	p.handleBSMResult(lineNumber, raw, text, res)
}

func (p *Parser) parseTopLevelLine(lineNumber int, raw, text string) {
	if hm := matchHeading(text); hm != nil {
		p.handleChap(lineNumber, hm)
		return
	}

	if strings.HasPrefix(text, "#@#") {
		return
	}
	if strings.HasPrefix(text, "#@") {
		if m := manualDirectivePattern.FindStringSubmatch(text); m != nil {
			if m[1] == "warn" {
				p.reportWarning(lineNumber, raw, fmt.Sprintf("manual warning: %q", m[2]))
			} else {
				p.reportError(lineNumber, raw, fmt.Sprintf("unknown manual directive type %q", m[1]))
			}
			return
		}
		// "#@" without a well-formed "(type)(message)" tail is not a
		// directive at all; fall through and treat the line as ordinary
		// text.
	}

	if msg, ok := listBulletWarning(text); ok {
		p.reportWarning(lineNumber, raw, msg)
	}

	if !p.sawBookmark {
		p.reportInfo(lineNumber, raw, "no bookmark found yet")
	}

	res := p.bsm.ParseLine(lineNumber, raw, text)
	p.handleBSMResult(lineNumber, raw, text, res)
}

func (p *Parser) handleBSMResult(lineNumber int, raw, text string, res bsm.Result) {
	switch res.Outcome {
	case bsm.Complete:
		block := res.Block
		p.blocks = append(p.blocks, block)
		if p.tracer != nil {
			p.tracer.Emit(p.sourceName, block.LineNumber, "block", block.Name)
		}
		for _, inline := range block.Inlines {
			p.inlines = append(p.inlines, inline)
			p.checkInlineKnown(inline)
		}
		if !block.HasBody {
			p.runFirstLine(block)
		}
		p.runLastLine(block)
		p.openedBlockChecked = false

	case bsm.Continue:
		if p.bsm.InBody() && !p.openedBlockChecked {
			if snapshot, ok := p.bsm.OpenedBlock(); ok {
				p.runFirstLine(snapshot)
			}
			p.openedBlockChecked = true
		}

	case bsm.Passthrough:
		p.scanInlines(lineNumber, text)
	}
}

func (p *Parser) scanInlines(lineNumber int, text string) {
	machine := ism.New(p.reporter, p.sourceName, lineNumber)
	for i, ch := range []rune(text) {
		res := machine.Feed(ch, i)
		if res.Outcome == ism.Emitted {
			p.recordInline(res.Inline)
		}
	}
	if res := machine.End(); res.Outcome == ism.Emitted {
		p.recordInline(res.Inline)
	}
}

func (p *Parser) recordInline(inline markup.Inline) {
	p.inlines = append(p.inlines, inline)
	p.checkInlineKnown(inline)
	if p.tracer != nil {
		p.tracer.Emit(p.sourceName, inline.LineNumber, "inline", inline.Name)
	}
}

func (p *Parser) checkInlineKnown(inline markup.Inline) {
	if !KnownInlines[inline.Name] {
		p.reportError(inline.LineNumber, "", fmt.Sprintf("undefined inline %q", inline.Name))
	}
}

func (p *Parser) runFirstLine(block markup.Block) {
	if checker, ok := p.firstLineCheckers[block.Name]; ok {
		if !p.checkDisabled(checker.Name()) {
			checker.CheckFirstLine(p, block)
		}
		return
	}
	if _, known := KnownBlocks[block.Name]; !known {
		p.reportError(block.LineNumber, "", fmt.Sprintf("unknown block %q", block.Name))
	}
}

func (p *Parser) runLastLine(block markup.Block) {
	checker := schemaChecker{}
	if p.checkDisabled(checker.Name()) {
		return
	}
	checker.CheckLastLine(p, block)
}

func (p *Parser) handleChap(lineNumber int, hm *headingMatch) {
	bookmark := markup.Bookmark{
		Title:          strings.TrimSpace(hm.Title),
		Level:          hm.Level,
		Spacing:        hm.Spacing,
		IsColumn:       hm.Column != "",
		SourceDocument: p.sourceName,
	}
	if hm.Level == 1 {
		bookmark.HasChapterIndex = true
		bookmark.ChapterIndex = p.chapIndex
		p.chapIndex++
	}
	p.bookmarks = append(p.bookmarks, bookmark)
	p.sawBookmark = true
	if p.tracer != nil {
		p.tracer.Emit(p.sourceName, lineNumber, "bookmark", bookmark.Title)
	}
}

func (p *Parser) reportError(line int, context, description string) {
	if p.reporter == nil {
		return
	}
	p.reporter.ReportError(p.sourceName, line, description, context)
}

func (p *Parser) reportWarning(line int, context, description string) {
	if p.reporter == nil {
		return
	}
	p.reporter.ReportWarning(p.sourceName, line, description, context)
}

func (p *Parser) reportInfo(line int, context, description string) {
	if p.reporter == nil {
		return
	}
	p.reporter.ReportInfo(p.sourceName, line, description, context)
}

func (p *Parser) hasBlock(id string, names ...string) bool {
	for _, block := range p.blocks {
		if len(block.Params) == 0 || block.Params[0] != id {
			continue
		}
		for _, name := range names {
			if block.Name == name {
				return true
			}
		}
	}
	return false
}

// listBulletWarning reports the list-marker heuristic: a "*" not followed
// by whitespace, or a digit directly followed by "." and then by a
// non-whitespace character, usually signals an author forgot the space a
// list marker requires.
func listBulletWarning(text string) (string, bool) {
	runes := []rune(text)
	if len(runes) >= 2 && runes[0] == '*' && !unicode.IsSpace(runes[1]) {
		return "unordered list marker \"*\" without a following space", true
	}
	if len(runes) >= 3 && unicode.IsDigit(runes[0]) && runes[1] == '.' && !unicode.IsSpace(runes[2]) {
		return fmt.Sprintf("ordered list marker %q without a following space", string(runes[:2])), true
	}
	return "", false
}
