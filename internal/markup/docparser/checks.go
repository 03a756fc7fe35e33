package docparser

import (
	"fmt"

	"revlint/internal/markup"
)

// imageBlockChecker is the "image" block's first-line check: its first
// parameter must resolve to a ProjectImage under the Project Model.
type imageBlockChecker struct{}

func (imageBlockChecker) Name() string { return "image" }

func (imageBlockChecker) CheckFirstLine(p *Parser, block markup.Block) bool {
	if p.project == nil || len(block.Params) == 0 {
		return true
	}
	id := block.Params[0]
	found, prefixedOnly := p.project.ResolveImage(p.sourceName, id)
	switch {
	case found && !prefixedOnly:
		return true
	case prefixedOnly:
		p.reportWarning(block.LineNumber, "", fmt.Sprintf("image %q resolves only via a parent-prefixed filename", id))
		return true
	default:
		p.reportError(block.LineNumber, "", fmt.Sprintf("image %q not found under the project image directory", id))
		return false
	}
}

// schemaChecker is the generic last-line parameter-count check for every
// name in KnownBlocks.
type schemaChecker struct{}

func (schemaChecker) Name() string { return "schema" }

func (schemaChecker) CheckLastLine(p *Parser, block markup.Block) bool {
	want, known := KnownBlocks[block.Name]
	if !known {
		return true
	}
	if len(block.Params) != want {
		p.reportWarning(block.LineNumber, "", fmt.Sprintf("block %q expects %d parameter(s), got %d", block.Name, want, len(block.Params)))
		return false
	}
	return true
}

// listRefChecker is the end-of-file check for "list" inlines: each must
// reference an existing "list" or "listnum" block by its first parameter.
type listRefChecker struct{}

func (listRefChecker) Name() string { return "list-ref" }

func (listRefChecker) CheckPostFile(p *Parser) {
	for _, inline := range p.inlines {
		if inline.Name != "list" {
			continue
		}
		if !p.hasBlock(inline.RawContent, "list", "listnum") {
			p.reportError(inline.LineNumber, "", fmt.Sprintf("no list/listnum block named %q", inline.RawContent))
		}
	}
}

// imageRefChecker is the end-of-file check for "img" inlines: each must
// reference an existing "image" block by its first parameter.
type imageRefChecker struct{}

func (imageRefChecker) Name() string { return "image-ref" }

func (imageRefChecker) CheckPostFile(p *Parser) {
	for _, inline := range p.inlines {
		if inline.Name != "img" {
			continue
		}
		if !p.hasBlock(inline.RawContent, "image") {
			p.reportError(inline.LineNumber, "", fmt.Sprintf("no image block named %q", inline.RawContent))
		}
	}
}
