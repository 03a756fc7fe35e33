package docparser

import "revlint/internal/markup"

// FirstLineChecker runs the moment a Block's opening line is recognised,
// before its body (if any) has been read. The only current use is the
// "image" block's file-existence check against the Project Model.
type FirstLineChecker interface {
	CheckFirstLine(p *Parser, block markup.Block) bool
	// Name identifies the check for .revlint.toml's "checks.disable" list.
	Name() string
}

// LastLineChecker runs once a Block is fully recognised (its closing "//}"
// seen, or immediately for a body-less block).
type LastLineChecker interface {
	CheckLastLine(p *Parser, block markup.Block) bool
	Name() string
}

// PostFileChecker runs once at end-of-document, after every line has been
// parsed, and inspects the document's recognised Blocks and Inlines as a
// whole. Used for checks that can only be answered once the whole document
// is known.
type PostFileChecker interface {
	CheckPostFile(p *Parser)
	Name() string
}

// PostParseChecker runs immediately after one Inline is recognised by the
// Inline State Machine, independent of end-of-file state.
type PostParseChecker interface {
	CheckPostParse(p *Parser, inline markup.Inline) bool
}

// KnownInlines is the open set of recognised inline annotation names.
// lintcfg's [checks] table may extend it via ExtendKnown; an unrecognised
// name is always an Error regardless of membership here.
var KnownInlines = map[string]bool{
	"list": true, "img": true, "table": true, "href": true, "fn": true,
	"title": true, "ami": true, "chapref": true, "b": true, "i": true,
	"u": true, "m": true, "em": true, "kw": true, "tt": true, "tti": true,
	"ttb": true, "bou": true, "br": true, "code": true, "chap": true,
	"uchar": true, "raw": true,
}

// KnownBlocks maps a recognised block name to its required parameter
// count, used by the last-line schema checker. lintcfg's [checks] table
// may extend it via ExtendKnown.
var KnownBlocks = map[string]int{
	"noindent": 0,
	"lead":     0,
	"emlist":   1,
	"table":    2,
	"list":     2,
	"listnum":  2,
	"image":    2,
	"footnote": 2,
}

// ExtendKnown merges extraInlines into KnownInlines and extraBlocks into
// KnownBlocks. pyrev's allow-lists are hardcoded set literals; revlint
// keeps them as package-level maps so .revlint.toml's "checks.allow_inlines"
// and "checks.allow_blocks" can extend the defaults without changing any
// existing behavior. Call once at startup, before any Parser runs — the
// maps are read concurrently by lintrun's per-document workers afterward.
func ExtendKnown(extraInlines []string, extraBlocks map[string]int) {
	for _, name := range extraInlines {
		KnownInlines[name] = true
	}
	for name, count := range extraBlocks {
		KnownBlocks[name] = count
	}
}
