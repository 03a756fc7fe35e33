// Package markup holds the recognised-construct record types the Inline
// and Block State Machines produce and the Document Parser accumulates:
// Bookmark, Inline, and Block.
package markup

// Bookmark records one heading occurrence.
type Bookmark struct {
	Title    string
	Level    int
	Spacing  string
	IsColumn bool

	// SourceDocument is the document the heading appeared in; empty for a
	// synthetic part heading, which has no source document of its own.
	SourceDocument string

	// HasChapterIndex and ChapterIndex together represent the "absent
	// unless the heading is a chapter" optionality of chapter_index: a
	// plain zero value would be indistinguishable from the first chapter.
	HasChapterIndex bool
	ChapterIndex    int
}

// Inline is one recognised @<name>{raw} instance.
type Inline struct {
	Name       string
	RawContent string
	LineNumber int
	// Column is the 0-based position of the closing '}' within the full
	// physical line it appeared on, counted in characters. This follows
	// the original parser's own position counter rather than a strict
	// 1-based column (see DESIGN.md).
	Column int
}

// Block is one recognised //name[p1][p2]{ ... //} or parameterless
// //name[p1][p2] instance.
type Block struct {
	Name       string
	Params     []string
	HasBody    bool
	BodyLines  []string
	LineNumber int // of the opening line

	// Inlines recognised inside this block's parameters, in the order the
	// embedded Inline State Machine produced them.
	Inlines []Inline
}
