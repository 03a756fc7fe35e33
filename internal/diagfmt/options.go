// Package diagfmt renders a diag.Bag for human consumption: a colorized
// pretty form for terminals, and a JSON form for tooling.
package diagfmt

// PrettyOpts configures Pretty.
type PrettyOpts struct {
	Color bool
	// Width truncates a quoted source line to this many display columns
	// (accounting for wide runes); 0 means unlimited.
	Width int
}

// JSONOpts configures JSON.
type JSONOpts struct {
	// Max truncates the rendered diagnostic list to this many entries; 0
	// means unlimited. Count always reports the untruncated total.
	Max int
}
