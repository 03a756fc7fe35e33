package ui

import (
	"fmt"
	"io"

	"revlint/internal/diagfmt"
	"revlint/internal/watch"
)

// RunPlain drains events and writes each pass's diagnostics to w as plain
// pretty-formatted lines, for non-interactive terminals and --no-ui runs.
// It returns when events closes.
func RunPlain(w io.Writer, title string, events <-chan watch.Result, opts diagfmt.PrettyOpts) {
	pass := 0
	for res := range events {
		pass++
		if res.Err != nil {
			fmt.Fprintf(w, "%s: pass %d failed: %v\n", title, pass, res.Err)
			continue
		}
		fmt.Fprintf(w, "%s: pass %d\n", title, pass)
		if res.Bag != nil && res.Bag.Len() > 0 {
			diagfmt.Pretty(w, res.Bag, opts)
			fmt.Fprintln(w)
		} else {
			fmt.Fprintln(w, "  no problems found")
		}
	}
}
