package diagfmt

import (
	"encoding/json"
	"io"

	"revlint/internal/diag"
)

// ProblemJSON is one diag.Problem's JSON representation.
type ProblemJSON struct {
	Severity   string `json:"severity"`
	Source     string `json:"source"`
	Line       int    `json:"line,omitempty"`
	Message    string `json:"message"`
	Context    string `json:"context,omitempty"`
}

// DiagnosticsOutput is the root JSON document written by JSON.
type DiagnosticsOutput struct {
	Diagnostics []ProblemJSON `json:"diagnostics"`
	Count       int           `json:"count"`
}

// JSON renders bag's problems as a DiagnosticsOutput document.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	items := bag.Items()
	out := DiagnosticsOutput{Count: len(items)}

	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}
	out.Diagnostics = make([]ProblemJSON, 0, limit)
	for _, p := range items[:limit] {
		out.Diagnostics = append(out.Diagnostics, ProblemJSON{
			Severity: p.Severity.String(),
			Source:   p.SourceName,
			Line:     p.LineNumber,
			Message:  p.Description,
			Context:  p.RawContext,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
