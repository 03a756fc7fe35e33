package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"revlint/internal/diag"
)

// Pretty renders bag's problems as "<source>:<line>: <SEV>: <description>"
// lines followed by the quoted offending context, colorized by severity,
// in the style of the teacher's diagfmt.Pretty.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) {
	errorColor := color.New(color.FgRed, color.Bold)
	warningColor := color.New(color.FgYellow, color.Bold)
	infoColor := color.New(color.FgCyan, color.Bold)
	debugColor := color.New(color.FgHiBlack)
	pathColor := color.New(color.FgWhite, color.Bold)
	contextColor := color.New(color.FgHiBlack)

	prev := color.NoColor
	defer func() { color.NoColor = prev }()
	color.NoColor = !opts.Color

	for i, p := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}

		var sevColored string
		switch p.Severity {
		case diag.Error:
			sevColored = errorColor.Sprint(p.Severity)
		case diag.Warning:
			sevColored = warningColor.Sprint(p.Severity)
		case diag.Info:
			sevColored = infoColor.Sprint(p.Severity)
		default:
			sevColored = debugColor.Sprint(p.Severity)
		}

		line := "L?"
		if p.HasLine() {
			line = fmt.Sprintf("L%d", p.LineNumber)
		}

		fmt.Fprintf(w, "%s:%s: %s: %s\n",
			pathColor.Sprint(p.SourceName),
			line,
			sevColored,
			p.Description,
		)

		if p.RawContext != "" {
			ctx := truncateToWidth(p.RawContext, opts.Width)
			fmt.Fprintf(w, "    %s\n", contextColor.Sprint(ctx))
		}
	}
}

// truncateToWidth clips s to maxWidth display columns (using go-runewidth
// so wide runes count for their true screen width), appending an
// ellipsis when truncated. maxWidth <= 0 means unlimited.
func truncateToWidth(s string, maxWidth int) string {
	if maxWidth <= 0 || runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	const ellipsis = "..."
	budget := maxWidth - runewidth.StringWidth(ellipsis)
	if budget <= 0 {
		return ellipsis
	}
	return runewidth.Truncate(s, budget, "") + ellipsis
}
