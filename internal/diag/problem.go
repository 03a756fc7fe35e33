package diag

import "fmt"

// Problem is one diagnostic produced while parsing a source document or
// discovering a project. LineNumber is zero when the problem has no
// specific line (e.g. "block not ended" at end-of-document uses the
// block's own opening line instead, but a project-discovery problem may
// have none at all). RawContext is the offending line, or lines, verbatim;
// it is empty when there is nothing meaningful to quote.
type Problem struct {
	Severity   Severity
	SourceName string
	LineNumber int // 0 means "no specific line"
	Description string
	RawContext string
}

// HasLine reports whether LineNumber refers to an actual line.
func (p Problem) HasLine() bool {
	return p.LineNumber > 0
}

func (p Problem) String() string {
	line := "L?"
	if p.HasLine() {
		line = fmt.Sprintf("L%d", p.LineNumber)
	}
	if p.SourceName != "" {
		return fmt.Sprintf("[%s] %s %s: %s", p.Severity, p.SourceName, line, p.Description)
	}
	return fmt.Sprintf("[%s] %s: %s", p.Severity, line, p.Description)
}
