package docparser

import "regexp"

// headingPattern implements spec's `^(=+)(column?)(\s*)(.+)$`, with the
// literal word "column" as the marker (not a character class over
// c/o/l/u/m/n) per the Open Question decision recorded in DESIGN.md: the
// trailing \b keeps "=columnFoo" from being misread as a column heading
// titled "Foo".
var headingPattern = regexp.MustCompile(`^(=+)(?:(column)\b)?(\s*)(.+)$`)

// manualDirectivePattern implements spec's `^#@(type)\((message)\)$`.
var manualDirectivePattern = regexp.MustCompile(`^#@([^(]+)\((.*)\)$`)

type headingMatch struct {
	Level   int
	Column  string
	Spacing string
	Title   string
}

func matchHeading(text string) *headingMatch {
	m := headingPattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	return &headingMatch{
		Level:   len(m[1]),
		Column:  m[2],
		Spacing: m[3],
		Title:   m[4],
	}
}
