package lintrun

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"revlint/internal/diag"
	"revlint/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func newTestProject(t *testing.T) *project.Project {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - a.re\n  - b.re\n  - c.re\n")
	writeFile(t, dir, "a.re", "= A\nhello\n")
	writeFile(t, dir, "b.re", "= B\nsee @<nope>{x}\n")
	writeFile(t, dir, "c.re", "= C\nworld\n")

	p, err := project.Load(dir)
	if err != nil {
		t.Fatalf("project.Load: %v", err)
	}
	return p
}

func TestRunLintsEveryDocument(t *testing.T) {
	p := newTestProject(t)
	results, bag, err := Run(context.Background(), p, Options{
		Jobs:        2,
		IgnoreLevel: diag.Debug,
		AbortLevel:  diag.Critical,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Fatalf("document %q: unexpected error: %v", r.Name, r.Err)
		}
	}
	if !bag.HasAtLeast(diag.Error) {
		t.Fatalf("expected an Error from b.re's unknown inline")
	}
}

func TestRunOrdersDiagnosticsByCatalogThenLine(t *testing.T) {
	p := newTestProject(t)
	_, bag, err := Run(context.Background(), p, Options{
		Jobs:        3,
		IgnoreLevel: diag.Debug,
		AbortLevel:  diag.Critical,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	items := bag.Items()
	lastPos := -1
	position := map[string]int{"a.re": 0, "b.re": 1, "c.re": 2}
	for _, item := range items {
		pos, ok := position[item.SourceName]
		if !ok {
			t.Fatalf("unexpected source %q", item.SourceName)
		}
		if pos < lastPos {
			t.Fatalf("diagnostics not in catalog order: %+v", items)
		}
		lastPos = pos
	}
}

func TestRunEmptyCatalogReturnsEmptyBag(t *testing.T) {
	p := &project.Project{SourceDir: t.TempDir()}
	results, bag, err := Run(context.Background(), p, Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 || bag.Len() != 0 {
		t.Fatalf("expected no results/diagnostics, got results=%+v bag=%+v", results, bag.Items())
	}
}
