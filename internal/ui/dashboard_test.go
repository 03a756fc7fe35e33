package ui

import (
	"testing"

	"revlint/internal/diag"
	"revlint/internal/lintrun"
	"revlint/internal/watch"
)

func TestApplyResultTracksPerDocumentProblems(t *testing.T) {
	m := &dashboardModel{}
	bag := diag.NewBag(0)
	bag.Add(diag.Problem{Severity: diag.Error, SourceName: "b.re", LineNumber: 2, Description: "bad"})
	bag.Add(diag.Problem{Severity: diag.Warning, SourceName: "a.re", LineNumber: 1, Description: "meh"})

	m.applyResult(watch.Result{
		Results: []lintrun.DocumentResult{{Name: "a.re"}, {Name: "b.re"}},
		Bag:     bag,
	})

	if m.pass != 1 {
		t.Fatalf("pass = %d, want 1", m.pass)
	}
	if len(m.docs) != 2 {
		t.Fatalf("docs = %d, want 2", len(m.docs))
	}
	byName := map[string]docStatus{}
	for _, d := range m.docs {
		byName[d.name] = d
	}
	if byName["a.re"].problems != 1 || byName["a.re"].worst != diag.Warning {
		t.Fatalf("a.re status = %+v", byName["a.re"])
	}
	if byName["b.re"].problems != 1 || byName["b.re"].worst != diag.Error {
		t.Fatalf("b.re status = %+v", byName["b.re"])
	}
	if m.total != 2 {
		t.Fatalf("total = %d, want 2", m.total)
	}
}

func TestApplyResultRecordsAbortedDocument(t *testing.T) {
	m := &dashboardModel{}
	m.applyResult(watch.Result{
		Results: []lintrun.DocumentResult{{Name: "a.re", Err: errAborted}},
		Bag:     diag.NewBag(0),
	})
	if !m.docs[0].errored {
		t.Fatalf("expected a.re to be marked errored")
	}
}

func TestApplyResultRecordsPassError(t *testing.T) {
	m := &dashboardModel{}
	m.applyResult(watch.Result{Err: errAborted})
	if m.lastErr == nil {
		t.Fatalf("expected lastErr to be set")
	}
}

var errAborted = fakeErr("aborted")

type fakeErr string

func (e fakeErr) Error() string { return string(e) }
