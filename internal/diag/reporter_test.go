package diag

import (
	"errors"
	"testing"
)

func TestThresholdReporterDiscardsBelowIgnore(t *testing.T) {
	r := NewThresholdReporter(Warning, Error, 0)
	_, ok := r.ReportInfo("ch01.re", 3, "minor note", "")
	if ok {
		t.Fatalf("expected info below ignore threshold to be discarded")
	}
	if r.Bag().Len() != 0 {
		t.Fatalf("expected nothing retained, got %d", r.Bag().Len())
	}
}

func TestThresholdReporterRetainsBetweenThresholds(t *testing.T) {
	r := NewThresholdReporter(Info, Error, 0)
	p, ok := r.ReportWarning("ch01.re", 10, "unclosed tag", "@<b>{oops")
	if !ok {
		t.Fatalf("expected warning to be retained")
	}
	if p.Severity != Warning || p.LineNumber != 10 {
		t.Fatalf("unexpected problem: %+v", p)
	}
	if r.Bag().Len() != 1 {
		t.Fatalf("expected one retained problem, got %d", r.Bag().Len())
	}
}

func TestThresholdReporterAbortsAtOrAboveAbort(t *testing.T) {
	r := NewThresholdReporter(Info, Error, 0)

	var err error
	func() {
		defer Recover(&err)
		r.ReportError("ch01.re", 5, "block never closed", "//list{")
		t.Fatalf("unreachable: Report should have panicked")
	}()

	if err == nil {
		t.Fatalf("expected an abort error")
	}
	if !errors.Is(err, ErrAborted) {
		t.Fatalf("expected errors.Is(err, ErrAborted), got %v", err)
	}
	var ae *AbortError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *AbortError, got %T", err)
	}
	if ae.Problem.Severity != Error {
		t.Fatalf("unexpected severity on aborting problem: %v", ae.Problem.Severity)
	}
	if r.Bag().Len() != 1 {
		t.Fatalf("expected the aborting problem to still be retained, got %d", r.Bag().Len())
	}
}

func TestThresholdReporterOtherPanicsPropagate(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic to propagate")
		}
		if _, ok := r.(*AbortError); ok {
			t.Fatalf("expected a non-abort panic to pass through Recover unchanged")
		}
	}()

	var err error
	func() {
		defer Recover(&err)
		panic("boom")
	}()
}

func TestBagSortOrdersBySourceThenLineThenSeverityDesc(t *testing.T) {
	b := NewBag(0)
	b.Add(Problem{SourceName: "ch02.re", LineNumber: 1, Severity: Info})
	b.Add(Problem{SourceName: "ch01.re", LineNumber: 5, Severity: Warning})
	b.Add(Problem{SourceName: "ch01.re", LineNumber: 5, Severity: Error})
	b.Add(Problem{SourceName: "ch01.re", LineNumber: 2, Severity: Error})
	b.Sort()

	items := b.Items()
	want := []struct {
		source string
		line   int
		sev    Severity
	}{
		{"ch01.re", 2, Error},
		{"ch01.re", 5, Error},
		{"ch01.re", 5, Warning},
		{"ch02.re", 1, Info},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, w := range want {
		if items[i].SourceName != w.source || items[i].LineNumber != w.line || items[i].Severity != w.sev {
			t.Fatalf("item %d: got %+v, want %+v", i, items[i], w)
		}
	}
}

func TestBagDedupKeepsFirstOccurrence(t *testing.T) {
	b := NewBag(0)
	b.Add(Problem{SourceName: "ch01.re", LineNumber: 1, Severity: Error, Description: "dup"})
	b.Add(Problem{SourceName: "ch01.re", LineNumber: 1, Severity: Error, Description: "dup"})
	b.Add(Problem{SourceName: "ch01.re", LineNumber: 2, Severity: Error, Description: "dup"})
	b.Dedup()
	if b.Len() != 2 {
		t.Fatalf("expected dedup to drop the exact repeat, got %d items", b.Len())
	}
}

func TestBagCapacityRejectsOverflow(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Problem{SourceName: "ch01.re", Severity: Error}) {
		t.Fatalf("expected first add within capacity to succeed")
	}
	if b.Add(Problem{SourceName: "ch01.re", Severity: Error}) {
		t.Fatalf("expected second add to be rejected at capacity 1")
	}
}

func TestParseSeverityAcceptsCriticalAsUnacceptableOnly(t *testing.T) {
	sev, ok := ParseSeverity("CRITICAL")
	if !ok || sev != Critical {
		t.Fatalf("expected CRITICAL to parse to the Critical sentinel")
	}
	if sev <= Error {
		t.Fatalf("Critical must rank above Error so --unacceptable-level=CRITICAL never aborts")
	}
}
