package diag

import (
	"errors"
	"fmt"
	"sync"
)

// Reporter is the sink every phase of the linter reports diagnostics
// through: the Document Parser, its checkers, and the Project Model.
type Reporter interface {
	// Report files one diagnostic. It returns the stored Problem and true if
	// retained, or the zero Problem and false if the problem was discarded
	// below the ignore threshold. If the problem is at or above the abort
	// threshold, Report does not return at all: it panics with *AbortError,
	// which ThresholdReporter's caller is expected to recover via Recover.
	Report(sev Severity, sourceName string, line int, description, rawContext string) (Problem, bool)

	ReportDebug(sourceName string, line int, description, rawContext string) (Problem, bool)
	ReportInfo(sourceName string, line int, description, rawContext string) (Problem, bool)
	ReportWarning(sourceName string, line int, description, rawContext string) (Problem, bool)
	ReportError(sourceName string, line int, description, rawContext string) (Problem, bool)

	// Bag exposes the retained problems collected so far.
	Bag() *Bag
}

// AbortError is the fatal parse condition raised when a Problem reaches the
// abort threshold. It is carried as a panic value rather than threaded
// through every return, matching spec's "exceptions for control flow" design
// note; Recover turns it back into a normal (T, error) result at the
// boundary that owns the parse (the Document Parser's top-level entry
// point).
type AbortError struct {
	Problem Problem
}

func (e *AbortError) Error() string {
	return fmt.Sprintf("aborted: %s", e.Problem)
}

// ErrAborted is the sentinel error Recover and document-parsing callers can
// match against with errors.Is.
var ErrAborted = errors.New("diag: parsing aborted")

func (e *AbortError) Unwrap() error { return ErrAborted }

// Recover converts an in-flight *AbortError panic into an error return. It
// must be called via defer in the function that calls into code that may
// report an abort-threshold Problem; any other panic value is re-raised.
func Recover(err *error) {
	r := recover()
	if r == nil {
		return
	}
	ae, ok := r.(*AbortError)
	if !ok {
		panic(r)
	}
	*err = ae
}

// ThresholdReporter is the concrete Reporter: diagnostics strictly below
// ignoreThreshold are discarded silently; diagnostics at or above
// abortThreshold raise a fatal parse condition; everything else is appended
// to Bag.
type ThresholdReporter struct {
	ignoreThreshold Severity
	abortThreshold  Severity
	bag             *Bag
}

// NewThresholdReporter builds a Reporter gated by the given thresholds,
// backed by a Bag with the given retained-problem capacity (0 = unbounded).
func NewThresholdReporter(ignoreThreshold, abortThreshold Severity, capacity int) *ThresholdReporter {
	return &ThresholdReporter{
		ignoreThreshold: ignoreThreshold,
		abortThreshold:  abortThreshold,
		bag:             NewBag(capacity),
	}
}

func (r *ThresholdReporter) Report(sev Severity, sourceName string, line int, description, rawContext string) (Problem, bool) {
	if sev < r.ignoreThreshold {
		return Problem{}, false
	}
	p := Problem{
		Severity:    sev,
		SourceName:  sourceName,
		LineNumber:  line,
		Description: description,
		RawContext:  rawContext,
	}
	if sev >= r.abortThreshold {
		r.bag.Add(p)
		panic(&AbortError{Problem: p})
	}
	r.bag.Add(p)
	return p, true
}

func (r *ThresholdReporter) ReportDebug(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Debug, sourceName, line, description, rawContext)
}

func (r *ThresholdReporter) ReportInfo(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Info, sourceName, line, description, rawContext)
}

func (r *ThresholdReporter) ReportWarning(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Warning, sourceName, line, description, rawContext)
}

func (r *ThresholdReporter) ReportError(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Error, sourceName, line, description, rawContext)
}

func (r *ThresholdReporter) Bag() *Bag { return r.bag }

// SyncReporter wraps a Reporter with a mutex so a single Bag can be shared
// safely across the bounded-parallel document workers described in
// internal/lintrun. Report still panics with *AbortError on the calling
// goroutine; it only aborts the document being parsed there, not the whole
// run, matching "other documents are not attempted in the aborting task".
type SyncReporter struct {
	mu   sync.Mutex
	next Reporter
}

// NewSyncReporter wraps an existing Reporter for concurrent use.
func NewSyncReporter(next Reporter) *SyncReporter {
	return &SyncReporter{next: next}
}

func (r *SyncReporter) Report(sev Severity, sourceName string, line int, description, rawContext string) (Problem, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next.Report(sev, sourceName, line, description, rawContext)
}

func (r *SyncReporter) ReportDebug(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Debug, sourceName, line, description, rawContext)
}

func (r *SyncReporter) ReportInfo(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Info, sourceName, line, description, rawContext)
}

func (r *SyncReporter) ReportWarning(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Warning, sourceName, line, description, rawContext)
}

func (r *SyncReporter) ReportError(sourceName string, line int, description, rawContext string) (Problem, bool) {
	return r.Report(Error, sourceName, line, description, rawContext)
}

func (r *SyncReporter) Bag() *Bag {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.next.Bag()
}
