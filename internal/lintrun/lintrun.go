// Package lintrun drives a bounded-parallel lint pass across every
// document of a Project Model, then serializes the results back into
// catalog order.
package lintrun

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"revlint/internal/diag"
	"revlint/internal/markup/docparser"
	"revlint/internal/project"
	"revlint/internal/source"
	"revlint/internal/trace"
)

// DocumentResult is one document's parse outcome.
type DocumentResult struct {
	Name string
	Doc  docparser.Document
	// Err is non-nil when the document could not be loaded or its own
	// parse aborted (a *diag.AbortError); other documents still run to
	// completion.
	Err error
}

// Options configures a lint pass.
type Options struct {
	// Jobs bounds worker concurrency; <= 0 uses GOMAXPROCS.
	Jobs int
	// IgnoreLevel and AbortLevel gate every document's diag.Reporter.
	IgnoreLevel Severity
	AbortLevel  Severity
	// BagCapacity bounds the shared diag.Bag; 0 is unbounded.
	BagCapacity int
	// Tracer, if non-nil, receives one Emit call per recognised construct
	// from every document's parser (the --trace flag's destination).
	Tracer trace.Tracer
	// DisabledChecks names checks to skip, per .revlint.toml's
	// "checks.disable" list ("image", "schema", "list-ref", "image-ref").
	DisabledChecks map[string]bool
}

// Severity is an alias kept local so callers of this package need not
// import internal/diag solely to build an Options value.
type Severity = diag.Severity

// Run lints every document named in proj's catalog (predef, then
// parts/chapters, then postdef — draft documents are excluded per
// spec.md's Non-goal on catalog-only linting) with up to opts.Jobs
// parsers running concurrently. Diagnostics accumulate in one shared
// Bag, guarded by a diag.SyncReporter, and are reordered into catalog
// order before Run returns — not the arrival order of the parallel
// workers.
func Run(ctx context.Context, proj *project.Project, opts Options) ([]DocumentResult, *diag.Bag, error) {
	names := proj.AllDocuments()
	if len(names) == 0 {
		return nil, diag.NewBag(opts.BagCapacity), nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	base := diag.NewThresholdReporter(opts.IgnoreLevel, opts.AbortLevel, opts.BagCapacity)
	reporter := diag.NewSyncReporter(base)

	results := make([]DocumentResult, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(names)))

	for i, name := range names {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			path := filepath.Join(proj.SourceDir, name)
			file, err := source.LoadFile(path)
			if err != nil {
				results[i] = DocumentResult{Name: name, Err: fmt.Errorf("lintrun: loading %q: %w", path, err)}
				return nil
			}

			p := docparser.New(reporter, proj)
			if opts.Tracer != nil {
				p.SetTracer(opts.Tracer)
			}
			if len(opts.DisabledChecks) > 0 {
				p.SetDisabledChecks(opts.DisabledChecks)
			}
			doc, parseErr := p.Parse(name, file)
			results[i] = DocumentResult{Name: name, Doc: doc, Err: parseErr}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, reporter.Bag(), err
	}

	bag := reporter.Bag()
	reorderByCatalog(bag, names)
	return results, bag, nil
}

// reorderByCatalog stable-sorts bag's problems by their source document's
// position in catalog order, then by line number within a document —
// spec.md §5's "diagnostics appear in catalog order" guarantee, which the
// parallel workers' arrival order does not itself provide.
func reorderByCatalog(bag *diag.Bag, catalogOrder []string) {
	position := make(map[string]int, len(catalogOrder))
	for i, name := range catalogOrder {
		position[name] = i
	}
	bag.SortBy(func(a, c diag.Problem) bool {
		pa, oka := position[a.SourceName]
		pc, okc := position[c.SourceName]
		if !oka {
			pa = len(catalogOrder)
		}
		if !okc {
			pc = len(catalogOrder)
		}
		if pa != pc {
			return pa < pc
		}
		return a.LineNumber < c.LineNumber
	})
}
