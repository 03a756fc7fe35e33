// Package watch drives a debounced re-lint loop: it watches a project's
// source directory for changes to documents, the catalog, or the book
// configuration, and re-runs a lint pass each time things settle.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"revlint/internal/diag"
	"revlint/internal/lintrun"
	"revlint/internal/project"
)

// Result is one lint pass triggered by a filesystem change (or the
// initial pass at Start).
type Result struct {
	Results []lintrun.DocumentResult
	Bag     *diag.Bag
	Err     error
}

// Watcher watches a project's source_dir and re-lints on settled changes.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	proj    *project.Project
	opts    lintrun.Options

	debounceMap map[string]time.Time
	debounceDur time.Duration
	relintTrigger chan struct{}

	events  chan Result
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
}

// New creates a Watcher over proj's source_dir. Results are delivered on
// the channel returned by Events; callers must drain it or the watcher's
// lint goroutine will block.
func New(proj *project.Project, opts lintrun.Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:     fsw,
		proj:        proj,
		opts:        opts,
		debounceMap:   make(map[string]time.Time),
		debounceDur:   300 * time.Millisecond,
		relintTrigger: make(chan struct{}, 1),
		events:        make(chan Result, 1),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}
	return w, nil
}

// Events returns the channel Result values are delivered on.
func (w *Watcher) Events() <-chan Result { return w.events }

// Start begins watching source_dir (and its images directory, if present)
// and runs an initial lint pass. It is non-blocking; the watch loop runs
// in a goroutine until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.proj.SourceDir); err != nil {
		return err
	}
	imageDir := filepath.Join(w.proj.SourceDir, w.proj.ImageDir)
	if info, err := os.Stat(imageDir); err == nil && info.IsDir() {
		_ = w.watcher.Add(imageDir)
	}

	go w.run(ctx)
	go w.relint(ctx)

	return nil
}

// Stop stops the watch loop and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	_ = w.watcher.Close()
	close(w.events)
}

// run is the fsnotify event loop: it records settled-change candidates
// and periodically flushes them to a re-lint.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
		case <-ticker.C:
			w.flushDue()
		}
	}
}

// relintSignal is sent on a flush; a single buffered channel collapses a
// burst of settled paths into one re-lint pass rather than one per file.
var relintSignal = struct{}{}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	name := filepath.Base(event.Name)
	if !strings.HasSuffix(name, ".re") && !project.RelatedFiles[name] {
		return
	}
	switch {
	case event.Op&fsnotify.Create != 0, event.Op&fsnotify.Write != 0,
		event.Op&fsnotify.Remove != 0, event.Op&fsnotify.Rename != 0:
	default:
		return
	}
	w.mu.Lock()
	w.debounceMap[event.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) flushDue() {
	w.mu.Lock()
	now := time.Now()
	due := false
	for path, t := range w.debounceMap {
		if now.Sub(t) >= w.debounceDur {
			due = true
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	if due {
		select {
		case w.relintTrigger <- relintSignal:
		default:
		}
	}
}

// relint waits for flush signals and runs a lint pass, reloading the
// project first so catalog and config edits are picked up too.
func (w *Watcher) relint(ctx context.Context) {
	// Initial pass, before any filesystem event fires.
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-w.relintTrigger:
			w.runOnce(ctx)
		}
	}
}

func (w *Watcher) runOnce(ctx context.Context) {
	proj, err := project.LoadWithImageDir(w.proj.SourceDir, w.proj.ImageDir)
	if err != nil {
		select {
		case w.events <- Result{Err: err}:
		case <-ctx.Done():
		}
		return
	}
	w.mu.Lock()
	w.proj = proj
	w.mu.Unlock()

	results, bag, err := lintrun.Run(ctx, proj, w.opts)
	select {
	case w.events <- Result{Results: results, Bag: bag, Err: err}:
	case <-ctx.Done():
	}
}
