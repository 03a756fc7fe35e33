package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"revlint/internal/lintrun"
	"revlint/internal/project"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestWatcherDeliversInitialPass(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: sample\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - a.re\n")
	writeFile(t, dir, "a.re", "= A\nhello\n")

	proj, err := project.Load(dir)
	if err != nil {
		t.Fatalf("project.Load: %v", err)
	}

	w, err := New(proj, lintrun.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	select {
	case res := <-w.Events():
		if res.Err != nil {
			t.Fatalf("initial pass error: %v", res.Err)
		}
		if len(res.Results) != 1 {
			t.Fatalf("expected 1 document result, got %d", len(res.Results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial lint pass")
	}
}

func TestWatcherRelintsOnEdit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: sample\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - a.re\n")
	writeFile(t, dir, "a.re", "= A\nhello\n")

	proj, err := project.Load(dir)
	if err != nil {
		t.Fatalf("project.Load: %v", err)
	}

	w, err := New(proj, lintrun.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	w.debounceDur = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer w.Stop()

	select {
	case <-w.Events():
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for initial lint pass")
	}

	writeFile(t, dir, "a.re", "= A\nhello again\n")

	select {
	case res := <-w.Events():
		if res.Err != nil {
			t.Fatalf("relint error: %v", res.Err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for relint after edit")
	}
}
