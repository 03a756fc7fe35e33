package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadFlatChaptersCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\nbooktitle: My Book\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - a.re\n  - b.re\n")
	writeFile(t, dir, "a.re", "= A\n")
	writeFile(t, dir, "b.re", "= B\n")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Bookname != "mybook" || p.Attributes.Title != "My Book" {
		t.Fatalf("unexpected config: %+v", p)
	}
	if p.HasParts() {
		t.Fatalf("expected flat chapters, got parts: %+v", p.Parts)
	}
	if len(p.Chapters) != 2 || p.Chapters[0] != "a.re" || p.Chapters[1] != "b.re" {
		t.Fatalf("unexpected chapters: %+v", p.Chapters)
	}
}

func TestLoadPartsWithChaptersCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - P1: [a.re, b.re]\n  - P2: [c.re]\n")
	writeFile(t, dir, "a.re", "")
	writeFile(t, dir, "b.re", "")
	writeFile(t, dir, "c.re", "")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.HasParts() || len(p.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %+v", p.Parts)
	}
	if p.Parts[0].Title != "P1" || len(p.Parts[0].Documents) != 2 {
		t.Fatalf("unexpected part 1: %+v", p.Parts[0])
	}
	if p.Parts[1].Title != "P2" || len(p.Parts[1].Documents) != 1 {
		t.Fatalf("unexpected part 2: %+v", p.Parts[1])
	}
	want := []string{"a.re", "b.re", "c.re"}
	got := p.AllDocuments()
	if len(got) != len(want) {
		t.Fatalf("AllDocuments = %+v, want %+v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("AllDocuments[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadLegacyCatalogWithParts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "CHAPS", "a.re\nb.re\n\nc.re\n")
	writeFile(t, dir, "PART", "Part One\nPart Two\n")
	writeFile(t, dir, "a.re", "")
	writeFile(t, dir, "b.re", "")
	writeFile(t, dir, "c.re", "")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !p.HasParts() || len(p.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %+v", p.Parts)
	}
	if p.Parts[0].Title != "Part One" || len(p.Parts[0].Documents) != 2 {
		t.Fatalf("unexpected part 1: %+v", p.Parts[0])
	}
	if p.Parts[1].Title != "Part Two" || len(p.Parts[1].Documents) != 1 || p.Parts[1].Documents[0] != "c.re" {
		t.Fatalf("unexpected part 2: %+v", p.Parts[1])
	}
}

func TestLegacyCatalogOverflowBlanksAppendToLastPart(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	// Only 1 PART title but 2 blank-line boundaries: with a single part
	// both boundaries are ignored and all four documents land in it.
	writeFile(t, dir, "CHAPS", "a.re\n\nb.re\n\nc.re\nd.re\n")
	writeFile(t, dir, "PART", "Only Part\n")
	for _, name := range []string{"a.re", "b.re", "c.re", "d.re"} {
		writeFile(t, dir, name, "")
	}

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.Parts) != 1 {
		t.Fatalf("expected 1 part, got %+v", p.Parts)
	}
	want := []string{"a.re", "b.re", "c.re", "d.re"}
	got := p.Parts[0].Documents
	if len(got) != len(want) {
		t.Fatalf("Parts[0].Documents = %+v, want %+v", got, want)
	}
}

func TestDraftDetection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - a.re\n")
	writeFile(t, dir, "a.re", "")
	writeFile(t, dir, "stray.re", "")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(p.DraftDocuments) != 1 || p.DraftDocuments[0] != "stray.re" {
		t.Fatalf("unexpected drafts: %+v", p.DraftDocuments)
	}
}

func TestImageAssociationPrefixedConvention(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - chap1.re\n")
	writeFile(t, dir, "chap1.re", "")
	if err := os.Mkdir(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatalf("mkdir images: %v", err)
	}
	writeFile(t, dir, "images/chap1-test1.png", "")
	writeFile(t, dir, "images/chap1-test2.png", "")
	writeFile(t, dir, "images/stray.png", "")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	images := p.ImagesFor("chap1.re")
	if len(images) != 2 {
		t.Fatalf("expected 2 images for chap1.re, got %+v", images)
	}
	ids := map[string]bool{images[0].ImageID: true, images[1].ImageID: true}
	if !ids["test1"] || !ids["test2"] {
		t.Fatalf("unexpected image ids: %+v", images)
	}
	if len(p.UnmappableImages) != 1 || p.UnmappableImages[0] != "stray.png" {
		t.Fatalf("expected stray.png unmappable, got %+v", p.UnmappableImages)
	}
}

func TestImageAssociationSubdirectoryConvention(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - chap1.re\n")
	writeFile(t, dir, "chap1.re", "")
	if err := os.MkdirAll(filepath.Join(dir, "images", "chap1"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, dir, "images/chap1/diagram.png", "")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	images := p.ImagesFor("chap1.re")
	if len(images) != 1 || images[0].ImageID != "diagram" {
		t.Fatalf("unexpected images: %+v", images)
	}
}

func TestResolveImagePrefixedOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - chap1.re\n")
	writeFile(t, dir, "chap1.re", "")
	if err := os.Mkdir(filepath.Join(dir, "images"), 0o755); err != nil {
		t.Fatalf("mkdir images: %v", err)
	}
	writeFile(t, dir, "images/chap1-test1.png", "")

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found, prefixedOnly := p.ResolveImage("chap1.re", "test1"); !found || prefixedOnly {
		t.Fatalf("ResolveImage(test1) = (%v, %v), want (true, false)", found, prefixedOnly)
	}
	if found, prefixedOnly := p.ResolveImage("chap1.re", "chap1-test1"); found || !prefixedOnly {
		t.Fatalf("ResolveImage(chap1-test1) = (%v, %v), want (false, true)", found, prefixedOnly)
	}
	if found, prefixedOnly := p.ResolveImage("chap1.re", "nope"); found || prefixedOnly {
		t.Fatalf("ResolveImage(nope) = (%v, %v), want (false, false)", found, prefixedOnly)
	}
}

func TestGuessSourceDirPrefersRelatedFilesOverLoneREFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "")
	articleDir := filepath.Join(root, "article")
	if err := os.Mkdir(articleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, articleDir, "catalog.yml", "CHAPS:\n  - a.re\n")
	writeFile(t, articleDir, "a.re", "")

	found, ok, err := GuessSourceDir(root, -1)
	if err != nil {
		t.Fatalf("GuessSourceDir: %v", err)
	}
	if !ok || found != articleDir {
		t.Fatalf("GuessSourceDir = (%q, %v), want (%q, true)", found, ok, articleDir)
	}
}

func TestGuessSourceDirDepthZeroFailsOnNestedProject(t *testing.T) {
	root := t.TempDir()
	articleDir := filepath.Join(root, "article")
	if err := os.Mkdir(articleDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, articleDir, "catalog.yml", "CHAPS:\n  - a.re\n")
	writeFile(t, articleDir, "a.re", "")

	_, ok, err := GuessSourceDir(root, 0)
	if err != nil {
		t.Fatalf("GuessSourceDir: %v", err)
	}
	if ok {
		t.Fatalf("expected depth 0 to fail to find the nested project")
	}
}

func TestMalformedPartsElementAbortsCatalog(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yml", "bookname: mybook\n")
	writeFile(t, dir, "catalog.yml", "CHAPS:\n  - P1: [a.re]\n  - not-a-single-key-map\n")
	writeFile(t, dir, "a.re", "")

	if _, err := Load(dir); err == nil {
		t.Fatalf("expected an error for the malformed CHAPS element")
	}
}

func TestTempDirsDefaultBookname(t *testing.T) {
	p := &Project{}
	dirs := p.TempDirs()
	want := []string{"book", "book-pdf", "book-epub", "book-log"}
	for i, d := range want {
		if dirs[i] != d {
			t.Fatalf("TempDirs()[%d] = %q, want %q", i, dirs[i], d)
		}
	}
}
