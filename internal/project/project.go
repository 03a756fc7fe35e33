// Package project discovers a Re:VIEW-style book project on disk: its
// configuration, its catalog (the two incompatible historical formats),
// draft documents, and image-to-document associations. It never writes to
// source_dir; it only reads.
package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RelatedFiles are the marker filenames that identify a directory as a
// Re:VIEW source directory, matching pyrev.ReVIEWProject.RELATED_FILES.
var RelatedFiles = map[string]bool{
	"config.yml":  true,
	"config.yaml": true,
	"catalog.yml": true,
	"catalog.yaml": true,
	"CHAPS":       true,
	"PREDEF":      true,
	"POSTDEF":     true,
	"PART":        true,
}

// Part is one ordered (title, documents) pair of a parts-with-chapters
// catalog.
type Part struct {
	Title     string
	Documents []string
}

// BookAttributes holds the optional descriptive fields of a book
// configuration.
type BookAttributes struct {
	Title       string
	Author      string
	Description string
	CoverImage  string
}

// ProjectImage is one image file associated with a parent document.
type ProjectImage struct {
	RelativePath   string
	ParentDocument string
	ParentID       string
	ImageID        string
	Extension      string
}

// Project is the catalog decomposition of a source directory.
type Project struct {
	SourceDir string

	ConfigFile   string
	CatalogFiles []string

	Bookname   string
	Attributes BookAttributes

	PredefDocuments  []string
	PostdefDocuments []string

	// Exactly one of Parts or Chapters is populated.
	Parts    []Part
	Chapters []string

	DraftDocuments []string

	ImageDir          string
	Images            map[string][]ProjectImage
	UnmappableImages  []string
}

// HasParts reports whether this project's catalog used the
// parts-with-chapters structure.
func (p *Project) HasParts() bool {
	return len(p.Parts) > 0
}

// AllDocuments returns every document named in the catalog, in catalog
// order: predef, then part-chapters (or flat chapters), then postdef. It
// does not include draft documents.
func (p *Project) AllDocuments() []string {
	var docs []string
	docs = append(docs, p.PredefDocuments...)
	if p.HasParts() {
		for _, part := range p.Parts {
			docs = append(docs, part.Documents...)
		}
	} else {
		docs = append(docs, p.Chapters...)
	}
	docs = append(docs, p.PostdefDocuments...)
	return docs
}

// AllFilenames returns every document the project can act as a source for:
// catalog documents first, then drafts, matching pyrev's
// "draft should come after source_filenames" note.
func (p *Project) AllFilenames() []string {
	all := append([]string(nil), p.AllDocuments()...)
	all = append(all, p.DraftDocuments...)
	return all
}

// HasDocument reports whether reFile is named anywhere in the project
// (catalog or draft).
func (p *Project) HasDocument(reFile string) bool {
	for _, name := range p.AllFilenames() {
		if name == reFile {
			return true
		}
	}
	return false
}

// ImagesFor returns the ProjectImages associated with a document, or nil
// if none.
func (p *Project) ImagesFor(reFile string) []ProjectImage {
	return p.Images[reFile]
}

// TempDirs returns the conventional temporary/output directory names for
// this project's bookname, for an external cleanup collaborator. revlint
// itself never removes them: it only reads.
func (p *Project) TempDirs() []string {
	name := p.Bookname
	if name == "" {
		name = "book"
	}
	return []string{name, name + "-pdf", name + "-epub", name + "-log"}
}

// Discover locates and loads a Project rooted at baseDir. depth bounds the
// directory descent used to find source_dir: 0 means no descent, negative
// means unlimited, matching pyrev.ReVIEWProject.guess_source_dir.
func Discover(baseDir string, depth int) (*Project, error) {
	sourceDir, ok, err := GuessSourceDir(baseDir, depth)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("project: no Re:VIEW source directory found under %q", baseDir)
	}
	return Load(sourceDir)
}

// Load loads a Project whose source directory is already known.
func Load(sourceDir string) (*Project, error) {
	return LoadWithImageDir(sourceDir, "images")
}

// LoadWithImageDir loads a Project the same way Load does, but looks for
// images under sourceDir/imageDir instead of the "images" default --
// the revlint.toml "checks.image_dir" override and --image-dir flag.
func LoadWithImageDir(sourceDir, imageDir string) (*Project, error) {
	if imageDir == "" {
		imageDir = "images"
	}
	p := &Project{
		SourceDir: sourceDir,
		ImageDir:  imageDir,
		Images:    make(map[string][]ProjectImage),
	}

	cfg, configFile, err := findAndParseConfig(sourceDir)
	if err != nil {
		return nil, err
	}
	p.ConfigFile = configFile
	p.Bookname = cfg.Bookname
	p.Attributes = BookAttributes{
		Title:       cfg.BookTitle,
		Author:      cfg.Aut,
		Description: cfg.Description,
		CoverImage:  cfg.CoverImage,
	}

	if err := recognizeCatalogFiles(p); err != nil {
		return nil, err
	}

	if err := recognizeDraftFiles(p); err != nil {
		return nil, err
	}

	recognizeImageFiles(p)

	return p, nil
}

// GuessSourceDir tries to find a Re:VIEW source directory under baseDir,
// preferring a directory containing one of RelatedFiles over one that
// merely contains a lone ".re" file; the first hit wins between the two
// predicates, matching pyrev's guess_source_dir composing
// _look_for_related_files before _look_for_re_files.
func GuessSourceDir(baseDir string, depth int) (string, bool, error) {
	if found, ok, err := lookForBase(baseDir, depth, hasRelatedFile); err != nil || ok {
		return found, ok, err
	}
	return lookForBase(baseDir, depth, hasREFile)
}

func hasRelatedFile(names []string) bool {
	for _, name := range names {
		if RelatedFiles[name] {
			return true
		}
	}
	return false
}

func hasREFile(names []string) bool {
	for _, name := range names {
		if strings.HasSuffix(name, ".re") {
			return true
		}
	}
	return false
}

// lookForBase is pyrev._look_for_base: checks baseDir itself first, then
// (if depth allows) recurses into subdirectories in lexical order, first
// hit wins.
func lookForBase(baseDir string, depth int, match func([]string) bool) (string, bool, error) {
	entries, err := os.ReadDir(baseDir)
	if err != nil {
		return "", false, fmt.Errorf("project: reading %q: %w", baseDir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if match(names) {
		return baseDir, true, nil
	}
	if depth == 0 {
		return "", false, nil
	}
	nextDepth := depth
	if depth > 0 {
		nextDepth--
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		found, ok, err := lookForBase(filepath.Join(baseDir, e.Name()), nextDepth, match)
		if err != nil {
			return "", false, err
		}
		if ok {
			return found, true, nil
		}
	}
	return "", false, nil
}
