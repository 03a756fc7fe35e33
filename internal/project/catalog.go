package project

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// newCatalogCandidates is the order a new-format catalog file is tried in.
// pyrev's own _recognize_new_catalog_files tries catalog.yml then the
// wrong second name, config.yaml (it reuses the config candidate by
// mistake); this is corrected here to catalog.yml then catalog.yaml.
var newCatalogCandidates = []string{"catalog.yml", "catalog.yaml"}

type newCatalog struct {
	Chaps   []interface{} `yaml:"CHAPS"`
	Predef  []string      `yaml:"PREDEF"`
	Postdef []string      `yaml:"POSTDEF"`
}

// recognizeCatalogFiles populates p's catalog fields (Parts XOR Chapters,
// PredefDocuments, PostdefDocuments, CatalogFiles) by trying the new
// format first, then falling back to the legacy CHAPS/PREDEF/POSTDEF/PART
// format.
func recognizeCatalogFiles(p *Project) error {
	ok, err := recognizeNewCatalogFiles(p)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return recognizeLegacyCatalogFiles(p)
}

func recognizeNewCatalogFiles(p *Project) (bool, error) {
	for _, name := range newCatalogCandidates {
		path := filepath.Join(p.SourceDir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return false, fmt.Errorf("project: reading %q: %w", path, err)
		}
		var cat newCatalog
		if err := yaml.Unmarshal(data, &cat); err != nil {
			return false, fmt.Errorf("project: parsing %q: %w", path, err)
		}
		if len(cat.Chaps) == 0 {
			continue
		}
		if err := parseNewCatalog(p, cat); err != nil {
			return false, fmt.Errorf("project: %q: %w", path, err)
		}
		p.CatalogFiles = []string{name}
		return true, nil
	}
	return false, nil
}

// parseNewCatalog implements pyrev._try_parse_catalog_file's structure
// detection: if the first CHAPS element is a mapping, the catalog is
// parts-with-chapters (each element a one-entry mapping from part title to
// an ordered document list); otherwise CHAPS is a flat document list.
func parseNewCatalog(p *Project, cat newCatalog) error {
	if _, isMap := cat.Chaps[0].(map[string]interface{}); isMap {
		parts := make([]Part, 0, len(cat.Chaps))
		for _, elem := range cat.Chaps {
			m, ok := elem.(map[string]interface{})
			if !ok || len(m) != 1 {
				return fmt.Errorf("malformed CHAPS element: expected a one-entry mapping, got %#v", elem)
			}
			for title, rawDocs := range m {
				docs, err := stringSlice(rawDocs)
				if err != nil {
					return fmt.Errorf("part %q: %w", title, err)
				}
				for _, doc := range docs {
					if err := validateDocument(p.SourceDir, doc); err != nil {
						return err
					}
				}
				parts = append(parts, Part{Title: title, Documents: docs})
			}
		}
		p.Parts = parts
	} else {
		docs, err := stringSliceFromAny(cat.Chaps)
		if err != nil {
			return err
		}
		for _, doc := range docs {
			if err := validateDocument(p.SourceDir, doc); err != nil {
				return err
			}
		}
		p.Chapters = docs
	}

	for _, doc := range cat.Predef {
		if err := validateDocument(p.SourceDir, doc); err != nil {
			return err
		}
	}
	for _, doc := range cat.Postdef {
		if err := validateDocument(p.SourceDir, doc); err != nil {
			return err
		}
	}
	p.PredefDocuments = cat.Predef
	p.PostdefDocuments = cat.Postdef
	return nil
}

func stringSlice(v interface{}) ([]string, error) {
	raw, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected a sequence of document names, got %#v", v)
	}
	return stringSliceFromAny(raw)
}

func stringSliceFromAny(raw []interface{}) ([]string, error) {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a document name string, got %#v", item)
		}
		out = append(out, s)
	}
	return out, nil
}

// validateDocument implements pyrev's _is_appropriate_re_file: the name
// must exist directly under sourceDir, not be a symlink, and carry the
// markup extension.
func validateDocument(sourceDir, name string) error {
	if !strings.HasSuffix(name, ".re") {
		return fmt.Errorf("document %q does not have the .re extension", name)
	}
	if filepath.Base(name) != name {
		return fmt.Errorf("document %q is not a plain filename within the source directory", name)
	}
	path := filepath.Join(sourceDir, name)
	info, err := os.Lstat(path)
	if err != nil {
		return fmt.Errorf("document %q: %w", name, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("document %q is a symlink, not a regular file", name)
	}
	return nil
}

// recognizeLegacyCatalogFiles implements the legacy CHAPS/PREDEF/POSTDEF/
// PART format: CHAPS is required; PREDEF, POSTDEF, PART are optional. When
// PART has k titles, CHAPS is split on blank lines into at most k groups;
// a blank line beyond the (k-1)th boundary is ignored, and any remaining
// documents are appended to the last part.
func recognizeLegacyCatalogFiles(p *Project) error {
	chapsPath := filepath.Join(p.SourceDir, "CHAPS")
	if _, err := os.Stat(chapsPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("project: no catalog found in %q (tried %v, CHAPS)", p.SourceDir, newCatalogCandidates)
		}
		return fmt.Errorf("project: reading %q: %w", chapsPath, err)
	}

	catalogFiles := []string{"CHAPS"}

	predef, err := readOptionalLegacyList(p.SourceDir, "PREDEF", &catalogFiles)
	if err != nil {
		return err
	}
	postdef, err := readOptionalLegacyList(p.SourceDir, "POSTDEF", &catalogFiles)
	if err != nil {
		return err
	}
	partTitles, hasPart, err := readLegacyPartTitles(p.SourceDir, &catalogFiles)
	if err != nil {
		return err
	}

	chapLines, chapBlanks, err := readLegacyChapsWithBlanks(chapsPath)
	if err != nil {
		return err
	}

	for _, doc := range predef {
		if err := validateDocument(p.SourceDir, doc); err != nil {
			return err
		}
	}
	for _, doc := range postdef {
		if err := validateDocument(p.SourceDir, doc); err != nil {
			return err
		}
	}
	for _, doc := range chapLines {
		if err := validateDocument(p.SourceDir, doc); err != nil {
			return err
		}
	}

	p.PredefDocuments = predef
	p.PostdefDocuments = postdef
	p.CatalogFiles = catalogFiles

	if hasPart && len(partTitles) > 0 {
		p.Parts = splitIntoParts(partTitles, chapLines, chapBlanks)
	} else {
		p.Chapters = chapLines
	}
	return nil
}

func readOptionalLegacyList(sourceDir, name string, catalogFiles *[]string) ([]string, error) {
	path := filepath.Join(sourceDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("project: reading %q: %w", path, err)
	}
	*catalogFiles = append(*catalogFiles, name)
	return splitNonBlankLines(string(data)), nil
}

func readLegacyPartTitles(sourceDir string, catalogFiles *[]string) ([]string, bool, error) {
	path := filepath.Join(sourceDir, "PART")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("project: reading %q: %w", path, err)
	}
	*catalogFiles = append(*catalogFiles, "PART")
	var titles []string
	for _, line := range strings.Split(string(data), "\n") {
		titles = append(titles, strings.TrimRight(line, "\r"))
	}
	for len(titles) > 0 && titles[len(titles)-1] == "" {
		titles = titles[:len(titles)-1]
	}
	return titles, true, nil
}

func splitNonBlankLines(data string) []string {
	var out []string
	scanner := bufio.NewScanner(strings.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// readLegacyChapsWithBlanks returns CHAPS's non-blank document names, and
// the index (into that slice) after which each blank line in the raw file
// occurred, preserving the part-boundary information a filtered list
// would lose.
func readLegacyChapsWithBlanks(path string) (lines []string, blanksAfter []int, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("project: reading %q: %w", path, err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(data)))
	for scanner.Scan() {
		raw := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			blanksAfter = append(blanksAfter, len(lines))
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines, blanksAfter, nil
}

// splitIntoParts distributes chapLines into len(partTitles) groups using
// the boundaries recorded in blanksAfter: the first k-1 blank-line
// boundaries start a new part (k = number of titles); any boundary beyond
// the (k-1)th is ignored, and all chapters from the last boundary onward
// (including the overflow) belong to the final part.
func splitIntoParts(partTitles, chapLines []string, blanksAfter []int) []Part {
	k := len(partTitles)
	boundaries := blanksAfter
	if len(boundaries) > k-1 {
		boundaries = boundaries[:k-1]
	}

	parts := make([]Part, k)
	for i, title := range partTitles {
		parts[i].Title = title
	}

	start := 0
	for i, boundary := range boundaries {
		end := boundary
		if end > len(chapLines) {
			end = len(chapLines)
		}
		parts[i].Documents = append([]string(nil), chapLines[start:end]...)
		start = end
	}
	parts[len(boundaries)].Documents = append(parts[len(boundaries)].Documents, chapLines[start:]...)
	return parts
}

func recognizeDraftFiles(p *Project) error {
	entries, err := os.ReadDir(p.SourceDir)
	if err != nil {
		return fmt.Errorf("project: reading %q: %w", p.SourceDir, err)
	}
	known := make(map[string]bool, len(p.AllDocuments()))
	for _, doc := range p.AllDocuments() {
		known[doc] = true
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".re") {
			continue
		}
		if !known[e.Name()] {
			p.DraftDocuments = append(p.DraftDocuments, e.Name())
		}
	}
	return nil
}
