package project

import (
	"path"
	"strings"
)

// ResolveImage implements docparser.ProjectImageLookup: it looks up an
// "image" block's first parameter against the ProjectImages associated
// with parentDocument. found is true when imageID matches a
// ProjectImage's logical id directly. prefixedOnly is true when imageID
// instead matches the image's full on-disk basename (the
// "<parent_id>-<id>" form) rather than its bare logical id — the author
// wrote the prefixed filename where the bare id was expected.
func (p *Project) ResolveImage(parentDocument, imageID string) (found, prefixedOnly bool) {
	for _, im := range p.Images[parentDocument] {
		if im.ImageID == imageID {
			return true, false
		}
		base := strings.TrimSuffix(path.Base(im.RelativePath), im.Extension)
		if base == imageID {
			prefixedOnly = true
		}
	}
	return false, prefixedOnly
}
