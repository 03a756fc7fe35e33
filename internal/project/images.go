package project

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// recognizeImageFiles associates image files under ImageDir with their
// parent documents. It implements pyrev._recognize_image_files's
// two-pointer merge walk over the sorted parent filenames and sorted
// image filenames: each image either belongs to a same-named
// subdirectory, or is claimed by the "<parent_id>-<id>.<ext>" naming
// convention, or is recorded as unmappable.
func recognizeImageFiles(p *Project) {
	imageDirPath := filepath.Join(p.SourceDir, p.ImageDir)
	info, err := os.Stat(imageDirPath)
	if err != nil || !info.IsDir() {
		return
	}

	parents := append([]string(nil), p.AllFilenames()...)
	sort.Strings(parents)

	entries, err := os.ReadDir(imageDirPath)
	if err != nil {
		return
	}
	images := make([]string, 0, len(entries))
	for _, e := range entries {
		images = append(images, e.Name())
	}
	sort.Strings(images)

	iParent, iImage := 0, 0
	for iParent < len(parents) && iImage < len(images) {
		parentFilename := parents[iParent]
		parentID := strings.TrimSuffix(parentFilename, filepath.Ext(parentFilename))
		imageFilename := images[iImage]
		relPath := path.Join(p.ImageDir, imageFilename)
		absPath := filepath.Join(imageDirPath, imageFilename)
		ext := filepath.Ext(imageFilename)
		head := strings.TrimSuffix(imageFilename, ext)

		if subInfo, err := os.Stat(absPath); err == nil && subInfo.IsDir() {
			switch {
			case parentID == imageFilename:
				subEntries, err := os.ReadDir(absPath)
				if err == nil {
					for _, sub := range subEntries {
						subExt := filepath.Ext(sub.Name())
						subID := strings.TrimSuffix(sub.Name(), subExt)
						p.Images[parentFilename] = append(p.Images[parentFilename], ProjectImage{
							RelativePath:   path.Join(relPath, sub.Name()),
							ParentDocument: parentFilename,
							ParentID:       parentID,
							ImageID:        subID,
							Extension:      subExt,
						})
					}
				}
				iImage++
				iParent++
			case parentID < imageFilename:
				if _, ok := p.Images[parentFilename]; !ok {
					p.Images[parentFilename] = nil
				}
				iParent++
			default:
				p.UnmappableImages = append(p.UnmappableImages, imageFilename)
				iImage++
			}
			continue
		}

		switch {
		case strings.HasPrefix(head, parentID+"-"):
			imageID := strings.TrimPrefix(head, parentID+"-")
			p.Images[parentFilename] = append(p.Images[parentFilename], ProjectImage{
				RelativePath:   relPath,
				ParentDocument: parentFilename,
				ParentID:       parentID,
				ImageID:        imageID,
				Extension:      ext,
			})
			iImage++
		case parentID < head:
			if _, ok := p.Images[parentFilename]; !ok {
				p.Images[parentFilename] = nil
			}
			iParent++
		default:
			p.UnmappableImages = append(p.UnmappableImages, imageFilename)
			iImage++
		}
	}
	// Images sorted after the last parent have no parent left to claim them.
	p.UnmappableImages = append(p.UnmappableImages, images[iImage:]...)
}
