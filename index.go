package epubgen

import (
	"fmt"
	"path/filepath"
	"strings"
)

// imageMediaTypes maps known image file extensions to their MIME types.
// Unknown extensions fall back to "image/" + extension, mirroring the
// extension-as-label classification of the manifest.
var imageMediaTypes = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"svg":  "image/svg+xml",
	"webp": "image/webp",
}

// classifyImage builds an ImageFile for a filename in the image directory.
func classifyImage(name string) ImageFile {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	mt, ok := imageMediaTypes[ext]
	if !ok {
		mt = "image/" + ext
	}
	return ImageFile{Name: name, Ext: ext, MediaType: mt}
}

// Index renders the navigation document (book.ncx), the package manifest
// document (book.opf), and the in-book table of contents (toc.xhtml) into
// the content root from the accumulated chapters plus the style and image
// files currently present in the layout. It must be called after Begin and before Compress; image files
// referenced by chapters must already reside in the image directory,
// since the manifest enumerates that directory's contents.
//
// Neither link uniqueness nor image existence is validated here; both
// are the caller's responsibility.
func (b *Builder) Index() error {
	if b.layout == nil {
		return fmt.Errorf("epubgen: index: %w", ErrNotStarted)
	}

	styles, err := listDir(b.layout.Styles)
	if err != nil {
		return err
	}
	names, err := listDir(b.layout.Images)
	if err != nil {
		return err
	}
	images := make([]ImageFile, 0, len(names))
	for _, name := range names {
		images = append(images, classifyImage(name))
	}

	ctx := indexContext{
		UID:      b.uid,
		Spec:     b.spec,
		Styles:   styles,
		Chapters: b.chapters,
		Images:   images,
	}

	b.logger.Debug("writing index documents", "title", b.spec.Title,
		"chapters", len(b.chapters), "images", len(images))

	for _, doc := range []struct {
		tmpl, name string
	}{
		{ncxTemplate, "book.ncx"},
		{opfTemplate, "book.opf"},
		{tocTemplate, "toc.xhtml"},
	} {
		text, err := b.templates.Render(doc.tmpl, ctx)
		if err != nil {
			return err
		}
		dest := filepath.Join(b.layout.Content, doc.name)
		if err := writeDocument(dest, text, b.spec.Encoding); err != nil {
			return err
		}
	}
	return nil
}
