package epubgen

import (
	"fmt"
	"os"
	"path/filepath"
)

// newLayout creates the required directory tree for one build under base.
// When base is empty a fresh unique temporary directory is allocated.
// The four nested directories (content root, package-metadata root, images,
// styles) must not already exist; calling newLayout twice for the same base
// fails on the second call.
func newLayout(base string) (Layout, error) {
	if base == "" {
		dir, err := os.MkdirTemp("", "epubgen-")
		if err != nil {
			return Layout{}, fmt.Errorf("epubgen: create temp dir: %w", err)
		}
		base = dir
	} else if err := os.MkdirAll(base, 0o755); err != nil {
		return Layout{}, fmt.Errorf("epubgen: create base dir %s: %w", base, err)
	}

	l := Layout{
		Base:    base,
		Content: filepath.Join(base, "OEBPS"),
		MetaInf: filepath.Join(base, "META-INF"),
	}
	l.Images = filepath.Join(l.Content, "images")
	l.Styles = filepath.Join(l.Content, "styles")

	for _, dir := range []string{l.Content, l.MetaInf, l.Images, l.Styles} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return Layout{}, fmt.Errorf("epubgen: create dir %s: %w", dir, err)
		}
	}
	return l, nil
}
