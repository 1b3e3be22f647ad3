package epubgen

import (
	"embed"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
)

// staticFS contains the fixed boilerplate resources copied verbatim into
// every build: the mimetype marker, the container descriptor, and the
// base stylesheets.
//
//go:embed static
var staticFS embed.FS

// copyStatic copies a named bundled resource into the destination
// directory, preserving its filename. The name is a path relative to the
// embedded static resource set (e.g., "css/styles.css").
func copyStatic(name, into string) error {
	src, err := staticFS.Open(path.Join("static", name))
	if err != nil {
		return fmt.Errorf("epubgen: open static %s: %w", name, err)
	}
	defer src.Close()
	return writeCopy(src, filepath.Join(into, path.Base(name)))
}

// copyFile copies a caller-supplied file into the destination directory,
// preserving its filename. Content is not transformed.
func copyFile(srcPath, into string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("epubgen: open %s: %w", srcPath, err)
	}
	defer src.Close()
	return writeCopy(src, filepath.Join(into, filepath.Base(srcPath)))
}

// writeCopy streams src into a newly-created file at dst.
func writeCopy(src io.Reader, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("epubgen: create %s: %w", dst, err)
	}
	if _, err := io.Copy(f, src); err != nil {
		f.Close()
		return fmt.Errorf("epubgen: copy to %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("epubgen: close %s: %w", dst, err)
	}
	return nil
}

// listDir returns the sorted filenames of the regular files in dir.
// Subdirectories are skipped.
func listDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("epubgen: read dir %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
