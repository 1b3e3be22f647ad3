package epubgen

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// markerFile is the archive's format marker entry. It must be the first
// member of the archive and must be stored without compression; readers
// reject archives that violate either requirement.
const markerFile = "mimetype"

// Compress walks the completed working layout and writes every file into
// a compressed archive at its base-relative path, then finalizes the
// archive under the destination filename. The marker entry is written
// first and stored uncompressed; all other members are deflated. The
// archive is built under a temporary name and renamed into place on
// completion, so a partially-written file never appears at the
// destination.
//
// An empty dest defaults to the sanitized build title with the ".epub"
// extension in the current directory.
func (b *Builder) Compress(dest string) (string, error) {
	if b.layout == nil {
		return "", fmt.Errorf("epubgen: compress: %w", ErrNotStarted)
	}

	final := resolveArchivePath(dest, b.spec.Title)
	tmp := strings.TrimSuffix(final, ".epub") + ".zip"

	b.logger.Debug("zipping content", "title", b.spec.Title, "dest", final)

	if err := writeArchive(b.layout.Base, tmp); err != nil {
		return "", err
	}
	if err := os.Rename(tmp, final); err != nil {
		return "", fmt.Errorf("epubgen: rename %s: %w", final, err)
	}
	return final, nil
}

// resolveArchivePath builds the final archive path from an optional
// caller-supplied destination and the build title, forcing the ".epub"
// extension.
func resolveArchivePath(dest, title string) string {
	dir, name := ".", sanitizeFilename(title)
	if dest != "" {
		name = filepath.Base(dest)
		if d := filepath.Dir(dest); d != "" {
			dir = d
		}
	}
	name = strings.TrimSuffix(name, ".epub") + ".epub"
	return filepath.Join(dir, name)
}

// sanitizeFilename strips path separators and control characters from a
// title so it can serve as a filename.
func sanitizeFilename(title string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':':
			return '-'
		case r < 0x20:
			return -1
		}
		return r
	}, title)
	clean = strings.TrimSpace(clean)
	if clean == "" {
		clean = "book"
	}
	return clean
}

// writeArchive zips the directory tree rooted at base into a new archive
// at dest. The marker file at the tree root is written first with the
// Store method; everything else uses Deflate at forward-slash relative
// paths.
func writeArchive(base, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("epubgen: create archive %s: %w", dest, err)
	}
	zw := zip.NewWriter(f)

	err = func() error {
		if err := writeMarker(zw, base); err != nil {
			return err
		}
		return filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(base, path)
			if err != nil {
				return err
			}
			if rel == markerFile {
				return nil // already written, stored, as the first member
			}
			return writeMember(zw, path, filepath.ToSlash(rel))
		})
	}()
	if err != nil {
		zw.Close()
		f.Close()
		return fmt.Errorf("epubgen: write archive %s: %w", dest, err)
	}

	if err := zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("epubgen: finalize archive %s: %w", dest, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("epubgen: close archive %s: %w", dest, err)
	}
	return nil
}

// writeMarker writes the uncompressed marker entry from the layout root.
func writeMarker(zw *zip.Writer, base string) error {
	data, err := os.ReadFile(filepath.Join(base, markerFile))
	if err != nil {
		return err
	}
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:   markerFile,
		Method: zip.Store,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// writeMember writes one deflated archive member from the file at path.
func writeMember(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
