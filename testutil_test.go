package epubgen

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"testing"
)

// newTestBuilder creates a Builder whose working directory and archive
// destination live under t.TempDir. It calls t.Fatal on any error and
// registers cleanup.
func newTestBuilder(t *testing.T, spec Spec) *Builder {
	t.Helper()
	if spec.Dir == "" {
		spec.Dir = filepath.Join(t.TempDir(), "work")
	}
	b, err := NewBuilder(spec)
	if err != nil {
		t.Fatalf("newTestBuilder: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	return b
}

// beginTestBuild creates a Builder and runs Begin, failing the test on error.
func beginTestBuild(t *testing.T, spec Spec) (*Builder, Layout) {
	t.Helper()
	b := newTestBuilder(t, spec)
	layout, err := b.Begin()
	if err != nil {
		t.Fatalf("beginTestBuild: Begin: %v", err)
	}
	return b, layout
}

// readArchive opens a produced archive and returns its member contents
// keyed by entry name, plus the ordered entry list.
func readArchive(t *testing.T, path string) (map[string]string, []*zip.File) {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("readArchive: open %s: %v", path, err)
	}
	t.Cleanup(func() { zr.Close() })

	contents := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("readArchive: open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("readArchive: read entry %s: %v", f.Name, err)
		}
		contents[f.Name] = string(data)
	}
	return contents, zr.File
}

// writeTestFile writes content to a file under dir and returns its path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTestFile: %v", err)
	}
	return path
}

// mustRenderChapter renders a chapter and fails the test on error.
func mustRenderChapter(t *testing.T, b *Builder, assign Assignment, ch Chapter) {
	t.Helper()
	if err := b.RenderChapter(assign, ch); err != nil {
		t.Fatalf("RenderChapter(%s): %v", assign.ID, err)
	}
}
