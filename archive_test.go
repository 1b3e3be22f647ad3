package epubgen

import (
	"archive/zip"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFinalize_Scenario(t *testing.T) {
	b, _ := beginTestBuild(t, Spec{Title: "Test Book"})

	assign := Assignment{ID: "c1", Link: "chap1.xhtml", PlayOrder: 1}
	mustRenderChapter(t, b, assign, Chapter{Title: "Chapter One", Content: "<p>Hello</p>"})

	dest := filepath.Join(t.TempDir(), "Test Book.epub")
	path, err := b.Finalize(dest)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if filepath.Base(path) != "Test Book.epub" {
		t.Errorf("archive name = %q, want Test Book.epub", filepath.Base(path))
	}

	contents, _ := readArchive(t, path)
	for _, name := range []string{
		"mimetype",
		"META-INF/container.xml",
		"OEBPS/coverpage.xhtml",
		"OEBPS/chap1.xhtml",
		"OEBPS/book.ncx",
		"OEBPS/book.opf",
		"OEBPS/toc.xhtml",
		"OEBPS/styles/styles.css",
		"OEBPS/styles/coverpage.css",
	} {
		if _, ok := contents[name]; !ok {
			t.Errorf("archive missing %s", name)
		}
	}
	if !strings.Contains(contents["OEBPS/chap1.xhtml"], "<p>Hello</p>") {
		t.Error("chapter body not present in archive")
	}
}

func TestCompress_MarkerFirstAndStored(t *testing.T) {
	b, _ := beginTestBuild(t, Spec{Title: "Marker"})
	mustRenderChapter(t, b,
		Assignment{ID: "c1", Link: "1.xhtml", PlayOrder: 1},
		Chapter{Title: "One", Content: "<p>one</p>"})

	path, err := b.Finalize(filepath.Join(t.TempDir(), "out.epub"))
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	contents, files := readArchive(t, path)
	if len(files) == 0 {
		t.Fatal("empty archive")
	}
	first := files[0]
	if first.Name != "mimetype" {
		t.Errorf("first entry = %q, want mimetype", first.Name)
	}
	if first.Method != zip.Store {
		t.Errorf("mimetype method = %d, want Store", first.Method)
	}
	if contents["mimetype"] != "application/epub+zip" {
		t.Errorf("mimetype content = %q", contents["mimetype"])
	}
	for _, f := range files[1:] {
		if f.Method != zip.Deflate {
			t.Errorf("entry %s method = %d, want Deflate", f.Name, f.Method)
		}
	}
}

func TestCompress_RoundTrip(t *testing.T) {
	b, layout := beginTestBuild(t, Spec{Title: "RoundTrip"})
	mustRenderChapter(t, b,
		Assignment{ID: "c1", Link: "1.xhtml", PlayOrder: 1},
		Chapter{Title: "One", Content: "<p>one</p>"})
	if err := b.Index(); err != nil {
		t.Fatalf("Index: %v", err)
	}

	// Snapshot the working layout immediately before Compress.
	want := make(map[string]bool)
	err := filepath.WalkDir(layout.Base, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(layout.Base, path)
		if err != nil {
			return err
		}
		want[filepath.ToSlash(rel)] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk layout: %v", err)
	}

	path, err := b.Compress(filepath.Join(t.TempDir(), "rt.epub"))
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}

	_, files := readArchive(t, path)
	got := make(map[string]bool, len(files))
	for _, f := range files {
		got[f.Name] = true
	}

	for name := range want {
		if !got[name] {
			t.Errorf("archive missing layout file %s", name)
		}
	}
	for name := range got {
		if !want[name] {
			t.Errorf("archive has extra entry %s", name)
		}
	}
}

func TestCompress_NoTemporaryLeftover(t *testing.T) {
	b, _ := beginTestBuild(t, Spec{Title: "Atomic"})
	if err := b.Index(); err != nil {
		t.Fatalf("Index: %v", err)
	}

	dir := t.TempDir()
	if _, err := b.Compress(filepath.Join(dir, "atomic.epub")); err != nil {
		t.Fatalf("Compress: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".zip") {
			t.Errorf("temporary archive %s left behind", e.Name())
		}
	}
}

func TestResolveArchivePath(t *testing.T) {
	tests := []struct {
		dest, title, want string
	}{
		{"", "Test Book", "Test Book.epub"},
		{"", "a/b:c", "a-b-c.epub"},
		{"out.epub", "ignored", "out.epub"},
		{"out", "ignored", "out.epub"},
		{filepath.Join("sub", "dir", "x.epub"), "ignored", filepath.Join("sub", "dir", "x.epub")},
		{"", "", "book.epub"},
	}
	for _, tt := range tests {
		if got := resolveArchivePath(tt.dest, tt.title); got != tt.want {
			t.Errorf("resolveArchivePath(%q, %q) = %q, want %q", tt.dest, tt.title, got, tt.want)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Plain Title", "Plain Title"},
		{"a/b\\c:d", "a-b-c-d"},
		{"  spaced  ", "spaced"},
		{"", "book"},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
