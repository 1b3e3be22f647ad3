// Package epubgen builds ePub books through a staged, stateful pipeline:
// scaffold a working directory, render chapter documents into it, render
// the navigation and package manifest from the accumulated chapters, and
// package the tree into the final archive.
//
// # Building a book
//
// Create a [Spec], wrap it in a [Builder], and drive the stages in order.
// Defer [Builder.Close] so the working directory is released on every
// exit path:
//
//	b, err := epubgen.NewBuilder(epubgen.Spec{Title: "My Book"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer b.Close()
//
//	if _, err := b.Begin(); err != nil {
//	    log.Fatal(err)
//	}
//	ch, _ := epubgen.ChapterFromHTML("Chapter One", "<p>Hello</p>")
//	if err := b.RenderChapter(b.NextAssignment(), ch); err != nil {
//	    log.Fatal(err)
//	}
//	path, err := b.Finalize("")
//
// [Builder.Begin] is idempotent; [Builder.RenderChapter], [Builder.Index],
// and [Builder.Compress] fail with [ErrNotStarted] when invoked first.
//
// # Chapters
//
// Chapters come from the [ChapterFromHTML], [ChapterFromText],
// [ChapterFromFile], and [ChapterFromURL] constructors, or from a
// pluggable [Factory] supplied through [Spec.Factory] and driven with
// [Builder.RenderSource]. The default [SimpleFactory] passes
// already-normalized markup through a sanitizer.
//
// # Ordering
//
// The builder records chapters in submission order, and that order
// drives manifest and spine emission. The navigation sequence is driven
// separately by each [Assignment.PlayOrder]; the two orders need not
// agree.
//
// # Manifest builds
//
// [LoadManifest] reads a YAML description of a whole book (metadata plus
// chapter sources) and [Manifest.Build] runs the complete pipeline; this
// is what the epubgen CLI does.
//
// A Builder is not safe for concurrent use. Concurrent builds need
// separate Builder instances, which by default allocate distinct
// temporary working directories.
package epubgen
