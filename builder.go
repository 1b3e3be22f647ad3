package epubgen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Builder constructs one ePub book through a staged build: Begin
// scaffolds the working directory, RenderChapter emits chapter documents,
// Index renders the navigation and package manifest, and Compress
// packages everything into the final archive. Cleanup (or Close, for use
// with defer) removes the working directory on every exit path.
//
// A Builder is not safe for concurrent use; concurrent builds must use
// separate Builder instances.
type Builder struct {
	uid       string
	spec      Spec
	logger    *slog.Logger
	factory   Factory
	templates *TemplateSet

	layout   *Layout
	chapters []AssignedChapter
	next     int
}

// NewBuilder creates a Builder for the given Spec, filling in defaults
// for any zero-value optional fields. The title is required.
func NewBuilder(spec Spec) (*Builder, error) {
	if spec.Title == "" {
		return nil, ErrMissingTitle
	}
	if spec.Creator == "" {
		spec.Creator = "epubgen"
	}
	if spec.Publisher == "" {
		spec.Publisher = "epubgen"
	}
	if spec.Language == "" {
		spec.Language = "en"
	}
	if spec.Encoding == "" {
		spec.Encoding = "utf-8"
	}
	if spec.Date.IsZero() {
		spec.Date = time.Now()
	}
	if spec.Factory == nil {
		spec.Factory = SimpleFactory{}
	}
	if spec.Logger == nil {
		spec.Logger = slog.New(slog.DiscardHandler)
	}

	return &Builder{
		uid:       uuid.NewString(),
		spec:      spec,
		logger:    spec.Logger,
		factory:   spec.Factory,
		templates: spec.Templates,
	}, nil
}

// UID returns the unique identifier assigned to this build.
func (b *Builder) UID() string {
	return b.uid
}

// Spec returns the build configuration.
func (b *Builder) Spec() Spec {
	return b.spec
}

// Chapters returns the accumulated assigned chapters in submission order.
func (b *Builder) Chapters() []AssignedChapter {
	return append([]AssignedChapter(nil), b.chapters...)
}

// Begin starts the build: it loads the document templates (cached for the
// build's lifetime), creates the working layout, copies the static and
// user-supplied assets into it, and renders the cover page. Begin is
// idempotent; when the build has already started it returns the existing
// layout without touching the filesystem.
//
// When a step fails after the working directory has been created, the
// partial directory stays owned by the builder so Cleanup (or Close)
// removes it.
func (b *Builder) Begin() (Layout, error) {
	if b.templates == nil {
		ts, err := NewTemplateSet()
		if err != nil {
			return Layout{}, err
		}
		b.templates = ts
	}
	if b.layout != nil {
		return *b.layout, nil
	}

	layout, err := newLayout(b.spec.Dir)
	if err != nil {
		return Layout{}, err
	}
	// Adopt the layout before populating it so Cleanup can remove a
	// half-built scaffold when a later step fails.
	b.layout = &layout

	if err := copyStatic("mimetype", layout.Base); err != nil {
		return Layout{}, err
	}
	if err := copyStatic("container.xml", layout.MetaInf); err != nil {
		return Layout{}, err
	}
	if err := copyStatic("css/coverpage.css", layout.Styles); err != nil {
		return Layout{}, err
	}
	if err := copyStatic("css/styles.css", layout.Styles); err != nil {
		return Layout{}, err
	}
	for _, path := range b.spec.Stylesheets {
		if err := copyFile(path, layout.Styles); err != nil {
			return Layout{}, err
		}
	}

	styles, err := listDir(layout.Styles)
	if err != nil {
		return Layout{}, err
	}
	cover, err := b.templates.Render(pageTemplate, pageContext{
		Spec:   b.spec,
		Styles: styles,
	})
	if err != nil {
		return Layout{}, err
	}
	coverPath := filepath.Join(layout.Content, "coverpage.xhtml")
	if err := writeDocument(coverPath, cover, b.spec.Encoding); err != nil {
		return Layout{}, err
	}

	b.logger.Debug("build started", "title", b.spec.Title, "base", layout.Base)
	return layout, nil
}

// NextAssignment returns a fresh sequential Assignment
// ("chapter_N" / "N.xhtml" / play-order N) for callers that do not need
// custom identifiers or links.
func (b *Builder) NextAssignment() Assignment {
	b.next++
	return Assignment{
		ID:        fmt.Sprintf("chapter_%d", b.next),
		Link:      fmt.Sprintf("%d.xhtml", b.next),
		PlayOrder: b.next,
	}
}

// RenderSource converts a content source through the configured Factory
// and renders the resulting chapter. The conversion error, if any, is
// returned to the caller with the build still started, so the source may
// be retried or skipped.
func (b *Builder) RenderSource(assign Assignment, source string) error {
	if b.layout == nil {
		return fmt.Errorf("epubgen: render chapter: %w", ErrNotStarted)
	}
	ch, err := b.factory.Convert(source)
	if err != nil {
		return err
	}
	return b.RenderChapter(assign, ch)
}

// RenderChapter renders an already-normalized chapter into the build:
// local image references are copied into the image directory and
// rewritten, the page template is applied, the document is written at the
// assignment's link, and the pair is recorded in the accumulator.
func (b *Builder) RenderChapter(assign Assignment, ch Chapter) error {
	if b.layout == nil {
		return fmt.Errorf("epubgen: render chapter: %w", ErrNotStarted)
	}

	content, err := localizeImages(ch.Content, b.layout.Images, b.logger)
	if err != nil {
		return fmt.Errorf("epubgen: render chapter %q: %v: %w", assign.ID, err, ErrConvert)
	}
	ch.Content = content

	styles, err := listDir(b.layout.Styles)
	if err != nil {
		return err
	}
	page, err := b.templates.Render(pageTemplate, pageContext{
		Spec:    b.spec,
		Chapter: &ch,
		Styles:  styles,
	})
	if err != nil {
		return err
	}

	dest := filepath.Join(b.layout.Content, assign.Link)
	if err := writeDocument(dest, page, b.spec.Encoding); err != nil {
		return err
	}

	b.record(assign, ch)
	return nil
}

// record appends the assigned chapter to the accumulator. No
// deduplication or play-order validation is performed; downstream
// rendering consumes the list in insertion order.
func (b *Builder) record(assign Assignment, ch Chapter) {
	b.chapters = append(b.chapters, AssignedChapter{Assignment: assign, Chapter: ch})
	b.logger.Debug("rendered chapter",
		"id", assign.ID, "link", assign.Link, "playOrder", assign.PlayOrder, "title", ch.Title)
}

// Finalize renders the index documents and compresses the build,
// returning the final archive path. An empty dest selects the default
// location (sanitized title in the current directory).
func (b *Builder) Finalize(dest string) (string, error) {
	if err := b.Index(); err != nil {
		return "", err
	}
	return b.Compress(dest)
}

// Cleanup recursively removes the working directory and resets the
// builder to its uninitialized state. Calling Cleanup when no build has
// begun is a no-op; missing files are ignored.
func (b *Builder) Cleanup() error {
	if b.layout == nil {
		return nil
	}
	if err := os.RemoveAll(b.layout.Base); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("epubgen: cleanup %s: %w", b.layout.Base, err)
	}
	b.logger.Debug("cleaned up build", "base", b.layout.Base)
	b.layout = nil
	b.chapters = nil
	b.next = 0
	return nil
}

// Close releases the build's working directory. It exists so the whole
// build can be scoped with defer:
//
//	b, err := epubgen.NewBuilder(spec)
//	...
//	defer b.Close()
//
// Close is idempotent.
func (b *Builder) Close() error {
	return b.Cleanup()
}
