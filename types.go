package epubgen

import (
	"log/slog"
	"time"
)

// Spec is the immutable configuration for one ePub build.
// It is created by the caller before construction and never mutated by the
// builder; zero-value fields are replaced by defaults when the Builder is
// created (see NewBuilder).
type Spec struct {
	// Title is the required display title of the book.
	Title string

	// Creator is the attribution string (dc:creator). Defaults to "epubgen".
	Creator string

	// Subtitle is an optional secondary title shown on the cover page.
	Subtitle string

	// Language is an IETF-ish language tag (dc:language). Defaults to "en".
	Language string

	// Rights is the optional dc:rights text.
	Rights string

	// Publisher is the dc:publisher value. Defaults to "epubgen".
	Publisher string

	// Encoding is the text encoding used when writing rendered documents.
	// Defaults to "utf-8". Any encoding known to the WHATWG encoding index
	// (e.g., "iso-8859-1", "gbk") is accepted.
	Encoding string

	// Date is the creation timestamp (dc:date). Defaults to the build time.
	Date time.Time

	// Dir overrides the base path of the working directory. When empty,
	// a fresh unique temporary directory is allocated per build.
	Dir string

	// Factory converts content sources into chapters. Defaults to
	// SimpleFactory, a pass-through for already-normalized markup.
	Factory Factory

	// Stylesheets lists extra CSS files to bundle alongside the built-in
	// stylesheets. Paths are caller-supplied and copied byte-for-byte.
	Stylesheets []string

	// Logger receives debug traces during the build. Defaults to a
	// discard logger.
	Logger *slog.Logger

	// Templates is the document template set. Defaults to the embedded
	// templates shipped with the package.
	Templates *TemplateSet
}

// Layout holds the five resolved filesystem paths of one build's working
// directory. It is created once at Begin, is immutable afterwards, and is
// owned by the Builder until Cleanup removes it.
type Layout struct {
	// Base is the working directory root.
	Base string

	// Content is the content root (OEBPS) holding body documents.
	Content string

	// MetaInf is the package-metadata directory (META-INF).
	MetaInf string

	// Images is the image subdirectory under the content root.
	Images string

	// Styles is the stylesheet subdirectory under the content root.
	Styles string
}

// Assignment carries the per-chapter identity used for cross-referencing
// between the navigation document and the content documents.
type Assignment struct {
	// ID is a stable identifier, unique per build by caller convention.
	ID string

	// Link is the chapter's filename within the content root. Link
	// uniqueness is not enforced; a duplicate silently overwrites the
	// earlier chapter file.
	Link string

	// PlayOrder defines the navigation sequence. It is caller-assigned
	// and not validated for contiguity or uniqueness.
	PlayOrder int
}

// Chapter is a normalized content page: a title plus body markup.
// Chapters are produced by a Factory (or the ChapterFrom* constructors)
// and are immutable once produced.
type Chapter struct {
	// Title is the chapter display title.
	Title string

	// Content is the body markup (inner XHTML, without html/head wrappers).
	Content string
}

// AssignedChapter is the ordered pairing of an Assignment and its Chapter.
// The builder's accumulator keeps these in submission order, which is the
// order used for manifest and spine emission regardless of PlayOrder.
type AssignedChapter struct {
	Assignment Assignment
	Chapter    Chapter
}

// ImageFile describes an image discovered in the layout's image directory
// at index time, classified by file extension.
type ImageFile struct {
	// Name is the bare filename within the images directory.
	Name string

	// Ext is the lowercase file extension without the dot.
	Ext string

	// MediaType is the MIME type derived from Ext.
	MediaType string
}
