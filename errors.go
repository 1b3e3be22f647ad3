package epubgen

import "errors"

// Sentinel errors returned by the epubgen package.
var (
	// ErrNotStarted indicates a stage operation (render, index, compress)
	// was invoked on a Builder before Begin established the working layout.
	ErrNotStarted = errors.New("epubgen: build not started")

	// ErrConvert indicates a content source could not be converted into a
	// chapter by the configured Factory. The build stays in its started
	// state; the caller may retry with a different source or skip it.
	ErrConvert = errors.New("epubgen: cannot convert source")

	// ErrTemplate indicates a document template is missing or failed to
	// render. This is fatal to the current stage.
	ErrTemplate = errors.New("epubgen: template error")

	// ErrMissingTitle indicates the Spec has no display title, which is
	// the only required metadata field.
	ErrMissingTitle = errors.New("epubgen: spec has no title")

	// ErrInvalidManifest indicates a book manifest file failed schema
	// validation before the build was started.
	ErrInvalidManifest = errors.New("epubgen: invalid book manifest")
)
