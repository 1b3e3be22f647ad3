package epubgen

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
)

// templateFS contains the document templates rendered during a build:
// the page template (chapters and cover page) and the two index templates
// (navigation NCX and package manifest OPF).
//
//go:embed templates
var templateFS embed.FS

// Template names recognised by TemplateSet.Render.
const (
	pageTemplate = "page.xhtml.tmpl"
	ncxTemplate  = "book.ncx.tmpl"
	opfTemplate  = "book.opf.tmpl"
	tocTemplate  = "toc.xhtml.tmpl"
)

// TemplateSet is an explicit handle on the parsed document templates.
// Construct one with NewTemplateSet (or let the Builder fall back to the
// embedded defaults) and inject it through Spec.Templates. There is no
// package-level shared engine.
//
// A TemplateSet is safe for concurrent use once constructed.
type TemplateSet struct {
	root *template.Template
}

// templateFuncs are the helper functions available inside templates.
// "xml" escapes text content and attribute values; everything else is
// emitted verbatim (text/template does not auto-escape).
var templateFuncs = template.FuncMap{
	"xml": xmlEscape,
}

// NewTemplateSet parses the embedded document templates and returns a
// handle for rendering them.
func NewTemplateSet() (*TemplateSet, error) {
	root, err := template.New("epubgen").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("epubgen: parse templates: %w (%w)", err, ErrTemplate)
	}
	return &TemplateSet{root: root}, nil
}

// Render executes the named template with the given context and returns
// the rendered text. Unknown template names fail with ErrTemplate.
func (ts *TemplateSet) Render(name string, data any) (string, error) {
	t := ts.root.Lookup(name)
	if t == nil {
		return "", fmt.Errorf("epubgen: no template %q: %w", name, ErrTemplate)
	}
	var buf strings.Builder
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("epubgen: render %s: %w (%w)", name, err, ErrTemplate)
	}
	return buf.String(), nil
}

// xmlEscape escapes the five XML special characters in s.
func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}

// pageContext is the keyed value set fed to the page template. Chapter is
// nil when rendering the cover page.
type pageContext struct {
	Spec    Spec
	Chapter *Chapter
	Styles  []string
}

// indexContext is the shared context for the navigation and package
// manifest templates.
type indexContext struct {
	UID      string
	Spec     Spec
	Styles   []string
	Chapters []AssignedChapter
	Images   []ImageFile
}
