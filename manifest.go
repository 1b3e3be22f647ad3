package epubgen

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// manifestSchema validates book manifest files before a build starts, so
// malformed manifests fail fast instead of mid-build.
const manifestSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["title"],
  "properties": {
    "title": {"type": "string", "minLength": 1},
    "creator": {"type": "string"},
    "subtitle": {"type": "string"},
    "language": {"type": "string"},
    "rights": {"type": "string"},
    "publisher": {"type": "string"},
    "encoding": {"type": "string"},
    "cover_image": {"type": "boolean"},
    "stylesheets": {"type": "array", "items": {"type": "string"}},
    "chapters": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "title": {"type": "string"},
          "id": {"type": "string"},
          "link": {"type": "string"},
          "file": {"type": "string"},
          "url": {"type": "string"},
          "text": {"type": "string"}
        },
        "anyOf": [
          {"required": ["file"]},
          {"required": ["url"]},
          {"required": ["text"]}
        ]
      }
    }
  }
}`

// Manifest describes a complete book build in a YAML file: metadata plus
// an ordered list of chapter sources. It is the input format of the
// epubgen CLI.
type Manifest struct {
	Title       string            `yaml:"title"`
	Creator     string            `yaml:"creator"`
	Subtitle    string            `yaml:"subtitle"`
	Language    string            `yaml:"language"`
	Rights      string            `yaml:"rights"`
	Publisher   string            `yaml:"publisher"`
	Encoding    string            `yaml:"encoding"`
	CoverImage  bool              `yaml:"cover_image"`
	Stylesheets []string          `yaml:"stylesheets"`
	Chapters    []ManifestChapter `yaml:"chapters"`
}

// ManifestChapter is one chapter source in a Manifest. Exactly one of
// File, URL, or Text supplies the content; Title, ID, and Link override
// the derived title and the sequential assignment.
type ManifestChapter struct {
	Title string `yaml:"title"`
	ID    string `yaml:"id"`
	Link  string `yaml:"link"`
	File  string `yaml:"file"`
	URL   string `yaml:"url"`
	Text  string `yaml:"text"`
}

// LoadManifest reads, schema-validates, and parses a YAML book manifest.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("epubgen: read manifest %s: %w", path, err)
	}
	return ParseManifest(data)
}

// ParseManifest parses manifest bytes, validating them against the
// manifest schema first. Validation failures wrap ErrInvalidManifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("epubgen: parse manifest: %v: %w", err, ErrInvalidManifest)
	}
	if err := validateManifest(doc); err != nil {
		return nil, err
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("epubgen: parse manifest: %v: %w", err, ErrInvalidManifest)
	}
	return &m, nil
}

// validateManifest checks a decoded manifest document against the schema.
// The document is round-tripped through JSON so the validator sees the
// canonical types it expects.
func validateManifest(doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("epubgen: normalize manifest: %v: %w", err, ErrInvalidManifest)
	}
	var normalized any
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return fmt.Errorf("epubgen: normalize manifest: %v: %w", err, ErrInvalidManifest)
	}

	schema, err := jsonschema.CompileString("manifest.schema.json", manifestSchema)
	if err != nil {
		return fmt.Errorf("epubgen: compile manifest schema: %w", err)
	}
	if err := schema.Validate(normalized); err != nil {
		return fmt.Errorf("epubgen: %v: %w", err, ErrInvalidManifest)
	}
	return nil
}

// spec builds the build configuration for this manifest.
func (m *Manifest) spec(logger *slog.Logger) Spec {
	return Spec{
		Title:       m.Title,
		Creator:     m.Creator,
		Subtitle:    m.Subtitle,
		Language:    m.Language,
		Rights:      m.Rights,
		Publisher:   m.Publisher,
		Encoding:    m.Encoding,
		Stylesheets: m.Stylesheets,
		Logger:      logger,
	}
}

// chapter materializes one manifest chapter from its source.
func (c ManifestChapter) chapter() (Chapter, error) {
	var (
		ch  Chapter
		err error
	)
	switch {
	case c.File != "":
		ch, err = ChapterFromFile(c.File)
	case c.URL != "":
		ch, err = ChapterFromURL(c.URL)
	case c.Text != "":
		ch = ChapterFromText(c.Title, c.Text)
	default:
		return Chapter{}, fmt.Errorf("epubgen: chapter has no source: %w", ErrInvalidManifest)
	}
	if err != nil {
		return Chapter{}, err
	}
	if c.Title != "" {
		ch.Title = c.Title
	}
	return ch, nil
}

// Build runs the full build described by the manifest and returns the
// final archive path. The working directory is cleaned up on every exit
// path.
func (m *Manifest) Build(dest string, logger *slog.Logger) (string, error) {
	b, err := NewBuilder(m.spec(logger))
	if err != nil {
		return "", err
	}
	defer b.Close()

	layout, err := b.Begin()
	if err != nil {
		return "", err
	}

	if m.CoverImage {
		if _, err := WriteCoverImage(b.spec.Title, b.spec.Creator, layout.Images); err != nil {
			return "", err
		}
	}

	for _, mc := range m.Chapters {
		ch, err := mc.chapter()
		if err != nil {
			return "", err
		}
		assign := b.NextAssignment()
		if mc.ID != "" {
			assign.ID = mc.ID
		}
		if mc.Link != "" {
			assign.Link = mc.Link
		}
		if err := b.RenderChapter(assign, ch); err != nil {
			return "", err
		}
	}

	return b.Finalize(dest)
}
