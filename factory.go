package epubgen

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Factory converts one content source descriptor into a normalized
// Chapter. What the source string denotes is up to the implementation:
// raw markup for SimpleFactory, a filesystem path for FileFactory, a URL
// for URLFactory. Failures wrap ErrConvert.
//
// Callers may supply their own implementations through Spec.Factory
// without touching the builder.
type Factory interface {
	Convert(source string) (Chapter, error)
}

// SimpleFactory is the default pass-through strategy for sources that are
// already markup. The markup is sanitized (scripts, styles, and unsafe
// attributes removed) and the chapter title is taken from the first
// heading element, falling back to "Untitled".
type SimpleFactory struct{}

// Convert implements Factory.
func (SimpleFactory) Convert(source string) (Chapter, error) {
	return chapterFromMarkup("", source)
}

// FileFactory converts filesystem paths into chapters. Files with a
// ".txt" extension are treated as plain text and paragraph-wrapped;
// everything else is parsed as markup.
type FileFactory struct{}

// Convert implements Factory.
func (FileFactory) Convert(source string) (Chapter, error) {
	data, err := os.ReadFile(source)
	if err != nil {
		return Chapter{}, fmt.Errorf("epubgen: read %s: %v: %w", source, err, ErrConvert)
	}
	title := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if strings.EqualFold(filepath.Ext(source), ".txt") {
		return ChapterFromText(title, string(data)), nil
	}
	ch, err := chapterFromMarkup("", string(data))
	if err != nil {
		return Chapter{}, err
	}
	if ch.Title == "Untitled" {
		ch.Title = title
	}
	return ch, nil
}

// URLFactory converts remote URLs into chapters by fetching them over
// HTTP. Transient fetch failures are retried with a fixed delay.
type URLFactory struct {
	// Client is the HTTP client to use. Defaults to a client with a
	// 30-second timeout.
	Client *http.Client

	// Attempts is the total number of fetch attempts. Defaults to 3.
	Attempts uint

	// Delay is the wait between attempts. Defaults to one second.
	Delay time.Duration
}

// Convert implements Factory.
func (f URLFactory) Convert(source string) (Chapter, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	attempts := f.Attempts
	if attempts == 0 {
		attempts = 3
	}
	delay := f.Delay
	if delay == 0 {
		delay = time.Second
	}

	var body []byte
	err := retry.Do(
		func() error {
			resp, err := client.Get(source)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("unexpected status: %s", resp.Status)
			}
			body, err = io.ReadAll(resp.Body)
			return err
		},
		retry.Attempts(attempts),
		retry.Delay(delay),
	)
	if err != nil {
		return Chapter{}, fmt.Errorf("epubgen: fetch %s: %v: %w", source, err, ErrConvert)
	}

	return chapterFromMarkup("", string(body))
}

// chapterFromMarkup sanitizes markup into a Chapter, deriving the title
// from the first heading when none is supplied.
func chapterFromMarkup(title, markup string) (Chapter, error) {
	if title == "" {
		title = extractHeading(markup)
	}
	if title == "" {
		title = "Untitled"
	}
	content, err := sanitizeFragment(markup)
	if err != nil {
		return Chapter{}, fmt.Errorf("epubgen: parse markup: %v: %w", err, ErrConvert)
	}
	return Chapter{Title: title, Content: content}, nil
}
