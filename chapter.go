package epubgen

import (
	"strings"
)

// ChapterFromHTML builds a Chapter from raw markup. The markup is
// sanitized; when title is empty it is derived from the first heading.
func ChapterFromHTML(title, markup string) (Chapter, error) {
	return chapterFromMarkup(title, markup)
}

// ChapterFromText builds a Chapter from plain text. Blank lines separate
// paragraphs; text content is XML-escaped.
func ChapterFromText(title, text string) Chapter {
	var buf strings.Builder
	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		buf.WriteString("<p>")
		buf.WriteString(xmlEscape(para))
		buf.WriteString("</p>\n")
	}
	return Chapter{Title: title, Content: strings.TrimSpace(buf.String())}
}

// ChapterFromFile builds a Chapter from a local file using FileFactory.
func ChapterFromFile(path string) (Chapter, error) {
	return FileFactory{}.Convert(path)
}

// ChapterFromURL builds a Chapter from a remote document using URLFactory.
func ChapterFromURL(url string) (Chapter, error) {
	return URLFactory{}.Convert(url)
}
