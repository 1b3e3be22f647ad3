package epubgen

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// localizeImages resolves local image references inside body markup.
// Every <img src> (and SVG <image href>) pointing at a local file is
// copied into imagesDir (deduplicating by filename) and the reference
// is rewritten to the final path relative to the content root. Remote
// references (http, data URIs) are left untouched. A reference whose
// source file cannot be read is logged and left unchanged rather than
// failing the chapter.
func localizeImages(markup, imagesDir string, logger *slog.Logger) (string, error) {
	_, body, err := parseFragment(markup)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", nil
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Img:
				localizeAttr(n, "", "src", imagesDir, logger)
			case atom.Image:
				localizeAttr(n, "", "href", imagesDir, logger)
				localizeAttr(n, "xlink", "href", imagesDir, logger)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(body)

	return renderChildren(body)
}

// localizeAttr copies a single local image reference into imagesDir and
// rewrites the attribute value in place.
func localizeAttr(n *html.Node, namespace, key, imagesDir string, logger *slog.Logger) {
	for i, attr := range n.Attr {
		if !matchAttr(attr, namespace, key) {
			continue
		}
		src := strings.TrimSpace(attr.Val)
		if src == "" || hasURIScheme(src) || strings.HasPrefix(src, "images/") {
			continue
		}
		name := filepath.Base(src)
		dest := filepath.Join(imagesDir, name)
		if _, err := os.Stat(dest); err != nil {
			if err := copyFile(src, imagesDir); err != nil {
				logger.Warn("skipping unreadable image reference", "src", src, "error", err)
				continue
			}
		}
		n.Attr[i].Val = "images/" + name
	}
}
