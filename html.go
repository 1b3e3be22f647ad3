package epubgen

import (
	"bytes"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// parseFragment parses body markup into a document tree and returns the
// <body> node. html.Parse wraps fragments in a full html/head/body
// skeleton, so a body node always exists for well-formed input.
func parseFragment(markup string) (*html.Node, *html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, nil, err
	}
	return doc, findElement(doc, atom.Body), nil
}

// renderChildren renders the child nodes of n back to markup.
func renderChildren(n *html.Node) (string, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", err
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

// sanitizeFragment normalizes raw markup into clean body content:
// <script> and <style> elements are removed, event handler attributes and
// unsafe URI values are stripped, and everything outside <body> is dropped.
func sanitizeFragment(markup string) (string, error) {
	_, body, err := parseFragment(markup)
	if err != nil {
		return "", err
	}
	if body == nil {
		return "", nil
	}
	cleanNode(body)
	return renderChildren(body)
}

// extractHeading returns the text of the first heading element (h1-h6)
// in the markup, or the empty string when none is present.
func extractHeading(markup string) string {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return ""
	}
	h := findHeading(doc)
	if h == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(h))
}

// headingAtoms is the set of heading tags checked by findHeading,
// in document order rather than rank order.
var headingAtoms = map[atom.Atom]bool{
	atom.H1: true,
	atom.H2: true,
	atom.H3: true,
	atom.H4: true,
	atom.H5: true,
	atom.H6: true,
}

// findHeading performs a depth-first search for the first heading element.
func findHeading(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && headingAtoms[n.DataAtom] {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findHeading(c); result != nil {
			return result
		}
	}
	return nil
}

// findElement performs a depth-first search for a node with the given atom tag.
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, a); result != nil {
			return result
		}
	}
	return nil
}

// nodeText concatenates the text content of the subtree rooted at n.
func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

// cleanNode recursively removes <script> and <style> elements and strips
// event handler attributes from the subtree rooted at n.
func cleanNode(n *html.Node) {
	var next *html.Node
	for c := n.FirstChild; c != nil; c = next {
		next = c.NextSibling
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			n.RemoveChild(c)
			continue
		}
		if c.Type == html.ElementNode {
			stripUnsafeAttributes(c)
		}
		cleanNode(c)
	}
}

// stripUnsafeAttributes removes event handler attributes (on*) and
// href/src values with disallowed URI schemes from the node.
func stripUnsafeAttributes(n *html.Node) {
	cleaned := n.Attr[:0]
	for _, attr := range n.Attr {
		keyLower := strings.ToLower(attr.Key)
		if strings.HasPrefix(keyLower, "on") {
			continue
		}
		if isURIAttribute(attr) && !isSafeURI(attr.Val) {
			continue
		}
		cleaned = append(cleaned, attr)
	}
	n.Attr = cleaned
}

// matchAttr checks if an html.Attribute matches the given namespace and key.
func matchAttr(attr html.Attribute, namespace, key string) bool {
	if namespace == "" {
		return attr.Key == key && attr.Namespace == ""
	}
	// For namespaced attributes, x/net/html may store them in different ways.
	// Check both namespace field and prefixed key.
	if attr.Namespace == namespace && attr.Key == key {
		return true
	}
	if attr.Key == namespace+":"+key {
		return true
	}
	return false
}

// isURIAttribute reports whether attr is an HTML attribute that may contain
// a URL and should be protocol-sanitized.
func isURIAttribute(attr html.Attribute) bool {
	if attr.Key == "href" || attr.Key == "src" {
		return true
	}
	if attr.Namespace == "xlink" && attr.Key == "href" {
		return true
	}
	return attr.Key == "xlink:href"
}

// isSafeURI validates URI values for href/src-like attributes.
// Allowed values:
//   - relative paths and fragments
//   - schemes: http, https, mailto
//   - data:image/*
func isSafeURI(raw string) bool {
	v := strings.TrimSpace(raw)
	if v == "" {
		return true
	}
	if strings.HasPrefix(v, "#") || strings.HasPrefix(v, "/") || strings.HasPrefix(v, "./") || strings.HasPrefix(v, "../") || strings.HasPrefix(v, "?") {
		return true
	}

	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	if u.Scheme == "" {
		return true
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return true
	case "data":
		return strings.HasPrefix(strings.ToLower(v), "data:image/")
	default:
		return false
	}
}

// hasURIScheme reports whether s starts with a URI scheme like "https:" or
// "data:".
func hasURIScheme(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	// RFC 3986: URI scheme must start with a letter.
	if !((s[0] >= 'A' && s[0] <= 'Z') || (s[0] >= 'a' && s[0] <= 'z')) {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == ':' {
			return i > 1
		}
		if !(c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')) {
			return false
		}
	}
	return false
}
