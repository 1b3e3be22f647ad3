package epubgen

import (
	"strings"
	"testing"

	"golang.org/x/net/html"
)

func TestSanitizeFragment(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []string
		wantNot []string
	}{
		{
			name: "drops script and style elements",
			in:   `<p>keep</p><script>alert(1)</script><style>p{}</style>`,
			want: []string{"<p>keep</p>"},
			wantNot: []string{
				"<script>", "alert", "<style>",
			},
		},
		{
			name:    "strips event handlers",
			in:      `<a href="https://example.com" onclick="steal()">link</a>`,
			want:    []string{`href="https://example.com"`, "link"},
			wantNot: []string{"onclick", "steal"},
		},
		{
			name:    "strips javascript URIs",
			in:      `<a href="javascript:alert(1)">x</a>`,
			want:    []string{"<a>x</a>"},
			wantNot: []string{"javascript"},
		},
		{
			name: "keeps relative and data image URIs",
			in:   `<img src="images/pic.png"/><img src="data:image/png;base64,AAAA"/>`,
			want: []string{`src="images/pic.png"`, `src="data:image/png;base64,AAAA"`},
		},
		{
			name: "drops head content",
			in:   `<html><head><title>t</title></head><body><p>body</p></body></html>`,
			want: []string{"<p>body</p>"},
			wantNot: []string{
				"<title>",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sanitizeFragment(tt.in)
			if err != nil {
				t.Fatalf("sanitizeFragment: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(got, w) {
					t.Errorf("output missing %q:\n%s", w, got)
				}
			}
			for _, w := range tt.wantNot {
				if strings.Contains(got, w) {
					t.Errorf("output still contains %q:\n%s", w, got)
				}
			}
		})
	}
}

func TestExtractHeading(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<h1>Top</h1><p>x</p>", "Top"},
		{"<div><h3>  Nested </h3></div>", "Nested"},
		{"<p>no heading</p>", ""},
		{"<h2>First</h2><h1>Second</h1>", "First"},
	}
	for _, tt := range tests {
		if got := extractHeading(tt.in); got != tt.want {
			t.Errorf("extractHeading(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsSafeURI(t *testing.T) {
	safe := []string{
		"", "#frag", "/abs", "./rel", "../up", "?q=1",
		"images/pic.png",
		"https://example.com/a", "http://example.com", "mailto:x@example.com",
		"data:image/png;base64,AAAA",
	}
	for _, v := range safe {
		if !isSafeURI(v) {
			t.Errorf("isSafeURI(%q) = false, want true", v)
		}
	}
	unsafe := []string{
		"javascript:alert(1)", "JAVASCRIPT:x", "vbscript:x",
		"data:text/html;base64,AAAA", "file:///etc/passwd",
	}
	for _, v := range unsafe {
		if isSafeURI(v) {
			t.Errorf("isSafeURI(%q) = true, want false", v)
		}
	}
}

func TestHasURIScheme(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"https://example.com", true},
		{"data:image/png;base64,x", true},
		{"images/pic.png", false},
		{"./rel.png", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := hasURIScheme(tt.in); got != tt.want {
			t.Errorf("hasURIScheme(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestMatchAttr(t *testing.T) {
	tests := []struct {
		name      string
		attr      html.Attribute
		namespace string
		key       string
		want      bool
	}{
		{"plain key", html.Attribute{Key: "src"}, "", "src", true},
		{"plain key rejects namespaced", html.Attribute{Namespace: "xlink", Key: "src"}, "", "src", false},
		{"namespace field", html.Attribute{Namespace: "xlink", Key: "href"}, "xlink", "href", true},
		{"prefixed key", html.Attribute{Key: "xlink:href"}, "xlink", "href", true},
		{"wrong namespace", html.Attribute{Namespace: "xml", Key: "href"}, "xlink", "href", false},
		{"wrong key", html.Attribute{Namespace: "xlink", Key: "show"}, "xlink", "href", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchAttr(tt.attr, tt.namespace, tt.key); got != tt.want {
				t.Errorf("matchAttr(%+v, %q, %q) = %v, want %v", tt.attr, tt.namespace, tt.key, got, tt.want)
			}
		})
	}
}
