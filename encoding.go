package epubgen

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// lookupEncoding resolves an encoding label (e.g., "utf-8", "iso-8859-1",
// "gbk") via the WHATWG encoding index. Labels are matched
// case-insensitively.
func lookupEncoding(label string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(label)))
	if err != nil {
		return nil, fmt.Errorf("epubgen: unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// encodeText converts UTF-8 text to the target encoding. UTF-8 (the
// default) is passed through unchanged.
func encodeText(s, label string) ([]byte, error) {
	enc, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	if enc == unicode.UTF8 {
		return []byte(s), nil
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("epubgen: encode to %s: %w", label, err)
	}
	return out, nil
}

// writeDocument writes rendered document text to path using the given
// encoding label.
func writeDocument(path, content, label string) error {
	data, err := encodeText(content, label)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("epubgen: write %s: %w", path, err)
	}
	return nil
}
