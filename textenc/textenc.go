// Package textenc resolves character-encoding labels and converts text
// between those encodings and UTF-8.
package textenc

import (
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Lookup returns the encoding for a WHATWG label such as "utf-8", "gbk" or
// "latin1", together with its canonical name.
func Lookup(label string) (encoding.Encoding, string, error) {
	enc, name := charset.Lookup(label)
	if enc == nil {
		return nil, "", fmt.Errorf("unknown encoding %q", label)
	}
	return enc, name, nil
}

// Valid reports whether label names a known encoding.
func Valid(label string) bool {
	enc, _ := charset.Lookup(label)
	return enc != nil
}

// NewReader returns a reader that decodes r from the labelled encoding to
// UTF-8. A leading byte order mark overrides the label and is stripped.
// Undecodable bytes become U+FFFD.
func NewReader(r io.Reader, label string) (io.Reader, error) {
	enc, _, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// Encode converts UTF-8 text to the labelled encoding. It fails if s holds
// characters the encoding cannot represent.
func Encode(s, label string) ([]byte, error) {
	enc, name, err := Lookup(label)
	if err != nil {
		return nil, err
	}
	b, _, err := transform.Bytes(enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding text as %s: %w", name, err)
	}
	return b, nil
}
