package ingest

import (
	"bytes"
	"context"
	"strings"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// TextExtractor passes plain-text files through unchanged
type TextExtractor struct{}

// NewTextExtractor creates a plain-text extractor
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract decodes data as UTF-8. A leading byte-order mark is dropped and
// invalid sequences become U+FFFD; valid text is returned byte for byte.
func (e *TextExtractor) Extract(_ context.Context, data []byte) (*Extraction, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	text := string(data)
	if !utf8.Valid(data) {
		text = strings.ToValidUTF8(text, "�")
	}
	return &Extraction{Text: text}, nil
}
