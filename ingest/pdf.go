package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor concatenates the plain text of every page, in page order,
// each page followed by a blank line
type PDFExtractor struct{}

// NewPDFExtractor creates a PDF extractor
func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// Extract reads the PDF held in data page by page
func (e *PDFExtractor) Extract(ctx context.Context, data []byte) (result *Extraction, err error) {
	// the pdf package panics on some malformed object streams
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}

	numPages := reader.NumPage()

	var b strings.Builder
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			b.WriteString("\n\n")
			continue
		}
		// font names are page-scoped resources, so each page resolves its own
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		// trailing line moves are positioning, not content
		b.WriteString(strings.TrimSpace(text))
		b.WriteString("\n\n")
	}

	return &Extraction{
		Text:      b.String(),
		PageCount: numPages,
	}, nil
}
