package ingest

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBodyPart = "word/document.xml"

// maxDOCXBodySize bounds the decompressed main document part
const maxDOCXBodySize = 64 << 20

var errMissingDOCXBody = errors.New("word/document.xml not found")

// DOCXExtractor extracts raw text from the main part of a WordprocessingML package.
// Paragraphs are separated by a blank line; tabs and breaks are kept.
type DOCXExtractor struct{}

// NewDOCXExtractor creates a DOCX extractor
func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

// Extract opens the zip container in data and walks word/document.xml
func (e *DOCXExtractor) Extract(ctx context.Context, data []byte) (*Extraction, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open DOCX container: %w", err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return nil, errMissingDOCXBody
	}

	rc, err := body.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", docxBodyPart, err)
	}
	defer rc.Close()

	text, err := docxText(ctx, io.LimitReader(rc, maxDOCXBodySize))
	if err != nil {
		return nil, err
	}
	return &Extraction{Text: text}, nil
}

// docxText streams the document XML and collects run text.
// Element names are matched by local name so any namespace prefix works.
func docxText(ctx context.Context, r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)

	var (
		b         strings.Builder
		para      strings.Builder
		inText    bool
		tabStops  int
		paragraph int
	)

	flush := func() {
		if paragraph > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(para.String())
		para.Reset()
		paragraph++
	}

	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				tabStops++
			case "tab":
				// w:tab inside w:tabs is a tab stop definition, not content
				if tabStops == 0 {
					para.WriteByte('\t')
				}
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				tabStops--
			case "p":
				flush()
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}

	if para.Len() > 0 {
		flush()
	}
	return b.String(), nil
}
