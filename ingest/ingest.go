package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"lexbrief-backend/models"

	"github.com/google/uuid"
)

// Extraction is the plain text produced by an extractor
type Extraction struct {
	Text      string
	PageCount int
}

// Extractor turns the raw bytes of one file format into plain text
type Extractor interface {
	Extract(ctx context.Context, data []byte) (*Extraction, error)
}

// Ingester validates uploads and dispatches them to format-specific extractors
type Ingester struct {
	extractors  map[models.DocumentFormat]Extractor
	maxFileSize int64
	logger      *slog.Logger
}

// Option configures an Ingester
type Option func(*Ingester)

// WithMaxFileSize sets the upload size cap
func WithMaxFileSize(n int64) Option {
	return func(i *Ingester) {
		if n > 0 {
			i.maxFileSize = n
		}
	}
}

// WithExtractor registers or replaces the extractor for a format
func WithExtractor(format models.DocumentFormat, e Extractor) Option {
	return func(i *Ingester) {
		i.extractors[format] = e
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(i *Ingester) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// NewIngester creates an ingester with the PDF, DOCX and TXT extractors registered
func NewIngester(opts ...Option) *Ingester {
	i := &Ingester{
		extractors: map[models.DocumentFormat]Extractor{
			models.FormatPDF:  NewPDFExtractor(),
			models.FormatDOCX: NewDOCXExtractor(),
			models.FormatTXT:  NewTextExtractor(),
		},
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// MaxFileSize returns the configured upload cap
func (i *Ingester) MaxFileSize() int64 {
	return i.maxFileSize
}

// Ingest validates the named file, reads it and extracts its text.
// Any failure aborts the whole operation.
func (i *Ingester) Ingest(ctx context.Context, name, mimeType string, r io.Reader) (*models.Document, error) {
	if _, err := DetectFormat(name); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(r, i.maxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read upload: %v", ErrParseFailed, err)
	}
	v, err := Validate(name, mimeType, int64(len(data)), i.maxFileSize)
	if err != nil {
		return nil, err
	}
	if v.MimeMismatch {
		i.logger.Warn("ingest.mime_mismatch",
			"file_name", name,
			"mime_type", mimeType,
			"format", v.Format,
		)
	}

	return i.extract(ctx, name, v.MimeType, v.Format, data)
}

// IngestBytes is Ingest for data already held in memory
func (i *Ingester) IngestBytes(ctx context.Context, name, mimeType string, data []byte) (*models.Document, error) {
	return i.Ingest(ctx, name, mimeType, bytes.NewReader(data))
}

func (i *Ingester) extract(ctx context.Context, name, mimeType string, format models.DocumentFormat, data []byte) (*models.Document, error) {
	extractor, ok := i.extractors[format]
	if !ok {
		return nil, ErrUnsupportedFileType
	}

	start := time.Now()
	result, err := extractor.Extract(ctx, data)
	if err != nil {
		i.logger.Error("ingest.extract_failed", "file_name", name, "format", format, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}

	doc := &models.Document{
		ID:        uuid.New(),
		FileName:  name,
		MimeType:  mimeType,
		Format:    format,
		Size:      int64(len(data)),
		PageCount: result.PageCount,
		CharCount: utf8.RuneCountInString(result.Text),
		Text:      result.Text,
		CreatedAt: time.Now().UTC(),
	}

	i.logger.Info("ingest.ok",
		"file_name", name,
		"format", format,
		"bytes", doc.Size,
		"chars", doc.CharCount,
		"pages", doc.PageCount,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return doc, nil
}
