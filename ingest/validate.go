package ingest

import (
	"errors"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"lexbrief-backend/models"
)

// DefaultMaxFileSize is the upload cap used when none is configured
const DefaultMaxFileSize int64 = 10 * 1024 * 1024 // 10MB

const (
	mimePDF  = "application/pdf"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimeTXT  = "text/plain"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file format: please upload PDF, DOCX, or TXT files")
	ErrFileTooLarge        = errors.New("file exceeds maximum upload size")
	ErrParseFailed         = errors.New("failed to process document")
	ErrEmptyFileName       = errors.New("file name is required")
)

var allowedExtensions = map[string]models.DocumentFormat{
	".pdf":  models.FormatPDF,
	".docx": models.FormatDOCX,
	".txt":  models.FormatTXT,
}

var allowedMimeTypes = map[string]models.DocumentFormat{
	mimePDF:  models.FormatPDF,
	mimeDOCX: models.FormatDOCX,
	mimeTXT:  models.FormatTXT,
}

// DetectFormat maps a file name to its document format by extension.
// Names without a .pdf, .docx or .txt suffix are rejected.
func DetectFormat(name string) (models.DocumentFormat, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyFileName
	}
	ext := strings.ToLower(filepath.Ext(name))
	format, ok := allowedExtensions[ext]
	if !ok {
		return "", ErrUnsupportedFileType
	}
	return format, nil
}

// FormatForMimeType returns the format a MIME type declares, if it is on the allow-list
func FormatForMimeType(mimeType string) (models.DocumentFormat, bool) {
	mt, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(mimeType))
	}
	format, ok := allowedMimeTypes[mt]
	return format, ok
}

// ContentTypeFor returns the canonical MIME type for a format
func ContentTypeFor(format models.DocumentFormat) string {
	switch format {
	case models.FormatPDF:
		return mimePDF
	case models.FormatDOCX:
		return mimeDOCX
	case models.FormatTXT:
		return mimeTXT + "; charset=utf-8"
	default:
		return "application/octet-stream"
	}
}

// Validation is the outcome of checking an upload
type Validation struct {
	Format models.DocumentFormat
	// MimeType is the declared type, or the canonical one when none was declared
	MimeType string
	// MimeMismatch is set when the declared type names another format or is off the allow-list
	MimeMismatch bool
}

// Validate checks an upload against the extension allow-list and the size cap.
// Dispatch is by extension, so a declared MIME type off the allow-list is
// tolerated as long as the extension is allowed.
func Validate(name, mimeType string, size, maxSize int64) (*Validation, error) {
	format, err := DetectFormat(name)
	if err != nil {
		return nil, err
	}
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	if size > maxSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrFileTooLarge, size, maxSize)
	}

	v := &Validation{Format: format, MimeType: mimeType}
	if undeclaredMimeType(mimeType) {
		v.MimeType = ContentTypeFor(format)
		return v, nil
	}
	declared, ok := FormatForMimeType(mimeType)
	v.MimeMismatch = !ok || declared != format
	return v, nil
}

func undeclaredMimeType(mimeType string) bool {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	return mt == "" || mt == "application/octet-stream"
}
