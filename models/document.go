package models

import (
	"time"

	"github.com/google/uuid"
)

// DocumentFormat is the normalized file format of an uploaded document
type DocumentFormat string

const (
	FormatPDF  DocumentFormat = "pdf"
	FormatDOCX DocumentFormat = "docx"
	FormatTXT  DocumentFormat = "txt"
)

// Document represents an uploaded document and its extracted text
type Document struct {
	ID          uuid.UUID      `json:"id"`
	SessionID   uuid.UUID      `json:"session_id"`
	FileName    string         `json:"file_name"`
	MimeType    string         `json:"mime_type"`
	Format      DocumentFormat `json:"format"`
	Size        int64          `json:"size"`
	PageCount   int            `json:"page_count,omitempty"`
	CharCount   int            `json:"char_count"`
	StoragePath string         `json:"storage_path,omitempty"`
	Text        string         `json:"text,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// HasText reports whether the document carries any extracted text
func (d *Document) HasText() bool {
	return d != nil && d.Text != ""
}

// Metadata returns a copy of the document without its text
func (d *Document) Metadata() Document {
	cp := *d
	cp.Text = ""
	return cp
}
