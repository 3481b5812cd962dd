package repository

import (
	"context"
	"errors"

	"lexbrief-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDocumentNotFound is returned when no ledger row matches
var ErrDocumentNotFound = errors.New("document not found")

// DocumentSchema creates the upload ledger. Extracted text is never stored.
var DocumentSchema = []string{
	`CREATE TABLE IF NOT EXISTS documents (
    id UUID PRIMARY KEY,
    session_id UUID NOT NULL,
    file_name TEXT NOT NULL,
    mime_type VARCHAR(255) NOT NULL,
    format VARCHAR(10) NOT NULL CHECK (format IN ('pdf', 'docx', 'txt')),
    size BIGINT NOT NULL,
    page_count INTEGER NOT NULL DEFAULT 0,
    char_count INTEGER NOT NULL DEFAULT 0,
    storage_path TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_session_id ON documents(session_id)`,
	`CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at DESC)`,
}

// DocumentRepository records uploaded document metadata in Postgres
type DocumentRepository struct {
	db *pgxpool.Pool
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{db: db}
}

// EnsureSchema creates the documents table and its indexes if missing
func (r *DocumentRepository) EnsureSchema(ctx context.Context) error {
	for _, stmt := range DocumentSchema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create records a document's metadata
func (r *DocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (
			id, session_id, file_name, mime_type, format, size, page_count, char_count, storage_path, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10)`

	_, err := r.db.Exec(
		ctx, query,
		doc.ID,
		doc.SessionID,
		doc.FileName,
		doc.MimeType,
		string(doc.Format),
		doc.Size,
		doc.PageCount,
		doc.CharCount,
		doc.StoragePath,
		doc.CreatedAt,
	)
	return err
}

// GetByID retrieves a document record by ID
func (r *DocumentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Document, error) {
	query := `
		SELECT id, session_id, file_name, mime_type, format, size, page_count, char_count,
		       COALESCE(storage_path, ''), created_at
		FROM documents
		WHERE id = $1`

	doc, err := scanDocument(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// ListRecent retrieves the most recent uploads, newest first
func (r *DocumentRepository) ListRecent(ctx context.Context, limit int) ([]*models.Document, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, session_id, file_name, mime_type, format, size, page_count, char_count,
		       COALESCE(storage_path, ''), created_at
		FROM documents
		ORDER BY created_at DESC
		LIMIT $1`

	return r.list(ctx, query, limit)
}

// ListBySessionID retrieves every upload made in a session, newest first
func (r *DocumentRepository) ListBySessionID(ctx context.Context, sessionID uuid.UUID) ([]*models.Document, error) {
	query := `
		SELECT id, session_id, file_name, mime_type, format, size, page_count, char_count,
		       COALESCE(storage_path, ''), created_at
		FROM documents
		WHERE session_id = $1
		ORDER BY created_at DESC`

	return r.list(ctx, query, sessionID)
}

// Delete deletes a document record
func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM documents WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *DocumentRepository) list(ctx context.Context, query string, args ...any) ([]*models.Document, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func scanDocument(row pgx.Row) (*models.Document, error) {
	doc := &models.Document{}
	var format string
	err := row.Scan(
		&doc.ID,
		&doc.SessionID,
		&doc.FileName,
		&doc.MimeType,
		&format,
		&doc.Size,
		&doc.PageCount,
		&doc.CharCount,
		&doc.StoragePath,
		&doc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.Format = models.DocumentFormat(format)
	return doc, nil
}
