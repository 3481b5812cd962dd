package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"lexbrief-backend/models"
)

// ErrNotFound is returned when an archived original does not exist
var ErrNotFound = errors.New("archived file not found")

// Storage archives the original bytes of uploaded documents
type Storage interface {
	// Upload stores the original file for doc and returns its storage path
	Upload(ctx context.Context, doc *models.Document, data io.Reader) (string, error)

	// Download retrieves an archived original by storage path
	Download(ctx context.Context, storagePath string) (io.ReadCloser, error)

	// Delete removes an archived original by storage path
	Delete(ctx context.Context, storagePath string) error
}

// StorageType represents the storage backend type
type StorageType string

const (
	StorageTypeNone  StorageType = "none"
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

// StorageConfig holds configuration for storage
type StorageConfig struct {
	Type         StorageType
	LocalPath    string // For local storage
	S3Bucket     string // For S3 storage
	S3Region     string
	S3Endpoint   string // S3-compatible endpoint (MinIO, R2); empty for AWS
	S3Prefix     string
	AWSAccessKey string
	AWSSecretKey string
}

// NewStorage creates a storage backend. Type "none" (or empty) returns a nil
// Storage, which callers treat as archiving disabled.
func NewStorage(ctx context.Context, cfg StorageConfig) (Storage, error) {
	switch cfg.Type {
	case StorageTypeNone, "":
		return nil, nil
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			cfg.LocalPath = "./storage/files"
		}
		return NewLocalStorage(cfg.LocalPath)
	case StorageTypeS3:
		if cfg.S3Bucket == "" {
			return nil, errors.New("an S3 bucket is required for S3 storage (AWS_S3_BUCKET)")
		}
		if cfg.S3Region == "" {
			cfg.S3Region = "us-east-1"
		}
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}

// generateStoragePath builds documents/<yyyy>/<mm>/<doc id>_<name>
func generateStoragePath(doc *models.Document) string {
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	baseName := strings.TrimSuffix(filepath.Base(doc.FileName), filepath.Ext(doc.FileName))
	baseName = sanitizeName(baseName)
	if baseName == "" {
		baseName = "document"
	}

	return fmt.Sprintf("documents/%s/%s_%s%s",
		doc.CreatedAt.UTC().Format("2006/01"),
		doc.ID.String(),
		baseName,
		ext,
	)
}

func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "._")
}
