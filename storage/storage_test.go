package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"lexbrief-backend/models"
)

func testDocument(name string) *models.Document {
	return &models.Document{
		ID:        uuid.MustParse("6f1c2a9e-2d7b-4b8e-9a51-0c3f4e5d6a7b"),
		FileName:  name,
		MimeType:  "text/plain; charset=utf-8",
		CreatedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestGenerateStoragePath(t *testing.T) {
	tests := []struct {
		name     string
		fileName string
		want     string
	}{
		{"simple", "judgment.pdf", "documents/2025/03/6f1c2a9e-2d7b-4b8e-9a51-0c3f4e5d6a7b_judgment.pdf"},
		{"spaces", "High Court Order.DOCX", "documents/2025/03/6f1c2a9e-2d7b-4b8e-9a51-0c3f4e5d6a7b_High_Court_Order.docx"},
		{"traversal", "../../etc/passwd.txt", "documents/2025/03/6f1c2a9e-2d7b-4b8e-9a51-0c3f4e5d6a7b_passwd.txt"},
		{"only extension", ".txt", "documents/2025/03/6f1c2a9e-2d7b-4b8e-9a51-0c3f4e5d6a7b_document.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := generateStoragePath(testDocument(tt.fileName)); got != tt.want {
				t.Errorf("generateStoragePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewLocalStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	doc := testDocument("order.txt")
	path, err := store.Upload(ctx, doc, strings.NewReader("ORDER\n\nBail is granted."))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	rc, err := store.Download(ctx, path)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	data, _ := io.ReadAll(rc)
	rc.Close()
	if string(data) != "ORDER\n\nBail is granted." {
		t.Errorf("downloaded %q", data)
	}

	if err := store.Delete(ctx, path); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Download(ctx, path); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := store.Delete(ctx, path); err != nil {
		t.Errorf("deleting a missing file should succeed, got %v", err)
	}
}

func TestLocalStorage_PathCannotEscapeBase(t *testing.T) {
	base := t.TempDir()
	store, err := NewLocalStorage(base)
	if err != nil {
		t.Fatal(err)
	}

	got := store.fullPath("../../outside.txt")
	if !strings.HasPrefix(got, base) {
		t.Errorf("fullPath escaped base: %s", got)
	}
}

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	s, err := NewStorage(ctx, StorageConfig{Type: StorageTypeNone})
	if err != nil || s != nil {
		t.Errorf("none: got %v, %v; want nil, nil", s, err)
	}

	s, err = NewStorage(ctx, StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	if err != nil {
		t.Fatalf("local: %v", err)
	}
	if _, ok := s.(*LocalStorage); !ok {
		t.Errorf("local: got %T", s)
	}

	if _, err := NewStorage(ctx, StorageConfig{Type: StorageTypeS3}); err == nil {
		t.Error("s3 without bucket: expected error")
	}
	if _, err := NewStorage(ctx, StorageConfig{Type: "ftp"}); err == nil {
		t.Error("unknown type: expected error")
	}
}
