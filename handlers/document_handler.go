package handlers

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"lexbrief-backend/service"

	"github.com/gin-gonic/gin"
)

// multipartOverhead is allowed on top of the file size cap for form boundaries and headers
const multipartOverhead = 1 << 20

// DocumentHandler handles HTTP requests for document upload and retrieval
type DocumentHandler struct {
	analysisService *service.AnalysisService
	maxFileSize     int64
}

// NewDocumentHandler creates a new document handler
func NewDocumentHandler(analysisService *service.AnalysisService, maxFileSize int64) *DocumentHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024 // 10MB
	}
	return &DocumentHandler{
		analysisService: analysisService,
		maxFileSize:     maxFileSize,
	}
}

// UploadDocument handles POST /api/sessions/:id/document
func (h *DocumentHandler) UploadDocument(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxFileSize+multipartOverhead)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE",
				fmt.Sprintf("File size exceeds maximum of %d bytes", h.maxFileSize))
			return
		}
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "FILE_OPEN_ERROR", "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.analysisService.UploadDocument(c.Request.Context(), service.UploadDocumentRequest{
		SessionID: id,
		FileName:  fileHeader.Filename,
		MimeType:  fileHeader.Header.Get("Content-Type"),
		Size:      fileHeader.Size,
		Data:      file,
	})
	if err != nil {
		respondServiceError(c, err, "document")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"document": result.Document,
			"session":  result.State,
		},
	})
}

// DownloadOriginal handles GET /api/sessions/:id/document/original
func (h *DocumentHandler) DownloadOriginal(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.analysisService.DownloadOriginal(c.Request.Context(), service.SessionRequest{SessionID: id})
	if err != nil {
		respondServiceError(c, err, "download")
		return
	}
	defer result.Body.Close()

	contentType := result.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, result.Body, map[string]string{
		"Content-Disposition": attachment(result.FileName),
	})
}

// ListDocuments handles GET /api/documents
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > 500 {
			respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	result, err := h.analysisService.ListDocuments(c.Request.Context(), service.ListDocumentsRequest{Limit: limit})
	if err != nil {
		respondServiceError(c, err, "document list")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Documents,
	})
}

func attachment(fileName string) string {
	return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
}
