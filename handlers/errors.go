package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"lexbrief-backend/gateway"
	"lexbrief-backend/ingest"
	"lexbrief-backend/service"
	"lexbrief-backend/session"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondServiceError maps a service error onto the response envelope.
// action names what was being generated, for the generic AI failure message.
func respondServiceError(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "SESSION_NOT_FOUND", "Session not found or expired")
	case errors.Is(err, ingest.ErrUnsupportedFileType):
		respondError(c, http.StatusBadRequest, "INVALID_FILE_TYPE", "Unsupported file format. Please upload PDF, DOCX, or TXT files.")
	case errors.Is(err, ingest.ErrFileTooLarge):
		respondError(c, http.StatusBadRequest, "FILE_TOO_LARGE", err.Error())
	case errors.Is(err, ingest.ErrEmptyFileName):
		respondError(c, http.StatusBadRequest, "MISSING_FILE", "File is required")
	case errors.Is(err, ingest.ErrParseFailed):
		respondError(c, http.StatusUnprocessableEntity, "PARSE_FAILED", "Failed to process document. Please try again.")
	case errors.Is(err, service.ErrNoDocument):
		respondError(c, http.StatusConflict, "NO_DOCUMENT", "Upload a document first")
	case errors.Is(err, service.ErrStaleDocument):
		respondError(c, http.StatusConflict, "DOCUMENT_REPLACED", "The document was replaced before the result was ready")
	case errors.Is(err, session.ErrViewDisabled):
		respondError(c, http.StatusConflict, "VIEW_DISABLED", err.Error())
	case errors.Is(err, session.ErrUnknownView),
		errors.Is(err, gateway.ErrEmptyQuestion),
		errors.Is(err, gateway.ErrUnknownSummaryType):
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
	case errors.Is(err, gateway.ErrUnsupportedLanguage):
		respondError(c, http.StatusBadRequest, "UNSUPPORTED_LANGUAGE", err.Error())
	case errors.Is(err, service.ErrSummaryNotGenerated):
		respondError(c, http.StatusConflict, "SUMMARY_NOT_GENERATED", "Generate the summary before translating it")
	case errors.Is(err, gateway.ErrGeneration):
		respondError(c, http.StatusBadGateway, "AI_FAILED", fmt.Sprintf("Failed to generate %s. Please try again.", action))
	case errors.Is(err, service.ErrAnalyzerNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "AI_UNAVAILABLE", "No AI provider is configured")
	case errors.Is(err, service.ErrLedgerNotConfigured):
		respondError(c, http.StatusServiceUnavailable, "LEDGER_DISABLED", "Document ledger is not configured")
	case errors.Is(err, service.ErrOriginalNotArchived):
		respondError(c, http.StatusNotFound, "ORIGINAL_NOT_FOUND", "The original file was not archived")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong. Please try again.")
	}
}

// sessionID parses the :id path parameter, writing a 400 on failure
func sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid session ID format")
		return uuid.Nil, false
	}
	return id, true
}
