package handlers

import (
	"net/http"

	"lexbrief-backend/service"

	"github.com/gin-gonic/gin"
)

// SessionHandler handles HTTP requests for session and view state
type SessionHandler struct {
	analysisService *service.AnalysisService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(analysisService *service.AnalysisService) *SessionHandler {
	return &SessionHandler{analysisService: analysisService}
}

// CreateSession handles POST /api/sessions
func (h *SessionHandler) CreateSession(c *gin.Context) {
	result, err := h.analysisService.CreateSession(c.Request.Context())
	if err != nil {
		respondServiceError(c, err, "session")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.State,
	})
}

// GetSession handles GET /api/sessions/:id
func (h *SessionHandler) GetSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.analysisService.GetSession(c.Request.Context(), service.SessionRequest{SessionID: id})
	if err != nil {
		respondServiceError(c, err, "session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.State,
	})
}

// EndSession handles DELETE /api/sessions/:id
func (h *SessionHandler) EndSession(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	if err := h.analysisService.EndSession(c.Request.Context(), service.SessionRequest{SessionID: id}); err != nil {
		respondServiceError(c, err, "session")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Session ended",
	})
}

// SelectView handles PUT /api/sessions/:id/view
func (h *SessionHandler) SelectView(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var reqBody struct {
		View string `json:"view" binding:"required"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must include a view")
		return
	}

	result, err := h.analysisService.SelectView(c.Request.Context(), service.SelectViewRequest{
		SessionID: id,
		View:      reqBody.View,
	})
	if err != nil {
		respondServiceError(c, err, "view")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.State,
	})
}

// ListLanguages handles GET /api/languages
func (h *SessionHandler) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.analysisService.Languages(),
	})
}
