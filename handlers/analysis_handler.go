package handlers

import (
	"net/http"

	"lexbrief-backend/models"
	"lexbrief-backend/service"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AnalysisHandler handles HTTP requests for AI-backed analysis
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// GenerateSummaries handles POST /api/sessions/:id/summaries
func (h *AnalysisHandler) GenerateSummaries(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.analysisService.GenerateSummaries(c.Request.Context(), service.SessionRequest{SessionID: id})
	if err != nil {
		respondServiceError(c, err, "summaries")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Summaries,
	})
}

// GenerateSummary handles POST /api/sessions/:id/summaries/:type
func (h *AnalysisHandler) GenerateSummary(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.analysisService.GenerateSummary(c.Request.Context(), service.GenerateSummaryRequest{
		SessionID:   id,
		SummaryType: models.SummaryType(c.Param("type")),
	})
	if err != nil {
		respondServiceError(c, err, "summary")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"type":    result.SummaryType,
			"summary": result.Summary,
		},
	})
}

// AnalyzeCase handles POST /api/sessions/:id/case-info
func (h *AnalysisHandler) AnalyzeCase(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.analysisService.AnalyzeCase(c.Request.Context(), service.SessionRequest{SessionID: id})
	if err != nil {
		respondServiceError(c, err, "case information")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.CaseInfo,
	})
}

// AskQuestion handles POST /api/sessions/:id/questions
func (h *AnalysisHandler) AskQuestion(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var reqBody struct {
		Question string `json:"question"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body")
		return
	}

	result, err := h.analysisService.AskQuestion(c.Request.Context(), service.AskQuestionRequest{
		SessionID: id,
		Question:  reqBody.Question,
	})
	if err != nil {
		respondServiceError(c, err, "answer")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"entry":   result.Entry,
			"history": result.History,
		},
	})
}

// TranslateSummary handles POST /api/sessions/:id/translations
func (h *AnalysisHandler) TranslateSummary(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var reqBody struct {
		SummaryType models.SummaryType `json:"summary_type"`
		Language    string             `json:"language" binding:"required"`
	}
	if err := c.ShouldBindJSON(&reqBody); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Request body must include a language")
		return
	}

	result, err := h.analysisService.TranslateSummary(c.Request.Context(), service.TranslateSummaryRequest{
		SessionID:   id,
		SummaryType: reqBody.SummaryType,
		Language:    reqBody.Language,
	})
	if err != nil {
		respondServiceError(c, err, "translation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Translation,
	})
}

// ExportCaseInfo handles GET /api/sessions/:id/export
func (h *AnalysisHandler) ExportCaseInfo(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.analysisService.ExportCaseInfo(c.Request.Context(), service.SessionRequest{SessionID: id})
	if err != nil {
		respondServiceError(c, err, "export")
		return
	}

	c.Header("Content-Disposition", attachment(result.FileName))
	c.Data(http.StatusOK, xlsxContentType, result.Data)
}
