package app

import (
	"net/http"

	"lexbrief-backend/handlers"
	"lexbrief-backend/service"

	"github.com/gin-gonic/gin"
)

// NewRouter registers every API route on a gin engine
func NewRouter(analysisService *service.AnalysisService, maxFileSize int64) *gin.Engine {
	sessionHandler := handlers.NewSessionHandler(analysisService)
	documentHandler := handlers.NewDocumentHandler(analysisService, maxFileSize)
	analysisHandler := handlers.NewAnalysisHandler(analysisService)

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = maxFileSize

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	api := r.Group("/api")
	{
		api.GET("/languages", sessionHandler.ListLanguages)
		api.GET("/documents", documentHandler.ListDocuments)

		// Session endpoints
		api.POST("/sessions", sessionHandler.CreateSession)
		api.GET("/sessions/:id", sessionHandler.GetSession)
		api.DELETE("/sessions/:id", sessionHandler.EndSession)
		api.PUT("/sessions/:id/view", sessionHandler.SelectView)

		// Document endpoints
		api.POST("/sessions/:id/document", documentHandler.UploadDocument)
		api.GET("/sessions/:id/document/original", documentHandler.DownloadOriginal)

		// Analysis endpoints
		api.POST("/sessions/:id/summaries", analysisHandler.GenerateSummaries)
		api.POST("/sessions/:id/summaries/:type", analysisHandler.GenerateSummary)
		api.POST("/sessions/:id/case-info", analysisHandler.AnalyzeCase)
		api.POST("/sessions/:id/questions", analysisHandler.AskQuestion)
		api.POST("/sessions/:id/translations", analysisHandler.TranslateSummary)
		api.GET("/sessions/:id/export", analysisHandler.ExportCaseInfo)
	}

	return r
}
