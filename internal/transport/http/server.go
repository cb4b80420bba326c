package http

import (
	"github.com/gin-gonic/gin"

	"clauseminer/internal/bootstrap"
	"clauseminer/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	extractionHandler := handler.NewExtractionHandler(
		app.Extractions,
		app.Exports,
		app.JobPublisher,
		app.Config.Extraction.MaxFileSize,
	)

	v1 := router.Group("/api/v1")
	v1.POST("/extract", extractionHandler.Extract)
	v1.POST("/extract/async", extractionHandler.ExtractAsync)
	v1.GET("/extractions", extractionHandler.List)
	v1.GET("/extractions/:id", extractionHandler.Get)
	v1.GET("/extractions/:id/export", extractionHandler.Export)

	return router
}
