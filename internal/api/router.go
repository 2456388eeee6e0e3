package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the API routes; metrics may be nil
func NewRouter(handler *Handler, metrics http.Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger())

	router.GET("/healthz", handler.Health)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	apiGroup := router.Group("/api/v1")
	{
		apiGroup.POST("/analyze", handler.AnalyzeLocation)
		apiGroup.GET("/categories", handler.GetCategories)
		apiGroup.GET("/radius", handler.GetRadius)
	}

	return router
}
