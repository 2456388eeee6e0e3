package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/model"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/provider"
	"github.com/DINESHPANDIAN-J/Offline-Shop-Location-Analyzer/internal/service"
)

// Analyzer the analysis operations served over HTTP
type Analyzer interface {
	Analyze(ctx context.Context, req *model.AnalysisRequest) (*model.AnalysisResult, error)
	Categories() []model.CategoryWeight
	RadiusBounds() model.RadiusBounds
}

// Handler API handlers
type Handler struct {
	analyzer Analyzer
}

// NewHandler creates the handlers
func NewHandler(analyzer Analyzer) *Handler {
	return &Handler{analyzer: analyzer}
}

// AnalyzeLocation scores the area around a point
// POST /api/v1/analyze
func (h *Handler) AnalyzeLocation(c *gin.Context) {
	var req model.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, "invalid request", "", err)
		return
	}

	result, err := h.analyzer.Analyze(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidRequest):
			ErrorResponse(c, http.StatusBadRequest, "invalid request", "", err)
		// provider timeouts unwrap to DeadlineExceeded and take this branch
		case errors.Is(err, context.DeadlineExceeded):
			ErrorResponse(c, http.StatusGatewayTimeout, "failed to analyze location", string(provider.KindOf(err)), err)
		case errors.Is(err, provider.ErrProviderFailure):
			ErrorResponse(c, http.StatusBadGateway, "failed to analyze location", string(provider.KindOf(err)), err)
		default:
			ErrorResponse(c, http.StatusInternalServerError, "failed to analyze location", "", err)
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetCategories the weight table
// GET /api/v1/categories
func (h *Handler) GetCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": h.analyzer.Categories(),
	})
}

// GetRadius allowed radius range
// GET /api/v1/radius
func (h *Handler) GetRadius(c *gin.Context) {
	c.JSON(http.StatusOK, h.analyzer.RadiusBounds())
}

// Health liveness check
// GET /healthz
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ErrorBody error response
type ErrorBody struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse writes an error body and aborts the chain
func ErrorResponse(c *gin.Context, status int, message, kind string, err error) {
	body := ErrorBody{Error: message, Kind: kind}
	if err != nil {
		body.Details = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, body)
}
