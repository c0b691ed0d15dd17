package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"regintel-backend/service"
)

// GazetteHandler handles HTTP requests for the gazette dataset
type GazetteHandler struct {
	gazetteService  *service.GazetteService
	analyzerService *service.AnalyzerService
	analyzeAllLimit int
}

// NewGazetteHandler creates a new gazette handler
func NewGazetteHandler(gazetteService *service.GazetteService, analyzerService *service.AnalyzerService, analyzeAllLimit int) *GazetteHandler {
	if analyzeAllLimit < 1 {
		analyzeAllLimit = 20
	}
	return &GazetteHandler{
		gazetteService:  gazetteService,
		analyzerService: analyzerService,
		analyzeAllLimit: analyzeAllLimit,
	}
}

// ListGazettes handles GET /api/gazettes
func (h *GazetteHandler) ListGazettes(c *gin.Context) {
	records, err := h.gazetteService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GAZETTE_DATA_UNAVAILABLE",
				"message": "Failed to fetch gazette data",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    records,
	})
}

// GetGazette handles GET /api/gazettes/:id
func (h *GazetteHandler) GetGazette(c *gin.Context) {
	record, err := h.gazetteService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrGazetteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "GAZETTE_NOT_FOUND",
					"message": "Gazette not found",
				},
			})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GAZETTE_DATA_UNAVAILABLE",
				"message": "Failed to fetch gazette data",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    record,
	})
}

// AnalyzeGazette handles POST /api/gazettes/:id/analyze
func (h *GazetteHandler) AnalyzeGazette(c *gin.Context) {
	result := h.analyzerService.AnalyzeGazette(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}

// AnalyzeAllGazettes handles POST /api/gazettes/analyze and
// GET /api/policy-analyses
func (h *GazetteHandler) AnalyzeAllGazettes(c *gin.Context) {
	limit := h.analyzeAllLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_LIMIT",
					"message": "limit must be a positive integer",
				},
			})
			return
		}
		if parsed < limit {
			limit = parsed
		}
	}

	results, err := h.analyzerService.AnalyzeAll(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GAZETTE_DATA_UNAVAILABLE",
				"message": "Failed to fetch gazette data",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    results,
	})
}
