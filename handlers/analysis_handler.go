package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"regintel-backend/models"
	"regintel-backend/service"
)

// AnalysisHandler handles HTTP requests for impact analysis runs
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// RunAnalysisRequest represents the request body for an analysis run.
// When gazetteId is set the run analyzes that gazette; otherwise it scores
// the organization profile.
type RunAnalysisRequest struct {
	OrganizationProfile models.OrganizationProfile `json:"organizationProfile" binding:"required"`
	GazetteID           string                     `json:"gazetteId"`
}

// RunAnalysis handles POST /api/analysis/run
func (h *AnalysisHandler) RunAnalysis(c *gin.Context) {
	var req RunAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.analysisService.Run(c.Request.Context(), req.OrganizationProfile, req.GazetteID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "ANALYSIS_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
