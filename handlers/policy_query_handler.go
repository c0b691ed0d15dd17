package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"regintel-backend/service"
)

// PolicyQueryHandler handles HTTP requests for gazette question answering
type PolicyQueryHandler struct {
	qaService *service.QAService
}

// NewPolicyQueryHandler creates a new policy query handler
func NewPolicyQueryHandler(qaService *service.QAService) *PolicyQueryHandler {
	return &PolicyQueryHandler{qaService: qaService}
}

// PolicyQueryRequest represents a question about the gazette dataset
type PolicyQueryRequest struct {
	Question  string `json:"question" binding:"required"`
	GazetteID string `json:"gazette_id"`
}

// Query handles POST /api/policy-query
func (h *PolicyQueryHandler) Query(c *gin.Context) {
	var req PolicyQueryRequest
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

	result, err := h.qaService.Ask(c.Request.Context(), req.Question, req.GazetteID)
	if err != nil {
		if errors.Is(err, service.ErrGazetteDataUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "GAZETTE_DATA_UNAVAILABLE",
					"message": "Failed to fetch gazette data",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "QUERY_FAILED",
				"message": "Failed to answer policy question",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result,
	})
}
