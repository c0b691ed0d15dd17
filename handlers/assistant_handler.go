package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"regintel-backend/models"
	"regintel-backend/service"
)

// AssistantHandler handles HTTP requests for the regulatory assistant
type AssistantHandler struct {
	assistantService *service.AssistantService
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistantService *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistantService: assistantService}
}

// SafeChat handles POST /api/assistant. This surface never propagates an
// error; callers get a fixed failure payload instead.
func (h *AssistantHandler) SafeChat(c *gin.Context) {
	var query map[string]any
	if err := c.ShouldBindJSON(&query); err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Assistant failed safely", "details": "message is required"})
		return
	}
	message, _ := query["message"].(string)
	if message == "" {
		c.JSON(http.StatusOK, gin.H{"error": "Assistant failed safely", "details": "message is required"})
		return
	}

	profile := models.OrganizationProfile{
		OrganizationName: "Default Organization",
		Industry:         "General",
		BusinessModel:    "General",
		SubSector:        "General",
	}
	reply, err := h.assistantService.Chat(c.Request.Context(), message, profile)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "Assistant failed safely"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"response":     reply.Reply,
		"confidence":   reply.Confidence,
		"context_used": reply.ContextUsed,
	})
}

// ChatRequest represents the request body for a chat turn
type ChatRequest struct {
	Message             string                      `json:"message" binding:"required"`
	OrganizationProfile *models.OrganizationProfile `json:"organizationProfile"`
}

// Chat handles POST /api/assistant/chat
func (h *AssistantHandler) Chat(c *gin.Context) {
	var req ChatRequest
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

	profile := models.OrganizationProfile{}
	if req.OrganizationProfile != nil {
		profile = *req.OrganizationProfile
	}

	reply, err := h.assistantService.Chat(c.Request.Context(), req.Message, profile)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "EMPTY_MESSAGE",
					"message": "Message is required",
				},
			})
		case errors.Is(err, service.ErrPromptRejected):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PROMPT_REJECTED",
					"message": "Message contains unsafe instruction patterns",
				},
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "CHAT_FAILED",
					"message": err.Error(),
				},
			})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reply,
	})
}
