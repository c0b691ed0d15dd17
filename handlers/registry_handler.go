package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"regintel-backend/registry"
	"regintel-backend/repository"
	"regintel-backend/service"
)

// sessionHeader carries the caller's selection scope. Callers without one
// share the default scope.
const sessionHeader = "X-Session-ID"

const defaultSession = "default"

// RegistryHandler handles HTTP requests for the document registry
type RegistryHandler struct {
	registryService *service.RegistryService
}

// NewRegistryHandler creates a new registry handler
func NewRegistryHandler(registryService *service.RegistryService) *RegistryHandler {
	return &RegistryHandler{registryService: registryService}
}

func sessionID(c *gin.Context) string {
	if session := c.GetHeader(sessionHeader); session != "" {
		return session
	}
	return defaultSession
}

// controlsFromQuery reads the search, status, filter and sort selections.
// Unknown values pass through; the projection treats them as no-ops.
func controlsFromQuery(c *gin.Context) registry.Controls {
	return registry.Controls{
		Search:    c.Query("search"),
		Status:    registry.StatusFilter(c.DefaultQuery("status", string(registry.StatusAll))),
		Dimension: c.DefaultQuery("filter", "All"),
		Sort:      registry.SortKey(c.DefaultQuery("sort", string(registry.SortDateDesc))),
	}
}

// ListDocuments handles GET /api/registry/documents
func (h *RegistryHandler) ListDocuments(c *gin.Context) {
	pageIndex, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_PAGE",
				"message": "page must be an integer",
			},
		})
		return
	}

	page := h.registryService.List(c.Request.Context(), sessionID(c), controlsFromQuery(c), pageIndex)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page,
	})
}

// RefreshDocuments handles POST /api/registry/documents/refresh
func (h *RegistryHandler) RefreshDocuments(c *gin.Context) {
	rows := h.registryService.Refresh(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"total": len(rows),
		},
	})
}

// SelectRequest represents the request body for toggling one document
type SelectRequest struct {
	ID       string `json:"id" binding:"required"`
	Selected *bool  `json:"selected" binding:"required"`
}

// SelectDocument handles POST /api/registry/selection
func (h *RegistryHandler) SelectDocument(c *gin.Context) {
	var req SelectRequest
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

	h.registryService.Select(sessionID(c), req.ID, *req.Selected)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":       req.ID,
			"selected": *req.Selected,
		},
	})
}

// SelectAllRequest represents the request body for bulk selection. The
// filter fields scope the operation to the rows currently visible to the
// caller.
type SelectAllRequest struct {
	Selected *bool  `json:"selected" binding:"required"`
	Search   string `json:"search"`
	Status   string `json:"status"`
	Filter   string `json:"filter"`
}

// SelectAllDocuments handles POST /api/registry/selection/all
func (h *RegistryHandler) SelectAllDocuments(c *gin.Context) {
	var req SelectAllRequest
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

	controls := registry.Controls{
		Search:    req.Search,
		Status:    registry.StatusFilter(req.Status),
		Dimension: req.Filter,
	}
	count := h.registryService.SelectAllFiltered(c.Request.Context(), sessionID(c), controls, *req.Selected)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"affected": count,
			"selected": *req.Selected,
		},
	})
}

// ClearSelection handles DELETE /api/registry/selection
func (h *RegistryHandler) ClearSelection(c *gin.Context) {
	h.registryService.ClearSelection(sessionID(c))
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cleared": true,
		},
	})
}

// GetPolicy handles GET /api/registry/policies/:id
func (h *RegistryHandler) GetPolicy(c *gin.Context) {
	detail, err := h.registryService.PolicyDetail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrPolicyNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "POLICY_NOT_FOUND",
					"message": "Policy not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FETCH_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    detail,
	})
}
