package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/questforge/questforge-backend/internal/middleware"
	"github.com/questforge/questforge-backend/internal/service"
)

// ContentHandler handles HTTP requests for content records
type ContentHandler struct {
	service service.ContentService
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(service service.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

// CreateContent handles POST /contents. Without an explicit data payload
// the content is generated from kind and prompt.
func (h *ContentHandler) CreateContent(c *gin.Context) {
	var req domain.CreateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	content, err := h.service.Create(c.Request.Context(), middleware.GetUserID(c), &req)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.CreatedResponse(c, content)
}

// ListContents handles GET /contents
func (h *ContentHandler) ListContents(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	kind := c.Query("kind")

	contents, meta, err := h.service.List(c.Request.Context(), middleware.GetUserID(c), kind, page, limit)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, contents, meta)
}

// GetContent handles GET /contents/:id
func (h *ContentHandler) GetContent(c *gin.Context) {
	content, err := h.service.Get(c.Request.Context(), middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, content, nil)
}

// UpdateContent handles PATCH /contents/:id
func (h *ContentHandler) UpdateContent(c *gin.Context) {
	var req domain.UpdateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	content, err := h.service.Update(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, content, nil)
}

// DeleteContent handles DELETE /contents/:id
func (h *ContentHandler) DeleteContent(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), middleware.GetUserID(c), c.Param("id")); err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// ListVersions handles GET /contents/:id/versions
func (h *ContentHandler) ListVersions(c *gin.Context) {
	versions, err := h.service.ListVersions(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, versions, nil)
}

// queryInt reads an integer query parameter with a default.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
