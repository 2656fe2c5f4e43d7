package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/questforge/questforge-backend/internal/middleware"
	"github.com/questforge/questforge-backend/internal/service"
)

// LinkHandler handles HTTP requests for content links
type LinkHandler struct {
	service service.LinkService
}

// NewLinkHandler creates a new LinkHandler
func NewLinkHandler(service service.LinkService) *LinkHandler {
	return &LinkHandler{service: service}
}

// CreateLink handles POST /contents/:id/links
func (h *LinkHandler) CreateLink(c *gin.Context) {
	var req domain.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	link, err := h.service.CreateLink(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.CreatedResponse(c, link)
}

// ListLinks handles GET /contents/:id/links
func (h *LinkHandler) ListLinks(c *gin.Context) {
	links, err := h.service.ListLinks(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, links, nil)
}

// DeleteLink handles DELETE /links/:id
func (h *LinkHandler) DeleteLink(c *gin.Context) {
	if err := h.service.DeleteLink(middleware.GetUserID(c), c.Param("id")); err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
