package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/questforge/questforge-backend/internal/common"
	"github.com/questforge/questforge-backend/internal/domain"
	"github.com/questforge/questforge-backend/internal/middleware"
	"github.com/questforge/questforge-backend/internal/service"
)

// CampaignHandler handles HTTP requests for campaigns and their content
type CampaignHandler struct {
	service service.CampaignService
}

// NewCampaignHandler creates a new CampaignHandler
func NewCampaignHandler(service service.CampaignService) *CampaignHandler {
	return &CampaignHandler{service: service}
}

// CreateCampaign handles POST /campaigns
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req domain.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	campaign, err := h.service.Create(middleware.GetUserID(c), &req)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.CreatedResponse(c, campaign)
}

// ListCampaigns handles GET /campaigns
func (h *CampaignHandler) ListCampaigns(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)

	campaigns, meta, err := h.service.List(middleware.GetUserID(c), page, limit)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, campaigns, meta)
}

// GetCampaign handles GET /campaigns/:id
func (h *CampaignHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.service.Get(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, campaign, nil)
}

// UpdateCampaign handles PATCH /campaigns/:id
func (h *CampaignHandler) UpdateCampaign(c *gin.Context) {
	var req domain.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	campaign, err := h.service.Update(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, campaign, nil)
}

// DeleteCampaign handles DELETE /campaigns/:id
func (h *CampaignHandler) DeleteCampaign(c *gin.Context) {
	if err := h.service.Delete(middleware.GetUserID(c), c.Param("id")); err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}

// AddContent handles POST /campaigns/:id/contents
func (h *CampaignHandler) AddContent(c *gin.Context) {
	var req domain.AddCampaignContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	entry, err := h.service.AddContent(middleware.GetUserID(c), c.Param("id"), &req)
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.CreatedResponse(c, entry)
}

// ListContent handles GET /campaigns/:id/contents
func (h *CampaignHandler) ListContent(c *gin.Context) {
	entries, err := h.service.ListContent(middleware.GetUserID(c), c.Param("id"))
	if err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, entries, nil)
}

// UpdateContentEntry handles PATCH /campaigns/:id/contents/:contentId
func (h *CampaignHandler) UpdateContentEntry(c *gin.Context) {
	var req domain.UpdateCampaignContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.service.UpdateEntry(middleware.GetUserID(c), c.Param("id"), c.Param("contentId"), &req); err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"updated": true}, nil)
}

// RemoveContent handles DELETE /campaigns/:id/contents/:contentId
func (h *CampaignHandler) RemoveContent(c *gin.Context) {
	if err := h.service.RemoveContent(middleware.GetUserID(c), c.Param("id"), c.Param("contentId")); err != nil {
		common.FailResponse(c, err)
		return
	}

	common.SuccessResponse(c, gin.H{"deleted": true}, nil)
}
