package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/questforge/questforge-backend/internal/handler"
	"github.com/questforge/questforge-backend/internal/middleware"
	"github.com/questforge/questforge-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	contentHandler *handler.ContentHandler,
	linkHandler *handler.LinkHandler,
	campaignHandler *handler.CampaignHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1", middleware.JWTAuth(jwtManager))

	// Content records and version history
	contents := api.Group("/contents")
	contents.POST("", contentHandler.CreateContent)
	contents.GET("", contentHandler.ListContents)
	contents.GET("/:id", contentHandler.GetContent)
	contents.PATCH("/:id", contentHandler.UpdateContent)
	contents.DELETE("/:id", contentHandler.DeleteContent)
	contents.GET("/:id/versions", contentHandler.ListVersions)

	// Content links (directed, typed graph)
	contents.POST("/:id/links", linkHandler.CreateLink)
	contents.GET("/:id/links", linkHandler.ListLinks)
	api.DELETE("/links/:id", linkHandler.DeleteLink)

	// Campaigns and their ordered content
	campaigns := api.Group("/campaigns")
	campaigns.POST("", campaignHandler.CreateCampaign)
	campaigns.GET("", campaignHandler.ListCampaigns)
	campaigns.GET("/:id", campaignHandler.GetCampaign)
	campaigns.PATCH("/:id", campaignHandler.UpdateCampaign)
	campaigns.DELETE("/:id", campaignHandler.DeleteCampaign)
	campaigns.POST("/:id/contents", campaignHandler.AddContent)
	campaigns.GET("/:id/contents", campaignHandler.ListContent)
	campaigns.PATCH("/:id/contents/:contentId", campaignHandler.UpdateContentEntry)
	campaigns.DELETE("/:id/contents/:contentId", campaignHandler.RemoveContent)
}
