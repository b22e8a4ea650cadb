package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/eyalfuks51/wedding-Eyal/docs"
)

func NewRouter(h *Handler) *gin.Engine {

	router := gin.Default()
	docs.SwaggerInfo.BasePath = "/api"

	apiRoutes := router.Group("/api")
	{
		apiRoutes.POST("/automation/run", h.runAutomationHandler)
		apiRoutes.POST("/reminders/run", h.runRemindersHandler)
		apiRoutes.PUT("/automation/toggle-job", h.toggleJobHandler)
		apiRoutes.POST("/webhooks/whatsapp", h.whatsappWebhookHandler)

		apiRoutes.GET("/events/:slug", h.getEventHandler)
		apiRoutes.POST("/events/:slug/rsvp", h.submitRSVPHandler)
		apiRoutes.GET("/events/:slug/invitations", h.listInvitationsHandler)
		apiRoutes.POST("/events/:slug/invitations", h.createInvitationHandler)
		apiRoutes.PATCH("/invitations/:id", h.updateInvitationHandler)
		apiRoutes.DELETE("/invitations/:id", h.deleteInvitationHandler)
	}
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
