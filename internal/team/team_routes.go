package team

import (
	"github.com/gin-gonic/gin"
)

// TeamRoutes sets up invitation, lobby proposal and team routes.
func TeamRoutes(router *gin.RouterGroup, svc *Service, auth gin.HandlerFunc) {
	teamController := NewTeamController(svc)

	authRoutes := router.Group("/")
	authRoutes.Use(auth)
	{
		authRoutes.GET("/events/:event_id/teams", teamController.GetTeams)

		// Partner invitations (action: accept/reject)
		authRoutes.POST("/applications/:application_id/invitation/:action", teamController.RespondToInvitation)
		authRoutes.POST("/applications/:application_id/reinvite", teamController.Reinvite)

		// Solo lobby proposals
		authRoutes.POST("/applications/:application_id/proposals", teamController.Propose)
		authRoutes.POST("/applications/:application_id/proposals/:action", teamController.AnswerProposal)
		authRoutes.DELETE("/applications/:application_id/proposals/:target_application_id", teamController.CancelProposal)
	}
}
