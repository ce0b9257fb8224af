package match

import (
	"github.com/gin-gonic/gin"
)

// MatchRoutes sets up event and application routes. auth identifies the caller.
func MatchRoutes(router *gin.RouterGroup, svc *Service, auth gin.HandlerFunc) {
	matchController := NewMatchController(svc)

	// Public event routes
	router.GET("/events", matchController.ListEvents)
	router.GET("/events/:event_id", matchController.GetEvent)
	router.GET("/events/:event_id/calendar.ics", matchController.Calendar)

	authRoutes := router.Group("/")
	authRoutes.Use(auth)
	{
		authRoutes.POST("/events", matchController.CreateEvent)
		authRoutes.GET("/events/:event_id/applications", matchController.ListApplications)
		authRoutes.POST("/events/:event_id/applications", matchController.Submit)
		authRoutes.GET("/events/:event_id/lobby", matchController.Lobby)

		authRoutes.GET("/users/me/applications", matchController.MyApplications)
		authRoutes.POST("/applications/:application_id/withdraw", matchController.Withdraw)
	}
}
