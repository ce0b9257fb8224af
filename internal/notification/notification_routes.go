package notification

import (
	"github.com/gin-gonic/gin"
)

func NotificationRoutes(router *gin.RouterGroup, repo NotificationRepository, auth gin.HandlerFunc) {
	notificationController := NewNotificationController(repo)

	feedRoutes := router.Group("/")
	feedRoutes.Use(auth)
	{
		feedRoutes.GET("/users/me/notifications", notificationController.ListMine)
		feedRoutes.POST("/notifications/:notification_id/read", notificationController.MarkRead)
	}
}
