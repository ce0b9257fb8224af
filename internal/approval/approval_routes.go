package approval

import (
	"github.com/gin-gonic/gin"
)

// ApprovalRoutes sets up the host's decision routes. Authorization is checked
// against the event host inside the service.
func ApprovalRoutes(router *gin.RouterGroup, svc *Service, auth gin.HandlerFunc) {
	approvalController := NewApprovalController(svc)

	router.GET("/events/:event_id/recruitment", approvalController.GetRecruitment)

	hostRoutes := router.Group("/")
	hostRoutes.Use(auth)
	{
		hostRoutes.POST("/applications/:application_id/approve", approvalController.Approve)
		hostRoutes.POST("/applications/:application_id/reject", approvalController.Reject)

		hostRoutes.POST("/events/:event_id/cancel", approvalController.CancelEvent)
		hostRoutes.POST("/events/:event_id/reopen", approvalController.Reopen)
		hostRoutes.POST("/events/:event_id/close-competitors", approvalController.CloseCompetitors)
	}
}
