package notification

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/validator"
)

type NotificationController struct {
	repo NotificationRepository
}

func NewNotificationController(repo NotificationRepository) *NotificationController {
	return &NotificationController{repo: repo}
}

// ListMine godoc
// @Summary List my notifications
// @Description Newest first. Pass unread=true to hide notifications already read.
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Notification}
// @Failure 400 {object} responses.ErrorResponse "Invalid query"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Security ApiKeyAuth
// @Router /users/me/notifications [get]
func (nc *NotificationController) ListMine(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		responses.ValidationFailed(c, "Invalid query parameters", validator.ParseError(err))
		return
	}
	items, total, err := nc.repo.ListByRecipient(c.Request.Context(), userID, q)
	if err != nil {
		responses.InternalServerError(c, "Failed to load notifications")
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Notifications retrieved successfully", items, total, q.Page, q.PageSize)
}

// MarkRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param notification_id path string true "Notification ID"
// @Success 200 {object} responses.SuccessResponse{data=Notification}
// @Failure 404 {object} responses.ErrorResponse "Notification not found"
// @Security ApiKeyAuth
// @Router /notifications/{notification_id}/read [post]
func (nc *NotificationController) MarkRead(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	n, err := nc.repo.MarkRead(c.Request.Context(), c.Param("notification_id"), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			responses.NotFound(c, "Notification")
			return
		}
		responses.InternalServerError(c, "Failed to update notification")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Notification marked as read", n)
}
