package approval

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/validator"
)

// ApprovalController serves the host's decisions on an event.
type ApprovalController struct {
	svc *Service
}

func NewApprovalController(svc *Service) *ApprovalController {
	return &ApprovalController{svc: svc}
}

type RejectBody struct {
	Reason string `json:"reason" binding:"max=200" example:"looking for a stronger pair"`
}

// Approve godoc
// @Summary Approve an application
// @Description Gives the event's open slot to the application (both records for a lobby team) and closes every other open application. Approving again re-runs the closing step.
// @Tags Approval
// @Produce json
// @Param application_id path string true "Application ID"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Success 202 {object} responses.SuccessResponse{data=match.Result} "Committed; closing other applications did not finish, repeat to resume"
// @Failure 403 {object} responses.ErrorResponse "Not the host"
// @Failure 404 {object} responses.ErrorResponse "Application not found"
// @Failure 409 {object} responses.ErrorResponse "Concurrent update, try again"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/approve [post]
func (ac *ApprovalController) Approve(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	res, err := ac.svc.Approve(c.Request.Context(), userID, c.Param("application_id"))
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, "Application approved", res)
}

// Reject godoc
// @Summary Reject an application
// @Tags Approval
// @Accept json
// @Produce json
// @Param application_id path string true "Application ID"
// @Param body body RejectBody false "Reason"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 403 {object} responses.ErrorResponse "Not the host"
// @Failure 404 {object} responses.ErrorResponse "Application not found"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/reject [post]
func (ac *ApprovalController) Reject(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	var body RejectBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			responses.ValidationFailed(c, "", validator.ParseError(err))
			return
		}
	}
	res, err := ac.svc.Reject(c.Request.Context(), userID, c.Param("application_id"), body.Reason)
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, "Application rejected", res)
}

func (ac *ApprovalController) eventCommand(c *gin.Context, message string, run func(ctx context.Context, hostID, eventID string) (match.Result, error)) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	res, err := run(c.Request.Context(), userID, c.Param("event_id"))
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, message, res)
}

// CancelEvent godoc
// @Summary Cancel an event
// @Description Closes every open or approved application of the event.
// @Tags Approval
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Success 202 {object} responses.SuccessResponse{data=match.Result} "Committed; closing other applications did not finish, repeat to resume"
// @Failure 403 {object} responses.ErrorResponse "Not the host"
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /events/{event_id}/cancel [post]
func (ac *ApprovalController) CancelEvent(c *gin.Context) {
	ac.eventCommand(c, "Event cancelled", ac.svc.CancelEvent)
}

// Reopen godoc
// @Summary Withdraw the approval and recruit again
// @Tags Approval
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 403 {object} responses.ErrorResponse "Not the host"
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /events/{event_id}/reopen [post]
func (ac *ApprovalController) Reopen(c *gin.Context) {
	ac.eventCommand(c, "Event reopened", ac.svc.Reopen)
}

// CloseCompetitors godoc
// @Summary Resume closing losing applications
// @Description Re-runs the closing step for the event's current generation. Safe to call repeatedly.
// @Tags Approval
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 403 {object} responses.ErrorResponse "Not the host"
// @Security ApiKeyAuth
// @Router /events/{event_id}/close-competitors [post]
func (ac *ApprovalController) CloseCompetitors(c *gin.Context) {
	ac.eventCommand(c, "Competing applications closed", func(ctx context.Context, hostID, eventID string) (match.Result, error) {
		ev, err := ac.svc.hostEvent(ctx, hostID, eventID)
		if err != nil {
			return match.Result{}, err
		}
		return ac.svc.CloseCompetitors(ctx, ev.ID, ev.Generation)
	})
}

// GetRecruitment godoc
// @Summary Get an event's recruitment state
// @Tags Approval
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Recruitment}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Router /events/{event_id}/recruitment [get]
func (ac *ApprovalController) GetRecruitment(c *gin.Context) {
	r, err := ac.svc.Recruitment(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Recruitment retrieved successfully", r)
}
