package team

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/validator"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// TeamController handles invitation and lobby requests.
type TeamController struct {
	svc *Service
}

func NewTeamController(svc *Service) *TeamController {
	return &TeamController{svc: svc}
}

func bind(c *gin.Context, body interface{}) bool {
	if err := c.ShouldBindJSON(body); err != nil {
		responses.ValidationFailed(c, "", validator.ParseError(err))
		return false
	}
	return true
}

// RespondToInvitation godoc
// @Summary Answer a partner invitation
// @Description Only the invited partner may answer. Accepting forms the team; rejecting lets the applicant invite someone else.
// @Tags Teams
// @Produce json
// @Param application_id path string true "Application ID"
// @Param action path string true "accept or reject" Enums(accept, reject)
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 400 {object} responses.ErrorResponse "Invalid action"
// @Failure 403 {object} responses.ErrorResponse "Not the invited partner"
// @Failure 404 {object} responses.ErrorResponse "Application not found"
// @Failure 409 {object} responses.ErrorResponse "Concurrent update, try again"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/invitation/{action} [post]
func (tc *TeamController) RespondToInvitation(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	action := c.Param("action")
	if action != ActionAccept && action != ActionReject {
		responses.SendError(c, http.StatusBadRequest, "Invalid action. Must be 'accept' or 'reject'")
		return
	}
	res, err := tc.svc.RespondInvitation(c.Request.Context(), RespondInvitationRequest{
		ApplicationID: c.Param("application_id"),
		ActorID:       userID,
		Accept:        action == ActionAccept,
	})
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, "Invitation "+action+"ed", res)
}

// Reinvite godoc
// @Summary Invite a new partner
// @Description After a partner declines, the applicant may name someone else on the same application.
// @Tags Teams
// @Accept json
// @Produce json
// @Param application_id path string true "Application ID"
// @Param body body ReinviteBody true "New partner"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Not the applicant"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/reinvite [post]
func (tc *TeamController) Reinvite(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	var body ReinviteBody
	if !bind(c, &body) {
		return
	}
	res, err := tc.svc.Reinvite(c.Request.Context(), userID, c.Param("application_id"), body.PartnerID)
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, "Invitation sent", res)
}

// Propose godoc
// @Summary Propose a team in the lobby
// @Description Offers a merge from the caller's lobby application to another. A target already holding a proposal answers proposal_pending.
// @Tags Teams
// @Accept json
// @Produce json
// @Param application_id path string true "Proposer's application ID"
// @Param body body ProposeBody true "Target"
// @Success 201 {object} responses.SuccessResponse{data=match.Result}
// @Success 200 {object} responses.SuccessResponse{data=match.Result} "No change, see reason"
// @Failure 403 {object} responses.ErrorResponse "Not the applicant"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/proposals [post]
func (tc *TeamController) Propose(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	var body ProposeBody
	if !bind(c, &body) {
		return
	}
	res, err := tc.svc.Propose(c.Request.Context(), userID, c.Param("application_id"), body.TargetApplicationID)
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusCreated, "Proposal sent", res)
}

// AnswerProposal godoc
// @Summary Accept or reject a lobby proposal
// @Tags Teams
// @Accept json
// @Produce json
// @Param application_id path string true "Receiving application ID"
// @Param action path string true "accept or reject" Enums(accept, reject)
// @Param body body AnswerProposalBody false "Proposal being answered"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 403 {object} responses.ErrorResponse "Not the addressed applicant"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/proposals/{action} [post]
func (tc *TeamController) AnswerProposal(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	var body AnswerProposalBody
	if c.Request.ContentLength > 0 && !bind(c, &body) {
		return
	}
	ctx := c.Request.Context()
	targetID := c.Param("application_id")

	var (
		res match.Result
		err error
	)
	switch c.Param("action") {
	case ActionAccept:
		if body.ProposerApplicationID == "" {
			responses.SendError(c, http.StatusBadRequest, "proposer_application_id is required")
			return
		}
		res, err = tc.svc.AcceptProposal(ctx, userID, targetID, body.ProposerApplicationID)
	case ActionReject:
		res, err = tc.svc.RejectProposal(ctx, userID, targetID, body.ProposerApplicationID)
	default:
		responses.SendError(c, http.StatusBadRequest, "Invalid action. Must be 'accept' or 'reject'")
		return
	}
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, "Proposal "+c.Param("action")+"ed", res)
}

// CancelProposal godoc
// @Summary Withdraw a lobby proposal
// @Tags Teams
// @Produce json
// @Param application_id path string true "Proposer's application ID"
// @Param target_application_id path string true "Target application ID"
// @Success 200 {object} responses.SuccessResponse{data=match.Result}
// @Failure 403 {object} responses.ErrorResponse "Not the proposer"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/proposals/{target_application_id} [delete]
func (tc *TeamController) CancelProposal(c *gin.Context) {
	userID, ok := match.CurrentUser(c)
	if !ok {
		return
	}
	res, err := tc.svc.CancelProposal(c.Request.Context(), userID, c.Param("application_id"), c.Param("target_application_id"))
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	match.SendResult(c, http.StatusOK, "Proposal withdrawn", res)
}

// GetTeams godoc
// @Summary List an event's teams
// @Description Each team appears once, under its leader.
// @Tags Teams
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=[]View}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /events/{event_id}/teams [get]
func (tc *TeamController) GetTeams(c *gin.Context) {
	teams, err := tc.svc.Teams(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		match.SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Teams retrieved successfully", teams)
}
