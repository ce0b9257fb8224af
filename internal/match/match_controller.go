package match

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	mw "github.com/goodseed1/Lightning-Pickleball-sub019/internal/middleware"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/validator"
)

// MatchController serves events and applications.
type MatchController struct {
	svc *Service
}

func NewMatchController(svc *Service) *MatchController {
	return &MatchController{svc: svc}
}

type CreateEventBody struct {
	Title           string    `json:"title" binding:"required,max=120" example:"Thursday night doubles"`
	Description     string    `json:"description" binding:"max=1000"`
	GameType        string    `json:"game_type" binding:"required" example:"mens_doubles"`
	HostPartnerID   string    `json:"host_partner_id,omitempty"`
	ClubID          string    `json:"club_id,omitempty"`
	MaxParticipants int       `json:"max_participants,omitempty" binding:"omitempty,gte=2,lte=64"`
	ScheduledAt     time.Time `json:"scheduled_at" binding:"required"`
	DurationMinutes int       `json:"duration_minutes,omitempty" binding:"omitempty,gte=15,lte=480"`
	Location        string    `json:"location,omitempty"`
}

type SubmitBody struct {
	// PartnerID invites a named partner for doubles. Empty joins the solo lobby.
	PartnerID string `json:"partner_id,omitempty"`
}

// SendEngineError maps engine errors onto HTTP statuses.
func SendEngineError(c *gin.Context, err error) {
	var malformed *ErrMalformed
	switch {
	case errors.Is(err, ErrInvalidRequest):
		responses.BadRequest(c, err.Error())
	case errors.Is(err, ErrNotPermitted):
		responses.Forbidden(c, "")
	case errors.Is(err, ErrNotFound):
		responses.NotFound(c, "Resource")
	case errors.Is(err, ErrTryAgain), errors.Is(err, ErrConflict):
		responses.Conflict(c, "")
	case errors.As(err, &malformed):
		log.Printf("malformed record: %v", err)
		responses.InternalServerError(c, "Stored record is inconsistent")
	default:
		log.Printf("engine failure: %v", err)
		responses.InternalServerError(c, "")
	}
}

// SendResult writes a command outcome. No-ops are successful responses with
// applied=false and a reason.
// An applied command whose fan-out stopped early is reported as 202 so the
// caller knows to repeat it.
func SendResult(c *gin.Context, statusCode int, message string, res Result) {
	switch {
	case !res.Applied:
		statusCode = http.StatusOK
		message = "No change: " + string(res.Reason)
	case res.Reason == ReasonFanOutIncomplete:
		statusCode = http.StatusAccepted
		message += "; closing other applications did not finish, repeat the request to resume"
	}
	responses.SendSuccess(c, statusCode, message, res)
}

// CurrentUser returns the authenticated user id or writes a 401.
func CurrentUser(c *gin.Context) (string, bool) {
	userID, err := mw.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, "User not authenticated")
		return "", false
	}
	return userID, true
}

func sendBindError(c *gin.Context, err error) {
	responses.ValidationFailed(c, "", validator.ParseError(err))
}

// CreateEvent godoc
// @Summary Create an event
// @Description The caller becomes the host. Singles events fix their rating window from the host's current rating.
// @Tags Events
// @Accept json
// @Produce json
// @Param event body CreateEventBody true "Event"
// @Success 201 {object} responses.SuccessResponse{data=Event}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Security ApiKeyAuth
// @Router /events [post]
func (mc *MatchController) CreateEvent(c *gin.Context) {
	userID, ok := CurrentUser(c)
	if !ok {
		return
	}
	var body CreateEventBody
	if err := c.ShouldBindJSON(&body); err != nil {
		sendBindError(c, err)
		return
	}
	ev, err := mc.svc.CreateEvent(c.Request.Context(), CreateEventRequest{
		HostID:          userID,
		HostPartnerID:   body.HostPartnerID,
		ClubID:          body.ClubID,
		Title:           body.Title,
		Description:     body.Description,
		GameType:        body.GameType,
		MaxParticipants: body.MaxParticipants,
		ScheduledAt:     body.ScheduledAt,
		DurationMinutes: body.DurationMinutes,
		Location:        body.Location,
	})
	if err != nil {
		SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Event created successfully", ev)
}

// ListEvents godoc
// @Summary List events
// @Tags Events
// @Produce json
// @Param host_id query string false "Host user ID"
// @Param club_id query string false "Club ID"
// @Param status query string false "Event status" Enums(recruiting, full, completed, cancelled)
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Items per page" default(20)
// @Success 200 {object} responses.PaginatedResponse{data=[]Event}
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /events [get]
func (mc *MatchController) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	f := EventFilter{
		HostID:   c.Query("host_id"),
		ClubID:   c.Query("club_id"),
		Status:   EventStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}
	events, total, err := mc.svc.ListEvents(c.Request.Context(), f)
	if err != nil {
		SendEngineError(c, err)
		return
	}
	offset, limit := f.Bounds()
	responses.SendPaginated(c, http.StatusOK, "Events retrieved successfully", events, total, offset/limit+1, limit)
}

// GetEvent godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=Event}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Router /events/{event_id} [get]
func (mc *MatchController) GetEvent(c *gin.Context) {
	ev, err := mc.svc.GetEvent(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Event retrieved successfully", ev)
}

// ListApplications godoc
// @Summary List an event's applications
// @Tags Applications
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=[]Application}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /events/{event_id}/applications [get]
func (mc *MatchController) ListApplications(c *gin.Context) {
	apps, err := mc.svc.ListApplications(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// Submit godoc
// @Summary Apply to an event
// @Description Singles and meetups go straight to the host. Doubles either invite partner_id or join the solo lobby. An ineligible submission is stored as rejected and reported with applied=false.
// @Tags Applications
// @Accept json
// @Produce json
// @Param event_id path string true "Event ID"
// @Param application body SubmitBody false "Partner"
// @Success 201 {object} responses.SuccessResponse{data=Result} "Application submitted"
// @Success 200 {object} responses.SuccessResponse{data=Result} "No change, see reason"
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Failure 409 {object} responses.ErrorResponse "Concurrent update, try again"
// @Security ApiKeyAuth
// @Router /events/{event_id}/applications [post]
func (mc *MatchController) Submit(c *gin.Context) {
	userID, ok := CurrentUser(c)
	if !ok {
		return
	}
	var body SubmitBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			sendBindError(c, err)
			return
		}
	}
	res, err := mc.svc.Submit(c.Request.Context(), SubmitRequest{
		EventID:     c.Param("event_id"),
		ApplicantID: userID,
		PartnerID:   body.PartnerID,
	})
	if err != nil {
		SendEngineError(c, err)
		return
	}
	SendResult(c, http.StatusCreated, "Application submitted", res)
}

// MyApplications godoc
// @Summary List my applications
// @Tags Applications
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]Application}
// @Failure 401 {object} responses.ErrorResponse "Unauthorized"
// @Security ApiKeyAuth
// @Router /users/me/applications [get]
func (mc *MatchController) MyApplications(c *gin.Context) {
	userID, ok := CurrentUser(c)
	if !ok {
		return
	}
	apps, err := mc.svc.ListMyApplications(c.Request.Context(), userID)
	if err != nil {
		SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Applications retrieved successfully", apps)
}

// Withdraw godoc
// @Summary Withdraw an application
// @Description Closes an open application. Withdrawing from a merged team closes both halves.
// @Tags Applications
// @Produce json
// @Param application_id path string true "Application ID"
// @Success 200 {object} responses.SuccessResponse{data=Result}
// @Failure 403 {object} responses.ErrorResponse "Not the applicant"
// @Failure 404 {object} responses.ErrorResponse "Application not found"
// @Security ApiKeyAuth
// @Router /applications/{application_id}/withdraw [post]
func (mc *MatchController) Withdraw(c *gin.Context) {
	userID, ok := CurrentUser(c)
	if !ok {
		return
	}
	res, err := mc.svc.Withdraw(c.Request.Context(), userID, c.Param("application_id"))
	if err != nil {
		SendEngineError(c, err)
		return
	}
	SendResult(c, http.StatusOK, "Application withdrawn", res)
}

// Lobby godoc
// @Summary List the solo lobby
// @Description Solo applicants of a doubles event with their current rating.
// @Tags Teams
// @Produce json
// @Param event_id path string true "Event ID"
// @Success 200 {object} responses.SuccessResponse{data=[]LobbyEntry}
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Security ApiKeyAuth
// @Router /events/{event_id}/lobby [get]
func (mc *MatchController) Lobby(c *gin.Context) {
	entries, err := mc.svc.Lobby(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		SendEngineError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Lobby retrieved successfully", entries)
}

// Calendar godoc
// @Summary Export an event as iCalendar
// @Tags Events
// @Produce text/calendar
// @Param event_id path string true "Event ID"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Router /events/{event_id}/calendar.ics [get]
func (mc *MatchController) Calendar(c *gin.Context) {
	body, err := mc.svc.Calendar(c.Request.Context(), c.Param("event_id"))
	if err != nil {
		SendEngineError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="event.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
