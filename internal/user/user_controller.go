package user

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/validator"
)

type UserController struct {
	repo UserRepository
}

func NewUserController(repo UserRepository) *UserController {
	return &UserController{repo: repo}
}

// RatingProfile is the profile document other services read ratings from.
type RatingProfile struct {
	UserID            string             `json:"user_id"`
	Gender            string             `json:"gender,omitempty"`
	Ratings           map[string]float64 `json:"ratings,omitempty"`
	SelfReportedLevel string             `json:"self_reported_level,omitempty"`
}

type SetRatingRequest struct {
	Kind string  `json:"kind" binding:"required,oneof=singles doubles mixed" example:"doubles"`
	Elo  float64 `json:"elo" binding:"required,gte=0,lte=4000" example:"1450"`
}

// GetRatingProfile godoc
// @Summary Get a player's rating profile
// @Description Returns gender, per-kind ELO and self-reported level. The body is the bare profile document so that the engine's HTTP rating source can read it.
// @Tags Users
// @Produce json
// @Param user_id path string true "User ID"
// @Success 200 {object} RatingProfile
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Router /users/{user_id}/ratings [get]
func (uc *UserController) GetRatingProfile(c *gin.Context) {
	ctx := c.Request.Context()
	u, err := uc.repo.GetUserByID(ctx, c.Param("user_id"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	ratings, err := uc.repo.GetRatings(ctx, u.ID)
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to load ratings")
		return
	}
	profile := RatingProfile{
		UserID:            u.ID,
		Gender:            u.Gender,
		SelfReportedLevel: u.SelfReportedLevel,
		Ratings:           make(map[string]float64, len(ratings)),
	}
	for _, r := range ratings {
		profile.Ratings[r.Kind] = r.Elo
	}
	c.JSON(http.StatusOK, profile)
}

// SetRating godoc
// @Summary Set a player's ELO
// @Description Admin only. Writes the ELO for one rating kind; later eligibility checks read it.
// @Tags Admin
// @Accept json
// @Produce json
// @Param user_id path string true "User ID"
// @Param rating body SetRatingRequest true "Rating"
// @Success 200 {object} responses.SuccessResponse{data=UserRating}
// @Failure 400 {object} responses.ErrorResponse "Invalid input"
// @Failure 404 {object} responses.ErrorResponse "User not found"
// @Failure 500 {object} responses.ErrorResponse "Internal server error"
// @Security ApiKeyAuth
// @Router /admin/users/{user_id}/ratings [put]
func (uc *UserController) SetRating(c *gin.Context) {
	var req SetRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"status": "error", "code": http.StatusBadRequest, "errors": validator.ParseError(err)})
		return
	}
	ctx := c.Request.Context()
	u, err := uc.repo.GetUserByID(ctx, c.Param("user_id"))
	if err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to load user")
		return
	}
	if u == nil {
		responses.NotFound(c, "User")
		return
	}
	r := &UserRating{
		UserID:    u.ID,
		Kind:      req.Kind,
		Elo:       req.Elo,
		UpdatedAt: time.Now().UTC(),
	}
	if err := uc.repo.UpsertRating(ctx, r); err != nil {
		responses.SendError(c, http.StatusInternalServerError, "Failed to save rating: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Rating updated", r)
}
