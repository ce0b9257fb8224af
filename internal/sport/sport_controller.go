package sport

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
)

// SportController serves the game type catalog.
type SportController struct{}

func NewSportController() *SportController {
	return &SportController{}
}

// GetGameTypes godoc
// @Summary List game types
// @Description Returns every supported game type with its rating track, gender restriction and roster size.
// @Tags Sports
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=[]GameTypeInfo}
// @Router /sports/game-types [get]
func (sc *SportController) GetGameTypes(c *gin.Context) {
	responses.SendSuccess(c, http.StatusOK, "Game types retrieved", Catalog())
}
