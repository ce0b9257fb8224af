package realtime

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/responses"
)

const keepAliveInterval = 25 * time.Second

type StreamController struct {
	broker    Broker
	repo      match.Repository
	keepAlive time.Duration
}

func NewStreamController(broker Broker, repo match.Repository) *StreamController {
	return &StreamController{broker: broker, repo: repo, keepAlive: keepAliveInterval}
}

// Stream godoc
// @Summary Follow an event's changes
// @Description Server-sent events. Each message is named after the change kind (application_submitted, team_formed, application_approved, ...) and carries the change as JSON. A ping is sent while idle.
// @Tags Events
// @Produce text/event-stream
// @Param event_id path string true "Event ID"
// @Success 200 {object} match.Change
// @Failure 404 {object} responses.ErrorResponse "Event not found"
// @Router /events/{event_id}/stream [get]
func (sc *StreamController) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	eventID := c.Param("event_id")
	if _, err := sc.repo.GetEvent(ctx, eventID); err != nil {
		if match.IsNotFound(err) {
			responses.NotFound(c, "Event")
			return
		}
		responses.InternalServerError(c, "Failed to load event")
		return
	}

	changes, cancel, err := sc.broker.Subscribe(ctx, eventID)
	if err != nil {
		responses.SendError(c, http.StatusServiceUnavailable, "Live updates unavailable")
		return
	}
	defer cancel()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.SSEvent("ready", gin.H{"event_id": eventID})
	c.Writer.Flush()

	ticker := time.NewTicker(sc.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-changes:
			if !ok {
				return
			}
			c.SSEvent(change.Kind, change)
			c.Writer.Flush()
		case <-ticker.C:
			c.SSEvent("ping", gin.H{"at": time.Now().UTC()})
			c.Writer.Flush()
		}
	}
}
