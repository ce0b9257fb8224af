package realtime

import (
	"github.com/gin-gonic/gin"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
)

func StreamRoutes(router *gin.RouterGroup, broker Broker, repo match.Repository) {
	streamController := NewStreamController(broker, repo)

	router.GET("/events/:event_id/stream", streamController.Stream)
}
