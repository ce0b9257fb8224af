package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/goodseed1/Lightning-Pickleball-sub019/config"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/approval"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/auth"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/match"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/middleware"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/notification"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/realtime"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/sport"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/team"
	"github.com/goodseed1/Lightning-Pickleball-sub019/internal/user"
)

// Services are the engine components the HTTP layer is built on.
type Services struct {
	Match         *match.Service
	Teams         *team.Service
	Approvals     *approval.Service
	Notifications notification.NotificationRepository
	Broker        realtime.Broker
}

func SetupRoutes(db *gorm.DB, cfg *config.Config, svc Services) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.App.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": cfg.Store.Driver})
	})

	// Swagger route
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	requireAuth := middleware.AuthMiddleware(cfg.JWT.AccessTokenSecret, db)

	auth.RegisterAuthRoutes(api, db, cfg)
	user.UserRoutes(api, db, cfg.JWT.AccessTokenSecret)
	sport.RegisterSportRoutes(api)

	match.MatchRoutes(api, svc.Match, requireAuth)
	team.TeamRoutes(api, svc.Teams, requireAuth)
	approval.ApprovalRoutes(api, svc.Approvals, requireAuth)
	notification.NotificationRoutes(api, svc.Notifications, requireAuth)
	realtime.StreamRoutes(api, svc.Broker, svc.Match.Repo())

	return r
}
