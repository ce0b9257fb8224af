package user

import (
	mw "github.com/goodseed1/Lightning-Pickleball-sub019/internal/middleware"
	"github.com/goodseed1/Lightning-Pickleball-sub019/pkg/rmiddleware"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func UserRoutes(router *gin.RouterGroup, db *gorm.DB, jwtSecret string) {
	repo := NewUserRepository(db)
	userController := NewUserController(repo)

	router.GET("/users/:user_id/ratings", userController.GetRatingProfile)

	adminRoutes := router.Group("/admin")
	adminRoutes.Use(mw.AuthMiddleware(jwtSecret, db))
	adminRoutes.Use(rmiddleware.AdminMiddleware(repo))
	{
		adminRoutes.PUT("/users/:user_id/ratings", userController.SetRating)
	}
}
