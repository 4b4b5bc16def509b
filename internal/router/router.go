package router

import (
	"time"

	"spotlike/config"
	"spotlike/internal/engine"
	"spotlike/internal/handler"
	"spotlike/internal/middleware"
	"spotlike/internal/repository"
	"spotlike/pkg/cloudinary"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, cloud cloudinary.Client) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewIPRateLimiter(5, 30, 3*time.Minute)))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	locRepo := repository.NewLocationRepository(db)
	likeRepo := repository.NewLikeRepository(db)

	// Core engine
	eng := engine.New(cfg.Engine, userRepo, locRepo, likeRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(cfg, userRepo, likeRepo)
	locationHandler := handler.NewLocationHandler(eng, userRepo, locRepo, likeRepo)
	nearbyHandler := handler.NewNearbyHandler(eng)
	likeHandler := handler.NewLikeHandler(eng)
	leaderboardHandler := handler.NewLeaderboardHandler(likeRepo)
	profileHandler := handler.NewProfileHandler(userRepo, locRepo, likeRepo)
	uploadHandler := handler.NewUploadHandler(cloud, userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/telegram", authHandler.Telegram)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		me := api.Group("/me")
		me.Use(authMw)
		{
			me.POST("/location", locationHandler.Heartbeat)
			me.GET("/location", locationHandler.GetMyLocation)
			me.POST("/avatar", uploadHandler.UploadAvatar)
		}

		api.GET("/nearby", authMw, nearbyHandler.Nearby)
		api.POST("/likes", authMw, likeHandler.Like)
		api.GET("/users/:id", authMw, profileHandler.GetProfile)
		api.GET("/leaderboard", leaderboardHandler.Leaderboard)
	}

	return r
}
