package main

import (
	"github.com/gin-gonic/gin"

	"github.com/transcript-ai/backend/internal/config"
	"github.com/transcript-ai/backend/internal/logging"
	"github.com/transcript-ai/backend/internal/middleware"
)

func setupRouter(api *API, cfg *config.Config, log *logging.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(log))
	router.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)))

	router.GET("/", api.root)
	router.GET("/health", api.health)
	router.GET("/platforms", api.platforms)
	router.GET("/info", api.info)

	router.POST("/transcribe", api.transcribeURL)
	router.POST("/transcribe/upload", api.transcribeUpload)
	router.POST("/formats", api.formats)
	router.POST("/download", api.download)

	return router
}
