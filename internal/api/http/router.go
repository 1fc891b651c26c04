package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"ozzus/domain-scout/internal/api/http/middleware"
)

func NewRouter(healthController *HealthController, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Logger(log), gin.Recovery())

	router.GET("/health", healthController.Health)
	router.GET("/ready", healthController.Ready)
	router.GET("/status", healthController.Status)
	router.GET("/available", healthController.Available)

	return router
}
