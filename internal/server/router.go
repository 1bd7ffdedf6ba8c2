// Package server wires the handlers into a gin engine.
package server

import (
	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/handlers"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/pkg/metrics"
)

type RouterConfig struct {
	JWTSecret   string
	CORSOrigins []string
	Metrics     *metrics.Manager

	Health        *handlers.HealthHandler
	Profiles      *handlers.ProfileHandler
	Matchmaking   *handlers.MatchmakingHandler
	Matches       *handlers.MatchHandler
	Notifications *handlers.NotificationHandler
	Realtime      *handlers.RealtimeHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.Metrics(cfg.Metrics))

	// Public
	if cfg.Health != nil {
		router.GET("/healthcheck", cfg.Health.Check)
	}
	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	// Protected
	api := router.Group("/api")
	api.Use(middleware.RequireAuth(cfg.JWTSecret))

	api.GET("/profile", cfg.Profiles.GetMe)
	api.PUT("/profile", cfg.Profiles.UpsertMe)

	api.GET("/matchmaking", cfg.Matchmaking.Status)
	api.POST("/matchmaking", cfg.Matchmaking.Start)
	api.DELETE("/matchmaking", cfg.Matchmaking.Cancel)

	api.GET("/matches", cfg.Matches.List)
	api.GET("/matches/:id", cfg.Matches.Get)
	api.PATCH("/matches/:id/status", cfg.Matches.SetStatus)
	api.PATCH("/matches/:id/discord", cfg.Matches.SetDiscordShared)

	api.GET("/notifications", cfg.Notifications.List)
	api.GET("/notifications/unread-count", cfg.Notifications.UnreadCount)
	api.POST("/notifications/read-all", cfg.Notifications.MarkAllRead)
	api.POST("/notifications/:id/read", cfg.Notifications.MarkRead)

	if cfg.Realtime != nil {
		api.GET("/events", cfg.Realtime.Stream)
	}

	return router
}
