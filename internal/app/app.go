// Package app wires configuration into stores, collaborators and the router.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mroshb/duo_finder/internal/analysis"
	"github.com/mroshb/duo_finder/internal/config"
	"github.com/mroshb/duo_finder/internal/database"
	"github.com/mroshb/duo_finder/internal/handlers"
	"github.com/mroshb/duo_finder/internal/middleware"
	"github.com/mroshb/duo_finder/internal/realtime"
	"github.com/mroshb/duo_finder/internal/repositories"
	"github.com/mroshb/duo_finder/internal/server"
	"github.com/mroshb/duo_finder/internal/services"
	"github.com/mroshb/duo_finder/pkg/logger"
	"github.com/mroshb/duo_finder/pkg/metrics"
	"github.com/mroshb/duo_finder/telegram"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Repos struct {
	Profiles      *repositories.ProfileRepository
	Queue         *repositories.QueueRepository
	Matches       *repositories.MatchRepository
	Notifications *repositories.NotificationRepository
}

type Services struct {
	Profiles      *services.ProfileService
	Queue         *services.QueueService
	Matchmaker    *services.Matchmaker
	Matches       *services.MatchService
	Notifications *services.NotificationService
	Matchmaking   *services.MatchmakingService
}

type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Metrics  *metrics.Manager
	Repos    Repos
	Services Services
	Router   *gin.Engine

	closers []func() error
}

// New connects the database and builds every collaborator the config enables.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	a := &App{Cfg: cfg, DB: db, Metrics: metrics.NewManager()}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	var rdb *goredis.Client
	if cfg.RedisEnabled() {
		rdb = goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			a.Close()
			return nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("Redis connected", "addr", cfg.RedisAddr)
	}

	feed, publisher := a.wireFeed(rdb)
	limiter := a.wireLimiter(rdb)

	a.Repos = Repos{
		Profiles:      repositories.NewProfileRepository(db),
		Queue:         repositories.NewQueueRepository(db),
		Matches:       repositories.NewMatchRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
	}
	a.Services = a.wireServices(limiter, publisher)

	a.Router = server.NewRouter(server.RouterConfig{
		JWTSecret:     cfg.JWTSecret,
		CORSOrigins:   cfg.CORSOrigins,
		Metrics:       a.Metrics,
		Health:        handlers.NewHealthHandler(db),
		Profiles:      handlers.NewProfileHandler(a.Services.Profiles),
		Matchmaking:   handlers.NewMatchmakingHandler(a.Services.Matchmaking, a.Services.Queue),
		Matches:       handlers.NewMatchHandler(a.Services.Matches),
		Notifications: handlers.NewNotificationHandler(a.Services.Notifications),
		Realtime:      handlers.NewRealtimeHandler(feed),
	})
	return a, nil
}

// wireFeed returns the subscription side and the publishing side of the
// change feed. Kafka, when configured, receives a copy of every event.
func (a *App) wireFeed(rdb *goredis.Client) (realtime.Subscriber, realtime.Publisher) {
	var feed realtime.Feed
	var name string
	if rdb != nil {
		// Closing the feed closes the shared client.
		redisFeed := realtime.NewRedisFeed(rdb, a.Cfg.RedisChannelPrefix)
		a.closers = append(a.closers, redisFeed.Close)
		feed, name = redisFeed, "redis"
	} else {
		feed, name = realtime.NewHub(), "hub"
	}

	sinks := []realtime.Sink{{Name: name, Publisher: feed}}
	if a.Cfg.KafkaEnabled() {
		kafka := realtime.NewKafkaPublisher(a.Cfg.KafkaBrokers, a.Cfg.KafkaTopic)
		a.closers = append(a.closers, kafka.Close)
		sinks = append(sinks, realtime.Sink{Name: "kafka", Publisher: kafka})
		logger.Info("Kafka event stream enabled", "topic", a.Cfg.KafkaTopic)
	}

	publisher := realtime.NewFanout(func(sink string, err error) {
		a.Metrics.RecordFeedPublishError(sink)
	}, sinks...)
	return feed, publisher
}

func (a *App) wireLimiter(rdb *goredis.Client) middleware.RateLimiter {
	limits := middleware.Limits{
		middleware.ActionMatching:     a.Cfg.RateLimitMatching,
		middleware.ActionAnalysis:     a.Cfg.RateLimitAnalysis,
		middleware.ActionNotification: a.Cfg.RateLimitNotification,
	}
	if rdb != nil {
		return middleware.NewRedisRateLimiter(rdb, "duofinder:ratelimit:", limits, a.Cfg.GetRateLimitWindow())
	}
	limiter := middleware.NewMemoryRateLimiter(limits, a.Cfg.GetRateLimitWindow())
	a.closers = append(a.closers, func() error { limiter.Close(); return nil })
	return limiter
}

func (a *App) wireServices(limiter middleware.RateLimiter, publisher realtime.Publisher) Services {
	var oracle analysis.Oracle
	if a.Cfg.LLMBaseURL != "" {
		client, err := analysis.NewClient(analysis.Config{
			BaseURL: a.Cfg.LLMBaseURL,
			APIKey:  a.Cfg.LLMAPIKey,
			Model:   a.Cfg.LLMModel,
			Timeout: a.Cfg.GetLLMTimeout(),
		}, nil)
		if err != nil {
			logger.Warn("Text analysis disabled", "error", err)
		} else {
			oracle = client
		}
	}

	var pusher services.Pusher
	if a.Cfg.TelegramBotToken != "" {
		p, err := telegram.NewPusher(a.Cfg.TelegramBotToken, a.Cfg.PublicAppURL, a.Cfg.AppEnv == "development")
		if err != nil {
			logger.Warn("Telegram push disabled", "error", err)
		} else {
			pusher = p
		}
	}

	queue := services.NewQueueService(a.Repos.Queue, a.Repos.Profiles, a.Metrics, a.Cfg.GetQueueTTL(), nil)
	matchmaker := services.NewMatchmaker(a.Repos.Queue, a.Repos.Profiles, nil, nil)
	matches := services.NewMatchService(a.Repos.Matches, publisher, a.Metrics, nil)
	notifications := services.NewNotificationService(a.Repos.Notifications, a.Repos.Profiles, services.NotificationServiceOptions{
		Limiter:   limiter,
		Publisher: publisher,
		Pusher:    pusher,
		Metrics:   a.Metrics,
	})

	return Services{
		Profiles:      services.NewProfileService(a.Repos.Profiles),
		Queue:         queue,
		Matchmaker:    matchmaker,
		Matches:       matches,
		Notifications: notifications,
		Matchmaking: services.NewMatchmakingService(services.MatchmakingDeps{
			Queue:         queue,
			Matchmaker:    matchmaker,
			Matches:       matches,
			Notifications: notifications,
			Annotator:     analysis.NewAnnotator(oracle, a.Metrics),
			Limiter:       limiter,
			Metrics:       a.Metrics,
		}),
	}
}

// Close releases collaborators in reverse order of creation.
func (a *App) Close() {
	if a == nil {
		return
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}
