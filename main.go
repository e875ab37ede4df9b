package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/linkup-social/linkup-be/internal/api"
	"github.com/linkup-social/linkup-be/internal/cache"
	"github.com/linkup-social/linkup-be/internal/config"
	"github.com/linkup-social/linkup-be/internal/database"
	"github.com/linkup-social/linkup-be/internal/logger"
	"github.com/linkup-social/linkup-be/internal/monitoring"
	"github.com/linkup-social/linkup-be/internal/ratelimit"
	"github.com/linkup-social/linkup-be/internal/services"
	"github.com/linkup-social/linkup-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

func main() {
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up Redis (rate limiter + counters)
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable at startup; throttling degrades to allow-all until it recovers")
	}

	// Set up WebSocket Hub
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	notificationService := services.NewNotificationService(db, redisCache, hub)
	followService := services.NewFollowService(db, notificationService)
	postService := services.NewPostService(db, followService, notificationService)
	storyService := services.NewStoryService(db, followService)
	messageService := services.NewMessageService(db, notificationService, hub)
	reportService := services.NewReportService(db, userService, notificationService)

	// 5 follow actions per source IP per minute
	followLimiter := ratelimit.NewLimiter(redisCache, "follow", 5, time.Minute)

	// Set up and run the background story sweeper
	sweeper, err := monitoring.NewStorySweeper(storyService, cfg.StorySweepCron)
	if err != nil {
		log.Fatal().Err(err).Str("spec", cfg.StorySweepCron).Msg("Invalid story sweep cron spec")
	}
	go sweeper.Run()

	// Set up and run the admin stats broadcaster
	statsBroadcaster := monitoring.NewStatsBroadcaster(hub)
	go statsBroadcaster.Run()

	// Set up router
	router := api.NewRouter(hub, api.Services{
		Users:         userService,
		Follows:       followService,
		Notifications: notificationService,
		Posts:         postService,
		Stories:       storyService,
		Messages:      messageService,
		Reports:       reportService,
	}, followLimiter)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	sweeper.Stop()
	statsBroadcaster.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
