package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/gatheringhouse/event-signup/internal/config"
	"github.com/gatheringhouse/event-signup/internal/database"
	"github.com/gatheringhouse/event-signup/internal/handler"
	"github.com/gatheringhouse/event-signup/internal/mailer"
	"github.com/gatheringhouse/event-signup/internal/middleware"
	"github.com/gatheringhouse/event-signup/internal/queue"
	"github.com/gatheringhouse/event-signup/internal/repository"
	"github.com/gatheringhouse/event-signup/internal/router"
	"github.com/gatheringhouse/event-signup/internal/storage"
	"github.com/gatheringhouse/event-signup/internal/sweeper"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).With().Timestamp().Logger()
	cfg := config.Load()
	if cfg.Env == "dev" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatal().Err(err).Msg("database migrate failed")
	}
	cancel()

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Warn().Msg("redis unavailable, cache and rate limiting disabled")
	}

	photoStore, err := storage.NewPhotoStore(context.Background(), cfg.S3Bucket, cfg.S3Region, cfg.S3BaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("photo storage init failed")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	events := repository.NewEventRepo(db)
	applications := repository.NewApplicationRepo(db)
	reviews := repository.NewReviewRepo(db)

	publisher := queue.NewPublisher(cfg.AMQPURL, &log)

	authH := handler.NewAuthHandler(cfg, users, tokens, &log)
	profileH := handler.NewProfileHandler(profiles, &log)
	photoH := handler.NewPhotoHandler(photoStore, &log)
	eventH := handler.NewEventHandler(events, applications, &log)
	applicationH := handler.NewApplicationHandler(events, applications, &log)
	reviewH := handler.NewReviewHandler(reviews, applications, &log)
	adminEventH := handler.NewAdminEventHandler(events, &log)
	adminApplicationH := handler.NewAdminApplicationHandler(events, applications, users, publisher, &log)
	adminReviewH := handler.NewAdminReviewHandler(reviews, &log)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheCfg := config.LoadCacheConfig()
	cache := middleware.NewRedisCache(cacheCfg, rdb)
	invalidate := middleware.NewCacheInvalidator(cacheCfg, rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, eventH, reviewH, cfg.JWTSecret, cache)
	router.RegisterMember(e, profileH, photoH, applicationH, reviewH, cfg.JWTSecret, invalidate)
	router.RegisterAdmin(e, adminEventH, adminApplicationH, adminReviewH, cfg.JWTSecret, invalidate)

	go queue.StartStatusConsumer(cfg.AMQPURL, &log, mailer.New(cfg, &log))
	go sweeper.Run(context.Background(), applications, cfg.SweepInterval, &log)

	addr := ":" + cfg.Port
	log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("server starting")
	if err := e.Start(addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
