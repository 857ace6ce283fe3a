package main

import (
	"context"
	"log"
	"time"

	"headshotstyler/board"
	"headshotstyler/config"
	"headshotstyler/controllers"
	"headshotstyler/dbhelper"
	"headshotstyler/logging"
	"headshotstyler/services"
	"headshotstyler/tasks"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/hibiken/asynq"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	defer logger.Sync()

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Env,
			Release:          "headshotstyler@1.0.0",
			TracesSampleRate: 1.0,
		})
		if err != nil {
			logger.Fatal("sentry.Init", zap.Error(err))
		}
		defer sentry.Recover()
		defer sentry.Flush(2 * time.Second)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls services.CallLogRecorder = services.NopCallLogRecorder{}
	if cfg.DatabaseEnabled() {
		db, err := dbhelper.SetupDB(cfg)
		if err != nil {
			logger.Fatal("database", zap.Error(err))
		}
		calls = &services.GormCallLogRecorder{DB: db}
	} else {
		logger.Info("DB_HOST not set, provider call logs are not persisted")
	}

	stylist, err := services.NewGoogleStylist(ctx, services.StylistConfig{
		APIKey:     cfg.GoogleAPIKey,
		BaseURL:    cfg.GenAIBaseURL,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,

		WhitenBackground: cfg.WhitenBackground,
	}, logger, calls)
	if err != nil {
		logger.Fatal("stylist", zap.Error(err))
	}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.BrokerAddress})
	defer asynqClient.Close()

	sessions := board.NewStore(cfg.SessionTTL)
	go sessions.Run(ctx, time.Minute)

	e := controllers.SetupServer(controllers.ServerOptions{
		Stylist:           stylist,
		Feedback:          &tasks.QueueFeedbackRecorder{Client: asynqClient, Logger: logger},
		Sessions:          sessions,
		Logger:            logger,
		SuggestionTimeout: cfg.SuggestionTTL,
		ImageTimeout:      cfg.ImageTimeout,
		SessionTTL:        cfg.SessionTTL,
	})
	e.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rate.Limit(cfg.RateLimit))))
	e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))

	logger.Info("starting api", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
