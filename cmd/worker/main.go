package main

import (
	"context"
	"log"
	"time"

	"headshotstyler/config"
	"headshotstyler/dbhelper"
	"headshotstyler/logging"
	"headshotstyler/services"
	"headshotstyler/tasks"
	"headshotstyler/telegram"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %s", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat).With(zap.String("component", "worker"))
	defer logger.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Environment: cfg.Env}); err != nil {
			logger.Fatal("sentry.Init", zap.Error(err))
		}
		defer sentry.Flush(2 * time.Second)
	}

	var calls services.CallLogRecorder = services.NopCallLogRecorder{}
	if cfg.DatabaseEnabled() {
		db, err := dbhelper.SetupDB(cfg)
		if err != nil {
			logger.Fatal("[Queue] database", zap.Error(err))
		}
		calls = &services.GormCallLogRecorder{DB: db}
	}

	stylist, err := services.NewGoogleStylist(context.Background(), services.StylistConfig{
		APIKey:     cfg.GoogleAPIKey,
		BaseURL:    cfg.GenAIBaseURL,
		TextModel:  cfg.TextModel,
		ImageModel: cfg.ImageModel,

		WhitenBackground: cfg.WhitenBackground,
	}, logger, calls)
	if err != nil {
		logger.Fatal("[Queue] stylist", zap.Error(err))
	}

	var notifier telegram.Notifier = telegram.NopNotifier{}
	if cfg.TelegramToken != "" && cfg.TelegramFeedbackChatID != 0 {
		bot, err := telegram.NewBotNotifier(cfg.TelegramToken, cfg.TelegramFeedbackChatID)
		if err != nil {
			logger.Fatal("[Queue] telegram", zap.Error(err))
		}
		notifier = bot
	} else {
		logger.Info("TG_TOKEN or TG_FEEDBACK_CHAT_ID not set, feedback notifications disabled")
	}

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.BrokerAddress},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				tasks.FeedbackQueue: 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeImproveSuggestions, func(ctx context.Context, t *asynq.Task) error {
		return tasks.HandleImproveSuggestionsTask(ctx, t, stylist, notifier, logger)
	})

	if err := srv.Run(mux); err != nil {
		logger.Fatal("[Queue] worker stopped", zap.Error(err))
	}
}
