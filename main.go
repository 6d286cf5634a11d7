package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"talkitout/internal/config"
	"talkitout/internal/crypto"
	"talkitout/internal/llm_client"
	"talkitout/internal/repository"
	"talkitout/internal/server"
	"talkitout/internal/telegram_bot"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	accessLog := logrus.New()
	accessLog.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfgPath := "configs/config.yml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		cfgPath = envPath
	}
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Cipher for at-rest encryption of message bodies
	cipher, err := crypto.NewTextCipherFromEnv()
	if err != nil {
		logger.Fatal("Failed to initialize text cipher", zap.Error(err))
	}

	// Generation client. An absent API key is a supported state: the chat
	// degrades to fixed fallback replies and safe-default classification.
	llm := llm_client.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Model,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second)
	if !llm.Enabled() {
		logger.Warn("AI service credential not configured - classifier and responder run in degraded mode")
	}

	// Telegram notifications for counselors (optional)
	flagRepo := repository.NewRiskFlagRepository(db, logger)
	bot, err := telegram_bot.NewBot(cfg, flagRepo, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram bot, continuing without it", zap.Error(err))
		bot = nil
	}

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if bot != nil {
		go func() {
			if err := bot.Start(ctx); err != nil {
				logger.Error("Telegram bot failed", zap.Error(err))
			}
		}()
	}

	// Initialize and run the server; Run returns once ctx is cancelled and
	// in-flight requests have drained.
	srv := server.NewServer(db, cfg, logger, accessLog, cipher, llm, bot)
	srv.Run(ctx, cfg.Server.Port)

	logger.Info("Application stopped.")
}
