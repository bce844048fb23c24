package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"validation-service/internal/config"
	"validation-service/internal/crypto"
	"validation-service/internal/lexicon"
	"validation-service/internal/model_client"
	"validation-service/internal/repository"
	"validation-service/internal/server"
	"validation-service/internal/service"
	"validation-service/internal/telegram_bot"
	"validation-service/internal/validator"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Pattern tables for the detectors, optionally overridden from file
	lex, err := lexicon.Load(cfg.Lexicon.Path)
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Transcript encryption at rest
	cipher, err := crypto.NewTranscriptCipher()
	if err != nil {
		logger.Fatal("Failed to initialize transcript cipher", zap.Error(err))
	}

	// Initialize repositories
	lessonRepo := repository.NewLessonRepository(db, logger)
	validationRepo := repository.NewValidationRepository(db, logger)

	// Rigor validation engine
	rigorValidator := validator.New(lex, logger)

	// External model adapter client
	modelTimeout := time.Duration(cfg.ModelService.TimeoutSeconds) * time.Second
	modelClient := model_client.NewClient(cfg.ModelService.URL, modelTimeout)

	// Telegram alert bot (optional)
	bot, err := telegram_bot.NewBot(cfg, validationRepo, logger)
	if err != nil {
		logger.Warn("Failed to initialize Telegram bot, continuing without it", zap.Error(err))
		bot = nil
	}

	analysisService := service.NewAnalysisService(
		rigorValidator,
		modelClient,
		lessonRepo,
		validationRepo,
		cipher,
		bot,
		modelTimeout,
		logger,
	)

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Run Telegram bot in a goroutine (if enabled)
	if bot != nil {
		go func() {
			if err := bot.Start(ctx); err != nil {
				logger.Error("Telegram bot failed", zap.Error(err))
			}
		}()
	}

	// Initialize and run the server
	srv := server.NewServer(db, cfg, analysisService, logger)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
