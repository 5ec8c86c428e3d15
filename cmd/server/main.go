package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/studyhall/quizdeck-backend/internal/config"
	"github.com/studyhall/quizdeck-backend/internal/database"
	"github.com/studyhall/quizdeck-backend/internal/extract"
	"github.com/studyhall/quizdeck-backend/internal/handler"
	"github.com/studyhall/quizdeck-backend/internal/llm"
	"github.com/studyhall/quizdeck-backend/internal/logger"
	"github.com/studyhall/quizdeck-backend/internal/repository"
	"github.com/studyhall/quizdeck-backend/internal/router"
	"github.com/studyhall/quizdeck-backend/internal/service"
	"github.com/studyhall/quizdeck-backend/internal/store"
	"github.com/studyhall/quizdeck-backend/internal/validator"
	"github.com/studyhall/quizdeck-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QuizDeck Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize LLM Provider ───────────────────────────────────────
	provider, err := llm.NewProvider(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize LLM provider")
	}

	// ─── Initialize Stores and Repositories ────────────────────────────
	bankStore := store.NewRedisBankStore(rdb, cfg.SessionTTL, log)
	resultRepo := repository.NewResultRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	extractor := extract.NewService(cfg.MinTextLength, log)
	generator := service.NewGeneratorService(extractor, provider, bankStore, cfg, log)
	quizService := service.NewQuizService(bankStore, resultRepo, cfg.TimePerQuestion, log)
	historyService := service.NewHistoryService(resultRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:    handler.NewQuizHandler(generator, quizService, cfg.MaxUploadBytes),
		History: handler.NewHistoryHandler(historyService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	sweeper := worker.NewSessionSweeper(rdb, cfg.SweepInterval, log)
	go sweeper.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the background sweeper.
	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
