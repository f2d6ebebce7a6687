package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jpaulsen/lawflow/internal/api"
	"github.com/jpaulsen/lawflow/internal/config"
	"github.com/jpaulsen/lawflow/internal/db"
	"github.com/jpaulsen/lawflow/internal/genai"
	"github.com/jpaulsen/lawflow/internal/logger"
	"github.com/jpaulsen/lawflow/internal/services"
	"github.com/jpaulsen/lawflow/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LawFlow Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("anthropic_model=%s", cfg.AnthropicModel)
	log.Debug("default_user_id=%s", cfg.DefaultUserID)
	log.Debug("ingest_worker_count=%d", cfg.IngestWorkerCount)
	log.Debug("ingest_queue_size=%d", cfg.IngestQueueSize)
	log.Debug("gen_worker_count=%d", cfg.GenWorkerCount)
	log.Debug("gen_queue_size=%d", cfg.GenQueueSize)
	log.Debug("max_chunk_tokens=%d", cfg.MaxChunkTokens)
	log.Debug("max_exam_questions=%d", cfg.MaxExamQuestions)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize the model collaborator. Without an API key the server still
	// runs; generation and grading fall back to canned responses.
	var ai genai.Collaborator
	if cfg.AnthropicAPIKey != "" {
		client, err := genai.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		if err != nil {
			log.Error("failed to initialize model client: %v", err)
			os.Exit(1)
		}
		ai = client
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, using mock collaborator")
		ai = &genai.Mock{}
	}

	// Initialize worker pools
	ingestPool := worker.NewPool("ingest", cfg.IngestWorkerCount, cfg.IngestQueueSize)
	genPool := worker.NewPool("generation", cfg.GenWorkerCount, cfg.GenQueueSize)

	// Initialize services
	rewardsService := services.NewRewardsService(database)
	planService := services.NewPlanService(database)
	blueprintService := services.NewBlueprintService(database, ai, rewardsService)
	examService := services.NewExamService(database, ai, rewardsService, cfg.MaxExamQuestions)
	reviewService := services.NewReviewService(database, ai, rewardsService)
	documentService := services.NewDocumentService(database, ai, rewardsService, cfg.MaxChunkTokens)
	progressService := services.NewProgressService(database, reviewService)

	srv := &api.Server{
		DB:            database,
		Plans:         planService,
		Blueprints:    blueprintService,
		Exams:         examService,
		Review:        reviewService,
		Rewards:       rewardsService,
		Documents:     documentService,
		Progress:      progressService,
		IngestPool:    ingestPool,
		GenPool:       genPool,
		DefaultUserID: cfg.DefaultUserID,
	}

	ctx, cancel := context.WithCancel(context.Background())
	ingestPool.Start(ctx)
	genPool.Start(ctx)

	// Seed the default learner up front so first requests don't pay for it.
	if err := services.SeedLearner(ctx, database, cfg.DefaultUserID); err != nil {
		log.Error("failed to seed default learner: %v", err)
		os.Exit(1)
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pools")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	log.Debug("stopping ingest pool")
	ingestPool.Stop()
	log.Debug("stopping generation pool")
	genPool.Stop()

	log.Info("===========================================")
	log.Info("LawFlow Server Stopped")
	log.Info("===========================================")
}
