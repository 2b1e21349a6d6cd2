package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/altscore/credit-system/internal/api"
	"github.com/altscore/credit-system/internal/core/service"
	"github.com/altscore/credit-system/internal/infrastructure/config"
	mongodb "github.com/altscore/credit-system/internal/infrastructure/db/mongo"
	redisdb "github.com/altscore/credit-system/internal/infrastructure/db/redis"
	"github.com/altscore/credit-system/internal/infrastructure/dataset"
	"github.com/altscore/credit-system/internal/infrastructure/llm"
	"github.com/altscore/credit-system/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.LogLevel, cfg.Env)

	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	ds := dataset.NewCSVDataset(cfg.DataDir)
	llmClient := llm.NewClient(llm.Config{
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})

	aggregator := service.NewMasterAggregator(ds, log)
	scorer := service.NewScoringService(llmClient, log)
	queries := service.NewQueryService(ds, aggregator, scorer, llmClient, log)
	chat := service.NewChatService(queries, mongodb.NewTranscriptRepository(db), redisdb.NewDedupChecker(rdb), log)
	auth := service.NewAuthService(cfg.AdminUser, cfg.AdminPasswordHash, cfg.JWTSecret, 0)

	// The self-test runs the full pipeline once before the server accepts
	// traffic. A failing source table is fatal; a missing LLM is not.
	if err := service.SelfTest(ctx, aggregator, scorer, llmClient, log); err != nil {
		log.Fatal().Err(err).Msg("startup self-test failed")
	}

	e := api.NewRouter(api.Deps{
		Config:  cfg,
		Mongo:   db,
		Redis:   rdb,
		Dataset: ds,
		LLM:     llmClient,
		Queries: queries,
		Chat:    chat,
		Auth:    auth,
		Log:     log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
