package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/voyatic/tripdex/internal/config"
	dbRedis "github.com/voyatic/tripdex/internal/db/redis"
	"github.com/voyatic/tripdex/internal/domain"
	logpkg "github.com/voyatic/tripdex/internal/logger"
	"github.com/voyatic/tripdex/internal/metrics"
	candidaterepo "github.com/voyatic/tripdex/internal/repository/candidate"
	"github.com/voyatic/tripdex/internal/repository/embcache"
	fragmentrepo "github.com/voyatic/tripdex/internal/repository/fragment"
	chiTransport "github.com/voyatic/tripdex/internal/transport/chi"
	openaiEmb "github.com/voyatic/tripdex/internal/transport/openai"
	healthuc "github.com/voyatic/tripdex/internal/usecase/health"
	ingestuc "github.com/voyatic/tripdex/internal/usecase/ingest"
	searchuc "github.com/voyatic/tripdex/internal/usecase/search"
	"github.com/voyatic/tripdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tripdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// All Redis keys and the index name derive from this prefix.
	domain.KeyPrefix = cfg.Storage.KeyPrefix

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	// Wait for database to be ready
	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	if err := fragmentrepo.EnsureIndex(ctx, store, cfg.Embedding.Dimensions, fragmentrepo.HNSWConfig{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}); err != nil {
		logger.Fatal("Failed to ensure fragment index", zap.Error(err))
	}

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()
	metrics.RegisterIngestMetrics()

	// Embedder chains: provider -> cache -> instruction prefix. Queries and
	// documents get separate instructions but share the provider and cache.
	provider := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	cached := embcache.New(
		provider,
		store,
		time.Duration(cfg.Embedding.CacheTTLSec)*time.Second,
		metrics.EmbeddingCacheTotal,
		logger,
	)
	queryEmbedder := domain.NewInstructionEmbedder(cached, cfg.Embedding.QueryInstruction)
	docEmbedder := domain.NewInstructionEmbedder(cached, cfg.Embedding.DocumentInstruction)
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	// Repositories and services
	candidateRepo := candidaterepo.New(store)
	fragmentRepo := fragmentrepo.New(store)

	searchSvc := searchuc.New(candidateRepo, queryEmbedder, logger)
	ingestSvc := ingestuc.New(fragmentRepo, docEmbedder, cfg.Embedding.Dimensions, logger)
	healthSvc := healthuc.New(store, provider)

	server := chiTransport.NewServer(searchSvc, ingestSvc, healthSvc, logger)
	router := server.Router(cfg.Auth.APIKeys)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
