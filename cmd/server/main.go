package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ecosnap/backend/config"
	httpDelivery "github.com/ecosnap/backend/internal/delivery/http"
	"github.com/ecosnap/backend/internal/domain"
	"github.com/ecosnap/backend/internal/infrastructure/ai"
	"github.com/ecosnap/backend/internal/infrastructure/cache"
	"github.com/ecosnap/backend/internal/infrastructure/openfoodfacts"
	"github.com/ecosnap/backend/internal/infrastructure/scans"
	"github.com/ecosnap/backend/internal/obs"
	"github.com/ecosnap/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "ecosnap: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger := obs.NewLogger(cfg.Server.Environment, cfg.Server.LogLevel, os.Stdout)
	slog.SetDefault(logger)

	logger.Info("starting EcoSnap backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
		"store", cfg.Database.Store,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Infrastructure
	var productCache domain.CacheRepository
	if cfg.Cache.Type == "memory" {
		memoryCache := cache.NewMemoryCache()
		defer func() {
			logger.Info("closing product cache", "entries", memoryCache.Size())
			memoryCache.Close()
		}()
		productCache = memoryCache
	}

	scanStore, closeStore, err := openScanStore(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	offClient := openfoodfacts.NewClient(openfoodfacts.Config{
		BaseURL:           cfg.OpenFoodFacts.BaseURL,
		UserAgent:         cfg.OpenFoodFacts.UserAgent,
		RequestsPerMinute: cfg.OpenFoodFacts.RequestsPerMinute,
	}, logger)

	aiClient := ai.NewClient(ai.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Timeout: cfg.AI.Timeout,
	}, logger)

	var (
		resolver   domain.AIResolver
		identifier domain.ProductIdentifier
	)
	if aiClient.Configured() {
		resolver = aiClient
		identifier = aiClient
		logger.Info("AI scoring enabled", "model", cfg.AI.Model, "base_url", cfg.AI.BaseURL)
	} else {
		logger.Warn("AI API key not configured, scoring with heuristics only")
	}

	// Usecases
	pipeline := usecase.NewResolutionPipeline(resolver, usecase.PipelineConfig{
		EnforceWeightedOverall: cfg.AI.EnforceWeightedOverall,
	}, logger)

	scanService := usecase.NewScanService(
		pipeline,
		offClient,
		identifier,
		scanStore,
		productCache,
		usecase.ScanServiceConfig{CacheTTL: cfg.Cache.TTL},
		logger,
	)

	// HTTP
	handler := httpDelivery.NewHandler(scanService, logger)
	router := httpDelivery.SetupRouter(cfg, handler, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

func openScanStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (domain.ScanRepository, func(), error) {
	if cfg.Store != "postgres" {
		return scans.NewMemoryRepository(), func() {}, nil
	}

	repo, err := scans.Open(ctx, scans.PostgresConfig{
		DSN:             cfg.DSN,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnTimeout:     cfg.ConnTimeout,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("open scan store: %w", err)
	}

	logger.Info("scan store connected", "store", "postgres")
	return repo, func() {
		if err := repo.Close(); err != nil {
			logger.Error("close scan store", "error", err)
		}
	}, nil
}
