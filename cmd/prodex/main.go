package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/config"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	"github.com/kailas-cloud/prodex/internal/metrics"
	productrepo "github.com/kailas-cloud/prodex/internal/repository/product"
	chiTransport "github.com/kailas-cloud/prodex/internal/transport/chi"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
	"github.com/kailas-cloud/prodex/internal/version"
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

	logger.Info("Starting prodex API server",
		zap.String("build", version.String()),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Valkey and Redis share the rueidis driver; the driver name is informational.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:      cfg.Database.Addrs,
		Username:   cfg.Database.Username,
		Password:   cfg.Database.Password,
		DB:         cfg.Database.DB,
		ClientName: "prodex-api",
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	scoringCfg, err := cfg.Scoring.ToScoring()
	if err != nil {
		logger.Fatal("Invalid scoring configuration", zap.Error(err))
	}

	products := productrepo.New(store, cfg.Search.KeyPrefix)
	source := searchuc.NewInstrumentedSource(products, cfg.Database.Driver, logger)

	workers := cfg.Search.Workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	searchSvc, err := searchuc.New(scoringCfg,
		searchuc.WithSource(source),
		searchuc.WithLogger(logger),
		searchuc.WithTimeout(cfg.Search.Timeout()),
		searchuc.WithMaxCandidates(cfg.Search.MaxCandidates),
		searchuc.WithParallelism(cfg.Search.ParallelThreshold, workers),
	)
	if err != nil {
		logger.Fatal("Failed to create search service", zap.Error(err))
	}

	healthSvc := healthuc.New(store, map[string]healthuc.Probe{"search": searchSvc})

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
