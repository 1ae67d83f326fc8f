package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/parkwise-risk-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/parkwise-risk-service/internal/adapter/kafka"
	redisadapter "github.com/couchcryptid/parkwise-risk-service/internal/adapter/redis"
	sqladapter "github.com/couchcryptid/parkwise-risk-service/internal/adapter/sql"
	"github.com/couchcryptid/parkwise-risk-service/internal/cache"
	"github.com/couchcryptid/parkwise-risk-service/internal/config"
	"github.com/couchcryptid/parkwise-risk-service/internal/domain"
	"github.com/couchcryptid/parkwise-risk-service/internal/observability"
	"github.com/couchcryptid/parkwise-risk-service/internal/service"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sqladapter.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	source, err := sqladapter.NewSource(db)
	if err != nil {
		logger.Error("failed to create aggregate source", "error", err)
		os.Exit(1)
	}

	// Persisted artifacts live on disk by default; redis lets replicas share them.
	var store cache.ArtifactStore
	switch cfg.CacheBackend {
	case config.BackendRedis:
		rs := redisadapter.NewStore(redisadapter.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), cfg.RedisKeyPrefix)
		defer rs.Close()
		if err := rs.Ping(ctx); err != nil {
			logger.Warn("redis unreachable at startup, cache tiers will fall back to the database", "addr", cfg.RedisAddr, "error", err)
		}
		store = rs
		logger.Info("artifact store: redis", "addr", cfg.RedisAddr, "prefix", cfg.RedisKeyPrefix)
	default:
		store = cache.NewFileStore(cfg.CacheDir)
		logger.Info("artifact store: file", "dir", cfg.CacheDir)
	}

	caches := cache.NewHierarchy(store, cache.Options{
		SummaryLimit:   cfg.SummaryLimit,
		QueryCacheSize: cfg.QueryCacheSize,
	}, logger, metrics)

	opts := service.Options{QueryResultLimit: cfg.QueryResultLimit}
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewSnapshotWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		opts.Publisher = writer
		logger.Info("snapshot publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaSnapshotTopic)
	} else {
		logger.Info("snapshot publishing disabled")
	}

	svc := service.New(source, caches, domain.NewSyntheticGeocoder(), opts, logger, metrics)
	srv := httpadapter.NewServer(cfg.HTTPAddr, svc, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
