package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/featureflow/internal/config"
	transporthttp "github.com/kailas-cloud/featureflow/internal/transport/http"
	logpkg "github.com/kailas-cloud/featureflow/internal/logger"
	"github.com/kailas-cloud/featureflow/internal/metrics"
	"github.com/kailas-cloud/featureflow/internal/settingsstore/factory"
	"github.com/kailas-cloud/featureflow/internal/settingsstore/redis"
	"github.com/kailas-cloud/featureflow/internal/version"

	"github.com/go-chi/chi/v5"
)

func main() {
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

	logger.Info("starting featureflow-serve",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("build_date", version.Date),
		zap.String("env", env),
	)

	metrics.RegisterExtractionMetrics()

	store, err := factory.New(cfg.Settings)
	if err != nil {
		logger.Fatal("failed to build settings store", zap.Error(err))
	}
	if redisStore, ok := store.(*redis.Store); ok {
		defer redisStore.Close()
		waitCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Settings.ReadinessTimeout)*time.Second)
		if err := redisStore.WaitForReady(waitCtx, time.Duration(cfg.Settings.ReadinessTimeout)*time.Second); err != nil {
			cancel()
			logger.Fatal("settings store not ready", zap.Error(err))
		}
		cancel()
	}

	settingsServer := transporthttp.NewServer(store, logger)

	r := chi.NewRouter()
	r.Use(transporthttp.Recoverer(logger))
	r.Use(transporthttp.RequestID)
	r.Use(transporthttp.AccessLog(logger))
	r.Use(metrics.Middleware())
	r.Mount("/", settingsServer.Router())
	r.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("error during shutdown", zap.Error(err))
	}

	logger.Info("server stopped gracefully")
}
