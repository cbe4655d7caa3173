package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/skydecor/catalog/internal/app"
	"github.com/skydecor/catalog/internal/catalog"
	jobmetrics "github.com/skydecor/catalog/internal/jobs"
	"github.com/skydecor/catalog/internal/observability"
	"github.com/skydecor/catalog/internal/platform/cache"
	"github.com/skydecor/catalog/internal/platform/db"
	"github.com/skydecor/catalog/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg, "skydecor-worker")

	pool, err := db.New(ctx, cfg.PGDSN, db.Options{ApplicationName: "skydecor-worker", MaxConns: int32(cfg.WorkerConcurrency) + 2})
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cache.Options{Addr: cfg.RedisAddr, ClientName: "skydecor-worker", PoolSize: cfg.WorkerConcurrency*2 + 2})
	if err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	catalogService := catalog.NewService(catalog.NewRepository(pool), cfg.StoreTimeout)
	datasheetCache, err := app.NewDatasheetCache(cfg, catalogService, redisClient, metrics.Registerer(), logger)
	if err != nil {
		logger.Error("init datasheet cache", slog.Any("error", err))
		os.Exit(1)
	}
	datasheetJob := jobs.NewDatasheetJob(datasheetCache, logger, jobmetrics.NewMetrics(metrics.Registerer()))

	var cron []jobs.CronRegistration
	if cfg.PDFRegenerateCron != "" {
		cron = append(cron, jobs.CronRegistration{Spec: cfg.PDFRegenerateCron, Task: jobs.NewGenerateAllTask()})
		logger.Info("datasheet regeneration scheduled", slog.String("cron", cfg.PDFRegenerateCron))
	}

	// In-flight renders get to reach their own deadline before exit.
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:       asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:          logger,
		Concurrency:     cfg.WorkerConcurrency,
		Handlers:        datasheetJob.Handlers(),
		Cron:            cron,
		ShutdownTimeout: cfg.RenderTimeout + 5*time.Second,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{
		Addr:              cfg.WorkerMetricsAddr,
		Handler:           metrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("worker metrics server", slog.Any("error", err))
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
