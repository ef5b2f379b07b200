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

	"github.com/joho/godotenv"

	"github.com/kirillkom/recruitment-docverify/internal/bootstrap"
	"github.com/kirillkom/recruitment-docverify/internal/config"
	"github.com/kirillkom/recruitment-docverify/internal/infrastructure/queue/nats"
	"github.com/kirillkom/recruitment-docverify/internal/observability/logging"
	"github.com/kirillkom/recruitment-docverify/internal/observability/metrics"
)

const (
	serviceName    = "docverify-worker"
	processTimeout = 15 * time.Minute
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	app, err := bootstrap.New(ctx, cfg, workerMetrics.Registerer())
	if err != nil {
		logger.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("worker_metrics_listening", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	logger.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeVerificationRequested(ctx, func(handlerCtx context.Context, batchID string) error {
		started := time.Now()
		if requestedAt, ok := nats.RequestedAt(handlerCtx); ok {
			workerMetrics.ObserveQueueLag(serviceName, started.Sub(requestedAt))
		}
		workerMetrics.StartBatch()

		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()
		err := app.ProcessUC.ProcessByID(processCtx, batchID)
		workerMetrics.FinishBatch(serviceName, time.Since(started), err)
		return err
	})
	if err != nil {
		logger.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
