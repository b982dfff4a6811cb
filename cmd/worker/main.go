package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medscope/textbook-qa/internal/bootstrap"
	"github.com/medscope/textbook-qa/internal/config"
	"github.com/medscope/textbook-qa/internal/core/domain"
	"github.com/medscope/textbook-qa/internal/observability/logging"
	"github.com/medscope/textbook-qa/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New("worker", cfg.LogLevel, cfg.LogFormat))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap_failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", workerMetrics.Handler())
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsMux,
	}
	go func() {
		slog.Info("worker_metrics_listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("worker_metrics_server_failed", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker_subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
		buildCtx, cancel := context.WithTimeout(handlerCtx, 5*time.Minute)
		defer cancel()

		if doc, err := app.Repo.GetByID(buildCtx, documentID); err == nil {
			workerMetrics.ObserveQueueLag("worker", time.Since(doc.CreatedAt))
		}

		start := time.Now()
		workerMetrics.StartIndexBuild()
		buildErr := app.Indexer.IndexByID(buildCtx, documentID)
		workerMetrics.FinishIndexBuild("worker", time.Since(start), buildErr)

		if buildErr == nil {
			if doc, err := app.Repo.GetByID(buildCtx, documentID); err == nil {
				workerMetrics.ObserveIndexSummary("worker", domain.IndexSummary{
					PageCount:  doc.PageCount,
					ChunkCount: doc.ChunkCount,
					WordMin:    doc.WordMin,
					WordMax:    doc.WordMax,
					WordMean:   doc.WordMean,
				})
			}
		}
		return buildErr
	})
	if err != nil {
		slog.Error("worker_subscribe_failed", "error", err)
		os.Exit(1)
	}
}
