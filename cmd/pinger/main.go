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

	"github.com/IBM/sarama"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/samims/stillup/internal/checker"
	"github.com/samims/stillup/internal/config"
	"github.com/samims/stillup/internal/kafka"
	"github.com/samims/stillup/internal/logger"
	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/internal/service"
	"github.com/samims/stillup/internal/storage"
	"github.com/samims/stillup/pkg/observability"
	"github.com/samims/stillup/pkg/tracing"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	l := logger.NewLogger(cfg.App.LogLevel)
	slog.SetDefault(l)

	if err := cfg.ValidateChecker(); err != nil {
		l.Error("Invalid config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(cfg, l); err != nil {
		l.Error("Pinger stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, l *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, tracerShutdown, err := observability.NewTracerProvider(ctx, observability.Options{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName + "-pinger",
		ServiceVersion: cfg.Tracing.ServiceVersion,
		SampleRatio:    cfg.Tracing.SampleRatio,
	}, l)
	if err != nil {
		return err
	}
	defer tracerShutdown()

	metrics.InitChecker()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	siteSvc := service.NewSiteService(storage.NewSiteStorage(dbPool), l)

	// Without brokers status changes are only logged.
	var notifier checker.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		asyncProducer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, kafka.NewSaramaConfig("stillup-pinger"))
		if err != nil {
			return err
		}
		producer, err := kafka.NewProducer(asyncProducer, cfg.Kafka.Topic, l, tracing.Named("pinger-producer"))
		if err != nil {
			_ = asyncProducer.Close()
			return err
		}
		producer.Start(ctx)
		defer producer.Close(context.Background())
		notifier = producer
	}

	httpClient := &http.Client{Timeout: cfg.Checker.Timeout}
	chkr := checker.NewSiteChecker(siteSvc, notifier, httpClient, checker.Options{
		UserAgent:   cfg.Checker.UserAgent,
		Timeout:     cfg.Checker.Timeout,
		Concurrency: cfg.Checker.Concurrency,
	}, l)

	if cfg.Checker.Once {
		return chkr.CheckAll(ctx)
	}

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Checker.MetricsPort,
		Handler:           promhttp.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return chkr.Start(gctx, cfg.Checker.Schedule)
	})
	g.Go(func() error {
		l.Info("Metrics server started", slog.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return metricsServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
