package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/samims/stillup/internal/config"
	"github.com/samims/stillup/internal/handler"
	"github.com/samims/stillup/internal/identity"
	"github.com/samims/stillup/internal/logger"
	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/realtime"
	"github.com/samims/stillup/internal/router"
	"github.com/samims/stillup/internal/service"
	"github.com/samims/stillup/internal/storage"
	"github.com/samims/stillup/pkg/observability"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	l := logger.NewLogger(cfg.App.LogLevel)
	slog.SetDefault(l)

	if err := cfg.Validate(); err != nil {
		l.Error("Invalid config", slog.Any("error", err))
		os.Exit(1)
	}

	if err := run(cfg, l); err != nil {
		l.Error("Server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	l.Info("Server exited cleanly")
}

func run(cfg *config.Config, l *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, tracerShutdown, err := observability.NewTracerProvider(ctx, observability.Options{
		Enabled:        cfg.Tracing.Enabled,
		Endpoint:       cfg.Tracing.Endpoint,
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		SampleRatio:    cfg.Tracing.SampleRatio,
	}, l)
	if err != nil {
		return err
	}
	defer tracerShutdown()

	metrics.Init()

	dbPool, err := storage.NewPostgresPool(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	if cfg.DB.AutoMigrate {
		if err := storage.Migrate(ctx, dbPool); err != nil {
			return err
		}
		l.Info("Database schema is up to date")
	}

	siteSvc := service.NewSiteService(storage.NewSiteStorage(dbPool), l)
	healthSvc := service.NewHealthService(dbPool, l)

	tokenSvc := identity.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authSvc, err := identity.NewAuthService(storage.NewUserStorage(dbPool), l, tokenSvc, cfg.Auth.RefreshTTL)
	if err != nil {
		return err
	}

	hub := realtime.NewHub(cfg.Realtime.BufferSize, l)
	source, err := newChangeSource(cfg, dbPool, hub, l)
	if err != nil {
		return err
	}

	r := router.NewRouter(router.Handlers{
		Login: handler.NewLoginHandler(authSvc, cfg.App.SecureCookies, l),
		Dashboard: handler.NewDashboardHandler(siteSvc, authSvc, hub, handler.DashboardOptions{
			Event:          model.EventType(cfg.Realtime.Event),
			SecureCookies:  cfg.App.SecureCookies,
			AllowedOrigins: cfg.App.AllowedOrigins,
		}, l),
		Health: handler.NewHealthHandler(healthSvc, l),
	}, cfg.App.AllowedOrigins, l)

	server := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := source.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		l.Info("Server started", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		l.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

type changeSource interface {
	Start(ctx context.Context) error
}

func newChangeSource(cfg *config.Config, pool *pgxpool.Pool, hub *realtime.Hub, l *slog.Logger) (changeSource, error) {
	if cfg.Realtime.Source != config.SourceKafka {
		return realtime.NewPGListener(pool, cfg.Realtime.Channel, hub, l), nil
	}

	sc := sarama.NewConfig()
	sc.ClientID = "stillup-web"
	sc.Consumer.Offsets.Initial = sarama.OffsetNewest
	sc.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.Kafka.Group, sc)
	if err != nil {
		return nil, err
	}
	return realtime.NewKafkaSource(cfg.Kafka.Topic, group, hub, l), nil
}
