package service

import (
	"context"
	"log/slog"
	"time"
)

// Pinger is any dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthService interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) error
}

type healthService struct {
	logger *slog.Logger
	db     Pinger
}

func NewHealthService(db Pinger, logger *slog.Logger) HealthService {
	l := logger.With("layer", "service", "component", "health_service")
	return &healthService{db: db, logger: l}
}

func (s *healthService) Liveness(ctx context.Context) error {
	s.logger.Debug("Liveness check passed")
	return nil
}

// Readiness checks if db service is working
func (s *healthService) Readiness(ctx context.Context) error {
	s.logger.Debug("Readiness check initiated")
	// we wait upto 2 seconds
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		s.logger.Error("Readiness check failed", slog.String("error", err.Error()))
		return err
	}

	s.logger.Debug("Readiness Check passed")
	return nil
}
