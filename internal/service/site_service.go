package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	appErr "github.com/samims/stillup/internal/errors"
	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/storage"
	"github.com/samims/stillup/pkg/tracing"
)

func getUserIDFromContext(ctx context.Context) (string, error) {
	val := ctx.Value(model.ContextUserIDKey)
	if val == nil {
		return "", appErr.NewInternal("context missing user_id")
	}

	userID, ok := val.(string)
	if !ok {
		return "", appErr.NewInternal("invalid user_id type in context - got %T, expected string", val)
	}

	if userID == "" {
		return "", appErr.NewInternal("empty user_id in context")
	}
	return userID, nil
}

type SiteService interface {
	List(ctx context.Context) ([]model.Site, error)
	ListForUser(ctx context.Context) ([]model.Site, error)
	Add(ctx context.Context, rawURL string) (*model.Site, error)
	Remove(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status model.Status, checkedAt time.Time) error
}

type siteService struct {
	store  storage.SiteStorage
	logger *slog.Logger
	tracer *tracing.Tracer
}

func NewSiteService(store storage.SiteStorage, logger *slog.Logger) SiteService {
	l := logger.With("layer", "service", "component", "siteService")
	return &siteService{
		store:  store,
		logger: l,
		tracer: tracing.Named("site-service"),
	}
}

// List returns every site across all owners. Only the checker uses it.
func (s *siteService) List(ctx context.Context) ([]model.Site, error) {
	ctx, span := s.tracer.StartServerSpan(ctx, "List")
	defer span.End()

	start := time.Now()
	sites, err := s.store.FindAll(ctx)
	s.tracer.AddDatabaseAttributes(span, "select", "sites", time.Since(start))
	if err != nil {
		s.logger.Error("failed to fetch sites", slog.String("error", err.Error()))
		s.tracer.RecordError(span, err)
		return nil, appErr.NewInternal("failed to fetch sites: %v", err)
	}

	span.SetAttributes(attribute.Int("site.count", len(sites)))
	s.logger.Debug("List succeeded", slog.Int("count", len(sites)))
	return sites, nil
}

// ListForUser returns the sites owned by the user in ctx, newest first.
func (s *siteService) ListForUser(ctx context.Context) ([]model.Site, error) {
	ctx, span := s.tracer.StartServerSpan(ctx, "ListForUser")
	defer span.End()

	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}

	start := time.Now()
	sites, err := s.store.FindAllByUserID(ctx, userID)
	s.tracer.AddDatabaseAttributes(span, "select", "sites", time.Since(start))
	if err != nil {
		s.logger.Error("failed to fetch sites",
			slog.String("error", err.Error()),
			slog.String("user_id", userID))
		s.tracer.RecordError(span, err)
		return nil, appErr.NewInternal("failed to fetch sites: %v", err)
	}

	span.SetAttributes(attribute.Int("site.count", len(sites)))
	s.logger.Debug("ListForUser succeeded", slog.Int("count", len(sites)), slog.String("user_id", userID))
	return sites, nil
}

// Add registers rawURL for the user in ctx. New sites always start pending.
func (s *siteService) Add(ctx context.Context, rawURL string) (*model.Site, error) {
	ctx, span := s.tracer.StartServerSpan(ctx, "Add")
	defer span.End()

	rawURL = strings.TrimSpace(rawURL)
	span.SetAttributes(attribute.String(tracing.AttrSiteURL, rawURL))

	if rawURL == "" {
		err := appErr.NewInvalidInput("URL is required")
		s.tracer.RecordError(span, err)
		return nil, err
	}

	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		s.tracer.RecordError(span, err)
		return nil, err
	}

	site := &model.Site{
		ID:     uuid.New().String(),
		URL:    rawURL,
		Status: model.StatusPending,
		UserID: userID,
	}
	span.SetAttributes(attribute.String(tracing.AttrSiteID, site.ID))

	start := time.Now()
	err = s.store.Save(ctx, site)
	s.tracer.AddDatabaseAttributes(span, "insert", "sites", time.Since(start))
	if err != nil {
		s.tracer.RecordError(span, err)
		if errors.Is(err, appErr.ErrConflict) {
			s.logger.Warn("site already exists", slog.String("id", site.ID))
			return nil, appErr.NewConflict("site with ID %s already exists", site.ID)
		}
		s.logger.Error("failed to add site", slog.String("url", rawURL), slog.String("error", err.Error()))
		return nil, appErr.NewInternal("failed to add site: %v", err)
	}

	s.logger.Info("Add succeeded", slog.String("id", site.ID), slog.String("user_id", userID))
	return site, nil
}

func (s *siteService) Remove(ctx context.Context, id string) error {
	ctx, span := s.tracer.StartServerSpan(ctx, "Remove", attribute.String(tracing.AttrSiteID, id))
	defer span.End()

	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		s.tracer.RecordError(span, err)
		return err
	}

	start := time.Now()
	err = s.store.Delete(ctx, id, userID)
	s.tracer.AddDatabaseAttributes(span, "delete", "sites", time.Since(start))
	if err != nil {
		s.tracer.RecordError(span, err)
		if errors.Is(err, appErr.ErrNotFound) {
			s.logger.Warn("site not found for delete", slog.String("id", id), slog.String("user_id", userID))
			return appErr.NewNotFound("site %s not found", id)
		}
		s.logger.Error("failed to delete site", slog.String("id", id), slog.String("error", err.Error()))
		return appErr.NewInternal("failed to delete site: %v", err)
	}

	s.logger.Info("Remove succeeded", slog.String("id", id), slog.String("user_id", userID))
	return nil
}

// UpdateStatus records a check result. It is not user scoped.
func (s *siteService) UpdateStatus(ctx context.Context, id string, status model.Status, checkedAt time.Time) error {
	ctx, span := s.tracer.StartServerSpan(ctx, "UpdateStatus",
		attribute.String(tracing.AttrSiteID, id),
		attribute.String("site.status", string(status)),
	)
	defer span.End()

	if !status.Valid() {
		err := appErr.NewInvalidInput("invalid status %q", status)
		s.tracer.RecordError(span, err)
		return err
	}

	if err := s.store.UpdateStatus(ctx, id, status, checkedAt.UTC()); err != nil {
		s.tracer.RecordError(span, err)
		if errors.Is(err, appErr.ErrNotFound) {
			s.logger.Warn("site not found for update", slog.String("id", id))
			return appErr.NewNotFound("cannot update: site with ID %s not found", id)
		}
		s.logger.Error("failed to update status", slog.String("id", id), slog.String("error", err.Error()))
		return appErr.NewInternal("failed to update site status: %v", err)
	}

	s.logger.Debug("UpdateStatus succeeded", slog.String("id", id), slog.String("status", string(status)))
	return nil
}
