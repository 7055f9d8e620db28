package checker

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/service"
)

// Notifier publishes status changes. The Kafka producer implements it.
type Notifier interface {
	Publish(ctx context.Context, notif model.Notification) error
}

type Options struct {
	UserAgent   string
	Timeout     time.Duration
	Concurrency int
}

type SiteChecker struct {
	svc        service.SiteService
	notifier   Notifier
	httpClient *http.Client
	opts       Options
	logger     *slog.Logger
	now        func() time.Time
}

// NewSiteChecker builds a checker. notifier may be nil, in which case status
// changes are only logged.
func NewSiteChecker(svc service.SiteService, notifier Notifier, client *http.Client, opts Options, logger *slog.Logger) *SiteChecker {
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &SiteChecker{
		svc:        svc,
		notifier:   notifier,
		httpClient: client,
		opts:       opts,
		logger:     logger.With("layer", "checker", "component", "siteChecker"),
		now:        time.Now,
	}
}

// CheckAll probes every site of every user once. It returns an error only
// when the site list cannot be fetched; per-site failures are logged.
func (c *SiteChecker) CheckAll(ctx context.Context) error {
	c.logger.Info("Starting check", slog.Time("at", c.now().UTC()))

	sites, err := c.svc.List(ctx)
	if err != nil {
		c.logger.Error("Failed to fetch sites", slog.Any("error", err))
		return err
	}
	if len(sites) == 0 {
		c.logger.Info("No sites found")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.opts.Concurrency)
	for _, site := range sites {
		g.Go(func() error {
			c.checkSite(gctx, site)
			return nil
		})
	}
	err = g.Wait()

	c.logger.Info("Check complete", slog.Int("sites", len(sites)))
	return err
}

func (c *SiteChecker) checkSite(ctx context.Context, site model.Site) {
	target := NormalizeURL(site.URL)
	status := c.Probe(ctx, target)
	checkedAt := c.now().UTC()

	if err := c.svc.UpdateStatus(ctx, site.ID, status, checkedAt); err != nil {
		c.logger.Error("Failed to update site status",
			slog.String("site_id", site.ID),
			slog.String("url", target),
			slog.String("status", string(status)),
			slog.Any("error", err),
		)
		return
	}

	if status == site.Status {
		return
	}
	metrics.StatusChanges.Inc()
	c.logger.Info("Site status changed",
		slog.String("site_id", site.ID),
		slog.String("url", target),
		slog.String("from", string(site.Status)),
		slog.String("to", string(status)),
	)

	if c.notifier == nil {
		return
	}
	notif := model.Notification{
		SiteID:    site.ID,
		URL:       site.URL,
		OldStatus: site.Status,
		NewStatus: status,
		CheckedAt: checkedAt,
	}
	if err := c.notifier.Publish(ctx, notif); err != nil {
		c.logger.Warn("Failed to publish status change", slog.String("site_id", site.ID), slog.Any("error", err))
	}
}

// NormalizeURL prefixes https:// when the address has no http scheme.
func NormalizeURL(raw string) string {
	if strings.HasPrefix(raw, "http") {
		return raw
	}
	return "https://" + raw
}

// Probe performs one GET. 2xx and 3xx mean up; any other status or a
// transport error means down.
func (c *SiteChecker) Probe(parentCtx context.Context, target string) model.Status {
	ctx, cancel := context.WithTimeout(parentCtx, c.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		c.logger.Warn("Failed to create HTTP request", slog.String("url", target), slog.Any("error", err))
		metrics.SiteCheckStatus.WithLabelValues(string(model.StatusDown)).Inc()
		return model.StatusDown
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.SiteCheckDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Info("Checked site", slog.String("url", target), slog.String("status", "DOWN"), slog.Any("error", err))
		metrics.SiteCheckStatus.WithLabelValues(string(model.StatusDown)).Inc()
		return model.StatusDown
	}
	defer resp.Body.Close()

	status := model.StatusDown
	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		status = model.StatusUp
	}
	c.logger.Info("Checked site",
		slog.String("url", target),
		slog.String("status", strings.ToUpper(string(status))),
		slog.Int("status_code", resp.StatusCode),
	)
	metrics.SiteCheckStatus.WithLabelValues(string(status)).Inc()
	return status
}
