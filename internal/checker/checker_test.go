package checker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/service"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func newTestChecker(svc service.SiteService, notifier Notifier) *SiteChecker {
	c := NewSiteChecker(svc, notifier, noRedirectClient(), Options{
		UserAgent:   "StillUp-Bot/1.0 (Uptime Monitor)",
		Timeout:     time.Second,
		Concurrency: 4,
	}, testLogger())
	c.now = func() time.Time { return fixedNow }
	return c
}

func statusServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/no-content", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) })
	mux.HandleFunc("/boom", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) })
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/agent", func(w http.ResponseWriter, r *http.Request) {
		if r.UserAgent() != "StillUp-Bot/1.0 (Uptime Monitor)" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"example.com", "https://example.com"},
		{"example.com/path?q=1", "https://example.com/path?q=1"},
		{"http://example.com", "http://example.com"},
		{"https://example.com", "https://example.com"},
		// anything starting with "http" is left alone
		{"httpbin.org", "httpbin.org"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeURL(tt.in))
		})
	}
}

func TestProbe(t *testing.T) {
	srv := statusServer(t)
	c := newTestChecker(nil, nil)
	c.opts.Timeout = 100 * time.Millisecond

	closed := httptest.NewServer(http.NotFoundHandler())
	closedURL := closed.URL
	closed.Close()

	tests := []struct {
		name   string
		target string
		want   model.Status
	}{
		{"200 is up", srv.URL + "/ok", model.StatusUp},
		{"204 is up", srv.URL + "/no-content", model.StatusUp},
		{"301 is up", srv.URL + "/moved", model.StatusUp},
		{"404 is down", srv.URL + "/missing", model.StatusDown},
		{"500 is down", srv.URL + "/boom", model.StatusDown},
		{"timeout is down", srv.URL + "/slow", model.StatusDown},
		{"user agent is sent", srv.URL + "/agent", model.StatusUp},
		{"connection refused is down", closedURL, model.StatusDown},
		{"malformed url is down", "http://[::1", model.StatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Probe(context.Background(), tt.target))
		})
	}
}

func TestCheckAll(t *testing.T) {
	srv := statusServer(t)

	t.Run("updates every site and notifies on change", func(t *testing.T) {
		svc := service.NewMockSiteService(t)
		notifier := NewMockNotifier(t)
		c := newTestChecker(svc, notifier)

		sites := []model.Site{
			{ID: "s1", URL: srv.URL + "/ok", Status: model.StatusPending, UserID: "u1"},
			{ID: "s2", URL: srv.URL + "/ok", Status: model.StatusUp, UserID: "u1"},
			{ID: "s3", URL: srv.URL + "/boom", Status: model.StatusUp, UserID: "u2"},
		}
		svc.On("List", mock.Anything).Return(sites, nil).Once()
		svc.On("UpdateStatus", mock.Anything, "s1", model.StatusUp, fixedNow).Return(nil).Once()
		svc.On("UpdateStatus", mock.Anything, "s2", model.StatusUp, fixedNow).Return(nil).Once()
		svc.On("UpdateStatus", mock.Anything, "s3", model.StatusDown, fixedNow).Return(nil).Once()

		notifier.On("Publish", mock.Anything, model.Notification{
			SiteID: "s1", URL: sites[0].URL, OldStatus: model.StatusPending, NewStatus: model.StatusUp, CheckedAt: fixedNow,
		}).Return(nil).Once()
		notifier.On("Publish", mock.Anything, model.Notification{
			SiteID: "s3", URL: sites[2].URL, OldStatus: model.StatusUp, NewStatus: model.StatusDown, CheckedAt: fixedNow,
		}).Return(errors.New("broker unavailable")).Once()

		require.NoError(t, c.CheckAll(context.Background()))
	})

	t.Run("no sites", func(t *testing.T) {
		svc := service.NewMockSiteService(t)
		c := newTestChecker(svc, nil)
		svc.On("List", mock.Anything).Return([]model.Site{}, nil).Once()

		require.NoError(t, c.CheckAll(context.Background()))
		svc.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("list failure is returned", func(t *testing.T) {
		svc := service.NewMockSiteService(t)
		c := newTestChecker(svc, nil)
		svc.On("List", mock.Anything).Return(nil, errors.New("db down")).Once()

		assert.EqualError(t, c.CheckAll(context.Background()), "db down")
	})

	t.Run("failed update skips notification and continues", func(t *testing.T) {
		svc := service.NewMockSiteService(t)
		notifier := NewMockNotifier(t)
		c := newTestChecker(svc, notifier)

		sites := []model.Site{
			{ID: "s1", URL: srv.URL + "/ok", Status: model.StatusPending},
			{ID: "s2", URL: srv.URL + "/boom", Status: model.StatusPending},
		}
		svc.On("List", mock.Anything).Return(sites, nil).Once()
		svc.On("UpdateStatus", mock.Anything, "s1", model.StatusUp, fixedNow).Return(errors.New("gone")).Once()
		svc.On("UpdateStatus", mock.Anything, "s2", model.StatusDown, fixedNow).Return(nil).Once()
		notifier.On("Publish", mock.Anything, mock.MatchedBy(func(n model.Notification) bool {
			return n.SiteID == "s2" && n.NewStatus == model.StatusDown
		})).Return(nil).Once()

		require.NoError(t, c.CheckAll(context.Background()))
	})
}

func TestStart(t *testing.T) {
	t.Run("invalid schedule", func(t *testing.T) {
		c := newTestChecker(service.NewMockSiteService(t), nil)
		err := c.Start(context.Background(), "not a schedule")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid schedule")
	})

	t.Run("runs on schedule until cancelled", func(t *testing.T) {
		svc := service.NewMockSiteService(t)
		c := newTestChecker(svc, nil)

		ran := make(chan struct{}, 1)
		svc.On("List", mock.Anything).Return([]model.Site{}, nil).Run(func(mock.Arguments) {
			select {
			case ran <- struct{}{}:
			default:
			}
		})

		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan error, 1)
		go func() { done <- c.Start(ctx, "@every 1s") }()

		select {
		case <-ran:
		case <-time.After(5 * time.Second):
			t.Fatal("scheduled check never ran")
		}
		cancel()

		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("Start did not return after cancel")
		}
	})
}
