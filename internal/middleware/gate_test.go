package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthGate(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := AuthGate(logger)(next)

	valid := url.QueryEscape(`{"access_token":"abc"}`)

	tests := []struct {
		name         string
		path         string
		cookie       string
		wantStatus   int
		wantLocation string
	}{
		{name: "dashboard without cookie", path: "/dashboard/x", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "dashboard with garbage cookie", path: "/dashboard", cookie: "garbage", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "dashboard with session", path: "/dashboard", cookie: valid, wantStatus: http.StatusTeapot},
		{name: "login with session", path: "/login", cookie: valid, wantStatus: http.StatusFound, wantLocation: "/dashboard"},
		{name: "login anonymous", path: "/login", wantStatus: http.StatusTeapot},
		{name: "root anonymous", path: "/", wantStatus: http.StatusFound, wantLocation: "/login"},
		{name: "root with session", path: "/", cookie: valid, wantStatus: http.StatusFound, wantLocation: "/dashboard"},
		{name: "static bypass", path: "/static/app.js", wantStatus: http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://localhost:3000"+tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "sb-localhost-auth-token", Value: tt.cookie})
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
		})
	}
}

func TestAuthGateIgnoresOtherHostsCookie(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := AuthGate(logger)(http.NotFoundHandler())

	req := httptest.NewRequest(http.MethodGet, "http://app.example.com/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: "sb-localhost-auth-token", Value: `{"access_token":"abc"}`})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
