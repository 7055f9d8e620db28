package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHealth struct {
	liveErr  error
	readyErr error
}

func (s stubHealth) Liveness(context.Context) error  { return s.liveErr }
func (s stubHealth) Readiness(context.Context) error { return s.readyErr }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		probe      string
		health     stubHealth
		wantStatus int
		wantBody   probeResponse
	}{
		{
			name:       "alive",
			probe:      "/healthz",
			wantStatus: http.StatusOK,
			wantBody:   probeResponse{Status: "ok"},
		},
		{
			name:       "not alive",
			probe:      "/healthz",
			health:     stubHealth{liveErr: errors.New("stuck")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   probeResponse{Status: "unhealthy", Error: "stuck"},
		},
		{
			name:       "ready",
			probe:      "/readyz",
			wantStatus: http.StatusOK,
			wantBody:   probeResponse{Status: "ready"},
		},
		{
			name:       "database unreachable",
			probe:      "/readyz",
			health:     stubHealth{readyErr: errors.New("dial tcp: connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   probeResponse{Status: "not_ready", Error: "dial tcp: connection refused"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.health, testLogger)
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tt.probe, nil)

			if tt.probe == "/healthz" {
				h.Liveness(rec, req)
			} else {
				h.Readiness(rec, req)
			}

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var got probeResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tt.wantBody, got)
		})
	}
}
