package gate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/session"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		loggedIn bool
		want     Outcome
	}{
		{name: "login anonymous", path: "/login", want: Allow},
		{name: "login with session", path: "/login", loggedIn: true, want: RedirectDashboard},
		{name: "dashboard anonymous", path: "/dashboard", want: RedirectLogin},
		{name: "dashboard subpath anonymous", path: "/dashboard/x", want: RedirectLogin},
		{name: "dashboard with session", path: "/dashboard", loggedIn: true, want: Allow},
		{name: "dashboard subpath with session", path: "/dashboard/live", loggedIn: true, want: Allow},
		{name: "root anonymous", path: "/", want: RedirectLogin},
		{name: "root with session", path: "/", loggedIn: true, want: RedirectDashboard},
		{name: "static", path: "/static/app.css", want: Allow},
		{name: "api", path: "/api/anything", want: Allow},
		{name: "internal", path: "/_internal/x", want: Allow},
		{name: "dotted dashboard path", path: "/dashboard/favicon.ico", want: Allow},
		{name: "unrelated", path: "/about", want: Allow},
		{name: "dashboard lookalike", path: "/dashboards", want: Allow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.path, tt.loggedIn))
		})
	}
}

func TestBypassIgnoresSession(t *testing.T) {
	for _, p := range []string{"/static/x", "/api/x", "/_internal/x", "/robots.txt"} {
		assert.Equal(t, Allow, Decide(p, true), p)
		assert.Equal(t, Allow, Decide(p, false), p)
	}
}

func TestOutcomeLocation(t *testing.T) {
	assert.Equal(t, "/login", RedirectLogin.Location())
	assert.Equal(t, "/dashboard", RedirectDashboard.Location())
	assert.Equal(t, "", Allow.Location())
}

func TestHasSession(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{name: "empty", value: "", want: false},
		{name: "not json", value: "garbage", want: false},
		{name: "truncated json", value: `{"access_token":`, want: false},
		{name: "json array", value: `["access_token"]`, want: false},
		{name: "json string", value: `"access_token"`, want: false},
		{name: "no token fields", value: `{"user":{"id":"1"}}`, want: false},
		{name: "empty access token", value: `{"access_token":""}`, want: false},
		{name: "null access token", value: `{"access_token":null}`, want: false},
		{name: "access token", value: `{"access_token":"abc"}`, want: true},
		{name: "provider token", value: `{"provider_token":"abc"}`, want: true},
		{name: "current session token", value: `{"currentSession":{"access_token":"abc"}}`, want: true},
		{name: "current session empty", value: `{"currentSession":{}}`, want: false},
		{name: "url encoded", value: url.QueryEscape(`{"access_token":"abc"}`), want: true},
		{name: "bad percent encoding falls back to raw", value: `{"access_token":"100%"}`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HasSession(tt.value))
		})
	}
}

func TestHasSessionOnMirroredCookie(t *testing.T) {
	value, err := session.Encode(&model.Session{AccessToken: "token", TokenType: "bearer"})
	require.NoError(t, err)
	assert.True(t, HasSession(value))
}
