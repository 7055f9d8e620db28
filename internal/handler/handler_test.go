package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samims/stillup/internal/model"
	"github.com/samims/stillup/internal/session"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func sessionCookie(t *testing.T) *http.Cookie {
	t.Helper()
	value, err := session.Encode(&model.Session{AccessToken: "token", TokenType: "bearer", ExpiresIn: 3600})
	require.NoError(t, err)
	return &http.Cookie{Name: "sb-localhost-auth-token", Value: value}
}

func findCookie(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
