// Package session mirrors the identity service's session bundle into the
// browser cookie the auth gate inspects.
package session

import (
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/samims/stillup/internal/model"
)

// CookieName derives sb-<host-prefix>-auth-token from a Host header value.
func CookieName(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	} else if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	prefix := strings.SplitN(host, ".", 2)[0]
	if prefix == "" {
		prefix = host
	}
	return "sb-" + prefix + "-auth-token"
}

// Encode returns the cookie value for sess: URL-encoded JSON.
func Encode(sess *model.Session) (string, error) {
	raw, err := json.Marshal(sess)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(raw)), nil
}

// Unescape percent-decodes a cookie value, returning it unchanged when it is
// not valid percent-encoding.
func Unescape(value string) string {
	if decoded, err := url.QueryUnescape(value); err == nil {
		return decoded
	}
	return value
}

// Decode parses a cookie value written by Encode.
func Decode(value string) (*model.Session, error) {
	var sess model.Session
	if err := json.Unmarshal([]byte(Unescape(value)), &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Raw returns the session cookie value for r's host, or "" when absent.
func Raw(r *http.Request) string {
	c, err := r.Cookie(CookieName(r.Host))
	if err != nil {
		return ""
	}
	return c.Value
}

// Read decodes the session cookie of r. It returns nil when the cookie is
// missing, unparsable or carries no access token.
func Read(r *http.Request) *model.Session {
	raw := Raw(r)
	if raw == "" {
		return nil
	}
	sess, err := Decode(raw)
	if err != nil || sess.AccessToken == "" {
		return nil
	}
	return sess
}

// Mirror writes sess into the session cookie. This is the only place the
// bundle returned by sign-in reaches the browser; the gate never sees the
// identity service directly.
func Mirror(w http.ResponseWriter, r *http.Request, sess *model.Session, secure bool) error {
	value, err := Encode(sess)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(r.Host),
		Value:    value,
		Path:     "/",
		MaxAge:   int(sess.ExpiresIn),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear expires the session cookie.
func Clear(w http.ResponseWriter, r *http.Request, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName(r.Host),
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
