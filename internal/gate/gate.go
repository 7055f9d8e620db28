// Package gate decides, from the request path and a cookie heuristic, whether
// a navigation proceeds or is redirected. It does not verify tokens.
package gate

import (
	"encoding/json"
	"strings"

	"github.com/samims/stillup/internal/session"
)

type Outcome int

const (
	Allow Outcome = iota
	RedirectLogin
	RedirectDashboard
)

const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

func (o Outcome) String() string {
	switch o {
	case RedirectLogin:
		return "redirect_login"
	case RedirectDashboard:
		return "redirect_dashboard"
	default:
		return "allow"
	}
}

// Location is the redirect target of o, empty for Allow.
func (o Outcome) Location() string {
	switch o {
	case RedirectLogin:
		return LoginPath
	case RedirectDashboard:
		return DashboardPath
	}
	return ""
}

var bypassPrefixes = []string{"/static", "/api", "/_internal"}

// Bypass reports whether path is never gated: internal, static and API
// paths, and anything that looks like a file.
func Bypass(path string) bool {
	for _, p := range bypassPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return strings.Contains(path, ".")
}

func Decide(path string, loggedIn bool) Outcome {
	if Bypass(path) {
		return Allow
	}

	switch {
	case path == LoginPath:
		if loggedIn {
			return RedirectDashboard
		}
		return Allow
	case path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/"):
		if !loggedIn {
			return RedirectLogin
		}
		return Allow
	case path == "/":
		if loggedIn {
			return RedirectDashboard
		}
		return RedirectLogin
	}
	return Allow
}

// HasSession reports whether a cookie value looks like a session bundle.
// Parse failures mean no session.
func HasSession(cookieValue string) bool {
	if cookieValue == "" {
		return false
	}

	var parsed map[string]any
	if err := json.Unmarshal([]byte(session.Unescape(cookieValue)), &parsed); err != nil {
		return false
	}

	if truthy(parsed["access_token"]) || truthy(parsed["provider_token"]) {
		return true
	}
	if current, ok := parsed["currentSession"].(map[string]any); ok {
		return truthy(current["access_token"])
	}
	return false
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
