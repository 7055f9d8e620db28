package middleware

import (
	"log/slog"
	"net/http"

	"github.com/samims/stillup/internal/gate"
	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/internal/session"
)

// AuthGate redirects navigations according to gate.Decide, using the
// presence of a session-looking cookie as the login signal.
func AuthGate(logger *slog.Logger) func(http.Handler) http.Handler {
	l := logger.With("layer", "middleware", "component", "authGate")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path
			if gate.Bypass(path) {
				next.ServeHTTP(w, r)
				return
			}

			loggedIn := gate.HasSession(session.Raw(r))
			outcome := gate.Decide(path, loggedIn)
			metrics.GateDecisions.WithLabelValues(outcome.String()).Inc()

			l.Debug("gate decision",
				slog.String("path", path),
				slog.Bool("logged_in", loggedIn),
				slog.String("outcome", outcome.String()))

			if outcome == gate.Allow {
				next.ServeHTTP(w, r)
				return
			}
			http.Redirect(w, r, outcome.Location(), http.StatusFound)
		})
	}
}
