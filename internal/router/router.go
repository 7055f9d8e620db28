package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samims/stillup/internal/gate"
	"github.com/samims/stillup/internal/handler"
	customMiddleware "github.com/samims/stillup/internal/middleware"
)

const requestTimeout = 30 * time.Second

type Handlers struct {
	Login     *handler.LoginHandler
	Dashboard *handler.DashboardHandler
	Health    *handler.HealthHandler
}

func NewRouter(h Handlers, allowedOrigins []string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(customMiddleware.MetricsMiddleware)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	// Health & Readiness Routes
	r.Get("/healthz", h.Health.Liveness)
	r.Get("/readyz", h.Health.Readiness)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", handler.Static())

	r.Group(func(r chi.Router) {
		r.Use(customMiddleware.AuthGate(logger))

		// The live channel outlives any request timeout.
		r.Get("/dashboard/live", h.Dashboard.Live)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))

			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, gate.LoginPath, http.StatusFound)
			})
			r.Get("/login", h.Login.Show)
			r.Post("/login", h.Login.Submit)
			r.Post("/logout", h.Dashboard.Logout)

			r.Get("/dashboard", h.Dashboard.Show)
			r.Post("/dashboard/sites", h.Dashboard.AddSite)
			r.Post("/dashboard/sites/{id}/delete", h.Dashboard.DeleteSite)
		})
	})

	return r
}
