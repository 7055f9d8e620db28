package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"

	"github.com/samims/stillup/internal/metrics"
	"github.com/samims/stillup/pkg/tracing"
)

// MetricsMiddleware records request counts and latency labelled by the chi
// route pattern, so /dashboard/sites/{id}/delete is one series. Each request
// also gets a server span continuing any incoming trace context.
func MetricsMiddleware(next http.Handler) http.Handler {
	tracer := tracing.Named("http")

	h := func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.StartServerSpan(ctx, r.Method)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))
		duration := time.Since(start).Seconds()
		path := routePattern(r)
		method := r.Method
		code := ww.Status()
		status := strconv.Itoa(code)

		metrics.HTTPRequests.WithLabelValues(path, method, status).Inc()
		metrics.RequestDuration.WithLabelValues(path, method).Observe(duration)

		span.SetName(method + " " + path)
		tracer.AddRequestAttributes(span, method, path, r.UserAgent(), code)
		if code >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(code))
		}
	}

	return http.HandlerFunc(h)
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
