package opsserver

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shokoauto/notifybridge/pkg/metrics"
)

// readinessTimeout bounds all readiness checks of one request.
const readinessTimeout = 3 * time.Second

// Router returns the ops endpoints with request metrics and panic recovery.
func Router(log *slog.Logger, checks ...Check) chi.Router {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(metricsMiddleware)

	r.Get("/health", ReadinessHandler(log, readinessTimeout, checks...))
	r.Get("/health/live", LivenessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// metricsMiddleware records request durations by route pattern. Requests that
// match no route share one label.
func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		metrics.OpsRequests.WithLabelValues(path, strconv.Itoa(ww.Status())).Observe(time.Since(start).Seconds())
	})
}
