// Package httptransport assembles the public HTTP surface: middleware
// stack, case and decision routes, health probes and Prometheus metrics.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clearway/internal/platform/health"
	"clearway/internal/platform/middleware"
)

// Registrar attaches a handler's routes to the router. Both the case and
// decision handlers satisfy it.
type Registrar interface {
	Register(r chi.Router)
}

// NewRouter wires all public endpoints with the shared middleware stack.
func NewRouter(logger *slog.Logger, healthHandler *health.Handler, handlers ...Registrar) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	healthHandler.Register(r)
	r.Handle("/metrics", promhttp.Handler())

	for _, h := range handlers {
		h.Register(r)
	}

	return r
}
