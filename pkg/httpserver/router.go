// Package httpserver provides the chi router, health endpoints and JSON
// helpers shared by every FraudGuard HTTP service.
package httpserver

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Options configures NewRouter.
type Options struct {
	Service string
	Logger  *slog.Logger
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
	// Checks are evaluated by /readyz.
	Checks map[string]CheckFunc
	// Middlewares run after request logging on every route.
	Middlewares []func(http.Handler) http.Handler
}

// NewRouter returns a chi router with request IDs, panic recovery, request
// logging and the health and metrics endpoints already registered.
func NewRouter(opts Options) chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(LoggingMiddleware(opts.Logger))
	r.Use(opts.Middlewares...)

	health := NewHealthHandler(opts.Service, opts.Checks)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}
	return r
}

// PublicPaths are served without authentication.
var PublicPaths = []string{"/healthz", "/readyz", "/metrics"}

// NewServer wraps handler in an http.Server with conservative timeouts.
func NewServer(port int, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
