// Package httpapi assembles the public router. Read endpoints are open; the
// registration endpoint sits behind the auth middleware so the service always
// sees a caller identity.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	registryhandler "uniregistry/internal/registry/handler"
	"uniregistry/internal/platform/middleware"
)

// NewRouter wires all public endpoints.
func NewRouter(h *registryhandler.Handler, validator middleware.TokenValidator, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)

	h.Register(r)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(validator, logger))
		h.RegisterProtected(r)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
