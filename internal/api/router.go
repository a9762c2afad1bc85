package api

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/clipgrab/internal/api/handler"
	mw "github.com/iconidentify/clipgrab/internal/api/middleware"
)

// requestTimeout bounds every route except the proxy, whose streams can
// legitimately run for a long time.
const requestTimeout = time.Minute

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Proxy       *handler.ProxyHandler
	Resolve     *handler.ResolveHandler
	Entitlement *handler.EntitlementHandler
	Health      *handler.HealthHandler
	UI          *handler.UIHandler
}

// NewRouter creates the HTTP router with all routes configured. When apiKey
// is empty the entitlement write endpoints are open.
func NewRouter(h Handlers, apiKey string, logger *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger(logger))
	r.Use(mw.Recovery(logger))
	r.Use(mw.CORS)

	r.Get("/api/proxy", h.Proxy.Proxy)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))

		r.Get("/health", h.Health.Live)
		r.Get("/ready", h.Health.Ready)
		r.Get("/", h.UI.Index)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/stats", h.Health.Stats)
			r.Get("/platforms", h.Resolve.Platforms)
			r.Get("/resolve", h.Resolve.Resolve)

			r.Get("/entitlement", h.Entitlement.Get)
			r.Group(func(r chi.Router) {
				if apiKey != "" {
					r.Use(mw.APIKeyAuth(apiKey))
				}
				r.Put("/entitlement", h.Entitlement.Subscribe)
				r.Delete("/entitlement", h.Entitlement.Unsubscribe)
			})
		})
	})

	return r
}
