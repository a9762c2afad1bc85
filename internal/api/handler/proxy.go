package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/iconidentify/clipgrab/internal/relay"
)

// ProxyHandler exposes the relay over HTTP.
type ProxyHandler struct {
	relay  *relay.Relay
	logger *slog.Logger
}

// NewProxyHandler creates a new proxy handler.
func NewProxyHandler(r *relay.Relay, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		relay:  r,
		logger: logger,
	}
}

// Proxy handles GET /api/proxy?url=<target>&download=true&filename=<name>.
func (h *ProxyHandler) Proxy(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	mode := relay.JSONMode
	if q.Get("download") == "true" {
		mode = relay.StreamMode(q.Get("filename"))
	}

	res := h.relay.Do(r.Context(), q.Get("url"), mode)
	if err := res.Write(w); err != nil {
		// Headers are gone by now; the client sees a truncated body.
		h.logger.Warn("proxy response interrupted",
			"error", err,
			"download", mode.Download,
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
}
