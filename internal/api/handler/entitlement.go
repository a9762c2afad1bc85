package handler

import (
	"log/slog"
	"net/http"

	"github.com/iconidentify/clipgrab/internal/service"
)

// EntitlementHandler manages the server's subscription flag.
type EntitlementHandler struct {
	svc    *service.EntitlementService
	logger *slog.Logger
}

// NewEntitlementHandler creates a new entitlement handler.
func NewEntitlementHandler(svc *service.EntitlementService, logger *slog.Logger) *EntitlementHandler {
	return &EntitlementHandler{
		svc:    svc,
		logger: logger,
	}
}

// EntitlementResponse reports the subscription flag.
type EntitlementResponse struct {
	Entitled bool `json:"entitled"`
}

// Get handles GET /api/v1/entitlement
func (h *EntitlementHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, EntitlementResponse{Entitled: h.svc.IsEntitled()})
}

// Subscribe handles PUT /api/v1/entitlement
func (h *EntitlementHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Subscribe(r.Context()); err != nil {
		h.logger.Error("subscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save subscription")
		return
	}
	writeJSON(w, http.StatusOK, EntitlementResponse{Entitled: true})
}

// Unsubscribe handles DELETE /api/v1/entitlement
func (h *EntitlementHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Unsubscribe(r.Context()); err != nil {
		h.logger.Error("unsubscribe failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to remove subscription")
		return
	}
	writeJSON(w, http.StatusOK, EntitlementResponse{Entitled: false})
}
