package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/iconidentify/clipgrab/internal/domain"
	"github.com/iconidentify/clipgrab/internal/platform"
	"github.com/iconidentify/clipgrab/internal/service"
)

// ResolveHandler serves platform metadata and server-side resolution.
type ResolveHandler struct {
	search   *service.SearchService
	registry *platform.Registry
	logger   *slog.Logger
}

// NewResolveHandler creates a new resolve handler.
func NewResolveHandler(search *service.SearchService, registry *platform.Registry, logger *slog.Logger) *ResolveHandler {
	return &ResolveHandler{
		search:   search,
		registry: registry,
		logger:   logger,
	}
}

// SearchErrorResponse is the JSON body of a failed resolution.
type SearchErrorResponse struct {
	Error string                 `json:"error"`
	Kind  domain.SearchErrorKind `json:"kind"`
}

// Platforms handles GET /api/v1/platforms
func (h *ResolveHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"platforms": h.registry.All(),
	})
}

// Resolve handles GET /api/v1/resolve?platform=<id>&q=<text>
// The platform is detected from the link when omitted.
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	input := r.URL.Query().Get("q")
	id := domain.PlatformID(r.URL.Query().Get("platform"))

	if id == "" {
		detected, ok := h.search.Detect(input)
		if !ok {
			writeJSON(w, http.StatusBadRequest, SearchErrorResponse{
				Error: "could not detect the platform, pass ?platform=",
				Kind:  domain.SearchInvalidTarget,
			})
			return
		}
		id = detected
	}

	media, err := h.search.Resolve(r.Context(), id, input)
	if err != nil {
		var serr *domain.SearchError
		if !errors.As(err, &serr) {
			h.logger.Error("resolve failed", "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, searchErrorStatus(serr.Kind), SearchErrorResponse{
			Error: serr.Message,
			Kind:  serr.Kind,
		})
		return
	}

	writeJSON(w, http.StatusOK, media)
}

func searchErrorStatus(kind domain.SearchErrorKind) int {
	switch kind {
	case domain.SearchNotEntitled:
		return http.StatusForbidden
	case domain.SearchInvalidTarget:
		return http.StatusBadRequest
	case domain.SearchNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusNotFound
	}
}
