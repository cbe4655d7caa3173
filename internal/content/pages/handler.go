package pages

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/platform/httpx"
)

// Handler exposes landing page maintenance over JSON.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the page routes, expected under /api/pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Put("/", h.upsert)
	r.Get("/{productType}", h.show)
}

func (h *Handler) upsert(w http.ResponseWriter, r *http.Request) {
	var page Page
	if err := httpx.DecodeJSON(r, &page); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	saved, err := h.service.Upsert(r.Context(), page)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to save page")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"message": "Page created/updated successfully", "page": saved})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ForProductType(r.Context(), chi.URLParam(r, "productType"))
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to load page")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"page": page})
}
