package showrooms

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/view"
)

// Handler renders the showroom pages.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *view.Renderer
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer}
}

// MountRoutes registers the showroom routes, expected under /showrooms.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list showrooms", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Something went wrong while fetching showrooms.")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/showrooms.html", view.TemplateData{
		Title: "Showroom Page",
		Data:  rooms,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	room, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			h.renderer.Error(w, r, http.StatusBadRequest, "Bad Request", "Slug parameter is required.")
		case errors.Is(err, shared.ErrNotFound):
			h.renderer.Error(w, r, http.StatusNotFound, "Not Found", "Showroom not found.")
		default:
			h.logger.Error("get showroom", slog.Any("error", err))
			h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Something went wrong while fetching the showroom.")
		}
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/showroom_detail.html", view.TemplateData{
		Title: room.PageTitle(),
		Data:  room,
	})
}
