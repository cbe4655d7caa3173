package careers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/view"
)

// Handler renders the career pages.
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

// MountRoutes registers the career routes, expected under /career.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.service.List(r.Context())
	if err != nil {
		h.logger.Error("list jobs", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Unable to load job openings right now.")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/careers.html", view.TemplateData{
		Title: "Career - SkyDecor",
		Data:  jobs,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	job, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			h.renderer.Error(w, r, http.StatusBadRequest, "Bad Request", "Slug parameter is required.")
		case errors.Is(err, shared.ErrNotFound):
			h.renderer.Error(w, r, http.StatusNotFound, "Not Found", "Job post not found.")
		default:
			h.logger.Error("get job", slog.Any("error", err))
			h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Unable to load the job post right now.")
		}
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/career_detail.html", view.TemplateData{
		Title:       job.Title + " - Career",
		Description: job.Location,
		Data:        job,
	})
}
