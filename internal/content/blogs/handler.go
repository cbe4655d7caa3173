package blogs

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/view"
)

// Handler renders the blog pages.
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

// MountRoutes registers the blog routes, expected under /blogs.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.show)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	blogs, err := h.service.List(r.Context(), 0)
	if err != nil {
		h.logger.Error("list blogs", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Unable to load blogs at this moment.")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/blogs.html", view.TemplateData{
		Title: "Blog - SkyDecor",
		Data:  blogs,
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			h.renderer.Error(w, r, http.StatusBadRequest, "Error", "Invalid request: blog URL is required.")
		case errors.Is(err, shared.ErrNotFound):
			h.renderer.Error(w, r, http.StatusNotFound, "Not Found", "The requested blog could not be found.")
		default:
			h.logger.Error("get blog", slog.Any("error", err))
			h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Unable to load blog details at this moment.")
		}
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/blog_detail.html", view.TemplateData{
		Title:       detail.Blog.PageTitle(),
		Description: detail.Blog.MetaDescription,
		Data:        detail,
	})
}
