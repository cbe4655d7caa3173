package events

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/view"
)

// Handler renders the event pages.
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

// MountRoutes registers the event routes, expected under /events.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/upcoming", h.upcoming)
	r.Get("/range", h.between)
	r.Get("/{slug}", h.show)
}

type listing struct {
	Heading string
	Events  []Event
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.List(r.Context())
	h.renderList(w, r, "Events", "Our events", events, err)
}

func (h *Handler) upcoming(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	events, err := h.service.Upcoming(r.Context(), limit)
	h.renderList(w, r, "Upcoming Events", "Check out our upcoming events!", events, err)
}

func (h *Handler) between(w http.ResponseWriter, r *http.Request) {
	start, end := r.URL.Query().Get("startDate"), r.URL.Query().Get("endDate")
	events, err := h.service.Between(r.Context(), start, end)
	if errors.Is(err, shared.ErrValidation) {
		h.renderer.Error(w, r, http.StatusBadRequest, "Error", rangeMessage(err))
		return
	}
	h.renderList(w, r, "Events", "Events from "+start+" to "+end, events, err)
}

// rangeMessage reports the start date problem first.
func rangeMessage(err error) string {
	fields := shared.FieldErrors(err)
	for _, key := range []string{"startDate", "endDate"} {
		if msg := fields[key]; msg != "" {
			return msg
		}
	}
	return "Start date and end date are required"
}

func (h *Handler) renderList(w http.ResponseWriter, r *http.Request, title, heading string, events []Event, err error) {
	if err != nil {
		h.logger.Error("list events", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Unable to load events. Please try again later.")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/events.html", view.TemplateData{
		Title: title + " - SkyDecor",
		Data:  listing{Heading: heading, Events: events},
	})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	event, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation):
			h.renderer.Error(w, r, http.StatusBadRequest, "Error", "Invalid request: slug is required")
		case errors.Is(err, shared.ErrNotFound):
			h.renderer.Error(w, r, http.StatusNotFound, "Event Not Found", "The event you are looking for does not exist.")
		default:
			h.logger.Error("get event", slog.Any("error", err))
			h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Unable to load event details. Please try again later.")
		}
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/event_detail.html", view.TemplateData{
		Title: event.Title,
		Data:  event,
	})
}
