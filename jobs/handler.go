package jobs

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"

	"github.com/skydecor/catalog/internal/platform/httpx"
)

// QueueInspector reports queue depth.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// Handler serves /jobs/health for the datasheet queue.
type Handler struct {
	inspector QueueInspector
	logger    *slog.Logger
}

// NewHandler constructs a Handler. A nil inspector reports an empty queue.
func NewHandler(inspector QueueInspector, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{inspector: inspector, logger: logger}
}

// MountRoutes attaches job routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/health", h.health)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"queue": QueueDatasheets, "pending": 0, "active": 0, "retry": 0, "archived": 0, "paused": false}
	if h.inspector == nil {
		httpx.Success(w, http.StatusOK, body)
		return
	}
	info, err := h.inspector.GetQueueInfo(QueueDatasheets)
	if err != nil {
		h.logger.Warn("jobs health", slog.Any("error", err))
		httpx.Fail(w, http.StatusServiceUnavailable, "Job queue unavailable")
		return
	}
	if info != nil {
		body["pending"] = info.Pending
		body["active"] = info.Active
		body["retry"] = info.Retry
		body["archived"] = info.Archived
		body["paused"] = info.Paused
	}
	httpx.Success(w, http.StatusOK, body)
}
