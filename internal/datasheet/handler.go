package datasheet

import (
	"context"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/platform/httpx"
)

// Enqueuer schedules background datasheet regeneration.
type Enqueuer interface {
	EnqueueGenerateAll(ctx context.Context) (string, error)
	EnqueueGenerate(ctx context.Context, productCode string) (string, error)
}

// Handler serves datasheet downloads and bulk generation.
type Handler struct {
	logger *slog.Logger
	cache  *Cache
	jobs   Enqueuer
}

// NewHandler constructs a Handler. jobs may be nil, which disables async runs.
func NewHandler(logger *slog.Logger, cache *Cache, jobs Enqueuer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, cache: cache, jobs: jobs}
}

// MountRoutes registers the datasheet routes under /api/product.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/download/{productCode}", h.download)
	r.Post("/pdfs", h.generateAll)
	r.Get("/genrateall", h.generateAll)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	data, err := h.cache.Get(r.Context(), chi.URLParam(r, "productCode"))
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Error generating PDF")
		return
	}
	code, _ := catalog.NormalizeCode(chi.URLParam(r, "productCode"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": code + ".pdf"}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// generateAll regenerates every datasheet, or only ?code= when given.
func (h *Handler) generateAll(w http.ResponseWriter, r *http.Request) {
	async, _ := strconv.ParseBool(r.URL.Query().Get("async"))
	if raw := r.URL.Query().Get("code"); raw != "" {
		h.generateOne(w, r, raw, async)
		return
	}
	if async {
		if h.jobs == nil {
			httpx.Fail(w, http.StatusServiceUnavailable, "Background jobs are not configured")
			return
		}
		id, err := h.jobs.EnqueueGenerateAll(r.Context())
		if err != nil {
			httpx.RespondError(w, h.logger, err, "Error scheduling PDF generation")
			return
		}
		httpx.Success(w, http.StatusAccepted, map[string]any{
			"message": "PDF generation scheduled",
			"taskId":  id,
		})
		return
	}

	result, err := h.cache.GenerateAll(r.Context())
	if err != nil && result.Total == 0 {
		httpx.RespondError(w, h.logger, err, "Error generating PDFs")
		return
	}
	message := "All product PDFs generated and stored successfully"
	if result.Failed > 0 || err != nil {
		message = "Product PDFs generated with failures"
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"message":   message,
		"total":     result.Total,
		"completed": result.Completed,
		"failed":    result.Failed,
	})
}

func (h *Handler) generateOne(w http.ResponseWriter, r *http.Request, raw string, async bool) {
	code, err := catalog.NormalizeCode(raw)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Error generating PDF")
		return
	}
	if async {
		if h.jobs == nil {
			httpx.Fail(w, http.StatusServiceUnavailable, "Background jobs are not configured")
			return
		}
		id, err := h.jobs.EnqueueGenerate(r.Context(), code)
		if err != nil {
			httpx.RespondError(w, h.logger, err, "Error scheduling PDF generation")
			return
		}
		httpx.Success(w, http.StatusAccepted, map[string]any{
			"message":     "PDF generation scheduled",
			"productCode": code,
			"taskId":      id,
		})
		return
	}

	if err := h.cache.Regenerate(r.Context(), code); err != nil {
		httpx.RespondError(w, h.logger, err, "Error generating PDF")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"message":     "Product PDF generated and stored successfully",
		"productCode": code,
	})
}
