package view

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

// Renderer fills TemplateData from the request session and renders pages
// with an explicit status code.
type Renderer struct {
	engine *Engine
	csrf   *shared.CSRFManager
	logger *slog.Logger
}

// ErrorPage is the data passed to pages/error.html.
type ErrorPage struct {
	Status  int
	Message string
}

// NewRenderer constructs a Renderer.
func NewRenderer(engine *Engine, csrf *shared.CSRFManager, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{engine: engine, csrf: csrf, logger: logger}
}

// Page renders a template. Output is buffered so a failing template never
// leaves a half written response.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data TemplateData) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if rd.csrf != nil {
			data.CSRFToken, _ = rd.csrf.EnsureToken(sess)
		}
		data.Flash = sess.PopFlash()
	}
	data.CurrentPath = r.URL.Path
	data.Year = time.Now().Year()
	if data.Title == "" {
		data.Title = "SkyDecor"
	}

	var buf bytes.Buffer
	if err := rd.engine.Execute(&buf, name, data); err != nil {
		rd.logger.Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// Error renders the generic error view with a friendly message.
func (rd *Renderer) Error(w http.ResponseWriter, r *http.Request, status int, title, message string) {
	rd.Page(w, r, status, "pages/error.html", TemplateData{
		Title: title,
		Data:  ErrorPage{Status: status, Message: message},
	})
}
