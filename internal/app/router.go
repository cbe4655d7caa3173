package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/content/blogs"
	"github.com/skydecor/catalog/internal/content/careers"
	"github.com/skydecor/catalog/internal/content/events"
	"github.com/skydecor/catalog/internal/content/pages"
	"github.com/skydecor/catalog/internal/content/showrooms"
	"github.com/skydecor/catalog/internal/datasheet"
	"github.com/skydecor/catalog/internal/enquiries"
	"github.com/skydecor/catalog/internal/observability"
	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/site"
	"github.com/skydecor/catalog/internal/view"
	"github.com/skydecor/catalog/jobs"
	"github.com/skydecor/catalog/report"
	"github.com/skydecor/catalog/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Renderer       *view.Renderer
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Metrics        *observability.Metrics

	SiteHandler      *site.Handler
	CatalogHandler   *catalog.Handler
	DatasheetHandler *datasheet.Handler
	PagesHandler     *pages.Handler
	BlogsHandler     *blogs.Handler
	EventsHandler    *events.Handler
	ShowroomsHandler *showrooms.Handler
	CareersHandler   *careers.Handler
	EnquiryHandler   *enquiries.Handler
	JobHandler       *jobs.Handler
	ReportHandler    *report.Handler
}

// NewRouter constructs the chi.Router with the catalog defaults.
func NewRouter(params RouterParams) http.Handler {
	logger := params.Logger
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.ReportHandler != nil {
		r.Route("/healthz/renderer", params.ReportHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	// Probes and assets stay outside the session and rate limit chain.
	r.Group(func(r chi.Router) {
		for _, mw := range MiddlewareStack(MiddlewareConfig{
			Logger:         logger,
			Config:         params.Config,
			SessionManager: params.SessionManager,
			CSRFManager:    params.CSRFManager,
			Metrics:        params.Metrics,
		}) {
			r.Use(mw)
		}
		r.Use(chimw.Logger)

		if params.SiteHandler != nil {
			params.SiteHandler.MountRoutes(r)
		}
		r.Route("/api/product", func(r chi.Router) {
			if params.CatalogHandler != nil {
				params.CatalogHandler.MountRoutes(r)
			}
			if params.DatasheetHandler != nil {
				params.DatasheetHandler.MountRoutes(r)
			}
		})
		if params.PagesHandler != nil {
			r.Route("/api/pages", params.PagesHandler.MountRoutes)
		}
		if params.EnquiryHandler != nil {
			r.Route("/api/product-enquiry", params.EnquiryHandler.MountRoutes)
		}
		if params.BlogsHandler != nil {
			r.Route("/blogs", params.BlogsHandler.MountRoutes)
		}
		if params.EventsHandler != nil {
			r.Route("/events", params.EventsHandler.MountRoutes)
		}
		if params.ShowroomsHandler != nil {
			r.Route("/showrooms", params.ShowroomsHandler.MountRoutes)
		}
		if params.CareersHandler != nil {
			r.Route("/career", params.CareersHandler.MountRoutes)
		}
		if params.JobHandler != nil {
			r.Route("/jobs", params.JobHandler.MountRoutes)
		}
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			if params.Renderer == nil {
				http.NotFound(w, r)
				return
			}
			params.Renderer.Error(w, r, http.StatusNotFound, "Page Not Found - SkyDecor", "Sorry, the page you are looking for does not exist.")
		})
	})

	return r
}

// staticCacheHandler caches embedded assets for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
