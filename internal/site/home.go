// Package site serves the home page and the static informational pages.
package site

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/skydecor/catalog/internal/catalog"
	"github.com/skydecor/catalog/internal/content/blogs"
	"github.com/skydecor/catalog/internal/content/testimonials"
	"github.com/skydecor/catalog/internal/view"
)

const homeBlogCount = 3

// ProductFeed supplies the newest products of each type.
type ProductFeed interface {
	LatestByType(ctx context.Context) ([]catalog.TypeGroup, error)
}

// BlogFeed supplies recent blogs.
type BlogFeed interface {
	List(ctx context.Context, limit int) ([]blogs.Blog, error)
}

// TestimonialFeed supplies customer quotes.
type TestimonialFeed interface {
	List(ctx context.Context) ([]testimonials.Testimonial, error)
}

// Home is the data of the home page.
type Home struct {
	Groups       []catalog.TypeGroup
	Blogs        []blogs.Blog
	Testimonials []testimonials.Testimonial
}

// Handler renders the home and informational pages.
type Handler struct {
	logger       *slog.Logger
	renderer     *view.Renderer
	products     ProductFeed
	blogs        BlogFeed
	testimonials TestimonialFeed
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, renderer *view.Renderer, products ProductFeed, blogFeed BlogFeed, quotes TestimonialFeed) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, renderer: renderer, products: products, blogs: blogFeed, testimonials: quotes}
}

// MountRoutes registers / and every informational page.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.home)
	for _, p := range InfoPages {
		r.Get(p.Path, h.info(p))
	}
}

// LoadHome gathers the home page sections concurrently.
func (h *Handler) LoadHome(ctx context.Context) (Home, error) {
	var home Home
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		home.Groups, err = h.products.LatestByType(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		home.Blogs, err = h.blogs.List(ctx, homeBlogCount)
		return err
	})
	g.Go(func() error {
		var err error
		home.Testimonials, err = h.testimonials.List(ctx)
		return err
	})
	return home, g.Wait()
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	home, err := h.LoadHome(r.Context())
	if err != nil {
		h.logger.Error("load home page", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error", "Server Error")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/home.html", view.TemplateData{
		Title:       "Home Page - SkyDecor",
		Description: "Decorative laminates, PVC and acrylic panels by SkyDecor.",
		Data:        home,
	})
}
