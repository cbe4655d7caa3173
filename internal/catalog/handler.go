package catalog

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/content/pages"
	"github.com/skydecor/catalog/internal/platform/httpx"
	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/view"
)

// LandingPages looks up the banner page for a product type.
type LandingPages interface {
	ForProductType(ctx context.Context, productType string) (*pages.Page, error)
}

// Handler serves the product API and product pages.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	pages    LandingPages
	renderer *view.Renderer
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, landing LandingPages, renderer *view.Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, pages: landing, renderer: renderer}
}

// MountRoutes registers the product routes, expected under /api/product.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.productsPage)
	r.Get("/search/all", h.searchPage)
	r.Get("/search", h.search)
	r.Get("/filters", h.filters)
	r.Get("/autocomplete", h.autocomplete)
	r.Get("/hierarchy", h.hierarchy)
	r.Get("/detail/{productCode}", h.detail)
	r.Get("/page/{productType}", h.typePage)
}

// ParseSearchRequest reads a SearchRequest from query parameters.
func ParseSearchRequest(r *http.Request) SearchRequest {
	q := r.URL.Query()
	text := q.Get("q")
	if text == "" {
		text = q.Get("query")
	}
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	return SearchRequest{
		Query:     text,
		Filters:   FiltersFromQuery(q),
		Page:      page,
		Limit:     limit,
		SortBy:    q.Get("sortBy"),
		SortOrder: strings.ToLower(q.Get("sortOrder")),
	}.Normalize()
}

func (h *Handler) search(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Search(r.Context(), ParseSearchRequest(r))
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Search failed")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"products":   result.Products,
		"pagination": result.Pagination,
	})
}

func (h *Handler) filters(w http.ResponseWriter, r *http.Request) {
	opts, err := h.service.FilterOptions(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to fetch filter options")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"productTypes":  opts.ProductTypes,
		"categories":    opts.Categories,
		"subCategories": opts.SubCategories,
		"textures":      opts.Textures,
		"sizes":         opts.Sizes,
		"thicknesses":   opts.Thicknesses,
		"widths":        opts.Widths,
	})
}

func (h *Handler) autocomplete(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("q")
	if text == "" {
		text = q.Get("query")
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	suggestions, err := h.service.Autocomplete(r.Context(), text, limit)
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Autocomplete failed")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"data": suggestions})
}

func (h *Handler) hierarchy(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Hierarchy(r.Context())
	if err != nil {
		httpx.RespondError(w, h.logger, err, "Failed to build product hierarchy")
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"data": tree})
}

func (h *Handler) productsPage(w http.ResponseWriter, r *http.Request) {
	tree, err := h.service.Hierarchy(r.Context())
	if err != nil {
		h.logger.Error("products page", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error - SkyDecor", "Something went wrong. Please try again later.")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/products.html", view.TemplateData{
		Title: "Products - SkyDecor",
		Data:  map[string]any{"Hierarchy": tree, "Types": ProductTypes},
	})
}

func (h *Handler) searchPage(w http.ResponseWriter, r *http.Request) {
	req := ParseSearchRequest(r)
	result, err := h.service.Search(r.Context(), req)
	if err != nil {
		h.logger.Error("search page", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error - SkyDecor", "Something went wrong. Please try again later.")
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/search.html", view.TemplateData{
		Title: "Search - SkyDecor",
		Data:  map[string]any{"Request": req, "Result": result},
	})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	product, err := h.service.Get(r.Context(), chi.URLParam(r, "productCode"))
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrValidation), errors.Is(err, shared.ErrNotFound):
			h.renderer.Error(w, r, http.StatusNotFound, "Product Not Found - SkyDecor", "Sorry, the requested product does not exist.")
		default:
			h.logger.Error("product detail", slog.Any("error", err))
			h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error - SkyDecor", "Something went wrong. Please try again later.")
		}
		return
	}
	related, err := h.service.Related(r.Context(), product)
	if err != nil {
		h.logger.Warn("related products", slog.String("code", product.Code), slog.Any("error", err))
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/product_detail.html", view.TemplateData{
		Title:       product.Code + " - SkyDecor",
		Description: product.Name,
		Data:        map[string]any{"Product": product, "Related": related},
	})
}

func (h *Handler) typePage(w http.ResponseWriter, r *http.Request) {
	productType := chi.URLParam(r, "productType")
	category := r.URL.Query().Get("category")
	products, err := h.service.ListByType(r.Context(), productType, category)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.renderer.Error(w, r, http.StatusNotFound, "Product Not Found - SkyDecor", "Sorry, no products were found for this category.")
			return
		}
		h.logger.Error("category products", slog.Any("error", err))
		h.renderer.Error(w, r, http.StatusInternalServerError, "Server Error - SkyDecor", "Something went wrong. Please try again later.")
		return
	}
	var landing *pages.Page
	if h.pages != nil {
		landing, err = h.pages.ForProductType(r.Context(), productType)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			h.logger.Warn("landing page lookup", slog.String("type", productType), slog.Any("error", err))
		}
	}
	title := productType
	if category != "" {
		title = category
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/category_products.html", view.TemplateData{
		Title: title + " - SkyDecor",
		Data: map[string]any{
			"Products":    products,
			"Page":        landing,
			"ProductType": productType,
			"Category":    category,
		},
	})
}
