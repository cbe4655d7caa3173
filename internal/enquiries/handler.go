package enquiries

import (
	"errors"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/skydecor/catalog/internal/platform/httpx"
	"github.com/skydecor/catalog/internal/shared"
)

const serverError = "Server error. Please try again later."

// Handler exposes the enquiry API.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers the enquiry routes, expected under /api/product-enquiry.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.submit)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Put("/{id}", h.updateStatus)
	r.Delete("/{id}", h.delete)
}

func isFormPost(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	var in Input
	form := isFormPost(r)
	if form {
		if err := r.ParseForm(); err != nil {
			httpx.Fail(w, http.StatusBadRequest, "Invalid form data")
			return
		}
		in = Input{
			FullName: r.PostForm.Get("fullName"),
			Email:    r.PostForm.Get("email"),
			Phone:    r.PostForm.Get("phone"),
			Company:  r.PostForm.Get("company"),
			Product:  r.PostForm.Get("product"),
			Message:  r.PostForm.Get("message"),
		}
	} else if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Please fill in all required fields")
		return
	}

	enquiry, err := h.service.Submit(r.Context(), in)
	if form {
		h.redirectWithFlash(w, r, in.Product, err)
		return
	}
	if err != nil {
		httpx.RespondError(w, h.logger, err, serverError)
		return
	}
	httpx.Success(w, http.StatusCreated, map[string]any{
		"message": "Enquiry submitted successfully",
		"data": map[string]any{
			"id":       enquiry.ID,
			"fullName": enquiry.FullName,
			"email":    enquiry.Email,
		},
	})
}

// redirectWithFlash answers a plain HTML form submission with a flash
// message and a redirect back to the page holding the form.
func (h *Handler) redirectWithFlash(w http.ResponseWriter, r *http.Request, product string, err error) {
	flash := shared.FlashMessage{Kind: "success", Message: "Thank you! We will get back to you shortly."}
	if err != nil {
		flash = shared.FlashMessage{Kind: "error", Message: "Please check the enquiry form and try again."}
		if !errors.Is(err, shared.ErrValidation) {
			h.logger.Error("submit enquiry", slog.Any("error", err))
			flash.Message = serverError
		}
	}
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.AddFlash(flash)
	}
	http.Redirect(w, r, backTo(r, product), http.StatusSeeOther)
}

// backTo is the same-site referring path, else the product page. Paths
// starting with "//" are dropped since browsers read them as another host.
func backTo(r *http.Request, product string) string {
	if ref, err := url.Parse(r.Referer()); err == nil && (ref.Host == "" || ref.Host == r.Host) {
		if p := ref.EscapedPath(); strings.HasPrefix(p, "/") && !strings.HasPrefix(p, "//") {
			return p
		}
	}
	if code := strings.TrimSpace(product); code != "" {
		return "/api/product/detail/" + url.PathEscape(code)
	}
	return "/api/product/"
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	result, err := h.service.List(r.Context(), ListFilter{Status: q.Get("status"), Page: page, Limit: limit})
	if err != nil {
		httpx.RespondError(w, h.logger, err, serverError)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"data":        result.Enquiries,
		"totalPages":  result.Pagination.Pages,
		"currentPage": result.Pagination.Page,
		"total":       result.Pagination.Total,
	})
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrEnquiryNotFound
	}
	return id, nil
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil {
		var e Enquiry
		if e, err = h.service.Get(r.Context(), id); err == nil {
			httpx.Success(w, http.StatusOK, map[string]any{"data": e})
			return
		}
	}
	httpx.RespondError(w, h.logger, err, serverError)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		httpx.RespondError(w, h.logger, err, serverError)
		return
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "Invalid status value")
		return
	}
	e, err := h.service.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		if errors.Is(err, shared.ErrValidation) {
			httpx.Fail(w, http.StatusBadRequest, "Invalid status value")
			return
		}
		httpx.RespondError(w, h.logger, err, serverError)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{
		"message": "Enquiry status updated successfully",
		"data":    e,
	})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err == nil {
		err = h.service.Delete(r.Context(), id)
	}
	if err != nil {
		httpx.RespondError(w, h.logger, err, serverError)
		return
	}
	httpx.Success(w, http.StatusOK, map[string]any{"message": "Enquiry deleted successfully"})
}
