package enquiries

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/shared"
)

type memRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]Enquiry
}

func newMemRepo() *memRepo { return &memRepo{rows: map[int64]Enquiry{}} }

func (m *memRepo) Insert(ctx context.Context, e Enquiry) (Enquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	e.ID = m.nextID
	e.SubmittedAt = time.Unix(m.nextID, 0)
	m.rows[e.ID] = e
	return e, nil
}

func (m *memRepo) matching(status string) []Enquiry {
	var out []Enquiry
	for _, e := range m.rows {
		if status == "" || e.Status == status {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.After(out[j].SubmittedAt) })
	return out
}

func (m *memRepo) List(ctx context.Context, status string, limit, offset int) ([]Enquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := m.matching(status)
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (m *memRepo) Count(ctx context.Context, status string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.matching(status)), nil
}

func (m *memRepo) Get(ctx context.Context, id int64) (Enquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return Enquiry{}, ErrEnquiryNotFound
	}
	return e, nil
}

func (m *memRepo) UpdateStatus(ctx context.Context, id int64, status string) (Enquiry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.rows[id]
	if !ok {
		return Enquiry{}, ErrEnquiryNotFound
	}
	e.Status = status
	m.rows[id] = e
	return e, nil
}

func (m *memRepo) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return ErrEnquiryNotFound
	}
	delete(m.rows, id)
	return nil
}

func validInput() Input {
	return Input{
		FullName: "Asha Rao",
		Email:    " Asha@Example.com ",
		Phone:    "+91 98765 43210",
		Product:  "SD 1001",
		Message:  "Please share dealer pricing for this design.",
	}
}

func TestValidateReportsFields(t *testing.T) {
	_, err := Validate(Input{FullName: "A", Email: "nope", Phone: "12", Message: "short"})
	require.ErrorIs(t, err, shared.ErrValidation)
	fields := shared.FieldErrors(err)
	assert.Equal(t, "must be at least 2 characters long", fields["fullName"])
	assert.Equal(t, "Please enter a valid email", fields["email"])
	assert.Equal(t, "Please enter a valid phone number", fields["phone"])
	assert.Equal(t, "is required", fields["product"])
	assert.Contains(t, fields, "message")

	in, err := Validate(validInput())
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", in.Email)
}

func TestListPaginatesNewestFirst(t *testing.T) {
	svc := NewService(newMemRepo(), time.Second)
	for i := 0; i < 3; i++ {
		_, err := svc.Submit(context.Background(), validInput())
		require.NoError(t, err)
	}
	page, err := svc.List(context.Background(), ListFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.Pages)
	require.Len(t, page.Enquiries, 1)
	assert.Equal(t, int64(1), page.Enquiries[0].ID)

	_, err = svc.List(context.Background(), ListFilter{Status: "archived"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func newRouter(svc *Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/product-enquiry", NewHandler(nil, svc).MountRoutes)
	return r
}

func TestSubmitJSON(t *testing.T) {
	router := newRouter(NewService(newMemRepo(), time.Second))
	body, _ := json.Marshal(validInput())
	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry/", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			ID       int64  `json:"id"`
			FullName string `json:"fullName"`
			Email    string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Data.ID)
	assert.Equal(t, "asha@example.com", resp.Data.Email)
}

func TestSubmitJSONValidationFailure(t *testing.T) {
	router := newRouter(NewService(newMemRepo(), time.Second))
	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry/", strings.NewReader(`{"fullName":"Asha"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
	assert.Contains(t, rec.Body.String(), `"email":"is required"`)
}

func TestSubmitFormRedirectsToProduct(t *testing.T) {
	repo := newMemRepo()
	router := newRouter(NewService(repo, time.Second))
	in := validInput()
	form := url.Values{
		"fullName": {in.FullName}, "email": {in.Email}, "phone": {in.Phone},
		"product": {in.Product}, "message": {in.Message},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/product/detail/SD%201001", rec.Header().Get("Location"))
	assert.Len(t, repo.rows, 1)
}

func TestBackToStaysOnSite(t *testing.T) {
	cases := []struct {
		referer string
		want    string
	}{
		{"http://example.com/api/product/detail/SD-1", "/api/product/detail/SD-1"},
		{"/blogs/decor-trends", "/blogs/decor-trends"},
		{"http://example.com//evil.example/x", "/api/product/detail/SD-1"},
		{"//evil.example/x", "/api/product/detail/SD-1"},
		{"https://evil.example/api/product/", "/api/product/detail/SD-1"},
		{"relative/path", "/api/product/detail/SD-1"},
		{"", "/api/product/detail/SD-1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry/", nil)
		req.Header.Set("Referer", tc.referer)
		assert.Equal(t, tc.want, backTo(req, "SD-1"), tc.referer)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry/", nil)
	req.Header.Set("Referer", "http://example.com//evil.example/x")
	assert.Equal(t, "/api/product/", backTo(req, " "))
}

func TestStatusUpdateAndDelete(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, time.Second)
	e, err := svc.Submit(context.Background(), validInput())
	require.NoError(t, err)
	router := newRouter(svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/product-enquiry/1", strings.NewReader(`{"status":"closed"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid status value")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/product-enquiry/1", strings.NewReader(`{"status":"contacted"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusContacted, repo.rows[e.ID].Status)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/product-enquiry/1", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product-enquiry/1", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Enquiry not found")
}
