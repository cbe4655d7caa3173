package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/enquiries"
	"github.com/skydecor/catalog/internal/observability"
	"github.com/skydecor/catalog/internal/shared"
	_ "github.com/skydecor/catalog/internal/testing/guard"
	"github.com/skydecor/catalog/internal/view"
)

type enquiryStub struct {
	mu   sync.Mutex
	rows []enquiries.Enquiry
}

func (s *enquiryStub) Insert(ctx context.Context, e enquiries.Enquiry) (enquiries.Enquiry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = int64(len(s.rows) + 1)
	s.rows = append(s.rows, e)
	return e, nil
}

func (s *enquiryStub) List(ctx context.Context, status string, limit, offset int) ([]enquiries.Enquiry, error) {
	return nil, nil
}

func (s *enquiryStub) Count(ctx context.Context, status string) (int, error) { return 0, nil }

func (s *enquiryStub) Get(ctx context.Context, id int64) (enquiries.Enquiry, error) {
	return enquiries.Enquiry{}, enquiries.ErrEnquiryNotFound
}

func (s *enquiryStub) UpdateStatus(ctx context.Context, id int64, status string) (enquiries.Enquiry, error) {
	return enquiries.Enquiry{}, enquiries.ErrEnquiryNotFound
}

func (s *enquiryStub) Delete(ctx context.Context, id int64) error { return enquiries.ErrEnquiryNotFound }

func (s *enquiryStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

func newTestRouter(t *testing.T) (http.Handler, *enquiryStub) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	csrf := shared.NewCSRFManager("csrf-secret")
	engine, err := view.NewEngine()
	require.NoError(t, err)
	renderer := view.NewRenderer(engine, csrf, nil)

	repo := &enquiryStub{}
	router := NewRouter(RouterParams{
		Config:         &Config{RateLimitPerMinute: 1000, AppRequestTimeout: 5 * time.Second},
		Renderer:       renderer,
		SessionManager: shared.NewSessionManager(client, "skydecor_session", "session-secret", time.Hour, false),
		CSRFManager:    csrf,
		Metrics:        observability.NewMetrics(),
		EnquiryHandler: enquiries.NewHandler(nil, enquiries.NewService(repo, time.Second)),
	})
	return router, repo
}

func validEnquiryForm(token string) url.Values {
	form := url.Values{
		"fullName": {"Asha Mehta"},
		"email":    {"asha@example.com"},
		"phone":    {"+91 98765 43210"},
		"product":  {"SD-1001"},
		"message":  {"Please share the price list."},
	}
	if token != "" {
		form.Set(shared.CSRFFormField, token)
	}
	return form
}

func TestHealthzBypassesSession(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestStaticAssetsAreCached(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/site.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")
}

func TestUnknownRouteRendersNotFoundView(t *testing.T) {
	router, _ := newTestRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "does not exist")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestJSONEnquirySkipsCSRF(t *testing.T) {
	router, repo := newTestRouter(t)
	body := `{"fullName":"Asha Mehta","email":"asha@example.com","phone":"9876543210","product":"SD-1001","message":"Please share the price list."}`
	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, 1, repo.count())
}

func TestFormEnquiryRequiresCSRFToken(t *testing.T) {
	router, repo := newTestRouter(t)
	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry", strings.NewReader(validEnquiryForm("").Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Zero(t, repo.count())
}

var csrfMeta = regexp.MustCompile(`name="csrf-token" content="([^"]+)"`)

func TestFormEnquiryWithSessionToken(t *testing.T) {
	router, repo := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	match := csrfMeta.FindStringSubmatch(rec.Body.String())
	require.Len(t, match, 2)
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodPost, "/api/product-enquiry", strings.NewReader(validEnquiryForm(match[1]).Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/api/product/detail/SD-1001", rec.Header().Get("Location"))
	assert.Equal(t, 1, repo.count())
}

func TestRequiresCSRF(t *testing.T) {
	cases := []struct {
		method, path, contentType string
		want                      bool
	}{
		{http.MethodGet, "/api/product/search", "", false},
		{http.MethodPost, "/api/product-enquiry", "application/json", false},
		{http.MethodPost, "/api/product-enquiry", "application/x-www-form-urlencoded", true},
		{http.MethodPost, "/api/product-enquiry", "multipart/form-data; boundary=x", true},
		{http.MethodPost, "/api/product/pdfs", "", false},
		{http.MethodPost, "/contact-us", "application/json", true},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		if tc.contentType != "" {
			req.Header.Set("Content-Type", tc.contentType)
		}
		assert.Equal(t, tc.want, requiresCSRF(req), "%s %s %s", tc.method, tc.path, tc.contentType)
	}
}
