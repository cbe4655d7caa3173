package catalog

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/view"
)

func newTestHandler(t *testing.T, store *stubStore) http.Handler {
	t.Helper()
	engine, err := view.NewEngine()
	require.NoError(t, err)
	h := NewHandler(nil, NewService(store, 0), nil, view.NewRenderer(engine, nil, nil))
	r := chi.NewRouter()
	r.Route("/api/product", h.MountRoutes)
	return r
}

func getJSON(t *testing.T, handler http.Handler, target string) (int, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec.Code, body
}

func TestSearchEndpoint(t *testing.T) {
	store := &stubStore{total: 12, products: []Product{{Code: "SD-1", Name: "Oak", IsActive: true}}}
	code, body := getJSON(t, newTestHandler(t, store), "/api/product/search?q=oak&productType=1mm&page=2&limit=5")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	pagination := body["pagination"].(map[string]any)
	assert.EqualValues(t, 12, pagination["total"])
	assert.EqualValues(t, 2, pagination["page"])
	assert.EqualValues(t, 3, pagination["pages"])
	assert.Len(t, body["products"], 1)
	assert.Contains(t, store.lastPlan.Args, "1mm")
	assert.Contains(t, store.lastPlan.OrderBy, "DESC")
}

func TestSearchEndpointHidesStoreError(t *testing.T) {
	store := &stubStore{countErr: errors.New("pq: relation products does not exist")}
	code, body := getJSON(t, newTestHandler(t, store), "/api/product/search")

	require.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body["message"], "relation")
}

func TestAutocompleteEndpointShortQuery(t *testing.T) {
	store := &stubStore{}
	code, body := getJSON(t, newTestHandler(t, store), "/api/product/autocomplete?q=o")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{}, body["data"])
	assert.Zero(t, store.suggestCalls)
}

func TestFiltersEndpoint(t *testing.T) {
	store := &stubStore{distinct: map[string][]string{"product_type": {"PVC", "1mm"}, "texture": {"Suede", "Matte"}}}
	code, body := getJSON(t, newTestHandler(t, store), "/api/product/filters")

	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"1mm", "PVC"}, body["productTypes"])
	assert.Equal(t, []any{"Matte", "Suede"}, body["textures"])
	for _, key := range []string{"categories", "subCategories", "sizes", "thicknesses", "widths"} {
		assert.Contains(t, body, key)
	}
}

func TestHierarchyEndpoint(t *testing.T) {
	store := &stubStore{triples: []HierarchyRow{
		{Type: "1mm", Category: "Wood", SubCategory: "Oak"},
		{Type: "1mm", Category: "Wood", SubCategory: "Ash"},
	}}
	code, body := getJSON(t, newTestHandler(t, store), "/api/product/hierarchy")

	require.Equal(t, http.StatusOK, code)
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{"Ash", "Oak"}, data["1mm"].(map[string]any)["Wood"])
}

func TestDetailPage(t *testing.T) {
	store := &stubStore{byCode: map[string]Product{"SD-1": {Code: "SD-1", Name: "Oak Classic", Type: "1mm", IsActive: true}}}
	handler := newTestHandler(t, store)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/detail/sd-1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Oak Classic")
	assert.Contains(t, rec.Body.String(), "/api/product/download/SD-1")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/detail/SD-404", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "requested product does not exist")
}

func TestTypePageWithoutProductsIsNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(t, &stubStore{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/product/page/PVC", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
