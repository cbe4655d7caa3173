package catalog

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/shared"
)

type stubStore struct {
	mu sync.Mutex

	total    int
	products []Product
	countErr error
	listErr  error
	distinct map[string][]string
	suggest  []Suggestion
	triples  []HierarchyRow
	byCode   map[string]Product
	latest   map[string][]Product
	upserted []Product
	delay    time.Duration
	inflight atomic.Int32
	overlap  atomic.Bool
	lastPlan SearchPlan

	suggestCalls int
	lastPattern  string
}

func (s *stubStore) enter(ctx context.Context) error {
	if s.inflight.Add(1) > 1 {
		s.overlap.Store(true)
	}
	defer s.inflight.Add(-1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *stubStore) CountProducts(ctx context.Context, plan SearchPlan) (int, error) {
	if err := s.enter(ctx); err != nil {
		return 0, err
	}
	return s.total, s.countErr
}

func (s *stubStore) ListProducts(ctx context.Context, plan SearchPlan) ([]Product, error) {
	if err := s.enter(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.lastPlan = plan
	s.mu.Unlock()
	return s.products, s.listErr
}

func (s *stubStore) DistinctValues(ctx context.Context, column string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.distinct[column], nil
}

func (s *stubStore) Suggest(ctx context.Context, pattern string, limit int) ([]Suggestion, error) {
	s.suggestCalls++
	s.lastPattern = pattern
	return s.suggest, nil
}

func (s *stubStore) ClassificationTriples(ctx context.Context) ([]HierarchyRow, error) {
	return s.triples, nil
}

func (s *stubStore) GetByCode(ctx context.Context, code string) (Product, error) {
	p, ok := s.byCode[code]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (s *stubStore) ListRelated(ctx context.Context, category, excludeCode string, limit int) ([]Product, error) {
	return nil, nil
}

func (s *stubStore) ListByType(ctx context.Context, productType, category string) ([]Product, error) {
	return s.latest[productType], nil
}

func (s *stubStore) LatestByType(ctx context.Context, productType string, limit int) ([]Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[productType], nil
}

func (s *stubStore) ListActive(ctx context.Context) ([]Product, error) {
	return s.products, nil
}

func (s *stubStore) Create(ctx context.Context, p Product) (Product, error) {
	if _, ok := s.byCode[p.Code]; ok {
		return Product{}, ErrDuplicateCode
	}
	return p, nil
}

func (s *stubStore) UpsertMany(ctx context.Context, products []Product) (int, error) {
	s.upserted = append(s.upserted, products...)
	return len(products), nil
}

func TestSearchEmptyQueryNewestFirst(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	store := &stubStore{
		total:    2,
		products: []Product{{Code: "B", CreatedAt: t2, IsActive: true}, {Code: "A", CreatedAt: t1, IsActive: true}},
	}
	svc := NewService(store, time.Second)

	result, err := svc.Search(context.Background(), SearchRequest{Limit: 2})
	require.NoError(t, err)

	require.Len(t, result.Products, 2)
	assert.Equal(t, "B", result.Products[0].Code)
	assert.Equal(t, 2, result.Pagination.Total)
	assert.Equal(t, 1, result.Pagination.Pages)
	assert.Equal(t, 2, result.Pagination.Limit)
	assert.Equal(t, "created_at DESC, id DESC", store.lastPlan.OrderBy)
	assert.Contains(t, store.lastPlan.Where, "is_active = TRUE")
}

func TestSearchRunsCountAndPageConcurrently(t *testing.T) {
	store := &stubStore{total: 41, delay: 50 * time.Millisecond}
	svc := NewService(store, time.Second)

	result, err := svc.Search(context.Background(), SearchRequest{Limit: 20})
	require.NoError(t, err)
	assert.True(t, store.overlap.Load(), "count and page queries should overlap")
	assert.Equal(t, 3, result.Pagination.Pages)
	assert.NotNil(t, result.Products)
}

func TestSearchPagesIsCeilOfTotal(t *testing.T) {
	for _, tc := range []struct{ total, limit, pages int }{{0, 20, 0}, {1, 20, 1}, {20, 20, 1}, {21, 20, 2}, {100, 7, 15}} {
		svc := NewService(&stubStore{total: tc.total}, time.Second)
		result, err := svc.Search(context.Background(), SearchRequest{Limit: tc.limit})
		require.NoError(t, err)
		assert.Equal(t, tc.pages, result.Pagination.Pages, "total=%d limit=%d", tc.total, tc.limit)
	}
}

func TestSearchTrimsOversizedPage(t *testing.T) {
	store := &stubStore{total: 5, products: make([]Product, 5)}
	svc := NewService(store, time.Second)
	result, err := svc.Search(context.Background(), SearchRequest{Limit: 3})
	require.NoError(t, err)
	assert.Len(t, result.Products, 3)
}

func TestSearchWrapsStoreFailure(t *testing.T) {
	svc := NewService(&stubStore{countErr: errors.New("connection reset")}, time.Second)
	_, err := svc.Search(context.Background(), SearchRequest{})
	require.ErrorIs(t, err, ErrSearchFailed)
	assert.Contains(t, err.Error(), "connection reset")
}

func TestSearchTimeoutIsDistinguishable(t *testing.T) {
	svc := NewService(&stubStore{delay: time.Second}, 20*time.Millisecond)
	_, err := svc.Search(context.Background(), SearchRequest{})
	require.ErrorIs(t, err, ErrSearchFailed)
	assert.ErrorIs(t, err, shared.ErrTimeout)
}

func TestAutocompleteShortQueryNeverHitsStore(t *testing.T) {
	store := &stubStore{suggest: []Suggestion{{Code: "X"}}}
	svc := NewService(store, time.Second)

	for _, q := range []string{"", "a", "  b  ", "é"} {
		out, err := svc.Autocomplete(context.Background(), q, 10)
		require.NoError(t, err)
		assert.Empty(t, out)
		assert.NotNil(t, out)
	}
	assert.Zero(t, store.suggestCalls)
}

func TestAutocompleteBoundsAndEscapes(t *testing.T) {
	store := &stubStore{suggest: make([]Suggestion, 80)}
	svc := NewService(store, time.Second)

	out, err := svc.Autocomplete(context.Background(), " 10%", 500)
	require.NoError(t, err)
	assert.Len(t, out, 50)
	assert.Equal(t, `%10\%%`, store.lastPattern)
}

func TestFilterOptionsSorted(t *testing.T) {
	store := &stubStore{distinct: map[string][]string{
		"product_type": {"liner", "PVC", "1mm"},
		"category":     {"Wall", "Ceiling", "Wall"},
		"width":        {"1220mm"},
	}}
	svc := NewService(store, time.Second)

	opts, err := svc.FilterOptions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"1mm", "PVC", "liner"}, opts.ProductTypes)
	assert.Equal(t, []string{"Ceiling", "Wall"}, opts.Categories)
	assert.Equal(t, []string{"1220mm"}, opts.Widths)
	assert.Empty(t, opts.Textures)
}

func TestBuildHierarchyDedupesAndSorts(t *testing.T) {
	rows := []HierarchyRow{
		{Type: "PVC", Category: "Wall", SubCategory: "Matte"},
		{Type: "PVC", Category: "Wall", SubCategory: "Gloss"},
		{Type: "PVC", Category: "Wall", SubCategory: "Matte"},
		{Type: "PVC", Category: "Ceiling", SubCategory: ""},
		{Type: "liner", Category: "Door", SubCategory: "Oak"},
	}
	tree := BuildHierarchy(rows)

	assert.Equal(t, Hierarchy{
		"PVC":   {"Wall": {"Gloss", "Matte"}, "Ceiling": {}},
		"liner": {"Door": {"Oak"}},
	}, tree)
}

func TestHierarchyScenario(t *testing.T) {
	// The store only returns active rows, so ABC-2 never reaches the builder.
	store := &stubStore{triples: []HierarchyRow{{Type: "PVC", Category: "Wall", SubCategory: "Matte"}}}
	svc := NewService(store, time.Second)

	tree, err := svc.Hierarchy(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Hierarchy{"PVC": {"Wall": {"Matte"}}}, tree)
}

func TestGetNormalisesCode(t *testing.T) {
	store := &stubStore{byCode: map[string]Product{"ABC-1": {Code: "ABC-1"}}}
	svc := NewService(store, time.Second)

	p, err := svc.Get(context.Background(), "abc-1")
	require.NoError(t, err)
	assert.Equal(t, "ABC-1", p.Code)

	_, err = svc.Get(context.Background(), "ZZZ-9")
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListByTypeEmptyIsNotFound(t *testing.T) {
	svc := NewService(&stubStore{}, time.Second)
	_, err := svc.ListByType(context.Background(), "PVC", "")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLatestByTypeKeepsTypeOrder(t *testing.T) {
	store := &stubStore{latest: map[string][]Product{"PVC": {{Code: "P1"}}, "liner": {{Code: "L1"}}}}
	svc := NewService(store, time.Second)

	groups, err := svc.LatestByType(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, len(ProductTypes))
	assert.Equal(t, "PVC", groups[0].Type)
	assert.Equal(t, "P1", groups[0].Products[0].Code)
	assert.Equal(t, "liner", groups[5].Type)
}

func TestImportRejectsInvalidAndDuplicates(t *testing.T) {
	store := &stubStore{}
	svc := NewService(store, time.Second)

	dup := validInput()
	bad := validInput()
	bad.Code = "OTHER-1"
	bad.Type = "Marble"

	result, err := svc.Import(context.Background(), []ProductInput{validInput(), dup, bad})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Len(t, store.upserted, 1)
	assert.Contains(t, result.Rejected, "SD-1001")
	assert.Contains(t, result.Rejected, "OTHER-1")
}

func TestCreateValidatesBeforePersisting(t *testing.T) {
	svc := NewService(&stubStore{}, time.Second)
	in := validInput()
	in.Image = ""
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, shared.ErrValidation)
}
