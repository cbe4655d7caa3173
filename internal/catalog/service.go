package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/skydecor/catalog/internal/shared"
)

// Service implements the catalog read paths on top of a Store. Every store
// call runs under its own timeout.
type Service struct {
	store   Store
	timeout time.Duration
}

// NewService constructs a Service; timeout bounds each store call.
func NewService(store Store, timeout time.Duration) *Service {
	if timeout <= 0 {
		timeout = shared.DefaultCallTimeout
	}
	return &Service{store: store, timeout: timeout}
}

func (s *Service) call(ctx context.Context, op string, fn func(context.Context) error) error {
	return shared.WithCallTimeout(ctx, s.timeout, "catalog: "+op, fn)
}

// Search runs the count and page queries concurrently. The two queries may
// observe different snapshots when writes interleave, so total can differ from
// the page by the writes made during the request.
func (s *Service) Search(ctx context.Context, req SearchRequest) (SearchResult, error) {
	plan := BuildSearchPlan(req)

	var (
		total    int
		products []Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.call(gctx, "count products", func(ctx context.Context) error {
			n, err := s.store.CountProducts(ctx, plan)
			total = n
			return err
		})
	})
	g.Go(func() error {
		return s.call(gctx, "list products", func(ctx context.Context) error {
			page, err := s.store.ListProducts(ctx, plan)
			products = page
			return err
		})
	})
	if err := g.Wait(); err != nil {
		return SearchResult{}, fmt.Errorf("%w: %w", ErrSearchFailed, err)
	}
	if products == nil {
		products = []Product{}
	}
	if len(products) > plan.Limit {
		products = products[:plan.Limit]
	}
	return SearchResult{
		Products:   products,
		Pagination: shared.NewPagination(plan.Page, plan.Limit, total),
	}, nil
}

// FilterOptions enumerates the distinct values of each filterable field over
// active products. Nothing is cached.
func (s *Service) FilterOptions(ctx context.Context) (FilterOptions, error) {
	var opts FilterOptions
	targets := []struct {
		column string
		dest   *[]string
	}{
		{"product_type", &opts.ProductTypes},
		{"category", &opts.Categories},
		{"sub_category", &opts.SubCategories},
		{"texture", &opts.Textures},
		{"size", &opts.Sizes},
		{"thickness", &opts.Thicknesses},
		{"width", &opts.Widths},
	}
	g, gctx := errgroup.WithContext(ctx)
	for _, target := range targets {
		g.Go(func() error {
			return s.call(gctx, "distinct "+target.column, func(ctx context.Context) error {
				values, err := s.store.DistinctValues(ctx, target.column)
				if err != nil {
					return err
				}
				*target.dest = sortedUnique(values)
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return FilterOptions{}, fmt.Errorf("catalog: filter options: %w", err)
	}
	return opts, nil
}

// Autocomplete returns up to limit suggestions whose text fields contain the
// trimmed query, ignoring case. Queries shorter than two characters return an
// empty slice without touching the store. Result order is whatever the store
// yields and is not stable across calls.
func (s *Service) Autocomplete(ctx context.Context, query string, limit int) ([]Suggestion, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSuggestLength {
		return []Suggestion{}, nil
	}
	if limit < 1 {
		limit = defaultSuggest
	}
	if limit > maxSuggest {
		limit = maxSuggest
	}
	var out []Suggestion
	err := s.call(ctx, "autocomplete", func(ctx context.Context) error {
		var err error
		out, err = s.store.Suggest(ctx, "%"+escapeLike(query)+"%", limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Suggestion{}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Hierarchy scans every active product's classification.
func (s *Service) Hierarchy(ctx context.Context) (Hierarchy, error) {
	var rows []HierarchyRow
	err := s.call(ctx, "hierarchy", func(ctx context.Context) error {
		var err error
		rows, err = s.store.ClassificationTriples(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return BuildHierarchy(rows), nil
}

// Get returns the active product with the code, ignoring case.
func (s *Service) Get(ctx context.Context, code string) (Product, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return Product{}, err
	}
	var p Product
	err = s.call(ctx, "get product", func(ctx context.Context) error {
		var err error
		p, err = s.store.GetByCode(ctx, code)
		return err
	})
	return p, err
}

// Related lists other active products from the same category.
func (s *Service) Related(ctx context.Context, p Product) ([]Product, error) {
	if p.Category == "" {
		return nil, nil
	}
	var out []Product
	err := s.call(ctx, "related products", func(ctx context.Context) error {
		var err error
		out, err = s.store.ListRelated(ctx, p.Category, p.Code, relatedLimit)
		return err
	})
	return out, err
}

// ListByType returns the active products of a type, optionally narrowed to a
// category. An empty result is ErrNoProductsInCategory.
func (s *Service) ListByType(ctx context.Context, productType, category string) ([]Product, error) {
	var out []Product
	err := s.call(ctx, "list by type", func(ctx context.Context) error {
		var err error
		out, err = s.store.ListByType(ctx, strings.TrimSpace(productType), strings.TrimSpace(category))
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNoProductsInCategory
	}
	return out, nil
}

// LatestByType loads the newest products of every type concurrently.
func (s *Service) LatestByType(ctx context.Context) ([]TypeGroup, error) {
	groups := make([]TypeGroup, len(ProductTypes))
	g, gctx := errgroup.WithContext(ctx)
	for i, productType := range ProductTypes {
		groups[i].Type = productType
		g.Go(func() error {
			return s.call(gctx, "latest "+productType, func(ctx context.Context) error {
				products, err := s.store.LatestByType(ctx, productType, homeLatestLimit)
				groups[i].Products = products
				return err
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return groups, nil
}

// ListActive returns every active product.
func (s *Service) ListActive(ctx context.Context) ([]Product, error) {
	var out []Product
	err := s.call(ctx, "list active", func(ctx context.Context) error {
		var err error
		out, err = s.store.ListActive(ctx)
		return err
	})
	return out, err
}

// Create validates and inserts a single product.
func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	p, err := ValidateProduct(in)
	if err != nil {
		return Product{}, err
	}
	err = s.call(ctx, "create product", func(ctx context.Context) error {
		var err error
		p, err = s.store.Create(ctx, p)
		return err
	})
	return p, err
}

// Import validates every input and upserts the valid ones by code. Invalid
// entries and repeated codes are reported in the result, keyed by position
// or code, and never abort the import.
func (s *Service) Import(ctx context.Context, inputs []ProductInput) (ImportResult, error) {
	result := ImportResult{Rejected: map[string]string{}}
	seen := make(map[string]bool, len(inputs))
	valid := make([]Product, 0, len(inputs))
	for i, in := range inputs {
		p, err := ValidateProduct(in)
		if err != nil {
			key := fmt.Sprintf("#%d", i+1)
			if code := in.Normalize().Code; code != "" {
				key = code
			}
			result.Rejected[key] = err.Error()
			continue
		}
		if seen[p.Code] {
			result.Rejected[p.Code] = ErrDuplicateCode.Error()
			continue
		}
		seen[p.Code] = true
		valid = append(valid, p)
	}
	if len(valid) == 0 {
		if len(result.Rejected) > 0 {
			return result, errors.New("catalog: import: no valid products")
		}
		return result, nil
	}
	// One transaction; the deadline scales with batch size.
	err := shared.WithCallTimeout(ctx, s.timeout*time.Duration(1+len(valid)/100), "catalog: import", func(ctx context.Context) error {
		n, err := s.store.UpsertMany(ctx, valid)
		result.Imported = n
		return err
	})
	return result, err
}

// BuildHierarchy groups rows by type then category, deduplicating and sorting
// each subcategory list. Rows with an empty type or category are skipped, as
// are empty subcategories.
func BuildHierarchy(rows []HierarchyRow) Hierarchy {
	seen := make(map[string]map[string]map[string]struct{})
	out := Hierarchy{}
	for _, row := range rows {
		if row.Type == "" || row.Category == "" {
			continue
		}
		cats, ok := out[row.Type]
		if !ok {
			cats = map[string][]string{}
			out[row.Type] = cats
			seen[row.Type] = map[string]map[string]struct{}{}
		}
		if _, ok := cats[row.Category]; !ok {
			cats[row.Category] = []string{}
			seen[row.Type][row.Category] = map[string]struct{}{}
		}
		if row.SubCategory == "" {
			continue
		}
		set := seen[row.Type][row.Category]
		if _, dup := set[row.SubCategory]; dup {
			continue
		}
		set[row.SubCategory] = struct{}{}
		cats[row.Category] = append(cats[row.Category], row.SubCategory)
	}
	for _, cats := range out {
		for _, subs := range cats {
			sort.Strings(subs)
		}
	}
	return out
}

func sortedUnique(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
