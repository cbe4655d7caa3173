// Package catalog implements product search, filter options, autocomplete and
// the type/category/subcategory hierarchy over the product store.
package catalog

import (
	"errors"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

// Product types offered by the catalog, in home page order.
var ProductTypes = []string{"PVC", "Acrylish", "1mm", "0.8mm", "SOFFITTO", "liner"}

// Product is a catalog entry. Code is unique and stored uppercase.
type Product struct {
	ID          int64     `json:"id"`
	Code        string    `json:"productCode"`
	Name        string    `json:"productName"`
	DesignName  string    `json:"designName,omitempty"`
	Type        string    `json:"productType"`
	Category    string    `json:"category,omitempty"`
	SubCategory string    `json:"subCategory,omitempty"`
	Texture     string    `json:"texture,omitempty"`
	TextureCode string    `json:"textureCode,omitempty"`
	Size        string    `json:"size"`
	Thickness   string    `json:"thickness"`
	Width       string    `json:"width"`
	Image       string    `json:"image"`
	SearchText  string    `json:"-"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Score       float32   `json:"score,omitempty"`
}

// SearchRequest is a parsed product search.
type SearchRequest struct {
	Query     string
	Filters   Filters
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// SearchResult is one page of products plus pagination metadata.
type SearchResult struct {
	Products   []Product         `json:"products"`
	Pagination shared.Pagination `json:"pagination"`
}

// FilterOptions lists the distinct values present among active products.
type FilterOptions struct {
	ProductTypes  []string `json:"productTypes"`
	Categories    []string `json:"categories"`
	SubCategories []string `json:"subCategories"`
	Textures      []string `json:"textures"`
	Sizes         []string `json:"sizes"`
	Thicknesses   []string `json:"thicknesses"`
	Widths        []string `json:"widths"`
}

// Suggestion is the projection returned by autocomplete.
type Suggestion struct {
	Code        string `json:"productCode"`
	Name        string `json:"productName"`
	Category    string `json:"category,omitempty"`
	SubCategory string `json:"subCategory,omitempty"`
	DesignName  string `json:"designName,omitempty"`
	Type        string `json:"productType"`
	Size        string `json:"size,omitempty"`
	Thickness   string `json:"thickness,omitempty"`
	Image       string `json:"image,omitempty"`
}

// HierarchyRow is one (type, category, subcategory) triple.
type HierarchyRow struct {
	Type        string
	Category    string
	SubCategory string
}

// Hierarchy maps type to category to sorted subcategory names.
type Hierarchy map[string]map[string][]string

// TypeGroup holds the newest products of one type for the home page.
type TypeGroup struct {
	Type     string
	Products []Product
}

// ImportResult summarises a product import.
type ImportResult struct {
	Imported int               `json:"imported"`
	Rejected map[string]string `json:"rejected,omitempty"`
}

var (
	// ErrProductNotFound is returned when no active product has the code.
	ErrProductNotFound = shared.NewNotFound("Product not found")
	// ErrNoProductsInCategory is returned by category landing lookups with no rows.
	ErrNoProductsInCategory = shared.NewNotFound("No products were found for this category")
	// ErrDuplicateCode is returned when a product code already exists.
	ErrDuplicateCode = errors.New("catalog: duplicate product code")
	// ErrSearchFailed wraps any store error raised while searching.
	ErrSearchFailed = errors.New("search failed")
)
