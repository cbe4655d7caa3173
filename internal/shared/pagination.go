package shared

import "math"

// Pagination contains metadata for paginated listings.
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

// NewPagination computes pagination metadata; pages is ceil(total/limit).
func NewPagination(page, limit, total int) Pagination {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	pages := int(math.Ceil(float64(total) / float64(limit)))
	return Pagination{Total: total, Page: page, Pages: pages, Limit: limit}
}

// Offset returns the number of rows to skip for the page.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
