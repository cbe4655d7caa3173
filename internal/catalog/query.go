package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	defaultPage      = 1
	defaultLimit     = 20
	maxLimit         = 100
	defaultSuggest   = 10
	maxSuggest       = 50
	minSuggestLength = 2
	relatedLimit     = 20
	homeLatestLimit  = 4
)

const productColumns = `id, product_code, product_name, design_name, product_type, category, sub_category,
	texture, texture_code, size, thickness, width, image, search_text, is_active, created_at, updated_at`

// tsQueryExpr ORs the query's lexemes so any matching word contributes to the rank.
const tsQueryExpr = `replace(plainto_tsquery('simple', %s)::text, ' & ', ' | ')::tsquery`

// sortColumns whitelists caller supplied sort fields.
var sortColumns = map[string]string{
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"productName": "product_name",
	"productCode": "product_code",
	"productType": "product_type",
	"category":    "category",
	"subCategory": "sub_category",
	"designName":  "design_name",
	"size":        "size",
	"thickness":   "thickness",
	"width":       "width",
}

// SearchPlan is the SQL shape of a search: predicate, ordering and window.
type SearchPlan struct {
	Where   string
	Args    []any
	Rank    string
	OrderBy string
	Limit   int
	Offset  int
	Page    int
}

// Normalize applies defaults and bounds to page, limit and sort.
func (r SearchRequest) Normalize() SearchRequest {
	r.Query = strings.TrimSpace(r.Query)
	if r.Page < 1 {
		r.Page = defaultPage
	}
	if r.Limit < 1 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if _, ok := sortColumns[r.SortBy]; !ok {
		r.SortBy = "createdAt"
	}
	if r.SortOrder != "asc" {
		r.SortOrder = "desc"
	}
	return r
}

// BuildSearchPlan translates a request into a plan. Only active products are
// matched. A non-empty text query forces relevance ordering and the requested
// sort is ignored.
func BuildSearchPlan(req SearchRequest) SearchPlan {
	req = req.Normalize()
	conds := []string{"is_active = TRUE"}
	var args []any

	plan := SearchPlan{Rank: "0::real", Limit: req.Limit, Page: req.Page, Offset: (req.Page - 1) * req.Limit}
	if req.Query != "" {
		args = append(args, req.Query)
		q := strings.Replace(tsQueryExpr, "%s", placeholder(len(args)), 1)
		conds = append(conds, "search_vector @@ "+q)
		plan.Rank = "ts_rank(search_vector, " + q + ")"
		plan.OrderBy = "rank DESC, created_at DESC, id DESC"
	} else {
		dir := strings.ToUpper(req.SortOrder)
		plan.OrderBy = sortColumns[req.SortBy] + " " + dir + ", id " + dir
	}

	for _, rule := range FilterRules {
		value := rule.Value(req.Filters)
		if value == "" {
			continue
		}
		var cond string
		cond, args = rule.clause(value, args)
		conds = append(conds, cond)
	}

	plan.Where = strings.Join(conds, " AND ")
	plan.Args = args
	return plan
}

// CountSQL returns the total-rows query for the plan.
func (p SearchPlan) CountSQL() string {
	return "SELECT COUNT(*) FROM products WHERE " + p.Where
}

// PageSQL returns the page query and its arguments.
func (p SearchPlan) PageSQL() (string, []any) {
	args := append(append([]any(nil), p.Args...), p.Limit, p.Offset)
	query := "SELECT " + productColumns + ", " + p.Rank + " AS rank FROM products WHERE " + p.Where +
		" ORDER BY " + p.OrderBy +
		" LIMIT " + placeholder(len(args)-1) + " OFFSET " + placeholder(len(args))
	return query, args
}

// suggestSQL matches the pattern against every suggestion field. Rows come
// back in the store's natural order.
const suggestSQL = `SELECT product_code, product_name, category, sub_category, design_name, product_type, size, thickness, image
FROM products
WHERE is_active = TRUE AND (
	product_name ILIKE $1 ESCAPE '\' OR product_code ILIKE $1 ESCAPE '\' OR category ILIKE $1 ESCAPE '\'
	OR sub_category ILIKE $1 ESCAPE '\' OR design_name ILIKE $1 ESCAPE '\' OR product_type ILIKE $1 ESCAPE '\'
	OR size ILIKE $1 ESCAPE '\' OR thickness ILIKE $1 ESCAPE '\' OR texture ILIKE $1 ESCAPE '\'
)
LIMIT $2`

// classificationSQL feeds the hierarchy.
const classificationSQL = `SELECT product_type, category, sub_category FROM products WHERE is_active = TRUE`

// distinctColumns are the columns distinctSQL may enumerate.
var distinctColumns = map[string]bool{
	"product_type": true, "category": true, "sub_category": true, "texture": true,
	"size": true, "thickness": true, "width": true,
}

// distinctSQL lists the non-empty values of column over active products.
func distinctSQL(column string) (string, error) {
	if !distinctColumns[column] {
		return "", fmt.Errorf("catalog: column %q not enumerable", column)
	}
	return `SELECT DISTINCT ` + column + ` FROM products WHERE is_active = TRUE AND ` + column + ` <> ''`, nil
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}
