package catalog

import (
	"net/url"
	"strings"
)

// Filters holds the optional search filters. Empty fields are not applied.
type Filters struct {
	ProductType string
	Category    string
	SubCategory string
	Texture     string
	TextureCode string
	Size        string
	Thickness   string
	Width       string
	ProductCode string
}

// MatchRule selects how a filter value is compared with its column.
type MatchRule int

const (
	// MatchExact requires literal equality.
	MatchExact MatchRule = iota
	// MatchExactUpper uppercases the value, then requires literal equality.
	MatchExactUpper
	// MatchContains is a case-insensitive substring match; wildcards in the
	// value are matched literally.
	MatchContains
)

// FilterRule binds a query parameter to a column and a match rule.
type FilterRule struct {
	Param  string
	Column string
	Rule   MatchRule
	field  func(*Filters) *string
}

// FilterRules is the complete table of filterable fields.
var FilterRules = []FilterRule{
	{Param: "productType", Column: "product_type", Rule: MatchExact, field: func(f *Filters) *string { return &f.ProductType }},
	{Param: "category", Column: "category", Rule: MatchContains, field: func(f *Filters) *string { return &f.Category }},
	{Param: "subCategory", Column: "sub_category", Rule: MatchContains, field: func(f *Filters) *string { return &f.SubCategory }},
	{Param: "texture", Column: "texture", Rule: MatchContains, field: func(f *Filters) *string { return &f.Texture }},
	{Param: "textureCode", Column: "texture_code", Rule: MatchExactUpper, field: func(f *Filters) *string { return &f.TextureCode }},
	{Param: "size", Column: "size", Rule: MatchExact, field: func(f *Filters) *string { return &f.Size }},
	{Param: "thickness", Column: "thickness", Rule: MatchExact, field: func(f *Filters) *string { return &f.Thickness }},
	{Param: "width", Column: "width", Rule: MatchExact, field: func(f *Filters) *string { return &f.Width }},
	{Param: "productCode", Column: "product_code", Rule: MatchContains, field: func(f *Filters) *string { return &f.ProductCode }},
}

// Value returns the filter value for the rule.
func (r FilterRule) Value(f Filters) string {
	return strings.TrimSpace(*r.field(&f))
}

// FiltersFromQuery reads every rule's parameter from q. The legacy "type"
// parameter is accepted as an alias for productType.
func FiltersFromQuery(q url.Values) Filters {
	var f Filters
	for _, rule := range FilterRules {
		*rule.field(&f) = strings.TrimSpace(q.Get(rule.Param))
	}
	if f.ProductType == "" {
		f.ProductType = strings.TrimSpace(q.Get("type"))
	}
	return f
}

// clause renders the SQL predicate for value, appending its argument to args.
func (r FilterRule) clause(value string, args []any) (string, []any) {
	switch r.Rule {
	case MatchContains:
		args = append(args, "%"+escapeLike(value)+"%")
		return r.Column + ` ILIKE ` + placeholder(len(args)) + ` ESCAPE '\'`, args
	case MatchExactUpper:
		args = append(args, strings.ToUpper(value))
	default:
		args = append(args, value)
	}
	return r.Column + " = " + placeholder(len(args)), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
