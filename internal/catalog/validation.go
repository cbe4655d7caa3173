package catalog

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/skydecor/catalog/internal/shared"
)

var productCodePattern = regexp.MustCompile(`^[A-Z0-9\s-]+$`)

// ProductInput is the unvalidated shape of a product from fixtures or imports.
type ProductInput struct {
	Code        string `json:"productCode" yaml:"productCode" validate:"required,productcode,max=50"`
	Name        string `json:"productName" yaml:"productName" validate:"required,min=2,max=100"`
	DesignName  string `json:"designName" yaml:"designName" validate:"max=100"`
	Type        string `json:"productType" yaml:"productType" validate:"required,oneof=PVC Acrylish 1mm 0.8mm SOFFITTO liner"`
	Category    string `json:"category" yaml:"category" validate:"required,max=50"`
	SubCategory string `json:"subCategory" yaml:"subCategory" validate:"required,min=2,max=50"`
	Texture     string `json:"texture" yaml:"texture" validate:"required,min=2,max=50"`
	TextureCode string `json:"textureCode" yaml:"textureCode" validate:"required,max=30"`
	Size        string `json:"size" yaml:"size" validate:"required"`
	Thickness   string `json:"thickness" yaml:"thickness" validate:"required"`
	Width       string `json:"width" yaml:"width" validate:"required"`
	Image       string `json:"image" yaml:"image" validate:"required"`
	IsActive    *bool  `json:"isActive" yaml:"isActive"`
}

var productValidator = newProductValidator()

func newProductValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("productcode", func(fl validator.FieldLevel) bool {
		return productCodePattern.MatchString(fl.Field().String())
	})
	return v
}

// Normalize trims every field and uppercases the product and texture codes.
func (in ProductInput) Normalize() ProductInput {
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	in.Name = strings.TrimSpace(in.Name)
	in.DesignName = strings.TrimSpace(in.DesignName)
	in.Type = strings.TrimSpace(in.Type)
	in.Category = strings.TrimSpace(in.Category)
	in.SubCategory = strings.TrimSpace(in.SubCategory)
	in.Texture = strings.TrimSpace(in.Texture)
	in.TextureCode = strings.ToUpper(strings.TrimSpace(in.TextureCode))
	in.Size = strings.TrimSpace(in.Size)
	in.Thickness = strings.TrimSpace(in.Thickness)
	in.Width = strings.TrimSpace(in.Width)
	in.Image = strings.TrimSpace(in.Image)
	return in
}

// ValidateProduct normalises and validates in, returning the product ready
// for persistence or a *shared.ValidationError with per-field messages.
func ValidateProduct(in ProductInput) (Product, error) {
	in = in.Normalize()
	if err := productValidator.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return Product{}, err
		}
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
		return Product{}, shared.NewValidationError(fields)
	}
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	p := Product{
		Code:        in.Code,
		Name:        in.Name,
		DesignName:  in.DesignName,
		Type:        in.Type,
		Category:    in.Category,
		SubCategory: in.SubCategory,
		Texture:     in.Texture,
		TextureCode: in.TextureCode,
		Size:        in.Size,
		Thickness:   in.Thickness,
		Width:       in.Width,
		Image:       in.Image,
		IsActive:    active,
	}
	p.SearchText = BuildSearchText(p)
	return p, nil
}

// BuildSearchText is the lowercase join of the searchable fields.
func BuildSearchText(p Product) string {
	parts := []string{p.Code, p.Name, p.DesignName, p.Category, p.SubCategory, p.Texture, p.TextureCode, p.Type, p.Size, p.Thickness, p.Width}
	kept := parts[:0]
	for _, part := range parts {
		if part != "" {
			kept = append(kept, part)
		}
	}
	return strings.ToLower(strings.Join(kept, " "))
}

// NormalizeCode uppercases a product code from a URL and checks its shape.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" || len(code) > 50 || !productCodePattern.MatchString(code) {
		return "", shared.NewValidationError(map[string]string{"productCode": "may contain only letters, digits, spaces and hyphens"})
	}
	return code, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "productcode":
		return "may contain only letters, digits, spaces and hyphens"
	default:
		return "is invalid"
	}
}
