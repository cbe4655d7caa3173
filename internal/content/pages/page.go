// Package pages stores the banner and copy shown on product type landing pages.
package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/skydecor/catalog/internal/shared"
)

// Banner is one responsive banner image.
type Banner struct {
	Device string `json:"device" yaml:"device" validate:"required,oneof=desktop tablet mobile"`
	Image  string `json:"image" yaml:"image" validate:"required"`
}

// Page is the landing content of a product type.
type Page struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug" yaml:"slug" validate:"required,max=100"`
	ProductType string    `json:"productType" yaml:"productType" validate:"required,oneof=PVC Acrylish 1mm 0.8mm SOFFITTO liner Baffele 'Exterior cladding' Skybond"`
	Banners     []Banner  `json:"banners" yaml:"banners" validate:"dive"`
	Content     string    `json:"content" yaml:"content"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BannerFor returns the image for device, falling back to desktop.
func (p *Page) BannerFor(device string) string {
	if p == nil {
		return ""
	}
	fallback := ""
	for _, b := range p.Banners {
		if b.Device == device {
			return b.Image
		}
		if b.Device == "desktop" {
			fallback = b.Image
		}
	}
	return fallback
}

// ErrPageNotFound is returned when no page exists for a product type.
var ErrPageNotFound = shared.NewNotFound("Page not found")

// Repository persists pages.
type Repository interface {
	FindByProductType(ctx context.Context, productType string) (*Page, error)
	Upsert(ctx context.Context, page Page) (Page, error)
}

// Service validates and serves landing pages.
type Service struct {
	repo     Repository
	validate *validator.Validate
}

// NewService constructs a Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, validate: validator.New()}
}

// ForProductType returns the landing page of productType.
func (s *Service) ForProductType(ctx context.Context, productType string) (*Page, error) {
	return s.repo.FindByProductType(ctx, strings.TrimSpace(productType))
}

// Upsert validates page and stores it by slug. Slugs are lowercased.
func (s *Service) Upsert(ctx context.Context, page Page) (Page, error) {
	page.Slug = strings.ToLower(strings.TrimSpace(page.Slug))
	if err := s.validate.Struct(page); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Namespace()] = fmt.Sprintf("failed %s validation", fe.Tag())
			}
			return Page{}, shared.NewValidationError(fields)
		}
		return Page{}, err
	}
	return s.repo.Upsert(ctx, page)
}
