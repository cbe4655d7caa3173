// Package showrooms lists the company's physical showrooms.
package showrooms

import (
	"context"
	"strings"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

// Showroom is a physical location. Images is empty in listings.
type Showroom struct {
	ID          int64     `json:"id"`
	Slug        string    `json:"slug" yaml:"slug"`
	Title       string    `json:"title" yaml:"title"`
	Location    string    `json:"location" yaml:"location"`
	Description string    `json:"description" yaml:"description"`
	Mail        string    `json:"mail,omitempty" yaml:"mail"`
	Contact     string    `json:"contact,omitempty" yaml:"contact"`
	CoverImage  string    `json:"coverImage,omitempty" yaml:"coverImage"`
	MapLink     string    `json:"mapLink,omitempty" yaml:"mapLink"`
	Address     string    `json:"address,omitempty" yaml:"address"`
	Images      []string  `json:"images,omitempty" yaml:"images"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PageTitle is the location, falling back to a generic title.
func (s Showroom) PageTitle() string {
	if s.Location != "" {
		return s.Location
	}
	return "Showroom Page"
}

// ErrShowroomNotFound is returned for an unknown slug.
var ErrShowroomNotFound = shared.NewNotFound("Showroom not found.")

// Repository reads showrooms.
type Repository interface {
	List(ctx context.Context) ([]Showroom, error)
	FindBySlug(ctx context.Context, slug string) (Showroom, error)
	Upsert(ctx context.Context, s Showroom) (Showroom, error)
}

// Service wraps the repository with call deadlines.
type Service struct {
	repo    Repository
	timeout time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// List returns every showroom, newest first.
func (s *Service) List(ctx context.Context) ([]Showroom, error) {
	var out []Showroom
	err := shared.WithCallTimeout(ctx, s.timeout, "showrooms: list", func(ctx context.Context) error {
		var err error
		out, err = s.repo.List(ctx)
		return err
	})
	return out, err
}

// Get returns the showroom with slug.
func (s *Service) Get(ctx context.Context, slug string) (Showroom, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Showroom{}, shared.NewValidationError(map[string]string{"slug": "Slug parameter is required."})
	}
	var out Showroom
	err := shared.WithCallTimeout(ctx, s.timeout, "showrooms: get", func(ctx context.Context) error {
		var err error
		out, err = s.repo.FindBySlug(ctx, slug)
		return err
	})
	return out, err
}

// Save upserts a showroom by slug, deriving the slug from the title when absent.
func (s *Service) Save(ctx context.Context, sr Showroom) (Showroom, error) {
	fields := map[string]string{}
	if strings.TrimSpace(sr.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(sr.Location) == "" {
		fields["location"] = "is required"
	}
	if len(sr.Images) == 0 {
		fields["images"] = "must have at least one image"
	}
	if len(fields) > 0 {
		return Showroom{}, shared.NewValidationError(fields)
	}
	if sr.Slug = shared.Slugify(sr.Slug); sr.Slug == "" {
		sr.Slug = shared.Slugify(sr.Title)
	}
	var out Showroom
	err := shared.WithCallTimeout(ctx, s.timeout, "showrooms: save", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Upsert(ctx, sr)
		return err
	})
	return out, err
}
