// Package blogs serves the published articles of the site.
package blogs

import (
	"context"
	"strings"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

const recentLimit = 5

// Status values of a blog post.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Blog is a published article. URL is its unique slug.
type Blog struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title" yaml:"title"`
	URL             string    `json:"url" yaml:"url"`
	Image           string    `json:"image" yaml:"image"`
	Text            string    `json:"text" yaml:"text"`
	Status          string    `json:"status" yaml:"status"`
	Author          string    `json:"author" yaml:"author"`
	MetaName        string    `json:"metaName,omitempty" yaml:"metaName"`
	MetaTags        string    `json:"metaTags,omitempty" yaml:"metaTags"`
	MetaTitle       string    `json:"metaTitle,omitempty" yaml:"metaTitle"`
	MetaDescription string    `json:"metaDescription,omitempty" yaml:"metaDescription"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// PageTitle prefers the SEO title.
func (b Blog) PageTitle() string {
	if b.MetaTitle != "" {
		return b.MetaTitle
	}
	return b.Title
}

// ErrBlogNotFound is returned when no active blog has the URL.
var ErrBlogNotFound = shared.NewNotFound("The requested blog could not be found.")

// Repository reads and writes blogs.
type Repository interface {
	ListActive(ctx context.Context, limit int) ([]Blog, error)
	FindActiveByURL(ctx context.Context, url string) (Blog, error)
	RecentExcept(ctx context.Context, url string, limit int) ([]Blog, error)
	Upsert(ctx context.Context, b Blog) (Blog, error)
}

// Detail is a blog with the most recent other posts.
type Detail struct {
	Blog   Blog
	Recent []Blog
}

// Service implements blog reads.
type Service struct {
	repo    Repository
	timeout time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// List returns active blogs newest first; limit <= 0 means all.
func (s *Service) List(ctx context.Context, limit int) ([]Blog, error) {
	var out []Blog
	err := shared.WithCallTimeout(ctx, s.timeout, "blogs: list", func(ctx context.Context) error {
		var err error
		out, err = s.repo.ListActive(ctx, limit)
		return err
	})
	return out, err
}

// Get returns the active blog at url along with the five newest others.
func (s *Service) Get(ctx context.Context, url string) (Detail, error) {
	url = strings.ToLower(strings.TrimSpace(url))
	if url == "" {
		return Detail{}, shared.NewValidationError(map[string]string{"url": "is required"})
	}
	var d Detail
	err := shared.WithCallTimeout(ctx, s.timeout, "blogs: get", func(ctx context.Context) error {
		blog, err := s.repo.FindActiveByURL(ctx, url)
		if err != nil {
			return err
		}
		d.Blog = blog
		d.Recent, err = s.repo.RecentExcept(ctx, url, recentLimit)
		return err
	})
	return d, err
}

// Save normalises and upserts a blog by URL. A missing URL is derived from the title.
func (s *Service) Save(ctx context.Context, b Blog) (Blog, error) {
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		return Blog{}, shared.NewValidationError(map[string]string{"title": "is required"})
	}
	b.URL = shared.Slugify(b.URL)
	if b.URL == "" {
		b.URL = shared.Slugify(b.Title)
	}
	if b.Status != StatusInactive {
		b.Status = StatusActive
	}
	if b.Author == "" {
		b.Author = "Admin"
	}
	var out Blog
	err := shared.WithCallTimeout(ctx, s.timeout, "blogs: save", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Upsert(ctx, b)
		return err
	})
	return out, err
}
