// Package testimonials stores customer quotes shown on the home page.
package testimonials

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Testimonial is a customer quote.
type Testimonial struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" yaml:"name"`
	Role      string    `json:"role" yaml:"role"`
	Quote     string    `json:"quote" yaml:"quote"`
	Image     string    `json:"image,omitempty" yaml:"image"`
	Rating    int       `json:"rating" yaml:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository reads and writes testimonials from Postgres.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// List returns every testimonial in insertion order.
func (r *Repository) List(ctx context.Context) ([]Testimonial, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, role, quote, image, rating, created_at FROM testimonials ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Testimonial, error) {
		var t Testimonial
		err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Quote, &t.Image, &t.Rating, &t.CreatedAt)
		return t, err
	})
}

// Insert stores a testimonial. Ratings outside 1..5 are clamped.
func (r *Repository) Insert(ctx context.Context, t Testimonial) (Testimonial, error) {
	t.Rating = clampRating(t.Rating)
	err := r.db.QueryRow(ctx, `INSERT INTO testimonials (name, role, quote, image, rating, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`,
		t.Name, t.Role, t.Quote, t.Image, t.Rating).Scan(&t.ID, &t.CreatedAt)
	return t, err
}

func clampRating(v int) int {
	switch {
	case v <= 0:
		return 5
	case v > 5:
		return 5
	}
	return v
}
