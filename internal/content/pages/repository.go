package pages

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type pgRepository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) FindByProductType(ctx context.Context, productType string) (*Page, error) {
	var p Page
	err := r.db.QueryRow(ctx, `SELECT id, slug, product_type, banners, content, updated_at
		FROM pages WHERE product_type = $1 ORDER BY updated_at DESC LIMIT 1`, productType).
		Scan(&p.ID, &p.Slug, &p.ProductType, &p.Banners, &p.Content, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPageNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *pgRepository) Upsert(ctx context.Context, page Page) (Page, error) {
	if page.Banners == nil {
		page.Banners = []Banner{}
	}
	err := r.db.QueryRow(ctx, `INSERT INTO pages (slug, product_type, banners, content, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (slug) DO UPDATE SET product_type = EXCLUDED.product_type,
			banners = EXCLUDED.banners, content = EXCLUDED.content, updated_at = NOW()
		RETURNING id, updated_at`, page.Slug, page.ProductType, page.Banners, page.Content).
		Scan(&page.ID, &page.UpdatedAt)
	return page, err
}
