package showrooms

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

func (r *pgRepository) List(ctx context.Context) ([]Showroom, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, title, location, description, mail, contact,
		cover_image, map_link, address, '{}'::text[], created_at
		FROM showrooms ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanShowroom)
}

func (r *pgRepository) FindBySlug(ctx context.Context, slug string) (Showroom, error) {
	rows, err := r.db.Query(ctx, `SELECT id, slug, title, location, description, mail, contact,
		cover_image, map_link, address, images, created_at
		FROM showrooms WHERE slug = $1`, slug)
	if err != nil {
		return Showroom{}, err
	}
	s, err := pgx.CollectOneRow(rows, scanShowroom)
	if errors.Is(err, pgx.ErrNoRows) {
		return Showroom{}, ErrShowroomNotFound
	}
	return s, err
}

func (r *pgRepository) Upsert(ctx context.Context, s Showroom) (Showroom, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO showrooms
		(slug, title, location, description, mail, contact, cover_image, map_link, address, images, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, location = EXCLUDED.location,
			description = EXCLUDED.description, mail = EXCLUDED.mail, contact = EXCLUDED.contact,
			cover_image = EXCLUDED.cover_image, map_link = EXCLUDED.map_link,
			address = EXCLUDED.address, images = EXCLUDED.images
		RETURNING id, created_at`,
		s.Slug, s.Title, s.Location, s.Description, s.Mail, s.Contact, s.CoverImage, s.MapLink,
		s.Address, s.Images).Scan(&s.ID, &s.CreatedAt)
	return s, err
}

func scanShowroom(row pgx.CollectableRow) (Showroom, error) {
	var s Showroom
	err := row.Scan(&s.ID, &s.Slug, &s.Title, &s.Location, &s.Description, &s.Mail, &s.Contact,
		&s.CoverImage, &s.MapLink, &s.Address, &s.Images, &s.CreatedAt)
	return s, err
}
