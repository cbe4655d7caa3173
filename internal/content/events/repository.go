package events

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skydecor/catalog/internal/shared"
)

const eventColumns = `id, title, slug, date, cover_image, images, created_at`

type pgRepository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) List(ctx context.Context) ([]Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events ORDER BY date DESC, slug`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanEvent)
}

func (r *pgRepository) FindBySlug(ctx context.Context, slug string) (Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug)
	if err != nil {
		return Event{}, err
	}
	e, err := pgx.CollectOneRow(rows, scanEvent)
	if errors.Is(err, pgx.ErrNoRows) {
		return Event{}, ErrEventNotFound
	}
	return e, err
}

func (r *pgRepository) Upcoming(ctx context.Context, from time.Time, limit int) ([]Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE date >= $1 ORDER BY date ASC LIMIT $2`, from, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanEvent)
}

func (r *pgRepository) Between(ctx context.Context, start, end time.Time) ([]Event, error) {
	rows, err := r.db.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE date >= $1 AND date <= $2 ORDER BY date DESC`, start, end)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanEvent)
}

func (r *pgRepository) Insert(ctx context.Context, e Event) (Event, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO events (title, slug, date, cover_image, images, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id, created_at`,
		e.Title, e.Slug, e.Date, e.CoverImage, e.Images).Scan(&e.ID, &e.CreatedAt)
	if shared.IsUniqueViolation(err) {
		return Event{}, ErrSlugTaken
	}
	return e, err
}

func scanEvent(row pgx.CollectableRow) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.Slug, &e.Date, &e.CoverImage, &e.Images, &e.CreatedAt)
	return e, err
}
