package blogs

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const blogColumns = `id, title, url, image, text, status, author, meta_name, meta_tags, meta_title, meta_description, created_at, updated_at`

type pgRepository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) ListActive(ctx context.Context, limit int) ([]Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE status = 'active' ORDER BY created_at DESC, id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanBlog)
}

func (r *pgRepository) FindActiveByURL(ctx context.Context, url string) (Blog, error) {
	rows, err := r.db.Query(ctx, `SELECT `+blogColumns+` FROM blogs WHERE url = $1 AND status = 'active'`, url)
	if err != nil {
		return Blog{}, err
	}
	b, err := pgx.CollectOneRow(rows, scanBlog)
	if errors.Is(err, pgx.ErrNoRows) {
		return Blog{}, ErrBlogNotFound
	}
	return b, err
}

func (r *pgRepository) RecentExcept(ctx context.Context, url string, limit int) ([]Blog, error) {
	rows, err := r.db.Query(ctx, `SELECT `+blogColumns+` FROM blogs
		WHERE url <> $1 AND status = 'active' ORDER BY created_at DESC, id DESC LIMIT $2`, url, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanBlog)
}

func (r *pgRepository) Upsert(ctx context.Context, b Blog) (Blog, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO blogs (title, url, image, text, status, author, meta_name, meta_tags, meta_title, meta_description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		ON CONFLICT (url) DO UPDATE SET title = EXCLUDED.title, image = EXCLUDED.image, text = EXCLUDED.text,
			status = EXCLUDED.status, author = EXCLUDED.author, meta_name = EXCLUDED.meta_name,
			meta_tags = EXCLUDED.meta_tags, meta_title = EXCLUDED.meta_title,
			meta_description = EXCLUDED.meta_description, updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		b.Title, b.URL, b.Image, b.Text, b.Status, b.Author, b.MetaName, b.MetaTags, b.MetaTitle, b.MetaDescription).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func scanBlog(row pgx.CollectableRow) (Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.URL, &b.Image, &b.Text, &b.Status, &b.Author,
		&b.MetaName, &b.MetaTags, &b.MetaTitle, &b.MetaDescription, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}
