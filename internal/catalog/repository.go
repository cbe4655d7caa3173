package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skydecor/catalog/internal/platform/db"
	"github.com/skydecor/catalog/internal/shared"
)

// Store is the product persistence used by Service.
type Store interface {
	CountProducts(ctx context.Context, plan SearchPlan) (int, error)
	ListProducts(ctx context.Context, plan SearchPlan) ([]Product, error)
	DistinctValues(ctx context.Context, column string) ([]string, error)
	Suggest(ctx context.Context, pattern string, limit int) ([]Suggestion, error)
	ClassificationTriples(ctx context.Context) ([]HierarchyRow, error)
	GetByCode(ctx context.Context, code string) (Product, error)
	ListRelated(ctx context.Context, category, excludeCode string, limit int) ([]Product, error)
	ListByType(ctx context.Context, productType, category string) ([]Product, error)
	LatestByType(ctx context.Context, productType string, limit int) ([]Product, error)
	ListActive(ctx context.Context) ([]Product, error)
	Create(ctx context.Context, p Product) (Product, error)
	UpsertMany(ctx context.Context, products []Product) (int, error)
}

// Repository is the Postgres backed Store.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) CountProducts(ctx context.Context, plan SearchPlan) (int, error) {
	var total int
	if err := r.db.QueryRow(ctx, plan.CountSQL(), plan.Args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *Repository) ListProducts(ctx context.Context, plan SearchPlan) ([]Product, error) {
	query, args := plan.PageSQL()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows, true)
}

func (r *Repository) DistinctValues(ctx context.Context, column string) ([]string, error) {
	query, err := distinctSQL(column)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}

func (r *Repository) Suggest(ctx context.Context, pattern string, limit int) ([]Suggestion, error) {
	rows, err := r.db.Query(ctx, suggestSQL, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Suggestion
	for rows.Next() {
		var s Suggestion
		if err := rows.Scan(&s.Code, &s.Name, &s.Category, &s.SubCategory, &s.DesignName, &s.Type, &s.Size, &s.Thickness, &s.Image); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) ClassificationTriples(ctx context.Context) ([]HierarchyRow, error) {
	rows, err := r.db.Query(ctx, classificationSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []HierarchyRow
	for rows.Next() {
		var row HierarchyRow
		if err := rows.Scan(&row.Type, &row.Category, &row.SubCategory); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (r *Repository) GetByCode(ctx context.Context, code string) (Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE upper(product_code) = upper($1) AND is_active = TRUE LIMIT 1`, code)
	if err != nil {
		return Product{}, err
	}
	products, err := collectProducts(rows, false)
	if err != nil {
		return Product{}, err
	}
	if len(products) == 0 {
		return Product{}, ErrProductNotFound
	}
	return products[0], nil
}

func (r *Repository) ListRelated(ctx context.Context, category, excludeCode string, limit int) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE is_active = TRUE AND category = $1 AND product_code <> $2
		ORDER BY created_at DESC, id DESC LIMIT $3`, category, excludeCode, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows, false)
}

func (r *Repository) ListByType(ctx context.Context, productType, category string) ([]Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_active = TRUE AND product_type = $1`
	args := []any{productType}
	if category != "" {
		query += ` AND category = $2`
		args = append(args, category)
	}
	query += ` ORDER BY created_at DESC, id DESC`
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows, false)
}

func (r *Repository) LatestByType(ctx context.Context, productType string, limit int) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products
		WHERE is_active = TRUE AND product_type = $1
		ORDER BY created_at DESC, id DESC LIMIT $2`, productType, limit)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows, false)
}

func (r *Repository) ListActive(ctx context.Context) ([]Product, error) {
	rows, err := r.db.Query(ctx, `SELECT `+productColumns+` FROM products WHERE is_active = TRUE ORDER BY product_code`)
	if err != nil {
		return nil, err
	}
	return collectProducts(rows, false)
}

func (r *Repository) Create(ctx context.Context, p Product) (Product, error) {
	now := time.Now().UTC()
	err := r.db.QueryRow(ctx, `INSERT INTO products (`+insertColumns+`, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15) RETURNING id`,
		append(insertArgs(p), now)...).Scan(&p.ID)
	if err != nil {
		if shared.IsUniqueViolation(err) {
			return Product{}, fmt.Errorf("%w: %s", ErrDuplicateCode, p.Code)
		}
		return Product{}, err
	}
	p.CreatedAt, p.UpdatedAt = now, now
	return p, nil
}

// UpsertMany inserts or updates products by code in a single transaction.
func (r *Repository) UpsertMany(ctx context.Context, products []Product) (int, error) {
	const upsert = `INSERT INTO products (` + insertColumns + `, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)
		ON CONFLICT (product_code) DO UPDATE SET
			product_name = EXCLUDED.product_name, design_name = EXCLUDED.design_name,
			product_type = EXCLUDED.product_type, category = EXCLUDED.category,
			sub_category = EXCLUDED.sub_category, texture = EXCLUDED.texture,
			texture_code = EXCLUDED.texture_code, size = EXCLUDED.size,
			thickness = EXCLUDED.thickness, width = EXCLUDED.width, image = EXCLUDED.image,
			search_text = EXCLUDED.search_text, is_active = EXCLUDED.is_active,
			updated_at = EXCLUDED.updated_at`
	count := 0
	err := db.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		now := time.Now().UTC()
		for _, p := range products {
			batch.Queue(upsert, append(insertArgs(p), now)...)
		}
		results := tx.SendBatch(ctx, batch)
		for range products {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return err
			}
			count++
		}
		return results.Close()
	})
	if err != nil {
		return 0, fmt.Errorf("catalog: upsert products: %w", err)
	}
	return count, nil
}

const insertColumns = `product_code, product_name, design_name, product_type, category, sub_category,
	texture, texture_code, size, thickness, width, image, search_text, is_active`

func insertArgs(p Product) []any {
	return []any{p.Code, p.Name, p.DesignName, p.Type, p.Category, p.SubCategory,
		p.Texture, p.TextureCode, p.Size, p.Thickness, p.Width, p.Image, p.SearchText, p.IsActive}
}

func collectProducts(rows pgx.Rows, withRank bool) ([]Product, error) {
	defer rows.Close()
	var out []Product
	for rows.Next() {
		var p Product
		dest := []any{&p.ID, &p.Code, &p.Name, &p.DesignName, &p.Type, &p.Category, &p.SubCategory,
			&p.Texture, &p.TextureCode, &p.Size, &p.Thickness, &p.Width, &p.Image, &p.SearchText,
			&p.IsActive, &p.CreatedAt, &p.UpdatedAt}
		if withRank {
			dest = append(dest, &p.Score)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return out, nil
}
