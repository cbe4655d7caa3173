package enquiries

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const enquiryColumns = `id, full_name, email, phone, company, product, message, status, submitted_at, updated_at`

type pgRepository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) Insert(ctx context.Context, e Enquiry) (Enquiry, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO product_enquiries
		(full_name, email, phone, company, product, message, status, submitted_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, submitted_at, updated_at`,
		e.FullName, e.Email, e.Phone, e.Company, e.Product, e.Message, e.Status,
	).Scan(&e.ID, &e.SubmittedAt, &e.UpdatedAt)
	return e, err
}

func (r *pgRepository) List(ctx context.Context, status string, limit, offset int) ([]Enquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+enquiryColumns+` FROM product_enquiries
		WHERE ($1 = '' OR status = $1)
		ORDER BY submitted_at DESC, id DESC LIMIT $2 OFFSET $3`, status, limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanEnquiry)
}

func (r *pgRepository) Count(ctx context.Context, status string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM product_enquiries WHERE ($1 = '' OR status = $1)`, status).Scan(&n)
	return n, err
}

func (r *pgRepository) Get(ctx context.Context, id int64) (Enquiry, error) {
	rows, err := r.db.Query(ctx, `SELECT `+enquiryColumns+` FROM product_enquiries WHERE id = $1`, id)
	if err != nil {
		return Enquiry{}, err
	}
	return collectOne(rows)
}

func (r *pgRepository) UpdateStatus(ctx context.Context, id int64, status string) (Enquiry, error) {
	rows, err := r.db.Query(ctx, `UPDATE product_enquiries SET status = $2, updated_at = NOW()
		WHERE id = $1 RETURNING `+enquiryColumns, id, status)
	if err != nil {
		return Enquiry{}, err
	}
	return collectOne(rows)
}

func (r *pgRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM product_enquiries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEnquiryNotFound
	}
	return nil
}

func collectOne(rows pgx.Rows) (Enquiry, error) {
	e, err := pgx.CollectOneRow(rows, scanEnquiry)
	if errors.Is(err, pgx.ErrNoRows) {
		return Enquiry{}, ErrEnquiryNotFound
	}
	return e, err
}

func scanEnquiry(row pgx.CollectableRow) (Enquiry, error) {
	var e Enquiry
	err := row.Scan(&e.ID, &e.FullName, &e.Email, &e.Phone, &e.Company, &e.Product, &e.Message,
		&e.Status, &e.SubmittedAt, &e.UpdatedAt)
	return e, err
}
