package careers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const jobColumns = `id, title, slug, company, location, area, department, employment_type, experience,
	salary_range, qualifications, skills, benefits, description, posted, application_deadline,
	contact_email, apply_link, created_at`

type pgRepository struct {
	db *pgxpool.Pool
}

// NewRepository returns the Postgres backed Repository.
func NewRepository(db *pgxpool.Pool) Repository {
	return &pgRepository{db: db}
}

func (r *pgRepository) List(ctx context.Context) ([]Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanJob)
}

func (r *pgRepository) FindBySlug(ctx context.Context, slug string) (Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs WHERE slug = $1`, slug)
	if err != nil {
		return Job{}, err
	}
	j, err := pgx.CollectOneRow(rows, scanJob)
	if errors.Is(err, pgx.ErrNoRows) {
		return Job{}, ErrJobNotFound
	}
	return j, err
}

func (r *pgRepository) Upsert(ctx context.Context, j Job) (Job, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO jobs (title, slug, company, location, area, department,
			employment_type, experience, salary_range, qualifications, skills, benefits, description,
			posted, application_deadline, contact_email, apply_link, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW())
		ON CONFLICT (slug) DO UPDATE SET title = EXCLUDED.title, company = EXCLUDED.company,
			location = EXCLUDED.location, area = EXCLUDED.area, department = EXCLUDED.department,
			employment_type = EXCLUDED.employment_type, experience = EXCLUDED.experience,
			salary_range = EXCLUDED.salary_range, qualifications = EXCLUDED.qualifications,
			skills = EXCLUDED.skills, benefits = EXCLUDED.benefits, description = EXCLUDED.description,
			posted = EXCLUDED.posted, application_deadline = EXCLUDED.application_deadline,
			contact_email = EXCLUDED.contact_email, apply_link = EXCLUDED.apply_link
		RETURNING id, created_at`,
		j.Title, j.Slug, j.Company, j.Location, j.Area, j.Department, j.EmploymentType, j.Experience,
		j.SalaryRange, j.Qualifications, j.Skills, j.Benefits, j.Description, j.Posted,
		j.ApplicationDeadline, j.ContactEmail, j.ApplyLink).Scan(&j.ID, &j.CreatedAt)
	return j, err
}

func scanJob(row pgx.CollectableRow) (Job, error) {
	var j Job
	err := row.Scan(&j.ID, &j.Title, &j.Slug, &j.Company, &j.Location, &j.Area, &j.Department,
		&j.EmploymentType, &j.Experience, &j.SalaryRange, &j.Qualifications, &j.Skills, &j.Benefits,
		&j.Description, &j.Posted, &j.ApplicationDeadline, &j.ContactEmail, &j.ApplyLink, &j.CreatedAt)
	return j, err
}
