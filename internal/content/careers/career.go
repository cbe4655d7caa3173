// Package careers publishes job openings.
package careers

import (
	"context"
	"strings"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

// Employment types accepted for a job.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Internship", "Remote"}

// Job is an open position.
type Job struct {
	ID                  int64      `json:"id"`
	Title               string     `json:"title" yaml:"title"`
	Slug                string     `json:"slug" yaml:"slug"`
	Company             string     `json:"company" yaml:"company"`
	Location            string     `json:"location" yaml:"location"`
	Area                string     `json:"area" yaml:"area"`
	Department          string     `json:"department,omitempty" yaml:"department"`
	EmploymentType      string     `json:"employmentType" yaml:"employmentType"`
	Experience          string     `json:"experience,omitempty" yaml:"experience"`
	SalaryRange         string     `json:"salaryRange,omitempty" yaml:"salaryRange"`
	Qualifications      string     `json:"qualifications,omitempty" yaml:"qualifications"`
	Skills              []string   `json:"skills,omitempty" yaml:"skills"`
	Benefits            []string   `json:"benefits,omitempty" yaml:"benefits"`
	Description         string     `json:"description" yaml:"description"`
	Posted              string     `json:"posted" yaml:"posted"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty" yaml:"applicationDeadline"`
	ContactEmail        string     `json:"contactEmail,omitempty" yaml:"contactEmail"`
	ApplyLink           string     `json:"applyLink,omitempty" yaml:"applyLink"`
	CreatedAt           time.Time  `json:"createdAt"`
}

// Open reports whether applications are still accepted at now.
func (j Job) Open(now time.Time) bool {
	return j.ApplicationDeadline == nil || !j.ApplicationDeadline.Before(now)
}

// ErrJobNotFound is returned for an unknown slug.
var ErrJobNotFound = shared.NewNotFound("Job post not found.")

// Repository reads and writes jobs.
type Repository interface {
	List(ctx context.Context) ([]Job, error)
	FindBySlug(ctx context.Context, slug string) (Job, error)
	Upsert(ctx context.Context, j Job) (Job, error)
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

// List returns all postings newest first.
func (s *Service) List(ctx context.Context) ([]Job, error) {
	var out []Job
	err := shared.WithCallTimeout(ctx, s.timeout, "careers: list", func(ctx context.Context) error {
		var err error
		out, err = s.repo.List(ctx)
		return err
	})
	return out, err
}

// Get returns the posting with slug.
func (s *Service) Get(ctx context.Context, slug string) (Job, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Job{}, shared.NewValidationError(map[string]string{"slug": "is required"})
	}
	var out Job
	err := shared.WithCallTimeout(ctx, s.timeout, "careers: get", func(ctx context.Context) error {
		var err error
		out, err = s.repo.FindBySlug(ctx, slug)
		return err
	})
	return out, err
}

// Save validates and upserts a posting by slug.
func (s *Service) Save(ctx context.Context, j Job) (Job, error) {
	j.Title = strings.TrimSpace(j.Title)
	j.ContactEmail = strings.ToLower(strings.TrimSpace(j.ContactEmail))
	if j.Company == "" {
		j.Company = "Skydecor"
	}
	if j.EmploymentType == "" {
		j.EmploymentType = EmploymentTypes[0]
	}
	fields := map[string]string{}
	for name, v := range map[string]string{
		"title": j.Title, "location": j.Location, "area": j.Area,
		"description": j.Description, "posted": j.Posted,
	} {
		if strings.TrimSpace(v) == "" {
			fields[name] = "is required"
		}
	}
	if !validEmploymentType(j.EmploymentType) {
		fields["employmentType"] = "must be one of " + strings.Join(EmploymentTypes, ", ")
	}
	if j.ContactEmail != "" && !strings.Contains(j.ContactEmail, "@") {
		fields["contactEmail"] = "Please use a valid email address"
	}
	if len(fields) > 0 {
		return Job{}, shared.NewValidationError(fields)
	}
	if j.Slug = shared.Slugify(j.Slug); j.Slug == "" {
		j.Slug = shared.Slugify(j.Title)
	}
	var out Job
	err := shared.WithCallTimeout(ctx, s.timeout, "careers: save", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Upsert(ctx, j)
		return err
	})
	return out, err
}

func validEmploymentType(v string) bool {
	for _, t := range EmploymentTypes {
		if t == v {
			return true
		}
	}
	return false
}
