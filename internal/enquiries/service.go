package enquiries

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/skydecor/catalog/internal/shared"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Service implements enquiry submission and back-office operations.
type Service struct {
	repo    Repository
	timeout time.Duration
}

// NewService constructs a Service.
func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout}
}

// Submit validates and stores a new pending enquiry.
func (s *Service) Submit(ctx context.Context, in Input) (Enquiry, error) {
	in, err := Validate(in)
	if err != nil {
		return Enquiry{}, err
	}
	e := Enquiry{
		FullName: in.FullName,
		Email:    in.Email,
		Phone:    in.Phone,
		Company:  in.Company,
		Product:  in.Product,
		Message:  in.Message,
		Status:   StatusPending,
	}
	var out Enquiry
	err = shared.WithCallTimeout(ctx, s.timeout, "enquiries: insert", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Insert(ctx, e)
		return err
	})
	return out, err
}

// List returns one page of enquiries, newest first.
func (s *Service) List(ctx context.Context, f ListFilter) (Page, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return Page{}, shared.NewValidationError(map[string]string{"status": "Invalid status value"})
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	var (
		rows  []Enquiry
		total int
	)
	err := shared.WithCallTimeout(ctx, s.timeout, "enquiries: list", func(ctx context.Context) error {
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			total, err = s.repo.Count(ctx, f.Status)
			return err
		})
		g.Go(func() error {
			var err error
			rows, err = s.repo.List(ctx, f.Status, f.Limit, (f.Page-1)*f.Limit)
			return err
		})
		return g.Wait()
	})
	if err != nil {
		return Page{}, err
	}
	if rows == nil {
		rows = []Enquiry{}
	}
	return Page{Enquiries: rows, Pagination: shared.NewPagination(f.Page, f.Limit, total)}, nil
}

// Get returns one enquiry.
func (s *Service) Get(ctx context.Context, id int64) (Enquiry, error) {
	var out Enquiry
	err := shared.WithCallTimeout(ctx, s.timeout, "enquiries: get", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Get(ctx, id)
		return err
	})
	return out, err
}

// UpdateStatus moves an enquiry to status.
func (s *Service) UpdateStatus(ctx context.Context, id int64, status string) (Enquiry, error) {
	if !ValidStatus(status) {
		return Enquiry{}, shared.NewValidationError(map[string]string{"status": "Invalid status value"})
	}
	var out Enquiry
	err := shared.WithCallTimeout(ctx, s.timeout, "enquiries: update", func(ctx context.Context) error {
		var err error
		out, err = s.repo.UpdateStatus(ctx, id, status)
		return err
	})
	return out, err
}

// Delete removes an enquiry.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return shared.WithCallTimeout(ctx, s.timeout, "enquiries: delete", func(ctx context.Context) error {
		return s.repo.Delete(ctx, id)
	})
}
