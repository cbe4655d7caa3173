// Package enquiries records product enquiries submitted from product pages.
package enquiries

import (
	"context"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

// Enquiry statuses.
const (
	StatusPending   = "pending"
	StatusContacted = "contacted"
	StatusResolved  = "resolved"
)

// Enquiry is a stored product enquiry.
type Enquiry struct {
	ID          int64     `json:"id"`
	FullName    string    `json:"fullName"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Company     string    `json:"company"`
	Product     string    `json:"product"`
	Message     string    `json:"message"`
	Status      string    `json:"status"`
	SubmittedAt time.Time `json:"submittedAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ListFilter selects a page of enquiries.
type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

// Page is one page of enquiries with totals.
type Page struct {
	Enquiries  []Enquiry
	Pagination shared.Pagination
}

// ErrEnquiryNotFound is returned for an unknown id.
var ErrEnquiryNotFound = shared.NewNotFound("Enquiry not found")

// Repository persists enquiries.
type Repository interface {
	Insert(ctx context.Context, e Enquiry) (Enquiry, error)
	List(ctx context.Context, status string, limit, offset int) ([]Enquiry, error)
	Count(ctx context.Context, status string) (int, error)
	Get(ctx context.Context, id int64) (Enquiry, error)
	UpdateStatus(ctx context.Context, id int64, status string) (Enquiry, error)
	Delete(ctx context.Context, id int64) error
}
