// Package events lists trade shows and other company events.
package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/skydecor/catalog/internal/shared"
)

const (
	defaultUpcoming = 10
	maxUpcoming     = 50
	maxSlugAttempts = 20
)

// reservedSlugs collide with the fixed routes under /events.
var reservedSlugs = map[string]bool{"upcoming": true, "range": true}

// Event is a dated event with a cover image and gallery.
type Event struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title" yaml:"title"`
	Slug       string    `json:"slug" yaml:"slug"`
	Date       time.Time `json:"date" yaml:"date"`
	CoverImage string    `json:"coverImage" yaml:"coverImage"`
	Images     []string  `json:"images" yaml:"images"`
	CreatedAt  time.Time `json:"createdAt"`
}

// IsUpcoming reports whether the event is at or after now.
func (e Event) IsUpcoming(now time.Time) bool {
	return !e.Date.Before(now)
}

var (
	// ErrEventNotFound is returned when no event has the slug.
	ErrEventNotFound = shared.NewNotFound("The event you are looking for does not exist.")
	// ErrSlugTaken is returned by Repository.Insert on a slug collision.
	ErrSlugTaken = errors.New("events: slug taken")
)

// Repository reads and writes events.
type Repository interface {
	List(ctx context.Context) ([]Event, error)
	FindBySlug(ctx context.Context, slug string) (Event, error)
	Upcoming(ctx context.Context, from time.Time, limit int) ([]Event, error)
	Between(ctx context.Context, start, end time.Time) ([]Event, error)
	Insert(ctx context.Context, e Event) (Event, error)
}

// Service implements event reads and creation.
type Service struct {
	repo    Repository
	timeout time.Duration
	now     func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout, now: time.Now}
}

func (s *Service) call(ctx context.Context, op string, fn func(context.Context) error) error {
	return shared.WithCallTimeout(ctx, s.timeout, "events: "+op, fn)
}

// List returns all events, latest date first.
func (s *Service) List(ctx context.Context) ([]Event, error) {
	var out []Event
	err := s.call(ctx, "list", func(ctx context.Context) error {
		var err error
		out, err = s.repo.List(ctx)
		return err
	})
	return out, err
}

// Get returns the event with slug.
func (s *Service) Get(ctx context.Context, slug string) (Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return Event{}, shared.NewValidationError(map[string]string{"slug": "is required"})
	}
	var out Event
	err := s.call(ctx, "get", func(ctx context.Context) error {
		var err error
		out, err = s.repo.FindBySlug(ctx, slug)
		return err
	})
	return out, err
}

// Upcoming returns events from now on, soonest first.
func (s *Service) Upcoming(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultUpcoming
	}
	if limit > maxUpcoming {
		limit = maxUpcoming
	}
	var out []Event
	err := s.call(ctx, "upcoming", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Upcoming(ctx, s.now(), limit)
		return err
	})
	return out, err
}

// Between returns events dated within [start, end]. Both bounds are required
// and accept either RFC 3339 timestamps or YYYY-MM-DD dates.
func (s *Service) Between(ctx context.Context, startRaw, endRaw string) ([]Event, error) {
	if strings.TrimSpace(startRaw) == "" || strings.TrimSpace(endRaw) == "" {
		return nil, shared.NewValidationError(map[string]string{"startDate": "Start date and end date are required"})
	}
	start, err := parseDate(startRaw)
	if err != nil {
		return nil, shared.NewValidationError(map[string]string{"startDate": "Start date must be a YYYY-MM-DD date or an RFC 3339 timestamp"})
	}
	end, err := parseDate(endRaw)
	if err != nil {
		return nil, shared.NewValidationError(map[string]string{"endDate": "End date must be a YYYY-MM-DD date or an RFC 3339 timestamp"})
	}
	if end.Before(start) {
		return nil, shared.NewValidationError(map[string]string{"endDate": "End date must not be before start date"})
	}
	var out []Event
	err = s.call(ctx, "between", func(ctx context.Context) error {
		var err error
		out, err = s.repo.Between(ctx, start, end)
		return err
	})
	return out, err
}

// Create stores an event, deriving a unique slug from its title.
func (s *Service) Create(ctx context.Context, e Event) (Event, error) {
	e.Title = strings.TrimSpace(e.Title)
	fields := map[string]string{}
	if e.Title == "" {
		fields["title"] = "is required"
	}
	if e.Date.IsZero() {
		fields["date"] = "is required"
	}
	if strings.TrimSpace(e.CoverImage) == "" {
		fields["coverImage"] = "is required"
	}
	if len(e.Images) == 0 {
		fields["images"] = "At least one image is required"
	}
	if len(fields) > 0 {
		return Event{}, shared.NewValidationError(fields)
	}
	base := e.Slug
	if base == "" {
		base = e.Title
	}
	base = shared.Slugify(base)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		e.Slug = base
		if attempt > 0 {
			e.Slug = fmt.Sprintf("%s-%d", base, attempt)
		}
		if reservedSlugs[e.Slug] {
			continue
		}
		var saved Event
		err := s.call(ctx, "insert", func(ctx context.Context) error {
			var err error
			saved, err = s.repo.Insert(ctx, e)
			return err
		})
		if errors.Is(err, ErrSlugTaken) {
			continue
		}
		return saved, err
	}
	return Event{}, fmt.Errorf("events: no free slug for %q", base)
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	return t, nil
}
