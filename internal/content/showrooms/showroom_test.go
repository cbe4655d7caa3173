package showrooms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/shared"
	"github.com/skydecor/catalog/internal/view"
)

type memRepo struct {
	rooms []Showroom
}

func (m *memRepo) List(ctx context.Context) ([]Showroom, error) { return m.rooms, nil }

func (m *memRepo) FindBySlug(ctx context.Context, slug string) (Showroom, error) {
	for _, s := range m.rooms {
		if s.Slug == slug {
			return s, nil
		}
	}
	return Showroom{}, ErrShowroomNotFound
}

func (m *memRepo) Upsert(ctx context.Context, s Showroom) (Showroom, error) {
	m.rooms = append(m.rooms, s)
	return s, nil
}

func TestSaveRequiresImages(t *testing.T) {
	svc := NewService(&memRepo{}, time.Second)
	_, err := svc.Save(context.Background(), Showroom{Title: "Delhi", Location: "Delhi"})
	require.ErrorIs(t, err, shared.ErrValidation)
	assert.Contains(t, shared.FieldErrors(err), "images")

	saved, err := svc.Save(context.Background(), Showroom{Title: "Delhi Experience Centre", Location: "Delhi", Images: []string{"a.jpg"}})
	require.NoError(t, err)
	assert.Equal(t, "delhi-experience-centre", saved.Slug)
}

func TestShowroomDetailTitle(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)
	repo := &memRepo{rooms: []Showroom{{Slug: "pune", Title: "Pune Studio", Location: "Pune, MH", Images: []string{"p.jpg"}}}}
	h := NewHandler(nil, NewService(repo, time.Second), view.NewRenderer(engine, nil, nil))
	r := chi.NewRouter()
	r.Route("/showrooms", h.MountRoutes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/showrooms/PUNE", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Pune, MH</title>")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/showrooms/mumbai", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
