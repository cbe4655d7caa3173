package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 20, 41)
	assert.Equal(t, 3, p.Pages)
	assert.Equal(t, 20, p.Offset())

	p = NewPagination(0, 0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Limit)
	assert.Equal(t, 0, p.Pages)
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Kitchen Design Laminates": "kitchen-design-laminates",
		"  Café  Décor 2024! ":     "cafe-decor-2024",
		"---":                      "",
		"PVC/Acrylic Panels":       "pvc-acrylic-panels",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestUniqueSlug(t *testing.T) {
	taken := map[string]bool{"expo-2024": true, "expo-2024-1": true}
	got := UniqueSlug("Expo 2024", func(s string) bool { return taken[s] })
	assert.Equal(t, "expo-2024-2", got)
	assert.Equal(t, "item", UniqueSlug("!!", nil))
}

func TestWithCallTimeoutClassifiesDeadline(t *testing.T) {
	err := WithCallTimeout(context.Background(), 10*time.Millisecond, "catalog: count", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTimeout))
	assert.True(t, IsTimeout(err))

	boom := errors.New("boom")
	err = WithCallTimeout(context.Background(), time.Second, "catalog: page", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("create: %w", NewValidationError(map[string]string{"productCode": "is required"}))
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "is required", FieldErrors(err)["productCode"])
	assert.Nil(t, FieldErrors(errors.New("other")))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(nil))
}

func TestDatasheetLockKey(t *testing.T) {
	assert.Equal(t, "catalog:datasheet:ABC-1:lock", DatasheetLockKey(" abc-1 "))
}
