package testimonials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampRating(t *testing.T) {
	assert.Equal(t, 5, clampRating(0))
	assert.Equal(t, 5, clampRating(9))
	assert.Equal(t, 3, clampRating(3))
	assert.Equal(t, 1, clampRating(1))
}
