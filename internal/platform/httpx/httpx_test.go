package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydecor/catalog/internal/shared"
)

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestRespondErrorNotFound(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, fmt.Errorf("get: %w", shared.NewNotFound("Product not found")), "Error generating PDF")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Product not found", body["message"])
}

func TestRespondErrorValidation(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, shared.NewValidationError(map[string]string{"email": "must be a valid email"}), "x")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, "must be a valid email", body["errors"].(map[string]any)["email"])
}

func TestRespondErrorHidesUpstreamDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, errors.New("pq: connection refused on 10.0.0.3"), "Search failed")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "10.0.0.3")
	assert.Equal(t, "Search failed", decode(t, rr)["message"])
}

func TestRespondErrorTimeout(t *testing.T) {
	rr := httptest.NewRecorder()
	RespondError(rr, nil, fmt.Errorf("count: %w", shared.ErrTimeout), "Search failed")
	assert.Equal(t, http.StatusGatewayTimeout, rr.Code)
}

func TestSuccessEnvelope(t *testing.T) {
	rr := httptest.NewRecorder()
	Success(rr, http.StatusCreated, map[string]any{"data": []string{"a"}})
	assert.Equal(t, http.StatusCreated, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}
