package web

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	h, err := NewHandler("modelkeeper", slog.Default())
	require.NoError(t, err)

	r := chi.NewRouter()
	RegisterRoutes(r, h)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	body := rec.Body.String()
	assert.Contains(t, body, "<title>modelkeeper</title>")
	assert.Contains(t, body, "<h1")
	assert.Contains(t, body, "/model1/stored")
	assert.NotContains(t, body, "<script")
}
