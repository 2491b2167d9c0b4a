package server

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMountUnderPrefix(t *testing.T) {
	t.Parallel()

	inner := http.NewServeMux()
	inner.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "root") // nolint:errcheck
	})
	inner.HandleFunc("POST /api/sentry-webhook", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "hook") // nolint:errcheck
	})

	t.Run("empty prefix returns original handler", func(t *testing.T) {
		t.Parallel()

		h := mountUnderPrefix(inner, "")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sentry-webhook", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hook", rec.Body.String())
	})

	t.Run("bare prefix redirects to prefix with trailing slash", func(t *testing.T) {
		t.Parallel()

		h := mountUnderPrefix(inner, "/bridge")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bridge", nil))

		require.Equal(t, http.StatusMovedPermanently, rec.Code)
		assert.Equal(t, "/bridge/", rec.Header().Get("Location"))
	})

	t.Run("prefixed paths are stripped", func(t *testing.T) {
		t.Parallel()

		h := mountUnderPrefix(inner, "/bridge")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/bridge/api/sentry-webhook", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "hook", rec.Body.String())
	})

	t.Run("non-prefixed paths 404", func(t *testing.T) {
		t.Parallel()

		h := mountUnderPrefix(inner, "/bridge")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sentry-webhook", nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
