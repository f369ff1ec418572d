package httptransport

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phonebook/pkg/httputil"
	"phonebook/pkg/testutil"
)

type pingFeature struct{}

func (pingFeature) Register(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteMessage(w, http.StatusOK, "pong")
	})
}

func TestRouter(t *testing.T) {
	avatarDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(avatarDir, "x.jpg"), []byte("jpeg bytes"), 0o644))

	router := NewRouter(slog.New(slog.DiscardHandler), avatarDir, pingFeature{})

	t.Run("features mount under /api", func(t *testing.T) {
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		testutil.AssertMessage(t, rr, "pong")
	})

	t.Run("unknown route", func(t *testing.T) {
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
		testutil.AssertMessage(t, rr, "Route not found")
	})

	t.Run("metrics endpoint", func(t *testing.T) {
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
	})

	t.Run("avatars served from disk", func(t *testing.T) {
		rr := testutil.DoRequest(router, httptest.NewRequest(http.MethodGet, "/avatars/x.jpg", nil))
		testutil.AssertStatus(t, rr, http.StatusOK)
		assert.Equal(t, "jpeg bytes", rr.Body.String())
	})

	t.Run("no avatar dir disables the static route", func(t *testing.T) {
		bare := NewRouter(slog.New(slog.DiscardHandler), "")
		rr := testutil.DoRequest(bare, httptest.NewRequest(http.MethodGet, "/avatars/x.jpg", nil))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
