package metadata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-notify/internal/domain/media"
)

func TestScraperClient_Backdrop(t *testing.T) {
	t.Run("TC-1: should return the main background image", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/media/images", r.URL.Path)
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"main_background": "https://image.example.org/backdrop.jpg", "main_poster": "https://image.example.org/poster.jpg"}`))
		}))
		defer server.Close()

		c := NewScraperClient(server.URL, 5*time.Second)
		season := 3
		url, err := c.Backdrop(context.Background(), media.TV, 100, &season)

		require.NoError(t, err)
		assert.Equal(t, "https://image.example.org/backdrop.jpg", url)
		assert.Contains(t, gotQuery, "media_type=TV")
		assert.Contains(t, gotQuery, "tmdb_id=100")
		assert.Contains(t, gotQuery, "season_number=3")
	})

	t.Run("TC-2: should omit the season parameter for movies", func(t *testing.T) {
		var gotQuery string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.RawQuery
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"main_background": ""}`))
		}))
		defer server.Close()

		c := NewScraperClient(server.URL, 5*time.Second)
		url, err := c.Backdrop(context.Background(), media.Movie, 438631, nil)

		require.NoError(t, err)
		assert.Empty(t, url)
		assert.NotContains(t, gotQuery, "season_number")
	})

	t.Run("TC-3: should map 404 to absence", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewScraperClient(server.URL, 5*time.Second)
		url, err := c.Backdrop(context.Background(), media.Movie, 1, nil)

		require.NoError(t, err)
		assert.Empty(t, url)
	})
}

func TestUserClient_Nickname(t *testing.T) {
	t.Run("TC-1: should resolve a nickname by uid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/v1/user/7", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"uid": 7, "nickname": "alice"}`))
		}))
		defer server.Close()

		c := NewUserClient(server.URL, 5*time.Second)
		name, err := c.Nickname(context.Background(), 7)

		require.NoError(t, err)
		assert.Equal(t, "alice", name)
	})

	t.Run("TC-2: should map 404 to an empty nickname", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		c := NewUserClient(server.URL, 5*time.Second)
		name, err := c.Nickname(context.Background(), 7)

		require.NoError(t, err)
		assert.Empty(t, name)
	})

	t.Run("TC-3: should surface server errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewUserClient(server.URL, 5*time.Second)
		_, err := c.Nickname(context.Background(), 7)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "user lookup 7")
	})
}
