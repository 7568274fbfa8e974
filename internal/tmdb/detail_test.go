package tmdb

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalIDFromDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/693134", r.URL.Path)
		assert.Equal(t, "external_ids", r.URL.Query().Get("append_to_response"))
		assert.Equal(t, "en-US", r.URL.Query().Get("language"))
		response := map[string]any{
			"id":      693134,
			"imdb_id": "tt15239678",
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	client := NewClient("test-api-key", WithBaseURL(server.URL))

	imdbID := client.ExternalID(context.Background(), Candidate{ID: 693134, MediaType: "movie"}, "en-US")
	assert.Equal(t, "tt15239678", imdbID)
}

func TestExternalIDFromNestedExternalIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tv/82856", r.URL.Path)
		response := map[string]any{
			"id": 82856,
			"external_ids": map[string]any{
				"imdb_id": "tt8111088",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	client := NewClient("test-api-key", WithBaseURL(server.URL))

	imdbID := client.ExternalID(context.Background(), Candidate{ID: 82856, MediaType: "tv"}, "")
	assert.Equal(t, "tt8111088", imdbID)
}

func TestExternalIDBestEffort(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient("test-api-key", WithBaseURL(server.URL))

	// Transport errors must not surface from a best-effort detail lookup.
	imdbID := client.ExternalID(context.Background(), Candidate{ID: 1, MediaType: "movie"}, "en-US")
	assert.Empty(t, imdbID)
}

func TestMovieExternalID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/movie/603/external_ids", r.URL.Path)
		response := map[string]any{
			"id":      603,
			"imdb_id": "tt0133093",
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(response))
	}))
	defer server.Close()

	client := NewClient("test-api-key", WithBaseURL(server.URL))

	assert.Equal(t, "tt0133093", client.MovieExternalID(context.Background(), 603))
}

func TestExternalIDUnknownMediaType(t *testing.T) {
	client := NewClient("test-api-key")
	assert.Empty(t, client.ExternalID(context.Background(), Candidate{ID: 1, MediaType: "person"}, ""))
}
