package tmdb

import (
	"context"
	"fmt"
	"strings"

	"github.com/lepinkainen/reelscan/internal/cache"
)

// CachedCandidates wraps a Candidate slice for caching.
type CachedCandidates struct {
	Candidates []Candidate `json:"candidates"`
}

// CachedExternalID wraps an external id lookup result for caching.
// Empty ids are cached too: re-querying a title TMDB has no IMDb id for
// every run would waste the request budget.
type CachedExternalID struct {
	IMDbID string `json:"imdb_id"`
}

func searchCacheKey(kind, query string, opts SearchOptions) string {
	return fmt.Sprintf("%s_%s_%s_%d", kind, normalizeCacheKey(query), strings.ToLower(opts.Language), opts.Year)
}

// normalizeCacheKey lowercases and underscores a query for use in cache keys.
func normalizeCacheKey(query string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(query)), " ", "_")
}

// CachedSearchMovies is SearchMovies behind the shared TTL cache.
// Empty result sets are not cached so transient provider hiccups heal.
func (c *Client) CachedSearchMovies(ctx context.Context, query string, opts SearchOptions) ([]Candidate, bool, error) {
	return c.cachedSearch(searchCacheKey("movies", query, opts), func() ([]Candidate, error) {
		return c.SearchMovies(ctx, query, opts)
	})
}

// CachedSearchTV is SearchTV behind the shared TTL cache.
func (c *Client) CachedSearchTV(ctx context.Context, query string, opts SearchOptions) ([]Candidate, bool, error) {
	return c.cachedSearch(searchCacheKey("tv", query, opts), func() ([]Candidate, error) {
		return c.SearchTV(ctx, query, opts)
	})
}

// CachedSearchMulti is SearchMulti behind the shared TTL cache.
func (c *Client) CachedSearchMulti(ctx context.Context, query string, opts SearchOptions) ([]Candidate, bool, error) {
	return c.cachedSearch(searchCacheKey("multi", query, opts), func() ([]Candidate, error) {
		return c.SearchMulti(ctx, query, opts)
	})
}

func (c *Client) cachedSearch(cacheKey string, fetch func() ([]Candidate, error)) ([]Candidate, bool, error) {
	result, fromCache, err := cache.GetOrFetchWithPolicy("tmdb_cache", cacheKey, func() (*CachedCandidates, error) {
		candidates, searchErr := fetch()
		if searchErr != nil {
			return nil, searchErr
		}
		return &CachedCandidates{Candidates: candidates}, nil
	}, func(result *CachedCandidates) bool {
		return result != nil && len(result.Candidates) > 0
	})
	if err != nil {
		return nil, false, err
	}
	return result.Candidates, fromCache, nil
}

// CachedCatalog presents the cached lookups with the plain catalog
// signatures so the resolver can run behind the TTL cache.
type CachedCatalog struct {
	client *Client
}

// Cached returns a catalog view of the client that serves searches and
// external id lookups through the shared TTL cache.
func (c *Client) Cached() *CachedCatalog {
	return &CachedCatalog{client: c}
}

func (cc *CachedCatalog) SearchMovies(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	hits, _, err := cc.client.CachedSearchMovies(ctx, query, opts)
	return hits, err
}

func (cc *CachedCatalog) SearchTV(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	hits, _, err := cc.client.CachedSearchTV(ctx, query, opts)
	return hits, err
}

func (cc *CachedCatalog) SearchMulti(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	hits, _, err := cc.client.CachedSearchMulti(ctx, query, opts)
	return hits, err
}

func (cc *CachedCatalog) ExternalID(ctx context.Context, candidate Candidate, language string) string {
	id, _ := cc.client.CachedExternalIDFor(ctx, candidate, language)
	return id
}

func (cc *CachedCatalog) MovieExternalID(ctx context.Context, movieID int) string {
	cacheKey := fmt.Sprintf("extid_movie_endpoint_%d", movieID)

	result, _, err := cache.GetOrFetch("tmdb_cache", cacheKey, func() (*CachedExternalID, error) {
		return &CachedExternalID{IMDbID: cc.client.MovieExternalID(ctx, movieID)}, nil
	})
	if err != nil {
		return ""
	}
	return result.IMDbID
}

// CachedExternalIDFor is ExternalID behind the shared TTL cache.
func (c *Client) CachedExternalIDFor(ctx context.Context, candidate Candidate, language string) (string, bool) {
	cacheKey := fmt.Sprintf("extid_%s_%d_%s", candidate.MediaType, candidate.ID, strings.ToLower(language))

	result, fromCache, err := cache.GetOrFetch("tmdb_cache", cacheKey, func() (*CachedExternalID, error) {
		return &CachedExternalID{IMDbID: c.ExternalID(ctx, candidate, language)}, nil
	})
	if err != nil {
		return "", false
	}
	return result.IMDbID, fromCache
}
