package omdb

import (
	"context"
	"time"

	"github.com/lepinkainen/reelscan/internal/cache"
)

// RatingCacheTTL is the cache TTL for OMDB responses (24 hours). New
// releases pick up ratings quickly, so daily re-checks are worth it.
const RatingCacheTTL = 24 * time.Hour

// NotFoundCacheTTL is the cache TTL for "not found" responses (7 days).
// This prevents repeated API calls for titles not yet in OMDB.
const NotFoundCacheTTL = 7 * 24 * time.Hour

// CachedRating wraps a lookup result for caching; NotFound entries are
// negative-cached with the longer TTL.
type CachedRating struct {
	Record   *RatingRecord `json:"record"`
	NotFound bool          `json:"not_found"`
}

// CachedLookup is Lookup behind the shared TTL cache with negative
// caching for ids OMDB does not know.
func (c *Client) CachedLookup(ctx context.Context, imdbID string) (*RatingRecord, error) {
	cached, _, err := cache.GetOrFetchWithTTL("omdb_cache", imdbID,
		func() (*CachedRating, error) {
			record, fetchErr := c.Lookup(ctx, imdbID)
			if fetchErr != nil {
				// Transport and rate limit errors are not cached.
				return nil, fetchErr
			}
			return &CachedRating{Record: record, NotFound: record == nil}, nil
		},
		func(r *CachedRating) time.Duration {
			if r.NotFound {
				return NotFoundCacheTTL
			}
			return RatingCacheTTL
		})
	if err != nil {
		return nil, err
	}
	if cached.NotFound {
		return nil, nil
	}
	return cached.Record, nil
}
