package omdb

import (
	"context"
	"log/slog"
	"sync"
	"time"

	reelerrors "github.com/lepinkainen/reelscan/internal/errors"
)

const (
	// batchGroupSize bounds the number of in-flight OMDB lookups; the
	// upstream free tier is tight enough that 5 concurrent is plenty.
	batchGroupSize  = 5
	batchGroupDelay = 250 * time.Millisecond
)

// LookupBatch fetches rating records for many IMDb ids in bounded
// concurrent groups. Missing and failed lookups are simply absent from
// the result map; one bad id never aborts the batch. When the provider
// reports its daily request limit, remaining lookups are skipped.
func (c *Client) LookupBatch(ctx context.Context, imdbIDs []string) map[string]*RatingRecord {
	results := make(map[string]*RatingRecord, len(imdbIDs))
	var mu sync.Mutex

	for start := 0; start < len(imdbIDs); start += batchGroupSize {
		if !RequestsAllowed() {
			slog.Debug("Skipping remaining OMDB lookups", "remaining", len(imdbIDs)-start)
			break
		}
		if ctx.Err() != nil {
			break
		}

		end := start + batchGroupSize
		if end > len(imdbIDs) {
			end = len(imdbIDs)
		}

		var wg sync.WaitGroup
		for _, imdbID := range imdbIDs[start:end] {
			wg.Add(1)
			go func(id string) {
				defer wg.Done()
				record, err := c.CachedLookup(ctx, id)
				if err != nil {
					if reelerrors.IsRateLimitError(err) {
						MarkRateLimitReached()
					} else {
						slog.Warn("OMDB lookup failed", "imdb_id", id, "error", err)
					}
					return
				}
				if record == nil {
					return
				}
				mu.Lock()
				results[id] = record
				mu.Unlock()
			}(imdbID)
		}
		wg.Wait()

		if end < len(imdbIDs) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(batchGroupDelay):
			}
		}
	}

	return results
}
