// Package enrichment joins the resolution cascade with the rating
// provider into the cover-to-rating pipeline.
package enrichment

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lepinkainen/reelscan/internal/omdb"
	"github.com/lepinkainen/reelscan/internal/resolve"
)

const (
	// resolveGroupSize bounds concurrent resolutions; each resolution can
	// fan out into several catalog searches, so 3 keeps the request rate
	// civil.
	resolveGroupSize  = 3
	resolveGroupDelay = 500 * time.Millisecond
)

// TitleResolver resolves one free-text title against the catalog.
type TitleResolver interface {
	Resolve(ctx context.Context, title string, opts resolve.Options) (*resolve.ResolvedMatch, error)
}

// RatingSource fetches public ratings by external id.
type RatingSource interface {
	CachedLookup(ctx context.Context, imdbID string) (*omdb.RatingRecord, error)
	LookupBatch(ctx context.Context, imdbIDs []string) map[string]*omdb.RatingRecord
}

// Service is the enrichment pipeline: resolve, then rate.
type Service struct {
	resolver TitleResolver
	ratings  RatingSource
}

// NewService creates an enrichment Service. ratings may be nil, in which
// case matches are returned without rating data.
func NewService(resolver TitleResolver, ratings RatingSource) *Service {
	return &Service{resolver: resolver, ratings: ratings}
}

// ResolveTitle runs the full pipeline for a single title. A title that
// resolves to nothing yields a result with a nil Match; only transport
// failures set Err.
func (s *Service) ResolveTitle(ctx context.Context, title string, opts resolve.Options) *EnrichedResult {
	result := &EnrichedResult{SourceTitle: title}

	matched, err := s.resolver.Resolve(ctx, title, opts)
	if err != nil {
		result.Err = err.Error()
		return result
	}
	if matched == nil {
		return result
	}
	result.Match = matched

	s.attachRating(ctx, result)
	return result
}

// ResolveTitles runs the pipeline over many titles with bounded
// concurrency. One failing title never aborts the batch; its result
// carries the error instead. Output order is completion order, keyed by
// the echoed source title.
func (s *Service) ResolveTitles(ctx context.Context, titles []string, opts resolve.Options) []*EnrichedResult {
	results := make([]*EnrichedResult, 0, len(titles))
	var mu sync.Mutex

	for start := 0; start < len(titles); start += resolveGroupSize {
		if ctx.Err() != nil {
			break
		}

		end := start + resolveGroupSize
		if end > len(titles) {
			end = len(titles)
		}

		var wg sync.WaitGroup
		for _, title := range titles[start:end] {
			wg.Add(1)
			go func(title string) {
				defer wg.Done()

				result := &EnrichedResult{SourceTitle: title}
				matched, err := s.resolver.Resolve(ctx, title, opts)
				switch {
				case err != nil:
					slog.Warn("Resolution failed", "title", title, "error", err)
					result.Err = err.Error()
				case matched != nil:
					result.Match = matched
				}

				mu.Lock()
				results = append(results, result)
				mu.Unlock()
			}(title)
		}
		wg.Wait()

		if end < len(titles) {
			select {
			case <-ctx.Done():
				return results
			case <-time.After(resolveGroupDelay):
			}
		}
	}

	s.attachRatings(ctx, results)
	return results
}

// EnrichMatch builds a result around an externally chosen match, such as
// one picked interactively, and attaches its rating.
func (s *Service) EnrichMatch(ctx context.Context, sourceTitle string, matched *resolve.ResolvedMatch) *EnrichedResult {
	result := &EnrichedResult{SourceTitle: sourceTitle, Match: matched}
	s.attachRating(ctx, result)
	return result
}

func (s *Service) attachRating(ctx context.Context, result *EnrichedResult) {
	if s.ratings == nil || result.Match == nil || result.Match.IMDbID == "" {
		return
	}

	record, err := s.ratings.CachedLookup(ctx, result.Match.IMDbID)
	if err != nil {
		slog.Warn("Rating lookup failed", "imdb_id", result.Match.IMDbID, "error", err)
		return
	}
	if record == nil {
		return
	}
	result.Rating = record.Rating
	result.Votes = record.Votes
	result.Provider = record.Provider
}

func (s *Service) attachRatings(ctx context.Context, results []*EnrichedResult) {
	if s.ratings == nil {
		return
	}

	seen := make(map[string]bool)
	ids := make([]string, 0, len(results))
	for _, result := range results {
		if result.Match == nil || result.Match.IMDbID == "" {
			continue
		}
		if !seen[result.Match.IMDbID] {
			seen[result.Match.IMDbID] = true
			ids = append(ids, result.Match.IMDbID)
		}
	}
	if len(ids) == 0 {
		return
	}

	records := s.ratings.LookupBatch(ctx, ids)
	for _, result := range results {
		if result.Match == nil {
			continue
		}
		record, ok := records[result.Match.IMDbID]
		if !ok || record == nil {
			continue
		}
		result.Rating = record.Rating
		result.Votes = record.Votes
		result.Provider = record.Provider
	}
}
