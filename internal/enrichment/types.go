package enrichment

import (
	"github.com/lepinkainen/reelscan/internal/resolve"
)

// EnrichedResult is the final pipeline output for one source title: the
// resolved catalog match (when any) joined with its public rating.
type EnrichedResult struct {
	// SourceTitle echoes the input title so batch consumers can correlate
	// results; batch output order is completion order, not input order.
	SourceTitle string `json:"source_title"`

	Match *resolve.ResolvedMatch `json:"match,omitempty"`

	// Rating and Votes come from the rating provider. Both stay nil when
	// the match has no external id, when the provider does not know the
	// title, or when the provider reports its "N/A" sentinel.
	Rating   *float64 `json:"imdb_rating,omitempty"`
	Votes    *string  `json:"imdb_votes,omitempty"`
	Provider string   `json:"rating_provider,omitempty"`

	// Err records a per-title transport failure; the rest of a batch is
	// unaffected.
	Err string `json:"error,omitempty"`
}

// Resolved reports whether the title matched a catalog entry.
func (r *EnrichedResult) Resolved() bool {
	return r.Match != nil
}
