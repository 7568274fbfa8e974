package match

import (
	"github.com/lepinkainen/reelscan/internal/tmdb"
)

// SelectBest scores every candidate against the normalized query and
// returns the highest scorer with its score. Ties go to the first-seen
// candidate, since provider-side ordering already reflects relevance.
// Returns ok false for an empty list or when no candidate exceeds the
// acceptance threshold.
func SelectBest(candidates []tmdb.Candidate, normalizedQuery string) (tmdb.Candidate, float64, bool) {
	var best tmdb.Candidate
	bestScore := 0.0
	found := false

	for _, candidate := range candidates {
		score := Score(candidate, normalizedQuery)
		if !found || score > bestScore {
			best = candidate
			bestScore = score
			found = true
		}
	}

	if !found || bestScore <= AcceptThreshold {
		return tmdb.Candidate{}, 0, false
	}
	return best, bestScore, true
}
