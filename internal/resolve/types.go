package resolve

import (
	"github.com/lepinkainen/reelscan/internal/match"
	"github.com/lepinkainen/reelscan/internal/tmdb"
)

// ResolvedMatch is the outcome of one successful cascade run: the chosen
// candidate plus its canonical title, rating-provider id, and confidence
// tier. Immutable once returned.
type ResolvedMatch struct {
	Title      string           `json:"title"`
	TMDBID     int              `json:"tmdb_id"`
	MediaType  string           `json:"media_type"`
	IMDbID     string           `json:"imdb_id"`
	Score      float64          `json:"score"`
	Confidence match.Confidence `json:"confidence"`
	// Year is the release year from the candidate's date, 0 when unknown.
	Year int `json:"year,omitempty"`
	// Candidate retains the underlying search hit for callers that need
	// poster paths or vote data.
	Candidate tmdb.Candidate `json:"-"`
}
