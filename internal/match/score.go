// Package match scores catalog candidates against a normalized query title.
package match

import (
	"math"
	"strings"
	"time"

	"github.com/lepinkainen/reelscan/internal/normalize"
	"github.com/lepinkainen/reelscan/internal/tmdb"
)

const (
	// AcceptThreshold is the minimum score a candidate must exceed to be
	// considered a match at all. Anything at or below this is "no match",
	// not a low-confidence match.
	AcceptThreshold = 20.0

	exactScore     = 100.0
	prefixScore    = 60.0
	substringScore = 40.0

	overlapBonusMax   = 30.0
	extraTokenPenalty = 4.0
	extraPenaltyMax   = 20.0

	popularityCap    = 25.0
	popularityFactor = 6.0
	voteCap          = 35.0
	voteFactor       = 12.0

	recentBonus    = 15.0
	recentMaxAge   = 5
	staleMinAge    = 20
	stalePenalty   = 10.0
	minTokenLength = 2
	fuzzyMinLength = 4
)

// Score computes the relevance of a candidate for a normalized query
// title. Deterministic apart from the recency term, which is measured
// against the current date.
func Score(candidate tmdb.Candidate, normalizedQuery string) float64 {
	return scoreAt(candidate, normalizedQuery, time.Now())
}

func scoreAt(candidate tmdb.Candidate, normalizedQuery string, now time.Time) float64 {
	// Score against both the localized and the original-language title,
	// keeping the better text match.
	text := textScore(candidate.DisplayTitle(), normalizedQuery)
	if candidate.OriginalTitle != "" && candidate.OriginalTitle != candidate.DisplayTitle() {
		if alt := textScore(candidate.OriginalTitle, normalizedQuery); alt > text {
			text = alt
		}
	}

	total := text
	total += math.Min(popularityCap, math.Log10(candidate.Popularity+1)*popularityFactor)
	total += math.Min(voteCap, math.Log10(float64(candidate.VoteCount)+1)*voteFactor)
	total += recencyAdjustment(candidate, now)
	return total
}

// textScore combines the tiered equality/prefix/substring score with the
// token-overlap refinement. Never negative: an aggressively over-broad
// candidate bottoms out at zero rather than dragging down the popularity
// and vote terms.
func textScore(candidateTitle, normalizedQuery string) float64 {
	title := normalize.NormalizeASCII(candidateTitle)
	query := normalize.NormalizeASCII(normalizedQuery)
	if title == "" || query == "" {
		return 0
	}

	var score float64
	switch {
	case title == query:
		score = exactScore
	case strings.HasPrefix(title, query) || strings.HasPrefix(query, title):
		score = prefixScore
	case strings.Contains(title, query) || strings.Contains(query, title):
		score = substringScore
	}

	queryTokens := significantTokens(query)
	titleTokens := significantTokens(title)
	if len(queryTokens) > 0 {
		matched := 0
		titleMatched := make([]bool, len(titleTokens))
		for _, qt := range queryTokens {
			for i, tt := range titleTokens {
				if titleMatched[i] {
					continue
				}
				if tokensOverlap(qt, tt) {
					matched++
					titleMatched[i] = true
					break
				}
			}
		}
		score += overlapBonusMax * float64(matched) / float64(len(queryTokens))

		extra := 0
		for _, used := range titleMatched {
			if !used {
				extra++
			}
		}
		score -= math.Min(extraPenaltyMax, float64(extra)*extraTokenPenalty)
	}

	return math.Max(0, score)
}

// significantTokens splits a normalized string into word tokens longer
// than two characters.
func significantTokens(s string) []string {
	fields := strings.Fields(s)
	tokens := fields[:0]
	for _, f := range fields {
		if len(f) > minTokenLength {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// tokensOverlap reports whether two tokens match exactly, or fuzzily when
// both exceed the fuzzy length and one contains the other.
func tokensOverlap(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) > fuzzyMinLength && len(b) > fuzzyMinLength {
		return strings.Contains(a, b) || strings.Contains(b, a)
	}
	return false
}

// recencyAdjustment biases ambiguous titles (sequels, remakes) toward the
// newer entry: a cover being scanned is usually a recent release.
func recencyAdjustment(candidate tmdb.Candidate, now time.Time) float64 {
	released, err := time.Parse("2006-01-02", candidate.Date())
	if err != nil {
		return 0
	}
	age := now.Year() - released.Year()
	switch {
	case age <= recentMaxAge:
		return recentBonus
	case age > staleMinAge:
		return -stalePenalty
	default:
		return 0
	}
}
