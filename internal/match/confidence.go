package match

// Confidence is the coarse trust bucket derived from a match score.
type Confidence string

// Confidence tiers.
const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Tier boundaries, inclusive at the lower bound of each tier.
const (
	highThreshold   = 80.0
	mediumThreshold = 40.0
)

// ConfidenceForScore maps a score to its confidence tier. Pure step
// function: score >= 80 is high, 40 <= score < 80 is medium, below 40 is
// low. Whether a score is accepted at all is a separate concern
// (AcceptThreshold).
func ConfidenceForScore(score float64) Confidence {
	switch {
	case score >= highThreshold:
		return ConfidenceHigh
	case score >= mediumThreshold:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}
