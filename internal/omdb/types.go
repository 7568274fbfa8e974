package omdb

// RatingRecord holds a public rating for one external id. Rating and
// Votes are nil when the provider has no data for the field; a record
// with both nil still means the id exists at the provider.
type RatingRecord struct {
	IMDbID   string   `json:"imdb_id"`
	Rating   *float64 `json:"rating,omitempty"`
	Votes    *string  `json:"votes,omitempty"`
	Provider string   `json:"provider"`
}
