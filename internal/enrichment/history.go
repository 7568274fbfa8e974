package enrichment

import (
	"time"

	"github.com/lepinkainen/reelscan/internal/cmdutil"
)

const scanHistorySchema = `CREATE TABLE IF NOT EXISTS scan_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source_title TEXT,
		resolved INTEGER,
		title TEXT,
		tmdb_id INTEGER,
		media_type TEXT,
		imdb_id TEXT,
		score REAL,
		confidence TEXT,
		year INTEGER,
		imdb_rating REAL,
		imdb_votes TEXT,
		rating_provider TEXT,
		error TEXT,
		scanned_at TEXT
	)`

func resultToMap(r EnrichedResult) map[string]any {
	row := map[string]any{
		"source_title":    r.SourceTitle,
		"resolved":        false,
		"rating_provider": r.Provider,
		"error":           r.Err,
		"scanned_at":      time.Now().UTC().Format(time.RFC3339),
	}

	if r.Match != nil {
		row["resolved"] = true
		row["title"] = r.Match.Title
		row["tmdb_id"] = r.Match.TMDBID
		row["media_type"] = r.Match.MediaType
		row["imdb_id"] = r.Match.IMDbID
		row["score"] = r.Match.Score
		row["confidence"] = string(r.Match.Confidence)
		row["year"] = r.Match.Year
	}

	if r.Rating != nil {
		row["imdb_rating"] = *r.Rating
	}
	if r.Votes != nil {
		row["imdb_votes"] = *r.Votes
	}

	return row
}

// WriteScanHistory records resolution outcomes in the datastore when the
// datasette integration is enabled. A no-op otherwise.
func WriteScanHistory(results []EnrichedResult) error {
	return cmdutil.WriteToDatastore(results, scanHistorySchema, "scan_history", "scan history", resultToMap)
}
