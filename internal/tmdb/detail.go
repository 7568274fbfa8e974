package tmdb

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
)

// externalIDsResponse covers both the append_to_response=external_ids
// detail shape (nested) and the bare /external_ids endpoint (top-level).
type externalIDsResponse struct {
	IMDbID      string `json:"imdb_id"`
	ExternalIDs struct {
		IMDbID string `json:"imdb_id"`
	} `json:"external_ids"`
}

func (r externalIDsResponse) imdbID() string {
	if r.IMDbID != "" {
		return r.IMDbID
	}
	return r.ExternalIDs.IMDbID
}

// ExternalID fetches the detail record for a candidate and returns its
// IMDb cross-reference id. Detail lookup is best-effort: transport errors
// and missing ids both yield an empty string, never an error.
func (c *Client) ExternalID(ctx context.Context, candidate Candidate, language string) string {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("append_to_response", "external_ids")
	if language != "" {
		params.Set("language", language)
	}

	var endpoint string
	switch candidate.MediaType {
	case "movie":
		endpoint = fmt.Sprintf("%s/movie/%d?%s", c.baseURL, candidate.ID, params.Encode())
	case "tv":
		endpoint = fmt.Sprintf("%s/tv/%d?%s", c.baseURL, candidate.ID, params.Encode())
	default:
		return ""
	}

	var response externalIDsResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		slog.Debug("TMDB detail lookup failed", "tmdb_id", candidate.ID, "type", candidate.MediaType, "error", err)
		return ""
	}
	return response.imdbID()
}

// MovieExternalID queries the dedicated /movie/{id}/external_ids endpoint.
// Used as a secondary fallback when the detail record carried no IMDb id.
func (c *Client) MovieExternalID(ctx context.Context, movieID int) string {
	endpoint := fmt.Sprintf("%s/movie/%d/external_ids?api_key=%s", c.baseURL, movieID, url.QueryEscape(c.apiKey))

	var response externalIDsResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		slog.Debug("TMDB external_ids lookup failed", "tmdb_id", movieID, "error", err)
		return ""
	}
	return response.imdbID()
}
