package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// SearchOptions carries the per-search knobs shared by all search types.
type SearchOptions struct {
	// Language is the BCP 47 language tag sent to TMDB (e.g. "fi-FI").
	Language string
	// Year is passed as a release year hint when > 0.
	Year int
}

func (c *Client) searchParams(query string, opts SearchOptions) url.Values {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	params.Set("include_adult", "false")
	params.Set("page", "1")
	if opts.Language != "" {
		params.Set("language", opts.Language)
	}
	return params
}

// SearchMovies performs a movie-specific search on TMDB. Only the first
// page of results is fetched: precision over recall.
func (c *Client) SearchMovies(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	params := c.searchParams(query, opts)
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}

	endpoint := fmt.Sprintf("%s/search/movie?%s", c.baseURL, params.Encode())

	var response struct {
		Results []rawMovieHit `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(response.Results))
	for _, hit := range response.Results {
		candidates = append(candidates, hit.toCandidate())
	}
	return candidates, nil
}

// SearchTV performs a TV-show-specific search on TMDB.
func (c *Client) SearchTV(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	params := c.searchParams(query, opts)
	if opts.Year > 0 {
		params.Set("first_air_date_year", strconv.Itoa(opts.Year))
	}

	endpoint := fmt.Sprintf("%s/search/tv?%s", c.baseURL, params.Encode())

	var response struct {
		Results []rawTVHit `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(response.Results))
	for _, hit := range response.Results {
		candidates = append(candidates, hit.toCandidate())
	}
	return candidates, nil
}

// SearchMulti performs a mixed-kind search and keeps only movie and tv
// rows; people and other entity kinds the provider returns are dropped.
func (c *Client) SearchMulti(ctx context.Context, query string, opts SearchOptions) ([]Candidate, error) {
	params := c.searchParams(query, opts)

	endpoint := fmt.Sprintf("%s/search/multi?%s", c.baseURL, params.Encode())

	var response struct {
		Results []rawMultiHit `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(response.Results))
	for _, hit := range response.Results {
		if hit.MediaType != "movie" && hit.MediaType != "tv" {
			continue
		}
		candidates = append(candidates, hit.toCandidate())
	}
	return candidates, nil
}
