// Package omdb fetches public rating data from the OMDB API.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lepinkainen/reelscan/internal/errors"
	"github.com/lepinkainen/reelscan/internal/ratelimit"
)

const (
	defaultBaseURL = "https://www.omdbapi.com"
	// OMDB free tier allows 1000 requests/day; 1 req/sec keeps us well
	// under the burst radar.
	defaultRatePerSecond = 1

	// ProviderTag identifies the rating source in stored records.
	ProviderTag = "omdb"
)

// naSentinel is OMDB's marker for absent values.
const naSentinel = "N/A"

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is an OMDB API client.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a new OMDB API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: ratelimit.New("OMDB", defaultRatePerSecond),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the OMDB API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		if limiter != nil {
			client.rateLimiter = limiter
		}
	}
}

// omdbResponse is the wire shape of a lookup-by-id response.
type omdbResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	ImdbVotes  string `json:"imdbVotes"`
	ImdbID     string `json:"imdbID"`
	Type       string `json:"Type"`
	Response   string `json:"Response"` // "True" or "False"
	Error      string `json:"Error"`    // Present if Response is "False"
}

// Lookup fetches the rating record for an IMDb id. A provider-level
// "not found" is (nil, nil), not an error; only transport failures and
// unexpected provider errors are returned as errors.
func (c *Client) Lookup(ctx context.Context, imdbID string) (*RatingRecord, error) {
	if imdbID == "" {
		return nil, fmt.Errorf("IMDb ID is required")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait failed: %w", err)
	}

	slog.Debug("Fetching OMDB rating", "imdb_id", imdbID)

	endpoint := fmt.Sprintf("%s/?i=%s&apikey=%s", c.baseURL, url.QueryEscape(imdbID), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch data: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, readErr := io.ReadAll(io.LimitReader(resp.Body, 512))
		if readErr == nil {
			var errorResp struct {
				Response string `json:"Response"`
				Error    string `json:"Error"`
			}
			if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error == "Request limit reached!" {
				return nil, errors.NewRateLimitError("OMDB API request limit reached")
			}
		}
		return nil, fmt.Errorf("OMDB API returned non-200 status code: %d for ID: %s", resp.StatusCode, imdbID)
	}

	var omdbResp omdbResponse
	if err := json.NewDecoder(resp.Body).Decode(&omdbResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if omdbResp.Response == "False" {
		if strings.Contains(strings.ToLower(omdbResp.Error), "not found") ||
			strings.Contains(omdbResp.Error, "Incorrect IMDb ID") {
			slog.Debug("Title not found in OMDB", "imdb_id", imdbID)
			return nil, nil
		}
		return nil, fmt.Errorf("OMDB API error: %s", omdbResp.Error)
	}

	return &RatingRecord{
		IMDbID:   imdbID,
		Rating:   parseRating(omdbResp.ImdbRating),
		Votes:    parseVotes(omdbResp.ImdbVotes),
		Provider: ProviderTag,
	}, nil
}

// parseRating turns OMDB's rating string into a float pointer. The "N/A"
// sentinel and non-finite parses yield nil, never NaN or the raw string.
func parseRating(value string) *float64 {
	if value == "" || value == naSentinel {
		return nil
	}
	rating, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
		slog.Warn("Unparseable IMDb rating", "value", value)
		return nil
	}
	return &rating
}

// parseVotes keeps the vote count as the provider's opaque string
// (e.g. "1,234,567"), nil for the "N/A" sentinel.
func parseVotes(value string) *string {
	if value == "" || value == naSentinel {
		return nil
	}
	return &value
}
