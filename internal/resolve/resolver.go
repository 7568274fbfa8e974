// Package resolve turns noisy free-text titles into catalog matches by
// cascading over language preferences, search types, and query variants.
package resolve

import (
	"context"
	"log/slog"

	"github.com/lepinkainen/reelscan/internal/match"
	"github.com/lepinkainen/reelscan/internal/normalize"
	"github.com/lepinkainen/reelscan/internal/tmdb"
)

// Catalog is the subset of the TMDB client the cascade drives.
type Catalog interface {
	SearchMovies(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.Candidate, error)
	SearchTV(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.Candidate, error)
	SearchMulti(ctx context.Context, query string, opts tmdb.SearchOptions) ([]tmdb.Candidate, error)
	ExternalID(ctx context.Context, candidate tmdb.Candidate, language string) string
	MovieExternalID(ctx context.Context, movieID int) string
}

type searchKind string

const (
	kindMovie searchKind = "movie"
	kindTV    searchKind = "tv"
	kindMulti searchKind = "multi"
)

// searchOrder: movie first because scanned covers skew toward movies, then
// tv, then the mixed search as the widest net.
var searchOrder = []searchKind{kindMovie, kindTV, kindMulti}

// Resolver runs the resolution cascade against a catalog.
type Resolver struct {
	catalog   Catalog
	languages []string
}

// Options carries per-resolution overrides.
type Options struct {
	// Language overrides the primary search language for this resolution.
	Language string
	// Year is an explicit release year; when zero, a year embedded in the
	// title is extracted and used instead.
	Year int
}

// New creates a Resolver. languages is the preference order: primary
// locale first, broad fallback locale second.
func New(catalog Catalog, languages []string) *Resolver {
	if len(languages) == 0 {
		languages = []string{"en-US"}
	}
	return &Resolver{catalog: catalog, languages: languages}
}

// attempt is one (language, search type, query variant) combination of
// the cascade. Combinations are materialized up front as an ordered list
// so the fallback ordering stays explicit and testable.
type attempt struct {
	language string
	kind     searchKind
	query    string
}

func (r *Resolver) attempts(title string, languageOverride string) []attempt {
	languages := r.languages
	if languageOverride != "" {
		languages = []string{languageOverride}
		for _, lang := range r.languages {
			if lang != languageOverride {
				languages = append(languages, lang)
			}
		}
	}

	variants := normalize.QueryVariations(title)
	attempts := make([]attempt, 0, len(languages)*len(searchOrder)*len(variants))
	for _, language := range languages {
		for _, kind := range searchOrder {
			for _, variant := range variants {
				attempts = append(attempts, attempt{language: language, kind: kind, query: variant})
			}
		}
	}
	return attempts
}

// Resolve maps one free-text title to a catalog entry with an IMDb id.
// Returns (nil, nil) when every language, search type, and query variant
// combination has been exhausted without a usable result; the caller must
// treat that as "no match", not an error.
func (r *Resolver) Resolve(ctx context.Context, rawTitle string, opts Options) (*ResolvedMatch, error) {
	title, year, hasYear := normalize.ExtractYear(rawTitle)
	if opts.Year > 0 {
		year, hasYear = opts.Year, true
	}
	if !hasYear {
		year = 0
	}

	normalizedTitle := normalize.Normalize(title)
	if normalizedTitle == "" {
		return nil, nil
	}

	for _, a := range r.attempts(title, opts.Language) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		candidates, err := r.search(ctx, a, year)
		if err != nil {
			// A failed search means this combination produced nothing;
			// the cascade moves on rather than aborting the resolution.
			slog.Debug("Search attempt failed",
				"title", rawTitle, "query", a.query, "kind", string(a.kind), "language", a.language, "error", err)
			continue
		}

		best, score, ok := match.SelectBest(candidates, normalizedTitle)
		if !ok {
			continue
		}

		imdbID := r.externalID(ctx, best, a.language)
		if imdbID == "" {
			// A catalog hit without a rating-provider id is not usable;
			// keep looping.
			slog.Debug("Candidate has no external id, continuing cascade",
				"title", best.DisplayTitle(), "tmdb_id", best.ID)
			continue
		}

		resolved := &ResolvedMatch{
			Title:      best.DisplayTitle(),
			TMDBID:     best.ID,
			MediaType:  best.MediaType,
			IMDbID:     imdbID,
			Score:      score,
			Confidence: match.ConfidenceForScore(score),
			Year:       best.YearInt(),
			Candidate:  best,
		}
		slog.Debug("Title resolved",
			"source", rawTitle, "title", resolved.Title, "imdb_id", imdbID,
			"score", score, "confidence", string(resolved.Confidence))
		return resolved, nil
	}

	slog.Debug("Cascade exhausted without a match", "title", rawTitle)
	return nil, nil
}

// Candidates returns the mixed search results for a title so a caller
// can offer a manual pick when the cascade's own choice is uncertain.
func (r *Resolver) Candidates(ctx context.Context, rawTitle string, opts Options) ([]tmdb.Candidate, error) {
	title, year, hasYear := normalize.ExtractYear(rawTitle)
	if opts.Year > 0 {
		year, hasYear = opts.Year, true
	}
	if !hasYear {
		year = 0
	}

	query := normalize.Normalize(title)
	if query == "" {
		return nil, nil
	}

	return r.catalog.SearchMulti(ctx, query, tmdb.SearchOptions{Language: r.primaryLanguage(opts), Year: year})
}

// Confirm builds a match around a candidate chosen outside the cascade,
// typically from the interactive picker. Confidence is high because a
// person vouched for the pairing.
func (r *Resolver) Confirm(ctx context.Context, rawTitle string, candidate tmdb.Candidate, opts Options) *ResolvedMatch {
	title, _, _ := normalize.ExtractYear(rawTitle)
	score := match.Score(candidate, normalize.Normalize(title))

	return &ResolvedMatch{
		Title:      candidate.DisplayTitle(),
		TMDBID:     candidate.ID,
		MediaType:  candidate.MediaType,
		IMDbID:     r.externalID(ctx, candidate, r.primaryLanguage(opts)),
		Score:      score,
		Confidence: match.ConfidenceHigh,
		Year:       candidate.YearInt(),
		Candidate:  candidate,
	}
}

func (r *Resolver) primaryLanguage(opts Options) string {
	if opts.Language != "" {
		return opts.Language
	}
	return r.languages[0]
}

func (r *Resolver) search(ctx context.Context, a attempt, year int) ([]tmdb.Candidate, error) {
	opts := tmdb.SearchOptions{Language: a.language, Year: year}
	switch a.kind {
	case kindTV:
		return r.catalog.SearchTV(ctx, a.query, opts)
	case kindMulti:
		return r.catalog.SearchMulti(ctx, a.query, opts)
	default:
		return r.catalog.SearchMovies(ctx, a.query, opts)
	}
}

// externalID runs the id fallback chain: detail record in the search
// language, then the direct movie external_ids endpoint, then the detail
// record in the fallback language when the search ran in the primary one.
func (r *Resolver) externalID(ctx context.Context, candidate tmdb.Candidate, language string) string {
	if id := r.catalog.ExternalID(ctx, candidate, language); id != "" {
		return id
	}
	if candidate.MediaType == "movie" {
		if id := r.catalog.MovieExternalID(ctx, candidate.ID); id != "" {
			return id
		}
	}
	if len(r.languages) > 1 && language == r.languages[0] {
		if id := r.catalog.ExternalID(ctx, candidate, r.languages[len(r.languages)-1]); id != "" {
			return id
		}
	}
	return ""
}
