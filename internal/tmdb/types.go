package tmdb

import "strconv"

// Candidate is the unified representation of one TMDB search hit,
// regardless of which search endpoint produced it. Raw response shapes
// never escape this package.
type Candidate struct {
	ID            int
	MediaType     string // "movie" or "tv"
	Title         string
	OriginalTitle string
	PosterPath    string
	ReleaseDate   string // YYYY-MM-DD for movies
	FirstAirDate  string // YYYY-MM-DD for TV shows
	VoteAverage   float64
	VoteCount     int
	Popularity    float64
	OriginalLang  string
	Overview      string
}

// DisplayTitle returns the localized title, falling back to the original
// language title when the provider left the primary field empty.
func (c Candidate) DisplayTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return c.OriginalTitle
}

// Date returns the release date for movies or first air date for TV shows.
func (c Candidate) Date() string {
	if c.MediaType == "tv" {
		return c.FirstAirDate
	}
	return c.ReleaseDate
}

// YearInt returns the release year as int, or 0 when unknown.
func (c Candidate) YearInt() int {
	date := c.Date()
	if len(date) >= 4 {
		if year, err := strconv.Atoi(date[:4]); err == nil {
			return year
		}
	}
	return 0
}

// rawMovieHit is one row of a /search/movie response.
type rawMovieHit struct {
	ID            int     `json:"id"`
	Title         string  `json:"title"`
	OriginalTitle string  `json:"original_title"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	OriginalLang  string  `json:"original_language"`
	Overview      string  `json:"overview"`
}

func (r rawMovieHit) toCandidate() Candidate {
	return Candidate{
		ID:            r.ID,
		MediaType:     "movie",
		Title:         r.Title,
		OriginalTitle: r.OriginalTitle,
		PosterPath:    r.PosterPath,
		ReleaseDate:   r.ReleaseDate,
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
		Popularity:    r.Popularity,
		OriginalLang:  r.OriginalLang,
		Overview:      r.Overview,
	}
}

// rawTVHit is one row of a /search/tv response.
type rawTVHit struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	OriginalName string  `json:"original_name"`
	PosterPath   string  `json:"poster_path"`
	FirstAirDate string  `json:"first_air_date"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	Popularity   float64 `json:"popularity"`
	OriginalLang string  `json:"original_language"`
	Overview     string  `json:"overview"`
}

func (r rawTVHit) toCandidate() Candidate {
	return Candidate{
		ID:            r.ID,
		MediaType:     "tv",
		Title:         r.Name,
		OriginalTitle: r.OriginalName,
		PosterPath:    r.PosterPath,
		FirstAirDate:  r.FirstAirDate,
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
		Popularity:    r.Popularity,
		OriginalLang:  r.OriginalLang,
		Overview:      r.Overview,
	}
}

// rawMultiHit is one row of a /search/multi response; media_type tags the
// shape. Rows that are neither movie nor tv (people, collections) are
// discarded during mapping.
type rawMultiHit struct {
	ID            int     `json:"id"`
	MediaType     string  `json:"media_type"`
	Title         string  `json:"title"`
	Name          string  `json:"name"`
	OriginalTitle string  `json:"original_title"`
	OriginalName  string  `json:"original_name"`
	PosterPath    string  `json:"poster_path"`
	ReleaseDate   string  `json:"release_date"`
	FirstAirDate  string  `json:"first_air_date"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	OriginalLang  string  `json:"original_language"`
	Overview      string  `json:"overview"`
}

func (r rawMultiHit) toCandidate() Candidate {
	title, original := r.Title, r.OriginalTitle
	if r.MediaType == "tv" {
		title, original = r.Name, r.OriginalName
	}
	return Candidate{
		ID:            r.ID,
		MediaType:     r.MediaType,
		Title:         title,
		OriginalTitle: original,
		PosterPath:    r.PosterPath,
		ReleaseDate:   r.ReleaseDate,
		FirstAirDate:  r.FirstAirDate,
		VoteAverage:   r.VoteAverage,
		VoteCount:     r.VoteCount,
		Popularity:    r.Popularity,
		OriginalLang:  r.OriginalLang,
		Overview:      r.Overview,
	}
}
