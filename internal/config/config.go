package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// OverwriteFiles controls whether existing output files should be overwritten
	OverwriteFiles bool
	// TMDBAPIKey is the API key for TheMovieDB
	TMDBAPIKey string
	// OMDBAPIKey is the API key for OMDB (Open Movie Database)
	OMDBAPIKey string
	// Language is the primary search language sent to TMDB (e.g. "fi-FI")
	Language string
	// FallbackLanguage is retried when the primary language yields nothing
	FallbackLanguage string
)

// InitConfig initializes the global configuration
func InitConfig() {
	// Set default values
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)
	viper.SetDefault("tmdb.language", "en-US")
	viper.SetDefault("tmdb.fallback_language", "en-US")

	// Get values from viper
	OverwriteFiles = viper.GetBool("OverwriteFiles")
	TMDBAPIKey = viper.GetString("TMDBAPIKey")
	OMDBAPIKey = viper.GetString("OMDBAPIKey")
	Language = viper.GetString("tmdb.language")
	FallbackLanguage = viper.GetString("tmdb.fallback_language")
}

// SetOverwriteFiles sets the OverwriteFiles flag
func SetOverwriteFiles(overwrite bool) {
	OverwriteFiles = overwrite
}

// Languages returns the search language preference order with duplicates
// removed. The primary language always comes first.
func Languages() []string {
	langs := []string{Language}
	if FallbackLanguage != "" && FallbackLanguage != Language {
		langs = append(langs, FallbackLanguage)
	}
	return langs
}
