package testutil

import (
	"testing"

	"github.com/lepinkainen/reelscan/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	OverwriteFiles   bool
	TMDBAPIKey       string
	OMDBAPIKey       string
	Language         string
	FallbackLanguage string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		OverwriteFiles:   config.OverwriteFiles,
		TMDBAPIKey:       config.TMDBAPIKey,
		OMDBAPIKey:       config.OMDBAPIKey,
		Language:         config.Language,
		FallbackLanguage: config.FallbackLanguage,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
	config.TMDBAPIKey = state.TMDBAPIKey
	config.OMDBAPIKey = state.OMDBAPIKey
	config.Language = state.Language
	config.FallbackLanguage = state.FallbackLanguage
}

// ResetConfig saves the current config state and schedules restoration
// when the test completes. It also resets viper.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig sets up a test configuration with common defaults.
// It saves the current state and restores it when the test completes.
func SetTestConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	config.OverwriteFiles = true
	config.TMDBAPIKey = "test-tmdb-key"
	config.OMDBAPIKey = "test-omdb-key"
	config.Language = "en-US"
	config.FallbackLanguage = "en-US"

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfigOption is a functional option for configuring test config.
type SetTestConfigOption func(*testConfigOptions)

type testConfigOptions struct {
	overwriteFiles   bool
	tmdbAPIKey       string
	omdbAPIKey       string
	language         string
	fallbackLanguage string
}

// WithOverwriteFiles sets the OverwriteFiles option.
func WithOverwriteFiles(v bool) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.overwriteFiles = v
	}
}

// WithTMDBAPIKey sets the TMDB API key.
func WithTMDBAPIKey(key string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.tmdbAPIKey = key
	}
}

// WithOMDBAPIKey sets the OMDB API key.
func WithOMDBAPIKey(key string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.omdbAPIKey = key
	}
}

// WithLanguage sets the primary search language.
func WithLanguage(lang string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.language = lang
	}
}

// WithFallbackLanguage sets the fallback search language.
func WithFallbackLanguage(lang string) SetTestConfigOption {
	return func(o *testConfigOptions) {
		o.fallbackLanguage = lang
	}
}

// SetTestConfigWithOptions sets up a test configuration with custom options.
// It saves the current state and restores it when the test completes.
func SetTestConfigWithOptions(t *testing.T, opts ...SetTestConfigOption) {
	t.Helper()

	state := SaveConfigState()

	viper.Reset()

	options := testConfigOptions{
		overwriteFiles:   true,
		tmdbAPIKey:       "test-tmdb-key",
		omdbAPIKey:       "test-omdb-key",
		language:         "en-US",
		fallbackLanguage: "en-US",
	}

	for _, opt := range opts {
		opt(&options)
	}

	config.OverwriteFiles = options.overwriteFiles
	config.TMDBAPIKey = options.tmdbAPIKey
	config.OMDBAPIKey = options.omdbAPIKey
	config.Language = options.language
	config.FallbackLanguage = options.fallbackLanguage

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetViperValue sets a viper configuration value and schedules cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)

	viper.Set(key, value)

	t.Cleanup(func() {
		if hadValue {
			viper.Set(key, oldValue)
		}
		// Note: viper doesn't have an Unset function, so we can't
		// restore the "unset" state. This is a known limitation.
	})
}

// SetupTestCache configures viper for test caching with a temporary directory.
// It creates the cache directory and sets up viper configuration.
func SetupTestCache(t *testing.T, env *TestEnv) string {
	t.Helper()

	cacheDir := env.Path("cache")
	env.MkdirAll("cache")

	viper.Set("cache.dbfile", env.Path("cache", "test-cache.db"))
	viper.Set("cache.ttl", "24h")

	return cacheDir
}

// SetupDatasetteDB configures the scan history database for E2E tests.
// It creates a temporary database file and configures viper with automatic cleanup.
// Returns the database path.
func SetupDatasetteDB(t *testing.T, env *TestEnv) string {
	t.Helper()

	dbPath := env.Path("test.db")

	SetViperValue(t, "datasette.enabled", true)
	SetViperValue(t, "datasette.dbfile", dbPath)

	return dbPath
}
