package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	batchcmd "github.com/lepinkainen/reelscan/cmd/batch"
	resolvecmd "github.com/lepinkainen/reelscan/cmd/resolve"
	"github.com/lepinkainen/reelscan/internal/cache"
	"github.com/lepinkainen/reelscan/internal/config"
)

var (
	runResolve = resolvecmd.ResolveWithParams
	runBatch   = batchcmd.ScanWithParams
)

// CLI represents the complete command structure for the reelscan application
type CLI struct {
	// Global flags
	Overwrite bool `help:"Overwrite existing output files"`

	// Datasette flags
	Datasette   bool   `help:"Enable Datasette output" default:"true"`
	DatasetteDB string `help:"Path to SQLite database file" default:"./reelscan.db"`

	// Cache flags
	CacheDBFile string `help:"Path to cache SQLite database file" default:"./cache.db"`
	CacheTTL    string `help:"Cache time-to-live duration (e.g., 720h for 30 days)" default:"720h"`

	// Language flags
	Language         string `help:"Primary TMDB search language (e.g. fi-FI)"`
	FallbackLanguage string `help:"Fallback TMDB search language tried when the primary yields nothing"`

	Resolve ResolveCmd `cmd:"" help:"Resolve a single title or cover image to a catalog entry"`
	Batch   BatchCmd   `cmd:"" help:"Resolve a batch of titles from a file"`
	Cache   CacheCmd   `cmd:"" help:"Manage the API response cache"`
}

// ResolveCmd represents the resolve command
type ResolveCmd struct {
	Title         string `arg:"" optional:"" help:"Title text to resolve"`
	Image         string `short:"i" help:"Path to a cover image to OCR instead of a title argument"`
	Year          int    `short:"y" help:"Release year hint used to disambiguate candidates"`
	Language      string `short:"l" help:"Search language override for this resolution"`
	JSON          bool   `help:"Write the result to JSON format"`
	JSONOutput    string `help:"Path to JSON output file (defaults to json/resolve.json)"`
	Interactive   bool   `help:"Show an interactive picker when the match is uncertain"`
	DownloadCover bool   `help:"Download the matched title's poster image"`
	Output        string `short:"o" help:"Subdirectory under output directory for resolve files" default:"resolve"`
}

// BatchCmd represents the batch command
type BatchCmd struct {
	Input          string `short:"f" help:"Path to a YAML or plain-text title list"`
	JSON           bool   `help:"Write results to JSON format"`
	JSONOutput     string `help:"Path to JSON output file (defaults to json/batch.json)"`
	DownloadCovers bool   `help:"Download poster images for resolved titles"`
	Output         string `short:"o" help:"Subdirectory under output directory for batch files" default:"batch"`
}

// CacheCmd groups cache management subcommands
type CacheCmd struct {
	Invalidate cache.InvalidateCacheCmd `cmd:"" help:"Clear cached API responses for a source"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	// Create CLI instance
	var cli CLI

	// Parse command line with Kong
	ctx := kong.Parse(&cli,
		kong.Name("reelscan"),
		kong.Description("Resolve movie and series cover titles against TMDB, with OMDB rating enrichment."),
		kong.UsageOnError(),
	)

	// Update global config based on parsed flags
	updateGlobalConfig(&cli)

	// Execute the selected command
	err := ctx.Run()
	if err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("OutputDir", "./output/")
	viper.SetDefault("JSONOutputDir", "./json/")
	viper.SetDefault("OverwriteFiles", false)

	// Datasette defaults
	viper.SetDefault("datasette.enabled", true)
	viper.SetDefault("datasette.dbfile", "./reelscan.db")

	// Cache defaults
	viper.SetDefault("cache.dbfile", "./cache.db")
	viper.SetDefault("cache.ttl", "720h") // 30 days

	// Search language defaults
	viper.SetDefault("tmdb.language", "en-US")
	viper.SetDefault("tmdb.fallback_language", "en-US")

	// OCR defaults
	viper.SetDefault("ocr.command", "tesseract")

	// Enable environment variable support
	viper.AutomaticEnv()
	// Bind specific environment variables to config keys
	if err := viper.BindEnv("TMDBAPIKey", "TMDB_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}
	if err := viper.BindEnv("OMDBAPIKey", "OMDB_API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("Config file not found, writing default config file...")
			if err := viper.SafeWriteConfig(); err != nil {
				slog.Error("Error writing config file", "error", err)
			}
			os.Exit(0)
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	// Initialize global config
	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	// Update config based on CLI flags
	config.SetOverwriteFiles(cli.Overwrite)

	// Update datasette config
	viper.Set("datasette.enabled", cli.Datasette)
	viper.Set("datasette.dbfile", cli.DatasetteDB)

	// Update cache config
	viper.Set("cache.dbfile", cli.CacheDBFile)
	viper.Set("cache.ttl", cli.CacheTTL)

	// Update search languages
	if cli.Language != "" {
		viper.Set("tmdb.language", cli.Language)
		config.Language = cli.Language
	}
	if cli.FallbackLanguage != "" {
		viper.Set("tmdb.fallback_language", cli.FallbackLanguage)
		config.FallbackLanguage = cli.FallbackLanguage
	}
}

// Run methods for each command

func (r *ResolveCmd) Run() error {
	if r.Title == "" && r.Image == "" {
		return fmt.Errorf("a title argument or --image is required")
	}

	return runResolve(resolvecmd.Params{
		Title:         r.Title,
		Image:         r.Image,
		Year:          r.Year,
		Language:      r.Language,
		JSON:          r.JSON,
		JSONOutput:    r.JSONOutput,
		Interactive:   r.Interactive,
		DownloadCover: r.DownloadCover,
		OutputDir:     r.Output,
	})
}

func (b *BatchCmd) Run() error {
	// Read from config if value not provided via flag
	input := b.Input
	if input == "" {
		input = viper.GetString("batch.inputfile")
	}

	// Check if required value is still missing
	if input == "" {
		return fmt.Errorf("input file is required (provide via --input flag or batch.inputfile in config)")
	}

	return runBatch(batchcmd.Params{
		Input:          input,
		JSON:           b.JSON,
		JSONOutput:     b.JSONOutput,
		DownloadCovers: b.DownloadCovers,
		OutputDir:      b.Output,
	})
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
