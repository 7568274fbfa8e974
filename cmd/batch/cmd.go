// Package batch implements the batch resolution command: a title list
// file resolved with bounded concurrency, with JSON output, optional
// cover downloads, and scan history rows.
package batch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/reelscan/internal/cmdutil"
	"github.com/lepinkainen/reelscan/internal/config"
	"github.com/lepinkainen/reelscan/internal/enrichment"
	"github.com/lepinkainen/reelscan/internal/fileutil"
	"github.com/lepinkainen/reelscan/internal/omdb"
	resolver "github.com/lepinkainen/reelscan/internal/resolve"
	"github.com/lepinkainen/reelscan/internal/tmdb"
)

// Params carries the batch command's flag values.
type Params struct {
	Input          string
	JSON           bool
	JSONOutput     string
	DownloadCovers bool
	OutputDir      string
}

// ScanWithParams resolves every title in the input file.
func ScanWithParams(params Params) error {
	if config.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB API key is required (set TMDB_API_KEY or TMDBAPIKey in config)")
	}

	titles, err := LoadTitles(params.Input)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		return fmt.Errorf("no titles found in %s", params.Input)
	}

	client := tmdb.NewClient(config.TMDBAPIKey)
	res := resolver.New(client.Cached(), config.Languages())

	var ratings enrichment.RatingSource
	if config.OMDBAPIKey != "" {
		ratings = omdb.NewClient(config.OMDBAPIKey)
	} else {
		slog.Info("OMDB API key not set, skipping rating enrichment")
	}
	service := enrichment.NewService(res, ratings)

	cfg := &cmdutil.BaseCommandConfig{
		OutputDir:  params.OutputDir,
		ConfigKey:  "batch",
		JSONOutput: params.JSONOutput,
		WriteJSON:  params.JSON,
	}
	if err := cmdutil.SetupOutputDir(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	slog.Info("Resolving titles", "count", len(titles), "input", params.Input)
	results := service.ResolveTitles(ctx, titles, resolver.Options{})

	var resolved, failed int
	for _, result := range results {
		switch {
		case result.Err != "":
			failed++
			fmt.Printf("%s: error: %s\n", result.SourceTitle, result.Err)
		case result.Match == nil:
			fmt.Printf("%s: no match\n", result.SourceTitle)
		default:
			resolved++
			fmt.Printf("%s -> %s (%d) [%s] %s\n",
				result.SourceTitle, result.Match.Title, result.Match.Year,
				result.Match.MediaType, result.Match.IMDbID)
		}
	}

	if params.DownloadCovers {
		downloadCovers(client, results, cfg.OutputDir)
	}

	if params.JSON {
		if _, err := fileutil.WriteJSONFile(results, cfg.JSONOutput, true); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		slog.Info("Wrote JSON output", "path", cfg.JSONOutput)
	}

	rows := make([]enrichment.EnrichedResult, 0, len(results))
	for _, result := range results {
		rows = append(rows, *result)
	}
	if err := enrichment.WriteScanHistory(rows); err != nil {
		slog.Error("Failed to write scan history", "error", err)
	}

	slog.Info("Batch finished",
		"titles", len(titles), "resolved", resolved,
		"unmatched", len(titles)-resolved-failed, "errors", failed)
	return nil
}

func downloadCovers(client *tmdb.Client, results []*enrichment.EnrichedResult, outputDir string) {
	for _, result := range results {
		if result.Match == nil {
			continue
		}

		coverURL, err := client.CoverURL(result.Match.Candidate)
		if err != nil {
			slog.Debug("No poster for title", "title", result.Match.Title)
			continue
		}

		downloaded, err := fileutil.DownloadCover(fileutil.CoverDownloadOptions{
			URL:       coverURL,
			OutputDir: outputDir,
			Filename:  fileutil.SanitizeFilename(result.Match.Title) + " - cover.jpg",
			Overwrite: config.OverwriteFiles,
		})
		if err != nil {
			slog.Warn("Cover download failed", "title", result.Match.Title, "error", err)
			continue
		}
		if downloaded != nil && downloaded.Downloaded {
			slog.Info("Downloaded cover", "path", downloaded.LocalPath)
		}
	}
}
