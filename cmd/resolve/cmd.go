// Package resolve implements the single-title resolution command: an
// optional OCR pass over a cover image, the resolution cascade, rating
// enrichment, and the interactive picker for uncertain matches.
package resolve

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/lepinkainen/reelscan/internal/cmdutil"
	"github.com/lepinkainen/reelscan/internal/config"
	"github.com/lepinkainen/reelscan/internal/enrichment"
	reelerrors "github.com/lepinkainen/reelscan/internal/errors"
	"github.com/lepinkainen/reelscan/internal/fileutil"
	"github.com/lepinkainen/reelscan/internal/match"
	"github.com/lepinkainen/reelscan/internal/ocr"
	"github.com/lepinkainen/reelscan/internal/omdb"
	resolver "github.com/lepinkainen/reelscan/internal/resolve"
	"github.com/lepinkainen/reelscan/internal/tmdb"
	"github.com/lepinkainen/reelscan/internal/tui"
)

// Params carries the resolve command's flag values.
type Params struct {
	Title         string
	Image         string
	Year          int
	Language      string
	JSON          bool
	JSONOutput    string
	Interactive   bool
	DownloadCover bool
	OutputDir     string
}

// ResolveWithParams runs one resolution end to end.
func ResolveWithParams(params Params) error {
	if config.TMDBAPIKey == "" {
		return fmt.Errorf("TMDB API key is required (set TMDB_API_KEY or TMDBAPIKey in config)")
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
		ConfigKey:  "resolve",
		JSONOutput: params.JSONOutput,
		WriteJSON:  params.JSON,
	}
	if err := cmdutil.SetupOutputDir(cfg); err != nil {
		return err
	}

	ctx := context.Background()

	title, err := inputTitle(ctx, params)
	if err != nil {
		return err
	}

	opts := resolver.Options{Language: params.Language, Year: params.Year}
	result := service.ResolveTitle(ctx, title, opts)

	if params.Interactive && needsReview(result) {
		confirmed, err := pickCandidate(ctx, res, service, title, opts)
		if err != nil {
			if reelerrors.IsStopProcessingError(err) {
				slog.Info("Selection stopped by user")
				return nil
			}
			return err
		}
		if confirmed != nil {
			result = confirmed
		}
	}

	printResult(result)

	if params.DownloadCover && result.Match != nil {
		if err := downloadCover(ctx, client, result.Match, cfg.OutputDir); err != nil {
			slog.Warn("Cover download failed", "title", result.Match.Title, "error", err)
		}
	}

	if params.JSON {
		if _, err := fileutil.WriteJSONFile(result, cfg.JSONOutput, true); err != nil {
			return fmt.Errorf("failed to write JSON output: %w", err)
		}
		slog.Info("Wrote JSON output", "path", cfg.JSONOutput)
	}

	if err := enrichment.WriteScanHistory([]enrichment.EnrichedResult{*result}); err != nil {
		slog.Error("Failed to write scan history", "error", err)
	}

	return nil
}

// inputTitle returns the title text to resolve, running OCR when the
// input is a cover image instead of a title argument.
func inputTitle(ctx context.Context, params Params) (string, error) {
	if params.Image == "" {
		return params.Title, nil
	}

	text, err := ocr.Default().ExtractText(ctx, params.Image)
	if err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}

	lines := ocr.Lines(text)
	if len(lines) == 0 {
		return "", fmt.Errorf("no text found in %s", params.Image)
	}

	// Cover art often splits a title across lines.
	title := strings.Join(lines, " ")
	slog.Info("Extracted cover text", "image", params.Image, "title", title)
	return title, nil
}

func needsReview(result *enrichment.EnrichedResult) bool {
	return result.Match == nil || result.Match.Confidence != match.ConfidenceHigh
}

// pickCandidate offers the mixed search results in the interactive picker
// and enriches whatever the user confirms. Returns nil when the user
// skips or nothing is offered.
func pickCandidate(ctx context.Context, res *resolver.Resolver, service *enrichment.Service, title string, opts resolver.Options) (*enrichment.EnrichedResult, error) {
	candidates, err := res.Candidates(ctx, title, opts)
	if err != nil {
		return nil, fmt.Errorf("candidate search failed: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	selection, err := tui.Select(title, candidates)
	if err != nil {
		return nil, err
	}

	switch selection.Action {
	case tui.ActionSelected:
		matched := res.Confirm(ctx, title, *selection.Selection, opts)
		return service.EnrichMatch(ctx, title, matched), nil
	case tui.ActionStopped:
		return nil, reelerrors.NewStopProcessingError("selection stopped")
	default:
		return nil, nil
	}
}

func printResult(result *enrichment.EnrichedResult) {
	if result.Err != "" {
		fmt.Printf("%s: resolution failed: %s\n", result.SourceTitle, result.Err)
		return
	}
	if result.Match == nil {
		fmt.Printf("%s: no match found\n", result.SourceTitle)
		return
	}

	m := result.Match
	fmt.Printf("%s (%d) [%s] %s\n", m.Title, m.Year, m.MediaType, m.IMDbID)
	fmt.Printf("  score %.1f, confidence %s\n", m.Score, m.Confidence)
	if result.Rating != nil {
		votes := "unknown"
		if result.Votes != nil {
			votes = *result.Votes
		}
		fmt.Printf("  IMDb rating %.1f (%s votes)\n", *result.Rating, votes)
	}
}

func downloadCover(ctx context.Context, client *tmdb.Client, matched *resolver.ResolvedMatch, outputDir string) error {
	coverURL, err := client.CoverURL(matched.Candidate)
	if err != nil {
		return err
	}

	filename := fileutil.SanitizeFilename(matched.Title) + " - cover.jpg"
	savePath := filepath.Join(outputDir, "covers", filename)

	if fileutil.FileExists(savePath) && !config.OverwriteFiles {
		slog.Debug("Cover already exists, skipping download", "path", savePath)
		return nil
	}

	if err := client.DownloadAndResizeImage(ctx, coverURL, savePath, 0); err != nil {
		return err
	}
	slog.Info("Downloaded cover", "path", savePath)
	return nil
}
