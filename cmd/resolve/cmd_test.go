package resolve

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/reelscan/internal/config"
	"github.com/lepinkainen/reelscan/internal/enrichment"
	"github.com/lepinkainen/reelscan/internal/match"
	"github.com/lepinkainen/reelscan/internal/ocr"
	resolver "github.com/lepinkainen/reelscan/internal/resolve"
)

type fakeEngine struct {
	text string
	err  error
}

func (f fakeEngine) ExtractText(_ context.Context, _ string) (string, error) {
	return f.text, f.err
}

func TestInputTitlePlainText(t *testing.T) {
	title, err := inputTitle(context.Background(), Params{Title: "INCEPTION 2010"})
	require.NoError(t, err)
	assert.Equal(t, "INCEPTION 2010", title)
}

func TestInputTitleFromImage(t *testing.T) {
	t.Cleanup(ocr.Reset)
	ocr.SetDefault(fakeEngine{text: "THE\nMATRIX\n"})

	title, err := inputTitle(context.Background(), Params{Image: "cover.jpg"})
	require.NoError(t, err)
	assert.Equal(t, "THE MATRIX", title)
}

func TestInputTitleImageWithoutText(t *testing.T) {
	t.Cleanup(ocr.Reset)
	ocr.SetDefault(fakeEngine{text: "  \n\n "})

	_, err := inputTitle(context.Background(), Params{Image: "cover.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no text found")
}

func TestInputTitleExtractionError(t *testing.T) {
	t.Cleanup(ocr.Reset)
	ocr.SetDefault(fakeEngine{err: errors.New("binary not found")})

	_, err := inputTitle(context.Background(), Params{Image: "cover.jpg"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "text extraction failed")
}

func TestNeedsReview(t *testing.T) {
	unresolved := &enrichment.EnrichedResult{SourceTitle: "XJQZ"}
	assert.True(t, needsReview(unresolved))

	low := &enrichment.EnrichedResult{
		Match: &resolver.ResolvedMatch{Confidence: match.ConfidenceLow},
	}
	assert.True(t, needsReview(low))

	high := &enrichment.EnrichedResult{
		Match: &resolver.ResolvedMatch{Confidence: match.ConfidenceHigh},
	}
	assert.False(t, needsReview(high))
}

func TestResolveWithParamsRequiresAPIKey(t *testing.T) {
	orig := config.TMDBAPIKey
	t.Cleanup(func() { config.TMDBAPIKey = orig })
	config.TMDBAPIKey = ""

	err := ResolveWithParams(Params{Title: "Heat"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TMDB API key is required")
}
