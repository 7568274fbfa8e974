package ocr

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticEngine struct {
	text string
}

func (s *staticEngine) ExtractText(context.Context, string) (string, error) {
	return s.text, nil
}

func TestDefaultMemoizesEngine(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	first := Default()
	second := Default()
	assert.Same(t, first, second)
}

func TestSetDefaultAndReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	fake := &staticEngine{text: "THE MATRIX"}
	SetDefault(fake)
	assert.Same(t, Engine(fake), Default())

	Reset()
	assert.NotSame(t, Engine(fake), Default())
}

func TestDefaultReadsConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	Reset()
	t.Cleanup(Reset)

	viper.Set("ocr.command", "custom-ocr")

	engine, ok := Default().(*CommandEngine)
	require.True(t, ok)
	assert.Equal(t, "custom-ocr", engine.binary)
}

func TestLines(t *testing.T) {
	text := "  THE MATRIX  \n\n1999\n   \nSpecial Edition\n"

	lines := Lines(text)

	assert.Equal(t, []string{"THE MATRIX", "1999", "Special Edition"}, lines)
}

func TestLinesEmpty(t *testing.T) {
	assert.Empty(t, Lines(""))
	assert.Empty(t, Lines("   \n  \n"))
}

func TestCommandEngineExtractText(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX echo binary")
	}

	imagePath := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("not really a png"), 0644))

	// echo stands in for the OCR binary: it prints its arguments, which is
	// enough to verify the invocation shape.
	engine := NewCommandEngine("echo", []string{"-l", "eng"})

	out, err := engine.ExtractText(context.Background(), imagePath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, imagePath+" stdout -l eng"), "got %q", out)
}

func TestCommandEngineMissingImage(t *testing.T) {
	engine := NewCommandEngine("echo", nil)

	_, err := engine.ExtractText(context.Background(), filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)

	_, err = engine.ExtractText(context.Background(), "")
	assert.Error(t, err)
}

func TestCommandEngineBinaryFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX false binary")
	}

	imagePath := filepath.Join(t.TempDir(), "cover.png")
	require.NoError(t, os.WriteFile(imagePath, []byte("x"), 0644))

	engine := NewCommandEngine("false", nil)

	_, err := engine.ExtractText(context.Background(), imagePath)
	assert.Error(t, err)
}
