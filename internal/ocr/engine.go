// Package ocr extracts cover text from images behind a black-box engine
// interface. The pipeline only sees the text; which engine produced it is
// a configuration detail.
package ocr

import (
	"context"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// Engine turns an image file into raw text.
type Engine interface {
	ExtractText(ctx context.Context, imagePath string) (string, error)
}

var (
	defaultMu     sync.Mutex
	defaultEngine Engine
)

// Default returns the process-wide engine, constructing it from
// configuration on first use. Engine construction is memoized explicitly
// rather than with sync.Once so Reset can swap configurations at runtime.
func Default() Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if defaultEngine == nil {
		defaultEngine = NewCommandEngine(
			viper.GetString("ocr.command"),
			viper.GetStringSlice("ocr.args"))
	}
	return defaultEngine
}

// SetDefault replaces the process-wide engine. Pass nil to force Default
// to rebuild from configuration on the next call.
func SetDefault(engine Engine) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultEngine = engine
}

// Reset drops the memoized engine so the next Default call re-reads the
// configuration.
func Reset() {
	SetDefault(nil)
}

// Lines splits raw OCR output into trimmed, non-empty lines in reading
// order. Cover scans usually put the title on the most prominent line,
// but that decision belongs to the caller.
func Lines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
