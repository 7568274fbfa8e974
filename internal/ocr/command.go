package ocr

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

const defaultCommand = "tesseract"

// CommandEngine shells out to an external OCR binary. The default
// invocation matches tesseract's CLI: `tesseract <image> stdout [args]`.
type CommandEngine struct {
	binary string
	args   []string
}

// NewCommandEngine creates a CommandEngine. An empty binary falls back to
// tesseract; extraArgs are appended after the image and output arguments.
func NewCommandEngine(binary string, extraArgs []string) *CommandEngine {
	if binary == "" {
		binary = defaultCommand
	}
	return &CommandEngine{binary: binary, args: extraArgs}
}

// ExtractText runs the OCR binary over the image and returns its stdout.
func (e *CommandEngine) ExtractText(ctx context.Context, imagePath string) (string, error) {
	if imagePath == "" {
		return "", fmt.Errorf("image path is required")
	}
	if _, err := os.Stat(imagePath); err != nil {
		return "", fmt.Errorf("image not readable: %w", err)
	}

	args := append([]string{imagePath, "stdout"}, e.args...)
	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s: %w: %s", e.binary, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.String(), nil
}
