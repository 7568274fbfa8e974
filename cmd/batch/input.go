package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lepinkainen/reelscan/internal/csvutil"
)

// titleDocument is the YAML input form with an explicit titles key.
type titleDocument struct {
	Titles []string `yaml:"titles"`
}

// LoadTitles reads a title list from a YAML file (either a bare sequence
// or a document with a titles key), a CSV file with a header row and
// titles in the first column, or, for any other extension, a plain text
// file with one title per line. Text lines starting with # are comments.
func LoadTitles(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return parseCSVTitles(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read title list: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAMLTitles(data)
	default:
		return parseTextTitles(data), nil
	}
}

func parseCSVTitles(path string) ([]string, error) {
	titles, err := csvutil.ProcessCSV(path, func(record []string) (string, error) {
		return record[0], nil
	}, csvutil.ProcessorOptions{SkipInvalid: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read title list: %w", err)
	}
	return cleanTitles(titles), nil
}

func parseYAMLTitles(data []byte) ([]string, error) {
	var doc titleDocument
	if err := yaml.Unmarshal(data, &doc); err == nil && len(doc.Titles) > 0 {
		return cleanTitles(doc.Titles), nil
	}

	var bare []string
	if err := yaml.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("failed to parse title list: %w", err)
	}
	return cleanTitles(bare), nil
}

func parseTextTitles(data []byte) []string {
	var titles []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		titles = append(titles, line)
	}
	return titles
}

func cleanTitles(titles []string) []string {
	cleaned := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title != "" {
			cleaned = append(cleaned, title)
		}
	}
	return cleaned
}
