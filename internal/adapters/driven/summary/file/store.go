// Package file implements the SummaryStore port as a single JSON file,
// overwritten on each reconciliation run. The file is a hand-off point
// for the notification channel, not an authoritative record.
package file

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
)

// DefaultFileName is used when no path is configured.
const DefaultFileName = ".ingestion-summary.json"

// Ensure Store implements the interface.
var _ driven.SummaryStore = (*Store)(nil)

// Store writes reconciliation summaries to one JSON file.
type Store struct {
	path string
}

// NewStore creates a summary store at path. An empty path defaults to
// DefaultFileName in the working directory.
func NewStore(path string) *Store {
	if path == "" {
		path = DefaultFileName
	}
	return &Store{path: path}
}

// Save overwrites the summary file with the latest run.
func (s *Store) Save(summary *domain.Summary) error {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	data = append(data, '\n')

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create summary dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}

// Load reads the most recently saved summary.
func (s *Store) Load() (*domain.Summary, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read summary: %w", err)
	}
	var summary domain.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, fmt.Errorf("decode summary: %w", err)
	}
	return &summary, nil
}

// Path returns the summary file path.
func (s *Store) Path() string {
	return s.path
}
