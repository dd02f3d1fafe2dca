// Package inbox implements the InboxScanner port over the local
// filesystem: one subdirectory per batch under a single root, holding
// the raw image files that reconciliation treats as ground truth.
package inbox

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
	"github.com/stockpile-labs/stockpile-cli/internal/core/ports/driven"
)

// Ensure Scanner implements the interface.
var _ driven.InboxScanner = (*Scanner)(nil)

// imageExts is the allow-list of inventory file extensions.
// Everything else in a batch directory is ignored.
var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Scanner reads batch directories under a single inbox root.
type Scanner struct {
	root string
}

// NewScanner creates a scanner rooted at the inbox directory.
func NewScanner(root string) *Scanner {
	return &Scanner{root: root}
}

// BatchIDs returns one candidate batch per subdirectory of the root.
// Directories whose names fail identifier validation are skipped rather
// than carried into store keys. A missing root yields no batches.
func (s *Scanner) BatchIDs() ([]string, error) {
	entries, err := os.ReadDir(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read inbox root: %w", err)
	}

	var ids []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if domain.ValidateID(e.Name()) != nil {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

// Images returns the allow-listed image file names in a batch directory,
// in the sorted order os.ReadDir provides. A missing directory yields no
// images.
func (s *Scanner) Images(batchID string) ([]string, error) {
	if err := domain.ValidateID(batchID); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(filepath.Join(s.root, batchID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read batch dir %s: %w", batchID, err)
	}

	var images []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		images = append(images, e.Name())
	}
	return images, nil
}

// Root returns the inbox root directory.
func (s *Scanner) Root() string {
	return s.root
}
