package inbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
}

func TestScanner_BatchIDs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "promo1"), "a.png")
	writeFiles(t, filepath.Join(root, "launch-2026"))
	// A stray file at the root is not a batch.
	writeFiles(t, root, "notes.txt")
	// Directory names that would not survive as store keys are skipped.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "bad name"), 0o755))

	ids, err := NewScanner(root).BatchIDs()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"promo1", "launch-2026"}, ids)
}

func TestScanner_BatchIDs_MissingRoot(t *testing.T) {
	ids, err := NewScanner(filepath.Join(t.TempDir(), "nope")).BatchIDs()
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestScanner_Images(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, filepath.Join(root, "promo1"),
		"a.png", "b.JPG", "c.webp", "notes.txt", "thumbs.db")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "promo1", "nested"), 0o755))

	images, err := NewScanner(root).Images("promo1")
	require.NoError(t, err)
	// Extension matching is case-insensitive; non-images and
	// subdirectories are ignored.
	assert.Equal(t, []string{"a.png", "b.JPG", "c.webp"}, images)
}

func TestScanner_Images_MissingDir(t *testing.T) {
	images, err := NewScanner(t.TempDir()).Images("ghost")
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestScanner_Images_InvalidID(t *testing.T) {
	_, err := NewScanner(t.TempDir()).Images("../escape")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}
