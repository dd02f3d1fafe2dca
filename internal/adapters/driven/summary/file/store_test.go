package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockpile-labs/stockpile-cli/internal/core/domain"
)

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "summary.json")
	store := NewStore(path)

	summary := &domain.Summary{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 1, 12, 8, 0, 0, 0, time.UTC),
		Batches: []domain.Delta{
			{BatchID: "promo1", NewCount: 2, Total: 5, NewImages: []string{"c.png", "d.png"}},
		},
	}
	require.NoError(t, store.Save(summary))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, summary, loaded)
}

func TestStore_SaveOverwritesPreviousRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.json")
	store := NewStore(path)

	require.NoError(t, store.Save(&domain.Summary{RunID: "run-1"}))
	require.NoError(t, store.Save(&domain.Summary{RunID: "run-2"}))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "run-2", loaded.RunID)
}

func TestStore_LoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "absent.json"))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestStore_DefaultPath(t *testing.T) {
	store := NewStore("")
	assert.Equal(t, DefaultFileName, store.Path())

	// Saving at the default path must not try to create a directory.
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, store.Save(&domain.Summary{RunID: "run-1"}))
	_, err = os.Stat(filepath.Join(dir, DefaultFileName))
	assert.NoError(t, err)
}
