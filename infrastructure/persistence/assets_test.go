package persistence_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/visearch/visearch/infrastructure/persistence"
)

func TestNewAssetStoreCreatesDirectories(t *testing.T) {
	dataDir := t.TempDir()
	_, err := persistence.NewAssetStore(dataDir)
	require.NoError(t, err)

	assert.DirExists(t, filepath.Join(dataDir, "query_images"))
	assert.DirExists(t, filepath.Join(dataDir, "generated_images"))
}

func TestSaveQueryImageNaming(t *testing.T) {
	dataDir := t.TempDir()
	store, err := persistence.NewAssetStore(dataDir)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	path, err := store.SaveQueryImage(7, ts, []byte{0xFF, 0xD8})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataDir, "query_images", "query_7_20260829_150405.jpg"), path)
	assert.FileExists(t, path)
}

func TestSaveGeneratedImageNaming(t *testing.T) {
	dataDir := t.TempDir()
	store, err := persistence.NewAssetStore(dataDir)
	require.NoError(t, err)

	ts := time.Date(2026, 8, 29, 15, 4, 5, 0, time.UTC)
	path, err := store.SaveGeneratedImage(7, ts, []byte{0xFF, 0xD8})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dataDir, "generated_images", "gen_7_20260829_150405.jpg"), path)
}

func TestRemoveIdempotent(t *testing.T) {
	dataDir := t.TempDir()
	store, err := persistence.NewAssetStore(dataDir)
	require.NoError(t, err)

	path, err := store.SaveQueryImage(1, time.Now(), []byte{0xFF})
	require.NoError(t, err)

	require.NoError(t, store.Remove(path))
	assert.NoFileExists(t, path)
	assert.NoError(t, store.Remove(path), "second remove is a no-op")
	assert.NoError(t, store.Remove(""), "empty path is a no-op")
}

func TestRemoveReportsRealFailures(t *testing.T) {
	dataDir := t.TempDir()
	store, err := persistence.NewAssetStore(dataDir)
	require.NoError(t, err)

	// A non-empty directory cannot be removed with os.Remove.
	dir := filepath.Join(dataDir, "query_images")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blocker"), []byte{1}, 0o644))

	err = store.Remove(dir)
	assert.ErrorIs(t, err, persistence.ErrAssetIO)
}
