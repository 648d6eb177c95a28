package persistence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// ErrAssetIO indicates an owned asset file could not be written or removed.
// Row state is unaffected when it is returned; see HistoryStore.
var ErrAssetIO = errors.New("asset file operation failed")

// assetTimestampLayout names asset files uniquely per save even when a query
// id is reused after a delete.
const assetTimestampLayout = "20060102_150405"

// AssetStore manages the owned image files of the query history: query-side
// images under query_images/ and generated images under generated_images/,
// both inside the data directory.
type AssetStore struct {
	queryDir     string
	generatedDir string
}

// NewAssetStore creates an AssetStore rooted at dataDir, creating both asset
// directories if needed.
func NewAssetStore(dataDir string) (AssetStore, error) {
	s := AssetStore{
		queryDir:     filepath.Join(dataDir, "query_images"),
		generatedDir: filepath.Join(dataDir, "generated_images"),
	}
	for _, dir := range []string{s.queryDir, s.generatedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return AssetStore{}, fmt.Errorf("%w: create %s: %v", ErrAssetIO, dir, err)
		}
	}
	return s, nil
}

// SaveQueryImage writes a query-side image owned by the given query id and
// returns its path.
func (s AssetStore) SaveQueryImage(queryID int64, ts time.Time, data []byte) (string, error) {
	name := fmt.Sprintf("query_%d_%s.jpg", queryID, ts.Format(assetTimestampLayout))
	return s.write(filepath.Join(s.queryDir, name), data)
}

// SaveGeneratedImage writes a generated image owned by the given query id and
// returns its path.
func (s AssetStore) SaveGeneratedImage(queryID int64, ts time.Time, data []byte) (string, error) {
	name := fmt.Sprintf("gen_%d_%s.jpg", queryID, ts.Format(assetTimestampLayout))
	return s.write(filepath.Join(s.generatedDir, name), data)
}

func (s AssetStore) write(path string, data []byte) (string, error) {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("%w: write %s: %v", ErrAssetIO, path, err)
	}
	return path, nil
}

// Remove deletes an owned asset file. An already-absent file counts as
// removed so retried deletes stay idempotent.
func (s AssetStore) Remove(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: remove %s: %v", ErrAssetIO, path, err)
	}
	return nil
}
